package lookup_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krxproject/krxd/config"
	"github.com/krxproject/krxd/keycode"
	"github.com/krxproject/krxd/lookup"
	"github.com/krxproject/krxd/state"
)

func TestResolveSimple(t *testing.T) {
	var dev = config.DeviceConfig{
		Mappings: []config.KeyMapping{
			config.NewBaseMapping(config.Simple(keycode.A, keycode.B)),
		},
	}

	var (
		l  = lookup.Build(dev)
		s  = state.New()
	)

	var mapping, ok = l.Resolve(keycode.A, s, "", false)
	require.True(t, ok)
	assert.Equal(t, config.SimpleMapping, mapping.Kind)
	assert.Equal(t, keycode.B, mapping.To)
}

func TestResolveNoMatchIsPassthrough(t *testing.T) {
	var (
		l = lookup.Build(config.DeviceConfig{})
		s = state.New()
	)

	var _, ok = l.Resolve(keycode.A, s, "", false)
	assert.False(t, ok)
}

func TestResolveFirstAuthoringOrderWins(t *testing.T) {
	var dev = config.DeviceConfig{
		Mappings: []config.KeyMapping{
			config.NewBaseMapping(config.Simple(keycode.A, keycode.B)),
			config.NewBaseMapping(config.Simple(keycode.A, keycode.C)),
		},
	}

	var (
		l = lookup.Build(dev)
		s = state.New()
	)

	var mapping, ok = l.Resolve(keycode.A, s, "", false)
	require.True(t, ok)
	assert.Equal(t, keycode.B, mapping.To)
}

func TestResolveConditionalFallsThroughWhenFalse(t *testing.T) {
	var dev = config.DeviceConfig{
		Mappings: []config.KeyMapping{
			config.NewConditionalMapping(
				config.ModifierActive(0),
				[]config.BaseKeyMapping{config.Simple(keycode.H, keycode.Left)},
			),
		},
	}

	var (
		l = lookup.Build(dev)
		s = state.New()
	)

	var _, ok = l.Resolve(keycode.H, s, "", false)
	assert.False(t, ok, "condition false: H should pass through")

	s.SetModifier(0)

	var mapping, ok2 = l.Resolve(keycode.H, s, "", false)
	require.True(t, ok2)
	assert.Equal(t, keycode.Left, mapping.To)
}

func TestResolveConditionalThenUnconditionalFallback(t *testing.T) {
	var dev = config.DeviceConfig{
		Mappings: []config.KeyMapping{
			config.NewConditionalMapping(
				config.ModifierActive(0),
				[]config.BaseKeyMapping{config.Simple(keycode.H, keycode.Left)},
			),
			config.NewBaseMapping(config.Simple(keycode.H, keycode.J)),
		},
	}

	var (
		l = lookup.Build(dev)
		s = state.New()
	)

	var mapping, ok = l.Resolve(keycode.H, s, "", false)
	require.True(t, ok)
	assert.Equal(t, keycode.J, mapping.To, "condition false, unconditional entry after it wins")
}
