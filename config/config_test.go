package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krxproject/krxd/config"
	"github.com/krxproject/krxd/keycode"
)

func mustIdentifier(t *testing.T, pattern string) config.DeviceIdentifier {
	t.Helper()

	var (
		id  config.DeviceIdentifier
		err error
	)

	id, err = config.NewDeviceIdentifier(pattern)
	require.NoError(t, err)

	return id
}

func TestDeviceIdentifierMatch(t *testing.T) {
	var tests = []struct {
		name      string
		pattern   string
		candidate string
		want      bool
	}{
		{"exact match", "Logitech K840", "Logitech K840", true},
		{"exact case-insensitive", "Logitech K840", "LOGITECH k840", true},
		{"exact mismatch", "Logitech K840", "Logitech K120", false},
		{"prefix match", "Logitech*", "Logitech K840", true},
		{"prefix mismatch", "Logitech*", "Dell KB216", false},
		{"suffix match", "*Keyboard", "Dell USB Keyboard", true},
		{"contains match", "*USB*", "Dell USB Keyboard", true},
		{"wildcard matches anything", "*", "anything at all", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id = mustIdentifier(t, tt.pattern)

			assert.Equal(t, tt.want, id.Match(tt.candidate))
		})
	}
}

func TestSimpleMapping(t *testing.T) {
	var m = config.Simple(keycode.A, keycode.B)

	assert.Equal(t, config.SimpleMapping, m.Kind)
	assert.Equal(t, keycode.A, m.From)
	assert.Equal(t, keycode.B, m.To)
}

func TestKeyMappingConditional(t *testing.T) {
	var (
		base = config.Simple(keycode.H, keycode.Left)
		cond = config.ModifierActive(0)
		km   = config.NewConditionalMapping(cond, []config.BaseKeyMapping{base})
	)

	require.True(t, km.IsConditional())
	assert.Equal(t, config.ModifierActiveCondition, km.Condition.Kind)
	assert.Len(t, km.Mappings, 1)
}

func TestKeyEventHasDeviceID(t *testing.T) {
	var withID = config.NewKeyEvent(config.Press, keycode.A, "event3", 1000)
	assert.True(t, withID.HasDeviceID)

	var withoutID = config.NewKeyEvent(config.Press, keycode.A, "", 1000)
	assert.False(t, withoutID.HasDeviceID)
}

func TestVersionString(t *testing.T) {
	assert.Equal(t, "1.0.0", config.CurrentVersion.String())
}
