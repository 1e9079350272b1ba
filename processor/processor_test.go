package processor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krxproject/krxd/config"
	"github.com/krxproject/krxd/keycode"
	"github.com/krxproject/krxd/lookup"
	"github.com/krxproject/krxd/processor"
	"github.com/krxproject/krxd/state"
	"github.com/krxproject/krxd/taphold"
)

func newProcessor(t *testing.T, mappings ...config.KeyMapping) (*processor.Processor, *state.DeviceState) {
	t.Helper()

	var id, err = config.NewDeviceIdentifier("*")
	require.NoError(t, err)

	var dev = config.DeviceConfig{Identifier: id, Mappings: mappings}
	var lk = lookup.Build(dev)
	var st = state.New()
	var reg = taphold.NewRegistry(taphold.DefaultMaxPending, nil)

	return processor.New(lk, st, reg, nil), st
}

// Scenario 1: simple remap.
func TestScenarioSimpleRemap(t *testing.T) {
	var p, _ = newProcessor(t, config.NewBaseMapping(config.Simple(keycode.A, keycode.B)))

	var out1 = p.ProcessEvent(config.NewKeyEvent(config.Press, keycode.A, "", 0))
	require.Len(t, out1, 1)
	assert.Equal(t, keycode.B, out1[0].Key)
	assert.Equal(t, config.Press, out1[0].Variant)

	var out2 = p.ProcessEvent(config.NewKeyEvent(config.Release, keycode.A, "", 10))
	require.Len(t, out2, 1)
	assert.Equal(t, keycode.B, out2[0].Key)
	assert.Equal(t, config.Release, out2[0].Variant)
}

// Scenario 2: custom modifier, parity after press+release.
func TestScenarioCustomModifier(t *testing.T) {
	var p, st = newProcessor(t,
		config.NewBaseMapping(config.Modifier(keycode.CapsLock, 0)),
		config.NewBaseMapping(config.Simple(keycode.A, keycode.B)),
	)

	assert.Empty(t, p.ProcessEvent(config.NewKeyEvent(config.Press, keycode.CapsLock, "", 0)))
	assert.True(t, st.IsModifierActive(0))

	var out = p.ProcessEvent(config.NewKeyEvent(config.Press, keycode.A, "", 1))
	require.Len(t, out, 1)
	assert.Equal(t, keycode.B, out[0].Key)

	var releaseOut = p.ProcessEvent(config.NewKeyEvent(config.Release, keycode.A, "", 2))
	require.Len(t, releaseOut, 1)
	assert.Equal(t, keycode.B, releaseOut[0].Key)
	assert.Equal(t, config.Release, releaseOut[0].Variant)

	assert.Empty(t, p.ProcessEvent(config.NewKeyEvent(config.Release, keycode.CapsLock, "", 3)))
	assert.False(t, st.IsModifierActive(0))
}

// Scenario 3: tap on tap-hold (quick release emits the tap key).
func TestScenarioTapOnTapHold(t *testing.T) {
	var p, st = newProcessor(t,
		config.NewBaseMapping(config.TapHold(keycode.Space, keycode.Space, 1, 200)),
	)

	assert.Empty(t, p.ProcessEvent(config.NewKeyEvent(config.Press, keycode.Space, "", 0)))

	var out = p.ProcessEvent(config.NewKeyEvent(config.Release, keycode.Space, "", 50_000))
	require.Len(t, out, 2)
	assert.Equal(t, keycode.Space, out[0].Key)
	assert.Equal(t, config.Press, out[0].Variant)
	assert.Equal(t, keycode.Space, out[1].Key)
	assert.Equal(t, config.Release, out[1].Variant)
	assert.Equal(t, uint64(50_000), out[0].TimestampUs)
	assert.False(t, st.IsModifierActive(1))
}

// Hold path: release past the threshold clears the hold modifier and
// emits nothing.
func TestScenarioHoldOnTapHold(t *testing.T) {
	var p, st = newProcessor(t,
		config.NewBaseMapping(config.TapHold(keycode.Space, keycode.Space, 1, 200)),
	)

	assert.Empty(t, p.ProcessEvent(config.NewKeyEvent(config.Press, keycode.Space, "", 0)))

	// No other event occurs before the threshold elapses; the next event
	// observed is the release itself, well past threshold.
	var out = p.ProcessEvent(config.NewKeyEvent(config.Release, keycode.Space, "", 300_000))
	assert.Empty(t, out)
	assert.False(t, st.IsModifierActive(1), "modifier must be cleared on release from Hold")
}

// Permissive hold: pressing another key while tap-hold is pending
// promotes it to Hold immediately, and the modifier is visible to the
// interrupting key's own mapping lookup.
func TestScenarioPermissiveHold(t *testing.T) {
	var p, st = newProcessor(t,
		config.NewBaseMapping(config.TapHold(keycode.Space, keycode.Space, 1, 200)),
		config.NewConditionalMapping(config.ModifierActive(1), []config.BaseKeyMapping{
			config.Simple(keycode.A, keycode.B),
		}),
	)

	assert.Empty(t, p.ProcessEvent(config.NewKeyEvent(config.Press, keycode.Space, "", 0)))
	assert.False(t, st.IsModifierActive(1))

	var out = p.ProcessEvent(config.NewKeyEvent(config.Press, keycode.A, "", 10))
	require.Len(t, out, 1)
	assert.Equal(t, keycode.B, out[0].Key, "modifier promoted by permissive hold must be visible to this lookup")
	assert.True(t, st.IsModifierActive(1))
}

// Scenario 5: conditional layer, first H matches under the modifier,
// second H (after the modifier clears) passes through.
func TestScenarioConditionalLayer(t *testing.T) {
	var p, _ = newProcessor(t,
		config.NewBaseMapping(config.Modifier(keycode.CapsLock, 0)),
		config.NewConditionalMapping(config.ModifierActive(0), []config.BaseKeyMapping{
			config.Simple(keycode.H, keycode.Left),
		}),
	)

	p.ProcessEvent(config.NewKeyEvent(config.Press, keycode.CapsLock, "", 0))

	var out1 = p.ProcessEvent(config.NewKeyEvent(config.Press, keycode.H, "", 1))
	require.Len(t, out1, 1)
	assert.Equal(t, keycode.Left, out1[0].Key)

	var out2 = p.ProcessEvent(config.NewKeyEvent(config.Release, keycode.H, "", 2))
	require.Len(t, out2, 1)
	assert.Equal(t, keycode.Left, out2[0].Key)

	p.ProcessEvent(config.NewKeyEvent(config.Release, keycode.CapsLock, "", 3))

	var out3 = p.ProcessEvent(config.NewKeyEvent(config.Press, keycode.H, "", 4))
	require.Len(t, out3, 1)
	assert.Equal(t, keycode.H, out3[0].Key, "condition no longer holds: passthrough")

	var out4 = p.ProcessEvent(config.NewKeyEvent(config.Release, keycode.H, "", 5))
	require.Len(t, out4, 1)
	assert.Equal(t, keycode.H, out4[0].Key)
}

// Scenario 6: modified output decorates the emission with physical
// modifier press/release in the documented fixed order.
func TestScenarioModifiedOutput(t *testing.T) {
	var p, _ = newProcessor(t,
		config.NewBaseMapping(config.ModifiedOutput(keycode.Num2, keycode.Num1, true, false, false, false)),
	)

	var pressOut = p.ProcessEvent(config.NewKeyEvent(config.Press, keycode.Num2, "", 0))
	require.Len(t, pressOut, 2)
	assert.Equal(t, keycode.LShift, pressOut[0].Key)
	assert.Equal(t, config.Press, pressOut[0].Variant)
	assert.Equal(t, keycode.Num1, pressOut[1].Key)
	assert.Equal(t, config.Press, pressOut[1].Variant)

	var releaseOut = p.ProcessEvent(config.NewKeyEvent(config.Release, keycode.Num2, "", 5))
	require.Len(t, releaseOut, 2)
	assert.Equal(t, keycode.Num1, releaseOut[0].Key)
	assert.Equal(t, config.Release, releaseOut[0].Variant)
	assert.Equal(t, keycode.LShift, releaseOut[1].Key)
	assert.Equal(t, config.Release, releaseOut[1].Variant)
}

func TestModifiedOutputOrderWithAllModifiers(t *testing.T) {
	var p, _ = newProcessor(t,
		config.NewBaseMapping(config.ModifiedOutput(keycode.Num2, keycode.Num1, true, true, true, true)),
	)

	var pressOut = p.ProcessEvent(config.NewKeyEvent(config.Press, keycode.Num2, "", 0))
	require.Len(t, pressOut, 5)
	assert.Equal(t, []keycode.Code{keycode.LShift, keycode.LCtrl, keycode.LAlt, keycode.LMeta, keycode.Num1},
		[]keycode.Code{pressOut[0].Key, pressOut[1].Key, pressOut[2].Key, pressOut[3].Key, pressOut[4].Key})

	var releaseOut = p.ProcessEvent(config.NewKeyEvent(config.Release, keycode.Num2, "", 1))
	require.Len(t, releaseOut, 5)
	assert.Equal(t, []keycode.Code{keycode.Num1, keycode.LMeta, keycode.LAlt, keycode.LCtrl, keycode.LShift},
		[]keycode.Code{releaseOut[0].Key, releaseOut[1].Key, releaseOut[2].Key, releaseOut[3].Key, releaseOut[4].Key})
}

// Universal invariant: passthrough preserves device_id and timestamp.
func TestPassthroughPreservesEventIdentity(t *testing.T) {
	var p, _ = newProcessor(t)

	var in = config.NewKeyEvent(config.Press, keycode.Z, "kbd0", 1234)
	var out = p.ProcessEvent(in)

	require.Len(t, out, 1)
	assert.Equal(t, in, out[0])
}

// Universal invariant: determinism under replay with identical state.
func TestDeterminismUnderReplay(t *testing.T) {
	var mapping = config.NewBaseMapping(config.Simple(keycode.A, keycode.B))

	var p1, _ = newProcessor(t, mapping)
	var p2, _ = newProcessor(t, mapping)

	var in = config.NewKeyEvent(config.Press, keycode.A, "kbd0", 42)

	assert.Equal(t, p1.ProcessEvent(in), p2.ProcessEvent(in))
}

// Universal invariant: a single input never produces more than
// DefaultMaxOutputEvents output events.
func TestOutputIsBounded(t *testing.T) {
	var p, _ = newProcessor(t,
		config.NewBaseMapping(config.ModifiedOutput(keycode.Num2, keycode.Num1, true, true, true, true)),
	)

	var out = p.ProcessEvent(config.NewKeyEvent(config.Press, keycode.Num2, "", 0))
	assert.LessOrEqual(t, len(out), processor.DefaultMaxOutputEvents)
}

// Release of a key never seen as a press is passed through unchanged.
func TestReleaseWithoutMatchingPressPassesThrough(t *testing.T) {
	var p, _ = newProcessor(t,
		config.NewBaseMapping(config.TapHold(keycode.Space, keycode.Space, 1, 200)),
	)

	var in = config.NewKeyEvent(config.Release, keycode.Space, "", 0)
	var out = p.ProcessEvent(in)

	require.Len(t, out, 1)
	assert.Equal(t, in, out[0])
}
