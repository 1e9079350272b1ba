package taphold_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krxproject/krxd/keycode"
	"github.com/krxproject/krxd/taphold"
)

func cfg() taphold.Config {
	return taphold.Config{TapKey: keycode.Space, HoldModifierID: 1, ThresholdUs: 200_000}
}

func TestStateTransitions(t *testing.T) {
	var s = taphold.NewState(keycode.Space, cfg())

	assert.Equal(t, taphold.Idle, s.Phase())

	s.TransitionToPending(1000)
	assert.Equal(t, taphold.Pending, s.Phase())
	assert.Equal(t, uint64(1000), s.PressTimeUs())

	assert.False(t, s.ThresholdExceeded(100_000+1000))
	assert.True(t, s.ThresholdExceeded(300_000+1000))

	s.TransitionToHold()
	assert.Equal(t, taphold.Hold, s.Phase())

	s.TransitionToIdle()
	assert.Equal(t, taphold.Idle, s.Phase())
	assert.Equal(t, uint64(0), s.PressTimeUs())
}

func TestStateIgnoresMalformedTransitions(t *testing.T) {
	var s = taphold.NewState(keycode.Space, cfg())

	s.TransitionToHold()
	assert.Equal(t, taphold.Idle, s.Phase(), "Hold from Idle must no-op")

	s.TransitionToPending(1)
	s.TransitionToPending(2)
	assert.Equal(t, uint64(1), s.PressTimeUs(), "re-Pending from Pending must no-op")
}

func TestRegistryStartPendingAndRelease(t *testing.T) {
	var r = taphold.NewRegistry(16, nil)

	r.StartPending(keycode.Space, cfg(), 0)

	var s, ok = r.Get(keycode.Space)
	require.True(t, ok)
	assert.Equal(t, taphold.Pending, s.Phase())

	var phase = r.Release(keycode.Space)
	assert.Equal(t, taphold.Pending, phase)

	var _, stillThere = r.Get(keycode.Space)
	assert.False(t, stillThere)
}

func TestRegistryEvictsOldestOnOverflow(t *testing.T) {
	var r = taphold.NewRegistry(2, nil)

	r.StartPending(keycode.A, taphold.Config{TapKey: keycode.A, ThresholdUs: 1}, 0)
	r.StartPending(keycode.B, taphold.Config{TapKey: keycode.B, ThresholdUs: 1}, 0)
	assert.Equal(t, 2, r.Len())

	r.StartPending(keycode.C, taphold.Config{TapKey: keycode.C, ThresholdUs: 1}, 0)
	assert.Equal(t, 2, r.Len(), "registry must not grow past capacity")

	var _, aStillThere = r.Get(keycode.A)
	assert.False(t, aStillThere, "oldest entry (A) must be evicted")

	var _, cThere = r.Get(keycode.C)
	assert.True(t, cThere)
}

func TestRegistryCheckTimeouts(t *testing.T) {
	var r = taphold.NewRegistry(16, nil)

	r.StartPending(keycode.Space, cfg(), 0)

	var result = r.CheckTimeouts(100_000)
	assert.Empty(t, result.Promoted)

	var result2 = r.CheckTimeouts(300_000)
	require.Len(t, result2.Promoted, 1)
	assert.Equal(t, keycode.Space, result2.Promoted[0])

	var s, _ = r.Get(keycode.Space)
	assert.Equal(t, taphold.Hold, s.Phase())
}

func TestRegistryPromotePendingExceptExcludesTrigger(t *testing.T) {
	var r = taphold.NewRegistry(16, nil)

	r.StartPending(keycode.Space, cfg(), 0)
	r.StartPending(keycode.CapsLock, cfg(), 0)

	var promoted = r.PromotePendingExcept(keycode.Space)
	require.Len(t, promoted, 1)
	assert.Equal(t, keycode.CapsLock, promoted[0])

	var spaceState, _ = r.Get(keycode.Space)
	assert.Equal(t, taphold.Pending, spaceState.Phase())

	var capsState, _ = r.Get(keycode.CapsLock)
	assert.Equal(t, taphold.Hold, capsState.Phase())
}

func TestRegistryResetClearsEntries(t *testing.T) {
	var r = taphold.NewRegistry(16, nil)

	r.StartPending(keycode.Space, cfg(), 0)
	r.Reset()

	assert.Equal(t, 0, r.Len())
}
