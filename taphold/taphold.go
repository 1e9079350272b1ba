// Package taphold implements the per-key tap-hold state machine and the
// bounded pending registry the event processor drives on every input
// event.
package taphold

import "github.com/krxproject/krxd/keycode"

// Phase is one of the three states a tap-hold key's instance can be in.
type Phase int

const (
	Idle Phase = iota
	Pending
	Hold
)

// String implements fmt.Stringer for readable logs and test failures.
func (p Phase) String() string {
	switch p {
	case Idle:
		return "Idle"
	case Pending:
		return "Pending"
	case Hold:
		return "Hold"
	default:
		return "Unknown"
	}
}

// Config is the immutable per-mapping configuration of a tap-hold key.
type Config struct {
	TapKey         keycode.Code
	HoldModifierID uint8
	ThresholdUs    uint64
}

// State is one tap-hold key's live instance: its phase, the time it was
// pressed, and its immutable Config.
type State struct {
	Key       keycode.Code
	phase     Phase
	pressedAt uint64
	Config    Config
}

// NewState returns a State in Idle phase for key under cfg.
func NewState(key keycode.Code, cfg Config) *State {
	return &State{Key: key, phase: Idle, Config: cfg}
}

// Phase returns the current phase.
func (s *State) Phase() Phase {
	return s.phase
}

// PressTimeUs returns the timestamp (microseconds) at which the key
// entered Pending.
func (s *State) PressTimeUs() uint64 {
	return s.pressedAt
}

// Elapsed returns now - PressTimeUs, saturating at zero.
func (s *State) Elapsed(now uint64) uint64 {
	if now < s.pressedAt {
		return 0
	}

	return now - s.pressedAt
}

// ThresholdExceeded reports whether now - PressTimeUs >= Config.ThresholdUs.
func (s *State) ThresholdExceeded(now uint64) bool {
	return s.Elapsed(now) >= s.Config.ThresholdUs
}

// TransitionToPending moves Idle -> Pending, recording timestamp as the
// press time. Calling it from a non-Idle phase is a malformed
// transition: in debug builds the caller should have checked Phase()
// first, so this is a silent no-op rather than a panic, per the
// release-mode policy on malformed state transitions.
func (s *State) TransitionToPending(timestamp uint64) {
	if s.phase != Idle {
		return
	}

	s.phase = Pending
	s.pressedAt = timestamp
}

// TransitionToHold moves Pending -> Hold, on threshold expiry or
// permissive-hold promotion. No-op from any other phase.
func (s *State) TransitionToHold() {
	if s.phase != Pending {
		return
	}

	s.phase = Hold
}

// TransitionToIdle resets to Idle from any phase, clearing the press
// timestamp. Registry.Release does not call it: it removes the entry
// outright.
func (s *State) TransitionToIdle() {
	s.phase = Idle
	s.pressedAt = 0
}
