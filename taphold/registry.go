package taphold

import (
	"github.com/sirupsen/logrus"

	"github.com/krxproject/krxd/keycode"
)

// DefaultMaxPending is the hard cap on simultaneously tracked tap-hold
// keys. Exceeding it evicts the oldest entry so that pathological input
// (holding many tap-hold keys at once) cannot grow the registry
// unbounded.
const DefaultMaxPending = 16

// TimeoutResult reports which keys promoted to Hold during a timeout
// check.
type TimeoutResult struct {
	Promoted []keycode.Code
}

// Registry is the bounded map from physical key to its live tap-hold
// State. Entries exist only while a key is Pending or Hold; a released
// key is removed entirely rather than retained as Idle.
type Registry struct {
	maxPending int
	entries    map[keycode.Code]*State
	order      []keycode.Code
	log        *logrus.Logger
}

// NewRegistry returns an empty Registry with the given capacity. A nil
// logger disables eviction logging (tests commonly pass nil).
func NewRegistry(maxPending int, log *logrus.Logger) *Registry {
	if maxPending <= 0 {
		maxPending = DefaultMaxPending
	}

	return &Registry{
		maxPending: maxPending,
		entries:    make(map[keycode.Code]*State),
		log:        log,
	}
}

// Get returns the tracked State for key, if any.
func (r *Registry) Get(key keycode.Code) (*State, bool) {
	var s, ok = r.entries[key]

	return s, ok
}

// StartPending creates a new Pending entry for key under cfg at
// timestamp, evicting the oldest tracked entry first if the registry is
// already at capacity.
func (r *Registry) StartPending(key keycode.Code, cfg Config, timestamp uint64) *State {
	if existing, ok := r.entries[key]; ok {
		existing.TransitionToPending(timestamp)

		return existing
	}

	if len(r.entries) >= r.maxPending {
		r.evictOldest()
	}

	var s = NewState(key, cfg)
	s.TransitionToPending(timestamp)
	r.entries[key] = s
	r.order = append(r.order, key)

	return s
}

// Release removes key's entry entirely, returning the phase it was in
// immediately before removal (Idle if it was not tracked).
func (r *Registry) Release(key keycode.Code) Phase {
	var s, ok = r.entries[key]
	if !ok {
		return Idle
	}

	var phase = s.Phase()

	delete(r.entries, key)
	r.removeFromOrder(key)

	return phase
}

// CheckTimeouts promotes every Pending entry whose threshold has
// elapsed as of now to Hold, returning the set of keys promoted.
func (r *Registry) CheckTimeouts(now uint64) TimeoutResult {
	var result TimeoutResult

	for key, s := range r.entries {
		if s.Phase() == Pending && s.ThresholdExceeded(now) {
			s.TransitionToHold()
			result.Promoted = append(result.Promoted, key)
		}
	}

	return result
}

// PromotePendingExcept transitions every other Pending entry to Hold
// (permissive hold): any tap-hold key still waiting on its own
// threshold is resolved to its hold meaning the moment a different
// physical key is pressed. The interrupting key itself is excluded by
// except.
func (r *Registry) PromotePendingExcept(except keycode.Code) []keycode.Code {
	var promoted []keycode.Code

	for key, s := range r.entries {
		if key == except {
			continue
		}

		if s.Phase() == Pending {
			s.TransitionToHold()
			promoted = append(promoted, key)
		}
	}

	return promoted
}

// Reset removes every tracked entry, as required when DeviceState is
// reset on configuration reload.
func (r *Registry) Reset() {
	r.entries = make(map[keycode.Code]*State)
	r.order = nil
}

// Len reports the number of tracked entries.
func (r *Registry) Len() int {
	return len(r.entries)
}

func (r *Registry) evictOldest() {
	if len(r.order) == 0 {
		return
	}

	var oldest = r.order[0]
	r.order = r.order[1:]
	delete(r.entries, oldest)

	if r.log != nil {
		r.log.WithFields(logrus.Fields{
			"key":         oldest,
			"max_pending": r.maxPending,
		}).Warn("taphold: pending registry full, evicted oldest entry")
	}
}

func (r *Registry) removeFromOrder(key keycode.Code) {
	for i, k := range r.order {
		if k == key {
			r.order = append(r.order[:i], r.order[i+1:]...)

			return
		}
	}
}
