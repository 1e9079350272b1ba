// Package lookup builds the O(1) key resolver the hot path consults on
// every input event.
package lookup

import (
	"github.com/krxproject/krxd/config"
	"github.com/krxproject/krxd/keycode"
	"github.com/krxproject/krxd/state"
)

// candidate is one entry in a per-key candidate list: a BaseKeyMapping
// together with the Condition that must hold for it to apply (nil for
// an unconditional Base mapping).
type candidate struct {
	cond *config.Condition
	base config.BaseKeyMapping
}

// KeyLookup answers "given an input key and the current device state,
// which mapping wins?" in O(1) amortized. It is built once from a
// DeviceConfig and is immutable and safe for concurrent read-only use
// afterward; a configuration reload replaces it wholesale.
type KeyLookup struct {
	byKey map[keycode.Code][]candidate
}

// Build constructs a KeyLookup from dev's mapping list, preserving
// authoring order within each key's candidate list.
func Build(dev config.DeviceConfig) *KeyLookup {
	var index = make(map[keycode.Code][]candidate)

	for _, mapping := range dev.Mappings {
		if mapping.IsConditional() {
			for _, base := range mapping.Mappings {
				index[base.From] = append(index[base.From], candidate{
					cond: mapping.Condition,
					base: base,
				})
			}

			continue
		}

		index[mapping.Base.From] = append(index[mapping.Base.From], candidate{
			base: *mapping.Base,
		})
	}

	return &KeyLookup{byKey: index}
}

// Resolve returns the winning BaseKeyMapping for key given the current
// DeviceState and the originating event's device identifier, and true.
// It returns (zero value, false) when no mapping applies — the caller
// treats this as a passthrough.
func (l *KeyLookup) Resolve(key keycode.Code, s *state.DeviceState, deviceID string, hasDeviceID bool) (config.BaseKeyMapping, bool) {
	var candidates = l.byKey[key]

	for _, c := range candidates {
		if c.cond == nil {
			return c.base, true
		}

		if s.EvaluateCondition(*c.cond, deviceID, hasDeviceID) {
			return c.base, true
		}
	}

	return config.BaseKeyMapping{}, false
}
