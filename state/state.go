// Package state holds the per-device runtime bitsets the event
// processor mutates and the condition evaluator that consults them.
package state

import "github.com/krxproject/krxd/config"

// bitWords is the number of 64-bit words backing a 255-bit set
// (0x00-0xFE; 0xFF is reserved and never set).
const bitWords = 4

// DeviceState holds one device's (or one fleet's, at the caller's
// discretion) custom modifier and lock bitsets. All mutations are O(1)
// and allocation-free.
type DeviceState struct {
	modifiers [bitWords]uint64
	locks     [bitWords]uint64
}

// New returns a DeviceState with every modifier and lock bit clear.
func New() *DeviceState {
	return &DeviceState{}
}

// SetModifier sets modifier bit id.
func (s *DeviceState) SetModifier(id uint8) {
	setBit(&s.modifiers, id)
}

// ClearModifier clears modifier bit id.
func (s *DeviceState) ClearModifier(id uint8) {
	clearBit(&s.modifiers, id)
}

// IsModifierActive reports whether modifier bit id is set.
func (s *DeviceState) IsModifierActive(id uint8) bool {
	return testBit(&s.modifiers, id)
}

// ToggleLock flips lock bit id and returns its new value.
func (s *DeviceState) ToggleLock(id uint8) bool {
	if testBit(&s.locks, id) {
		clearBit(&s.locks, id)

		return false
	}

	setBit(&s.locks, id)

	return true
}

// IsLockActive reports whether lock bit id is set.
func (s *DeviceState) IsLockActive(id uint8) bool {
	return testBit(&s.locks, id)
}

// Reset clears every modifier and lock bit. Callers that also own a
// taphold.Registry must reset it separately: DeviceState has no
// knowledge of tap-hold state.
func (s *DeviceState) Reset() {
	*s = DeviceState{}
}

// EvaluateCondition reports whether cond holds against s and the
// originating event's device identifier. An absent device identifier
// (hasDeviceID == false) never satisfies a DeviceMatches condition.
func (s *DeviceState) EvaluateCondition(cond config.Condition, deviceID string, hasDeviceID bool) bool {
	switch cond.Kind {
	case config.ModifierActiveCondition:
		return s.IsModifierActive(cond.ModifierID)
	case config.LockActiveCondition:
		return s.IsLockActive(cond.LockID)
	case config.AllActiveCondition:
		return s.allItemsTrue(cond.Items)
	case config.NotActiveCondition:
		return s.allItemsFalse(cond.Items)
	case config.DeviceMatchesCondition:
		if !hasDeviceID {
			return false
		}

		return cond.DevicePattern.Match(deviceID)
	default:
		return false
	}
}

func (s *DeviceState) allItemsTrue(items []config.ConditionItem) bool {
	for _, item := range items {
		if !s.itemActive(item) {
			return false
		}
	}

	return true
}

func (s *DeviceState) allItemsFalse(items []config.ConditionItem) bool {
	for _, item := range items {
		if s.itemActive(item) {
			return false
		}
	}

	return true
}

func (s *DeviceState) itemActive(item config.ConditionItem) bool {
	if item.Kind == config.LockItem {
		return s.IsLockActive(item.ID)
	}

	return s.IsModifierActive(item.ID)
}

func setBit(words *[bitWords]uint64, id uint8) {
	words[id/64] |= 1 << (id % 64)
}

func clearBit(words *[bitWords]uint64, id uint8) {
	words[id/64] &^= 1 << (id % 64)
}

func testBit(words *[bitWords]uint64, id uint8) bool {
	return words[id/64]&(1<<(id%64)) != 0
}
