package author

import (
	"strconv"
	"strings"

	"github.com/krxproject/krxd/config"
	"github.com/krxproject/krxd/keycode"
)

// physicalModifierNames lists the bare key names that may never appear
// as the suffix of an MD_ identifier: physical modifiers are not
// re-encoded as custom modifiers.
var physicalModifierNames = map[string]bool{
	"LShift": true, "RShift": true,
	"LCtrl": true, "RCtrl": true,
	"LAlt": true, "RAlt": true,
	"LMeta": true, "RMeta": true,
}

// ParsePhysicalKey resolves a bare key name (no prefix), as used in the
// "from" position of map() and tap_hold().
func ParsePhysicalKey(name string) (keycode.Code, error) {
	var code, ok = keycode.ByName(name)
	if !ok {
		return 0, &UnknownKeyError{Name: name}
	}

	return code, nil
}

// ParseVirtualKey resolves a "VK_<name>" identifier.
func ParseVirtualKey(s string) (keycode.Code, error) {
	if !strings.HasPrefix(s, "VK_") {
		return 0, &MissingPrefixError{Key: s, Context: "virtual key"}
	}

	return ParsePhysicalKey(s[len("VK_"):])
}

// ParseModifierID resolves an "MD_XX" identifier into a custom modifier
// ID, rejecting physical modifier names and out-of-range values.
func ParseModifierID(s string) (uint8, error) {
	if !strings.HasPrefix(s, "MD_") {
		return 0, &MissingPrefixError{Key: s, Context: "custom modifier"}
	}

	var idPart = s[len("MD_"):]

	if physicalModifierNames[idPart] {
		return 0, &PhysicalModifierInMDError{Name: idPart}
	}

	var (
		id  uint64
		err error
	)

	id, err = strconv.ParseUint(idPart, 16, 16)
	if err != nil {
		return 0, &InvalidPrefixError{Expected: "MD_XX (hex, 00-FE)", Got: s, Context: "custom modifier ID"}
	}

	if id > config.MaxCustomID {
		return 0, &IDOutOfRangeError{Kind: "modifier", Got: uint16(id), Max: config.MaxCustomID}
	}

	return uint8(id), nil
}

// ParseLockID resolves an "LK_XX" identifier into a custom lock ID.
func ParseLockID(s string) (uint8, error) {
	if !strings.HasPrefix(s, "LK_") {
		return 0, &MissingPrefixError{Key: s, Context: "custom lock"}
	}

	var idPart = s[len("LK_"):]

	var (
		id  uint64
		err error
	)

	id, err = strconv.ParseUint(idPart, 16, 16)
	if err != nil {
		return 0, &InvalidPrefixError{Expected: "LK_XX (hex, 00-FE)", Got: s, Context: "custom lock ID"}
	}

	if id > config.MaxCustomID {
		return 0, &IDOutOfRangeError{Kind: "lock", Got: uint16(id), Max: config.MaxCustomID}
	}

	return uint8(id), nil
}

// ParseConditionString resolves a bare "MD_XX" or "LK_XX" string into a
// single-clause Condition, as accepted by when_start/when_not_start.
func ParseConditionString(s string) (config.Condition, error) {
	switch {
	case strings.HasPrefix(s, "MD_"):
		var id, err = ParseModifierID(s)
		if err != nil {
			return config.Condition{}, err
		}

		return config.ModifierActive(id), nil
	case strings.HasPrefix(s, "LK_"):
		var id, err = ParseLockID(s)
		if err != nil {
			return config.Condition{}, err
		}

		return config.LockActive(id), nil
	default:
		return config.Condition{}, &InvalidPrefixError{Expected: "MD_XX or LK_XX", Got: s, Context: "condition"}
	}
}
