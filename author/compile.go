// Package author implements the textual configuration surface: a
// small hand-written lexer/parser for the device_start/map/tap_hold/
// when_*/with_* function-call grammar, translating it directly into a
// config.ConfigRoot. It replaces the original's embedded scripting
// engine (out of scope per spec.md §1's external-collaborator list);
// the core never depends on how a ConfigRoot is produced.
package author

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/krxproject/krxd/config"
	"github.com/krxproject/krxd/keycode"
)

// Compile parses source with DefaultLimits and returns the resulting
// ConfigRoot, its Metadata.SourceHash populated from source,
// CompilationTimestamp and CompilerVersion left zero. cmd/krxc
// serializes the result as returned, without stamping them.
func Compile(source string) (*config.ConfigRoot, error) {
	return CompileWithLimits(source, DefaultLimits())
}

// CompileWithLimits is Compile with an explicit resource-limit
// override, for tests and callers that need tighter bounds.
func CompileWithLimits(source string, limits Limits) (*config.ConfigRoot, error) {
	var (
		p    *parser
		err  error
		sum  [32]byte
		root config.ConfigRoot
	)

	sum = sha256.Sum256([]byte(source))

	p, err = newParser(source, limits)
	if err != nil {
		return nil, err
	}

	var calls []call

	calls, err = p.parseProgram()
	if err != nil {
		return nil, err
	}

	var state = newParserState(limits.MaxCallDepth)

	for _, c := range calls {
		if err = dispatch(state, c); err != nil {
			return nil, fmt.Errorf("author.CompileWithLimits: %w", err)
		}
	}

	var devices []config.DeviceConfig

	devices, err = state.finish()
	if err != nil {
		return nil, err
	}

	root = config.ConfigRoot{
		Version: config.CurrentVersion,
		Devices: devices,
		Metadata: config.Metadata{
			SourceHash: hex.EncodeToString(sum[:]),
		},
	}

	return &root, nil
}

func dispatch(s *parserState, c call) error {
	switch c.name {
	case "device_start":
		var pattern, err = stringArg(c, 0)
		if err != nil {
			return err
		}

		return s.deviceStart(pattern)
	case "device_end":
		return s.deviceEnd()
	case "map":
		return dispatchMap(s, c)
	case "tap_hold":
		return dispatchTapHold(s, c)
	case "when_start":
		return dispatchWhenStart(s, c)
	case "when_end":
		return s.endConditional()
	case "when_not_start":
		return dispatchWhenNotStart(s, c)
	case "when_not_end":
		return s.endConditional()
	case "when_device_start":
		var pattern, err = stringArg(c, 0)
		if err != nil {
			return err
		}

		if pattern == "" {
			return &SyntaxError{Line: c.line, Column: c.col, Message: "device pattern cannot be empty"}
		}

		var id config.DeviceIdentifier

		id, err = config.NewDeviceIdentifier(pattern)
		if err != nil {
			return err
		}

		return s.startConditional(config.DeviceMatches(id))
	case "when_device_end":
		return s.endConditional()
	default:
		return &SyntaxError{Line: c.line, Column: c.col, Message: "unknown function " + c.name}
	}
}

func dispatchMap(s *parserState, c call) error {
	if len(c.args) != 2 {
		return &SyntaxError{Line: c.line, Column: c.col, Message: "map() takes exactly two arguments"}
	}

	var from, err = stringArg(c, 0)
	if err != nil {
		return err
	}

	var fromKey keycode.Code

	fromKey, err = ParsePhysicalKey(from)
	if err != nil {
		return err
	}

	if mk, ok := c.args[1].(modifiedKey); ok {
		var toKey, mkErr = ParseVirtualKey(mk.key)
		if mkErr != nil {
			return mkErr
		}

		return s.pushBase(config.ModifiedOutput(fromKey, toKey, mk.shift, mk.ctrl, mk.alt, mk.win))
	}

	var to string

	to, err = stringArg(c, 1)
	if err != nil {
		return err
	}

	switch {
	case hasVKPrefix(to):
		var toKey, verr = ParseVirtualKey(to)
		if verr != nil {
			return verr
		}

		return s.pushBase(config.Simple(fromKey, toKey))
	case hasMDPrefix(to):
		var id, merr = ParseModifierID(to)
		if merr != nil {
			return merr
		}

		return s.pushBase(config.Modifier(fromKey, id))
	case hasLKPrefix(to):
		var id, lerr = ParseLockID(to)
		if lerr != nil {
			return lerr
		}

		return s.pushBase(config.Lock(fromKey, id))
	default:
		return &SyntaxError{Line: c.line, Column: c.col, Message: "map() output must have a VK_, MD_, or LK_ prefix, or be a with_*() builder"}
	}
}

func dispatchTapHold(s *parserState, c call) error {
	if len(c.args) != 4 {
		return &SyntaxError{Line: c.line, Column: c.col, Message: "tap_hold() takes exactly four arguments"}
	}

	var key, err = stringArg(c, 0)
	if err != nil {
		return err
	}

	var fromKey keycode.Code

	fromKey, err = ParsePhysicalKey(key)
	if err != nil {
		return err
	}

	var tap string

	tap, err = stringArg(c, 1)
	if err != nil {
		return err
	}

	if !hasVKPrefix(tap) {
		return &SyntaxError{Line: c.line, Column: c.col, Message: "tap_hold tap parameter must have VK_ prefix"}
	}

	var tapKey keycode.Code

	tapKey, err = ParseVirtualKey(tap)
	if err != nil {
		return err
	}

	var hold string

	hold, err = stringArg(c, 2)
	if err != nil {
		return err
	}

	if !hasMDPrefix(hold) {
		return &SyntaxError{Line: c.line, Column: c.col, Message: "tap_hold hold parameter must have MD_ prefix"}
	}

	var holdModifier uint8

	holdModifier, err = ParseModifierID(hold)
	if err != nil {
		return err
	}

	var thresholdMs int64

	thresholdMs, err = numberArg(c, 3)
	if err != nil {
		return err
	}

	return s.pushBase(config.TapHold(fromKey, tapKey, holdModifier, uint16(thresholdMs)))
}

func dispatchWhenStart(s *parserState, c call) error {
	if len(c.args) != 1 {
		return &SyntaxError{Line: c.line, Column: c.col, Message: "when_start() takes exactly one argument"}
	}

	if items, ok := c.args[0].([]string); ok {
		var conditionItems = make([]config.ConditionItem, 0, len(items))

		for _, s2 := range items {
			var cond, err = ParseConditionString(s2)
			if err != nil {
				return err
			}

			conditionItems = append(conditionItems, conditionToItem(cond))
		}

		return s.startConditional(config.AllActive(conditionItems))
	}

	var condStr, err = stringArg(c, 0)
	if err != nil {
		return err
	}

	var cond config.Condition

	cond, err = ParseConditionString(condStr)
	if err != nil {
		return err
	}

	return s.startConditional(cond)
}

func dispatchWhenNotStart(s *parserState, c call) error {
	var condStr, err = stringArg(c, 0)
	if err != nil {
		return err
	}

	var cond config.Condition

	cond, err = ParseConditionString(condStr)
	if err != nil {
		return err
	}

	return s.startConditional(config.NotActive([]config.ConditionItem{conditionToItem(cond)}))
}

func conditionToItem(cond config.Condition) config.ConditionItem {
	if cond.Kind == config.LockActiveCondition {
		return config.ConditionItem{Kind: config.LockItem, ID: cond.LockID}
	}

	return config.ConditionItem{Kind: config.ModifierItem, ID: cond.ModifierID}
}

func stringArg(c call, i int) (string, error) {
	if i >= len(c.args) {
		return "", &SyntaxError{Line: c.line, Column: c.col, Message: fmt.Sprintf("%s() missing argument %d", c.name, i)}
	}

	var s, ok = c.args[i].(string)
	if !ok {
		return "", &SyntaxError{Line: c.line, Column: c.col, Message: fmt.Sprintf("%s() argument %d must be a string", c.name, i)}
	}

	return s, nil
}

func numberArg(c call, i int) (int64, error) {
	if i >= len(c.args) {
		return 0, &SyntaxError{Line: c.line, Column: c.col, Message: fmt.Sprintf("%s() missing argument %d", c.name, i)}
	}

	var n, ok = c.args[i].(int64)
	if !ok {
		return 0, &SyntaxError{Line: c.line, Column: c.col, Message: fmt.Sprintf("%s() argument %d must be a number", c.name, i)}
	}

	return n, nil
}

func hasVKPrefix(s string) bool { return len(s) > 3 && s[:3] == "VK_" }
func hasMDPrefix(s string) bool { return len(s) > 3 && s[:3] == "MD_" }
func hasLKPrefix(s string) bool { return len(s) > 3 && s[:3] == "LK_" }
