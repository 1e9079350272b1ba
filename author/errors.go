package author

import "fmt"

// SyntaxError reports a lexical or grammatical defect in the source
// text, located by line and column.
type SyntaxError struct {
	Line    int
	Column  int
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("author: line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// MissingPrefixError reports an identifier missing its required
// VK_/MD_/LK_ prefix.
type MissingPrefixError struct {
	Key     string
	Context string
}

func (e *MissingPrefixError) Error() string {
	return fmt.Sprintf("author: %s %q is missing required prefix", e.Context, e.Key)
}

// InvalidPrefixError reports an identifier with a recognized prefix but
// a malformed suffix (not hex, wrong width).
type InvalidPrefixError struct {
	Expected string
	Got      string
	Context  string
}

func (e *InvalidPrefixError) Error() string {
	return fmt.Sprintf("author: invalid %s prefix: expected %s, got %q", e.Context, e.Expected, e.Got)
}

// PhysicalModifierInMDError reports a physical modifier name used where
// a custom MD_ identifier is required.
type PhysicalModifierInMDError struct {
	Name string
}

func (e *PhysicalModifierInMDError) Error() string {
	return fmt.Sprintf("author: physical modifier %q cannot be used as an MD_ identifier", e.Name)
}

// IDOutOfRangeError reports a custom modifier or lock ID past MaxCustomID.
type IDOutOfRangeError struct {
	Kind string // "modifier" or "lock"
	Got  uint16
	Max  uint16
}

func (e *IDOutOfRangeError) Error() string {
	return fmt.Sprintf("author: %s ID %d exceeds maximum value %d", e.Kind, e.Got, e.Max)
}

// UnknownKeyError reports a key name that is not in keycode's table.
type UnknownKeyError struct {
	Name string
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("author: unknown key name: %q", e.Name)
}

// ResourceLimitExceededError reports that compiling the source would
// exceed one of the authoring engine's resource limits.
type ResourceLimitExceededError struct {
	LimitType string
}

func (e *ResourceLimitExceededError) Error() string {
	return fmt.Sprintf("author: resource limit exceeded: %s", e.LimitType)
}

// StateError reports a structural misuse of the function table: a
// device/conditional block closed without being opened, nested, or a
// statement issued outside any open device block.
type StateError struct {
	Message string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("author: %s", e.Message)
}
