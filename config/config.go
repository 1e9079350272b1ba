// Package config defines the krxd data model: the entities a compiled
// .krx artifact carries and the runtime consults. Types in this package
// have no behavior beyond construction and read-only queries; the
// engine that interprets them lives in lookup, state, taphold, and
// processor.
package config

import (
	"fmt"

	"github.com/gobwas/glob"

	"github.com/krxproject/krxd/keycode"
)

// MaxCustomID is the highest permitted value for a custom modifier or
// lock identifier. 0xFF is reserved.
const MaxCustomID = 0xFE

// Version identifies the format version of a compiled artifact.
type Version struct {
	Major uint8
	Minor uint8
	Patch uint8
}

// CurrentVersion is the format version krxc writes and krxd expects.
var CurrentVersion = Version{Major: 1, Minor: 0, Patch: 0}

// String returns "major.minor.patch".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Metadata records provenance for a compiled artifact.
type Metadata struct {
	// CompilationTimestamp is a Unix timestamp (seconds) of the build.
	// Neither author.Compile nor cmd/krxc sets it, so artifacts written
	// by krxc carry zero.
	CompilationTimestamp uint64

	// CompilerVersion is a free-form string identifying the compiler
	// binary that produced the artifact. Neither author.Compile nor
	// cmd/krxc sets it, so artifacts written by krxc carry "".
	CompilerVersion string

	// SourceHash is the hex-encoded SHA-256 of the raw configuration
	// source text.
	SourceHash string
}

// DeviceIdentifier matches a physical input device by name, serial, or
// physical path using a wildcard pattern: an exact string, "prefix*",
// "*suffix", "*contains*", or the catch-all "*". Matching is
// case-insensitive.
type DeviceIdentifier struct {
	Pattern string

	compiled glob.Glob
}

// NewDeviceIdentifier compiles pattern into a DeviceIdentifier. It
// fails when glob.Compile rejects pattern, for example an unterminated
// "[" class. Besides "*", glob's other syntax ("?", "[...]", "{a,b}",
// "\") keeps its glob meaning and is not matched literally.
func NewDeviceIdentifier(pattern string) (DeviceIdentifier, error) {
	var (
		compiled glob.Glob
		err      error
	)

	compiled, err = glob.Compile(normalizeCase(pattern))
	if err != nil {
		return DeviceIdentifier{}, fmt.Errorf("config.NewDeviceIdentifier: %w", err)
	}

	return DeviceIdentifier{Pattern: pattern, compiled: compiled}, nil
}

// Match reports whether candidate (a device name, serial, or physical
// path) matches the identifier's pattern, case-insensitively.
func (id DeviceIdentifier) Match(candidate string) bool {
	if id.compiled == nil {
		return false
	}

	return id.compiled.Match(normalizeCase(candidate))
}

func normalizeCase(s string) string {
	var out = make([]byte, len(s))

	for i := 0; i < len(s); i++ {
		var b = s[i]

		if b >= 'A' && b <= 'Z' {
			b += 'a' - 'A'
		}

		out[i] = b
	}

	return string(out)
}

// ConditionItem is one clause inside an AllActive or NotActive
// composite condition.
type ConditionItem struct {
	// Kind distinguishes a modifier check from a lock check.
	Kind ConditionItemKind
	// ID is the modifier or lock identifier being checked.
	ID uint8
}

// ConditionItemKind distinguishes the two leaf condition checks that
// can appear inside a composite condition.
type ConditionItemKind int

const (
	ModifierItem ConditionItemKind = iota
	LockItem
)

// Condition gates a Conditional mapping. Exactly one field is
// meaningful per Kind; see the Kind constants.
type Condition struct {
	Kind ConditionKind

	// ModifierID is set when Kind is ModifierActiveCondition.
	ModifierID uint8
	// LockID is set when Kind is LockActiveCondition.
	LockID uint8
	// Items is set when Kind is AllActiveCondition or NotActiveCondition.
	Items []ConditionItem
	// DevicePattern is set when Kind is DeviceMatchesCondition.
	DevicePattern DeviceIdentifier
}

// ConditionKind distinguishes the five condition forms a textual
// configuration can author.
type ConditionKind int

const (
	ModifierActiveCondition ConditionKind = iota
	LockActiveCondition
	AllActiveCondition
	NotActiveCondition
	DeviceMatchesCondition
)

// ModifierActive builds a Condition testing a single custom modifier.
func ModifierActive(id uint8) Condition {
	return Condition{Kind: ModifierActiveCondition, ModifierID: id}
}

// LockActive builds a Condition testing a single custom lock.
func LockActive(id uint8) Condition {
	return Condition{Kind: LockActiveCondition, LockID: id}
}

// AllActive builds a Condition requiring every item to be true. An
// empty item list is vacuously true.
func AllActive(items []ConditionItem) Condition {
	return Condition{Kind: AllActiveCondition, Items: items}
}

// NotActive builds a Condition requiring every item to be false. An
// empty item list is vacuously true.
func NotActive(items []ConditionItem) Condition {
	return Condition{Kind: NotActiveCondition, Items: items}
}

// DeviceMatches builds a Condition testing the originating event's
// device identifier against pattern.
func DeviceMatches(pattern DeviceIdentifier) Condition {
	return Condition{Kind: DeviceMatchesCondition, DevicePattern: pattern}
}

// BaseMappingKind distinguishes the five unconditional mapping forms.
type BaseMappingKind int

const (
	SimpleMapping BaseMappingKind = iota
	ModifierMapping
	LockMapping
	TapHoldMapping
	ModifiedOutputMapping
)

// BaseKeyMapping is one unconditional remapping rule. Only the fields
// relevant to Kind are meaningful; see the individual constructors.
type BaseKeyMapping struct {
	Kind BaseMappingKind
	From keycode.Code

	// Simple.
	To keycode.Code

	// Modifier / Lock.
	CustomID uint8

	// TapHold.
	TapKey       keycode.Code
	HoldModifier uint8
	ThresholdMs  uint16

	// ModifiedOutput.
	Shift bool
	Ctrl  bool
	Alt   bool
	Win   bool
}

// Simple builds a BaseKeyMapping that emits to whenever from is
// pressed or released.
func Simple(from, to keycode.Code) BaseKeyMapping {
	return BaseKeyMapping{Kind: SimpleMapping, From: from, To: to}
}

// Modifier builds a BaseKeyMapping that sets/clears a custom modifier
// bit on press/release of from.
func Modifier(from keycode.Code, modifierID uint8) BaseKeyMapping {
	return BaseKeyMapping{Kind: ModifierMapping, From: from, CustomID: modifierID}
}

// Lock builds a BaseKeyMapping that toggles a custom lock bit on press
// of from; release is absorbed.
func Lock(from keycode.Code, lockID uint8) BaseKeyMapping {
	return BaseKeyMapping{Kind: LockMapping, From: from, CustomID: lockID}
}

// TapHold builds a dual-role BaseKeyMapping: a quick tap emits tap, a
// hold past thresholdMs sets holdModifier.
func TapHold(from, tap keycode.Code, holdModifier uint8, thresholdMs uint16) BaseKeyMapping {
	return BaseKeyMapping{
		Kind:         TapHoldMapping,
		From:         from,
		TapKey:       tap,
		HoldModifier: holdModifier,
		ThresholdMs:  thresholdMs,
	}
}

// ModifiedOutput builds a BaseKeyMapping that decorates the emission of
// to with physical modifier presses/releases.
func ModifiedOutput(from, to keycode.Code, shift, ctrl, alt, win bool) BaseKeyMapping {
	return BaseKeyMapping{
		Kind: ModifiedOutputMapping, From: from, To: to,
		Shift: shift, Ctrl: ctrl, Alt: alt, Win: win,
	}
}

// KeyMapping is one entry in a DeviceConfig's mapping list: either an
// unconditional BaseKeyMapping, or a Condition guarding a nested list
// of BaseKeyMapping candidates.
type KeyMapping struct {
	// Base is set when this is not a conditional mapping.
	Base *BaseKeyMapping

	// Condition and Mappings are set when this is a conditional
	// mapping; Mappings are scanned in order once Condition holds.
	Condition *Condition
	Mappings  []BaseKeyMapping
}

// NewBaseMapping wraps a BaseKeyMapping as an unconditional KeyMapping.
func NewBaseMapping(base BaseKeyMapping) KeyMapping {
	return KeyMapping{Base: &base}
}

// NewConditionalMapping wraps a Condition and its guarded mappings as a
// conditional KeyMapping.
func NewConditionalMapping(cond Condition, mappings []BaseKeyMapping) KeyMapping {
	return KeyMapping{Condition: &cond, Mappings: mappings}
}

// IsConditional reports whether m is a Conditional mapping rather than
// a bare BaseKeyMapping.
func (m KeyMapping) IsConditional() bool {
	return m.Condition != nil
}

// DeviceConfig is the ordered set of mapping rules bound to devices
// matching Identifier.
type DeviceConfig struct {
	Identifier DeviceIdentifier
	Mappings   []KeyMapping
}

// ConfigRoot is the top-level compiled artifact: a version stamp, the
// ordered device configurations, and compilation metadata.
type ConfigRoot struct {
	Version  Version
	Devices  []DeviceConfig
	Metadata Metadata
}

// EventVariant distinguishes a key press from a key release.
type EventVariant int

const (
	Press EventVariant = iota
	Release
)

// String implements fmt.Stringer for readable test failures and logs.
func (v EventVariant) String() string {
	if v == Press {
		return "Press"
	}

	return "Release"
}

// KeyEvent is one observed or synthesized keystroke.
type KeyEvent struct {
	Variant     EventVariant
	Key         keycode.Code
	DeviceID    string
	HasDeviceID bool
	TimestampUs uint64
}

// NewKeyEvent builds a KeyEvent carrying a device identifier.
func NewKeyEvent(variant EventVariant, key keycode.Code, deviceID string, timestampUs uint64) KeyEvent {
	return KeyEvent{
		Variant: variant, Key: key,
		DeviceID: deviceID, HasDeviceID: deviceID != "",
		TimestampUs: timestampUs,
	}
}
