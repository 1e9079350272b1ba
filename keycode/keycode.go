// Package keycode implements the closed enumeration of physical and
// virtual key identifiers used throughout krxd. Numeric values are part
// of the .krx wire format: adding a key appends a new constant, it never
// renumbers an existing one.
package keycode

import "fmt"

// Code identifies a physical or virtual key. Its zero value (A) is never
// used to mean "no key" — callers that need an optional key code use a
// pointer or a separate boolean.
type Code uint16

const (
	// Letters.
	A Code = 0x00
	B Code = 0x01
	C Code = 0x02
	D Code = 0x03
	E Code = 0x04
	F Code = 0x05
	G Code = 0x06
	H Code = 0x07
	I Code = 0x08
	J Code = 0x09
	K Code = 0x0A
	L Code = 0x0B
	M Code = 0x0C
	N Code = 0x0D
	O Code = 0x0E
	P Code = 0x0F
	Q Code = 0x10
	R Code = 0x11
	S Code = 0x12
	T Code = 0x13
	U Code = 0x14
	V Code = 0x15
	W Code = 0x16
	X Code = 0x17
	Y Code = 0x18
	Z Code = 0x19

	// Digits.
	Num0 Code = 0x20
	Num1 Code = 0x21
	Num2 Code = 0x22
	Num3 Code = 0x23
	Num4 Code = 0x24
	Num5 Code = 0x25
	Num6 Code = 0x26
	Num7 Code = 0x27
	Num8 Code = 0x28
	Num9 Code = 0x29

	// Function keys F1-F12.
	F1  Code = 0x30
	F2  Code = 0x31
	F3  Code = 0x32
	F4  Code = 0x33
	F5  Code = 0x34
	F6  Code = 0x35
	F7  Code = 0x36
	F8  Code = 0x37
	F9  Code = 0x38
	F10 Code = 0x39
	F11 Code = 0x3A
	F12 Code = 0x3B

	// Punctuation and symbols.
	Minus        Code = 0x40
	Equal        Code = 0x41
	LeftBracket  Code = 0x42
	RightBracket Code = 0x43
	Backslash    Code = 0x44
	Semicolon    Code = 0x45
	Apostrophe   Code = 0x46
	Grave        Code = 0x47
	Comma        Code = 0x48
	Period       Code = 0x49
	Slash        Code = 0x4A

	// Numpad.
	NumLock        Code = 0x60
	NumpadDivide   Code = 0x61
	NumpadMultiply Code = 0x62
	NumpadMinus    Code = 0x63
	NumpadPlus     Code = 0x64
	NumpadEnter    Code = 0x65
	Numpad1        Code = 0x66
	Numpad2        Code = 0x67
	Numpad3        Code = 0x68
	Numpad4        Code = 0x69
	Numpad5        Code = 0x6A
	Numpad6        Code = 0x6B
	Numpad7        Code = 0x6C
	Numpad8        Code = 0x6D
	Numpad9        Code = 0x6E
	Numpad0        Code = 0x6F
	NumpadPeriod   Code = 0x70

	// Additional function keys F13-F24.
	F13 Code = 0x80
	F14 Code = 0x81
	F15 Code = 0x82
	F16 Code = 0x83
	F17 Code = 0x84
	F18 Code = 0x85
	F19 Code = 0x86
	F20 Code = 0x87
	F21 Code = 0x88
	F22 Code = 0x89
	F23 Code = 0x8A
	F24 Code = 0x8B

	// Physical modifiers. These can never be used as custom modifier or
	// lock IDs (see author.ParseModifierID).
	LShift Code = 0x100
	RShift Code = 0x101
	LCtrl  Code = 0x102
	RCtrl  Code = 0x103
	LAlt   Code = 0x104
	RAlt   Code = 0x105
	LMeta  Code = 0x106
	RMeta  Code = 0x107

	// Special and navigation keys.
	Escape      Code = 0x200
	Enter       Code = 0x201
	Backspace   Code = 0x202
	Tab         Code = 0x203
	Space       Code = 0x204
	CapsLock    Code = 0x205
	Insert      Code = 0x206
	Delete      Code = 0x207
	Home        Code = 0x208
	End         Code = 0x209
	PageUp      Code = 0x20A
	PageDown    Code = 0x20B
	PrintScreen Code = 0x20C
	ScrollLock  Code = 0x20D
	Pause       Code = 0x20E

	// Arrow keys.
	Left  Code = 0x210
	Right Code = 0x211
	Up    Code = 0x212
	Down  Code = 0x213

	// Media keys.
	Mute           Code = 0x300
	VolumeDown     Code = 0x301
	VolumeUp       Code = 0x302
	MediaPlayPause Code = 0x303
	MediaStop      Code = 0x304
	MediaPrevious  Code = 0x305
	MediaNext      Code = 0x306
)

// names maps every defined Code to its canonical VK_ suffix, used both
// for String() and as the source table for author.ParseVirtualKey.
var names = map[Code]string{
	A: "A", B: "B", C: "C", D: "D", E: "E", F: "F", G: "G", H: "H", I: "I",
	J: "J", K: "K", L: "L", M: "M", N: "N", O: "O", P: "P", Q: "Q", R: "R",
	S: "S", T: "T", U: "U", V: "V", W: "W", X: "X", Y: "Y", Z: "Z",

	Num0: "Num0", Num1: "Num1", Num2: "Num2", Num3: "Num3", Num4: "Num4",
	Num5: "Num5", Num6: "Num6", Num7: "Num7", Num8: "Num8", Num9: "Num9",

	F1: "F1", F2: "F2", F3: "F3", F4: "F4", F5: "F5", F6: "F6", F7: "F7",
	F8: "F8", F9: "F9", F10: "F10", F11: "F11", F12: "F12",
	F13: "F13", F14: "F14", F15: "F15", F16: "F16", F17: "F17", F18: "F18",
	F19: "F19", F20: "F20", F21: "F21", F22: "F22", F23: "F23", F24: "F24",

	Minus: "Minus", Equal: "Equal", LeftBracket: "LeftBracket",
	RightBracket: "RightBracket", Backslash: "Backslash",
	Semicolon: "Semicolon", Apostrophe: "Apostrophe", Grave: "Grave",
	Comma: "Comma", Period: "Period", Slash: "Slash",

	NumLock: "NumLock", NumpadDivide: "NumpadDivide",
	NumpadMultiply: "NumpadMultiply", NumpadMinus: "NumpadMinus",
	NumpadPlus: "NumpadPlus", NumpadEnter: "NumpadEnter",
	Numpad1: "Numpad1", Numpad2: "Numpad2", Numpad3: "Numpad3",
	Numpad4: "Numpad4", Numpad5: "Numpad5", Numpad6: "Numpad6",
	Numpad7: "Numpad7", Numpad8: "Numpad8", Numpad9: "Numpad9",
	Numpad0: "Numpad0", NumpadPeriod: "NumpadPeriod",

	LShift: "LShift", RShift: "RShift", LCtrl: "LCtrl", RCtrl: "RCtrl",
	LAlt: "LAlt", RAlt: "RAlt", LMeta: "LMeta", RMeta: "RMeta",

	Escape: "Escape", Enter: "Enter", Backspace: "Backspace", Tab: "Tab",
	Space: "Space", CapsLock: "CapsLock", Insert: "Insert", Delete: "Delete",
	Home: "Home", End: "End", PageUp: "PageUp", PageDown: "PageDown",
	PrintScreen: "PrintScreen", ScrollLock: "ScrollLock", Pause: "Pause",

	Left: "Left", Right: "Right", Up: "Up", Down: "Down",

	Mute: "Mute", VolumeDown: "VolumeDown", VolumeUp: "VolumeUp",
	MediaPlayPause: "MediaPlayPause", MediaStop: "MediaStop",
	MediaPrevious: "MediaPrevious", MediaNext: "MediaNext",
}

// byName is the reverse of names, built once at init, plus the aliases
// the original authoring surface accepted (e.g. "Esc" for Escape).
var byName map[string]Code

var aliases = map[string]Code{
	"Esc":    Escape,
	"Return": Enter,
	"Ins":    Insert,
	"Del":    Delete,
	"0":      Num0,
	"1":      Num1,
	"2":      Num2,
	"3":      Num3,
	"4":      Num4,
	"5":      Num5,
	"6":      Num6,
	"7":      Num7,
	"8":      Num8,
	"9":      Num9,
}

func init() {
	byName = make(map[string]Code, len(names)+len(aliases))

	for code, name := range names {
		byName[name] = code
	}

	for alias, code := range aliases {
		byName[alias] = code
	}
}

// String returns the canonical name of c (without the VK_ prefix), or
// "Unknown(0x%04X)" if c is not a defined key.
func (c Code) String() string {
	var (
		name string
		ok   bool
	)

	name, ok = names[c]
	if !ok {
		return fmt.Sprintf("Unknown(0x%04X)", uint16(c))
	}

	return name
}

// IsPhysicalModifier reports whether c is one of the eight physical
// modifier keys (LShift, RShift, LCtrl, RCtrl, LAlt, RAlt, LMeta, RMeta).
// These are rejected when they appear where a custom MD_ identifier is
// expected.
func (c Code) IsPhysicalModifier() bool {
	switch c {
	case LShift, RShift, LCtrl, RCtrl, LAlt, RAlt, LMeta, RMeta:
		return true
	default:
		return false
	}
}

// ByName looks up a key by its bare name (no VK_ prefix), as accepted by
// the textual configuration surface's parse_key_name. It returns
// (code, true) on success.
func ByName(name string) (Code, bool) {
	var (
		code Code
		ok   bool
	)

	code, ok = byName[name]

	return code, ok
}
