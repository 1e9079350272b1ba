//go:build linux

package linuxdevice

import "github.com/krxproject/krxd/keycode"

// Linux evdev EV_KEY scancodes (linux/input-event-codes.h), limited to
// the subset keycode.Code assigns a canonical name to.
const (
	keyReserved = 0
	keyEsc      = 1
	key1        = 2
	key2        = 3
	key3        = 4
	key4        = 5
	key5        = 6
	key6        = 7
	key7        = 8
	key8        = 9
	key9        = 10
	key0        = 11
	keyMinus    = 12
	keyEqual    = 13
	keyBackspace = 14
	keyTab      = 15
	keyQ        = 16
	keyW        = 17
	keyE        = 18
	keyR        = 19
	keyT        = 20
	keyY        = 21
	keyU        = 22
	keyI        = 23
	keyO        = 24
	keyP        = 25
	keyLeftBrace  = 26
	keyRightBrace = 27
	keyEnter      = 28
	keyLeftCtrl   = 29
	keyA          = 30
	keyS          = 31
	keyD          = 32
	keyF          = 33
	keyG          = 34
	keyH          = 35
	keyJ          = 36
	keyK          = 37
	keyL          = 38
	keySemicolon  = 39
	keyApostrophe = 40
	keyGrave      = 41
	keyLeftShift  = 42
	keyBackslash  = 43
	keyZ          = 44
	keyX          = 45
	keyC          = 46
	keyV          = 47
	keyB          = 48
	keyN          = 49
	keyM          = 50
	keyComma      = 51
	keyDot        = 52
	keySlash      = 53
	keyRightShift = 54
	keyKPAsterisk = 55
	keyLeftAlt    = 56
	keySpace      = 57
	keyCapsLock   = 58
	keyF1         = 59
	keyF2         = 60
	keyF3         = 61
	keyF4         = 62
	keyF5         = 63
	keyF6         = 64
	keyF7         = 65
	keyF8         = 66
	keyF9         = 67
	keyF10        = 68
	keyNumLock    = 69
	keyScrollLock = 70
	keyKP7        = 71
	keyKP8        = 72
	keyKP9        = 73
	keyKPMinus    = 74
	keyKP4        = 75
	keyKP5        = 76
	keyKP6        = 77
	keyKPPlus     = 78
	keyKP1        = 79
	keyKP2        = 80
	keyKP3        = 81
	keyKP0        = 82
	keyKPDot      = 83
	keyF11        = 87
	keyF12        = 88
	keySysrq      = 99
	keyRightAlt   = 100
	keyHome       = 102
	keyUp         = 103
	keyPageUp     = 104
	keyLeft       = 105
	keyRight      = 106
	keyEnd        = 107
	keyDown       = 108
	keyPageDown   = 109
	keyInsert     = 110
	keyDelete     = 111
	keyMute       = 113
	keyVolumeDown = 114
	keyVolumeUp   = 115
	keyPause      = 119
	keyLeftMeta   = 125
	keyRightMeta  = 126
	keyNextSong     = 163
	keyPlayPause    = 164
	keyPreviousSong = 165
	keyStopCD       = 166
	keyF13 = 183
	keyF14 = 184
	keyF15 = 185
	keyF16 = 186
	keyF17 = 187
	keyF18 = 188
	keyF19 = 189
	keyF20 = 190
	keyF21 = 191
	keyF22 = 192
	keyF23 = 193
	keyF24 = 194
	keyKPEnter = 96
)

// scanToCode maps a Linux evdev scancode to krxd's keycode.Code.
var scanToCode = map[uint16]keycode.Code{
	keyA: keycode.A, keyB: keycode.B, keyC: keycode.C, keyD: keycode.D,
	keyE: keycode.E, keyF: keycode.F, keyG: keycode.G, keyH: keycode.H,
	keyI: keycode.I, keyJ: keycode.J, keyK: keycode.K, keyL: keycode.L,
	keyM: keycode.M, keyN: keycode.N, keyO: keycode.O, keyP: keycode.P,
	keyQ: keycode.Q, keyR: keycode.R, keyS: keycode.S, keyT: keycode.T,
	keyU: keycode.U, keyV: keycode.V, keyW: keycode.W, keyX: keycode.X,
	keyY: keycode.Y, keyZ: keycode.Z,

	key0: keycode.Num0, key1: keycode.Num1, key2: keycode.Num2,
	key3: keycode.Num3, key4: keycode.Num4, key5: keycode.Num5,
	key6: keycode.Num6, key7: keycode.Num7, key8: keycode.Num8,
	key9: keycode.Num9,

	keyF1: keycode.F1, keyF2: keycode.F2, keyF3: keycode.F3,
	keyF4: keycode.F4, keyF5: keycode.F5, keyF6: keycode.F6,
	keyF7: keycode.F7, keyF8: keycode.F8, keyF9: keycode.F9,
	keyF10: keycode.F10, keyF11: keycode.F11, keyF12: keycode.F12,
	keyF13: keycode.F13, keyF14: keycode.F14, keyF15: keycode.F15,
	keyF16: keycode.F16, keyF17: keycode.F17, keyF18: keycode.F18,
	keyF19: keycode.F19, keyF20: keycode.F20, keyF21: keycode.F21,
	keyF22: keycode.F22, keyF23: keycode.F23, keyF24: keycode.F24,

	keyMinus: keycode.Minus, keyEqual: keycode.Equal,
	keyLeftBrace: keycode.LeftBracket, keyRightBrace: keycode.RightBracket,
	keyBackslash: keycode.Backslash, keySemicolon: keycode.Semicolon,
	keyApostrophe: keycode.Apostrophe, keyGrave: keycode.Grave,
	keyComma: keycode.Comma, keyDot: keycode.Period, keySlash: keycode.Slash,

	keyNumLock: keycode.NumLock, keyKPAsterisk: keycode.NumpadMultiply,
	keyKPMinus: keycode.NumpadMinus, keyKPPlus: keycode.NumpadPlus,
	keyKPEnter: keycode.NumpadEnter, keyKP1: keycode.Numpad1,
	keyKP2: keycode.Numpad2, keyKP3: keycode.Numpad3, keyKP4: keycode.Numpad4,
	keyKP5: keycode.Numpad5, keyKP6: keycode.Numpad6, keyKP7: keycode.Numpad7,
	keyKP8: keycode.Numpad8, keyKP9: keycode.Numpad9, keyKP0: keycode.Numpad0,
	keyKPDot: keycode.NumpadPeriod,

	keyLeftShift: keycode.LShift, keyRightShift: keycode.RShift,
	keyLeftCtrl: keycode.LCtrl, keyRightCtrl: keycode.RCtrl,
	keyLeftAlt: keycode.LAlt, keyRightAlt: keycode.RAlt,
	keyLeftMeta: keycode.LMeta, keyRightMeta: keycode.RMeta,

	keyEsc: keycode.Escape, keyEnter: keycode.Enter,
	keyBackspace: keycode.Backspace, keyTab: keycode.Tab,
	keySpace: keycode.Space, keyCapsLock: keycode.CapsLock,
	keyInsert: keycode.Insert, keyDelete: keycode.Delete,
	keyHome: keycode.Home, keyEnd: keycode.End,
	keyPageUp: keycode.PageUp, keyPageDown: keycode.PageDown,
	keySysrq: keycode.PrintScreen, keyScrollLock: keycode.ScrollLock,
	keyPause: keycode.Pause,

	keyLeft: keycode.Left, keyRight: keycode.Right,
	keyUp: keycode.Up, keyDown: keycode.Down,

	keyMute: keycode.Mute, keyVolumeDown: keycode.VolumeDown,
	keyVolumeUp: keycode.VolumeUp, keyPlayPause: keycode.MediaPlayPause,
	keyStopCD: keycode.MediaStop, keyPreviousSong: keycode.MediaPrevious,
	keyNextSong: keycode.MediaNext,
}

// codeToScan is the inverse of scanToCode, used by Inject to translate
// a synthesized KeyEvent back into a scancode for uinput.
var codeToScan = func() map[keycode.Code]uint16 {
	var inverse = make(map[keycode.Code]uint16, len(scanToCode))

	for scan, code := range scanToCode {
		inverse[code] = scan
	}

	return inverse
}()

const keyRightCtrl = 97
