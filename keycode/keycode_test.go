package keycode_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krxproject/krxd/keycode"
)

func TestByName(t *testing.T) {
	var tests = []struct {
		name string
		want keycode.Code
	}{
		{"A", keycode.A},
		{"Z", keycode.Z},
		{"Num0", keycode.Num0},
		{"0", keycode.Num0},
		{"Esc", keycode.Escape},
		{"Escape", keycode.Escape},
		{"LShift", keycode.LShift},
		{"Space", keycode.Space},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				code keycode.Code
				ok   bool
			)

			code, ok = keycode.ByName(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.want, code)
		})
	}
}

func TestByNameUnknown(t *testing.T) {
	var ok bool

	_, ok = keycode.ByName("NotAKey")
	assert.False(t, ok)
}

func TestIsPhysicalModifier(t *testing.T) {
	assert.True(t, keycode.LShift.IsPhysicalModifier())
	assert.True(t, keycode.RMeta.IsPhysicalModifier())
	assert.False(t, keycode.A.IsPhysicalModifier())
	assert.False(t, keycode.Escape.IsPhysicalModifier())
}

func TestStringRoundTrip(t *testing.T) {
	var codes = []keycode.Code{
		keycode.A, keycode.F12, keycode.LShift, keycode.NumpadPeriod, keycode.MediaNext,
	}

	for _, code := range codes {
		var (
			name string
			got  keycode.Code
			ok   bool
		)

		name = code.String()
		got, ok = keycode.ByName(name)
		require.True(t, ok)
		assert.Equal(t, code, got)
	}
}

func TestStringUnknown(t *testing.T) {
	assert.Equal(t, "Unknown(0xFFFF)", keycode.Code(0xFFFF).String())
}
