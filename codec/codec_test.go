package codec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krxproject/krxd/codec"
	"github.com/krxproject/krxd/config"
	"github.com/krxproject/krxd/keycode"
)

func sampleRoot(t *testing.T) *config.ConfigRoot {
	t.Helper()

	var id, err = config.NewDeviceIdentifier("*keyboard*")
	require.NoError(t, err)

	return &config.ConfigRoot{
		Version: config.CurrentVersion,
		Devices: []config.DeviceConfig{
			{
				Identifier: id,
				Mappings: []config.KeyMapping{
					config.NewBaseMapping(config.Simple(keycode.CapsLock, keycode.LCtrl)),
					config.NewBaseMapping(config.TapHold(keycode.Space, keycode.Space, 1, 200)),
					config.NewConditionalMapping(
						config.ModifierActive(1),
						[]config.BaseKeyMapping{config.Simple(keycode.H, keycode.Left)},
					),
				},
			},
		},
		Metadata: config.Metadata{
			CompilationTimestamp: 1700000000,
			CompilerVersion:      "krxc-test",
			SourceHash:           "deadbeef",
		},
	}
}

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	var root = sampleRoot(t)

	var data, err = codec.Serialize(root)
	require.NoError(t, err)

	var archived *codec.ArchivedConfigRoot
	archived, err = codec.Deserialize(data)
	require.NoError(t, err)
	require.NotNil(t, archived.Root)

	assert.Equal(t, root.Version, archived.Root.Version)
	assert.Equal(t, root.Metadata, archived.Root.Metadata)
	require.Len(t, archived.Root.Devices, 1)
	assert.Equal(t, root.Devices[0].Identifier.Pattern, archived.Root.Devices[0].Identifier.Pattern)
	assert.True(t, archived.Root.Devices[0].Identifier.Match("My Keyboard"))
	require.Len(t, archived.Root.Devices[0].Mappings, 3)
}

func TestDeserializeRejectsShortInput(t *testing.T) {
	var _, err = codec.Deserialize([]byte{1, 2, 3})
	assert.ErrorIs(t, err, codec.ErrCodec)
}

func TestDeserializeRejectsInvalidMagic(t *testing.T) {
	var data, err = codec.Serialize(sampleRoot(t))
	require.NoError(t, err)

	data[0] = 'X'

	var _, derr = codec.Deserialize(data)
	require.Error(t, derr)

	var magicErr *codec.InvalidMagicError
	require.ErrorAs(t, derr, &magicErr)
}

func TestDeserializeRejectsVersionMismatch(t *testing.T) {
	var data, err = codec.Serialize(sampleRoot(t))
	require.NoError(t, err)

	data[4] = 0xFF

	var _, derr = codec.Deserialize(data)
	require.Error(t, derr)

	var versionErr *codec.VersionMismatchError
	require.ErrorAs(t, derr, &versionErr)
}

func TestDeserializeRejectsHashMismatchOnBitFlip(t *testing.T) {
	var data, err = codec.Serialize(sampleRoot(t))
	require.NoError(t, err)

	require.Greater(t, len(data), 44, "payload must be non-empty for this test to flip a payload bit")
	data[44] ^= 0x01

	var _, derr = codec.Deserialize(data)
	require.Error(t, derr)

	var hashErr *codec.HashMismatchError
	require.ErrorAs(t, derr, &hashErr)
}

func TestDeserializeRejectsTruncatedPayloadLength(t *testing.T) {
	var data, err = codec.Serialize(sampleRoot(t))
	require.NoError(t, err)

	var truncated = data[:len(data)-5]

	var _, derr = codec.Deserialize(truncated)
	require.Error(t, derr)
	assert.ErrorIs(t, derr, codec.ErrCodec)
}

func TestDeserializeRejectsCorruptPayloadLengthField(t *testing.T) {
	var data, err = codec.Serialize(sampleRoot(t))
	require.NoError(t, err)

	data[40] = 0xFF
	data[41] = 0xFF
	data[42] = 0xFF
	data[43] = 0x7F

	var _, derr = codec.Deserialize(data)
	require.Error(t, derr)
	assert.ErrorIs(t, derr, codec.ErrCodec)
}
