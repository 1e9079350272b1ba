// Package codec implements the compiled .krx binary format: a fixed
// header (magic, version, content hash, payload length) wrapping a
// CBOR-encoded structural archive of a config.ConfigRoot.
//
// The original format is a zero-copy rkyv archive; Go has no equivalent
// borrow-from-bytes facility in this corpus, so Deserialize returns an
// owned *ArchivedConfigRoot instead of a borrowed view. The type is
// still named Archived to preserve the read-only, do-not-mutate intent
// of the wire contract.
package codec

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/krxproject/krxd/config"
)

// Magic is the four leading bytes of every .krx file.
var Magic = [4]byte{'K', 'R', 'X', '\n'}

// FormatVersion is the only wire format version this build emits and
// accepts.
const FormatVersion uint32 = 1

const (
	headerLen       = 44
	magicOffset     = 0
	versionOffset   = 4
	hashOffset      = 8
	payloadLenOffset = 40
)

// ArchivedConfigRoot is the decoded, validated contents of a .krx file.
// Treat it as read-only: it is handed directly to lookup.Build and
// friends on daemon startup and reload.
type ArchivedConfigRoot struct {
	Root *config.ConfigRoot
}

// Serialize compiles root into the .krx wire format: magic, version,
// SHA-256 over the payload-length field and payload, the payload
// length, then the CBOR-encoded payload itself.
func Serialize(root *config.ConfigRoot) ([]byte, error) {
	var (
		payload []byte
		err     error
	)

	payload, err = cbor.Marshal(toWireRoot(root))
	if err != nil {
		return nil, fmt.Errorf("codec.Serialize: %w", err)
	}

	var payloadLen [4]byte
	binary.LittleEndian.PutUint32(payloadLen[:], uint32(len(payload)))

	var hashed = make([]byte, 0, len(payloadLen)+len(payload))
	hashed = append(hashed, payloadLen[:]...)
	hashed = append(hashed, payload...)

	var sum = sha256.Sum256(hashed)

	var out = make([]byte, 0, headerLen+len(payload))
	out = append(out, Magic[:]...)

	var versionBytes [4]byte
	binary.LittleEndian.PutUint32(versionBytes[:], FormatVersion)
	out = append(out, versionBytes[:]...)

	out = append(out, sum[:]...)
	out = append(out, payloadLen[:]...)
	out = append(out, payload...)

	return out, nil
}

// Deserialize validates and decodes a .krx byte stream. It never
// panics on malformed or truncated input; every error is one of
// InvalidMagicError, VersionMismatchError, HashMismatchError, or a
// wrapped ErrCodec for structural decode failures.
func Deserialize(data []byte) (*ArchivedConfigRoot, error) {
	if len(data) < headerLen {
		return nil, fmt.Errorf("codec.Deserialize: %w: length %d below header size %d", ErrCodec, len(data), headerLen)
	}

	var gotMagic [4]byte
	copy(gotMagic[:], data[magicOffset:magicOffset+4])

	if gotMagic != Magic {
		return nil, &InvalidMagicError{Expected: Magic, Got: gotMagic}
	}

	var gotVersion = binary.LittleEndian.Uint32(data[versionOffset : versionOffset+4])
	if gotVersion != FormatVersion {
		return nil, &VersionMismatchError{Expected: FormatVersion, Got: gotVersion}
	}

	var expectedHash [32]byte
	copy(expectedHash[:], data[hashOffset:hashOffset+32])

	var payloadLen = binary.LittleEndian.Uint32(data[payloadLenOffset : payloadLenOffset+4])

	var payloadStart = headerLen
	var payloadEnd = payloadStart + int(payloadLen)

	if payloadEnd < payloadStart || payloadEnd > len(data) {
		return nil, fmt.Errorf("codec.Deserialize: %w: payload length %d exceeds remaining %d bytes", ErrCodec, payloadLen, len(data)-payloadStart)
	}

	var computed = sha256.Sum256(data[payloadLenOffset:payloadEnd])
	if computed != expectedHash {
		return nil, &HashMismatchError{Expected: expectedHash, Computed: computed}
	}

	var (
		wire wireRoot
		err  error
	)

	if err = cbor.Unmarshal(data[payloadStart:payloadEnd], &wire); err != nil {
		return nil, fmt.Errorf("codec.Deserialize: %w: %v", ErrCodec, err)
	}

	var root *config.ConfigRoot

	root, err = fromWireRoot(wire)
	if err != nil {
		return nil, fmt.Errorf("codec.Deserialize: %w: %v", ErrCodec, err)
	}

	return &ArchivedConfigRoot{Root: root}, nil
}
