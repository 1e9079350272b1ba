package codec

import (
	"errors"
	"fmt"
)

// ErrCodec is returned when the input is shorter than the header, the
// payload length field points past the end of the input, or the
// archived payload cannot be decoded into a ConfigRoot.
var ErrCodec = errors.New("codec: malformed payload")

// InvalidMagicError reports that a byte sequence does not begin with
// the .krx magic bytes.
type InvalidMagicError struct {
	Expected [4]byte
	Got      [4]byte
}

func (e *InvalidMagicError) Error() string {
	return fmt.Sprintf("codec: invalid magic: expected %x, got %x", e.Expected, e.Got)
}

// VersionMismatchError reports that a .krx file's format version is not
// one this build of krxd understands.
type VersionMismatchError struct {
	Expected uint32
	Got      uint32
}

func (e *VersionMismatchError) Error() string {
	return fmt.Sprintf("codec: version mismatch: expected %d, got %d", e.Expected, e.Got)
}

// HashMismatchError reports that the embedded content hash does not
// match the recomputed hash of the payload: the file is corrupt or was
// tampered with.
type HashMismatchError struct {
	Expected [32]byte
	Computed [32]byte
}

func (e *HashMismatchError) Error() string {
	return fmt.Sprintf("codec: hash mismatch: expected %x, computed %x", e.Expected, e.Computed)
}
