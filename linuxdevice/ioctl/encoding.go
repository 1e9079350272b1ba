//go:build linux

package ioctl

import "unsafe"

const (
	// IOC_NRBITS is the number of bits allocated for the
	// command number (nr) field.
	IOC_NRBITS = 8

	// IOC_TYPEBITS is the number of bits allocated for the type field.
	IOC_TYPEBITS = 8

	// IOC_SIZEBITS is the number of bits allocated for the size field.
	IOC_SIZEBITS = 14

	// IOC_NRSHIFT is the bit offset for the nr field within the ioctl code.
	IOC_NRSHIFT = 0

	// IOC_TYPESHIFT is the bit offset for the type field within
	// the ioctl code.
	IOC_TYPESHIFT = IOC_NRSHIFT + IOC_NRBITS

	// IOC_SIZESHIFT is the bit offset for the size field within
	// the ioctl code.
	IOC_SIZESHIFT = IOC_TYPESHIFT + IOC_TYPEBITS

	// IOC_DIRSHIFT is the bit offset for the direction field within
	// the ioctl code.
	IOC_DIRSHIFT = IOC_SIZESHIFT + IOC_SIZEBITS

	// IOC_NONE specifies no data transfer for the ioctl.
	IOC_NONE = 0

	// IOC_WRITE specifies a write (user to kernel) transfer for the ioctl.
	IOC_WRITE = 1

	// IOC_READ specifies a read (kernel to user) transfer for the ioctl.
	IOC_READ = 2
)

// IOC_TYPECHECK returns the size in bytes of the provided value’s type.
// It accepts any zero value Go type and wraps [unsafe.Sizeof], converting
// the result to uint. This is useful for getting the type size when
// constructing ioctl request codes.
func IOC_TYPECHECK[T any](typ T) uint {
	return uint(unsafe.Sizeof(typ))
}

// IOC packs the four ioctl components into a single request code.
// dir specifies the data transfer direction ([IOC_NONE], [IOC_READ],
// [IOC_WRITE]).
// typ is the magic number for the driver or subsystem.
// nr is the command sequence number within that magic range.
// size is the byte size of any data transfer.
// The resulting uint can be passed directly to
// [syscall.Syscall] or [unix.IoctlGetInt] and family.
func IOC(dir, typ, nr, size uint) uint {
	return dir<<IOC_DIRSHIFT |
		typ<<IOC_TYPESHIFT |
		nr<<IOC_NRSHIFT |
		size<<IOC_SIZESHIFT
}

// IO returns an ioctl request code that carries no data.
// It encodes the given magic type and command number into a uint,
// setting direction to [IOC_NONE] and size to zero.
// typ is the magic number for the driver or subsystem.
// nr is the command sequence number within that magic range.
// The resulting uint can be passed directly to
// [syscall.Syscall] or [unix.IoctlGetInt] and family.
func IO(typ, nr uint) uint {
	return IOC(IOC_NONE, typ, nr, 0)
}

// IOW returns an ioctl request code for writing data to the kernel.
// typ is the magic number for the driver or subsystem.
// nr is the command sequence number within that magic range.
// argtype should be a zero‐value Go type.
// The resulting uint can be passed directly to
// [syscall.Syscall] or [unix.IoctlGetInt] and family.
func IOW[T any](typ, nr uint, argtype T) uint {
	return IOC(IOC_WRITE, typ, nr, IOC_TYPECHECK(argtype))
}
