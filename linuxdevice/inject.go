//go:build linux

package linuxdevice

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/krxproject/krxd/config"
	"github.com/krxproject/krxd/linuxdevice/ioctl"
	"github.com/krxproject/krxd/processor"
)

const (
	evSyn      = 0x00
	synReport  = 0x00
	uinputPath = "/dev/uinput"
)

var (
	uiSetEvBit  = ioctl.IOW('U', 100, int(0))
	uiSetKeyBit = ioctl.IOW('U', 101, int(0))
	uiDevCreate = ioctl.IO('U', 1)
	uiDevDestroy = ioctl.IO('U', 2)
)

// uinputUserDev mirrors struct uinput_user_dev from linux/uinput.h for
// the legacy (pre-UI_DEV_SETUP) device-creation path: a single write(2)
// of this struct, after the UI_SET_* ioctls, registers the device.
type uinputUserDev struct {
	Name         [80]byte
	Bustype      uint16
	Vendor       uint16
	Product      uint16
	Version      uint16
	FFEffectsMax uint32
	AbsMax       [64]int32
	AbsMin       [64]int32
	AbsFuzz      [64]int32
	AbsFlat      [64]int32
}

// Inject implements processor.OutputSink over a single virtual
// keyboard registered with /dev/uinput, capable of emitting every key
// in scanToCode.
type Inject struct {
	file *os.File
}

var _ processor.OutputSink = (*Inject)(nil)

// NewInject creates and registers a virtual uinput keyboard named name,
// enabling every scancode krxd knows how to synthesize.
func NewInject(name string) (*Inject, error) {
	var file, err = os.OpenFile(uinputPath, os.O_WRONLY|os.O_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("linuxdevice.NewInject: %w", err)
	}

	if err = ioctl.Any(file.Fd(), uiSetEvBit, asIntPtr(evKey)); err != nil {
		file.Close()
		return nil, fmt.Errorf("linuxdevice.NewInject: %w", err)
	}

	for scan := range inverseScans() {
		if err = ioctl.Any(file.Fd(), uiSetKeyBit, asIntPtr(int(scan))); err != nil {
			file.Close()
			return nil, fmt.Errorf("linuxdevice.NewInject: %w", err)
		}
	}

	var dev uinputUserDev
	copy(dev.Name[:], name)
	dev.Bustype = 0x06 // BUS_VIRTUAL

	if err = binary.Write(file, binary.NativeEndian, &dev); err != nil {
		file.Close()
		return nil, fmt.Errorf("linuxdevice.NewInject: %w", err)
	}

	if err = ioctl.Any[int](file.Fd(), uiDevCreate, nil); err != nil {
		file.Close()
		return nil, fmt.Errorf("linuxdevice.NewInject: %w", err)
	}

	return &Inject{file: file}, nil
}

// inverseScans returns the set of scancodes Inject must register with
// UI_SET_KEYBIT: the image of codeToScan.
func inverseScans() map[uint16]struct{} {
	var set = make(map[uint16]struct{}, len(codeToScan))

	for _, scan := range codeToScan {
		set[scan] = struct{}{}
	}

	return set
}

// Inject implements processor.OutputSink: it writes the key event
// followed by a SYN_REPORT, since the kernel buffers uinput writes
// until a sync event flushes them to consumers.
func (inj *Inject) Inject(event config.KeyEvent) error {
	var scan, ok = codeToScan[event.Key]
	if !ok {
		return &processor.InjectionError{Kind: processor.InjectIOError,
			Err: fmt.Errorf("linuxdevice.Inject: no uinput scancode for %v", event.Key)}
	}

	var value int32
	if event.Variant == config.Press {
		value = 1
	}

	if err := inj.write(evKey, scan, value); err != nil {
		return err
	}

	return inj.write(evSyn, synReport, 0)
}

func (inj *Inject) write(typ, code uint16, value int32) error {
	var ev = rawEvent{Type: typ, Code: code, Value: value}

	if err := binary.Write(inj.file, binary.NativeEndian, &ev); err != nil {
		return &processor.InjectionError{Kind: processor.InjectIOError, Err: err}
	}

	return nil
}

// Close destroys the virtual device and closes the uinput handle.
func (inj *Inject) Close() error {
	_ = ioctl.Any[int](inj.file.Fd(), uiDevDestroy, nil)

	if err := inj.file.Close(); err != nil {
		return fmt.Errorf("linuxdevice.Inject.Close: %w", err)
	}

	return nil
}
