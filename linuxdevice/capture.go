//go:build linux

// Package linuxdevice adapts the teacher's evdev/ioctl-dispatch pattern
// (linux/input, linux/ioctl in the reference mylib) into krxd's
// processor.InputStream and processor.OutputSink: evdev capture and
// uinput injection, keyed to keycode.Code instead of raw scancodes.
package linuxdevice

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/krxproject/krxd/config"
	"github.com/krxproject/krxd/linuxdevice/ioctl"
	"github.com/krxproject/krxd/processor"
)

const evKey = 0x01

// evGrab is the EVIOCGRAB ioctl request code: a non-zero argument
// grabs exclusive delivery of the device's events, zero releases it.
var evGrab = ioctl.IOW('E', 0x90, int(0))

// evGetName is the EVIOCGNAME ioctl request code family; length is
// folded into the size field by IOC directly since the argument is a
// variable-length byte buffer, not a fixed Go type.
func evGetName(length uint) uint {
	return ioctl.IOC(ioctl.IOC_READ, 'E', 0x06, length)
}

// rawEvent mirrors struct input_event's in-memory layout on a 64-bit
// Linux kernel (64-bit timeval fields).
type rawEvent struct {
	Sec   int64
	Usec  int64
	Type  uint16
	Code  uint16
	Value int32
}

type capturedDevice struct {
	id   string
	file *os.File
}

// Capture implements processor.InputStream over one or more evdev
// device files matched against a set of device-identifier patterns. It
// owns no krxd domain types beyond config.KeyEvent: pattern matching
// against config.DeviceIdentifier happens at construction time, not
// per event.
type Capture struct {
	devices []*capturedDevice
	events  chan config.KeyEvent
	errs    chan error
	closed  chan struct{}
	wg      sync.WaitGroup
	log     *logrus.Logger
}

var _ processor.InputStream = (*Capture)(nil)

// matches reports whether name satisfies any of the given patterns.
func matches(name string, patterns []config.DeviceIdentifier) bool {
	for _, pattern := range patterns {
		if pattern.Match(name) {
			return true
		}
	}

	return false
}

// deviceName reads an evdev device's human-readable name via EVIOCGNAME.
func deviceName(fd uintptr) (string, error) {
	var buf = make([]byte, 256)

	if err := ioctl.Any(fd, evGetName(256), &buf[0]); err != nil {
		return "", fmt.Errorf("linuxdevice.deviceName: %w", err)
	}

	var n = 0
	for n < len(buf) && buf[n] != 0 {
		n++
	}

	return string(buf[:n]), nil
}

// NewCapture opens every /dev/input/event* device whose name matches
// one of patterns and begins reading events from each on its own
// goroutine.
func NewCapture(patterns []config.DeviceIdentifier, log *logrus.Logger) (*Capture, error) {
	var paths, err = filepath.Glob("/dev/input/event*")
	if err != nil {
		return nil, fmt.Errorf("linuxdevice.NewCapture: %w", err)
	}

	var capture = &Capture{
		events: make(chan config.KeyEvent, 64),
		errs:   make(chan error, 1),
		closed: make(chan struct{}),
		log:    log,
	}

	for _, path := range paths {
		var file *os.File

		file, err = os.OpenFile(filepath.Clean(path), os.O_RDWR, 0)
		if err != nil {
			continue
		}

		var name string

		name, err = deviceName(file.Fd())
		if err != nil || !matches(name, patterns) {
			file.Close()
			continue
		}

		var dev = &capturedDevice{id: name, file: file}
		capture.devices = append(capture.devices, dev)

		capture.wg.Add(1)
		go capture.readLoop(dev)
	}

	return capture, nil
}

func (c *Capture) readLoop(dev *capturedDevice) {
	defer c.wg.Done()

	var buf rawEvent

	for {
		if err := binary.Read(dev.file, binary.NativeEndian, &buf); err != nil {
			select {
			case c.errs <- &processor.InputError{Kind: processor.Disconnected, Err: err}:
			default:
			}

			return
		}

		if buf.Type != evKey || buf.Value == 2 {
			continue
		}

		var variant = config.Release
		if buf.Value == 1 {
			variant = config.Press
		}

		var code, ok = scanToCode[buf.Code]
		if !ok {
			continue
		}

		var ts = uint64(buf.Sec)*1_000_000 + uint64(buf.Usec)

		select {
		case c.events <- config.NewKeyEvent(variant, code, dev.id, ts):
		case <-c.closed:
			return
		}
	}
}

// NextEvent implements processor.InputStream.
func (c *Capture) NextEvent() (config.KeyEvent, error) {
	select {
	case event := <-c.events:
		return event, nil
	case err := <-c.errs:
		return config.KeyEvent{}, err
	case <-c.closed:
		return config.KeyEvent{}, &processor.InputError{Kind: processor.EndOfStream}
	}
}

// Grab implements processor.InputStream, requesting exclusive delivery
// on every captured device.
func (c *Capture) Grab() error {
	for _, dev := range c.devices {
		if err := ioctl.Any(dev.file.Fd(), evGrab, asIntPtr(1)); err != nil {
			return fmt.Errorf("linuxdevice.Capture.Grab: %w", err)
		}
	}

	return nil
}

// Release implements processor.InputStream, relinquishing exclusive
// delivery and closing every captured device.
func (c *Capture) Release() error {
	close(c.closed)

	for _, dev := range c.devices {
		_ = ioctl.Any(dev.file.Fd(), evGrab, asIntPtr(0))

		if err := dev.file.Close(); err != nil {
			return fmt.Errorf("linuxdevice.Capture.Release: %w", err)
		}
	}

	c.wg.Wait()

	return nil
}

func asIntPtr(v int) *int { return &v }
