package processor

import "github.com/krxproject/krxd/config"

// InputStream is the processor's source of raw keyboard events. A
// concrete implementation (linuxdevice.Capture, or a test fake) owns
// whatever platform device handles are needed to read them.
type InputStream interface {
	// NextEvent blocks until an event is available, returning
	// *InputError{Kind: EndOfStream} on clean end-of-stream.
	NextEvent() (config.KeyEvent, error)

	// Grab requests exclusive capture of the underlying device(s), if
	// the platform supports it.
	Grab() error

	// Release relinquishes exclusive capture on shutdown.
	Release() error
}

// OutputSink is the processor's destination for synthesized keyboard
// events.
type OutputSink interface {
	// Inject emits one synthetic KeyEvent to the operating system.
	Inject(config.KeyEvent) error
}
