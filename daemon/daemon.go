// Package daemon owns krxd's process lifecycle: loading a compiled
// configuration, wiring the lookup/state/processor trio, and running
// the event loop until a shutdown signal arrives, with SIGHUP reload
// support.
package daemon

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/krxproject/krxd/codec"
	"github.com/krxproject/krxd/config"
	"github.com/krxproject/krxd/lookup"
	"github.com/krxproject/krxd/processor"
	"github.com/krxproject/krxd/state"
	"github.com/krxproject/krxd/taphold"
)

// ExitCode mirrors the original daemon's exit-status contract.
type ExitCode int

const (
	Success ExitCode = iota
	ConfigError
	PermissionError
	RuntimeError
)

// Device is the platform capture/inject pair the daemon drives. A real
// deployment supplies linuxdevice.Capture/linuxdevice.Inject; tests
// supply fakes.
type Device interface {
	processor.InputStream
	processor.OutputSink
}

// Daemon owns the loaded configuration and the live runtime state built
// from it, plus the I/O device that feeds and receives events.
type Daemon struct {
	configPath string
	device     Device
	log        *logrus.Logger

	mu        sync.Mutex
	root      *config.ConfigRoot
	lookups   []*lookup.KeyLookup
	st        *state.DeviceState
	registry  *taphold.Registry
	processor *processor.Processor

	reloadCh chan *processor.ReloadRequest
	shutdown chan struct{}
}

// New loads configPath and builds a Daemon ready to Run against device.
// A nil logger is replaced by a default logrus logger writing to
// stderr.
func New(configPath string, device Device, log *logrus.Logger) (*Daemon, error) {
	if log == nil {
		log = logrus.New()
		log.SetOutput(os.Stderr)
	}

	var d = &Daemon{
		configPath: configPath,
		device:     device,
		log:        log,
		reloadCh:   make(chan *processor.ReloadRequest, 1),
		shutdown:   make(chan struct{}),
	}

	if err := d.load(); err != nil {
		return nil, err
	}

	return d, nil
}

// parseConfig reads and decodes configPath, building one KeyLookup per
// configured device. It does not touch any live runtime state.
func (d *Daemon) parseConfig() (*config.ConfigRoot, []*lookup.KeyLookup, error) {
	var data, err = os.ReadFile(d.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("daemon.Daemon.parseConfig: %w", err)
	}

	var archived *codec.ArchivedConfigRoot

	archived, err = codec.Deserialize(data)
	if err != nil {
		return nil, nil, fmt.Errorf("daemon.Daemon.parseConfig: %w", err)
	}

	var lookups = make([]*lookup.KeyLookup, len(archived.Root.Devices))
	for i, dev := range archived.Root.Devices {
		lookups[i] = lookup.Build(dev)
	}

	return archived.Root, lookups, nil
}

// load performs the one-time initial build of the runtime trio a
// freshly constructed Daemon drives. Later configuration changes go
// through reload, which mutates the already-running Processor instead
// of replacing it.
func (d *Daemon) load() error {
	var root, lookups, err = d.parseConfig()
	if err != nil {
		return err
	}

	d.mu.Lock()
	d.root = root
	d.lookups = lookups
	d.mu.Unlock()

	d.st = state.New()
	d.registry = taphold.NewRegistry(taphold.DefaultMaxPending, d.log)
	d.processor = processor.New(d.firstLookup(), d.st, d.registry, d.log)

	d.log.WithField("devices", len(root.Devices)).Info("daemon: configuration loaded")

	return nil
}

// firstLookup returns the lookup table for the daemon's only supported
// device binding today; multi-device routing is the caller's
// responsibility via separate Daemon instances per spec.md's
// single-processor-per-device-stream model.
func (d *Daemon) firstLookup() *lookup.KeyLookup {
	if len(d.lookups) == 0 {
		return lookup.Build(config.DeviceConfig{})
	}

	return d.lookups[0]
}

// reload re-reads configPath and hands the running RunLoop a fresh
// lookup table to swap in, per spec.md §4.4's reset invariant: a
// reload must never carry stale modifier/lock bits into the new
// configuration. The state/registry reset happens inside RunLoop
// itself, applied between events on the goroutine that owns the
// Processor, rather than here — mutating Processor fields from this
// goroutine while RunLoop is running it concurrently would race.
func (d *Daemon) reload() error {
	var root, lookups, err = d.parseConfig()
	if err != nil {
		return err
	}

	d.mu.Lock()
	d.root = root
	d.lookups = lookups
	var req = &processor.ReloadRequest{Lookup: d.firstLookup()}
	d.mu.Unlock()

	select {
	case d.reloadCh <- req:
	default:
		return fmt.Errorf("daemon.Daemon.reload: previous reload still pending")
	}

	d.log.Info("daemon: configuration reloaded")

	return nil
}

// Run installs signal handlers and drives the processor's event loop
// until SIGTERM/SIGINT, returning the ExitCode to report to the OS.
func (d *Daemon) Run() ExitCode {
	var sigs = make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGTERM, syscall.SIGINT, syscall.SIGHUP)
	defer signal.Stop(sigs)

	if err := d.device.Grab(); err != nil {
		d.log.WithError(err).Error("daemon: failed to grab input device")
		return PermissionError
	}

	var done = make(chan error, 1)
	go func() {
		done <- d.processor.RunLoop(d.device, d.device, d.shutdown, d.reloadCh)
	}()

	for {
		select {
		case sig := <-sigs:
			switch sig {
			case syscall.SIGHUP:
				if err := d.reload(); err != nil {
					d.log.WithError(err).Warn("daemon: reload failed, keeping previous configuration")
				}
			default:
				d.log.WithField("signal", sig).Info("daemon: shutdown requested")
				close(d.shutdown)

				if err := d.device.Release(); err != nil {
					d.log.WithError(err).Warn("daemon: error releasing device")
				}

				<-done

				return Success
			}
		case err := <-done:
			if err != nil {
				d.log.WithError(err).Error("daemon: event loop terminated")
				return RuntimeError
			}

			return Success
		}
	}
}
