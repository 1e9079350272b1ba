//go:build linux

// Package main implements krxd, the keyboard remapping daemon.
//
// It loads a compiled .krx configuration, grabs the matching input
// devices, and remaps keystrokes until a shutdown signal arrives.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/krxproject/krxd/codec"
	"github.com/krxproject/krxd/config"
	"github.com/krxproject/krxd/daemon"
	"github.com/krxproject/krxd/linuxdevice"
)

func exitIf(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, "krxd:", err)
		os.Exit(1)
	}
}

// devicePatterns reads configPath just far enough to recover the device
// identifiers it targets, so Capture can be opened against the right
// set of evdev nodes before the daemon takes ownership of reload.
func devicePatterns(configPath string) ([]config.DeviceIdentifier, error) {
	var data, err = os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("krxd: %w", err)
	}

	var archived *codec.ArchivedConfigRoot

	archived, err = codec.Deserialize(data)
	if err != nil {
		return nil, fmt.Errorf("krxd: %w", err)
	}

	var patterns = make([]config.DeviceIdentifier, len(archived.Root.Devices))
	for i, dev := range archived.Root.Devices {
		patterns[i] = dev.Identifier
	}

	return patterns, nil
}

func run(configPath, virtualDeviceName string, log *logrus.Logger) daemon.ExitCode {
	var patterns, err = devicePatterns(configPath)
	if err != nil {
		log.WithError(err).Error("krxd: failed to load configuration")
		return daemon.ConfigError
	}

	var inject *linuxdevice.Inject

	inject, err = linuxdevice.NewInject(virtualDeviceName)
	if err != nil {
		log.WithError(err).Error("krxd: failed to create virtual output device")
		return daemon.PermissionError
	}
	defer inject.Close()

	var capture *linuxdevice.Capture

	capture, err = linuxdevice.NewCapture(patterns, log)
	if err != nil {
		log.WithError(err).Error("krxd: failed to open input devices")
		return daemon.PermissionError
	}

	var d *daemon.Daemon

	d, err = daemon.New(configPath, combinedDevice{capture, inject}, log)
	if err != nil {
		log.WithError(err).Error("krxd: failed to load configuration")
		return daemon.ConfigError
	}

	return d.Run()
}

// combinedDevice joins a Capture and an Inject into the single
// daemon.Device the event loop reads from and writes to.
type combinedDevice struct {
	*linuxdevice.Capture
	out *linuxdevice.Inject
}

// Inject implements processor.OutputSink by forwarding to the uinput
// device.
func (c combinedDevice) Inject(event config.KeyEvent) error {
	return c.out.Inject(event)
}

func main() {
	var logLevel string
	var virtualDeviceName string

	var log = logrus.New()

	var rootCmd = &cobra.Command{
		Use:   "krxd <config.krx>",
		Short: "Run the krxd keyboard remapping daemon",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			var level, err = logrus.ParseLevel(logLevel)
			if err != nil {
				return fmt.Errorf("krxd: %w", err)
			}

			log.SetLevel(level)

			var code = run(args[0], virtualDeviceName, log)
			os.Exit(int(code))

			return nil
		},
	}

	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.Flags().StringVar(&virtualDeviceName, "device-name", "krxd virtual keyboard", "name of the synthesized uinput device")

	exitIf(rootCmd.Execute())
}
