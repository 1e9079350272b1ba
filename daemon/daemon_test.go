package daemon_test

import (
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krxproject/krxd/author"
	"github.com/krxproject/krxd/codec"
	"github.com/krxproject/krxd/config"
	"github.com/krxproject/krxd/daemon"
	"github.com/krxproject/krxd/keycode"
	"github.com/krxproject/krxd/processor"
)

// fakeDevice implements daemon.Device with in-memory channels, standing
// in for linuxdevice.Capture/Inject.
type fakeDevice struct {
	mu      sync.Mutex
	events  chan config.KeyEvent
	grabbed bool
	released bool
	injected []config.KeyEvent
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{events: make(chan config.KeyEvent, 8)}
}

func (f *fakeDevice) NextEvent() (config.KeyEvent, error) {
	var event, ok = <-f.events
	if !ok {
		return config.KeyEvent{}, &processor.InputError{Kind: processor.EndOfStream}
	}

	return event, nil
}

func (f *fakeDevice) Grab() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.grabbed = true
	return nil
}

func (f *fakeDevice) Release() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.released = true
	close(f.events)
	return nil
}

func (f *fakeDevice) Inject(event config.KeyEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.injected = append(f.injected, event)
	return nil
}

func (f *fakeDevice) lastInjected() config.KeyEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.injected[len(f.injected)-1]
}

func (f *fakeDevice) injectedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.injected)
}

func writeConfig(t *testing.T, source string) string {
	t.Helper()

	var path = filepath.Join(t.TempDir(), "test.krx")
	require.NoError(t, os.WriteFile(path, mustCompile(t, source), 0o600))

	return path
}

func mustCompile(t *testing.T, source string) []byte {
	t.Helper()

	var root, err = author.Compile(source)
	require.NoError(t, err)

	var data []byte
	data, err = codec.Serialize(root)
	require.NoError(t, err)

	return data
}

func TestDaemonGracefulShutdownOnSIGTERM(t *testing.T) {
	var path = writeConfig(t, `
		device_start("*");
		map("A", "VK_B");
		device_end();
	`)

	var dev = newFakeDevice()
	var d, err = daemon.New(path, dev, nil)
	require.NoError(t, err)

	var result = make(chan daemon.ExitCode, 1)
	go func() { result <- d.Run() }()

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGTERM))

	select {
	case code := <-result:
		assert.Equal(t, daemon.Success, code)
	case <-time.After(2 * time.Second):
		t.Fatal("daemon did not shut down on SIGTERM")
	}

	assert.True(t, dev.grabbed)
	assert.True(t, dev.released)
}

func TestDaemonSIGHUPReloadsLiveProcessor(t *testing.T) {
	var path = writeConfig(t, `
		device_start("*");
		map("A", "VK_B");
		device_end();
	`)

	var dev = newFakeDevice()
	var d, err = daemon.New(path, dev, nil)
	require.NoError(t, err)

	var result = make(chan daemon.ExitCode, 1)
	go func() { result <- d.Run() }()
	t.Cleanup(func() {
		syscall.Kill(syscall.Getpid(), syscall.SIGTERM)
		<-result
	})

	time.Sleep(20 * time.Millisecond)

	dev.events <- config.NewKeyEvent(config.Press, keycode.A, "", 1)
	require.Eventually(t, func() bool { return dev.injectedCount() == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, keycode.B, dev.lastInjected().Key)

	require.NoError(t, os.WriteFile(path, mustCompile(t, `
		device_start("*");
		map("A", "VK_C");
		device_end();
	`), 0o600))
	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGHUP))
	time.Sleep(20 * time.Millisecond)

	dev.events <- config.NewKeyEvent(config.Press, keycode.A, "", 2)
	require.Eventually(t, func() bool { return dev.injectedCount() == 2 }, time.Second, time.Millisecond)
	assert.Equal(t, keycode.C, dev.lastInjected().Key)
}

func TestDaemonRejectsMissingConfig(t *testing.T) {
	var _, err = daemon.New(filepath.Join(t.TempDir(), "missing.krx"), newFakeDevice(), nil)
	assert.Error(t, err)
}
