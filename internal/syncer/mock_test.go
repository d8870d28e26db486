package syncer

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/osa030/toadb/internal/adb"
	"github.com/osa030/toadb/internal/config"
)

// fakeBridge is a scriptable adb.Bridge.
type fakeBridge struct {
	devices    []adb.Device
	devicesFn  func() ([]adb.Device, error)
	shellFn    func(serial string, args ...string) (adb.Result, error)
	connected  []string
	started    bool
	waitSerial []string
}

func (f *fakeBridge) Devices() ([]adb.Device, error) {
	if f.devicesFn != nil {
		return f.devicesFn()
	}
	return f.devices, nil
}

func (f *fakeBridge) Shell(serial string, args ...string) (adb.Result, error) {
	if f.shellFn != nil {
		return f.shellFn(serial, args...)
	}
	return adb.Result{}, nil
}

func (f *fakeBridge) WaitForDevice(serial string) error {
	f.waitSerial = append(f.waitSerial, serial)
	return nil
}

func (f *fakeBridge) Connect(hostPort string) error {
	f.connected = append(f.connected, hostPort)
	return nil
}

func (f *fakeBridge) StartServer() error {
	f.started = true
	return nil
}

// deviceShell scripts a healthy device answering every probe the syncer
// issues: the echo gate, the epoch and offset reads, and the zone and model
// property reads.
func deviceShell(epoch int64, offset, zone, model string) func(string, ...string) (adb.Result, error) {
	return func(serial string, args ...string) (adb.Result, error) {
		switch {
		case args[0] == "echo":
			return adb.Result{Stdout: "ok\n"}, nil
		case args[0] == "date" && args[1] == "+%s":
			return adb.Result{Stdout: fmt.Sprintf("%d\n", epoch)}, nil
		case args[0] == "date" && args[1] == "+%z":
			if offset == "" {
				return adb.Result{ExitCode: 1}, nil
			}
			return adb.Result{Stdout: offset + "\n"}, nil
		case args[0] == "getprop" && args[1] == "persist.sys.timezone":
			if zone == "" {
				return adb.Result{Stdout: "\n"}, nil
			}
			return adb.Result{Stdout: zone + "\n"}, nil
		case args[0] == "getprop" && args[1] == "ro.product.model":
			return adb.Result{Stdout: model + "\n"}, nil
		case args[0] == "settings":
			return adb.Result{Stdout: "null\n"}, nil
		default:
			return adb.Result{ExitCode: 127}, nil
		}
	}
}

// fakeApplier records applications and returns configured outcomes.
type fakeApplier struct {
	tzOK, timeOK bool

	tzCalled, timeCalled bool
	lastZone, lastOffset string
	lastEpoch            int64
}

func (f *fakeApplier) ApplyTimezone(zone, offset string) bool {
	f.tzCalled = true
	f.lastZone = zone
	f.lastOffset = offset
	return f.tzOK
}

func (f *fakeApplier) ApplyEpoch(epoch int64) bool {
	f.timeCalled = true
	f.lastEpoch = epoch
	return f.timeOK
}

// fakeClock drives the syncer's time seams. Sleeps advance it instantly and
// are recorded for assertions.
type fakeClock struct {
	t      time.Time
	sleeps []time.Duration

	// onSleep, when set, runs after each recorded sleep.
	onSleep func()
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 8, 26, 8, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.sleeps = append(c.sleeps, d)
	c.t = c.t.Add(d)
	if c.onSleep != nil {
		c.onSleep()
	}
	return nil
}

func defaultOptions() Options {
	return Options{
		DiscoveryInterval:     5 * time.Second,
		StartupWindow:         900 * time.Second,
		RefreshInterval:       600 * time.Second,
		DriftThresholdSeconds: 1,
	}
}

func newTestSyncer(t *testing.T, bridge adb.Bridge, applier *fakeApplier, opts Options) (*Syncer, *fakeClock) {
	t.Helper()
	store := config.NewStoreAt(filepath.Join(t.TempDir(), "config.json"))
	s := New(bridge, store, applier, opts)
	clk := newFakeClock()
	s.now = clk.now
	s.sleep = clk.sleep
	s.elevateFn = func() error { return nil }
	return s, clk
}
