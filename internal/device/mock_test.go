package device

import (
	"strings"

	"github.com/osa030/toadb/internal/adb"
)

// fakeBridge is a scriptable adb.Bridge for tests.
type fakeBridge struct {
	devices    []adb.Device
	devicesFn  func() ([]adb.Device, error)
	shellFn    func(serial string, args ...string) (adb.Result, error)
	shellCalls []string
	waited     []string
	connected  []string
	started    bool
}

func (f *fakeBridge) Devices() ([]adb.Device, error) {
	if f.devicesFn != nil {
		return f.devicesFn()
	}
	return f.devices, nil
}

func (f *fakeBridge) Shell(serial string, args ...string) (adb.Result, error) {
	f.shellCalls = append(f.shellCalls, serial+": "+strings.Join(args, " "))
	if f.shellFn != nil {
		return f.shellFn(serial, args...)
	}
	return adb.Result{}, nil
}

func (f *fakeBridge) WaitForDevice(serial string) error {
	f.waited = append(f.waited, serial)
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
