// Package adb wraps the Android Debug Bridge command-line tool.
//
// Every operation shells out to the adb binary on PATH and captures its
// output. Nonzero exit codes from adb are reported through Result, not as
// errors; an error means the invocation itself failed (most importantly,
// adb missing from PATH).
package adb

import (
	"os/exec"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/osa030/toadb/internal/execx"
)

// ErrNotInstalled reports that the adb binary is not on PATH. Callers treat
// this as fatal: every other operation depends on the bridge tool.
var ErrNotInstalled = errors.New("adb not found on PATH; install platform-tools")

// State is the connection state adb reports for an attached device.
type State string

const (
	StateDevice       State = "device"
	StateUnauthorized State = "unauthorized"
	StateOffline      State = "offline"
)

// Device is one row of an adb listing. Rebuilt on every poll; devices have
// no identity beyond serial string equality.
type Device struct {
	Serial string
	State  State
}

// Online reports whether the device is authorized and ready for commands.
func (d Device) Online() bool {
	return d.State == StateDevice
}

// Result holds the captured outcome of one adb invocation.
type Result = execx.Result

// Bridge is the capability surface the orchestrator needs from adb.
type Bridge interface {
	// Devices returns the attached devices in listing order.
	Devices() ([]Device, error)
	// Shell runs a command on the selected device and captures its output.
	Shell(serial string, args ...string) (Result, error)
	// WaitForDevice blocks until adb sees the device. An empty serial
	// waits for any device.
	WaitForDevice(serial string) error
	// Connect issues a TCP connect request to host:port. Idempotent.
	Connect(hostPort string) error
	// StartServer makes sure the adb server daemon is running.
	StartServer() error
}

// CommandFunc executes a host command with captured output. Replaceable in
// tests.
type CommandFunc func(name string, args ...string) (Result, error)

// Client is the exec-backed Bridge implementation.
type Client struct {
	run CommandFunc
}

// NewClient returns a Client that invokes the adb binary on PATH.
func NewClient() *Client {
	return &Client{run: execx.Run}
}

// NewClientWithRunner returns a Client using a custom command runner.
func NewClientWithRunner(run CommandFunc) *Client {
	return &Client{run: run}
}

func (c *Client) adb(args ...string) (Result, error) {
	res, err := c.run("adb", args...)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return res, ErrNotInstalled
		}
		return res, errors.Wrap(err, "run adb")
	}
	return res, nil
}

// Devices lists attached devices via `adb devices`.
func (c *Client) Devices() ([]Device, error) {
	res, err := c.adb("devices")
	if err != nil {
		return nil, err
	}
	return ParseDevices(res.Stdout), nil
}

// Shell runs `adb -s <serial> shell <args...>`.
func (c *Client) Shell(serial string, args ...string) (Result, error) {
	return c.adb(append([]string{"-s", serial, "shell"}, args...)...)
}

// WaitForDevice runs `adb -s <serial> wait-for-device`. An empty serial
// waits for any device.
func (c *Client) WaitForDevice(serial string) error {
	var err error
	if serial == "" {
		_, err = c.adb("wait-for-device")
	} else {
		_, err = c.adb("-s", serial, "wait-for-device")
	}
	return err
}

// Connect runs `adb connect <host:port>`. Best-effort: a refused connection
// shows up as a nonzero exit, which is ignored here.
func (c *Client) Connect(hostPort string) error {
	_, err := c.adb("connect", hostPort)
	return err
}

// StartServer runs `adb start-server`.
func (c *Client) StartServer() error {
	_, err := c.adb("start-server")
	return err
}

// ParseDevices parses `adb devices` output into listing order. Duplicate
// serials are kept as-is. The header line and blanks are skipped.
func ParseDevices(text string) []Device {
	var devices []Device
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "List of devices") {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) >= 2 {
			devices = append(devices, Device{Serial: parts[0], State: State(parts[1])})
		}
	}
	return devices
}
