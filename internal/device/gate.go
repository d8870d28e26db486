package device

import (
	"context"
	"strings"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/toadb/internal/adb"
)

const authPollInterval = 500 * time.Millisecond

// Gate blocks until a device is attached, authorized, and shell-responsive.
type Gate struct {
	bridge       adb.Bridge
	pollInterval time.Duration
}

// NewGate returns a Gate polling at the standard interval.
func NewGate(bridge adb.Bridge) *Gate {
	return &Gate{bridge: bridge, pollInterval: authPollInterval}
}

// Await blocks until the device both reports state "device" in the listing
// and answers a trivial echo probe with exit 0. It has no timeout of its
// own; cancellation comes from ctx, and bounding the wait is the
// scheduler's job.
func (g *Gate) Await(ctx context.Context, serial string) error {
	_ = g.bridge.StartServer()
	_ = g.bridge.WaitForDevice(serial)

	for {
		if ready, err := g.probe(serial); err != nil {
			return err
		} else if ready {
			zlog.Info().Msg("ADB device authorized.")
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(g.pollInterval):
		}
	}
}

// probe checks listing state first: an echo against an unauthorized device
// would block on the confirmation dialog rather than fail fast.
func (g *Gate) probe(serial string) (bool, error) {
	devices, err := g.bridge.Devices()
	if err != nil {
		return false, err
	}

	state := ""
	for _, d := range devices {
		if d.Serial == serial {
			state = string(d.State) // duplicates: last one wins
		}
	}
	if state != string(adb.StateDevice) {
		return false, nil
	}

	res, err := g.bridge.Shell(serial, "echo", "ok")
	if err != nil {
		return false, err
	}
	return res.OK() && strings.Contains(res.Stdout, "ok"), nil
}
