package syncer

import (
	"context"
	"sync"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/toadb/internal/adb"
	"github.com/osa030/toadb/internal/config"
	"github.com/osa030/toadb/internal/device"
	"github.com/osa030/toadb/internal/elevate"
	"github.com/osa030/toadb/internal/hostclock"
)

// Syncer drives sync attempts against a selected device. It is strictly
// sequential: one attempt in flight at a time, no shared mutable state
// across goroutines.
type Syncer struct {
	bridge   adb.Bridge
	registry *device.Registry
	gate     *device.Gate
	reader   *device.Reader
	applier  hostclock.Applier
	store    *config.Store
	opts     Options

	elevateFn   func() error
	elevateOnce sync.Once
	elevateErr  error

	// clock seams, replaced in tests
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error

	hadSuccess bool
	lastSerial string
}

// New wires a Syncer over the given bridge, selection store, and applier.
func New(bridge adb.Bridge, store *config.Store, applier hostclock.Applier, opts Options) *Syncer {
	return &Syncer{
		bridge:    bridge,
		registry:  device.NewRegistry(bridge),
		gate:      device.NewGate(bridge),
		reader:    device.NewReader(bridge),
		applier:   applier,
		store:     store,
		opts:      opts,
		elevateFn: elevate.Ensure,
		now:       time.Now,
		sleep:     sleepCtx,
	}
}

// ensureElevated runs the single elevation attempt this process gets.
// A non-nil result is fatal: the process cannot mutate the host clock.
func (s *Syncer) ensureElevated() error {
	s.elevateOnce.Do(func() {
		s.elevateErr = s.elevateFn()
	})
	return s.elevateErr
}

// SyncOnce reads the phone's clock and timezone and applies them to the
// host. The returned bool is the AND of the timezone step and the time step
// (vacuously true when drift is under threshold). A non-nil error means
// privilege elevation is impossible and the whole run should stop.
func (s *Syncer) SyncOnce(serial string) (bool, error) {
	phoneEpoch, ok := s.reader.ReadEpoch(serial)
	if !ok {
		// An unreadable epoch means the device shell is unusable;
		// don't bother with the timezone either.
		zlog.Info().Msg("Failed to read epoch from phone.")
		return false, nil
	}

	offset, _ := s.reader.ReadUTCOffset(serial)
	zone, _ := s.reader.ReadIANAZone(serial)

	hostEpoch := s.now().Unix()
	drift := phoneEpoch - hostEpoch

	zlog.Info().Msgf("Phone epoch: %d | Host epoch: %d | Drift: %ds", phoneEpoch, hostEpoch, drift)
	if zone != "" {
		zlog.Info().Msgf("Phone timezone: %s", zone)
	}
	if offset != "" {
		zlog.Info().Msgf("Phone offset: %s", offset)
	}

	if err := s.ensureElevated(); err != nil {
		return false, err
	}

	okTZ := s.applier.ApplyTimezone(zone, offset)

	okTime := true
	if abs(drift) >= s.opts.DriftThresholdSeconds {
		okTime = s.applier.ApplyEpoch(phoneEpoch)
	} else {
		zlog.Info().Msg("Drift below threshold; skipping time change.")
	}

	switch {
	case okTZ && okTime:
		zlog.Info().Msg("System time and timezone updated.")
	case okTZ:
		zlog.Info().Msg("Timezone updated; time unchanged due to error or threshold.")
	case okTime:
		zlog.Info().Msg("Time updated; timezone unchanged (no mapping or failure).")
	default:
		zlog.Info().Msg("Failed to update time and timezone.")
	}

	return okTZ && okTime, nil
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
