package syncer

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/toadb/internal/adb"
)

// iterResult classifies one loop iteration for scheduling purposes.
type iterResult int

const (
	iterNoDevices iterResult = iota
	iterSynced
	iterFailed
)

// Run drives the boot-cycle state machine: poll at the discovery interval
// until the first successful sync, then refresh periodically. Without a
// success inside the startup window the daemon exits benignly and leaves
// the retry to the next boot.
//
// A nil return is benign termination. adb.ErrNotInstalled and elevation
// failures are returned as-is; context cancellation surfaces as ctx.Err().
func (s *Syncer) Run(ctx context.Context) error {
	o := s.opts
	zlog.Info().Msgf("toadb daemon: discovery every %s for %s, then refresh every %s on success.",
		o.DiscoveryInterval, o.StartupWindow, o.RefreshInterval)

	if err := s.bridge.StartServer(); err != nil {
		return err
	}
	start := s.now()

	for {
		res, err := s.iterate(ctx)
		if err != nil {
			if errors.Is(err, adb.ErrNotInstalled) || ctx.Err() != nil || s.elevateErr != nil {
				return err
			}
			// Iteration boundary: anything unexpected is a warning and a
			// failed attempt, never a reason to stop the loop.
			zlog.Warn().Msgf("loop error: %v", err)
			res = iterFailed
		}

		if res == iterSynced {
			s.hadSuccess = true
		}

		if o.Oneshot {
			if res == iterNoDevices {
				zlog.Info().Msg("No devices; oneshot mode exiting.")
			}
			return nil
		}

		switch {
		case res == iterNoDevices:
			// A device that vanishes after a success is polled at the
			// discovery interval too: there is nothing to refresh.
			if !s.hadSuccess && s.now().Sub(start) >= o.StartupWindow {
				zlog.Info().Msg("No device authorized within startup window; exiting until next boot.")
				return nil
			}
			if serr := s.sleep(ctx, o.DiscoveryInterval); serr != nil {
				return serr
			}
		case s.hadSuccess:
			if serr := s.sleep(ctx, o.RefreshInterval); serr != nil {
				return serr
			}
		default:
			if s.now().Sub(start) >= o.StartupWindow {
				if err != nil {
					zlog.Info().Msg("Startup window expired after errors; exiting until next boot.")
				} else {
					zlog.Info().Msg("Startup window expired without a successful sync; exiting until next boot.")
				}
				return nil
			}
			if serr := s.sleep(ctx, o.DiscoveryInterval); serr != nil {
				return serr
			}
		}
	}
}

// iterate performs one pass: connect, list, resolve, gate, sync.
func (s *Syncer) iterate(ctx context.Context) (iterResult, error) {
	if s.opts.ConnectTarget != "" {
		_ = s.bridge.Connect(s.opts.ConnectTarget)
	}

	devices, err := s.bridge.Devices()
	if err != nil {
		return iterFailed, err
	}
	if len(devices) == 0 {
		return iterNoDevices, nil
	}

	saved := s.store.Load().SelectedSerial
	serial, err := s.registry.ResolveSerial(s.opts.PreferredSerial, saved)
	if err != nil {
		return iterFailed, err
	}
	if serial == "" {
		return iterNoDevices, nil
	}

	online := 0
	for _, d := range devices {
		if d.Online() {
			online++
		}
	}
	if online > 1 && s.opts.PreferredSerial == "" && saved == "" {
		zlog.Info().Msg("2+ online devices detected: using the first. Pin one with: toadb list | toadb device N")
	}

	if serial != s.lastSerial {
		zlog.Info().Msgf("Watching device: %s (%s)", serial, s.registry.Model(serial))
		s.lastSerial = serial
	}

	if err := s.gate.Await(ctx, serial); err != nil {
		return iterFailed, err
	}

	ok, err := s.SyncOnce(serial)
	if err != nil {
		return iterFailed, err
	}
	if ok {
		return iterSynced, nil
	}
	return iterFailed, nil
}

// Resync performs a single blocking sync: it waits for some device to show
// up if none is attached, then waits for authorization and syncs once.
func (s *Syncer) Resync(ctx context.Context) (bool, error) {
	saved := s.store.Load().SelectedSerial
	serial, err := s.registry.ResolveSerial(s.opts.PreferredSerial, saved)
	if err != nil {
		return false, err
	}

	if serial == "" {
		zlog.Info().Msg("No devices detected. Waiting for one...")
		_ = s.bridge.WaitForDevice("")
		serial, err = s.registry.ResolveSerial("", "")
		if err != nil {
			return false, err
		}
		if serial == "" {
			zlog.Info().Msg("Still no device.")
			return false, nil
		}
	}

	zlog.Info().Msgf("Using device: %s (%s)", serial, s.registry.Model(serial))
	if err := s.gate.Await(ctx, serial); err != nil {
		return false, err
	}
	return s.SyncOnce(serial)
}

// sleepCtx blocks for d or until ctx is cancelled, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
