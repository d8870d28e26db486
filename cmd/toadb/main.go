// Package main provides the toadb entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/toadb/internal/adb"
	"github.com/osa030/toadb/internal/config"
	"github.com/osa030/toadb/internal/hostclock"
	"github.com/osa030/toadb/internal/logger"
	"github.com/osa030/toadb/internal/syncer"
)

const (
	exitOK       = 0
	exitFailure  = 1
	exitNoBridge = 127

	defaultDiscoverySec = "5"
	defaultWindowSec    = "900"
	defaultRefreshSec   = "600"
	defaultDriftSec     = "1"
)

var (
	app     = kingpin.New("toadb", "Keep the host clock and timezone aligned with a tethered Android device")
	verbose = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Envar("VERBOSE").Bool()
	logfile = app.Flag("logfile", "Path to log file (in addition to stdout)").Envar("LOG_FILE").String()
	serial  = app.Flag("serial", "Explicit device serial, overriding discovery and saved selection").Envar("TOADB_SERIAL").String()
	connect = app.Flag("connect", "host:port passed to `adb connect` before each poll").Envar("ADB_CONNECT").String()

	discoverySec = app.Flag("discovery-interval", "Poll interval in seconds before the first successful sync").
			Default(defaultDiscoverySec).Envar("DISCOVERY_INTERVAL").Int()
	windowSec = app.Flag("startup-window", "Seconds to keep discovering before giving up until next boot").
			Default(defaultWindowSec).Envar("STARTUP_WINDOW").Int()
	refreshSec = app.Flag("refresh-interval", "Steady-state poll interval in seconds after a successful sync").
			Default(defaultRefreshSec).Envar("REFRESH_INTERVAL").Int()
	driftSec = app.Flag("drift-threshold", "Minimum absolute drift in seconds before the clock is changed").
			Default(defaultDriftSec).Envar("DRIFT_THRESHOLD").Int64()

	oneshotCmd = app.Command("oneshot", "Perform a single pass then exit")
	resyncCmd  = app.Command("resync", "Sync once now, waiting for device authorization")
	listCmd    = app.Command("list", "List connected devices")
	deviceCmd  = app.Command("device", "Pin the device selection by 1-based index from `toadb list`")
	deviceIdx  = deviceCmd.Arg("n", "Device number").Int()
	resetCmd   = app.Command("reset", "Clear the saved device selection")
)

func init() {
	// run command (default) - no need to store the command
	app.Command("run", "Run the boot-cycle daemon (default)").Default()
}

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	if err := logger.Init(*verbose, *logfile); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	code := run(command)
	logger.Close()
	os.Exit(code)
}

func run(command string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bridge := adb.NewClient()

	store, err := config.NewStore()
	if err != nil {
		zlog.Error().Msgf("Config store unavailable: %v", err)
		return exitFailure
	}

	switch command {
	case listCmd.FullCommand():
		return cmdList(bridge)
	case deviceCmd.FullCommand():
		return cmdDevice(bridge, store, *deviceIdx)
	case resetCmd.FullCommand():
		return cmdReset(store)
	}

	opts := syncer.Options{
		ConnectTarget:         *connect,
		PreferredSerial:       *serial,
		DiscoveryInterval:     time.Duration(*discoverySec) * time.Second,
		StartupWindow:         time.Duration(*windowSec) * time.Second,
		RefreshInterval:       time.Duration(*refreshSec) * time.Second,
		DriftThresholdSeconds: *driftSec,
		Oneshot:               command == oneshotCmd.FullCommand(),
	}
	if err := opts.Validate(); err != nil {
		zlog.Error().Msgf("Config validation failed: %v", err)
		return exitFailure
	}

	s := syncer.New(bridge, store, hostclock.ForHost(), opts)

	if command == resyncCmd.FullCommand() {
		ok, err := s.Resync(ctx)
		if err != nil {
			return classify(err)
		}
		if !ok {
			return exitFailure
		}
		return exitOK
	}

	if err := s.Run(ctx); err != nil {
		return classify(err)
	}
	return exitOK
}

// classify maps a run error to a process exit code.
func classify(err error) int {
	switch {
	case errors.Is(err, adb.ErrNotInstalled):
		zlog.Error().Msg("adb not found. Install platform-tools and put adb on PATH.")
		return exitNoBridge
	case errors.Is(err, context.Canceled):
		zlog.Info().Msg("Received shutdown signal; exiting.")
		return exitOK
	default:
		zlog.Error().Msgf("toadb failed: %v", err)
		return exitFailure
	}
}

func cmdList(bridge adb.Bridge) int {
	devices, err := bridge.Devices()
	if err != nil {
		return classify(err)
	}
	if len(devices) == 0 {
		zlog.Info().Msg("No ADB devices found.")
		return exitFailure
	}

	zlog.Info().Msg("Detected devices:")
	for i, d := range devices {
		zlog.Info().Msgf("  %d: %s [%s]", i+1, d.Serial, d.State)
	}
	return exitOK
}

func cmdDevice(bridge adb.Bridge, store *config.Store, idx int) int {
	devices, err := bridge.Devices()
	if err != nil {
		return classify(err)
	}
	if len(devices) == 0 {
		zlog.Info().Msg("No ADB devices found. Connect one or use `adb connect host:port`.")
		return exitFailure
	}

	// Bare `toadb device` behaves like `toadb list`.
	if idx == 0 {
		return cmdList(bridge)
	}
	if idx < 1 || idx > len(devices) {
		zlog.Info().Msg("Invalid device number.")
		return exitFailure
	}

	sel := config.Selection{SelectedSerial: devices[idx-1].Serial}
	if err := store.Save(sel); err != nil {
		zlog.Error().Msgf("Failed to save selection: %v", err)
		return exitFailure
	}
	zlog.Info().Msgf("Selected device: %s", sel.SelectedSerial)
	return exitOK
}

func cmdReset(store *config.Store) int {
	if err := store.Reset(); err != nil {
		zlog.Error().Msgf("Failed to reset config: %v", err)
		return exitFailure
	}
	zlog.Info().Msg("toadb config reset.")
	return exitOK
}
