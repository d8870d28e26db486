package hostclock

import (
	"fmt"
	"os"
	"path/filepath"

	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/toadb/internal/execx"
)

// Posix applies time and timezone on Linux-like hosts via timedatectl with
// zoneinfo-symlink and date(1) fallbacks.
type Posix struct {
	cmd           execx.Commander
	zoneinfoDir   string
	localtimePath string
	zoneNamePath  string
}

// NewPosix returns the applier with the standard system paths.
func NewPosix() *Posix {
	return &Posix{
		cmd:           execx.System{},
		zoneinfoDir:   "/usr/share/zoneinfo",
		localtimePath: "/etc/localtime",
		zoneNamePath:  "/etc/timezone",
	}
}

// ApplyTimezone walks the fallback chain: timedatectl with the phone's IANA
// zone, then a direct zoneinfo symlink, then an Etc/GMT zone derived from a
// whole-hour offset. Reports false when every rung fails.
func (p *Posix) ApplyTimezone(zone, offset string) bool {
	if zone != "" {
		if p.cmd.Have("timedatectl") {
			if res, err := p.cmd.Run("timedatectl", "set-timezone", zone); err == nil && res.OK() {
				zlog.Info().Msgf("Linux timezone set to %s", zone)
				return true
			}
		}

		zonefile := filepath.Join(p.zoneinfoDir, zone)
		if _, err := os.Stat(zonefile); err == nil {
			_, _ = p.cmd.Run("ln", "-sf", zonefile, p.localtimePath)
			if err := os.WriteFile(p.zoneNamePath, []byte(zone+"\n"), 0644); err != nil {
				zlog.Info().Msgf("Failed to write timezone link: %v", err)
			} else {
				zlog.Info().Msgf("Linux timezone set (symlink) to %s", zone)
				return true
			}
		}
	}

	if offset != "" {
		if etcName, ok := EtcGMTFromOffset(offset); ok && p.cmd.Have("timedatectl") {
			if res, err := p.cmd.Run("timedatectl", "set-timezone", etcName); err == nil && res.OK() {
				zlog.Info().Msgf("Linux timezone set to %s (from offset %s)", etcName, offset)
				return true
			}
		}
	}

	zlog.Info().Msg("Linux timezone unchanged (no valid tz id or offset mapping).")
	return false
}

// ApplyEpoch forces the clock to the given epoch interpreted as UTC.
// NTP synchronization is paused around the set when timedatectl exists;
// the pause and resume are fire-and-forget.
func (p *Posix) ApplyEpoch(epoch int64) bool {
	hasTimedatectl := p.cmd.Have("timedatectl")
	if hasTimedatectl {
		_, _ = p.cmd.Run("timedatectl", "set-ntp", "false")
	}

	res, err := p.cmd.Run("date", "-u", "-s", fmt.Sprintf("@%d", epoch))
	ok := err == nil && res.OK()
	if !ok {
		zlog.Info().Msgf("Failed to set Linux time: %s", res.Stderr)
	}

	if hasTimedatectl {
		_, _ = p.cmd.Run("timedatectl", "set-ntp", "true")
	}
	return ok
}
