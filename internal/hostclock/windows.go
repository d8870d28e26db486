package hostclock

import (
	"fmt"
	"strings"

	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/toadb/internal/execx"
)

// Windows applies time and timezone via powershell. The w32time service is
// stopped around clock changes so it does not immediately undo them.
type Windows struct {
	cmd execx.Commander
}

// NewWindows returns the applier using the system shell.
func NewWindows() *Windows {
	return &Windows{cmd: execx.System{}}
}

// ApplyTimezone resolves a Windows timezone identifier from the phone's
// IANA zone, falling back to the raw UTC offset, and applies it with
// Set-TimeZone. Only an explicit OK marker in the output counts as success.
func (w *Windows) ApplyTimezone(zone, offset string) bool {
	target := ""
	if zone != "" {
		target = ianaToWindows[zone]
	}
	if target == "" && offset != "" {
		target = offsetToWindows[offset]
	}
	if target == "" {
		zlog.Info().Msg("Windows timezone unchanged (no mapping for phone tz/offset).")
		return false
	}

	script := fmt.Sprintf(
		"try { Set-TimeZone -Id '%s' -ErrorAction Stop; 'OK' } catch { 'ERR:'+$_ }", target)
	res, err := w.cmd.Run("powershell", "-NoProfile", "-Command", script)
	if err == nil && res.OK() && strings.Contains(res.Stdout, "OK") {
		zlog.Info().Msgf("Windows timezone set to %s", target)
		return true
	}

	msg := strings.TrimSpace(res.Stdout)
	if msg == "" {
		msg = strings.TrimSpace(res.Stderr)
	}
	zlog.Info().Msgf("Failed to set Windows timezone to %s: %s", target, msg)
	return false
}

// ApplyEpoch stops the time service, sets the clock to the epoch converted
// to local wall time, and restarts the service regardless of the outcome.
// Only the Set-Date exit status decides the result.
func (w *Windows) ApplyEpoch(epoch int64) bool {
	_, _ = w.cmd.Run("powershell", "-NoProfile", "-Command",
		"Stop-Service w32time -ErrorAction SilentlyContinue")

	setScript := fmt.Sprintf(
		"$u=%d; $t=[DateTimeOffset]::FromUnixTimeSeconds($u).LocalDateTime; Set-Date -Date $t", epoch)
	res, err := w.cmd.Run("powershell", "-NoProfile", "-Command", setScript)
	ok := err == nil && res.OK()
	if !ok {
		zlog.Info().Msgf("Failed to set Windows time: %s", strings.TrimSpace(res.Stderr))
	}

	_, _ = w.cmd.Run("powershell", "-NoProfile", "-Command",
		"Start-Service w32time -ErrorAction SilentlyContinue")
	return ok
}
