package device

import (
	"strconv"
	"strings"

	"github.com/osa030/toadb/internal/adb"
)

// epochProbes are tried in order; different device shells ship different
// minimal toolsets, so fall back from the plain date utility to
// progressively more generic invocations.
var epochProbes = [][]string{
	{"date", "+%s"},
	{"toybox", "date", "+%s"},
	{"busybox", "date", "+%s"},
	{"sh", "-c", "date +%s"},
}

// Reader pulls clock and timezone data off a device. All reads are
// best-effort: a missing value is reported through the ok result, never as
// an error.
type Reader struct {
	bridge adb.Bridge
}

// NewReader returns a Reader backed by the given bridge.
func NewReader(bridge adb.Bridge) *Reader {
	return &Reader{bridge: bridge}
}

// ReadEpoch returns the device's epoch seconds from the first probe whose
// output parses as a nonnegative decimal integer.
func (r *Reader) ReadEpoch(serial string) (int64, bool) {
	for _, probe := range epochProbes {
		res, err := r.bridge.Shell(serial, probe...)
		if err != nil || !res.OK() {
			continue
		}
		raw := strings.TrimSpace(strings.ReplaceAll(res.Stdout, "\r", ""))
		// ParseUint rejects signs and stray characters in one go.
		if v, err := strconv.ParseUint(raw, 10, 63); err == nil {
			return int64(v), true
		}
	}
	return 0, false
}

// ReadUTCOffset returns the device's UTC offset as "+HHMM" or "-HHMM".
func (r *Reader) ReadUTCOffset(serial string) (string, bool) {
	res, err := r.bridge.Shell(serial, "date", "+%z")
	if err != nil || !res.OK() {
		return "", false
	}
	s := strings.TrimSpace(strings.ReplaceAll(res.Stdout, "\r", ""))
	if len(s) >= 5 && (s[0] == '+' || s[0] == '-') {
		return s[:5], true
	}
	return "", false
}

// zoneProbes: the system property is authoritative on most devices; the
// settings database is the fallback and may answer the literal string
// "null".
var zoneProbes = [][]string{
	{"getprop", "persist.sys.timezone"},
	{"settings", "get", "global", "time_zone"},
}

// ReadIANAZone returns the device's IANA timezone id, if any probe yields a
// non-empty value other than "null".
func (r *Reader) ReadIANAZone(serial string) (string, bool) {
	for _, probe := range zoneProbes {
		res, err := r.bridge.Shell(serial, probe...)
		if err != nil || !res.OK() {
			continue
		}
		val := strings.TrimSpace(strings.ReplaceAll(res.Stdout, "\r", ""))
		if val != "" && !strings.EqualFold(val, "null") {
			return val, true
		}
	}
	return "", false
}
