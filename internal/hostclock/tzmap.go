package hostclock

import (
	"fmt"
	"strconv"
)

// ianaToWindows maps common IANA zone ids to Windows timezone identifiers.
// Replaceable data, not logic; extend as devices from new regions show up.
var ianaToWindows = map[string]string{
	"UTC":                 "UTC",
	"Etc/UTC":             "UTC",
	"America/Los_Angeles": "Pacific Standard Time",
	"America/Denver":      "Mountain Standard Time",
	"America/Chicago":     "Central Standard Time",
	"America/New_York":    "Eastern Standard Time",
	"America/Phoenix":     "US Mountain Standard Time",
	"America/Anchorage":   "Alaskan Standard Time",
	"Pacific/Honolulu":    "Hawaiian Standard Time",
	"Europe/London":       "GMT Standard Time",
	"Europe/Berlin":       "W. Europe Standard Time",
	"Europe/Paris":        "Romance Standard Time",
	"Europe/Madrid":       "Romance Standard Time",
	"Europe/Rome":         "W. Europe Standard Time",
	"Europe/Warsaw":       "Central European Standard Time",
	"Europe/Moscow":       "Russian Standard Time",
	"Asia/Tehran":         "Iran Standard Time",
	"Asia/Jerusalem":      "Israel Standard Time",
	"Asia/Tokyo":          "Tokyo Standard Time",
	"Asia/Seoul":          "Korea Standard Time",
	"Asia/Shanghai":       "China Standard Time",
	"Asia/Hong_Kong":      "China Standard Time",
	"Asia/Kolkata":        "India Standard Time",
	"Asia/Kathmandu":      "Nepal Standard Time",
	"Australia/Sydney":    "AUS Eastern Standard Time",
	"Australia/Perth":     "W. Australia Standard Time",
	"America/Sao_Paulo":   "E. South America Standard Time",
	"America/Bogota":      "SA Pacific Standard Time",
	"Africa/Cairo":        "Egypt Standard Time",
	"Africa/Johannesburg": "South Africa Standard Time",
}

// offsetToWindows is the last-resort mapping when only a raw UTC offset is
// known. Deliberately short: an offset alone is ambiguous across zones.
var offsetToWindows = map[string]string{
	"-0800": "Pacific Standard Time",
	"-0700": "Mountain Standard Time",
	"-0600": "Central Standard Time",
	"-0500": "Eastern Standard Time",
	"+0000": "UTC",
	"+0100": "W. Europe Standard Time",
	"+0200": "South Africa Standard Time",
	"+0300": "Russian Standard Time",
	"+0330": "Iran Standard Time",
	"+0530": "India Standard Time",
	"+0900": "Tokyo Standard Time",
}

// EtcGMTFromOffset maps a whole-hour "+HHMM"/"-HHMM" offset to an Etc/GMT
// zone id. The sign is inverted on purpose: POSIX fixed-offset names run
// opposite to ISO offsets, so +0800 becomes Etc/GMT-8 and -0300 becomes
// Etc/GMT+3. Offsets with nonzero minutes have no Etc/GMT equivalent.
func EtcGMTFromOffset(hhmm string) (string, bool) {
	if len(hhmm) != 5 || (hhmm[0] != '+' && hhmm[0] != '-') {
		return "", false
	}
	hours, err := strconv.Atoi(hhmm[1:3])
	if err != nil {
		return "", false
	}
	minutes, err := strconv.Atoi(hhmm[3:5])
	if err != nil || minutes != 0 {
		return "", false
	}

	offset := hours
	if hhmm[0] == '+' {
		offset = -hours
	}
	return fmt.Sprintf("Etc/GMT%+d", offset), true
}
