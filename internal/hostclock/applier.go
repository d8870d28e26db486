// Package hostclock applies a phone's timezone and clock to the host
// machine.
//
// Two strategies exist, selected by host OS. Timezone application and time
// application are independent best-effort steps: a failure in one never
// blocks the other, and nothing is rolled back.
package hostclock

import "runtime"

// Applier commits a timezone and/or an absolute epoch to the host.
// Arguments may be empty when the corresponding value could not be read
// from the phone.
type Applier interface {
	ApplyTimezone(zone, offset string) bool
	ApplyEpoch(epoch int64) bool
}

// ForHost returns the applier matching the running OS.
func ForHost() Applier {
	if runtime.GOOS == "windows" {
		return NewWindows()
	}
	return NewPosix()
}
