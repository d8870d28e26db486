package hostclock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEtcGMTFromOffsetInvertsSign(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"+0800", "Etc/GMT-8"},
		{"-0300", "Etc/GMT+3"},
		{"+0000", "Etc/GMT+0"},
		{"-0000", "Etc/GMT+0"},
		{"+1200", "Etc/GMT-12"},
		{"-1100", "Etc/GMT+11"},
	}
	for _, tc := range cases {
		got, ok := EtcGMTFromOffset(tc.in)
		assert.True(t, ok, "offset %s", tc.in)
		assert.Equal(t, tc.want, got, "offset %s", tc.in)
	}
}

func TestEtcGMTFromOffsetRejectsPartialHours(t *testing.T) {
	for _, in := range []string{"+0530", "-0330", "+0945"} {
		_, ok := EtcGMTFromOffset(in)
		assert.False(t, ok, "offset %s has no Etc/GMT equivalent", in)
	}
}

func TestEtcGMTFromOffsetRejectsMalformed(t *testing.T) {
	for _, in := range []string{"", "0800", "+08", "+08000", "+ab00", "+08cd"} {
		_, ok := EtcGMTFromOffset(in)
		assert.False(t, ok, "input %q", in)
	}
}

func TestWindowsTablesAgreeOnUTC(t *testing.T) {
	assert.Equal(t, "UTC", ianaToWindows["Etc/UTC"])
	assert.Equal(t, "UTC", offsetToWindows["+0000"])
}
