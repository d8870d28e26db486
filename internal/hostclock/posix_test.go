package hostclock

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/toadb/internal/execx"
)

func newTestPosix(t *testing.T, cmd *fakeCommander) *Posix {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "zoneinfo", "Asia"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "zoneinfo", "Asia", "Tokyo"), []byte("TZif"), 0644))
	return &Posix{
		cmd:           cmd,
		zoneinfoDir:   filepath.Join(dir, "zoneinfo"),
		localtimePath: filepath.Join(dir, "localtime"),
		zoneNamePath:  filepath.Join(dir, "timezone"),
	}
}

func TestPosixTimezoneViaTimedatectl(t *testing.T) {
	cmd := &fakeCommander{available: map[string]bool{"timedatectl": true}}
	p := newTestPosix(t, cmd)

	assert.True(t, p.ApplyTimezone("Asia/Tokyo", "+0900"))
	require.Len(t, cmd.calls, 1)
	assert.Equal(t, "timedatectl set-timezone Asia/Tokyo", cmd.calls[0])
}

func TestPosixTimezoneSymlinkFallback(t *testing.T) {
	// timedatectl absent: the zoneinfo file on disk is linked and the zone
	// name file written.
	cmd := &fakeCommander{available: map[string]bool{}}
	p := newTestPosix(t, cmd)

	assert.True(t, p.ApplyTimezone("Asia/Tokyo", ""))
	assert.True(t, cmd.calledWithPrefix("ln -sf"))

	name, err := os.ReadFile(p.zoneNamePath)
	require.NoError(t, err)
	assert.Equal(t, "Asia/Tokyo\n", string(name))
}

func TestPosixTimezoneOffsetFallback(t *testing.T) {
	// Unknown zone id, whole-hour offset: fall back to the Etc/GMT name
	// with inverted sign.
	cmd := &fakeCommander{
		available: map[string]bool{"timedatectl": true},
		runFn: func(name string, args ...string) (execx.Result, error) {
			if len(args) >= 2 && args[1] == "Mars/Olympus" {
				return execx.Result{ExitCode: 1}, nil
			}
			return execx.Result{}, nil
		},
	}
	p := newTestPosix(t, cmd)

	assert.True(t, p.ApplyTimezone("Mars/Olympus", "+0800"))
	assert.Contains(t, cmd.calls, "timedatectl set-timezone Etc/GMT-8")
}

func TestPosixTimezonePartialHourOffsetFails(t *testing.T) {
	cmd := &fakeCommander{available: map[string]bool{"timedatectl": true}}
	p := newTestPosix(t, cmd)

	assert.False(t, p.ApplyTimezone("", "+0545"))
	assert.Empty(t, cmd.calls)
}

func TestPosixTimezoneNothingKnownFails(t *testing.T) {
	cmd := &fakeCommander{}
	p := newTestPosix(t, cmd)

	assert.False(t, p.ApplyTimezone("", ""))
	assert.Empty(t, cmd.calls)
}

func TestPosixEpochPausesNTP(t *testing.T) {
	cmd := &fakeCommander{available: map[string]bool{"timedatectl": true}}
	p := newTestPosix(t, cmd)

	assert.True(t, p.ApplyEpoch(1756200000))
	require.Equal(t, []string{
		"timedatectl set-ntp false",
		"date -u -s @1756200000",
		"timedatectl set-ntp true",
	}, cmd.calls)
}

func TestPosixEpochResumesNTPAfterFailure(t *testing.T) {
	cmd := &fakeCommander{
		available: map[string]bool{"timedatectl": true},
		runFn: func(name string, args ...string) (execx.Result, error) {
			if name == "date" {
				return execx.Result{ExitCode: 1, Stderr: "date: cannot set date"}, nil
			}
			return execx.Result{}, nil
		},
	}
	p := newTestPosix(t, cmd)

	assert.False(t, p.ApplyEpoch(1756200000))
	assert.Contains(t, cmd.calls, "timedatectl set-ntp true")
}

func TestPosixEpochWithoutTimedatectl(t *testing.T) {
	cmd := &fakeCommander{}
	p := newTestPosix(t, cmd)

	assert.True(t, p.ApplyEpoch(42))
	require.Len(t, cmd.calls, 1)
	assert.True(t, strings.HasPrefix(cmd.calls[0], "date -u -s @42"))
}
