//go:build !windows

package config

import (
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// configDir picks /etc when running as root (the normal case for a boot
// service) and the user config directory otherwise.
func configDir() string {
	if unix.Geteuid() == 0 {
		return "/etc/toadb"
	}
	if base, err := os.UserConfigDir(); err == nil {
		return filepath.Join(base, "toadb")
	}
	return filepath.Join(os.TempDir(), "toadb")
}
