//go:build windows

package config

import (
	"os"
	"path/filepath"
)

// configDir uses the machine-wide ProgramData directory so the boot service
// and an interactive `toadb device N` see the same selection.
func configDir() string {
	base := os.Getenv("PROGRAMDATA")
	if base == "" {
		base = `C:\ProgramData`
	}
	return filepath.Join(base, "toadb")
}
