//go:build !windows

// Package elevate re-invokes the process with administrative rights.
package elevate

import (
	"os"
	"os/exec"

	"github.com/cockroachdb/errors"
	"golang.org/x/sys/unix"
)

// Ensure returns nil when the process already runs as root. Otherwise it
// replaces the process image through pkexec or sudo and does not return;
// an error means no elevation helper is available.
func Ensure() error {
	if unix.Geteuid() == 0 {
		return nil
	}

	exe, err := os.Executable()
	if err != nil {
		return errors.Wrap(err, "resolve executable")
	}
	argv := append([]string{exe}, os.Args[1:]...)

	for _, helper := range []string{"pkexec", "sudo"} {
		path, err := exec.LookPath(helper)
		if err != nil {
			continue
		}
		// Exec replaces the process image and only returns on error.
		if err := unix.Exec(path, append([]string{helper}, argv...), os.Environ()); err != nil {
			return errors.Wrapf(err, "exec %s", helper)
		}
	}

	return errors.New("need root privileges but neither pkexec nor sudo is available")
}
