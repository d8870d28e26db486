//go:build windows

// Package elevate re-invokes the process with administrative rights.
package elevate

import (
	"fmt"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/sys/windows"
)

// Ensure returns nil when the process already runs elevated. Otherwise it
// relaunches itself through the UAC "runas" verb and exits: control passes
// to the elevated child, never back to the caller.
func Ensure() error {
	if isAdmin() {
		return nil
	}

	exePath, err := os.Executable()
	if err != nil {
		return errors.Wrap(err, "resolve executable")
	}

	quoted := make([]string, 0, len(os.Args)-1)
	for _, a := range os.Args[1:] {
		quoted = append(quoted, fmt.Sprintf("%q", a))
	}

	verb, _ := windows.UTF16PtrFromString("runas")
	exe, _ := windows.UTF16PtrFromString(exePath)
	args, _ := windows.UTF16PtrFromString(strings.Join(quoted, " "))

	if err := windows.ShellExecute(0, verb, exe, args, nil, windows.SW_NORMAL); err != nil {
		return errors.Wrap(err, "relaunch elevated")
	}
	os.Exit(0)
	return nil
}

// isAdmin checks membership in the builtin Administrators group.
func isAdmin() bool {
	var sid *windows.SID
	err := windows.AllocateAndInitializeSid(
		&windows.SECURITY_NT_AUTHORITY, 2,
		windows.SECURITY_BUILTIN_DOMAIN_RID, windows.DOMAIN_ALIAS_RID_ADMINS,
		0, 0, 0, 0, 0, 0, &sid)
	if err != nil {
		return false
	}
	defer func() { _ = windows.FreeSid(sid) }()

	member, err := windows.Token(0).IsMember(sid)
	return err == nil && member
}
