//go:build unix

// Package privilege gives up the elevated ids the locker may be installed
// with. Reading the shadow database can need setuid root or setgid shadow;
// nothing after that does.
package privilege

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Drop sets the effective and saved group and user ids back to the real
// ones. The group is changed first, while the process may still be allowed
// to do so.
func Drop() error {
	return drop(unix.Getuid(), unix.Getgid(), unix.Geteuid() == 0)
}

func drop(uid, gid int, root bool) error {
	if root {
		if err := unix.Setgroups(nil); err != nil {
			return fmt.Errorf("setgroups: %w", err)
		}
	}
	if err := unix.Setgid(gid); err != nil {
		return fmt.Errorf("setgid: %w", err)
	}
	if err := unix.Setuid(uid); err != nil {
		return fmt.Errorf("setuid: %w", err)
	}
	return nil
}

// Elevated reports whether the effective ids differ from the real ones.
func Elevated() bool {
	return unix.Geteuid() != unix.Getuid() || unix.Getegid() != unix.Getgid()
}
