//go:build !windows
// +build !windows

package lib

import "syscall"

// getPlatformSysProcAttr returns platform-specific SysProcAttr configuration
func getPlatformSysProcAttr() *syscall.SysProcAttr {
	// at(1) stays in our process group so a terminated caller takes it down too
	return nil
}
