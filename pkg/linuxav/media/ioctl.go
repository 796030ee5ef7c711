//go:build linux

package media

import (
	"bytes"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Descriptor operations as package variables so tests can substitute a
// fake driver.
var (
	sysOpen  = rawOpen
	sysIoctl = rawIoctl
)

func rawOpen(path string, flags int) (int, error) {
	return unix.Open(path, flags|unix.O_CLOEXEC, 0)
}

func rawIoctl(fd int, req uint, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), uintptr(req), uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

func cstr(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return string(b[:i])
	}
	return string(b)
}
