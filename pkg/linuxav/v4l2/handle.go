//go:build linux

package v4l2

import (
	"fmt"
	"sync"
)

// Handle owns a single open descriptor to a device node. A *Handle may
// be shared freely between a Device, a media-controller device and any
// request objects; whoever holds the pointer holds the same underlying
// descriptor, and Close releases it exactly once no matter how many
// holders call it.
type Handle struct {
	fd        int
	closeOnce sync.Once
	closeErr  error
}

// OpenHandle opens the device node at path with the given open(2) flags.
func OpenHandle(path string, flags int) (*Handle, error) {
	fd, err := sysOpen(path, flags)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return NewHandle(fd), nil
}

// NewHandle wraps an already-open descriptor. The handle takes ownership:
// the descriptor must not be closed by anyone else.
func NewHandle(fd int) *Handle {
	return &Handle{fd: fd}
}

// Fd returns the raw file descriptor for privileged operations.
func (h *Handle) Fd() int {
	return h.fd
}

// Poll blocks until the descriptor signals one of events or until
// timeoutMS elapses. A timeout of zero returns immediately even if the
// descriptor is not ready; a negative timeout blocks indefinitely. The
// result is the number of ready descriptors, 0 or 1.
func (h *Handle) Poll(events int16, timeoutMS int) (int, error) {
	return sysPoll(h.fd, events, timeoutMS)
}

// Close releases the descriptor. Only the first call closes; later calls
// return the first call's result. A close failure here is a programming
// error (the descriptor was tampered with), so it is surfaced rather
// than swallowed.
func (h *Handle) Close() error {
	h.closeOnce.Do(func() {
		h.closeErr = sysClose(h.fd)
	})
	return h.closeErr
}
