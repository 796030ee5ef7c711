//go:build linux

package media

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/smazurov/mediactl/pkg/linuxav/v4l2"
)

// Request is a kernel request object for batching configuration. The
// caller stages work against it by placing its descriptor in the
// request_fd field of supporting ioctls, commits with Queue and waits
// for completion with Done. A queued request cannot be modified until
// it completes; Reinit returns it to the staging state for reuse.
//
// https://www.kernel.org/doc/html/latest/userspace-api/media/mediactl/request-api.html
type Request struct {
	handle *v4l2.Handle
}

// Fd exposes the request descriptor for use as request_fd.
func (r *Request) Fd() int {
	return r.handle.Fd()
}

// Queue commits the staged configuration for asynchronous application.
func (r *Request) Queue() error {
	if err := sysIoctl(r.handle.Fd(), MEDIA_REQUEST_IOC_QUEUE, nil); err != nil {
		return fmt.Errorf("queue request: %w", err)
	}
	return nil
}

// Reinit discards any staged or completed state so the request can be
// reused without reallocating.
func (r *Request) Reinit() error {
	if err := sysIoctl(r.handle.Fd(), MEDIA_REQUEST_IOC_REINIT, nil); err != nil {
		return fmt.Errorf("reinit request: %w", err)
	}
	return nil
}

// Done waits until the queued request completes, reported by the kernel
// as an exceptional condition on the request descriptor. It returns
// false when timeoutMS elapses first; a negative timeout blocks until
// completion.
func (r *Request) Done(timeoutMS int) (bool, error) {
	n, err := r.handle.Poll(unix.POLLPRI, timeoutMS)
	if err != nil {
		return false, fmt.Errorf("wait for request: %w", err)
	}
	return n > 0, nil
}

// Close releases the request descriptor.
func (r *Request) Close() error {
	return r.handle.Close()
}
