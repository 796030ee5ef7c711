//go:build linux

package v4l2

import (
	"errors"

	"golang.org/x/sys/unix"
)

// enumerate drives the kernel's probe-until-EINVAL listing convention:
// step is called with ascending indices until the driver answers EINVAL,
// which is absorbed as "no more items". Step functions that carry state
// between calls (control enumeration) close over it; the index is then
// only used to recognize the first probe.
//
// propagateFirst makes EINVAL on the very first probe a real error
// instead of an empty listing; control enumeration uses it to tell "not
// supported at all" apart from "supported but empty". Any error other
// than EINVAL aborts the listing and is returned; items collected before
// it are discarded in favor of surfacing the failure.
func enumerate[T any](propagateFirst bool, step func(index uint32) (T, error)) ([]T, error) {
	items := []T{}
	for i := uint32(0); ; i++ {
		item, err := step(i)
		if err != nil {
			if errors.Is(err, unix.EINVAL) && !(propagateFirst && i == 0) {
				return items, nil
			}
			return nil, err
		}
		items = append(items, item)
	}
}
