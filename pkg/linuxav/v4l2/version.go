//go:build linux

package v4l2

import "fmt"

// Version is a major.minor.patch triple decoded from the packed 32-bit
// form used throughout the V4L2 and media-controller ABIs: bits 16-23
// major, 8-15 minor, 0-7 patch.
type Version struct {
	Major uint8
	Minor uint8
	Patch uint8
}

// ParseVersion decodes the packed 32-bit representation.
func ParseVersion(v uint32) Version {
	return Version{
		Major: uint8(v >> 16),
		Minor: uint8(v >> 8),
		Patch: uint8(v),
	}
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}
