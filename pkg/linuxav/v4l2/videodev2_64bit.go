//go:build linux && (amd64 || arm64)

package v4l2

import "unsafe"

// Compile-time struct size assertions for 64-bit architectures.
var (
	_ [32]byte = [unsafe.Sizeof(v4l2_ext_controls{})]byte{}
	_ [80]byte = [unsafe.Sizeof(v4l2_input{})]byte{}
)

// IOCTL request codes whose argument size embeds a pointer width.
const (
	VIDIOC_G_EXT_CTRLS   = 0xc0205647
	VIDIOC_S_EXT_CTRLS   = 0xc0205648
	VIDIOC_TRY_EXT_CTRLS = 0xc0205649
)

// v4l2_ext_controls has size 32 bytes on 64-bit.
type v4l2_ext_controls struct {
	which      uint32  // offset 0 (union with the legacy ctrl_class field)
	count      uint32  // offset 4
	error_idx  uint32  // offset 8
	request_fd int32   // offset 12
	reserved   uint32  // offset 16
	_          [4]byte // padding before the pointer
	controls   uintptr // offset 24
}

// v4l2_input has size 80 bytes.
type v4l2_input struct {
	index        uint32    // offset 0
	name         [32]byte  // offset 4
	typ          uint32    // offset 36
	audioset     uint32    // offset 40
	tuner        uint32    // offset 44
	std          uint64    // offset 48
	status       uint32    // offset 56
	capabilities uint32    // offset 60
	reserved     [3]uint32 // offset 64
}
