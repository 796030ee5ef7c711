//go:build linux && arm && !arm64

package v4l2

import "unsafe"

// Compile-time struct size assertions for 32-bit ARM.
var (
	_ [24]byte = [unsafe.Sizeof(v4l2_ext_controls{})]byte{}
	_ [80]byte = [unsafe.Sizeof(v4l2_input{})]byte{}
)

// IOCTL request codes whose argument size embeds a pointer width.
const (
	VIDIOC_G_EXT_CTRLS   = 0xc0185647
	VIDIOC_S_EXT_CTRLS   = 0xc0185648
	VIDIOC_TRY_EXT_CTRLS = 0xc0185649
)

// v4l2_ext_controls has size 24 bytes on 32-bit ARM.
type v4l2_ext_controls struct {
	which      uint32  // offset 0 (union with the legacy ctrl_class field)
	count      uint32  // offset 4
	error_idx  uint32  // offset 8
	request_fd int32   // offset 12
	reserved   uint32  // offset 16
	controls   uintptr // offset 20
}

// v4l2_input has size 80 bytes. The kernel EABI aligns the struct to
// 8 bytes; Go on arm aligns uint64 to 4, so the trailing pad is explicit.
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
	_            [4]byte   // offset 76, kernel struct padding
}
