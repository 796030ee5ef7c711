//go:build linux

package v4l2

import "unsafe"

// Kernel ABI mirror of include/uapi/linux/videodev2.h. Field offsets and
// sizes must match the kernel byte for byte; the assertions below fail
// the build if a struct drifts. Structs whose layout depends on pointer
// width live in the per-architecture files.

// Compile-time struct size assertions.
var (
	_ [104]byte = [unsafe.Sizeof(v4l2_capability{})]byte{}
	_ [232]byte = [unsafe.Sizeof(v4l2_query_ext_ctrl{})]byte{}
	_ [44]byte  = [unsafe.Sizeof(v4l2_querymenu{})]byte{}
	_ [20]byte  = [unsafe.Sizeof(v4l2_ext_control{})]byte{}
	_ [72]byte  = [unsafe.Sizeof(v4l2_output{})]byte{}
	_ [64]byte  = [unsafe.Sizeof(v4l2_fmtdesc{})]byte{}
	_ [8]byte   = [unsafe.Sizeof(v4l2_frmsize_discrete{})]byte{}
	_ [24]byte  = [unsafe.Sizeof(v4l2_frmsize_stepwise{})]byte{}
	_ [44]byte  = [unsafe.Sizeof(v4l2_frmsizeenum{})]byte{}
	_ [8]byte   = [unsafe.Sizeof(v4l2_fract{})]byte{}
	_ [52]byte  = [unsafe.Sizeof(v4l2_frmivalenum{})]byte{}
	_ [24]byte  = [unsafe.Sizeof(v4l2_frmival_stepwise{})]byte{}
)

// IOCTL request codes that are identical on all supported architectures.
const (
	VIDIOC_QUERYCAP            = 0x80685600
	VIDIOC_ENUM_FMT            = 0xc0405602
	VIDIOC_G_INPUT             = 0x80045626
	VIDIOC_S_INPUT             = 0xc0045627
	VIDIOC_G_OUTPUT            = 0x8004562e
	VIDIOC_S_OUTPUT            = 0xc004562f
	VIDIOC_ENUMINPUT           = 0xc050561a
	VIDIOC_ENUMOUTPUT          = 0xc0485630
	VIDIOC_QUERYMENU           = 0xc02c5625
	VIDIOC_ENUM_FRAMESIZES     = 0xc02c564a
	VIDIOC_ENUM_FRAMEINTERVALS = 0xc034564b
	VIDIOC_QUERY_EXT_CTRL      = 0xc0e85667
)

// Control enumeration continuation bits, ORed into the id carried between
// VIDIOC_QUERY_EXT_CTRL calls.
const (
	V4L2_CTRL_FLAG_NEXT_CTRL     = 0x80000000
	V4L2_CTRL_FLAG_NEXT_COMPOUND = 0x40000000
)

// v4l2_capability has size 104 bytes.
type v4l2_capability struct {
	driver       [16]byte  // offset 0
	card         [32]byte  // offset 16
	bus_info     [32]byte  // offset 48
	version      uint32    // offset 80
	capabilities uint32    // offset 84
	device_caps  uint32    // offset 88
	reserved     [3]uint32 // offset 92
}

// v4l2_query_ext_ctrl has size 232 bytes.
type v4l2_query_ext_ctrl struct {
	id            uint32     // offset 0
	typ           uint32     // offset 4
	name          [32]byte   // offset 8
	minimum       int64      // offset 40
	maximum       int64      // offset 48
	step          uint64     // offset 56
	default_value int64      // offset 64
	flags         uint32     // offset 72
	elem_size     uint32     // offset 76
	elems         uint32     // offset 80
	nr_of_dims    uint32     // offset 84
	dims          [4]uint32  // offset 88
	reserved      [32]uint32 // offset 104
}

// v4l2_querymenu has size 44 bytes (the kernel declares it packed).
// The name field doubles as an int64 value for integer menus.
type v4l2_querymenu struct {
	id       uint32   // offset 0
	index    uint32   // offset 4
	name     [32]byte // offset 8 (union with value for integer menus)
	reserved uint32   // offset 40
}

// value extracts the int64 union member carried in the name bytes.
func (m *v4l2_querymenu) value() int64 {
	v := uint64(m.name[0]) | uint64(m.name[1])<<8 | uint64(m.name[2])<<16 |
		uint64(m.name[3])<<24 | uint64(m.name[4])<<32 | uint64(m.name[5])<<40 |
		uint64(m.name[6])<<48 | uint64(m.name[7])<<56
	return int64(v)
}

// v4l2_ext_control has size 20 bytes on every architecture (the kernel
// declares it packed, so the 8-byte union sits unaligned at offset 12).
type v4l2_ext_control struct {
	id       uint32  // offset 0
	size     uint32  // offset 4
	reserved uint32  // offset 8
	anon     [8]byte // offset 12 (union: value, value64, pointer)
}

func (c *v4l2_ext_control) value() int32 {
	return *(*int32)(unsafe.Pointer(&c.anon[0]))
}

func (c *v4l2_ext_control) value64() int64 {
	return *(*int64)(unsafe.Pointer(&c.anon[0]))
}

func (c *v4l2_ext_control) setValue64(v int64) {
	*(*int64)(unsafe.Pointer(&c.anon[0])) = v
}

func (c *v4l2_ext_control) setPtr(p unsafe.Pointer) {
	*(*uintptr)(unsafe.Pointer(&c.anon[0])) = uintptr(p)
}

// v4l2_output has size 72 bytes.
type v4l2_output struct {
	index        uint32    // offset 0
	name         [32]byte  // offset 4
	typ          uint32    // offset 36
	audioset     uint32    // offset 40
	modulator    uint32    // offset 44
	std          uint64    // offset 48
	capabilities uint32    // offset 56
	reserved     [3]uint32 // offset 60
}

// v4l2_fmtdesc has size 64 bytes.
type v4l2_fmtdesc struct {
	index       uint32    // offset 0
	typ         uint32    // offset 4
	flags       uint32    // offset 8
	description [32]byte  // offset 12
	pixelformat uint32    // offset 44
	mbus_code   uint32    // offset 48
	reserved    [3]uint32 // offset 52
}

// v4l2_frmsize_discrete has size 8 bytes.
type v4l2_frmsize_discrete struct {
	width  uint32
	height uint32
}

// v4l2_frmsize_stepwise has size 24 bytes.
type v4l2_frmsize_stepwise struct {
	min_width   uint32
	max_width   uint32
	step_width  uint32
	min_height  uint32
	max_height  uint32
	step_height uint32
}

// v4l2_frmsizeenum has size 44 bytes.
type v4l2_frmsizeenum struct {
	index        uint32                // offset 0
	pixel_format uint32                // offset 4
	typ          uint32                // offset 8
	discrete     v4l2_frmsize_discrete // offset 12 (union with stepwise)
	_            [16]byte              // padding for the stepwise arm
	reserved     [2]uint32             // offset 36
}

// stepwise reinterprets the union arm starting at the discrete member.
func (e *v4l2_frmsizeenum) stepwise() *v4l2_frmsize_stepwise {
	return (*v4l2_frmsize_stepwise)(unsafe.Pointer(&e.discrete))
}

// v4l2_fract has size 8 bytes.
type v4l2_fract struct {
	numerator   uint32
	denominator uint32
}

// v4l2_frmivalenum has size 52 bytes.
type v4l2_frmivalenum struct {
	index        uint32            // offset 0
	pixel_format uint32            // offset 4
	width        uint32            // offset 8
	height       uint32            // offset 12
	typ          uint32            // offset 16
	discrete     v4l2_fract        // offset 20 (union with stepwise)
	_            [16]byte          // padding for the stepwise arm
	reserved     [2]uint32         // offset 44
}

// v4l2_frmival_stepwise has size 24 bytes.
type v4l2_frmival_stepwise struct {
	min  v4l2_fract
	max  v4l2_fract
	step v4l2_fract
}

// stepwise reinterprets the union arm starting at the discrete member.
func (e *v4l2_frmivalenum) stepwise() *v4l2_frmival_stepwise {
	return (*v4l2_frmival_stepwise)(unsafe.Pointer(&e.discrete))
}

// Buffer and enumeration type constants.
const (
	V4L2_BUF_TYPE_VIDEO_CAPTURE = 1

	V4L2_FRMSIZE_TYPE_DISCRETE   = 1
	V4L2_FRMSIZE_TYPE_CONTINUOUS = 2
	V4L2_FRMSIZE_TYPE_STEPWISE   = 3

	V4L2_FRMIVAL_TYPE_DISCRETE   = 1
	V4L2_FRMIVAL_TYPE_CONTINUOUS = 2
	V4L2_FRMIVAL_TYPE_STEPWISE   = 3

	V4L2_FMT_FLAG_EMULATED = 0x0002
)
