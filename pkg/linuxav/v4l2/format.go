//go:build linux

package v4l2

import (
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Format describes one pixel format a capture device can produce.
type Format struct {
	PixelFormat uint32
	Description string
	// Emulated formats are converted in software by libv4l rather than
	// delivered by the hardware.
	Emulated bool
}

// Fract is a frame interval as an exact fraction of a second.
type Fract struct {
	Numerator   uint32
	Denominator uint32
}

// FPS converts the interval into frames per second.
func (f Fract) FPS() float64 {
	if f.Numerator == 0 {
		return 0
	}
	return float64(f.Denominator) / float64(f.Numerator)
}

func (f Fract) String() string {
	return fmt.Sprintf("%d/%d", f.Numerator, f.Denominator)
}

// RangeKind tells how a frame size or interval entry is expressed.
type RangeKind uint32

const (
	RangeDiscrete   RangeKind = 1
	RangeContinuous RangeKind = 2
	RangeStepwise   RangeKind = 3
)

// FrameSize is one supported resolution entry. Discrete entries carry
// the exact dimensions in the Min fields with zero steps; stepwise and
// continuous entries describe the full range.
type FrameSize struct {
	Kind       RangeKind
	MinWidth   uint32
	MaxWidth   uint32
	StepWidth  uint32
	MinHeight  uint32
	MaxHeight  uint32
	StepHeight uint32
}

// FrameInterval is one supported frame interval entry. Discrete entries
// carry the value in Min; stepwise and continuous entries describe the
// full range.
type FrameInterval struct {
	Kind RangeKind
	Min  Fract
	Max  Fract
	Step Fract
}

// Formats lists the pixel formats the device can capture, in driver
// order.
func (d *Device) Formats() ([]Format, error) {
	return enumerate(false, func(index uint32) (Format, error) {
		wire := v4l2_fmtdesc{
			index: index,
			typ:   V4L2_BUF_TYPE_VIDEO_CAPTURE,
		}
		if err := sysIoctl(d.handle.Fd(), VIDIOC_ENUM_FMT, unsafe.Pointer(&wire)); err != nil {
			return Format{}, err
		}
		return Format{
			PixelFormat: wire.pixelformat,
			Description: cstr(wire.description[:]),
			Emulated:    wire.flags&V4L2_FMT_FLAG_EMULATED != 0,
		}, nil
	})
}

// FrameSizes lists the resolutions supported for a pixel format. A
// stepwise or continuous device reports a single range entry. Devices
// that do not implement the ioctl at all yield an empty list.
func (d *Device) FrameSizes(pixelFormat uint32) ([]FrameSize, error) {
	sizes, err := enumerate(false, func(index uint32) (FrameSize, error) {
		wire := v4l2_frmsizeenum{
			index:        index,
			pixel_format: pixelFormat,
		}
		if err := sysIoctl(d.handle.Fd(), VIDIOC_ENUM_FRAMESIZES, unsafe.Pointer(&wire)); err != nil {
			return FrameSize{}, err
		}
		size := FrameSize{Kind: RangeKind(wire.typ)}
		if wire.typ == V4L2_FRMSIZE_TYPE_DISCRETE {
			size.MinWidth = wire.discrete.width
			size.MaxWidth = wire.discrete.width
			size.MinHeight = wire.discrete.height
			size.MaxHeight = wire.discrete.height
		} else {
			sw := wire.stepwise()
			size.MinWidth = sw.min_width
			size.MaxWidth = sw.max_width
			size.StepWidth = sw.step_width
			size.MinHeight = sw.min_height
			size.MaxHeight = sw.max_height
			size.StepHeight = sw.step_height
		}
		return size, nil
	})
	if errors.Is(err, unix.ENOTTY) {
		return []FrameSize{}, nil
	}
	return sizes, err
}

// FrameIntervals lists the frame intervals supported for a pixel format
// at a given resolution. A stepwise or continuous device reports a
// single range entry.
func (d *Device) FrameIntervals(pixelFormat, width, height uint32) ([]FrameInterval, error) {
	return enumerate(false, func(index uint32) (FrameInterval, error) {
		wire := v4l2_frmivalenum{
			index:        index,
			pixel_format: pixelFormat,
			width:        width,
			height:       height,
		}
		if err := sysIoctl(d.handle.Fd(), VIDIOC_ENUM_FRAMEINTERVALS, unsafe.Pointer(&wire)); err != nil {
			return FrameInterval{}, err
		}
		ival := FrameInterval{Kind: RangeKind(wire.typ)}
		if wire.typ == V4L2_FRMIVAL_TYPE_DISCRETE {
			ival.Min = Fract{wire.discrete.numerator, wire.discrete.denominator}
			ival.Max = ival.Min
		} else {
			sw := wire.stepwise()
			ival.Min = Fract{sw.min.numerator, sw.min.denominator}
			ival.Max = Fract{sw.max.numerator, sw.max.denominator}
			ival.Step = Fract{sw.step.numerator, sw.step.denominator}
		}
		return ival, nil
	})
}
