//go:build linux

package v4l2

import (
	"fmt"
	"runtime"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Sentinel errors for control exchanges. The batch preconditions wrap
// EINVAL so callers can treat them uniformly with driver-side argument
// rejections; both are detected before any device interaction.
var (
	ErrUnsupportedControlType = fmt.Errorf("cannot interpret control type")
	ErrEmptyControlBatch      = fmt.Errorf("control batch is empty: %w", unix.EINVAL)
	ErrMixedControlClasses    = fmt.Errorf("controls in a batch must share one class: %w", unix.EINVAL)
)

// Device is a V4L2 capture device. The zero value is not usable; obtain
// one through Open or OpenPath. A Device is cheap to copy and safe to
// share: all copies refer to the same underlying Handle.
type Device struct {
	handle *Handle
}

// Open opens a capture device by enumeration index (/dev/video<index>).
func Open(index int) (*Device, error) {
	return OpenPath(fmt.Sprintf("/dev/video%d", index))
}

// OpenPath opens the capture device node at path in read-write,
// non-blocking mode.
func OpenPath(path string) (*Device, error) {
	h, err := OpenHandle(path, unix.O_RDWR|unix.O_NONBLOCK)
	if err != nil {
		return nil, err
	}
	return &Device{handle: h}, nil
}

// Handle returns the shared raw device handle.
func (d *Device) Handle() *Handle {
	return d.handle
}

// Close releases the underlying descriptor.
func (d *Device) Close() error {
	return d.handle.Close()
}

// Capabilities returns driver, card and bus identity together with the
// device's capability bitsets.
func (d *Device) Capabilities() (Capabilities, error) {
	var caps v4l2_capability
	if err := sysIoctl(d.handle.Fd(), VIDIOC_QUERYCAP, unsafe.Pointer(&caps)); err != nil {
		return Capabilities{}, fmt.Errorf("query capabilities: %w", err)
	}
	return Capabilities{
		Driver:       cstr(caps.driver[:]),
		Card:         cstr(caps.card[:]),
		BusInfo:      cstr(caps.bus_info[:]),
		Version:      ParseVersion(caps.version),
		Capabilities: caps.capabilities,
		DeviceCaps:   caps.device_caps,
	}, nil
}

// QueryControls enumerates every control the device supports, menu items
// included. A device that rejects the very first query propagates that
// error (controls not supported at all); a device with zero controls
// yields an empty list.
func (d *Device) QueryControls() ([]Description, error) {
	var q v4l2_query_ext_ctrl
	return enumerate(true, func(uint32) (Description, error) {
		// Carry the previous id forward so the driver advances to the
		// next control (and the next compound sub-control) each call.
		q.id |= V4L2_CTRL_FLAG_NEXT_CTRL | V4L2_CTRL_FLAG_NEXT_COMPOUND
		if err := sysIoctl(d.handle.Fd(), VIDIOC_QUERY_EXT_CTRL, unsafe.Pointer(&q)); err != nil {
			return Description{}, err
		}
		desc := descriptionFromWire(&q)
		if desc.Type.IsMenu() {
			desc.Items = d.queryMenuItems(&q)
		}
		return desc, nil
	})
}

// queryMenuItems walks the declared [minimum, maximum] range in steps of
// step. Drivers advertise the full range but may still reject individual
// indices (seen on Logitech C920 webcams, and permitted by the QUERYMENU
// documentation); rejected indices are skipped rather than failing the
// whole control.
func (d *Device) queryMenuItems(q *v4l2_query_ext_ctrl) []MenuItem {
	step := q.step
	if step == 0 {
		step = 1
	}
	var items []MenuItem
	for i := q.minimum; i <= q.maximum; i += int64(step) {
		menu := v4l2_querymenu{id: q.id, index: uint32(i)}
		if err := sysIoctl(d.handle.Fd(), VIDIOC_QUERYMENU, unsafe.Pointer(&menu)); err != nil {
			continue
		}
		item := MenuItem{Index: menu.index}
		if ControlType(q.typ) == ControlTypeIntegerMenu {
			item.Value = menu.value()
		} else {
			item.Name = cstr(menu.name[:])
		}
		items = append(items, item)
	}
	return items
}

// Control reads the current value of the control described by desc. The
// returned union is interpreted according to desc.Type; types beyond
// the integer, menu and boolean kinds are reported as unsupported
// rather than silently truncated.
func (d *Device) Control(desc *Description) (Control, error) {
	wire := v4l2_ext_control{id: desc.ID}
	batch := v4l2_ext_controls{
		count:    1,
		controls: uintptr(unsafe.Pointer(&wire)),
	}
	err := sysIoctl(d.handle.Fd(), VIDIOC_G_EXT_CTRLS, unsafe.Pointer(&batch))
	runtime.KeepAlive(&wire)
	if err != nil {
		return Control{}, fmt.Errorf("get control 0x%08x: %w", desc.ID, err)
	}

	var value Value
	switch desc.Type {
	case ControlTypeInteger64:
		value = Integer(wire.value64())
	case ControlTypeInteger, ControlTypeMenu:
		value = Integer(int64(wire.value()))
	case ControlTypeBoolean:
		value = Boolean(wire.value() == 1)
	default:
		return Control{}, fmt.Errorf("control 0x%08x: %w: %v", desc.ID, ErrUnsupportedControlType, desc.Type)
	}
	return Control{ID: desc.ID, Value: value}, nil
}

// SetControl modifies a single control value.
func (d *Device) SetControl(ctrl Control) error {
	return d.SetControls([]Control{ctrl})
}

// SetControls modifies a batch of control values in one atomic driver
// call. The batch must be non-empty and confined to a single control
// class; the class, taken from the first id, selects the control set the
// driver applies the batch to. Both preconditions are checked before
// any device interaction.
func (d *Device) SetControls(ctrls []Control) error {
	if len(ctrls) == 0 {
		return ErrEmptyControlBatch
	}
	class := Class(ctrls[0].ID)

	wire := make([]v4l2_ext_control, len(ctrls))
	// Backing buffers referenced out of wire structs by address; held
	// here so they stay reachable across the syscall.
	pinned := make([]any, 0, len(ctrls))

	for i, ctrl := range ctrls {
		if Class(ctrl.ID) != class {
			return ErrMixedControlClasses
		}
		w := &wire[i]
		w.id = ctrl.ID

		switch v := ctrl.Value.(type) {
		case nil:
		case Integer:
			w.setValue64(int64(v))
		case Boolean:
			if v {
				w.setValue64(1)
			}
		case String:
			buf := []byte(v)
			if len(buf) > 0 {
				w.setPtr(unsafe.Pointer(&buf[0]))
			}
			w.size = uint32(len(buf))
			pinned = append(pinned, buf)
		case CompoundU8:
			if len(v) > 0 {
				w.setPtr(unsafe.Pointer(&v[0]))
			}
			w.size = uint32(len(v))
			pinned = append(pinned, v)
		case CompoundU16:
			if len(v) > 0 {
				w.setPtr(unsafe.Pointer(&v[0]))
			}
			w.size = uint32(len(v) * 2)
			pinned = append(pinned, v)
		case CompoundU32:
			if len(v) > 0 {
				w.setPtr(unsafe.Pointer(&v[0]))
			}
			w.size = uint32(len(v) * 4)
			pinned = append(pinned, v)
		case CompoundPtr:
			if len(v) > 0 {
				w.setPtr(unsafe.Pointer(&v[0]))
			}
			w.size = uint32(len(v))
			pinned = append(pinned, v)
		default:
			return fmt.Errorf("control 0x%08x: %w: %T", ctrl.ID, ErrUnsupportedControlType, ctrl.Value)
		}
	}

	batch := v4l2_ext_controls{
		which:    class,
		count:    uint32(len(wire)),
		controls: uintptr(unsafe.Pointer(&wire[0])),
	}
	err := sysIoctl(d.handle.Fd(), VIDIOC_S_EXT_CTRLS, unsafe.Pointer(&batch))
	runtime.KeepAlive(wire)
	runtime.KeepAlive(pinned)
	if err != nil {
		return fmt.Errorf("set controls: %w", err)
	}
	return nil
}

// Input describes one selectable video input.
type Input struct {
	Index        uint32
	Name         string
	Type         uint32
	AudioSet     uint32
	Tuner        uint32
	Std          uint64
	Status       uint32
	Capabilities uint32
}

// Output describes one selectable video output.
type Output struct {
	Index        uint32
	Name         string
	Type         uint32
	AudioSet     uint32
	Modulator    uint32
	Std          uint64
	Capabilities uint32
}

// EnumInputs lists the device's video inputs in ascending index order.
// A device with no inputs yields an empty list.
func (d *Device) EnumInputs() ([]Input, error) {
	return enumerate(false, func(index uint32) (Input, error) {
		wire := v4l2_input{index: index}
		if err := sysIoctl(d.handle.Fd(), VIDIOC_ENUMINPUT, unsafe.Pointer(&wire)); err != nil {
			return Input{}, err
		}
		return Input{
			Index:        wire.index,
			Name:         cstr(wire.name[:]),
			Type:         wire.typ,
			AudioSet:     wire.audioset,
			Tuner:        wire.tuner,
			Std:          wire.std,
			Status:       wire.status,
			Capabilities: wire.capabilities,
		}, nil
	})
}

// EnumOutputs lists the device's video outputs in ascending index order.
func (d *Device) EnumOutputs() ([]Output, error) {
	return enumerate(false, func(index uint32) (Output, error) {
		wire := v4l2_output{index: index}
		if err := sysIoctl(d.handle.Fd(), VIDIOC_ENUMOUTPUT, unsafe.Pointer(&wire)); err != nil {
			return Output{}, err
		}
		return Output{
			Index:        wire.index,
			Name:         cstr(wire.name[:]),
			Type:         wire.typ,
			AudioSet:     wire.audioset,
			Modulator:    wire.modulator,
			Std:          wire.std,
			Capabilities: wire.capabilities,
		}, nil
	})
}

// Input returns the index of the currently selected video input.
func (d *Device) Input() (uint32, error) {
	var index uint32
	if err := sysIoctl(d.handle.Fd(), VIDIOC_G_INPUT, unsafe.Pointer(&index)); err != nil {
		return 0, fmt.Errorf("get input: %w", err)
	}
	return index, nil
}

// SetInput selects the video input by index. Bounds are enforced by the
// driver only.
func (d *Device) SetInput(index uint32) error {
	if err := sysIoctl(d.handle.Fd(), VIDIOC_S_INPUT, unsafe.Pointer(&index)); err != nil {
		return fmt.Errorf("set input %d: %w", index, err)
	}
	return nil
}

// Output returns the index of the currently selected video output.
func (d *Device) Output() (uint32, error) {
	var index uint32
	if err := sysIoctl(d.handle.Fd(), VIDIOC_G_OUTPUT, unsafe.Pointer(&index)); err != nil {
		return 0, fmt.Errorf("get output: %w", err)
	}
	return index, nil
}

// SetOutput selects the video output by index.
func (d *Device) SetOutput(index uint32) error {
	if err := sysIoctl(d.handle.Fd(), VIDIOC_S_OUTPUT, unsafe.Pointer(&index)); err != nil {
		return fmt.Errorf("set output %d: %w", index, err)
	}
	return nil
}

// Read maps directly onto one descriptor-level read.
func (d *Device) Read(p []byte) (int, error) {
	return unix.Read(d.handle.Fd(), p)
}

// Write maps directly onto one descriptor-level write. There is no
// internal buffering, so every write is flushed by definition.
func (d *Device) Write(p []byte) (int, error) {
	return unix.Write(d.handle.Fd(), p)
}
