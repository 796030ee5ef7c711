//go:build linux

package v4l2

import (
	"errors"
	"testing"
	"unsafe"

	"golang.org/x/sys/unix"
)

// fakeDevice substitutes the descriptor layer for the duration of one
// test. The ioctl hook receives the raw request and argument pointer and
// plays the driver's side of the exchange.
func fakeDevice(t *testing.T, ioctl func(req uint, arg unsafe.Pointer) error) *Device {
	t.Helper()
	origIoctl, origClose := sysIoctl, sysClose
	t.Cleanup(func() {
		sysIoctl, sysClose = origIoctl, origClose
	})
	sysIoctl = func(fd int, req uint, arg unsafe.Pointer) error {
		return ioctl(req, arg)
	}
	sysClose = func(fd int) error { return nil }
	return &Device{handle: NewHandle(42)}
}

func putName(dst []byte, s string) {
	copy(dst, s)
	dst[len(s)] = 0
}

func TestCapabilities(t *testing.T) {
	d := fakeDevice(t, func(req uint, arg unsafe.Pointer) error {
		if req != VIDIOC_QUERYCAP {
			t.Fatalf("unexpected ioctl 0x%08x", req)
		}
		caps := (*v4l2_capability)(arg)
		putName(caps.driver[:], "uvcvideo")
		putName(caps.card[:], "HD Webcam C920")
		putName(caps.bus_info[:], "usb-0000:00:14.0-1")
		caps.version = 0x00050f02
		caps.capabilities = CapVideoCapture | CapStreaming | CapDeviceCaps
		caps.device_caps = CapVideoCapture
		return nil
	})

	got, err := d.Capabilities()
	if err != nil {
		t.Fatalf("Capabilities() error: %v", err)
	}
	if got.Driver != "uvcvideo" || got.Card != "HD Webcam C920" {
		t.Errorf("identity = %q / %q, want uvcvideo / HD Webcam C920", got.Driver, got.Card)
	}
	if got.Version != (Version{5, 15, 2}) {
		t.Errorf("version = %v, want 5.15.2", got.Version)
	}
	if got.Effective() != CapVideoCapture {
		t.Errorf("effective caps = 0x%08x, want device_caps 0x%08x", got.Effective(), CapVideoCapture)
	}
	if !got.Has(CapStreaming) {
		t.Error("Has(CapStreaming) = false, want true")
	}
}

func TestQueryControls(t *testing.T) {
	// A driver with two controls: an integer followed by a menu with a
	// hole at index 1. The driver checks that every query carries both
	// continuation bits ORed into the previously returned id.
	wantIDs := []uint32{
		V4L2_CTRL_FLAG_NEXT_CTRL | V4L2_CTRL_FLAG_NEXT_COMPOUND,
		0x00980900 | V4L2_CTRL_FLAG_NEXT_CTRL | V4L2_CTRL_FLAG_NEXT_COMPOUND,
		0x009a0901 | V4L2_CTRL_FLAG_NEXT_CTRL | V4L2_CTRL_FLAG_NEXT_COMPOUND,
	}
	call := 0
	d := fakeDevice(t, func(req uint, arg unsafe.Pointer) error {
		switch req {
		case VIDIOC_QUERY_EXT_CTRL:
			q := (*v4l2_query_ext_ctrl)(arg)
			if call >= len(wantIDs) || q.id != wantIDs[call] {
				t.Fatalf("call %d: id = 0x%08x, want 0x%08x", call, q.id, wantIDs[call])
			}
			switch call {
			case 0:
				*q = v4l2_query_ext_ctrl{
					id: 0x00980900, typ: uint32(ControlTypeInteger),
					minimum: 0, maximum: 255, step: 1, default_value: 128,
				}
				putName(q.name[:], "Brightness")
			case 1:
				*q = v4l2_query_ext_ctrl{
					id: 0x009a0901, typ: uint32(ControlTypeMenu),
					minimum: 0, maximum: 2, step: 1, default_value: 1,
				}
				putName(q.name[:], "Exposure, Auto")
			default:
				return unix.EINVAL
			}
			call++
		case VIDIOC_QUERYMENU:
			m := (*v4l2_querymenu)(arg)
			if m.id != 0x009a0901 {
				t.Fatalf("querymenu id = 0x%08x", m.id)
			}
			switch m.index {
			case 0:
				putName(m.name[:], "Manual Mode")
			case 1:
				return unix.EINVAL
			case 2:
				putName(m.name[:], "Aperture Priority Mode")
			default:
				return unix.EINVAL
			}
		default:
			t.Fatalf("unexpected ioctl 0x%08x", req)
		}
		return nil
	})

	descs, err := d.QueryControls()
	if err != nil {
		t.Fatalf("QueryControls() error: %v", err)
	}
	if len(descs) != 2 {
		t.Fatalf("got %d controls, want 2", len(descs))
	}
	if descs[0].Name != "Brightness" || descs[0].Type != ControlTypeInteger {
		t.Errorf("control 0 = %q/%v, want Brightness/integer", descs[0].Name, descs[0].Type)
	}
	if descs[0].Items != nil {
		t.Errorf("integer control has %d menu items, want none", len(descs[0].Items))
	}
	menu := descs[1]
	if len(menu.Items) != 2 {
		t.Fatalf("menu items = %d, want 2 (index 1 rejected)", len(menu.Items))
	}
	if menu.Items[0].Index != 0 || menu.Items[0].Name != "Manual Mode" {
		t.Errorf("item 0 = %d/%q", menu.Items[0].Index, menu.Items[0].Name)
	}
	if menu.Items[1].Index != 2 || menu.Items[1].Name != "Aperture Priority Mode" {
		t.Errorf("item 1 = %d/%q", menu.Items[1].Index, menu.Items[1].Name)
	}
}

func TestQueryControlsFirstErrorPropagates(t *testing.T) {
	d := fakeDevice(t, func(req uint, arg unsafe.Pointer) error {
		return unix.EINVAL
	})
	if _, err := d.QueryControls(); !errors.Is(err, unix.EINVAL) {
		t.Errorf("first-call EINVAL: got %v, want EINVAL", err)
	}
}

func TestQueryControlsIntegerMenuValues(t *testing.T) {
	call := 0
	d := fakeDevice(t, func(req uint, arg unsafe.Pointer) error {
		switch req {
		case VIDIOC_QUERY_EXT_CTRL:
			if call > 0 {
				return unix.EINVAL
			}
			call++
			q := (*v4l2_query_ext_ctrl)(arg)
			*q = v4l2_query_ext_ctrl{
				id: 0x009e0903, typ: uint32(ControlTypeIntegerMenu),
				minimum: 0, maximum: 1, step: 1,
			}
			putName(q.name[:], "ISO Sensitivity")
		case VIDIOC_QUERYMENU:
			m := (*v4l2_querymenu)(arg)
			v := int64(100 * (m.index + 1))
			for i := 0; i < 8; i++ {
				m.name[i] = byte(v >> (8 * i))
			}
		default:
			t.Fatalf("unexpected ioctl 0x%08x", req)
		}
		return nil
	})

	descs, err := d.QueryControls()
	if err != nil {
		t.Fatalf("QueryControls() error: %v", err)
	}
	items := descs[0].Items
	if len(items) != 2 || items[0].Value != 100 || items[1].Value != 200 {
		t.Fatalf("integer menu items = %+v, want values 100 and 200", items)
	}
	if items[0].Name != "" {
		t.Errorf("integer menu item has name %q, want empty", items[0].Name)
	}
}

func TestControlInterpretation(t *testing.T) {
	tests := []struct {
		name    string
		typ     ControlType
		raw     int64
		want    Value
		wantErr error
	}{
		{name: "integer64", typ: ControlTypeInteger64, raw: 1 << 40, want: Integer(1 << 40)},
		{name: "integer widened", typ: ControlTypeInteger, raw: -7, want: Integer(-7)},
		{name: "menu widened", typ: ControlTypeMenu, raw: 3, want: Integer(3)},
		{name: "boolean true", typ: ControlTypeBoolean, raw: 1, want: Boolean(true)},
		{name: "boolean zero", typ: ControlTypeBoolean, raw: 0, want: Boolean(false)},
		{name: "boolean nonstandard", typ: ControlTypeBoolean, raw: 2, want: Boolean(false)},
		{name: "button unsupported", typ: ControlTypeButton, wantErr: ErrUnsupportedControlType},
		{name: "string unsupported", typ: ControlTypeString, wantErr: ErrUnsupportedControlType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := fakeDevice(t, func(req uint, arg unsafe.Pointer) error {
				if req != VIDIOC_G_EXT_CTRLS {
					t.Fatalf("unexpected ioctl 0x%08x", req)
				}
				batch := (*v4l2_ext_controls)(arg)
				if batch.count != 1 || batch.which != 0 {
					t.Fatalf("batch count=%d which=0x%08x, want 1/current", batch.count, batch.which)
				}
				ctrl := (*v4l2_ext_control)(unsafe.Pointer(batch.controls))
				ctrl.setValue64(tt.raw)
				return nil
			})

			desc := &Description{ID: 0x00980900, Type: tt.typ}
			got, err := d.Control(desc)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Control() error: %v", err)
			}
			if got.Value != tt.want {
				t.Errorf("value = %#v, want %#v", got.Value, tt.want)
			}
			if got.ID != desc.ID {
				t.Errorf("id = 0x%08x, want 0x%08x", got.ID, desc.ID)
			}
		})
	}
}

func TestSetControlsPreconditions(t *testing.T) {
	calls := 0
	d := fakeDevice(t, func(req uint, arg unsafe.Pointer) error {
		calls++
		return nil
	})

	err := d.SetControls(nil)
	if !errors.Is(err, ErrEmptyControlBatch) {
		t.Errorf("empty batch error = %v, want ErrEmptyControlBatch", err)
	}
	if !errors.Is(err, unix.EINVAL) {
		t.Errorf("empty batch error does not match EINVAL: %v", err)
	}

	err = d.SetControls([]Control{
		{ID: 0x00980900, Value: Integer(1)}, // user class
		{ID: 0x009a0902, Value: Integer(1)}, // camera class
	})
	if !errors.Is(err, ErrMixedControlClasses) {
		t.Errorf("mixed class error = %v, want ErrMixedControlClasses", err)
	}

	if calls != 0 {
		t.Errorf("device touched %d times before precondition failure, want 0", calls)
	}
}

func TestSetControlsMarshalling(t *testing.T) {
	payload := CompoundU8{1, 2, 3, 4}
	d := fakeDevice(t, func(req uint, arg unsafe.Pointer) error {
		if req != VIDIOC_S_EXT_CTRLS {
			t.Fatalf("unexpected ioctl 0x%08x", req)
		}
		batch := (*v4l2_ext_controls)(arg)
		if batch.which != 0x00980000 {
			t.Errorf("which = 0x%08x, want class 0x00980000", batch.which)
		}
		if batch.count != 3 {
			t.Fatalf("count = %d, want 3", batch.count)
		}
		wire := unsafe.Slice((*v4l2_ext_control)(unsafe.Pointer(batch.controls)), batch.count)
		if wire[0].value64() != 42 {
			t.Errorf("integer payload = %d, want 42", wire[0].value64())
		}
		if wire[1].value64() != 1 {
			t.Errorf("boolean payload = %d, want 1", wire[1].value64())
		}
		if wire[2].size != uint32(len(payload)) {
			t.Errorf("compound size = %d, want %d", wire[2].size, len(payload))
		}
		data := unsafe.Slice((*byte)(unsafe.Pointer(*(*uintptr)(unsafe.Pointer(&wire[2].anon[0])))), wire[2].size)
		for i := range payload {
			if data[i] != payload[i] {
				t.Errorf("compound byte %d = %d, want %d", i, data[i], payload[i])
			}
		}
		return nil
	})

	err := d.SetControls([]Control{
		{ID: 0x00980900, Value: Integer(42)},
		{ID: 0x00980901, Value: Boolean(true)},
		{ID: 0x00980910, Value: payload},
	})
	if err != nil {
		t.Fatalf("SetControls() error: %v", err)
	}
}

func TestEnumInputs(t *testing.T) {
	d := fakeDevice(t, func(req uint, arg unsafe.Pointer) error {
		if req != VIDIOC_ENUMINPUT {
			t.Fatalf("unexpected ioctl 0x%08x", req)
		}
		in := (*v4l2_input)(arg)
		if in.index >= 2 {
			return unix.EINVAL
		}
		putName(in.name[:], "Camera")
		in.typ = 2
		return nil
	})

	inputs, err := d.EnumInputs()
	if err != nil {
		t.Fatalf("EnumInputs() error: %v", err)
	}
	if len(inputs) != 2 {
		t.Fatalf("got %d inputs, want 2", len(inputs))
	}
	if inputs[1].Index != 1 || inputs[1].Name != "Camera" {
		t.Errorf("input 1 = %d/%q", inputs[1].Index, inputs[1].Name)
	}
}

func TestEnumInputsEmpty(t *testing.T) {
	d := fakeDevice(t, func(req uint, arg unsafe.Pointer) error {
		return unix.EINVAL
	})
	inputs, err := d.EnumInputs()
	if err != nil {
		t.Fatalf("EnumInputs() error: %v", err)
	}
	if inputs == nil || len(inputs) != 0 {
		t.Errorf("inputs = %#v, want empty non-nil list", inputs)
	}
}

func TestEnumInputsHardError(t *testing.T) {
	d := fakeDevice(t, func(req uint, arg unsafe.Pointer) error {
		in := (*v4l2_input)(arg)
		if in.index == 1 {
			return unix.EIO
		}
		return nil
	})
	if _, err := d.EnumInputs(); !errors.Is(err, unix.EIO) {
		t.Errorf("mid-listing failure: got %v, want EIO", err)
	}
}

func TestSelectInput(t *testing.T) {
	var current uint32 = 1
	d := fakeDevice(t, func(req uint, arg unsafe.Pointer) error {
		switch req {
		case VIDIOC_G_INPUT:
			*(*uint32)(arg) = current
		case VIDIOC_S_INPUT:
			idx := *(*uint32)(arg)
			if idx >= 2 {
				return unix.EINVAL
			}
			current = idx
		default:
			t.Fatalf("unexpected ioctl 0x%08x", req)
		}
		return nil
	})

	if got, err := d.Input(); err != nil || got != 1 {
		t.Fatalf("Input() = %d, %v, want 1", got, err)
	}
	if err := d.SetInput(0); err != nil {
		t.Fatalf("SetInput(0) error: %v", err)
	}
	if got, _ := d.Input(); got != 0 {
		t.Errorf("after SetInput(0), Input() = %d", got)
	}
	if err := d.SetInput(7); !errors.Is(err, unix.EINVAL) {
		t.Errorf("SetInput(7) = %v, want EINVAL from driver", err)
	}
}

func TestHandleCloseOnce(t *testing.T) {
	origClose := sysClose
	t.Cleanup(func() { sysClose = origClose })
	closes := 0
	sysClose = func(fd int) error {
		closes++
		return nil
	}

	h := NewHandle(7)
	for i := 0; i < 3; i++ {
		if err := h.Close(); err != nil {
			t.Fatalf("Close() #%d error: %v", i, err)
		}
	}
	if closes != 1 {
		t.Errorf("descriptor closed %d times, want 1", closes)
	}
}
