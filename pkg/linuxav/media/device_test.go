//go:build linux

package media

import (
	"errors"
	"testing"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/smazurov/mediactl/pkg/linuxav/v4l2"
)

// fakeController substitutes the ioctl layer for the duration of one
// test; the hook plays the driver's side of the exchange.
func fakeController(t *testing.T, ioctl func(req uint, arg unsafe.Pointer) error) *Device {
	t.Helper()
	orig := sysIoctl
	t.Cleanup(func() { sysIoctl = orig })
	sysIoctl = func(fd int, req uint, arg unsafe.Pointer) error {
		return ioctl(req, arg)
	}
	return &Device{handle: v4l2.NewHandle(42)}
}

func putName(dst []byte, s string) {
	copy(dst, s)
	dst[len(s)] = 0
}

func TestInfo(t *testing.T) {
	d := fakeController(t, func(req uint, arg unsafe.Pointer) error {
		if req != MEDIA_IOC_DEVICE_INFO {
			t.Fatalf("unexpected ioctl 0x%08x", req)
		}
		wire := (*media_device_info)(arg)
		putName(wire.driver[:], "uvcvideo")
		putName(wire.model[:], "HD Webcam C920")
		putName(wire.serial[:], "0123456789AB")
		putName(wire.bus_info[:], "usb-0000:00:14.0-1")
		wire.media_version = 0x00050f02
		wire.hw_revision = 0x0207
		wire.driver_version = 0x00060a00
		return nil
	})

	info, err := d.Info()
	if err != nil {
		t.Fatalf("Info() error: %v", err)
	}
	if info.Driver != "uvcvideo" || info.Bus != "usb-0000:00:14.0-1" {
		t.Errorf("identity = %q / %q", info.Driver, info.Bus)
	}
	if info.MediaVersion != (v4l2.Version{Major: 5, Minor: 15, Patch: 2}) {
		t.Errorf("media version = %v, want 5.15.2", info.MediaVersion)
	}
	if info.DriverVersion != (v4l2.Version{Major: 6, Minor: 10, Patch: 0}) {
		t.Errorf("driver version = %v, want 6.10.0", info.DriverVersion)
	}
}

func TestEntities(t *testing.T) {
	d := fakeController(t, func(req uint, arg unsafe.Pointer) error {
		if req != MEDIA_IOC_ENUM_ENTITIES {
			t.Fatalf("unexpected ioctl 0x%08x", req)
		}
		desc := (*media_entity_desc)(arg)
		if desc.id&MEDIA_ENT_ID_FLAG_NEXT == 0 {
			t.Fatalf("query id 0x%08x lacks the next-entity bit", desc.id)
		}
		switch desc.id &^ MEDIA_ENT_ID_FLAG_NEXT {
		case 0:
			*desc = media_entity_desc{id: 1, typ: MEDIA_ENT_F_CAM_SENSOR, pads: 1, links: 1}
			putName(desc.name[:], "imx219")
		case 1:
			*desc = media_entity_desc{id: 2, typ: MEDIA_ENT_F_IO_V4L, pads: 1, links: 1}
			putName(desc.name[:], "rp1-cfe-csi2_ch0")
			n := (*[2]uint32)(unsafe.Pointer(&desc.union[0]))
			n[0], n[1] = 81, 4
		case 2:
			*desc = media_entity_desc{id: 5, typ: 0x2000f}
			putName(desc.name[:], "mystery")
		default:
			return unix.EINVAL
		}
		return nil
	})

	entities, err := d.Entities()
	if err != nil {
		t.Fatalf("Entities() error: %v", err)
	}
	if len(entities) != 3 {
		t.Fatalf("got %d entities, want 3", len(entities))
	}
	if entities[0].Kind != KindCameraSensor || entities[0].Name != "imx219" {
		t.Errorf("entity 0 = %v/%q", entities[0].Kind, entities[0].Name)
	}
	io := entities[1]
	if io.Kind != KindV4L || io.Dev == nil || *io.Dev != (DevNode{Major: 81, Minor: 4}) {
		t.Errorf("entity 1 = %v dev=%v, want v4l-io 81:4", io.Kind, io.Dev)
	}
	other := entities[2]
	if other.Kind != KindOther || other.Function != 0x2000f {
		t.Errorf("entity 2 = %v function=0x%x, want other/0x2000f", other.Kind, other.Function)
	}
}

func TestEntitiesEmptyGraph(t *testing.T) {
	d := fakeController(t, func(req uint, arg unsafe.Pointer) error {
		return unix.EINVAL
	})
	entities, err := d.Entities()
	if err != nil {
		t.Fatalf("Entities() error: %v", err)
	}
	if entities == nil || len(entities) != 0 {
		t.Errorf("entities = %#v, want empty non-nil list", entities)
	}
}

func TestEntitiesHardError(t *testing.T) {
	calls := 0
	d := fakeController(t, func(req uint, arg unsafe.Pointer) error {
		calls++
		if calls == 1 {
			desc := (*media_entity_desc)(arg)
			*desc = media_entity_desc{id: 1}
			return nil
		}
		return unix.EIO
	})
	if _, err := d.Entities(); !errors.Is(err, unix.EIO) {
		t.Errorf("mid-scan failure: got %v, want EIO", err)
	}
}

func TestLinks(t *testing.T) {
	entity := &Entity{ID: 2, PadCount: 2, LinkCount: 1}
	d := fakeController(t, func(req uint, arg unsafe.Pointer) error {
		if req != MEDIA_IOC_ENUM_LINKS {
			t.Fatalf("unexpected ioctl 0x%08x", req)
		}
		wire := (*media_links_enum)(arg)
		if wire.entity != 2 {
			t.Fatalf("queried entity %d, want 2", wire.entity)
		}
		pads := unsafe.Slice((*media_pad_desc)(unsafe.Pointer(wire.pads)), entity.PadCount)
		pads[0] = media_pad_desc{entity: 2, index: 0, flags: uint32(PadSink)}
		pads[1] = media_pad_desc{entity: 2, index: 1, flags: uint32(PadSource)}
		links := unsafe.Slice((*media_link_desc)(unsafe.Pointer(wire.links)), entity.LinkCount)
		links[0] = media_link_desc{
			source: media_pad_desc{entity: 1, index: 0, flags: uint32(PadSource)},
			sink:   media_pad_desc{entity: 2, index: 0, flags: uint32(PadSink)},
			flags:  uint32(LinkEnabled | LinkImmutable),
		}
		return nil
	})

	pads, links, err := d.Links(entity)
	if err != nil {
		t.Fatalf("Links() error: %v", err)
	}
	if len(pads) != 2 || len(links) != 1 {
		t.Fatalf("got %d pads / %d links, want 2 / 1", len(pads), len(links))
	}
	if !pads[0].Flags.Has(PadSink) || !pads[1].Flags.Has(PadSource) {
		t.Errorf("pad flags = %v / %v", pads[0].Flags, pads[1].Flags)
	}
	link := links[0]
	if link.Source != (Pad{Entity: 1, Index: 0, Flags: PadSource}) {
		t.Errorf("link source = %+v", link.Source)
	}
	if !link.Flags.Has(LinkEnabled | LinkImmutable) {
		t.Errorf("link flags = %v", link.Flags)
	}
}

func TestSetupLink(t *testing.T) {
	var got media_link_desc
	calls := 0
	d := fakeController(t, func(req uint, arg unsafe.Pointer) error {
		if req != MEDIA_IOC_SETUP_LINK {
			t.Fatalf("unexpected ioctl 0x%08x", req)
		}
		calls++
		got = *(*media_link_desc)(arg)
		return nil
	})

	link := Link{
		Source: Pad{Entity: 1, Index: 0, Flags: PadSource},
		Sink:   Pad{Entity: 2, Index: 0, Flags: PadSink},
		Flags:  LinkDynamic,
	}
	if err := d.SetupLink(link, true); err != nil {
		t.Fatalf("SetupLink(enable) error: %v", err)
	}
	if LinkFlags(got.flags) != LinkDynamic|LinkEnabled {
		t.Errorf("flags sent = 0x%08x, want dynamic|enabled", got.flags)
	}

	link.Flags = LinkDynamic | LinkEnabled
	if err := d.SetupLink(link, false); err != nil {
		t.Fatalf("SetupLink(disable) error: %v", err)
	}
	if LinkFlags(got.flags)&LinkEnabled != 0 {
		t.Errorf("disable left the enabled bit set: 0x%08x", got.flags)
	}
	if got.source.entity != 1 || got.sink.entity != 2 {
		t.Errorf("endpoints sent = %d -> %d, want 1 -> 2", got.source.entity, got.sink.entity)
	}
}

func TestSetupLinkImmutable(t *testing.T) {
	calls := 0
	d := fakeController(t, func(req uint, arg unsafe.Pointer) error {
		calls++
		return nil
	})
	err := d.SetupLink(Link{Flags: LinkImmutable}, true)
	if !errors.Is(err, ErrImmutableLink) {
		t.Fatalf("error = %v, want ErrImmutableLink", err)
	}
	if calls != 0 {
		t.Errorf("device touched %d times for an immutable link, want 0", calls)
	}
}

func TestLinkFlagsType(t *testing.T) {
	tests := []struct {
		name  string
		flags LinkFlags
		want  LinkType
		str   string
	}{
		{name: "data", flags: LinkEnabled, want: LinkTypeData, str: "data"},
		{name: "interface", flags: 0x10000000, want: LinkTypeInterface, str: "interface"},
		{name: "ancillary", flags: 0x20000000 | LinkEnabled, want: LinkTypeAncillary, str: "ancillary"},
		{name: "unrecognized nibble", flags: 0x70000000, want: LinkType(7), str: "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.flags.Type()
			if got != tt.want {
				t.Errorf("Type() = %v, want %v", got, tt.want)
			}
			if got.String() != tt.str {
				t.Errorf("String() = %q, want %q", got.String(), tt.str)
			}
		})
	}
}

func TestAllocRequest(t *testing.T) {
	reqs := []uint{}
	d := fakeController(t, func(req uint, arg unsafe.Pointer) error {
		reqs = append(reqs, req)
		if req == MEDIA_IOC_REQUEST_ALLOC {
			(*media_request_alloc)(arg).fd = 99
		}
		return nil
	})

	r, err := d.AllocRequest()
	if err != nil {
		t.Fatalf("AllocRequest() error: %v", err)
	}
	if r.Fd() != 99 {
		t.Errorf("request fd = %d, want 99", r.Fd())
	}
	if err := r.Queue(); err != nil {
		t.Fatalf("Queue() error: %v", err)
	}
	if err := r.Reinit(); err != nil {
		t.Fatalf("Reinit() error: %v", err)
	}
	want := []uint{MEDIA_IOC_REQUEST_ALLOC, MEDIA_REQUEST_IOC_QUEUE, MEDIA_REQUEST_IOC_REINIT}
	if len(reqs) != len(want) {
		t.Fatalf("issued %d ioctls, want %d", len(reqs), len(want))
	}
	for i := range want {
		if reqs[i] != want[i] {
			t.Errorf("ioctl %d = 0x%x, want 0x%x", i, reqs[i], want[i])
		}
	}
}
