//go:build linux

package media

import (
	"errors"
	"fmt"
	"runtime"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/smazurov/mediactl/pkg/linuxav/v4l2"
)

// ErrImmutableLink means a link reconfiguration was attempted on a link
// whose flags include LinkImmutable. The precondition is checked before
// any device interaction.
var ErrImmutableLink = errors.New("immutable links cannot be reconfigured")

// Info is the identity record of a media controller device.
type Info struct {
	Driver        string
	Model         string
	Serial        string
	Bus           string
	MediaVersion  v4l2.Version
	HWRevision    uint32
	DriverVersion v4l2.Version
}

// Device is a media controller device. Obtain one through Open or
// OpenPath; all copies share the same underlying Handle.
type Device struct {
	handle *v4l2.Handle
}

// Open opens a media controller by enumeration index (/dev/media<index>).
func Open(index int) (*Device, error) {
	return OpenPath(fmt.Sprintf("/dev/media%d", index))
}

// OpenPath opens the media controller node at path in read-write,
// blocking mode. Graph ioctls complete immediately, so unlike capture
// devices there is nothing to open non-blocking for.
func OpenPath(path string) (*Device, error) {
	fd, err := sysOpen(path, unix.O_RDWR)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &Device{handle: v4l2.NewHandle(fd)}, nil
}

// Handle returns the shared raw device handle.
func (d *Device) Handle() *v4l2.Handle {
	return d.handle
}

// Close releases the underlying descriptor.
func (d *Device) Close() error {
	return d.handle.Close()
}

// Info returns the controller's identity and version record.
func (d *Device) Info() (Info, error) {
	var wire media_device_info
	if err := sysIoctl(d.handle.Fd(), MEDIA_IOC_DEVICE_INFO, unsafe.Pointer(&wire)); err != nil {
		return Info{}, fmt.Errorf("device info: %w", err)
	}
	return Info{
		Driver:        cstr(wire.driver[:]),
		Model:         cstr(wire.model[:]),
		Serial:        cstr(wire.serial[:]),
		Bus:           cstr(wire.bus_info[:]),
		MediaVersion:  v4l2.ParseVersion(wire.media_version),
		HWRevision:    wire.hw_revision,
		DriverVersion: v4l2.ParseVersion(wire.driver_version),
	}, nil
}

// Entities enumerates the nodes of the media graph. The descriptor is
// carried between calls with the next-entity bit ORed into its id, and
// EINVAL on the carried id marks the end of the graph. Any other error
// aborts the enumeration; entities collected before it are discarded in
// favor of surfacing the failure.
func (d *Device) Entities() ([]Entity, error) {
	entities := []Entity{}
	var desc media_entity_desc
	for {
		desc.id |= MEDIA_ENT_ID_FLAG_NEXT
		if err := sysIoctl(d.handle.Fd(), MEDIA_IOC_ENUM_ENTITIES, unsafe.Pointer(&desc)); err != nil {
			if errors.Is(err, unix.EINVAL) {
				return entities, nil
			}
			return nil, fmt.Errorf("enum entities: %w", err)
		}
		entities = append(entities, entityFromWire(&desc))
	}
}

// Links returns the pads and outbound links of one entity. Receiving
// buffers are sized from the entity's declared pad and link counts and
// filled in a single exchange. Pads whose entity never appears in a
// link are still reported, so callers can spot unconnectable pads.
func (d *Device) Links(entity *Entity) ([]Pad, []Link, error) {
	padsWire := make([]media_pad_desc, entity.PadCount)
	linksWire := make([]media_link_desc, entity.LinkCount)
	wire := media_links_enum{entity: entity.ID}
	if len(padsWire) > 0 {
		wire.pads = uintptr(unsafe.Pointer(&padsWire[0]))
	}
	if len(linksWire) > 0 {
		wire.links = uintptr(unsafe.Pointer(&linksWire[0]))
	}

	err := sysIoctl(d.handle.Fd(), MEDIA_IOC_ENUM_LINKS, unsafe.Pointer(&wire))
	runtime.KeepAlive(padsWire)
	runtime.KeepAlive(linksWire)
	if err != nil {
		return nil, nil, fmt.Errorf("enum links for entity %d: %w", entity.ID, err)
	}

	pads := make([]Pad, len(padsWire))
	for i := range padsWire {
		pads[i] = padFromWire(&padsWire[i])
	}
	links := make([]Link, len(linksWire))
	for i := range linksWire {
		links[i] = linkFromWire(&linksWire[i])
	}
	return pads, links, nil
}

// SetupLink enables or disables a link. Links flagged LinkImmutable are
// rejected up front. The driver may still refuse with EBUSY when an
// enabled link on the same sink pad conflicts, or when the link is not
// LinkDynamic while media is streaming; both surface as plain errors.
func (d *Device) SetupLink(link Link, enabled bool) error {
	if link.Flags.Has(LinkImmutable) {
		return ErrImmutableLink
	}
	if enabled {
		link.Flags |= LinkEnabled
	} else {
		link.Flags &^= LinkEnabled
	}

	wire := link.toWire()
	if err := sysIoctl(d.handle.Fd(), MEDIA_IOC_SETUP_LINK, unsafe.Pointer(&wire)); err != nil {
		return fmt.Errorf("setup link %d:%d -> %d:%d: %w",
			link.Source.Entity, link.Source.Index, link.Sink.Entity, link.Sink.Index, err)
	}
	return nil
}

// AllocRequest allocates a new request object on this controller. The
// request owns its own descriptor, distinct from the device's.
func (d *Device) AllocRequest() (*Request, error) {
	var alloc media_request_alloc
	if err := sysIoctl(d.handle.Fd(), MEDIA_IOC_REQUEST_ALLOC, unsafe.Pointer(&alloc)); err != nil {
		return nil, fmt.Errorf("alloc request: %w", err)
	}
	return &Request{handle: v4l2.NewHandle(int(alloc.fd))}, nil
}
