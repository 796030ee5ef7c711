//go:build linux

package media

import "unsafe"

// Kernel ABI mirror of include/uapi/linux/media.h. Layouts must match
// the kernel byte for byte; media_links_enum carries userspace pointers
// and lives in the per-architecture files.

// Compile-time struct size assertions.
var (
	_ [256]byte = [unsafe.Sizeof(media_device_info{})]byte{}
	_ [256]byte = [unsafe.Sizeof(media_entity_desc{})]byte{}
	_ [20]byte  = [unsafe.Sizeof(media_pad_desc{})]byte{}
	_ [52]byte  = [unsafe.Sizeof(media_link_desc{})]byte{}
	_ [4]byte   = [unsafe.Sizeof(media_request_alloc{})]byte{}
)

// IOCTL request codes identical on all supported architectures.
// MEDIA_IOC_ENUM_LINKS depends on pointer width and is defined per arch.
const (
	MEDIA_IOC_DEVICE_INFO   = 0xc1007c00
	MEDIA_IOC_ENUM_ENTITIES = 0xc1007c01
	MEDIA_IOC_SETUP_LINK    = 0xc0347c03
	MEDIA_IOC_REQUEST_ALLOC = 0x80047c05

	// Request-descriptor ioctls, issued on the request fd itself. Both
	// take no argument.
	MEDIA_REQUEST_IOC_QUEUE  = 0x7c80
	MEDIA_REQUEST_IOC_REINIT = 0x7c81
)

// Entity enumeration continuation bit, ORed into the id carried between
// MEDIA_IOC_ENUM_ENTITIES calls.
const MEDIA_ENT_ID_FLAG_NEXT = 0x80000000

// media_device_info has size 256 bytes.
type media_device_info struct {
	driver         [16]byte   // offset 0
	model          [32]byte   // offset 16
	serial         [40]byte   // offset 48
	bus_info       [32]byte   // offset 88
	media_version  uint32     // offset 120
	hw_revision    uint32     // offset 124
	driver_version uint32     // offset 128
	reserved       [31]uint32 // offset 132
}

// media_entity_desc has size 256 bytes. The trailing union carries the
// device-node coordinates for entity functions that have one.
type media_entity_desc struct {
	id       uint32    // offset 0
	name     [32]byte  // offset 4
	typ      uint32    // offset 36
	revision uint32    // offset 40
	flags    uint32    // offset 44
	group_id uint32    // offset 48
	pads     uint16    // offset 52
	links    uint16    // offset 54
	reserved [4]uint32 // offset 56
	union    [184]byte // offset 72 (dev, alsa, raw)
}

// devNode reads the union's character-device arm (major, minor).
func (e *media_entity_desc) devNode() (uint32, uint32) {
	u := (*[2]uint32)(unsafe.Pointer(&e.union[0]))
	return u[0], u[1]
}

// alsaNode reads the union's ALSA arm (card, device, subdevice).
func (e *media_entity_desc) alsaNode() (uint32, uint32, uint32) {
	u := (*[3]uint32)(unsafe.Pointer(&e.union[0]))
	return u[0], u[1], u[2]
}

// media_pad_desc has size 20 bytes.
type media_pad_desc struct {
	entity   uint32 // offset 0
	index    uint16 // offset 4
	_        [2]byte
	flags    uint32    // offset 8
	reserved [2]uint32 // offset 12
}

// media_link_desc has size 52 bytes.
type media_link_desc struct {
	source   media_pad_desc // offset 0
	sink     media_pad_desc // offset 20
	flags    uint32         // offset 40
	reserved [2]uint32      // offset 44
}

// media_request_alloc has size 4 bytes.
type media_request_alloc struct {
	fd int32
}
