//go:build linux

package media

import "fmt"

// Entity function codes from media.h.
const (
	MEDIA_ENT_F_UNKNOWN             = 0x00000000
	MEDIA_ENT_F_V4L2_SUBDEV_UNKNOWN = 0x00020000
	MEDIA_ENT_F_IO_V4L              = 0x00010001
	MEDIA_ENT_F_IO_FB               = 0x00010002
	MEDIA_ENT_F_IO_ALSA             = 0x00010003
	MEDIA_ENT_F_IO_DVB              = 0x00010004
	MEDIA_ENT_F_CAM_SENSOR          = 0x00020001
	MEDIA_ENT_F_FLASH               = 0x00020002
	MEDIA_ENT_F_LENS                = 0x00020003
)

// Entity flags from media.h.
const (
	EntityFlagDefault   = 0x00000001
	EntityFlagConnector = 0x00000002
)

// EntityKind classifies an entity's function code into the roles this
// package understands. Codes outside the table map to KindOther rather
// than failing graph enumeration; the raw code stays available in
// Entity.Function.
type EntityKind int

const (
	KindUnknown EntityKind = iota
	KindSubdev
	KindV4L
	KindFrameBuffer
	KindALSA
	KindDVB
	KindCameraSensor
	KindFlash
	KindLens
	KindOther
)

func (k EntityKind) String() string {
	switch k {
	case KindUnknown:
		return "unknown"
	case KindSubdev:
		return "v4l2-subdev"
	case KindV4L:
		return "v4l-io"
	case KindFrameBuffer:
		return "framebuffer"
	case KindALSA:
		return "alsa"
	case KindDVB:
		return "dvb"
	case KindCameraSensor:
		return "camera-sensor"
	case KindFlash:
		return "flash"
	case KindLens:
		return "lens"
	default:
		return "other"
	}
}

func classify(function uint32) EntityKind {
	switch function {
	case MEDIA_ENT_F_UNKNOWN:
		return KindUnknown
	case MEDIA_ENT_F_V4L2_SUBDEV_UNKNOWN:
		return KindSubdev
	case MEDIA_ENT_F_IO_V4L:
		return KindV4L
	case MEDIA_ENT_F_IO_FB:
		return KindFrameBuffer
	case MEDIA_ENT_F_IO_ALSA:
		return KindALSA
	case MEDIA_ENT_F_IO_DVB:
		return KindDVB
	case MEDIA_ENT_F_CAM_SENSOR:
		return KindCameraSensor
	case MEDIA_ENT_F_FLASH:
		return KindFlash
	case MEDIA_ENT_F_LENS:
		return KindLens
	default:
		return KindOther
	}
}

// DevNode holds character-device coordinates for entities that expose
// a device node.
type DevNode struct {
	Major uint32
	Minor uint32
}

func (n DevNode) String() string {
	return fmt.Sprintf("%d:%d", n.Major, n.Minor)
}

// AlsaNode holds ALSA card coordinates for audio entities.
type AlsaNode struct {
	Card      uint32
	Device    uint32
	Subdevice uint32
}

// Entity is one node of the media graph. PadCount and LinkCount size
// the buffers a link enumeration for this entity needs; Dev and Alsa
// are populated only for kinds that carry device-node coordinates.
type Entity struct {
	ID        uint32
	Name      string
	Function  uint32
	Kind      EntityKind
	Revision  uint32
	Flags     uint32
	GroupID   uint32
	PadCount  uint16
	LinkCount uint16
	Dev       *DevNode
	Alsa      *AlsaNode
}

func entityFromWire(desc *media_entity_desc) Entity {
	e := Entity{
		ID:        desc.id,
		Name:      cstr(desc.name[:]),
		Function:  desc.typ,
		Kind:      classify(desc.typ),
		Revision:  desc.revision,
		Flags:     desc.flags,
		GroupID:   desc.group_id,
		PadCount:  desc.pads,
		LinkCount: desc.links,
	}
	switch e.Kind {
	case KindV4L, KindFrameBuffer, KindDVB:
		major, minor := desc.devNode()
		e.Dev = &DevNode{Major: major, Minor: minor}
	case KindALSA:
		card, device, subdevice := desc.alsaNode()
		e.Alsa = &AlsaNode{Card: card, Device: device, Subdevice: subdevice}
	}
	return e
}
