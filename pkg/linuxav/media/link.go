//go:build linux

package media

// PadFlags describe the direction and connection requirements of a pad.
type PadFlags uint32

const (
	PadSink        PadFlags = 0x00000001
	PadSource      PadFlags = 0x00000002
	PadMustConnect PadFlags = 0x00000004
)

// Has reports whether all bits of flag are set.
func (f PadFlags) Has(flag PadFlags) bool {
	return f&flag == flag
}

// LinkFlags carry a link's state bits and, in the top nibble, its type.
type LinkFlags uint32

const (
	LinkEnabled   LinkFlags = 0x00000001
	LinkImmutable LinkFlags = 0x00000002
	LinkDynamic   LinkFlags = 0x00000004

	linkTypeMask LinkFlags = 0xf0000000
)

// Has reports whether all bits of flag are set.
func (f LinkFlags) Has(flag LinkFlags) bool {
	return f&flag == flag
}

// LinkType is the kind of connection a link represents.
type LinkType uint32

const (
	LinkTypeData      LinkType = 0
	LinkTypeInterface LinkType = 1
	LinkTypeAncillary LinkType = 2
)

func (t LinkType) String() string {
	switch t {
	case LinkTypeData:
		return "data"
	case LinkTypeInterface:
		return "interface"
	case LinkTypeAncillary:
		return "ancillary"
	default:
		return "unknown"
	}
}

// Type extracts the link type from the flag word. Types this package
// does not know keep their raw nibble value, so String reports them as
// unknown instead of the extraction failing.
func (f LinkFlags) Type() LinkType {
	return LinkType(f&linkTypeMask) >> 28
}

// Pad is one connection point on an entity.
type Pad struct {
	Entity uint32
	Index  uint16
	Flags  PadFlags
}

func padFromWire(desc *media_pad_desc) Pad {
	return Pad{
		Entity: desc.entity,
		Index:  desc.index,
		Flags:  PadFlags(desc.flags),
	}
}

// Link is one directed connection from a source pad to a sink pad.
type Link struct {
	Source Pad
	Sink   Pad
	Flags  LinkFlags
}

func linkFromWire(desc *media_link_desc) Link {
	return Link{
		Source: padFromWire(&desc.source),
		Sink:   padFromWire(&desc.sink),
		Flags:  LinkFlags(desc.flags),
	}
}

func (l Link) toWire() media_link_desc {
	return media_link_desc{
		source: media_pad_desc{
			entity: l.Source.Entity,
			index:  l.Source.Index,
			flags:  uint32(l.Source.Flags),
		},
		sink: media_pad_desc{
			entity: l.Sink.Entity,
			index:  l.Sink.Index,
			flags:  uint32(l.Sink.Flags),
		},
		flags: uint32(l.Flags),
	}
}
