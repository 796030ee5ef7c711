//go:build linux && arm && !arm64

package media

import "unsafe"

const MEDIA_IOC_ENUM_LINKS = 0xc01c7c02

// media_links_enum has size 28 bytes on 32-bit ARM.
type media_links_enum struct {
	entity   uint32    // offset 0
	pads     uintptr   // offset 4, *media_pad_desc
	links    uintptr   // offset 8, *media_link_desc
	reserved [4]uint32 // offset 12
}

var _ [28]byte = [unsafe.Sizeof(media_links_enum{})]byte{}
