//go:build linux && (amd64 || arm64)

package media

import "unsafe"

const MEDIA_IOC_ENUM_LINKS = 0xc0287c02

// media_links_enum has size 40 bytes on 64-bit architectures.
type media_links_enum struct {
	entity   uint32 // offset 0
	_        [4]byte
	pads     uintptr   // offset 8, *media_pad_desc
	links    uintptr   // offset 16, *media_link_desc
	reserved [4]uint32 // offset 24
}

var _ [40]byte = [unsafe.Sizeof(media_links_enum{})]byte{}
