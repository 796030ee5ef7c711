//go:build linux

package v4l2

// Capability flags from videodev2.h.
const (
	CapVideoCapture       = 0x00000001
	CapVideoOutput        = 0x00000002
	CapVideoOverlay       = 0x00000004
	CapVBICapture         = 0x00000010
	CapVBIOutput          = 0x00000020
	CapSlicedVBICapture   = 0x00000040
	CapSlicedVBIOutput    = 0x00000080
	CapRDSCapture         = 0x00000100
	CapVideoOutputOverlay = 0x00000200
	CapHWFreqSeek         = 0x00000400
	CapRDSOutput          = 0x00000800
	CapVideoCaptureMplane = 0x00001000
	CapVideoOutputMplane  = 0x00002000
	CapVideoM2MMplane     = 0x00004000
	CapVideoM2M           = 0x00008000
	CapTuner              = 0x00010000
	CapAudio              = 0x00020000
	CapRadio              = 0x00040000
	CapModulator          = 0x00080000
	CapSDRCapture         = 0x00100000
	CapExtPixFormat       = 0x00200000
	CapSDROutput          = 0x00400000
	CapMetaCapture        = 0x00800000
	CapReadWrite          = 0x01000000
	CapStreaming          = 0x04000000
	CapMetaOutput         = 0x08000000
	CapTouch              = 0x10000000
	CapIOMC               = 0x20000000
	CapDeviceCaps         = 0x80000000
)

// Capabilities is the identity and capability record returned by a
// capability query.
type Capabilities struct {
	Driver       string
	Card         string
	BusInfo      string
	Version      Version
	Capabilities uint32
	DeviceCaps   uint32
}

// Effective returns the capability bits that apply to the opened node:
// the per-node device_caps when the driver reports them, otherwise the
// whole-device set.
func (c Capabilities) Effective() uint32 {
	if c.Capabilities&CapDeviceCaps != 0 {
		return c.DeviceCaps
	}
	return c.Capabilities
}

// Has reports whether the effective capability set includes flag.
func (c Capabilities) Has(flag uint32) bool {
	return c.Effective()&uint32(flag) != 0
}

var capabilityNames = []struct {
	flag uint32
	name string
}{
	{CapVideoCapture, "Video Capture"},
	{CapVideoOutput, "Video Output"},
	{CapVideoOverlay, "Video Overlay"},
	{CapVBICapture, "VBI Capture"},
	{CapVBIOutput, "VBI Output"},
	{CapSlicedVBICapture, "Sliced VBI Capture"},
	{CapSlicedVBIOutput, "Sliced VBI Output"},
	{CapRDSCapture, "RDS Capture"},
	{CapVideoOutputOverlay, "Video Output Overlay"},
	{CapHWFreqSeek, "HW Frequency Seek"},
	{CapRDSOutput, "RDS Output"},
	{CapVideoCaptureMplane, "Video Capture Multiplanar"},
	{CapVideoOutputMplane, "Video Output Multiplanar"},
	{CapVideoM2MMplane, "Video M2M Multiplanar"},
	{CapVideoM2M, "Video M2M"},
	{CapTuner, "Tuner"},
	{CapAudio, "Audio"},
	{CapRadio, "Radio"},
	{CapModulator, "Modulator"},
	{CapSDRCapture, "SDR Capture"},
	{CapExtPixFormat, "Extended Pixel Format"},
	{CapSDROutput, "SDR Output"},
	{CapMetaCapture, "Metadata Capture"},
	{CapReadWrite, "Read/Write"},
	{CapStreaming, "Streaming"},
	{CapMetaOutput, "Metadata Output"},
	{CapTouch, "Touch"},
	{CapIOMC, "I/O Media Controller"},
}

// CapabilityNames translates a capability bitset to readable names.
func CapabilityNames(caps uint32) []string {
	var names []string
	for _, c := range capabilityNames {
		if caps&c.flag != 0 {
			names = append(names, c.name)
		}
	}
	return names
}
