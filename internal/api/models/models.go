// Package models holds the request and response bodies for the HTTP
// API.
package models

// Health check models
type HealthData struct {
	Status  string `json:"status" example:"ok" doc:"Service status"`
	Message string `json:"message" example:"API is healthy" doc:"Status message"`
}

type HealthResponse struct {
	Body HealthData
}

// Version models
type VersionData struct {
	Version   string `json:"version" example:"1.0.0" doc:"Application version"`
	GitCommit string `json:"git_commit,omitempty" example:"abc123" doc:"Git commit hash"`
	BuildDate string `json:"build_date,omitempty" example:"2026-08-30" doc:"Build date"`
	BuildID   string `json:"build_id,omitempty" doc:"Build identifier"`
	GoVersion string `json:"go_version" example:"go1.24" doc:"Go version used to build"`
	Compiler  string `json:"compiler" example:"gc" doc:"Go compiler"`
	Platform  string `json:"platform" example:"linux/arm64" doc:"Target platform"`
}

type VersionResponse struct {
	Body VersionData
}

// Device models
type DeviceInfo struct {
	Path         string   `json:"path" example:"/dev/video0" doc:"Device node path"`
	Name         string   `json:"name" example:"HD Pro Webcam C920" doc:"Card name reported by the driver"`
	Driver       string   `json:"driver" example:"uvcvideo" doc:"Kernel driver name"`
	Bus          string   `json:"bus" example:"usb-0000:01:00.0-1.4" doc:"Bus location"`
	Version      string   `json:"version" example:"6.10.0" doc:"Driver API version"`
	StableID     string   `json:"stable_id,omitempty" example:"usb-046d_C920-video-index0" doc:"Persistent identifier from /dev/v4l"`
	MediaPath    string   `json:"media_path,omitempty" example:"/dev/media0" doc:"Associated media controller node"`
	Caps         uint32   `json:"caps" example:"69206017" doc:"Raw capability flags"`
	Capabilities []string `json:"capabilities" doc:"Decoded capability names"`
}

type DeviceData struct {
	Devices []DeviceInfo `json:"devices" doc:"Available video devices"`
	Count   int          `json:"count" example:"2" doc:"Number of devices"`
}

type DeviceResponse struct {
	Body DeviceData
}

type DeviceDetailResponse struct {
	Body DeviceInfo
}

// Format models
type FormatInfo struct {
	PixelFormat uint32 `json:"pixel_format" example:"1196444237" doc:"Raw FourCC code"`
	FourCC      string `json:"fourcc" example:"MJPG" doc:"FourCC rendered as text"`
	Description string `json:"description" example:"Motion-JPEG" doc:"Driver description"`
	Emulated    bool   `json:"emulated" doc:"Format is converted in software by libv4l"`
}

type DeviceFormatsData struct {
	Path    string       `json:"path" example:"/dev/video0" doc:"Device node path"`
	Formats []FormatInfo `json:"formats" doc:"Supported pixel formats"`
}

type DeviceFormatsResponse struct {
	Body DeviceFormatsData
}

// FrameSizeInfo describes one supported frame size. Discrete entries
// carry width/height; stepwise and continuous entries carry the
// min/max/step ranges instead.
type FrameSizeInfo struct {
	Kind       string `json:"kind" enum:"discrete,continuous,stepwise" doc:"Range kind"`
	Width      uint32 `json:"width,omitempty" example:"1920" doc:"Frame width (discrete)"`
	Height     uint32 `json:"height,omitempty" example:"1080" doc:"Frame height (discrete)"`
	MinWidth   uint32 `json:"min_width,omitempty" doc:"Minimum width (ranged)"`
	MaxWidth   uint32 `json:"max_width,omitempty" doc:"Maximum width (ranged)"`
	StepWidth  uint32 `json:"step_width,omitempty" doc:"Width step (stepwise)"`
	MinHeight  uint32 `json:"min_height,omitempty" doc:"Minimum height (ranged)"`
	MaxHeight  uint32 `json:"max_height,omitempty" doc:"Maximum height (ranged)"`
	StepHeight uint32 `json:"step_height,omitempty" doc:"Height step (stepwise)"`
}

type DeviceFrameSizesData struct {
	Path        string          `json:"path" doc:"Device node path"`
	PixelFormat uint32          `json:"pixel_format" doc:"Queried pixel format"`
	Sizes       []FrameSizeInfo `json:"sizes" doc:"Supported frame sizes"`
}

type DeviceFrameSizesResponse struct {
	Body DeviceFrameSizesData
}

// FrameIntervalInfo describes one supported frame interval. Discrete
// entries carry interval/fps; ranged entries carry min/max/step
// fractions rendered as "numerator/denominator".
type FrameIntervalInfo struct {
	Kind     string  `json:"kind" enum:"discrete,continuous,stepwise" doc:"Range kind"`
	Interval string  `json:"interval,omitempty" example:"1/30" doc:"Frame interval (discrete)"`
	FPS      float64 `json:"fps,omitempty" example:"30" doc:"Frames per second (discrete)"`
	Min      string  `json:"min,omitempty" example:"1/60" doc:"Shortest interval (ranged)"`
	Max      string  `json:"max,omitempty" example:"1/1" doc:"Longest interval (ranged)"`
	Step     string  `json:"step,omitempty" doc:"Interval step (stepwise)"`
}

type DeviceFrameIntervalsData struct {
	Path        string              `json:"path" doc:"Device node path"`
	PixelFormat uint32              `json:"pixel_format" doc:"Queried pixel format"`
	Width       uint32              `json:"width" doc:"Queried frame width"`
	Height      uint32              `json:"height" doc:"Queried frame height"`
	Intervals   []FrameIntervalInfo `json:"intervals" doc:"Supported frame intervals"`
}

type DeviceFrameIntervalsResponse struct {
	Body DeviceFrameIntervalsData
}

// Control models
type MenuItemInfo struct {
	Index int64  `json:"index" example:"1" doc:"Menu index"`
	Name  string `json:"name,omitempty" example:"Manual Mode" doc:"Item label (menu controls)"`
	Value int64  `json:"value,omitempty" example:"200" doc:"Item value (integer menu controls)"`
}

type ControlInfo struct {
	ID      uint32         `json:"id" example:"9963776" doc:"Numeric control id"`
	Name    string         `json:"name" example:"Brightness" doc:"Control name"`
	Type    string         `json:"type" example:"integer" doc:"Control type"`
	Minimum int64          `json:"minimum" doc:"Minimum value"`
	Maximum int64          `json:"maximum" doc:"Maximum value"`
	Step    uint64         `json:"step,omitempty" doc:"Value step"`
	Default int64          `json:"default" doc:"Default value"`
	Flags   uint32         `json:"flags,omitempty" doc:"Raw control flags"`
	Items   []MenuItemInfo `json:"items,omitempty" doc:"Menu items (menu controls)"`
	Value   string         `json:"value,omitempty" example:"128" doc:"Current value, rendered as text"`
}

type DeviceControlsData struct {
	Path     string        `json:"path" example:"/dev/video0" doc:"Device node path"`
	Controls []ControlInfo `json:"controls" doc:"Controls exposed by the device"`
	Count    int           `json:"count" doc:"Number of controls"`
}

type DeviceControlsResponse struct {
	Body DeviceControlsData
}

type ControlValue struct {
	ID    uint32 `json:"id" example:"9963776" doc:"Numeric control id"`
	Value int64  `json:"value" example:"128" doc:"Value to apply; booleans use 0 and 1"`
}

type SetControlsBody struct {
	Controls []ControlValue `json:"controls" minItems:"1" doc:"Controls to apply as one batch"`
}

type SetControlsData struct {
	Path    string `json:"path" doc:"Device node path"`
	Applied int    `json:"applied" example:"2" doc:"Number of controls applied"`
}

type SetControlsResponse struct {
	Body SetControlsData
}

// Input and output models
type PortInfo struct {
	Index        uint32 `json:"index" example:"0" doc:"Port index"`
	Name         string `json:"name" example:"Camera 1" doc:"Port name"`
	Type         uint32 `json:"type" example:"2" doc:"Raw port type"`
	Status       uint32 `json:"status,omitempty" doc:"Raw status flags (inputs only)"`
	Capabilities uint32 `json:"capabilities,omitempty" doc:"Raw port capability flags"`
	Selected     bool   `json:"selected" doc:"Port is currently selected"`
}

type DevicePortsData struct {
	Path  string     `json:"path" doc:"Device node path"`
	Ports []PortInfo `json:"ports" doc:"Available ports"`
}

type DevicePortsResponse struct {
	Body DevicePortsData
}

type SelectPortBody struct {
	Index uint32 `json:"index" example:"1" doc:"Port index to select"`
}

type SelectPortData struct {
	Path  string `json:"path" doc:"Device node path"`
	Index uint32 `json:"index" doc:"Selected port index"`
}

type SelectPortResponse struct {
	Body SelectPortData
}

// Media controller models
type MediaDeviceInfo struct {
	Path         string `json:"path" example:"/dev/media0" doc:"Media controller node path"`
	Driver       string `json:"driver" example:"rp1-cfe" doc:"Kernel driver name"`
	Model        string `json:"model" example:"rp1-cfe" doc:"Device model"`
	Serial       string `json:"serial,omitempty" doc:"Serial number"`
	Bus          string `json:"bus" example:"platform:1f00128000.csi" doc:"Bus location"`
	MediaVersion string `json:"media_version" example:"6.10.0" doc:"Media controller API version"`
}

type MediaDeviceData struct {
	Devices []MediaDeviceInfo `json:"devices" doc:"Available media controller nodes"`
	Count   int               `json:"count" doc:"Number of nodes"`
}

type MediaDeviceResponse struct {
	Body MediaDeviceData
}

type PadInfo struct {
	Index uint16   `json:"index" doc:"Pad index"`
	Flags []string `json:"flags" doc:"Pad flags: sink, source, must-connect"`
}

type LinkInfo struct {
	SourceEntity uint32 `json:"source_entity" doc:"Source entity id"`
	SourcePad    uint16 `json:"source_pad" doc:"Source pad index"`
	SinkEntity   uint32 `json:"sink_entity" doc:"Sink entity id"`
	SinkPad      uint16 `json:"sink_pad" doc:"Sink pad index"`
	Enabled      bool   `json:"enabled" doc:"Link is active"`
	Immutable    bool   `json:"immutable" doc:"Link state cannot be changed"`
	Dynamic      bool   `json:"dynamic" doc:"Link can change while streaming"`
	Type         string `json:"type" example:"data" doc:"Link type: data, interface, ancillary"`
}

type EntityInfo struct {
	ID       uint32     `json:"id" example:"1" doc:"Entity id"`
	Name     string     `json:"name" example:"imx219 4-0010" doc:"Entity name"`
	Function uint32     `json:"function" doc:"Raw entity function code"`
	Kind     string     `json:"kind" example:"sensor" doc:"Classified entity kind"`
	Flags    uint32     `json:"flags,omitempty" doc:"Raw entity flags"`
	DevNode  string     `json:"dev_node,omitempty" example:"81:4" doc:"Device node major:minor"`
	AlsaCard string     `json:"alsa_card,omitempty" example:"hw:1,0" doc:"ALSA device for sound entities"`
	Pads     []PadInfo  `json:"pads" doc:"Entity pads"`
	Links    []LinkInfo `json:"links" doc:"Outbound and inbound links"`
}

type TopologyData struct {
	Path     string          `json:"path" doc:"Media controller node path"`
	Info     MediaDeviceInfo `json:"info" doc:"Media device identity"`
	Entities []EntityInfo    `json:"entities" doc:"Entities in the media graph"`
}

type TopologyResponse struct {
	Body TopologyData
}

type LinkSetupBody struct {
	SourceEntity uint32 `json:"source_entity" doc:"Source entity id"`
	SourcePad    uint16 `json:"source_pad" doc:"Source pad index"`
	SinkEntity   uint32 `json:"sink_entity" doc:"Sink entity id"`
	SinkPad      uint16 `json:"sink_pad" doc:"Sink pad index"`
	Enabled      bool   `json:"enabled" doc:"Desired link state"`
}

type LinkSetupData struct {
	Path    string `json:"path" doc:"Media controller node path"`
	Enabled bool   `json:"enabled" doc:"Link state after the change"`
}

type LinkSetupResponse struct {
	Body LinkSetupData
}

// Log models
type LogEntryInfo struct {
	Timestamp  string         `json:"timestamp" example:"2026-08-30T10:30:00.123Z" doc:"Log timestamp"`
	Level      string         `json:"level" example:"info" doc:"Log level"`
	Module     string         `json:"module" example:"devices" doc:"Source module"`
	Message    string         `json:"message" doc:"Log message"`
	Attributes map[string]any `json:"attributes,omitempty" doc:"Structured log attributes"`
}

type LogsData struct {
	Entries []LogEntryInfo `json:"entries" doc:"Recent log entries, oldest first"`
	Count   int            `json:"count" doc:"Number of entries"`
}

type LogsResponse struct {
	Body LogsData
}
