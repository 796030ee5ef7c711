package events

// Event type constants for kelindar/event.
const (
	TypeDeviceAttached uint32 = iota + 1
	TypeDeviceDetached
	TypeControlChanged
	TypeLinkChanged
	TypeLogEntry
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// DeviceAttachedEvent is published when a capture or media-controller
// node appears, either at startup discovery or through hotplug.
type DeviceAttachedEvent struct {
	Path      string `json:"path" example:"/dev/video0" doc:"Device node path"`
	Node      string `json:"node" example:"video" doc:"Node kind: video or media"`
	Card      string `json:"card,omitempty" example:"HD Webcam C920" doc:"Card name when known"`
	Timestamp string `json:"timestamp" example:"2026-08-30T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for DeviceAttachedEvent.
func (e DeviceAttachedEvent) Type() uint32 { return TypeDeviceAttached }

// DeviceDetachedEvent is published when a device node disappears.
type DeviceDetachedEvent struct {
	Path      string `json:"path" example:"/dev/video0" doc:"Device node path"`
	Node      string `json:"node" example:"video" doc:"Node kind: video or media"`
	Timestamp string `json:"timestamp" example:"2026-08-30T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for DeviceDetachedEvent.
func (e DeviceDetachedEvent) Type() uint32 { return TypeDeviceDetached }

// ControlChangedEvent is published after a control batch is applied
// through the API, one event per control.
type ControlChangedEvent struct {
	Path      string `json:"path" example:"/dev/video0" doc:"Device node path"`
	ControlID uint32 `json:"control_id" example:"9963776" doc:"Numeric control id"`
	Name      string `json:"name,omitempty" example:"Brightness" doc:"Control name when known"`
	Value     string `json:"value" example:"128" doc:"Applied value, rendered as text"`
	Timestamp string `json:"timestamp" example:"2026-08-30T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for ControlChangedEvent.
func (e ControlChangedEvent) Type() uint32 { return TypeControlChanged }

// LinkChangedEvent is published after a media-graph link is enabled or
// disabled through the API.
type LinkChangedEvent struct {
	Path         string `json:"path" example:"/dev/media0" doc:"Media controller node path"`
	SourceEntity uint32 `json:"source_entity" doc:"Source entity id"`
	SourcePad    uint16 `json:"source_pad" doc:"Source pad index"`
	SinkEntity   uint32 `json:"sink_entity" doc:"Sink entity id"`
	SinkPad      uint16 `json:"sink_pad" doc:"Sink pad index"`
	Enabled      bool   `json:"enabled" doc:"Link state after the change"`
	Timestamp    string `json:"timestamp" example:"2026-08-30T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for LinkChangedEvent.
func (e LinkChangedEvent) Type() uint32 { return TypeLinkChanged }

// LogEntryEvent carries one log record to SSE streaming clients.
type LogEntryEvent struct {
	Seq        uint64         `json:"seq" example:"42" doc:"Monotonic sequence number for deduplication"`
	Timestamp  string         `json:"timestamp" example:"2026-08-30T10:30:00.123Z" doc:"Log timestamp"`
	Level      string         `json:"level" example:"info" doc:"Log level"`
	Module     string         `json:"module" example:"api" doc:"Source module"`
	Message    string         `json:"message" doc:"Log message"`
	Attributes map[string]any `json:"attributes,omitempty" doc:"Structured log attributes"`
}

// Type returns the event type identifier for LogEntryEvent.
func (e LogEntryEvent) Type() uint32 { return TypeLogEntry }
