//go:build linux

// Package devices maintains an inventory of the V4L2 capture nodes and
// media controller nodes present on the system. The inventory is
// populated by filesystem scans and kept current from kernel hotplug
// events; attach and detach transitions are published on the event bus.
package devices

import (
	"log/slog"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/smazurov/mediactl/internal/events"
	"github.com/smazurov/mediactl/internal/logging"
	"github.com/smazurov/mediactl/internal/metrics"
)

// VideoDevice describes one /dev/video* node.
type VideoDevice struct {
	Path         string
	Driver       string
	Card         string
	Bus          string
	Version      string
	Capabilities uint32
	DeviceCaps   uint32

	// MediaPath is the media controller node sharing this device's
	// bus info, when one exists.
	MediaPath string
}

// MediaDevice describes one /dev/media* node.
type MediaDevice struct {
	Path         string
	Driver       string
	Model        string
	Serial       string
	Bus          string
	MediaVersion string
}

// Registry tracks the device nodes currently present.
type Registry struct {
	bus    *events.Bus
	logger *slog.Logger

	mu     sync.RWMutex
	videos map[string]VideoDevice
	medias map[string]MediaDevice
}

// NewRegistry creates an empty registry. The bus may be nil, in which
// case attach and detach transitions are only logged.
func NewRegistry(bus *events.Bus) *Registry {
	return &Registry{
		bus:    bus,
		logger: logging.GetLogger("devices"),
		videos: make(map[string]VideoDevice),
		medias: make(map[string]MediaDevice),
	}
}

// Rescan probes /dev for video and media nodes, replaces the inventory
// and publishes attach and detach events for the differences.
func (r *Registry) Rescan() {
	videos := r.scanVideos()
	medias := r.scanMedias()
	correlate(videos, medias)

	now := time.Now().UTC().Format(time.RFC3339)

	r.mu.Lock()
	var attached []events.DeviceAttachedEvent
	var detached []events.DeviceDetachedEvent
	for _, path := range sortedKeys(videos) {
		if _, ok := r.videos[path]; !ok {
			attached = append(attached, events.DeviceAttachedEvent{
				Path: path, Node: "video", Card: videos[path].Card, Timestamp: now,
			})
		}
	}
	for _, path := range sortedKeys(r.videos) {
		if _, ok := videos[path]; !ok {
			detached = append(detached, events.DeviceDetachedEvent{
				Path: path, Node: "video", Timestamp: now,
			})
		}
	}
	for _, path := range sortedKeys(medias) {
		if _, ok := r.medias[path]; !ok {
			attached = append(attached, events.DeviceAttachedEvent{
				Path: path, Node: "media", Card: medias[path].Model, Timestamp: now,
			})
		}
	}
	for _, path := range sortedKeys(r.medias) {
		if _, ok := medias[path]; !ok {
			detached = append(detached, events.DeviceDetachedEvent{
				Path: path, Node: "media", Timestamp: now,
			})
		}
	}
	r.videos = videos
	r.medias = medias
	r.mu.Unlock()

	metrics.SetDevicesAttached("video", len(videos))
	metrics.SetDevicesAttached("media", len(medias))

	for _, ev := range attached {
		r.logger.Info("Device attached", "path", ev.Path, "node", ev.Node, "card", ev.Card)
		if r.bus != nil {
			r.bus.Publish(ev)
		}
	}
	for _, ev := range detached {
		r.logger.Info("Device detached", "path", ev.Path, "node", ev.Node)
		if r.bus != nil {
			r.bus.Publish(ev)
		}
	}
}

func (r *Registry) scanVideos() map[string]VideoDevice {
	out := make(map[string]VideoDevice)
	paths, err := globNodes("/dev/video[0-9]*")
	if err != nil {
		r.logger.Warn("Video node scan failed", "error", err)
		return out
	}
	for _, path := range paths {
		dev, err := probeVideo(path)
		if err != nil {
			r.logger.Debug("Skipping video node", "path", path, "error", err)
			continue
		}
		out[path] = dev
	}
	return out
}

func (r *Registry) scanMedias() map[string]MediaDevice {
	out := make(map[string]MediaDevice)
	paths, err := globNodes("/dev/media[0-9]*")
	if err != nil {
		r.logger.Warn("Media node scan failed", "error", err)
		return out
	}
	for _, path := range paths {
		dev, err := probeMedia(path)
		if err != nil {
			r.logger.Debug("Skipping media node", "path", path, "error", err)
			continue
		}
		out[path] = dev
	}
	return out
}

// correlate links each video node to the media controller node that
// reports the same bus info. The first match in node order wins.
func correlate(videos map[string]VideoDevice, medias map[string]MediaDevice) {
	mediaPaths := sortedKeys(medias)
	for path, video := range videos {
		if video.Bus == "" {
			continue
		}
		for _, mediaPath := range mediaPaths {
			if medias[mediaPath].Bus == video.Bus {
				video.MediaPath = mediaPath
				videos[path] = video
				break
			}
		}
	}
}

// Videos returns the known video nodes in node order.
func (r *Registry) Videos() []VideoDevice {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]VideoDevice, 0, len(r.videos))
	for _, path := range sortedKeys(r.videos) {
		out = append(out, r.videos[path])
	}
	return out
}

// Medias returns the known media controller nodes in node order.
func (r *Registry) Medias() []MediaDevice {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]MediaDevice, 0, len(r.medias))
	for _, path := range sortedKeys(r.medias) {
		out = append(out, r.medias[path])
	}
	return out
}

// Video looks up a video node by path.
func (r *Registry) Video(path string) (VideoDevice, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	dev, ok := r.videos[path]
	return dev, ok
}

// Media looks up a media controller node by path.
func (r *Registry) Media(path string) (MediaDevice, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	dev, ok := r.medias[path]
	return dev, ok
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return nodeLess(keys[i], keys[j]) })
	return keys
}

// nodeLess orders device paths numerically, so video10 sorts after
// video2.
func nodeLess(a, b string) bool {
	prefixA, numA := splitNode(a)
	prefixB, numB := splitNode(b)
	if prefixA != prefixB {
		return prefixA < prefixB
	}
	return numA < numB
}

func splitNode(path string) (string, int) {
	i := len(path)
	for i > 0 && path[i-1] >= '0' && path[i-1] <= '9' {
		i--
	}
	num, _ := strconv.Atoi(path[i:])
	return path[:i], num
}
