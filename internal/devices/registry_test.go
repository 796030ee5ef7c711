//go:build linux

package devices

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/smazurov/mediactl/internal/events"
)

type fixtures struct {
	videos  map[string]VideoDevice
	medias  map[string]MediaDevice
	failing map[string]bool
}

var errProbeFailed = errors.New("probe failed")

// stubProbes routes the package's kernel seams to fixture data for the
// duration of the test.
func stubProbes(t *testing.T, fx *fixtures) {
	t.Helper()

	origGlob, origVideo, origMedia := globNodes, probeVideo, probeMedia
	t.Cleanup(func() {
		globNodes, probeVideo, probeMedia = origGlob, origVideo, origMedia
	})

	globNodes = func(pattern string) ([]string, error) {
		var out []string
		switch pattern {
		case "/dev/video[0-9]*":
			for path := range fx.videos {
				out = append(out, path)
			}
		case "/dev/media[0-9]*":
			for path := range fx.medias {
				out = append(out, path)
			}
		}
		for path := range fx.failing {
			if ok, _ := filepath.Match(pattern, path); ok {
				out = append(out, path)
			}
		}
		return out, nil
	}
	probeVideo = func(path string) (VideoDevice, error) {
		if fx.failing[path] {
			return VideoDevice{}, errProbeFailed
		}
		dev, ok := fx.videos[path]
		if !ok {
			return VideoDevice{}, os.ErrNotExist
		}
		return dev, nil
	}
	probeMedia = func(path string) (MediaDevice, error) {
		if fx.failing[path] {
			return MediaDevice{}, errProbeFailed
		}
		dev, ok := fx.medias[path]
		if !ok {
			return MediaDevice{}, os.ErrNotExist
		}
		return dev, nil
	}
}

func TestRescanInventory(t *testing.T) {
	fx := &fixtures{
		videos: map[string]VideoDevice{
			"/dev/video0": {Path: "/dev/video0", Driver: "uvcvideo", Card: "HD Webcam C920", Bus: "usb-0000:01:00.0-1.4"},
			"/dev/video2": {Path: "/dev/video2", Driver: "uvcvideo", Card: "HD Webcam C920", Bus: "usb-0000:01:00.0-1.4"},
			"/dev/video10": {Path: "/dev/video10", Driver: "rp1-cfe", Card: "rp1-cfe", Bus: "platform:1f00128000.csi"},
		},
		medias: map[string]MediaDevice{
			"/dev/media0": {Path: "/dev/media0", Driver: "rp1-cfe", Model: "rp1-cfe", Bus: "platform:1f00128000.csi"},
		},
	}
	stubProbes(t, fx)

	r := NewRegistry(nil)
	r.Rescan()

	videos := r.Videos()
	if len(videos) != 3 {
		t.Fatalf("Videos() returned %d devices, want 3", len(videos))
	}
	wantOrder := []string{"/dev/video0", "/dev/video2", "/dev/video10"}
	for i, want := range wantOrder {
		if videos[i].Path != want {
			t.Errorf("Videos()[%d].Path = %q, want %q", i, videos[i].Path, want)
		}
	}

	if videos[2].MediaPath != "/dev/media0" {
		t.Errorf("platform device MediaPath = %q, want /dev/media0", videos[2].MediaPath)
	}
	if videos[0].MediaPath != "" {
		t.Errorf("USB device MediaPath = %q, want empty", videos[0].MediaPath)
	}

	medias := r.Medias()
	if len(medias) != 1 || medias[0].Path != "/dev/media0" {
		t.Fatalf("Medias() = %+v, want one /dev/media0 entry", medias)
	}

	if dev, ok := r.Video("/dev/video2"); !ok || dev.Card != "HD Webcam C920" {
		t.Errorf("Video(/dev/video2) = %+v, %v", dev, ok)
	}
	if _, ok := r.Video("/dev/video99"); ok {
		t.Error("Video(/dev/video99) reported a device that does not exist")
	}
	if dev, ok := r.Media("/dev/media0"); !ok || dev.Model != "rp1-cfe" {
		t.Errorf("Media(/dev/media0) = %+v, %v", dev, ok)
	}
}

func TestRescanSkipsFailingProbe(t *testing.T) {
	fx := &fixtures{
		videos: map[string]VideoDevice{
			"/dev/video0": {Path: "/dev/video0", Card: "good"},
		},
		failing: map[string]bool{"/dev/video1": true},
	}
	stubProbes(t, fx)

	r := NewRegistry(nil)
	r.Rescan()

	videos := r.Videos()
	if len(videos) != 1 || videos[0].Path != "/dev/video0" {
		t.Fatalf("Videos() = %+v, want only /dev/video0", videos)
	}
}

func TestRescanPublishesEvents(t *testing.T) {
	fx := &fixtures{
		videos: map[string]VideoDevice{
			"/dev/video0": {Path: "/dev/video0", Card: "HD Webcam C920"},
		},
		medias: map[string]MediaDevice{
			"/dev/media0": {Path: "/dev/media0", Model: "rp1-cfe"},
		},
	}
	stubProbes(t, fx)

	bus := events.New()
	attached := make(chan events.DeviceAttachedEvent, 8)
	detached := make(chan events.DeviceDetachedEvent, 8)
	unsubAttach := bus.Subscribe(func(e events.DeviceAttachedEvent) { attached <- e })
	defer unsubAttach()
	unsubDetach := bus.Subscribe(func(e events.DeviceDetachedEvent) { detached <- e })
	defer unsubDetach()

	r := NewRegistry(bus)
	r.Rescan()

	gotAttach := map[string]string{}
	for i := 0; i < 2; i++ {
		select {
		case ev := <-attached:
			gotAttach[ev.Path] = ev.Node
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for attach event %d", i)
		}
	}
	if gotAttach["/dev/video0"] != "video" || gotAttach["/dev/media0"] != "media" {
		t.Errorf("attach events = %v", gotAttach)
	}

	// A second scan with no changes publishes nothing.
	r.Rescan()
	select {
	case ev := <-attached:
		t.Errorf("unexpected attach event %+v", ev)
	case <-time.After(100 * time.Millisecond):
	}

	delete(fx.videos, "/dev/video0")
	r.Rescan()
	select {
	case ev := <-detached:
		if ev.Path != "/dev/video0" || ev.Node != "video" {
			t.Errorf("detach event = %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for detach event")
	}
}

func TestNodeOrdering(t *testing.T) {
	tests := []struct {
		a, b string
		less bool
	}{
		{"/dev/video2", "/dev/video10", true},
		{"/dev/video10", "/dev/video2", false},
		{"/dev/video0", "/dev/video0", false},
		{"/dev/media1", "/dev/video0", true},
	}

	for _, tt := range tests {
		if got := nodeLess(tt.a, tt.b); got != tt.less {
			t.Errorf("nodeLess(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.less)
		}
	}
}

func TestResolvePath(t *testing.T) {
	dir := t.TempDir()
	node := filepath.Join(dir, "video0")
	if err := os.WriteFile(node, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	linkDir := filepath.Join(dir, "by-id")
	if err := os.Mkdir(linkDir, 0o755); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(linkDir, "usb-Logitech_C920-video-index0")
	if err := os.Symlink(node, link); err != nil {
		t.Fatal(err)
	}

	origDirs := stableLinkDirs
	stableLinkDirs = []string{linkDir}
	t.Cleanup(func() { stableLinkDirs = origDirs })

	got, err := ResolvePath("usb-Logitech_C920-video-index0")
	if err != nil {
		t.Fatalf("ResolvePath() error: %v", err)
	}
	if got != link {
		t.Errorf("ResolvePath() = %q, want %q", got, link)
	}

	if got, err := ResolvePath("/dev/video0"); err != nil || got != "/dev/video0" {
		t.Errorf("ResolvePath(/dev/video0) = %q, %v", got, err)
	}

	if _, err := ResolvePath("usb-missing"); err == nil {
		t.Error("ResolvePath() with unknown ID did not fail")
	}
}

func TestStableID(t *testing.T) {
	dir := t.TempDir()
	node := filepath.Join(dir, "video0")
	if err := os.WriteFile(node, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	linkDir := filepath.Join(dir, "by-path")
	if err := os.Mkdir(linkDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(node, filepath.Join(linkDir, "platform-1f00128000.csi-video-index0")); err != nil {
		t.Fatal(err)
	}

	origDirs := stableLinkDirs
	stableLinkDirs = []string{filepath.Join(dir, "missing"), linkDir}
	t.Cleanup(func() { stableLinkDirs = origDirs })

	if got := StableID(node); got != "platform-1f00128000.csi-video-index0" {
		t.Errorf("StableID() = %q", got)
	}
	if got := StableID(filepath.Join(dir, "video9")); got != "" {
		t.Errorf("StableID() for unlinked node = %q, want empty", got)
	}
}
