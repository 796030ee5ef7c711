//go:build linux

package devices

import (
	"path/filepath"

	"github.com/smazurov/mediactl/pkg/linuxav/media"
	"github.com/smazurov/mediactl/pkg/linuxav/v4l2"
)

// Production code reaches the kernel through pkg/linuxav; tests
// substitute fixture data through these variables.
var (
	globNodes  = filepath.Glob
	probeVideo = kernelProbeVideo
	probeMedia = kernelProbeMedia
)

func kernelProbeVideo(path string) (VideoDevice, error) {
	dev, err := v4l2.OpenPath(path)
	if err != nil {
		return VideoDevice{}, err
	}
	defer func() { _ = dev.Close() }()

	caps, err := dev.Capabilities()
	if err != nil {
		return VideoDevice{}, err
	}

	return VideoDevice{
		Path:         path,
		Driver:       caps.Driver,
		Card:         caps.Card,
		Bus:          caps.BusInfo,
		Version:      caps.Version.String(),
		Capabilities: caps.Capabilities,
		DeviceCaps:   caps.Effective(),
	}, nil
}

func kernelProbeMedia(path string) (MediaDevice, error) {
	dev, err := media.OpenPath(path)
	if err != nil {
		return MediaDevice{}, err
	}
	defer func() { _ = dev.Close() }()

	info, err := dev.Info()
	if err != nil {
		return MediaDevice{}, err
	}

	return MediaDevice{
		Path:         path,
		Driver:       info.Driver,
		Model:        info.Model,
		Serial:       info.Serial,
		Bus:          info.Bus,
		MediaVersion: info.MediaVersion.String(),
	}, nil
}
