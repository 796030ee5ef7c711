package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/mediactl/internal/api/models"
	"github.com/smazurov/mediactl/internal/events"
	"github.com/smazurov/mediactl/internal/metrics"
	"github.com/smazurov/mediactl/pkg/linuxav/alsa"
	"github.com/smazurov/mediactl/pkg/linuxav/media"
	"golang.org/x/sys/unix"
)

// mediaDevice is the surface the API needs from an open media
// controller node. *media.Device satisfies it; tests substitute fakes.
type mediaDevice interface {
	Info() (media.Info, error)
	Entities() ([]media.Entity, error)
	Links(entity *media.Entity) ([]media.Pad, []media.Link, error)
	SetupLink(link media.Link, enabled bool) error
	Close() error
}

var openMedia = func(path string) (mediaDevice, error) {
	return media.OpenPath(path)
}

// alsaCardName resolves an ALSA card number to its hw name; tests
// substitute a fake.
var alsaCardName = func(node media.AlsaNode) string {
	if _, err := alsa.CardInfo(int(node.Card)); err != nil {
		return ""
	}
	return alsa.HwName(int(node.Card), int(node.Device))
}

// MediaIDInput identifies a media controller node.
type MediaIDInput struct {
	MediaID string `path:"media_id" example:"media0" doc:"Node name (media0)"`
}

// LinkSetupInput carries a link state change.
type LinkSetupInput struct {
	MediaIDInput
	Body models.LinkSetupBody
}

func (s *Server) openMediaNode(id string) (mediaDevice, string, error) {
	path, err := resolveNode(id)
	if err != nil {
		return nil, "", huma.Error404NotFound("Device not found", err)
	}
	dev, err := openMedia(path)
	if err != nil {
		if errors.Is(err, unix.ENOENT) {
			return nil, "", huma.Error404NotFound("Device not found", err)
		}
		return nil, "", huma.Error500InternalServerError("Failed to open device", err)
	}
	return dev, path, nil
}

func padFlagNames(flags media.PadFlags) []string {
	var names []string
	if flags.Has(media.PadSink) {
		names = append(names, "sink")
	}
	if flags.Has(media.PadSource) {
		names = append(names, "source")
	}
	if flags.Has(media.PadMustConnect) {
		names = append(names, "must-connect")
	}
	return names
}

func linkInfo(l media.Link) models.LinkInfo {
	return models.LinkInfo{
		SourceEntity: l.Source.Entity,
		SourcePad:    l.Source.Index,
		SinkEntity:   l.Sink.Entity,
		SinkPad:      l.Sink.Index,
		Enabled:      l.Flags.Has(media.LinkEnabled),
		Immutable:    l.Flags.Has(media.LinkImmutable),
		Dynamic:      l.Flags.Has(media.LinkDynamic),
		Type:         l.Flags.Type().String(),
	}
}

func mediaDeviceInfo(path string, info media.Info) models.MediaDeviceInfo {
	return models.MediaDeviceInfo{
		Path:         path,
		Driver:       info.Driver,
		Model:        info.Model,
		Serial:       info.Serial,
		Bus:          info.Bus,
		MediaVersion: info.MediaVersion.String(),
	}
}

// findLink locates the requested link in the graph so the state change
// runs against the link's real flags.
func findLink(dev mediaDevice, body models.LinkSetupBody) (media.Link, error) {
	entities, err := dev.Entities()
	metrics.ObserveKernelOp("enum-entities", err)
	if err != nil {
		return media.Link{}, kernelError("Failed to enumerate entities", err)
	}

	for i := range entities {
		if entities[i].ID != body.SourceEntity {
			continue
		}
		_, links, err := dev.Links(&entities[i])
		metrics.ObserveKernelOp("enum-links", err)
		if err != nil {
			return media.Link{}, kernelError("Failed to enumerate links", err)
		}
		for _, link := range links {
			if link.Source.Entity == body.SourceEntity && link.Source.Index == body.SourcePad &&
				link.Sink.Entity == body.SinkEntity && link.Sink.Index == body.SinkPad {
				return link, nil
			}
		}
	}

	return media.Link{}, huma.Error404NotFound("No such link", nil)
}

// registerMediaRoutes registers media controller endpoints.
func (s *Server) registerMediaRoutes() {
	// List media controller nodes
	huma.Register(s.api, huma.Operation{
		OperationID: "list-media-devices",
		Method:      http.MethodGet,
		Path:        "/api/media",
		Summary:     "List Media Devices",
		Description: "List all available media controller nodes",
		Tags:        []string{"media"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(ctx context.Context, input *struct{}) (*models.MediaDeviceResponse, error) {
		medias := s.registry.Medias()
		infos := make([]models.MediaDeviceInfo, len(medias))
		for i, m := range medias {
			infos[i] = models.MediaDeviceInfo{
				Path:         m.Path,
				Driver:       m.Driver,
				Model:        m.Model,
				Serial:       m.Serial,
				Bus:          m.Bus,
				MediaVersion: m.MediaVersion,
			}
		}

		return &models.MediaDeviceResponse{
			Body: models.MediaDeviceData{Devices: infos, Count: len(infos)},
		}, nil
	})

	// Dump the media graph
	huma.Register(s.api, huma.Operation{
		OperationID: "media-topology",
		Method:      http.MethodGet,
		Path:        "/api/media/{media_id}/topology",
		Summary:     "Topology",
		Description: "Dump the media graph: entities, pads, and links",
		Tags:        []string{"media"},
		Security:    withAuth(),
		Errors:      []int{400, 401, 404, 500},
	}, func(ctx context.Context, input *MediaIDInput) (*models.TopologyResponse, error) {
		dev, path, err := s.openMediaNode(input.MediaID)
		if err != nil {
			return nil, err
		}
		defer func() { _ = dev.Close() }()

		info, err := dev.Info()
		metrics.ObserveKernelOp("media-info", err)
		if err != nil {
			return nil, kernelError("Failed to read device info", err)
		}

		entities, err := dev.Entities()
		metrics.ObserveKernelOp("enum-entities", err)
		if err != nil {
			return nil, kernelError("Failed to enumerate entities", err)
		}

		infos := make([]models.EntityInfo, len(entities))
		for i := range entities {
			entity := &entities[i]
			ei := models.EntityInfo{
				ID:       entity.ID,
				Name:     entity.Name,
				Function: entity.Function,
				Kind:     entity.Kind.String(),
				Flags:    entity.Flags,
			}
			if entity.Dev != nil {
				ei.DevNode = entity.Dev.String()
			}
			if entity.Alsa != nil {
				ei.AlsaCard = alsaCardName(*entity.Alsa)
			}

			pads, links, err := dev.Links(entity)
			metrics.ObserveKernelOp("enum-links", err)
			if err != nil {
				return nil, kernelError("Failed to enumerate links", err)
			}
			for _, pad := range pads {
				ei.Pads = append(ei.Pads, models.PadInfo{
					Index: pad.Index,
					Flags: padFlagNames(pad.Flags),
				})
			}
			for _, link := range links {
				ei.Links = append(ei.Links, linkInfo(link))
			}

			infos[i] = ei
		}

		return &models.TopologyResponse{
			Body: models.TopologyData{
				Path:     path,
				Info:     mediaDeviceInfo(path, info),
				Entities: infos,
			},
		}, nil
	})

	// Enable or disable a link
	huma.Register(s.api, huma.Operation{
		OperationID: "media-setup-link",
		Method:      http.MethodPost,
		Path:        "/api/media/{media_id}/links",
		Summary:     "Setup Link",
		Description: "Enable or disable a data link between two pads. Immutable links are rejected.",
		Tags:        []string{"media"},
		Security:    withAuth(),
		Errors:      []int{400, 401, 404, 409, 422, 500},
	}, func(ctx context.Context, input *LinkSetupInput) (*models.LinkSetupResponse, error) {
		dev, path, err := s.openMediaNode(input.MediaID)
		if err != nil {
			return nil, err
		}
		defer func() { _ = dev.Close() }()

		link, err := findLink(dev, input.Body)
		if err != nil {
			return nil, err
		}

		err = dev.SetupLink(link, input.Body.Enabled)
		metrics.ObserveKernelOp("setup-link", err)
		if err != nil {
			if errors.Is(err, media.ErrImmutableLink) {
				return nil, huma.Error422UnprocessableEntity("Link is immutable", err)
			}
			return nil, kernelError("Failed to change link state", err)
		}

		if s.bus != nil {
			s.bus.Publish(events.LinkChangedEvent{
				Path:         path,
				SourceEntity: input.Body.SourceEntity,
				SourcePad:    input.Body.SourcePad,
				SinkEntity:   input.Body.SinkEntity,
				SinkPad:      input.Body.SinkPad,
				Enabled:      input.Body.Enabled,
				Timestamp:    time.Now().UTC().Format(time.RFC3339),
			})
		}

		return &models.LinkSetupResponse{
			Body: models.LinkSetupData{Path: path, Enabled: input.Body.Enabled},
		}, nil
	})
}
