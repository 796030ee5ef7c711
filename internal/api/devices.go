package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/mediactl/internal/api/models"
	"github.com/smazurov/mediactl/internal/devices"
	"github.com/smazurov/mediactl/internal/events"
	"github.com/smazurov/mediactl/internal/metrics"
	"github.com/smazurov/mediactl/pkg/linuxav/v4l2"
	"golang.org/x/sys/unix"
)

// videoDevice is the control-plane surface the API needs from an open
// video node. *v4l2.Device satisfies it; tests substitute fakes.
type videoDevice interface {
	Capabilities() (v4l2.Capabilities, error)
	QueryControls() ([]v4l2.Description, error)
	Control(desc *v4l2.Description) (v4l2.Control, error)
	SetControls(ctrls []v4l2.Control) error
	Formats() ([]v4l2.Format, error)
	FrameSizes(pixelFormat uint32) ([]v4l2.FrameSize, error)
	FrameIntervals(pixelFormat, width, height uint32) ([]v4l2.FrameInterval, error)
	EnumInputs() ([]v4l2.Input, error)
	EnumOutputs() ([]v4l2.Output, error)
	Input() (uint32, error)
	SetInput(index uint32) error
	Output() (uint32, error)
	SetOutput(index uint32) error
	Close() error
}

var openVideo = func(path string) (videoDevice, error) {
	return v4l2.OpenPath(path)
}

// DeviceIDInput identifies a video node by name or stable ID.
type DeviceIDInput struct {
	DeviceID string `path:"device_id" example:"video0" doc:"Node name (video0) or stable identifier from /dev/v4l"`
}

// DeviceFormatInput adds the pixel format query parameter.
type DeviceFormatInput struct {
	DeviceIDInput
	PixelFormat uint32 `query:"pixel_format" example:"1196444237" doc:"FourCC pixel format code"`
}

// DeviceFrameIntervalInput adds the frame geometry.
type DeviceFrameIntervalInput struct {
	DeviceFormatInput
	Width  uint32 `query:"width" example:"1920" doc:"Frame width in pixels"`
	Height uint32 `query:"height" example:"1080" doc:"Frame height in pixels"`
}

// SetControlsInput carries a control batch for one device.
type SetControlsInput struct {
	DeviceIDInput
	Body models.SetControlsBody
}

// SelectPortInput selects an input or output port.
type SelectPortInput struct {
	DeviceIDInput
	Body models.SelectPortBody
}

// resolveNode converts a device_id path parameter into a /dev path.
// Bare node names map straight under /dev; anything else is treated as
// a stable symlink name.
func resolveNode(id string) (string, error) {
	if strings.HasPrefix(id, "video") || strings.HasPrefix(id, "media") {
		return "/dev/" + id, nil
	}
	return devices.ResolvePath(id)
}

func (s *Server) openVideoNode(id string) (videoDevice, string, error) {
	path, err := resolveNode(id)
	if err != nil {
		return nil, "", huma.Error404NotFound("Device not found", err)
	}
	dev, err := openVideo(path)
	if err != nil {
		if errors.Is(err, unix.ENOENT) {
			return nil, "", huma.Error404NotFound("Device not found", err)
		}
		return nil, "", huma.Error500InternalServerError("Failed to open device", err)
	}
	return dev, path, nil
}

// kernelError maps pkg/linuxav errors onto HTTP status codes.
func kernelError(msg string, err error) error {
	switch {
	case errors.Is(err, v4l2.ErrEmptyControlBatch),
		errors.Is(err, v4l2.ErrMixedControlClasses):
		return huma.Error422UnprocessableEntity(msg, err)
	case errors.Is(err, unix.ERANGE):
		return huma.Error422UnprocessableEntity(msg, err)
	case errors.Is(err, unix.EBUSY):
		return huma.Error409Conflict(msg, err)
	case errors.Is(err, unix.EACCES), errors.Is(err, unix.EPERM):
		return huma.Error403Forbidden(msg, err)
	case errors.Is(err, unix.EINVAL), errors.Is(err, unix.ENOTTY):
		return huma.Error400BadRequest(msg, err)
	default:
		return huma.Error500InternalServerError(msg, err)
	}
}

// fourCC renders a pixel format code as its four-character tag.
func fourCC(code uint32) string {
	b := []byte{
		byte(code),
		byte(code >> 8),
		byte(code >> 16),
		byte(code >> 24),
	}
	return strings.TrimRight(string(b), " ")
}

// renderValue formats a control value for transport.
func renderValue(v v4l2.Value) string {
	switch val := v.(type) {
	case v4l2.Integer:
		return fmt.Sprintf("%d", int64(val))
	case v4l2.Boolean:
		if val {
			return "true"
		}
		return "false"
	case v4l2.String:
		return string(val)
	default:
		return ""
	}
}

func frameSizeInfo(fs v4l2.FrameSize) models.FrameSizeInfo {
	switch fs.Kind {
	case v4l2.RangeDiscrete:
		return models.FrameSizeInfo{
			Kind:   "discrete",
			Width:  fs.MinWidth,
			Height: fs.MinHeight,
		}
	case v4l2.RangeContinuous:
		return models.FrameSizeInfo{
			Kind:      "continuous",
			MinWidth:  fs.MinWidth,
			MaxWidth:  fs.MaxWidth,
			MinHeight: fs.MinHeight,
			MaxHeight: fs.MaxHeight,
		}
	default:
		return models.FrameSizeInfo{
			Kind:       "stepwise",
			MinWidth:   fs.MinWidth,
			MaxWidth:   fs.MaxWidth,
			StepWidth:  fs.StepWidth,
			MinHeight:  fs.MinHeight,
			MaxHeight:  fs.MaxHeight,
			StepHeight: fs.StepHeight,
		}
	}
}

func frameIntervalInfo(fi v4l2.FrameInterval) models.FrameIntervalInfo {
	switch fi.Kind {
	case v4l2.RangeDiscrete:
		return models.FrameIntervalInfo{
			Kind:     "discrete",
			Interval: fi.Min.String(),
			FPS:      fi.Min.FPS(),
		}
	case v4l2.RangeContinuous:
		return models.FrameIntervalInfo{
			Kind: "continuous",
			Min:  fi.Min.String(),
			Max:  fi.Max.String(),
		}
	default:
		return models.FrameIntervalInfo{
			Kind: "stepwise",
			Min:  fi.Min.String(),
			Max:  fi.Max.String(),
			Step: fi.Step.String(),
		}
	}
}

// registerDeviceRoutes registers all video device endpoints.
func (s *Server) registerDeviceRoutes() {
	// List all devices
	huma.Register(s.api, huma.Operation{
		OperationID: "list-devices",
		Method:      http.MethodGet,
		Path:        "/api/devices",
		Summary:     "List Devices",
		Description: "List all available V4L2 video devices",
		Tags:        []string{"devices"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(ctx context.Context, input *struct{}) (*models.DeviceResponse, error) {
		videos := s.registry.Videos()
		infos := make([]models.DeviceInfo, len(videos))
		for i, v := range videos {
			infos[i] = models.DeviceInfo{
				Path:         v.Path,
				Name:         v.Card,
				Driver:       v.Driver,
				Bus:          v.Bus,
				Version:      v.Version,
				StableID:     devices.StableID(v.Path),
				MediaPath:    v.MediaPath,
				Caps:         v.DeviceCaps,
				Capabilities: v4l2.CapabilityNames(v.DeviceCaps),
			}
		}

		return &models.DeviceResponse{
			Body: models.DeviceData{Devices: infos, Count: len(infos)},
		}, nil
	})

	// Query one device
	huma.Register(s.api, huma.Operation{
		OperationID: "get-device",
		Method:      http.MethodGet,
		Path:        "/api/devices/{device_id}",
		Summary:     "Device",
		Description: "Query one device's identity and capability flags",
		Tags:        []string{"devices"},
		Security:    withAuth(),
		Errors:      []int{400, 401, 404, 500},
	}, func(ctx context.Context, input *DeviceIDInput) (*models.DeviceDetailResponse, error) {
		dev, path, err := s.openVideoNode(input.DeviceID)
		if err != nil {
			return nil, err
		}
		defer func() { _ = dev.Close() }()

		caps, err := dev.Capabilities()
		metrics.ObserveKernelOp("query-capabilities", err)
		if err != nil {
			return nil, kernelError("Failed to query capabilities", err)
		}

		info := models.DeviceInfo{
			Path:         path,
			Name:         caps.Card,
			Driver:       caps.Driver,
			Bus:          caps.BusInfo,
			Version:      caps.Version.String(),
			StableID:     devices.StableID(path),
			Caps:         caps.Effective(),
			Capabilities: v4l2.CapabilityNames(caps.Effective()),
		}
		if known, ok := s.registry.Video(path); ok {
			info.MediaPath = known.MediaPath
		}

		return &models.DeviceDetailResponse{Body: info}, nil
	})

	// List formats
	huma.Register(s.api, huma.Operation{
		OperationID: "device-formats",
		Method:      http.MethodGet,
		Path:        "/api/devices/{device_id}/formats",
		Summary:     "Formats",
		Description: "List supported pixel formats for a device",
		Tags:        []string{"devices"},
		Security:    withAuth(),
		Errors:      []int{400, 401, 404, 500},
	}, func(ctx context.Context, input *DeviceIDInput) (*models.DeviceFormatsResponse, error) {
		dev, path, err := s.openVideoNode(input.DeviceID)
		if err != nil {
			return nil, err
		}
		defer func() { _ = dev.Close() }()

		formats, err := dev.Formats()
		metrics.ObserveKernelOp("enum-formats", err)
		if err != nil {
			return nil, kernelError("Failed to enumerate formats", err)
		}

		infos := make([]models.FormatInfo, len(formats))
		for i, f := range formats {
			infos[i] = models.FormatInfo{
				PixelFormat: f.PixelFormat,
				FourCC:      fourCC(f.PixelFormat),
				Description: f.Description,
				Emulated:    f.Emulated,
			}
		}

		return &models.DeviceFormatsResponse{
			Body: models.DeviceFormatsData{Path: path, Formats: infos},
		}, nil
	})

	// List frame sizes for a format
	huma.Register(s.api, huma.Operation{
		OperationID: "device-frame-sizes",
		Method:      http.MethodGet,
		Path:        "/api/devices/{device_id}/frame-sizes",
		Summary:     "Frame Sizes",
		Description: "List supported frame sizes for a pixel format",
		Tags:        []string{"devices"},
		Security:    withAuth(),
		Errors:      []int{400, 401, 404, 500},
	}, func(ctx context.Context, input *DeviceFormatInput) (*models.DeviceFrameSizesResponse, error) {
		dev, path, err := s.openVideoNode(input.DeviceID)
		if err != nil {
			return nil, err
		}
		defer func() { _ = dev.Close() }()

		sizes, err := dev.FrameSizes(input.PixelFormat)
		metrics.ObserveKernelOp("enum-frame-sizes", err)
		if err != nil {
			return nil, kernelError("Failed to enumerate frame sizes", err)
		}

		infos := make([]models.FrameSizeInfo, len(sizes))
		for i, fs := range sizes {
			infos[i] = frameSizeInfo(fs)
		}

		return &models.DeviceFrameSizesResponse{
			Body: models.DeviceFrameSizesData{
				Path:        path,
				PixelFormat: input.PixelFormat,
				Sizes:       infos,
			},
		}, nil
	})

	// List frame intervals for a format and size
	huma.Register(s.api, huma.Operation{
		OperationID: "device-frame-intervals",
		Method:      http.MethodGet,
		Path:        "/api/devices/{device_id}/frame-intervals",
		Summary:     "Frame Intervals",
		Description: "List supported frame intervals for a pixel format and frame size",
		Tags:        []string{"devices"},
		Security:    withAuth(),
		Errors:      []int{400, 401, 404, 500},
	}, func(ctx context.Context, input *DeviceFrameIntervalInput) (*models.DeviceFrameIntervalsResponse, error) {
		dev, path, err := s.openVideoNode(input.DeviceID)
		if err != nil {
			return nil, err
		}
		defer func() { _ = dev.Close() }()

		intervals, err := dev.FrameIntervals(input.PixelFormat, input.Width, input.Height)
		metrics.ObserveKernelOp("enum-frame-intervals", err)
		if err != nil {
			return nil, kernelError("Failed to enumerate frame intervals", err)
		}

		infos := make([]models.FrameIntervalInfo, len(intervals))
		for i, fi := range intervals {
			infos[i] = frameIntervalInfo(fi)
		}

		return &models.DeviceFrameIntervalsResponse{
			Body: models.DeviceFrameIntervalsData{
				Path:        path,
				PixelFormat: input.PixelFormat,
				Width:       input.Width,
				Height:      input.Height,
				Intervals:   infos,
			},
		}, nil
	})

	// List controls with current values
	huma.Register(s.api, huma.Operation{
		OperationID: "device-controls",
		Method:      http.MethodGet,
		Path:        "/api/devices/{device_id}/controls",
		Summary:     "Controls",
		Description: "List the controls a device exposes, with current values where readable",
		Tags:        []string{"controls"},
		Security:    withAuth(),
		Errors:      []int{400, 401, 404, 500},
	}, func(ctx context.Context, input *DeviceIDInput) (*models.DeviceControlsResponse, error) {
		dev, path, err := s.openVideoNode(input.DeviceID)
		if err != nil {
			return nil, err
		}
		defer func() { _ = dev.Close() }()

		descs, err := dev.QueryControls()
		metrics.ObserveKernelOp("query-controls", err)
		if err != nil {
			return nil, kernelError("Failed to query controls", err)
		}

		infos := make([]models.ControlInfo, len(descs))
		for i, desc := range descs {
			info := models.ControlInfo{
				ID:      desc.ID,
				Name:    desc.Name,
				Type:    desc.Type.String(),
				Minimum: desc.Minimum,
				Maximum: desc.Maximum,
				Step:    desc.Step,
				Default: desc.Default,
				Flags:   desc.Flags,
			}
			for _, item := range desc.Items {
				info.Items = append(info.Items, models.MenuItemInfo{
					Index: int64(item.Index),
					Name:  item.Name,
					Value: item.Value,
				})
			}
			// Current value is best effort; buttons, write-only and
			// compound controls simply report none.
			if ctrl, readErr := dev.Control(&descs[i]); readErr == nil {
				info.Value = renderValue(ctrl.Value)
			}
			infos[i] = info
		}

		return &models.DeviceControlsResponse{
			Body: models.DeviceControlsData{Path: path, Controls: infos, Count: len(infos)},
		}, nil
	})

	// Apply a control batch
	huma.Register(s.api, huma.Operation{
		OperationID: "device-set-controls",
		Method:      http.MethodPost,
		Path:        "/api/devices/{device_id}/controls",
		Summary:     "Set Controls",
		Description: "Apply a batch of control values atomically. All controls in a batch must share one control class.",
		Tags:        []string{"controls"},
		Security:    withAuth(),
		Errors:      []int{400, 401, 403, 404, 409, 422, 500},
	}, func(ctx context.Context, input *SetControlsInput) (*models.SetControlsResponse, error) {
		dev, path, err := s.openVideoNode(input.DeviceID)
		if err != nil {
			return nil, err
		}
		defer func() { _ = dev.Close() }()

		descs, err := dev.QueryControls()
		metrics.ObserveKernelOp("query-controls", err)
		if err != nil {
			return nil, kernelError("Failed to query controls", err)
		}
		byID := make(map[uint32]*v4l2.Description, len(descs))
		for i := range descs {
			byID[descs[i].ID] = &descs[i]
		}

		batch := make([]v4l2.Control, len(input.Body.Controls))
		for i, cv := range input.Body.Controls {
			desc, ok := byID[cv.ID]
			if !ok {
				return nil, huma.Error400BadRequest(
					fmt.Sprintf("Device has no control 0x%08x", cv.ID), nil)
			}
			batch[i] = v4l2.Control{ID: cv.ID, Value: controlValue(desc.Type, cv.Value)}
		}

		err = dev.SetControls(batch)
		metrics.ObserveKernelOp("set-controls", err)
		if err != nil {
			return nil, kernelError("Failed to apply controls", err)
		}

		if s.bus != nil {
			now := time.Now().UTC().Format(time.RFC3339)
			for _, cv := range input.Body.Controls {
				s.bus.Publish(events.ControlChangedEvent{
					Path:      path,
					ControlID: cv.ID,
					Name:      byID[cv.ID].Name,
					Value:     fmt.Sprintf("%d", cv.Value),
					Timestamp: now,
				})
			}
		}

		return &models.SetControlsResponse{
			Body: models.SetControlsData{Path: path, Applied: len(batch)},
		}, nil
	})

	s.registerPortRoutes()
}

// controlValue converts the wire integer into the typed value the
// control expects.
func controlValue(typ v4l2.ControlType, raw int64) v4l2.Value {
	if typ == v4l2.ControlTypeBoolean {
		return v4l2.Boolean(raw != 0)
	}
	return v4l2.Integer(raw)
}

// registerPortRoutes registers input and output selection endpoints.
func (s *Server) registerPortRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "device-inputs",
		Method:      http.MethodGet,
		Path:        "/api/devices/{device_id}/inputs",
		Summary:     "Inputs",
		Description: "List the device's video inputs and which one is selected",
		Tags:        []string{"ports"},
		Security:    withAuth(),
		Errors:      []int{400, 401, 404, 500},
	}, func(ctx context.Context, input *DeviceIDInput) (*models.DevicePortsResponse, error) {
		dev, path, err := s.openVideoNode(input.DeviceID)
		if err != nil {
			return nil, err
		}
		defer func() { _ = dev.Close() }()

		inputs, err := dev.EnumInputs()
		metrics.ObserveKernelOp("enum-inputs", err)
		if err != nil {
			return nil, kernelError("Failed to enumerate inputs", err)
		}

		selected, err := dev.Input()
		if err != nil {
			// Devices without the input ioctls still report their list.
			selected = ^uint32(0)
		}

		ports := make([]models.PortInfo, len(inputs))
		for i, in := range inputs {
			ports[i] = models.PortInfo{
				Index:        in.Index,
				Name:         in.Name,
				Type:         in.Type,
				Status:       in.Status,
				Capabilities: in.Capabilities,
				Selected:     in.Index == selected,
			}
		}

		return &models.DevicePortsResponse{
			Body: models.DevicePortsData{Path: path, Ports: ports},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "device-select-input",
		Method:      http.MethodPost,
		Path:        "/api/devices/{device_id}/inputs",
		Summary:     "Select Input",
		Description: "Select the active video input",
		Tags:        []string{"ports"},
		Security:    withAuth(),
		Errors:      []int{400, 401, 404, 409, 500},
	}, func(ctx context.Context, input *SelectPortInput) (*models.SelectPortResponse, error) {
		dev, path, err := s.openVideoNode(input.DeviceID)
		if err != nil {
			return nil, err
		}
		defer func() { _ = dev.Close() }()

		err = dev.SetInput(input.Body.Index)
		metrics.ObserveKernelOp("set-input", err)
		if err != nil {
			return nil, kernelError("Failed to select input", err)
		}

		return &models.SelectPortResponse{
			Body: models.SelectPortData{Path: path, Index: input.Body.Index},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "device-outputs",
		Method:      http.MethodGet,
		Path:        "/api/devices/{device_id}/outputs",
		Summary:     "Outputs",
		Description: "List the device's video outputs and which one is selected",
		Tags:        []string{"ports"},
		Security:    withAuth(),
		Errors:      []int{400, 401, 404, 500},
	}, func(ctx context.Context, input *DeviceIDInput) (*models.DevicePortsResponse, error) {
		dev, path, err := s.openVideoNode(input.DeviceID)
		if err != nil {
			return nil, err
		}
		defer func() { _ = dev.Close() }()

		outputs, err := dev.EnumOutputs()
		metrics.ObserveKernelOp("enum-outputs", err)
		if err != nil {
			return nil, kernelError("Failed to enumerate outputs", err)
		}

		selected, err := dev.Output()
		if err != nil {
			selected = ^uint32(0)
		}

		ports := make([]models.PortInfo, len(outputs))
		for i, out := range outputs {
			ports[i] = models.PortInfo{
				Index:        out.Index,
				Name:         out.Name,
				Type:         out.Type,
				Capabilities: out.Capabilities,
				Selected:     out.Index == selected,
			}
		}

		return &models.DevicePortsResponse{
			Body: models.DevicePortsData{Path: path, Ports: ports},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "device-select-output",
		Method:      http.MethodPost,
		Path:        "/api/devices/{device_id}/outputs",
		Summary:     "Select Output",
		Description: "Select the active video output",
		Tags:        []string{"ports"},
		Security:    withAuth(),
		Errors:      []int{400, 401, 404, 409, 500},
	}, func(ctx context.Context, input *SelectPortInput) (*models.SelectPortResponse, error) {
		dev, path, err := s.openVideoNode(input.DeviceID)
		if err != nil {
			return nil, err
		}
		defer func() { _ = dev.Close() }()

		err = dev.SetOutput(input.Body.Index)
		metrics.ObserveKernelOp("set-output", err)
		if err != nil {
			return nil, kernelError("Failed to select output", err)
		}

		return &models.SelectPortResponse{
			Body: models.SelectPortData{Path: path, Index: input.Body.Index},
		}, nil
	})
}
