//go:build linux

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/smazurov/mediactl/internal/devices"
	"github.com/smazurov/mediactl/pkg/linuxav/v4l2"
	"github.com/spf13/cobra"
)

// CreateInspectCmd creates the inspect command.
func CreateInspectCmd() *cobra.Command {
	var showControls bool
	var showFormats bool

	cmd := &cobra.Command{
		Use:   "inspect [device]",
		Short: "Show a video device's capabilities, formats and controls",
		Long: `Opens a video device and prints its identity, capability flags, ` +
			`supported pixel formats with frame sizes, and the control set with ` +
			`current values. The device may be a node name (video0), a /dev path, ` +
			`or a stable identifier from /dev/v4l/by-id.`,
		Args: cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			if err := runInspect(args[0], showFormats, showControls); err != nil {
				fmt.Fprintln(os.Stderr, "Error:", err)
				os.Exit(1)
			}
		},
	}

	cmd.Flags().BoolVar(&showFormats, "formats", true, "List pixel formats and frame sizes")
	cmd.Flags().BoolVar(&showControls, "controls", true, "List controls with current values")
	return cmd
}

// resolveCLINode maps a command line device argument onto a /dev path.
func resolveCLINode(id string) (string, error) {
	if strings.HasPrefix(id, "/dev/") {
		return id, nil
	}
	if strings.HasPrefix(id, "video") || strings.HasPrefix(id, "media") {
		return "/dev/" + id, nil
	}
	return devices.ResolvePath(id)
}

func runInspect(id string, showFormats, showControls bool) error {
	path, err := resolveCLINode(id)
	if err != nil {
		return err
	}

	dev, err := v4l2.OpenPath(path)
	if err != nil {
		return err
	}
	defer func() { _ = dev.Close() }()

	caps, err := dev.Capabilities()
	if err != nil {
		return err
	}

	fmt.Printf("Device:  %s\n", path)
	fmt.Printf("Driver:  %s\n", caps.Driver)
	fmt.Printf("Card:    %s\n", caps.Card)
	fmt.Printf("Bus:     %s\n", caps.BusInfo)
	fmt.Printf("Version: %s\n", caps.Version)
	if stable := devices.StableID(path); stable != "" {
		fmt.Printf("Stable:  %s\n", stable)
	}
	fmt.Printf("Caps:    %s\n", strings.Join(v4l2.CapabilityNames(caps.Effective()), ", "))

	if showFormats {
		if err := printFormats(dev); err != nil {
			return err
		}
	}
	if showControls {
		if err := printControls(dev); err != nil {
			return err
		}
	}
	return nil
}

func printFormats(dev *v4l2.Device) error {
	formats, err := dev.Formats()
	if err != nil {
		return err
	}

	fmt.Printf("\nFormats:\n")
	for _, f := range formats {
		tag := fourCCString(f.PixelFormat)
		if f.Emulated {
			fmt.Printf("  %s (%s, emulated)\n", tag, f.Description)
		} else {
			fmt.Printf("  %s (%s)\n", tag, f.Description)
		}

		sizes, err := dev.FrameSizes(f.PixelFormat)
		if err != nil {
			continue
		}
		for _, fs := range sizes {
			switch fs.Kind {
			case v4l2.RangeDiscrete:
				fmt.Printf("    %dx%d", fs.MinWidth, fs.MinHeight)
				printRates(dev, f.PixelFormat, fs.MinWidth, fs.MinHeight)
			case v4l2.RangeContinuous:
				fmt.Printf("    %dx%d - %dx%d (continuous)\n",
					fs.MinWidth, fs.MinHeight, fs.MaxWidth, fs.MaxHeight)
			default:
				fmt.Printf("    %dx%d - %dx%d (step %dx%d)\n",
					fs.MinWidth, fs.MinHeight, fs.MaxWidth, fs.MaxHeight,
					fs.StepWidth, fs.StepHeight)
			}
		}
	}
	return nil
}

func printRates(dev *v4l2.Device, pixelFormat, width, height uint32) {
	intervals, err := dev.FrameIntervals(pixelFormat, width, height)
	if err != nil || len(intervals) == 0 {
		fmt.Println()
		return
	}

	var rates []string
	for _, fi := range intervals {
		if fi.Kind == v4l2.RangeDiscrete {
			rates = append(rates, fmt.Sprintf("%g", fi.Min.FPS()))
		}
	}
	if len(rates) == 0 {
		fmt.Println()
		return
	}
	fmt.Printf(" @ %s fps\n", strings.Join(rates, "/"))
}

func printControls(dev *v4l2.Device) error {
	descs, err := dev.QueryControls()
	if err != nil {
		return err
	}

	fmt.Printf("\nControls:\n")
	for i := range descs {
		desc := &descs[i]
		line := fmt.Sprintf("  %-32s 0x%08x (%s)", desc.Name, desc.ID, desc.Type)
		if desc.Type == v4l2.ControlTypeInteger || desc.Type.IsMenu() {
			line += fmt.Sprintf(" min=%d max=%d step=%d default=%d",
				desc.Minimum, desc.Maximum, desc.Step, desc.Default)
		}
		if ctrl, err := dev.Control(desc); err == nil {
			switch v := ctrl.Value.(type) {
			case v4l2.Integer:
				line += fmt.Sprintf(" value=%d", int64(v))
			case v4l2.Boolean:
				line += fmt.Sprintf(" value=%t", bool(v))
			case v4l2.String:
				line += fmt.Sprintf(" value=%q", string(v))
			}
		}
		fmt.Println(line)

		for _, item := range desc.Items {
			if desc.Type == v4l2.ControlTypeIntegerMenu {
				fmt.Printf("    %d: %d\n", item.Index, item.Value)
			} else {
				fmt.Printf("    %d: %s\n", item.Index, item.Name)
			}
		}
	}
	return nil
}

// fourCCString renders a pixel format code as its four-character tag.
func fourCCString(code uint32) string {
	b := []byte{
		byte(code),
		byte(code >> 8),
		byte(code >> 16),
		byte(code >> 24),
	}
	return strings.TrimRight(string(b), " ")
}
