//go:build linux

package cmd

import (
	"fmt"
	"os"

	"github.com/smazurov/mediactl/pkg/linuxav/alsa"
	"github.com/smazurov/mediactl/pkg/linuxav/media"
	"github.com/spf13/cobra"
)

// CreateTopologyCmd creates the topology command.
func CreateTopologyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "topology [device]",
		Short: "Dump a media controller device's graph",
		Long: `Opens a media controller node and prints its entities, pads and ` +
			`links, in the style of media-ctl --print-topology. The device may be ` +
			`a node name (media0) or a /dev path.`,
		Args: cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			if err := runTopology(args[0]); err != nil {
				fmt.Fprintln(os.Stderr, "Error:", err)
				os.Exit(1)
			}
		},
	}
	return cmd
}

func runTopology(id string) error {
	path, err := resolveCLINode(id)
	if err != nil {
		return err
	}

	dev, err := media.OpenPath(path)
	if err != nil {
		return err
	}
	defer func() { _ = dev.Close() }()

	info, err := dev.Info()
	if err != nil {
		return err
	}

	fmt.Printf("Device:  %s\n", path)
	fmt.Printf("Driver:  %s\n", info.Driver)
	fmt.Printf("Model:   %s\n", info.Model)
	if info.Serial != "" {
		fmt.Printf("Serial:  %s\n", info.Serial)
	}
	fmt.Printf("Bus:     %s\n", info.Bus)
	fmt.Printf("Version: %s\n", info.MediaVersion)

	entities, err := dev.Entities()
	if err != nil {
		return err
	}

	for i := range entities {
		entity := &entities[i]
		fmt.Printf("\n- entity %d: %s (%s, %d pads, %d links)\n",
			entity.ID, entity.Name, entity.Kind, entity.PadCount, entity.LinkCount)
		if entity.Dev != nil {
			fmt.Printf("  node %s\n", entity.Dev)
		}
		if entity.Alsa != nil {
			fmt.Printf("  alsa %s\n", alsa.HwName(int(entity.Alsa.Card), int(entity.Alsa.Device)))
		}

		pads, links, err := dev.Links(entity)
		if err != nil {
			return err
		}
		for _, pad := range pads {
			fmt.Printf("  pad %d: %s\n", pad.Index, padDirection(pad.Flags))
			for _, link := range links {
				printPadLink(entity.ID, pad.Index, link)
			}
		}
	}
	return nil
}

func padDirection(flags media.PadFlags) string {
	switch {
	case flags.Has(media.PadSink):
		return "sink"
	case flags.Has(media.PadSource):
		return "source"
	default:
		return "unknown"
	}
}

func printPadLink(entityID uint32, padIndex uint16, link media.Link) {
	var arrow string
	var peer media.Pad

	switch {
	case link.Source.Entity == entityID && link.Source.Index == padIndex:
		arrow = "->"
		peer = link.Sink
	case link.Sink.Entity == entityID && link.Sink.Index == padIndex:
		arrow = "<-"
		peer = link.Source
	default:
		return
	}

	var marks []string
	if link.Flags.Has(media.LinkEnabled) {
		marks = append(marks, "ENABLED")
	}
	if link.Flags.Has(media.LinkImmutable) {
		marks = append(marks, "IMMUTABLE")
	}
	if link.Flags.Has(media.LinkDynamic) {
		marks = append(marks, "DYNAMIC")
	}

	fmt.Printf("    %s entity %d pad %d", arrow, peer.Entity, peer.Index)
	for _, mark := range marks {
		fmt.Printf(" [%s]", mark)
	}
	fmt.Println()
}
