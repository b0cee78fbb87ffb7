package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/lednode/lednode/internal/device"
	"github.com/lednode/lednode/internal/palette"
	"github.com/lednode/lednode/internal/persist"
)

// paletteColor is one decoded slot in the inspection report.
type paletteColor struct {
	Index      int    `toml:"index"`
	Color      string `toml:"color"`
	Brightness uint8  `toml:"brightness"`
}

// paletteReport is the TOML-printable form of a decoded record image.
type paletteReport struct {
	Checksum string         `toml:"checksum"`
	Mode     string         `toml:"mode"`
	Count    uint8          `toml:"count"`
	Scratch  paletteColor   `toml:"scratch"`
	Colors   []paletteColor `toml:"colors,omitempty"`
}

// CreatePaletteCmd creates the offline palette inspection command.
func CreatePaletteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "palette <file>",
		Short: "Inspect a palette record file",
		Long: `Decodes a persisted palette record without starting the daemon and prints its contents ` +
			`as TOML, including the checksum verdict. A corrupt or truncated file is reported the same ` +
			`way the daemon treats it at boot: it would be reset to an empty palette.`,
		Args: cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			data, err := os.ReadFile(args[0])
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: reading %s: %v\n", args[0], err)
				os.Exit(1)
			}

			record, err := persist.Decode(data)
			if errors.Is(err, persist.ErrCorrupt) {
				fmt.Printf("checksum = 'FAILED'\nsize = %d # expected %d\n", len(data), persist.RecordSize)
				fmt.Fprintln(os.Stderr, "Error: record corrupt, the daemon would reset it at boot")
				os.Exit(1)
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}

			report := paletteReport{
				Checksum: "ok",
				Mode:     device.Mode(record.Mode).String(),
				Count:    record.Count,
				Scratch: paletteColor{
					Index:      palette.ScratchIndex,
					Color:      record.Slots[palette.ScratchIndex].Hex(),
					Brightness: record.Slots[palette.ScratchIndex].Brightness,
				},
			}
			for i := 0; i < int(record.Count) && i < palette.Capacity; i++ {
				report.Colors = append(report.Colors, paletteColor{
					Index:      i,
					Color:      record.Slots[i].Hex(),
					Brightness: record.Slots[i].Brightness,
				})
			}

			out, err := toml.Marshal(report)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			fmt.Print(string(out))
		},
	}

	return cmd
}
