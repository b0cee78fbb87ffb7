package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lednode/lednode/internal/effects"
)

// CreateEffectsCmd creates the effects listing command.
func CreateEffectsCmd() *cobra.Command {
	var pixels int

	cmd := &cobra.Command{
		Use:   "effects",
		Short: "List available animation effects",
		Long: `Prints every animation effect in cycle order together with its loop length. ` +
			`Some loop lengths depend on the strip size, so pass the same pixel count the daemon runs with.`,
		Run: func(_ *cobra.Command, _ []string) {
			reg := effects.NewRegistry(pixels)
			fmt.Printf("%-4s %-16s %s\n", "#", "NAME", "FRAMES")
			for i := 0; i < reg.Len(); i++ {
				e := reg.At(i)
				fmt.Printf("%-4d %-16s %d\n", i, e.Name(), e.LoopLength())
			}
		},
	}

	cmd.Flags().IntVarP(&pixels, "pixels", "n", 30, "Strip length used for size-dependent loop lengths")

	return cmd
}
