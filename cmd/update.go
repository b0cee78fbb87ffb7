package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/lednode/lednode/internal/updater"
	"github.com/lednode/lednode/internal/version"
)

// CreateUpdateCmd creates the self-update command.
func CreateUpdateCmd() *cobra.Command {
	var (
		apply      bool
		prerelease bool
		repository string
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Check for and apply binary updates",
		Long:  `Checks GitHub releases for a newer build and optionally replaces the running binary in place.`,
		Run: func(_ *cobra.Command, _ []string) {
			svc, err := updater.NewService(&updater.Options{
				Repository: repository,
				Prerelease: prerelease,
			})
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			if !svc.IsEnabled() {
				fmt.Fprintf(os.Stderr, "Error: updates disabled: %s\n", svc.DisabledReason())
				os.Exit(1)
			}

			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()

			info, err := svc.CheckForUpdate(ctx)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}

			fmt.Printf("Current version: %s\n", version.String())
			fmt.Printf("Latest version:  %s\n", info.LatestVersion)
			if !info.UpdateAvailable {
				fmt.Println("Already up to date.")
				return
			}

			fmt.Printf("Published:       %s\n", info.PublishedAt.Format(time.RFC3339))
			if info.ReleaseURL != "" {
				fmt.Printf("Release:         %s\n", info.ReleaseURL)
			}
			if !apply {
				fmt.Println("\nRun with --apply to install.")
				return
			}

			fmt.Printf("Updating to %s...\n", info.LatestVersion)
			if err := svc.ApplyUpdate(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			fmt.Println("Update applied.")
		},
	}

	cmd.Flags().BoolVar(&apply, "apply", false, "Download and install the update")
	cmd.Flags().BoolVar(&prerelease, "prerelease", false, "Include prerelease versions")
	cmd.Flags().StringVar(&repository, "repository", "lednode/lednode", "GitHub repository to check")

	return cmd
}
