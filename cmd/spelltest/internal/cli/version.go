package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sackosoft/sanctum/internal/version"
)

// addVersionCommand adds the version command
func (app *App) addVersionCommand(rootCmd *cobra.Command) {
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display the version of spelltest with build information.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			detailed, _ := cmd.Flags().GetBool("detailed")
			if detailed {
				fmt.Fprintf(cmd.OutOrStdout(), "spelltest %s\n", version.GetDetailedVersion())
				return
			}
			line := version.GetFormattedVersion()
			if version.IsDevelopment() {
				line += " (development build)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "spelltest %s\n", line)
		},
	}

	versionCmd.Flags().Bool("detailed", false, "Show detailed version information")
	rootCmd.AddCommand(versionCmd)

	rootCmd.Version = version.GetVersion()
	rootCmd.SetVersionTemplate("spelltest v{{.Version}}\n")
}
