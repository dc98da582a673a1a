package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"rasgeo/internal/tui"
)

// browseCmd launches the interactive geometry browser.
var browseCmd = &cobra.Command{
	Use:   "browse [geometry_file]",
	Short: "Browse a geometry file interactively",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := tui.Run(args[0]); err != nil {
			logger.Error("running browser", "file", args[0], "err", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
