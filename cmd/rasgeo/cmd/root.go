package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"rasgeo/internal/config"
	"rasgeo/internal/logging"
	"rasgeo/internal/writeback"
	"rasgeo/pkg/geometry"
)

var (
	cfg    *config.Config
	logger *log.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rasgeo",
	Short: "Inspect and edit HEC-RAS geometry files",
	Long: `rasgeo reads and edits HEC-RAS geometry files (.g01, .g02, ...): listing
their sections, showing cross-section profiles and moving bank stations.
Edits back up the original to a .bak sibling and replace the file atomically.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
		logger = logging.New(cfg.Debug)
		writeback.SetNoBackup(cfg.NoBackup)
	},
}

// lsCmd lists every top-level section of a geometry file.
var lsCmd = &cobra.Command{
	Use:   "ls [geometry_file]",
	Short: "List the top-level sections of a geometry file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		entries, err := geometry.List(args[0])
		if err != nil {
			logger.Error("listing sections", "file", args[0], "err", err)
			os.Exit(1)
		}
		logger.Debug("indexed geometry file", "file", args[0], "sections", len(entries))
		for _, e := range entries {
			fmt.Printf("%5d  %s%s\n", e.Start+1, e.Keyword, strings.Join(e.IDs, ","))
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(lsCmd)
}
