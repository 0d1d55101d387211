package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/cognicore/wals/internal/logger"
)

// newRootCmd builds the command tree. Each call returns fresh flag state.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "wals",
		Short: "Typological distance and regional typicality over the WALS dataset",
		Long: `wals loads the World Atlas of Language Structures exports, places every
language in a geographic province and answers two questions: how similar are
two languages, and how typical is a language of its region.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Setup()
		},
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "YAML configuration file")
	pf.String("env-file", ".env", "dotenv file loaded before reading WALS_* variables")
	pf.String("data-dir", "", "directory holding the WALS CSV exports")
	pf.String("classifier", "", "geo classifier strategy (tree|raster)")
	pf.String("raster", "", "province raster image for the raster strategy")
	pf.String("db", "", "SQLite file for saved reports (default: in-memory)")
	pf.Int("workers", 0, "parallel workers for distance ranking (0=auto)")
	pf.String("scoring", "", "distance scoring (wilson|ratio)")
	pf.String("color", "auto", "colorize output (auto|on|off)")

	root.AddCommand(
		newDistCmd(),
		newSprachbundCmd(),
		newTypicalityCmd(),
		newRegionsCmd(),
		newClassifyCmd(),
		newShowCmd(),
		newSnapshotCmd(),
		newReportsCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
