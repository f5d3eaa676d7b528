package cmd

import (
    "github.com/spf13/cobra"
)

// Version is set from the embedded VERSION file at startup.
var Version = "dev"

var rootCmd = &cobra.Command{
    Use:   "shotbox",
    Short: "Shot Box media catalog",
    Long:  "Catalog media files into a content-addressed, date-organized repository.",
}

func Execute() error {
    return rootCmd.Execute()
}

// ApplyVersion propagates Version to the root command after embedding.
func ApplyVersion() {
    rootCmd.Version = Version
}

func init() {
    ApplyVersion()
}
