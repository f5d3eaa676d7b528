package cmd

import (
    "fmt"

    "github.com/spf13/cobra"
)

var addExifTool bool

var addCmd = &cobra.Command{
    Use:   "add [repo] [folder...]",
    Short: "Add media files from the given folders to a repository",
    Args:  cobra.MinimumNArgs(2),
    RunE: func(cmd *cobra.Command, args []string) error {
        repoPath := args[0]
        folders := args[1:]

        org, _, cleanup, err := openRepo(repoPath, addExifTool)
        if err != nil {
            return err
        }
        defer cleanup()

        batch, err := org.AddFolders(cmd.Context(), folders)
        if err != nil {
            return err
        }

        if len(batch.IgnoredFolders) > 0 {
            fmt.Printf("Ignored %d folders:\n", len(batch.IgnoredFolders))
            for _, folder := range batch.IgnoredFolders {
                fmt.Printf("  %s\n", folder)
            }
        }

        fmt.Printf("Added %d/%d files (%d duplicates ignored, %d failed)\n",
            len(batch.Added), batch.Total(), len(batch.Ignored), len(batch.Failed))

        if report := batch.Stats.Report(); report != "" {
            fmt.Print(report)
        }
        return nil
    },
}

func init() {
    addCmd.Flags().BoolVar(&addExifTool, "exiftool", false, "Force to use exiftool binary")

    rootCmd.AddCommand(addCmd)
}
