package cmd

import (
    "fmt"
    "os/signal"
    "syscall"

    "github.com/spf13/cobra"

    "github.com/miguelfaf10/shot-box/internal"
)

var watchExifTool bool

var watchCmd = &cobra.Command{
    Use:   "watch [repo] [folder...]",
    Short: "Watch folders and ingest new media files as they appear",
    Args:  cobra.MinimumNArgs(2),
    RunE: func(cmd *cobra.Command, args []string) error {
        repoPath := args[0]
        folders := args[1:]

        org, _, cleanup, err := openRepo(repoPath, watchExifTool)
        if err != nil {
            return err
        }
        defer cleanup()

        watcher, err := internal.NewWatcher(folders, org.Config().Extensions())
        if err != nil {
            return err
        }
        defer watcher.Close()

        ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
        defer stop()

        fmt.Printf("Watching %d folders, press Ctrl-C to stop\n", len(folders))

        err = watcher.Run(ctx, org, func(result internal.FileResult) {
            switch result.Status {
            case internal.StatusAdded:
                fmt.Printf("Added %s -> %s\n", result.Path, result.DestPath)
            case internal.StatusIgnored:
                fmt.Printf("Ignored duplicate %s\n", result.Path)
            case internal.StatusFailed:
                fmt.Printf("Failed %s: %v\n", result.Path, result.Err)
            }
        })
        if ctx.Err() != nil {
            return nil // interrupted by the user
        }
        return err
    },
}

func init() {
    watchCmd.Flags().BoolVar(&watchExifTool, "exiftool", false, "Force to use exiftool binary")

    rootCmd.AddCommand(watchCmd)
}
