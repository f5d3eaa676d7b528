package cmd

import (
    "fmt"

    "github.com/dustin/go-humanize"
    "github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
    Use:   "info [repo]",
    Short: "Display information about a media repository",
    Args:  cobra.ExactArgs(1),
    RunE: func(cmd *cobra.Command, args []string) error {
        org, _, cleanup, err := openRepo(args[0], false)
        if err != nil {
            return err
        }
        defer cleanup()

        info, err := org.Info()
        if err != nil {
            return err
        }

        fmt.Printf("Media in database   : %d entries\n", info.TotalRecords)
        fmt.Printf("Media in repository : %d files\n", info.FilesExist)
        fmt.Printf("Diskspace occupied  : %s\n", humanize.Bytes(uint64(info.TotalSize)))
        return nil
    },
}

func init() {
    rootCmd.AddCommand(infoCmd)
}
