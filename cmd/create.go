package cmd

import (
    "fmt"

    "github.com/spf13/cobra"

    "github.com/miguelfaf10/shot-box/internal"
)

var createCmd = &cobra.Command{
    Use:   "create [repo]",
    Short: "Create a media repository in the given folder",
    Args:  cobra.ExactArgs(1),
    RunE: func(cmd *cobra.Command, args []string) error {
        repoPath := args[0]

        cfg, err := internal.LoadConfig()
        if err != nil {
            return err
        }

        store, _, err := internal.CreateRepository(repoPath, cfg)
        if err != nil {
            return err
        }
        defer store.Close()

        fmt.Printf("Repository created at %s\n", repoPath)
        return nil
    },
}

func init() {
    rootCmd.AddCommand(createCmd)
}
