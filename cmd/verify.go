package cmd

import (
    "fmt"

    "github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
    Use:   "verify [repo]",
    Short: "Verify the consistency of a repository against its catalog",
    Args:  cobra.ExactArgs(1),
    RunE: func(cmd *cobra.Command, args []string) error {
        org, _, cleanup, err := openRepo(args[0], false)
        if err != nil {
            return err
        }
        defer cleanup()

        report, err := org.CheckConsistency()
        if err != nil {
            return err
        }

        if report.Clean() {
            fmt.Println("Repository is in perfect shape!")
            return nil
        }

        if n := len(report.DBNotCopied); n > 0 {
            fmt.Printf("WARNING: Files in database but not copied to repo: %d\n", n)
        }
        if n := len(report.RepoNotDB); n > 0 {
            fmt.Printf("ERROR:   Files in repo but missing in database:   %d\n", n)
        }
        if n := len(report.DBNotRepo); n > 0 {
            fmt.Printf("ERROR:   Files in database but missing in repo:   %d\n", n)
        }
        if n := len(report.RepoIncorrectName); n > 0 {
            fmt.Printf("ERROR:   Files in repo with incorrect name:       %d\n", n)
        }
        return nil
    },
}

func init() {
    rootCmd.AddCommand(verifyCmd)
}
