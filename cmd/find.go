package cmd

import (
    "fmt"
    "time"

    "github.com/spf13/cobra"

    "github.com/miguelfaf10/shot-box/internal"
)

var findCmd = &cobra.Command{
    Use:   "find [repo] [tag] [value]",
    Short: "Find catalog entries by tag (country, phash or date)",
    Args:  cobra.ExactArgs(3),
    RunE: func(cmd *cobra.Command, args []string) error {
        repoPath, tag, value := args[0], args[1], args[2]

        _, store, cleanup, err := openRepo(repoPath, false)
        if err != nil {
            return err
        }
        defer cleanup()

        switch tag {
        case "country":
            records, err := store.SearchByLocation(value)
            if err != nil {
                return err
            }
            printRecords(records)

        case "phash":
            rec, err := store.SearchByPerceptualHash(value)
            if err != nil {
                return err
            }
            if rec == nil {
                fmt.Println("No entry found")
                return nil
            }
            printRecords([]internal.MediaRecord{*rec})

        case "date":
            start, err := time.Parse("2006-01-02", value)
            if err != nil {
                return fmt.Errorf("invalid date %q, want YYYY-MM-DD: %w", value, err)
            }
            records, err := store.SearchByDate(start, time.Time{})
            if err != nil {
                return err
            }
            printRecords(records)

        default:
            return fmt.Errorf("unknown tag %q, want country, phash or date", tag)
        }

        return nil
    },
}

func printRecords(records []internal.MediaRecord) {
    if len(records) == 0 {
        fmt.Println("No entries found")
        return
    }

    for i := range records {
        rec := &records[i]

        captured := "unknown"
        if rec.CapturedAt != nil {
            captured = rec.CapturedAt.Format("2006-01-02 15:04:05")
        }

        path := rec.NewPath
        if path == "" {
            path = rec.OriginalPath
        }

        fmt.Printf("%s  %s  %s/%s  %s\n", rec.CryptoHash[:12], captured, rec.Country, rec.City, path)
    }
    fmt.Printf("%d entries\n", len(records))
}

func init() {
    rootCmd.AddCommand(findCmd)
}
