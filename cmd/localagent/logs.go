package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quillworks/localagent/internal/cli"
	"github.com/quillworks/localagent/internal/common"
	"github.com/quillworks/localagent/internal/journal"
)

func newLogsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Inspect and edit the encrypted journal",
	}
	cmd.AddCommand(newLogsListCmd(), newLogsDeleteCmd())
	return cmd
}

func newLogsListCmd() *cobra.Command {
	var (
		eventType string
		start     string
		end       string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List journal entries",
		Long:  "Prompts for the journal password and prints matching entries. Indexes refer to the unfiltered sequence and stay valid as delete arguments.",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := buildDeps("text")
			if err != nil {
				return err
			}

			pw, err := cli.GetPassword(os.Stdout)
			if err != nil {
				return err
			}
			defer common.WipeByteArray(pw)

			entries, err := d.store.Load(string(pw))
			if err != nil {
				return err
			}

			filtered := journal.Filter(entries, journal.Query{Type: eventType, Start: start, End: end})
			if len(filtered) == 0 {
				fmt.Println("No entries.")
				return nil
			}
			for _, item := range filtered {
				fmt.Printf("[%d] %s  %s\n    %s\n", item.Index, item.Timestamp, item.EventType,
					common.TruncateRunes(item.Preview, 120))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&eventType, "type", "t", "", `Filter by event type ("All" or empty keeps everything)`)
	cmd.Flags().StringVarP(&start, "start", "s", "", "Inclusive start date, YYYY-MM-DD (UTC)")
	cmd.Flags().StringVarP(&end, "end", "e", "", "Inclusive end date, YYYY-MM-DD (UTC)")

	return cmd
}

func newLogsDeleteCmd() *cobra.Command {
	var (
		index int
		id    string
	)

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete one journal entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			if index < 0 && id == "" {
				return fmt.Errorf("either --index or --id is required")
			}

			d, err := buildDeps("text")
			if err != nil {
				return err
			}

			pw, err := cli.GetPassword(os.Stdout)
			if err != nil {
				return err
			}
			defer common.WipeByteArray(pw)

			var entries []journal.Entry
			if id != "" {
				entries, err = d.store.DeleteByID(id, string(pw))
			} else {
				entries, err = d.store.DeleteByIndex(index, string(pw))
			}
			if err != nil {
				return err
			}
			fmt.Printf("Deleted. %d entries remain.\n", len(entries))
			return nil
		},
	}

	cmd.Flags().IntVarP(&index, "index", "i", -1, "Unfiltered index of the entry to delete")
	cmd.Flags().StringVarP(&id, "id", "", "", "ID of the entry to delete")

	return cmd
}
