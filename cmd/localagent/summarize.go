package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quillworks/localagent/internal/cli"
)

func newSummarizeCmd() *cobra.Command {
	var (
		count  int
		record bool
	)

	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Summarize recent emails",
		Long:  "Fetches the most recent emails and prints a short summary of each. With --record, prompts for the journal password and logs the run.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if count <= 0 {
				return fmt.Errorf("count must be positive, got %d", count)
			}

			d, err := buildDeps("text")
			if err != nil {
				return err
			}
			if record {
				if err := d.unlockFromTerminal(func() ([]byte, error) {
					return cli.GetPassword(os.Stdout)
				}); err != nil {
					return fmt.Errorf("unlocking journal: %w", err)
				}
			}

			results, err := d.agent.SummarizeEmails(cmd.Context(), count)
			if err != nil {
				return err
			}
			for _, r := range results {
				fmt.Printf("Subject: %s\n%s\n\n", r.Subject, r.Summary)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 5, "Number of recent emails to summarize")
	cmd.Flags().BoolVarP(&record, "record", "r", false, "Unlock the journal and record this run")

	return cmd
}
