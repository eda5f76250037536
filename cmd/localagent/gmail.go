package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/quillworks/localagent/internal/gmail"
)

func newGmailCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gmail",
		Short: "Manage the Gmail connection",
	}
	cmd.AddCommand(newGmailAuthCmd())
	return cmd
}

func newGmailAuthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Authorize read-only Gmail access",
		Long:  "Runs the OAuth device flow and stores the token for later fetches. Follow the printed verification URL to approve access.",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := buildDeps("text")
			if err != nil {
				return err
			}
			return gmail.Authorize(cmd.Context(), d.cfg.Gmail, os.Stdout)
		},
	}
}
