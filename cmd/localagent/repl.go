package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/quillworks/localagent/internal/cli"
)

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start the interactive shell",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := buildDeps("text")
			if err != nil {
				return err
			}

			app := cli.NewApp(d.store, d.session, d.agent, os.Stdin, os.Stdout)
			app.Run(cmd.Context())
			return nil
		},
	}
}
