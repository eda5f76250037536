package main

import (
	"github.com/spf13/cobra"

	"github.com/quillworks/localagent/internal/httpapi"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local HTTP API",
		Long:  "Serves the journal and producer endpoints over JSON HTTP. Unlock with POST /api/logs/unlock to obtain a bearer token.",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := buildDeps("")
			if err != nil {
				return err
			}
			if addr == "" {
				addr = d.cfg.HTTPAddr
			}

			srv, err := httpapi.NewServer(addr, d.store, d.session, d.agent, d.logger)
			if err != nil {
				return err
			}
			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (overrides config)")

	return cmd
}
