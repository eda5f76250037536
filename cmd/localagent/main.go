// Package main provides the entry point for the localagent CLI application.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0-dev"
	cfgFile string
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	rootCmd := &cobra.Command{
		Use:     "localagent",
		Short:   "A local productivity agent with an encrypted activity journal",
		Version: version,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Path to YAML config file")

	rootCmd.AddCommand(
		newServeCmd(),
		newReplCmd(),
		newSummarizeCmd(),
		newTailorCmd(),
		newLogsCmd(),
		newGmailCmd(),
		newApplyCmd(),
	)

	return rootCmd.ExecuteContext(ctx)
}
