package cmd

import (
	"fmt"
	"os"

	"sales-reconciler/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "sales-reconciler",
	Short: "Ticket sales reconciliation service",
	Long: `Sales Reconciler ingests third-party ticket-sales exports from object
storage and reconciles them with the ticketing API and the relational store.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format with "debug" level gives readable ISO8601 timestamps
		// for CLI error reporting.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			// Absolute fallback if logger creation fails (rare)
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
