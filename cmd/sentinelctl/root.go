// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/sentinelguard/internal/audit"
	"github.com/tomtom215/sentinelguard/internal/config"
	"github.com/tomtom215/sentinelguard/internal/database"
	"github.com/tomtom215/sentinelguard/internal/logging"
)

// cli carries the persistent flags shared by every subcommand.
type cli struct {
	cfgFile    string
	jsonOutput bool
	out        io.Writer

	// audit is set by open when audit.enabled is true.
	audit *audit.Logger

	// loadConfig is replaced in tests.
	loadConfig func() (*config.Config, error)
}

func newRootCmd(out io.Writer) *cobra.Command {
	return (&cli{out: out, loadConfig: config.Load}).rootCmd()
}

func (c *cli) rootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sentinelctl",
		Short: "Administer a SentinelGuard directory",
		Long: `Create users, devices and alerts, seed demo data and mint tokens
directly against the BadgerDB directory. Stop the server first.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.cfgFile != "" {
				if err := os.Setenv(config.ConfigPathEnvVar, c.cfgFile); err != nil {
					return fmt.Errorf("set %s: %w", config.ConfigPathEnvVar, err)
				}
			}
			return nil
		},
	}
	rootCmd.SetOut(out)

	rootCmd.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (default is ./config.yaml or /etc/sentinelguard/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&c.jsonOutput, "json", false, "Output results as JSON")

	rootCmd.AddCommand(
		c.newUserCmd(),
		c.newDeviceCmd(),
		c.newAlertCmd(),
		c.newSeedCmd(),
		c.newTokenCmd(),
		c.newAuditCmd(),
	)
	return rootCmd
}

// open loads the configuration and opens the directory. Logs go to stderr
// at warn level unless the config asks for more.
func (c *cli) open() (*config.Config, *database.DB, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}

	level := cfg.Logging.Level
	if level == "" || level == "info" {
		level = "warn"
	}
	logging.Init(logging.Config{Level: level, Format: "console", Output: os.Stderr})

	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("open directory (is the server still running?): %w", err)
	}
	if cfg.Audit.Enabled {
		c.audit = audit.NewLogger(db.AuditStore(), &audit.Config{Enabled: true, BufferSize: 16})
	}
	return cfg, db, nil
}

// close flushes the audit log and closes db, keeping the first error.
func (c *cli) close(db *database.DB, errp *error) {
	_ = c.audit.Close()
	c.audit = nil
	if err := db.Close(); err != nil && *errp == nil {
		*errp = err
	}
}

// record audits a change made from the command line.
func (c *cli) record(cmd *cobra.Command, eventType audit.EventType, target audit.Target, description string) {
	c.audit.LogChange(cmd.Context(), eventType, audit.Actor{Name: "sentinelctl", Type: "system"},
		audit.Source{IPAddress: "local"}, target, description, nil)
}

// printJSON writes v indented, for --json.
func (c *cli) printJSON(v interface{}) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
