// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package cli implements the asynchttp command: a terminal front end
// which sends requests through an asynchttp.Client and prints each
// outcome as it is delivered.
package cli

import (
	"time"

	"github.com/asynchttp/asynchttp/config"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

// options holds the flags shared by every subcommand.
type options struct {
	pool     int
	timeout  time.Duration
	noColor  bool
	verbose  bool
	logLevel string
}

// RootCmd represents the base command when called without any subcommands
var RootCmd = NewRootCmd()

// NewRootCmd builds the command tree. Flag defaults come from the
// ASYNCHTTP_ environment variables read by package config.
func NewRootCmd() *cobra.Command {
	cfg := config.LoadOrDefault()
	opts := &options{}

	cmd := &cobra.Command{
		Use:     "asynchttp",
		Short:   "Fire HTTP requests through an asynchronous worker pool",
		Version: version,
		Long: `asynchttp sends GET and POST requests through a fixed pool of background
workers and prints each outcome as it is delivered, either on the worker
which ran the request or on the main loop.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// If no subcommand is provided, print help
			return cmd.Help()
		},
	}

	f := cmd.PersistentFlags()
	f.IntVarP(&opts.pool, "pool", "p", cfg.Dispatcher.PoolSize, "Number of worker goroutines")
	f.DurationVarP(&opts.timeout, "timeout", "t", cfg.Dispatcher.RequestTimeout, "Overall timeout of each request")
	f.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "Print status, delivery context and duration of each request")
	f.StringVar(&opts.logLevel, "log-level", cfg.Logging.Level, "Log level (debug, info, warn, error)")

	cmd.AddCommand(newRequestCmd("get", cfg, opts))
	cmd.AddCommand(newRequestCmd("post", cfg, opts))
	cmd.AddCommand(newBatchCmd(cfg, opts))
	return cmd
}

// Execute runs the root command. This is called by main.main().
func Execute() error {
	return RootCmd.Execute()
}
