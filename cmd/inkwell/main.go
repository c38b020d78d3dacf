// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the inkwell command: the API server plus the database
// and dashboard maintenance subcommands.
//
// Usage:
//
//	inkwell serve
//	inkwell migrate
//	inkwell seed
//	inkwell stats --url http://localhost:8080
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"inkwell/internal/config"
)

// Version is set at build time via ldflags.
var Version = "dev"

var configFile string

var rootCmd = &cobra.Command{
	Use:   "inkwell",
	Short: "Inkwell blog CMS",
	Long: `Inkwell is a blog CMS: categories, tags, markdown articles and
favorites, with a dashboard statistics API for administrators.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the inkwell version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "inkwell version %s\n", Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "optional config file (.env, YAML, TOML or JSON)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the configuration and installs the default logger:
// text output in development, JSON everywhere else.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	var handler slog.Handler
	if cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))

	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}
