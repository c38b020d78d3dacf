// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"inkwell/internal/client"
	"inkwell/internal/clientstate"
)

var (
	statsURL     string
	statsRetries uint64
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Fetch the dashboard statistics from a running server",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(statsURL, client.WithRetries(statsRetries, 200*time.Millisecond))
		st := clientstate.NewStore()
		if err := clientstate.Refresh(cmd.Context(), c, st); err != nil {
			return err
		}

		out, err := json.MarshalIndent(st.State().Dashboard.Snapshot, "", "  ")
		if err != nil {
			return fmt.Errorf("encode snapshot: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	statsCmd.Flags().StringVar(&statsURL, "url", "http://localhost:8080", "base URL of the inkwell server")
	statsCmd.Flags().Uint64Var(&statsRetries, "retries", 3, "retries on server errors")
}
