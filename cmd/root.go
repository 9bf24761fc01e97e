// Copyright 2025 Nimbus Identity Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nimbusid/usersync/pkg/status"
)

var rootCmd = &cobra.Command{
	Use:   "usersync",
	Short: "Synchronize users and groups with a remote identity service",
	Long: `usersync loads users and groups from a local source (JSON, CSV, XLSX
or Salesforce), reconciles them against the remote identity service and
pushes the result over its HTTP API.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("usersync %s\n", status.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func Execute() error {
	return rootCmd.Execute()
}
