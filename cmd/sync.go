// Copyright 2025 Nimbus Identity Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"context"
	"fmt"
	"os"

	validator "github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"

	"github.com/nimbusid/usersync/internal/config"
	"github.com/nimbusid/usersync/internal/logging"
	"github.com/nimbusid/usersync/internal/monitoring/prometheus"
	"github.com/nimbusid/usersync/internal/tracing"
	"github.com/nimbusid/usersync/internal/transport"
	"github.com/nimbusid/usersync/pkg/sync"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync users and groups from a source to the remote identity service",
	Long: `Read users and groups from a source and push them to the remote
identity service.

Without --apply-changes this is a dry run: the remote reports what would
change without applying anything.

Example:
  usersync sync --source csv --input users.csv --create-groups --apply-changes`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runSync(cmd); err != nil {
			fmt.Fprintf(os.Stderr, "Sync failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	addSourceFlags(syncCmd)
	addOptionFlags(syncCmd)

	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command) error {
	specs := new(config.EnvSpec)
	// best-effort env loading, flags take precedence
	_ = envconfig.Process("", specs)

	logger := logging.NewLogger(specs.LogLevel)
	defer logger.Sync()

	monitor := prometheus.NewMonitor("usersync", logger)
	tracer := tracing.NewTracer(tracing.NewConfig(specs.TracingEnabled, specs.OtelGRPCEndpoint, specs.OtelHTTPEndpoint, logger))

	if err := validateRemote(specs); err != nil {
		return err
	}

	reader, err := newSourceReader(cmd, specs, logger)
	if err != nil {
		return err
	}

	ctx := context.Background()
	ugs, err := reader.Read(ctx)
	if err != nil {
		return fmt.Errorf("failed to read source: %w", err)
	}

	client := transport.NewClient(transportConfig(cmd, specs, tracer, monitor, logger))
	syncer := sync.NewSyncer(client, tracer, monitor, logger)

	return syncer.Run(ctx, ugs, syncOptions(cmd, specs))
}

func transportConfig(
	cmd *cobra.Command,
	specs *config.EnvSpec,
	tracer tracing.TracingInterface,
	monitor *prometheus.Monitor,
	logger logging.LoggerInterface,
) *transport.Config {
	cfg := transport.NewConfig(
		specs.RemoteURL,
		specs.RemoteUsername,
		specs.RemotePassword,
		specs.DisableSSL,
		tracer,
		monitor,
		logger,
	)
	cfg.GlobalPassword, _ = cmd.Flags().GetString("global-password")
	return cfg
}

func validateRemote(specs *config.EnvSpec) error {
	if err := validator.New().Var(specs.RemoteURL, "required,url"); err != nil {
		return fmt.Errorf("REMOTE_URL must be set to the remote service URL")
	}
	return nil
}
