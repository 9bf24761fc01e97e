// Copyright 2025 Nimbus Identity Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"

	"github.com/nimbusid/usersync/internal/config"
	appio "github.com/nimbusid/usersync/internal/io"
	"github.com/nimbusid/usersync/internal/logging"
	"github.com/nimbusid/usersync/internal/monitoring/prometheus"
	"github.com/nimbusid/usersync/internal/tracing"
	"github.com/nimbusid/usersync/internal/transport"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the remote users and groups",
	Long: `Fetch the users and groups currently on the remote identity service
and write them out as JSON, CSV membership pairs or an XLSX workbook.

Example:
  usersync export --format xlsx --output backup.xlsx --with-privileges`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runExport(cmd); err != nil {
			fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	exportCmd.Flags().String("format", "json", "Output format (json, csv, xlsx)")
	exportCmd.Flags().String("output", "-", "Output file, - for stdout")
	exportCmd.Flags().Bool("with-privileges", false, "Also fetch each group's privileges")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command) error {
	specs := new(config.EnvSpec)
	_ = envconfig.Process("", specs)

	logger := logging.NewLogger(specs.LogLevel)
	defer logger.Sync()

	monitor := prometheus.NewMonitor("usersync", logger)
	tracer := tracing.NewTracer(tracing.NewConfig(specs.TracingEnabled, specs.OtelGRPCEndpoint, specs.OtelHTTPEndpoint, logger))

	if err := validateRemote(specs); err != nil {
		return err
	}

	client := transport.NewClient(transportConfig(cmd, specs, tracer, monitor, logger))

	ctx := context.Background()
	ugs, err := client.GetAll(ctx)
	if err != nil {
		return err
	}

	if withPrivileges, _ := cmd.Flags().GetBool("with-privileges"); withPrivileges {
		for _, group := range ugs.GetGroups() {
			privileges, err := client.GetGroupPrivileges(ctx, group.Name)
			if err != nil {
				logger.Warnf("failed to get privileges for group %s: %v", group.Name, err)
				continue
			}
			group.Privileges = privileges
		}
	}

	sink, closeSink, err := openSink(cmd)
	if err != nil {
		return err
	}
	defer closeSink()

	writer, err := newSinkWriter(cmd, sink)
	if err != nil {
		return err
	}
	return writer.Write(ctx, ugs)
}

func openSink(cmd *cobra.Command) (io.Writer, func() error, error) {
	output, _ := cmd.Flags().GetString("output")
	if output == "-" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(output)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func newSinkWriter(cmd *cobra.Command, sink io.Writer) (appio.WriterInterface, error) {
	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "json":
		return appio.NewJSONWriter(sink), nil
	case "csv":
		return appio.NewCSVWriter(sink), nil
	case "xlsx":
		return appio.NewXLSXWriter(sink), nil
	default:
		return nil, fmt.Errorf("unsupported format: %q (supported: json, csv, xlsx)", format)
	}
}
