// Copyright 2025 Nimbus Identity Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/nimbusid/usersync/internal/config"
	"github.com/nimbusid/usersync/internal/logging"
	"github.com/nimbusid/usersync/internal/monitoring/prometheus"
	"github.com/nimbusid/usersync/internal/tracing"
	"github.com/nimbusid/usersync/internal/transport"
	"github.com/nimbusid/usersync/pkg/runs"
	"github.com/nimbusid/usersync/pkg/sync"
	"github.com/nimbusid/usersync/pkg/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "serve starts the web server",
	Long: `Launch the web application. Syncs are triggered over the API or by
the SYNC_SCHEDULE cron expression, using the source and options given on
the command line. The list of environment variables is available in the
readme.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := serve(cmd); err != nil {
			fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	addSourceFlags(serveCmd)
	addOptionFlags(serveCmd)

	rootCmd.AddCommand(serveCmd)
}

func serve(cmd *cobra.Command) error {
	specs := new(config.EnvSpec)
	if err := envconfig.Process("", specs); err != nil {
		panic(fmt.Errorf("issues with environment sourcing: %s", err))
	}

	logger := logging.NewLogger(specs.LogLevel)
	logger.Debugf("env vars: %v", specs)
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

	client := transport.NewClient(transportConfig(cmd, specs, tracer, monitor, logger))
	syncer := sync.NewSyncer(client, tracer, monitor, logger)
	service := runs.NewService(reader, syncer, syncOptions(cmd, specs), tracer, monitor, logger)

	if specs.SyncSchedule != "" {
		scheduler := cron.New()
		if _, err := scheduler.AddFunc(specs.SyncSchedule, func() {
			if _, err := service.Trigger(context.Background()); err != nil {
				logger.Warnf("scheduled sync not started: %v", err)
			}
		}); err != nil {
			return fmt.Errorf("invalid SYNC_SCHEDULE: %w", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
		logger.Infof("scheduled syncs with %q", specs.SyncSchedule)
	}

	router := web.NewRouter(specs.APIToken, service, tracer, monitor, logger)
	logger.Infof("Starting server on port %v", specs.Port)

	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%v", specs.Port),
		WriteTimeout: time.Second * 60,
		ReadTimeout:  time.Second * 15,
		IdleTimeout:  time.Second * 60,
		Handler:      router,
	}

	var serverError error
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError = fmt.Errorf("server error: %w", err)
			c <- os.Interrupt
		}
	}()

	<-c

	// Create a deadline to wait for.
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		serverError = fmt.Errorf("server shutdown error: %w", err)
	}

	return serverError
}
