// Copyright 2025 Nimbus Identity Ltd.
// SPDX-License-Identifier: AGPL-3.0

package config

// EnvSpec is the basic environment configuration setup needed for the app to start
type EnvSpec struct {
	OtelGRPCEndpoint string `envconfig:"otel_grpc_endpoint"`
	OtelHTTPEndpoint string `envconfig:"otel_http_endpoint"`
	TracingEnabled   bool   `envconfig:"tracing_enabled" default:"false"`

	LogLevel string `envconfig:"log_level" default:"error"`
	Debug    bool   `envconfig:"debug" default:"false"`

	Port int `envconfig:"port" default:"8080"`

	// APIToken protects the sync trigger endpoint. Empty leaves it open.
	APIToken string `envconfig:"api_token"`

	RemoteURL      string `envconfig:"remote_url" validate:"omitempty,url"`
	RemoteUsername string `envconfig:"remote_username" default:"admin"`
	RemotePassword string `envconfig:"remote_password"`
	DisableSSL     bool   `envconfig:"disable_ssl" default:"false"`

	SalesforceDomain         string `envconfig:"salesforce_domain"`
	SalesforceConsumerKey    string `envconfig:"salesforce_consumer_key"`
	SalesforceConsumerSecret string `envconfig:"salesforce_consumer_secret"`

	// Cron expression for periodic syncs in serve mode. Empty disables the schedule.
	SyncSchedule string `envconfig:"sync_schedule"`
}
