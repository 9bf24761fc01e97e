// Copyright 2025 Nimbus Identity Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/nimbusid/usersync/internal/config"
	appio "github.com/nimbusid/usersync/internal/io"
	"github.com/nimbusid/usersync/internal/logging"
	"github.com/nimbusid/usersync/pkg/principal"
	"github.com/nimbusid/usersync/pkg/sync"
)

func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().String("source", "json", "Source to read principals from (json, csv, xlsx, salesforce)")
	cmd.Flags().String("input", "", "Path to the source file (JSON document, CSV user table or XLSX workbook)")
	cmd.Flags().String("groups-input", "", "Path to the CSV group table (optional)")
	cmd.Flags().String("mappings", "", "Path to a YAML column mapping file for CSV sources")
}

func addOptionFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("apply-changes", false, "Apply the changes instead of doing a dry run")
	cmd.Flags().Bool("remove-deleted", false, "Delete remote users absent from the source")
	cmd.Flags().Int("batch-size", 0, "Sync users in batches of this size (0 syncs everything at once)")
	cmd.Flags().Bool("create-groups", false, "Create definitions for referenced but undefined groups")
	cmd.Flags().Bool("merge-groups", false, "Merge remote group membership into the pushed users")
	cmd.Flags().Bool("set-privileges", false, "Make remote group privileges match the source")
	cmd.Flags().Bool("update-passwords", false, "Push per-user passwords after the sync")
	cmd.Flags().String("global-password", "", "Password assigned to all created users")
}

func syncOptions(cmd *cobra.Command, specs *config.EnvSpec) sync.Options {
	var opts sync.Options

	opts.ApplyChanges, _ = cmd.Flags().GetBool("apply-changes")
	opts.RemoveDeleted, _ = cmd.Flags().GetBool("remove-deleted")
	opts.BatchSize, _ = cmd.Flags().GetInt("batch-size")
	opts.CreateGroups, _ = cmd.Flags().GetBool("create-groups")
	opts.MergeGroups, _ = cmd.Flags().GetBool("merge-groups")
	opts.SetPrivileges, _ = cmd.Flags().GetBool("set-privileges")
	opts.UpdatePasswords, _ = cmd.Flags().GetBool("update-passwords")
	opts.AdminPassword = specs.RemotePassword

	return opts
}

// fileReader opens its file on every read, so a scheduled sync picks up
// changes to the source between runs.
type fileReader struct {
	path  string
	build func(io.Reader) appio.ReaderInterface
}

func (r *fileReader) Read(ctx context.Context) (*principal.UsersAndGroups, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return r.build(f).Read(ctx)
}

// csvFileReader reopens the user and group tables on every read.
type csvFileReader struct {
	usersPath  string
	groupsPath string
	mappings   *appio.Mappings
	logger     logging.LoggerInterface
}

func (r *csvFileReader) Read(ctx context.Context) (*principal.UsersAndGroups, error) {
	users, err := os.Open(r.usersPath)
	if err != nil {
		return nil, err
	}
	defer users.Close()

	var groups io.Reader
	if r.groupsPath != "" {
		f, err := os.Open(r.groupsPath)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		groups = f
	}

	reader, err := appio.NewCSVReader(users, groups, r.mappings, r.logger)
	if err != nil {
		return nil, err
	}
	return reader.Read(ctx)
}

func newSourceReader(cmd *cobra.Command, specs *config.EnvSpec, logger logging.LoggerInterface) (appio.ReaderInterface, error) {
	source, _ := cmd.Flags().GetString("source")
	input, _ := cmd.Flags().GetString("input")

	switch source {
	case "json":
		if input == "" {
			return nil, fmt.Errorf("the json source requires --input")
		}
		return &fileReader{path: input, build: func(f io.Reader) appio.ReaderInterface {
			return appio.NewJSONReader(f, logger)
		}}, nil

	case "xlsx":
		if input == "" {
			return nil, fmt.Errorf("the xlsx source requires --input")
		}
		return &fileReader{path: input, build: func(f io.Reader) appio.ReaderInterface {
			return appio.NewXLSXReader(f, logger)
		}}, nil

	case "csv":
		if input == "" {
			return nil, fmt.Errorf("the csv source requires --input")
		}
		groupsPath, _ := cmd.Flags().GetString("groups-input")
		mappings, err := loadMappings(cmd)
		if err != nil {
			return nil, err
		}
		return &csvFileReader{usersPath: input, groupsPath: groupsPath, mappings: mappings, logger: logger}, nil

	case "salesforce":
		if specs.SalesforceDomain == "" || specs.SalesforceConsumerKey == "" || specs.SalesforceConsumerSecret == "" {
			return nil, fmt.Errorf("the salesforce source requires SALESFORCE_DOMAIN, SALESFORCE_CONSUMER_KEY and SALESFORCE_CONSUMER_SECRET")
		}
		client, err := appio.NewSalesforceClient(
			specs.SalesforceDomain,
			specs.SalesforceConsumerKey,
			specs.SalesforceConsumerSecret,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize salesforce client: %w", err)
		}
		return appio.NewSalesforceReader(client, logger), nil

	default:
		return nil, fmt.Errorf("unsupported source: %q (supported: json, csv, xlsx, salesforce)", source)
	}
}

func loadMappings(cmd *cobra.Command) (*appio.Mappings, error) {
	path, _ := cmd.Flags().GetString("mappings")
	if path == "" {
		return appio.DefaultMappings(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return appio.LoadMappings(f)
}
