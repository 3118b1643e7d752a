// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/olegiv/darchive/internal/service"
	"github.com/olegiv/darchive/internal/transfer"
)

func newMakeAdminCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "make-admin <email>",
		Short: "Grant admin rights to an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withServices(cmd, func(ctx context.Context) error {
				u, err := a.services.Users.MakeAdmin(ctx, args[0])
				if errors.Is(err, service.ErrNotFound) {
					return fmt.Errorf("no account with email %q", args[0])
				}
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s is now an admin\n", u.Email)
				return nil
			})
		},
	}
}

func newHomeSetupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "home-setup",
		Short: "Reset the homepage to the default blocks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withServices(cmd, func(ctx context.Context) error {
				items, err := a.services.Home.Reset(ctx)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "homepage reset to %d blocks\n", len(items))
				return nil
			})
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	var (
		output     string
		pageStatus string
		noSettings bool
		noHome     bool
		noPages    bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write settings, homepage and pages as a YAML snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch pageStatus {
			case "all", "published", "draft":
			default:
				return fmt.Errorf("invalid --pages %q: want all, published or draft", pageStatus)
			}
			opts := transfer.ExportOptions{
				IncludeSettings: !noSettings,
				IncludeHome:     !noHome,
				IncludePages:    !noPages,
				PageStatus:      pageStatus,
			}

			return a.withServices(cmd, func(ctx context.Context) error {
				exp := transfer.NewExporter(a.services, a.logger)
				if output == "" || output == "-" {
					return exp.ExportToWriter(ctx, opts, cmd.OutOrStdout())
				}
				if err := exp.ExportToFile(ctx, opts, output); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "snapshot written to %s\n", output)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVar(&pageStatus, "pages", "all", "Pages to include: all, published or draft")
	cmd.Flags().BoolVar(&noSettings, "no-settings", false, "Leave out the site settings")
	cmd.Flags().BoolVar(&noHome, "no-home", false, "Leave out the homepage blocks")
	cmd.Flags().BoolVar(&noPages, "no-pages", false, "Leave out the pages")
	return cmd
}

func newImportCmd(a *app) *cobra.Command {
	var (
		dryRun    bool
		overwrite bool
	)

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Apply a YAML snapshot",
		Long:  "Apply a YAML snapshot. Settings and the homepage are replaced; pages are\ncreated for owners that exist in this database. Pages whose slug already\nexists are skipped unless --overwrite is given.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := transfer.DefaultImportOptions()
			opts.DryRun = dryRun
			if overwrite {
				opts.ConflictStrategy = transfer.ConflictOverwrite
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()

			return a.withServices(cmd, func(ctx context.Context) error {
				result, err := transfer.NewImporter(a.services, a.logger).ImportFromReader(ctx, f, opts)
				if result != nil {
					printImportResult(cmd, result)
				}
				if err != nil {
					return err
				}
				if !result.Success() {
					return fmt.Errorf("%d entries failed", len(result.Errors))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate and count without writing")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace pages whose slug already exists")
	return cmd
}

func printImportResult(cmd *cobra.Command, r *transfer.ImportResult) {
	out := cmd.OutOrStdout()
	if r.DryRun {
		_, _ = fmt.Fprintln(out, "dry run, nothing was written")
	}
	for _, entity := range []string{"settings", "home", "page"} {
		_, _ = fmt.Fprintf(out, "%-8s created=%d updated=%d skipped=%d\n",
			entity, r.Created[entity], r.Updated[entity], r.Skipped[entity])
	}
	for _, e := range r.Errors {
		_, _ = fmt.Fprintf(out, "error: %s\n", e.Error())
	}
}

func newPruneEventsCmd(a *app) *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "prune-events",
		Short: "Delete old event log entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if olderThan <= 0 {
				return errors.New("--older-than must be positive")
			}
			return a.withServices(cmd, func(ctx context.Context) error {
				n, err := a.services.Events.DeleteOldEvents(ctx, olderThan)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted %d events\n", n)
				return nil
			})
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 90*24*time.Hour, "Delete events older than this")
	return cmd
}
