// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Command darchivectl runs maintenance tasks against a darchive database.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/olegiv/darchive/internal/logging"
	"github.com/olegiv/darchive/internal/service"
	"github.com/olegiv/darchive/internal/store"
	"github.com/olegiv/darchive/internal/version"
)

const defaultDBPath = "./data/darchive.db"

// app holds the global flags and the opened database of one invocation.
type app struct {
	dbPath   string
	logLevel string

	db       *sql.DB
	services *service.Services
	logger   *slog.Logger
}

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "darchivectl",
		Short:        "Maintenance tool for darchive",
		Long:         "darchivectl promotes accounts, resets the homepage, moves content between\ninstallations and prunes the event log.",
		Version:      version.Get().String(),
		SilenceUsage: true,
	}

	dbDefault := os.Getenv("DARCHIVE_DB_PATH")
	if dbDefault == "" {
		dbDefault = defaultDBPath
	}
	root.PersistentFlags().StringVar(&a.dbPath, "db", dbDefault, "SQLite database path (env DARCHIVE_DB_PATH)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	root.AddCommand(
		newMakeAdminCmd(a),
		newHomeSetupCmd(a),
		newExportCmd(a),
		newImportCmd(a),
		newPruneEventsCmd(a),
	)
	return root
}

// withServices opens the database for the duration of fn.
func (a *app) withServices(cmd *cobra.Command, fn func(ctx context.Context) error) error {
	if err := a.open(cmd.Context(), cmd.ErrOrStderr()); err != nil {
		return err
	}
	defer func() {
		if err := a.close(); err != nil {
			a.logger.Warn("closing database", "error", err)
		}
	}()
	return fn(cmd.Context())
}

// open connects to the database and brings its schema up to date.
func (a *app) open(ctx context.Context, logOut io.Writer) error {
	a.logger = slog.New(logging.NewTextHandler(logOut, a.logLevel))

	db, err := store.NewDB(a.dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		return fmt.Errorf("running migrations: %w", err)
	}

	a.db = db
	a.services = service.New(db, service.Options{Logger: a.logger})
	a.logger.DebugContext(ctx, "database ready", "path", a.dbPath)
	return nil
}

func (a *app) close() error {
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}
