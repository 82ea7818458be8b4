// Command ironlog-backup exports or restores a full snapshot of an IronLog
// store as JSON, without going through the HTTP API.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/meltforce/ironlog/internal/backup"
	"github.com/meltforce/ironlog/internal/store"
)

func main() {
	mode := flag.String("mode", "export", "export or restore")
	file := flag.String("file", "", "backup file path (required)")
	dbPath := flag.String("db", "ironlog.db", "sqlite database path")
	dsn := flag.String("dsn", "", "postgres DSN (uses postgres instead of sqlite when set)")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if *file == "" {
		log.Error("missing required flag", "flag", "-file")
		os.Exit(1)
	}

	ctx := context.Background()

	st, err := openStore(ctx, *dsn, *dbPath)
	if err != nil {
		log.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	switch *mode {
	case "export":
		err = runExport(ctx, st, *file)
	case "restore":
		err = runRestore(ctx, st, *file)
	default:
		err = fmt.Errorf("unknown mode %q (want export or restore)", *mode)
	}
	if err != nil {
		log.Error("backup failed", "mode", *mode, "error", err)
		os.Exit(1)
	}
	log.Info("backup complete", "mode", *mode, "file", *file)
}

func openStore(ctx context.Context, dsn, dbPath string) (store.Store, error) {
	if dsn != "" {
		return store.OpenPostgres(ctx, dsn)
	}
	return store.OpenSQLite(dbPath)
}

func runExport(ctx context.Context, st store.Store, path string) error {
	env, err := backup.Export(ctx, st)
	if err != nil {
		return fmt.Errorf("exporting: %w", err)
	}
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding backup: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func runRestore(ctx context.Context, st store.Store, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	var env backup.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("decoding backup: %w", err)
	}
	if err := backup.Validate(env); err != nil {
		return fmt.Errorf("invalid backup: %w", err)
	}
	if err := backup.Restore(ctx, st, env); err != nil {
		return fmt.Errorf("restoring: %w", err)
	}
	return nil
}
