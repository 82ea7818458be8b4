package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/meltforce/ironlog/internal/catalog"
	"github.com/meltforce/ironlog/internal/config"
	"github.com/meltforce/ironlog/internal/history"
	ironmcp "github.com/meltforce/ironlog/internal/mcp"
	"github.com/meltforce/ironlog/internal/seed"
	"github.com/meltforce/ironlog/internal/server"
	"github.com/meltforce/ironlog/internal/store"
	"github.com/meltforce/ironlog/internal/workout"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("IronLog starting", "version", Version)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Open the key-value store
	st, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	cat := catalog.New(st, log)
	hist := history.New(st, log)

	// Seed the default catalog when the stored data version is behind
	if err := seed.Run(ctx, cat, log); err != nil {
		log.Error("seed failed", "error", err)
		os.Exit(1)
	}

	engine := workout.New(cat, hist, log, func() {
		log.Info("rest complete")
	})

	srv := server.New(cat, hist, engine, st, cfg.Auth.APIKey, log)

	// MCP endpoint alongside the REST API
	mcpSrv := ironmcp.New(cat, hist, Version, log)
	mux := http.NewServeMux()
	mux.Handle("/mcp", mcpserver.NewStreamableHTTPServer(mcpSrv))
	mux.Handle("/", srv)

	// Listen over tsnet when enabled, plain TCP otherwise
	var listener net.Listener
	var tsServer *tsnet.Server

	if cfg.Tailscale.Enabled {
		tsServer = &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "dev (no tailscale)")
	}

	httpSrv := &http.Server{Handler: mux}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
}

// openStore opens the configured store backend, running migrations first for
// postgres.
func openStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (store.Store, error) {
	switch cfg.Storage.Driver {
	case "postgres":
		if err := store.RunMigrations(cfg.Storage.DSN, cfg.Storage.MigrationsPath); err != nil {
			return nil, err
		}
		log.Info("migrations applied")
		return store.OpenPostgres(ctx, cfg.Storage.DSN)
	default:
		log.Info("opening sqlite store", "path", cfg.Storage.Path)
		return store.OpenSQLite(cfg.Storage.Path)
	}
}
