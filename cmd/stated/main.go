package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/tailored-agentic-units/statewire/config"
	"github.com/tailored-agentic-units/statewire/server"
	"github.com/tailored-agentic-units/statewire/version"
)

func main() {
	var (
		configFile = flag.String("config", "", "Path to config JSON file")
		envFile    = flag.String("env-file", "", "Path to .env file (default .env when present)")
		addr       = flag.String("addr", "", "Listen address (overrides config)")
		backend    = flag.String("store", "", "Store backend: memory, file, redis, postgres (overrides config)")
		codecName  = flag.String("codec", "", "Store codec: json, cbor, msgpack, proto (overrides config)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging to stderr")
	)
	flag.Parse()

	cfg, err := config.Load(*configFile, *envFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *backend != "" {
		cfg.Store.Backend = *backend
	}
	if *codecName != "" {
		cfg.Store.Codec = *codecName
	}
	if *verbose {
		cfg.Log.Level = "debug"
	}
	cfg.Sanitize()

	logger := cfg.Log.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	observer, err := cfg.Log.NewObserver(logger)
	if err != nil {
		log.Fatalf("Failed to create observer: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(ctx, cfg, server.WithObserver(observer))
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	logger.Info("stated starting", "version", version.Version(), "addr", cfg.Server.Addr, "store", cfg.Store.Backend)
	if err := srv.Run(ctx); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
