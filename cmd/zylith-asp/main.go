// Zylith ASP - the off-chain Anonymous Service Provider daemon: serves the
// shielded-operation REST surface in front of the authoritative commitment
// tree, ledger, and nullifier set.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zylith/core/internal/asp"
	"github.com/zylith/core/internal/aspstore"
	"github.com/zylith/core/internal/chain"
	"github.com/zylith/core/internal/proverclient"
)

const banner = `
 ________      ___   ___  ___     ___ _________  ___  ___
|\_____  \    |\  \ |\  \|\  \   |\  \\___   ___\\  \|\  \
 \|___/  /|   \ \  \\ \  \ \  \  \ \  \|___ \  \_\ \  \\\  \
     /  / /    \ \  \\ \  \ \  \  \ \  \   \ \  \ \ \   __  \
    /  /_/__    \ \  \\ \  \ \  \____\ \  \   \ \  \ \ \  \ \  \
   |\________\   \ \__\\ \__\ \_______\ \__\   \ \__\ \ \__\ \__\
    \|_______|    \|__| \|__|\|_______|\|__|    \|__|  \|__|\|__|

  Zylith ASP v%s
  Off-chain anonymous service provider for the shielded CLMM
`

const version = "0.1.0"

// Config holds the daemon's flag-driven configuration.
type Config struct {
	ListenAddr string

	StoreKind  string
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string

	ProverCommand string
	ProverArgs    string

	CoordinatorAddr string
	PoolKey         string

	DataDir string
}

func main() {
	cfg := parseFlags()
	fmt.Printf(banner, version)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nShutting down...")
		cancel()
	}()

	if err := run(ctx, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() *Config {
	cfg := &Config{}

	flag.StringVar(&cfg.ListenAddr, "listen", "127.0.0.1:8585", "HTTP listen address")

	flag.StringVar(&cfg.StoreKind, "store", "memory", "ledger store backend: memory or postgres")
	flag.StringVar(&cfg.DBHost, "db-host", "localhost", "PostgreSQL host")
	flag.IntVar(&cfg.DBPort, "db-port", 5432, "PostgreSQL port")
	flag.StringVar(&cfg.DBUser, "db-user", "zylith", "PostgreSQL user")
	flag.StringVar(&cfg.DBPassword, "db-password", "", "PostgreSQL password")
	flag.StringVar(&cfg.DBName, "db-name", "zylith_asp", "PostgreSQL database name")

	flag.StringVar(&cfg.ProverCommand, "prover-command", "zylith-prover", "Prover Worker binary to spawn")
	flag.StringVar(&cfg.ProverArgs, "prover-args", "", "extra space-separated arguments for the Prover Worker")

	flag.StringVar(&cfg.CoordinatorAddr, "coordinator", "", "on-chain coordinator contract address")
	flag.StringVar(&cfg.PoolKey, "pool", "", "CLMM pool key this ASP serves")

	flag.StringVar(&cfg.DataDir, "data-dir", "./data", "data directory")

	flag.Parse()
	return cfg
}

func run(ctx context.Context, cfg *Config) error {
	fmt.Println("Initializing Zylith ASP...")

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open ledger store: %w", err)
	}
	defer closeStore()
	fmt.Println("Ledger store ready.")

	// No real RPC adapter ships in this repository; MockClient stands in
	// as the on-chain collaborator so the daemon is runnable end to end.
	chainClient := chain.NewMockClient()
	fmt.Println("Chain client ready (mock).")

	var proverArgs []string
	if cfg.ProverArgs != "" {
		proverArgs = splitArgs(cfg.ProverArgs)
	}
	proverClient, err := proverclient.Start(ctx, cfg.ProverCommand, proverArgs...)
	if err != nil {
		return fmt.Errorf("start prover worker: %w", err)
	}
	fmt.Println("Prover Worker ready.")

	svc, err := asp.NewService(ctx, store, chainClient, proverClient, asp.Config{
		Coordinator: cfg.CoordinatorAddr,
		Pool:        cfg.PoolKey,
	})
	if err != nil {
		return fmt.Errorf("initialize service: %w", err)
	}
	fmt.Println("Service initialized.")

	server := asp.NewServer(svc)
	httpServer := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      server.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: asp.DefaultHandlerTimeout + 15*time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		fmt.Printf("Listening on %s\n", cfg.ListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func openStore(ctx context.Context, cfg *Config) (aspstore.Store, func(), error) {
	switch cfg.StoreKind {
	case "postgres":
		dbCfg := &aspstore.Config{
			Host:     cfg.DBHost,
			Port:     cfg.DBPort,
			User:     cfg.DBUser,
			Password: cfg.DBPassword,
			Database: cfg.DBName,
			SSLMode:  "disable",
			MaxConns: 20,
		}
		store, err := aspstore.NewPostgresStore(ctx, dbCfg)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	default:
		store := aspstore.NewMemoryStore()
		return store, func() {}, nil
	}
}

func splitArgs(s string) []string {
	var out []string
	start := -1
	for i, r := range s {
		if r == ' ' {
			if start >= 0 {
				out = append(out, s[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		out = append(out, s[start:])
	}
	return out
}
