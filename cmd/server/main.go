// Command bookkeeper-server starts the Bookkeeper HTTP API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/iudanet/bookkeeper/internal/config"
	"github.com/iudanet/bookkeeper/internal/server"
	"github.com/iudanet/bookkeeper/internal/server/files"
	"github.com/iudanet/bookkeeper/internal/server/storage/sqlite"
	"github.com/iudanet/bookkeeper/internal/server/token"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Parse flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	// Show version and exit if requested
	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := run(logger); err != nil {
		logger.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

// run выполняет полный жизненный цикл сервера
func run(logger *slog.Logger) error {
	// Конфигурация обязана содержать секрет подписи:
	// без него процесс не запускается
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Context с обработкой сигналов ОС
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// SQLite хранилище пользователей и книг (с миграциями)
	store, err := sqlite.New(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to init sqlite storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close sqlite storage", "error", err)
		}
	}()

	// BoltDB blob store для загруженных файлов
	fileStore, err := files.New(ctx, cfg.FilesPath)
	if err != nil {
		return fmt.Errorf("failed to init file store: %w", err)
	}
	defer func() {
		if err := fileStore.Close(); err != nil {
			logger.Error("failed to close file store", "error", err)
		}
	}()

	tokens, err := token.NewManager(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return fmt.Errorf("failed to init token manager: %w", err)
	}

	logger.Info("starting bookkeeper server",
		"version", Version,
		"build_date", BuildDate,
		"addr", cfg.Addr,
	)

	srv := server.New(cfg.Addr, server.Deps{
		Logger:  logger,
		Users:   store,
		Books:   store,
		Files:   fileStore,
		Tokens:  tokens,
		Version: Version,
	})

	return srv.Run(ctx)
}

func printVersion() {
	fmt.Printf("Bookkeeper Server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
