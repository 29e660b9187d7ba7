package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/gophlibrary/internal/cli"
	"github.com/dmitrijs2005/gophlibrary/internal/config"
	"github.com/dmitrijs2005/gophlibrary/internal/logging"
	"github.com/dmitrijs2005/gophlibrary/internal/repositories/repomanager"
	"github.com/dmitrijs2005/gophlibrary/internal/services"
)

func main() {

	cfg := config.LoadConfig(config.ForTerminal)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, dialect, err := repomanager.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	defer db.Close()

	rm, err := repomanager.NewRepositoryManager(dialect)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if err := rm.RunMigrations(ctx, db); err != nil {
		log.Fatalf("migrations: %v", err)
	}

	app := cli.NewApp(
		services.NewUserService(db, rm, cfg, logger),
		services.NewCatalogService(db, rm, logger),
		services.NewLoanService(db, rm, cfg, logger),
		logger,
		os.Stdin,
		os.Stdout,
	)
	if cli.StdinIsTerminal() {
		app.SetCharDelay(5 * time.Millisecond)
	}

	// Reading stdin blocks, so a signal ends the program from here rather
	// than waiting for the next line.
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			logger.Error(ctx, "terminal session failed", "error", err)
		}
	case <-ctx.Done():
		os.Stdout.WriteString("\nGoodbye!\n")
	}
}
