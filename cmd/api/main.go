package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hugohenrick/erp-estoque/internal/config"
	"github.com/hugohenrick/erp-estoque/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Erro ao carregar configuração: %v", err)
	}

	appLogger, err := logger.NewLogger(logger.Config{
		Level:       cfg.Logger.Level,
		Environment: cfg.Server.Environment,
		ServiceName: cfg.Logger.ServiceName,
	})
	if err != nil {
		log.Fatalf("Erro ao criar logger: %v", err)
	}

	if err := run(cfg, appLogger); err != nil {
		appLogger.Error("servidor encerrado com erro", "error", err.Error())
		_ = appLogger.Sync()
		os.Exit(1)
	}
	_ = appLogger.Sync()
}

func run(cfg *config.Config, appLogger logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := NewApp(ctx, cfg, appLogger)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.Bootstrap(ctx); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Start()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	appLogger.Info("desligando servidor")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return app.Shutdown(shutdownCtx)
}
