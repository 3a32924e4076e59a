package main

import (
	"bytes"
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dimiro1/banner"

	"github.com/taiwoajasa245/quran-sukoon-api/internal/server"
	"github.com/taiwoajasa245/quran-sukoon-api/pkg/config"
	"github.com/taiwoajasa245/quran-sukoon-api/pkg/logging"
)

const version = "dev"

func printBanner() {
	tpl := "{{ .Title \"SUKOON\" \"\" 0 }}\nQuran Sukoon API " + version + "\n"
	banner.Init(os.Stdout, true, true, bytes.NewBufferString(tpl))
}

func gracefulShutdown(apiServer *http.Server, app *server.Server, logger *slog.Logger, done chan<- struct{}) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info("shutting down gracefully, press Ctrl+C again to force")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", slog.Any("error", err))
	}

	app.StopBackgroundJobs()
	if err := app.Close(); err != nil {
		logger.Error("close resources", slog.Any("error", err))
	}

	logger.Info("server exiting")
	done <- struct{}{}
}

func main() {
	printBanner()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := logging.InitLogger(logging.ParseLevel(cfg.LogLevel))
	slog.SetDefault(logger)

	app, err := server.NewServer(cfg, logger)
	if err != nil {
		logger.Error("build server", slog.Any("error", err))
		os.Exit(1)
	}

	apiServer := app.HTTPServer()
	done := make(chan struct{}, 1)
	go gracefulShutdown(apiServer, app, logger, done)

	app.StartBackgroundJobs()

	logger.Info("server listening", slog.String("addr", apiServer.Addr), slog.String("env", cfg.AppEnv))
	if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server error", slog.Any("error", err))
		os.Exit(1)
	}

	<-done
	logger.Info("graceful shutdown complete")
}
