package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/deppfellow/baliblissed-backend/internal/config"
	"github.com/deppfellow/baliblissed-backend/internal/handler"
	"github.com/deppfellow/baliblissed-backend/internal/logger"
	"github.com/deppfellow/baliblissed-backend/internal/middleware"
	"github.com/deppfellow/baliblissed-backend/internal/router"
	"github.com/deppfellow/baliblissed-backend/internal/server"
	"github.com/deppfellow/baliblissed-backend/internal/service"
	"github.com/deppfellow/baliblissed-backend/static"
)

func main() {
	// Used only until the configured logger exists.
	bootstrap := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.LoadConfig()
	if err != nil {
		bootstrap.Fatal().Err(err).Msg("failed to load config")
	}

	loggerService, err := logger.NewLoggerService(cfg.Observability)
	if err != nil {
		bootstrap.Fatal().Err(err).Msg("failed to initialize New Relic")
	}

	log, logCloser, err := logger.NewLoggerWithService(cfg.Observability, loggerService)
	if err != nil {
		bootstrap.Fatal().Err(err).Msg("failed to initialize logger")
	}
	defer logCloser.Close()

	srv, err := server.New(cfg, &log, loggerService)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize server")
	}

	services := service.NewServices(srv)
	handlers := handler.NewHandlers(srv, services, static.FS)
	middlewares := middleware.NewMiddlewares(srv)
	r := router.NewRouter(srv, handlers, middlewares)

	srv.SetupHTTPServer(r)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			log.Error().Err(err).Msg("server stopped")
			logCloser.Close()
			os.Exit(1)
		}
		return
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		return
	}

	log.Info().Msg("server exited properly")
}
