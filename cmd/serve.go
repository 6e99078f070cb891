package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"portal/internal/api"
	"portal/internal/api/handler/v1handler"
	"portal/internal/config"
	"portal/internal/documents"
	"portal/internal/worker"
	"portal/pkg/logger"
	"portal/pkg/objectstore/spaces"
	"portal/pkg/storage/postgres"
	"portal/pkg/theme"
	"portal/pkg/translation"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	translationBackendPostgres = "postgres"
	translationBackendMemory   = "memory"
)

func setupServer(ctx context.Context, cfg *config.Config, deps api.Deps) func(ctx context.Context) {
	server, err := api.NewServer(deps, api.NewOptions(cfg))
	if err != nil {
		logger.Fatal(ctx, "could not create webserver", zap.Error(err))
	}

	go func() {
		logger.Info(ctx, "starting webserver...", zap.String("addr", cfg.HTTP.Addr))
		if err := server.ListenAndServe(); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logger.Error(ctx, "could not start webserver", zap.Error(err))
			}
		}
	}()

	return func(ctx context.Context) {
		logger.Info(ctx, "stopping webserver...")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(ctx, "could not stop webserver", zap.Error(err))
		}
	}
}

func setupDocuments(ctx context.Context, cfg *config.Config, strg *postgres.PgSQL) documents.Service {
	objects, err := spaces.New(spaces.Options{
		Endpoint:    cfg.Storage.Endpoint,
		Region:      cfg.Storage.Region,
		Bucket:      cfg.Storage.Bucket,
		AccessKey:   cfg.Storage.AccessKey,
		SecretKey:   cfg.Storage.SecretKey,
		MaxAttempts: 1,
	})
	if err != nil {
		logger.Fatal(ctx, "could not create object storage client", zap.Error(err))
	}

	return documents.New(strg, objects, documents.NewOptions(cfg))
}

func setupTranslations(ctx context.Context, cfg *config.Config, strg *postgres.PgSQL) *translation.Cache {
	switch cfg.Translation.Backend {
	case translationBackendMemory:
		return translation.New(translation.NewMemoryStore(cfg.Translation.MemoryCapacity))
	case translationBackendPostgres:
		return translation.New(strg)
	default:
		logger.Fatal(ctx, "unknown translation backend", zap.String("backend", cfg.Translation.Backend))

		return nil
	}
}

func setupTheme(ctx context.Context, cfg *config.Config) theme.Schedule {
	loc, err := cfg.ThemeLocation()
	if err != nil {
		logger.Fatal(ctx, "could not load theme location", zap.Error(err))
	}

	schedule := theme.Schedule{
		DayStart:   cfg.Theme.DayStart,
		NightStart: cfg.Theme.NightStart,
		Location:   loc,
	}
	if err := schedule.Validate(); err != nil {
		logger.Fatal(ctx, "invalid theme schedule", zap.Error(err))
	}

	return schedule
}

func serveCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Starts API server and background workers",
		Run: func(cmd *cobra.Command, args []string) {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			strg, closeStrg := getPostgres(ctx, cfg)
			defer closeStrg()

			documentService := setupDocuments(ctx, cfg, strg)

			workers, err := worker.Start(ctx, strg.Pool, documentService, worker.NewOptions(cfg))
			if err != nil {
				logger.Fatal(ctx, "could not start workers", zap.Error(err))
			}

			stopWebserver := setupServer(ctx, cfg, api.Deps{
				Deps: v1handler.Deps{
					Documents:    documentService,
					Translations: setupTranslations(ctx, cfg, strg),
					Theme:        setupTheme(ctx, cfg),
				},
				DB: strg,
			})

			// wait for interrupt
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GracefulShutdownTimeout)
			defer cancel()

			stopWebserver(shutdownCtx)

			logger.Info(shutdownCtx, "stopping workers...")
			if err := workers.Stop(shutdownCtx); err != nil {
				logger.Error(shutdownCtx, "could not stop workers", zap.Error(err))
			}
		},
	}

	return cmd
}
