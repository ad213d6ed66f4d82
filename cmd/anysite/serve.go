package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"anysite/internal/app"
	"anysite/internal/config"
	"anysite/internal/llm"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			logger, err := zap.NewProductionConfig().Build()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			generator, err := llm.New(cfg)
			if err != nil {
				return err
			}

			handler, err := app.NewServer(generator, cfg, logger)
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr:    ":" + cfg.Port,
				Handler: handler,
				// WriteTimeout must outlast the generation timeout or
				// slow completions get cut off mid-response.
				ReadTimeout:  5 * time.Second,
				WriteTimeout: cfg.GenerationTimeout + 15*time.Second,
				IdleTimeout:  60 * time.Second,
			}

			shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			g, ctx := errgroup.WithContext(shutdownCtx)

			g.Go(func() error {
				logger.Info("anysite listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})

			g.Go(func() error {
				<-ctx.Done()
				timeoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := srv.Shutdown(timeoutCtx); err != nil {
					logger.Warn("graceful shutdown failed", zap.Error(err))
				}
				return nil
			})

			return g.Wait()
		},
	}
}
