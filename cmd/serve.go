package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/devtutor/internal/api"
	"github.com/abhisek/devtutor/internal/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve topics and questions over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := openServices(cmd, false)
		if err != nil {
			return err
		}
		defer cleanup()

		addr := svc.Config.HTTPAddr
		if a, _ := cmd.Flags().GetString("addr"); a != "" {
			addr = a
		}
		log := svc.Logger.With().Str("component", "http").Logger()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cache, closeCache, err := svc.QuestionCache(logging.IntoContext(ctx, log))
		if err != nil {
			return err
		}
		defer closeCache()
		if cache == nil {
			log.Info().Msg("no redis configured, questions are not cached")
		}

		srv := api.NewServer(addr, api.New(svc.Resolver, cache, log).Handler(svc.Registry))

		errCh := make(chan error, 1)
		go func() {
			log.Info().Str("addr", addr).Msg("http server listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		select {
		case err := <-errCh:
			return fmt.Errorf("http server: %w", err)
		case <-ctx.Done():
			log.Info().Msg("shutdown signal received")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), svc.Config.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("http shutdown error")
		}
		log.Info().Msg("shutdown complete")
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides DEVTUTOR_HTTP_ADDR)")
}
