package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	httpadapter "github.com/vishwajitjha79-spec/TESSA-AI/internal/adapters/http"
	"github.com/vishwajitjha79-spec/TESSA-AI/internal/adapters/speech"
	"github.com/vishwajitjha79-spec/TESSA-AI/internal/observability"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the JSON HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.load(false); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, c.cfg, speech.LogSpeaker{})
			if err != nil {
				return err
			}
			defer a.Close()

			handler := httpadapter.NewServer(a.svc,
				httpadapter.WithRateLimit(c.cfg.RateLimitRPS, c.cfg.RateLimitBurst),
			)
			return serve(ctx, ":"+c.cfg.Port, handler)
		},
	}

	cmd.Flags().String("port", "", "listen port")
	_ = c.v.BindPFlag("port", cmd.Flags().Lookup("port"))
	return cmd
}

// serve runs the server until ctx is cancelled, then shuts it down gracefully.
func serve(ctx context.Context, addr string, handler http.Handler) error {
	log := observability.Logger()

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("tessa API listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
