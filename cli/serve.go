package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/stevemurr/simple-user-table/handler"
	"github.com/stevemurr/simple-user-table/seed"
	"github.com/stevemurr/simple-user-table/session"
)

func newServeCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the table over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags.configFile, cmd.Flags())
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, cmd)
		},
	}
	cmd.Flags().String("host", "0.0.0.0", "listen host")
	cmd.Flags().Int("port", 8080, "listen port")
	cmd.Flags().String("allowed-origins", "*", "comma-separated CORS origins")
	cmd.Flags().Duration("session-ttl", 30*time.Minute, "end sessions idle this long (0 keeps them forever)")
	cmd.Flags().Duration("sweep-interval", time.Minute, "how often idle sessions are checked")
	return cmd
}

func serve(ctx context.Context, cfg Config, cmd *cobra.Command) error {
	logger := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)

	records, err := seed.Load(cfg.SeedFile)
	if err != nil {
		return err
	}
	sessions := session.NewManager(session.Options{
		Backend: cfg.Store,
		Seed:    records,
		TTL:     cfg.SessionTTL,
		Logger:  logger,
	})
	defer sessions.Close()

	// Fail fast on a bad backend instead of on the first request.
	probe, err := sessions.NewApp()
	if err != nil {
		return fmt.Errorf("create store (backend=%s): %w", cfg.Store, err)
	}
	probe.Close()

	go sessions.Run(ctx, cfg.SweepInterval)

	h := handler.New(sessions, logger)
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler.Logging(handler.CORS(h, cfg.AllowedOrigins), logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("usertable starting", "addr", cfg.Addr(), "store", cfg.Store, "seed", len(records))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("usertable shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
