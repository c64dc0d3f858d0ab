package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ewilliams-labs/soundcheck/internal/adapters/postgrest"
	"github.com/ewilliams-labs/soundcheck/internal/adapters/rest"
	"github.com/ewilliams-labs/soundcheck/internal/adapters/sqlite"
	"github.com/ewilliams-labs/soundcheck/internal/config"
	"github.com/ewilliams-labs/soundcheck/internal/core/ports"
	"github.com/ewilliams-labs/soundcheck/internal/core/services"
	"github.com/ewilliams-labs/soundcheck/internal/logging"
)

const readHeaderTimeout = 15 * time.Second

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	return &cobra.Command{
		Use:   "serve",
		Short: "Run the catalog HTTP API",
		Long: `Run the catalog HTTP API until interrupted.

SIGINT or SIGTERM stops accepting connections and waits up to the configured
shutdown timeout for in-flight requests.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, opts)
		},
	}
}

func runServe(ctx context.Context, opts *ServeOptions) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	logCloser, err := initLogging(cfg.Logging)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	store, storeCloser, err := openStore(cfg.Store)
	if err != nil {
		return err
	}
	defer storeCloser.Close()

	handler := rest.NewHandler(services.NewCatalog(store), rest.Options{
		CORSOrigins: cfg.Server.CORSOrigins,
	})

	return serveHTTP(ctx, &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}, cfg.Server.ShutdownTimeout)
}

// serveHTTP runs srv until ctx is done, then shuts it down gracefully.
func serveHTTP(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logging.Info().Str("addr", srv.Addr).Msg("soundcheck API listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen on %s: %w", srv.Addr, err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logging.Info().Msg("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// openStore builds the configured backend. The closer releases any
// resources it holds.
func openStore(cfg config.StoreConfig) (ports.QueryClient, io.Closer, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		adapter, err := sqlite.NewAdapter(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		logging.Info().Str("driver", cfg.Driver).Str("path", cfg.SQLitePath).Msg("catalog store opened")
		return adapter, adapter, nil
	case config.DriverPostgREST:
		client, err := postgrest.NewClient(postgrest.Config{
			URL:     cfg.URL,
			APIKey:  cfg.APIKey,
			Timeout: cfg.Timeout,
		})
		if err != nil {
			return nil, nil, err
		}
		logging.Info().Str("driver", cfg.Driver).Str("url", cfg.URL).Msg("catalog store configured")
		return client, nopCloser{}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func initLogging(cfg config.LoggingConfig) (io.Closer, error) {
	lc := logging.DefaultConfig()
	lc.Level = cfg.Level
	lc.Format = cfg.Format
	lc.File = cfg.File
	if cfg.MaxSizeMB > 0 {
		lc.MaxSizeMB = cfg.MaxSizeMB
	}
	if cfg.MaxBackups > 0 {
		lc.MaxBackups = cfg.MaxBackups
	}
	if cfg.MaxAgeDays > 0 {
		lc.MaxAgeDays = cfg.MaxAgeDays
	}
	return logging.Init(lc)
}
