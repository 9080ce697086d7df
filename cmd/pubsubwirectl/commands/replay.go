package commands

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	wiremetrics "github.com/dantte-lp/pubsubwire/internal/metrics"
	"github.com/dantte-lp/pubsubwire/internal/pubsubauth/replay"
)

// replayStoreSizePollInterval is how often "replay serve" samples the row
// count into the replay_store_size gauge.
const replayStoreSizePollInterval = 5 * time.Second

// shutdownTimeout bounds how long the metrics server waits to drain active
// connections during graceful shutdown.
const shutdownTimeout = 10 * time.Second

func replayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Run a standalone replay store",
	}
	cmd.AddCommand(replayServeCmd())
	return cmd
}

func replayServeCmd() *cobra.Command {
	var dbPath, metricsAddr string
	var tokenLifetime, cleanupBatchDelay time.Duration

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a SQLite-backed replay store with its reaper and metrics endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

			store := replay.NewSQLiteStore(dbPath, tokenLifetime, cleanupBatchDelay)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := store.Setup(ctx); err != nil {
				return fmt.Errorf("set up replay store: %w", err)
			}
			defer func() {
				if err := store.Teardown(context.Background()); err != nil {
					logger.Error("replay store teardown failed", slog.String("error", err.Error()))
				}
			}()

			reg := prometheus.NewRegistry()
			collector := wiremetrics.NewCollector(reg)

			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
			metricsSrv := &http.Server{Addr: metricsAddr, Handler: mux}

			g, gCtx := errgroup.WithContext(ctx)

			g.Go(func() error {
				logger.Info("replay store metrics listening", slog.String("addr", metricsAddr))
				return listenAndServeMetrics(gCtx, metricsSrv)
			})

			g.Go(func() error {
				return pollReplaySize(gCtx, store, collector)
			})

			logger.Info("replay store serving",
				slog.String("db_path", dbPath),
				slog.Duration("token_lifetime", tokenLifetime),
			)

			if err := g.Wait(); err != nil && gCtx.Err() == nil {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "sqlite database path")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", ":9100", "metrics HTTP listen address")
	cmd.Flags().DurationVar(&tokenLifetime, "token-lifetime", 5*time.Minute, "acceptance window, also the reaper's expiry horizon")
	cmd.Flags().DurationVar(&cleanupBatchDelay, "cleanup-batch-delay", 10*time.Second, "minimum spacing between reaper sweeps")
	cmd.MarkFlagRequired("db")
	return cmd
}

// listenAndServeMetrics runs srv until ctx is canceled, then shuts it down
// gracefully.
func listenAndServeMetrics(ctx context.Context, srv *http.Server) error {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", srv.Addr, err)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	}
}

// pollReplaySize samples the SQLite row count into the metrics gauge until
// ctx is canceled.
func pollReplaySize(ctx context.Context, store *replay.SQLiteStore, collector *wiremetrics.Collector) error {
	ticker := time.NewTicker(replayStoreSizePollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			n, err := store.CountRows(ctx)
			if err != nil {
				continue
			}
			collector.SetReplayStoreSize(float64(n))
		}
	}
}
