package commands

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	wiremetrics "github.com/dantte-lp/pubsubwire/internal/metrics"
)

// newMetricsCollector builds a fresh registry and Collector for a one-shot
// CLI invocation. Each process owns exactly one; it never shares a
// registry with "replay serve".
func newMetricsCollector() (*prometheus.Registry, *wiremetrics.Collector) {
	reg := prometheus.NewRegistry()
	return reg, wiremetrics.NewCollector(reg)
}

// serveMetricsUntilSignal exposes reg on addr and blocks until SIGINT or
// SIGTERM, giving an operator a window to scrape a one-shot command's
// counters before the process exits.
func serveMetricsUntilSignal(addr string, reg *prometheus.Registry) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}
	return listenAndServeMetrics(ctx, srv)
}
