// Package telemetry provides Prometheus metrics for the refresh loop, the command
// handlers and the stats API, and an optional listener to expose them.
package telemetry

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	once sync.Once

	// Counters
	RefreshCycles     prometheus.Counter
	RenameFailures    *prometheus.CounterVec // by channel
	CommandsTotal     *prometheus.CounterVec // by command, outcome
	StatsApiResponses *prometheus.CounterVec // by status code

	// Gauges
	MemberCounts *prometheus.GaugeVec // by category

	// Histograms (seconds)
	RefreshDuration prometheus.Observer
)

// Init registers metrics (idempotent).
func Init() {
	once.Do(func() {
		RefreshCycles = promauto.NewCounter(prometheus.CounterOpts{Name: "statbot_refresh_cycles_total", Help: "Number of statistics refresh cycles run"})
		RenameFailures = promauto.NewCounterVec(prometheus.CounterOpts{Name: "statbot_rename_failures_total", Help: "Number of failed statistics channel renames"}, []string{"channel"})
		CommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{Name: "statbot_commands_total", Help: "Number of commands handled"}, []string{"command", "outcome"})
		StatsApiResponses = promauto.NewCounterVec(prometheus.CounterOpts{Name: "statbot_stats_api_responses_total", Help: "Responses received from the stats API"}, []string{"code"})
		MemberCounts = promauto.NewGaugeVec(prometheus.GaugeOpts{Name: "statbot_member_count", Help: "Member counts computed by the last refresh cycle"}, []string{"category"})
		RefreshDuration = promauto.NewHistogram(prometheus.HistogramOpts{Name: "statbot_refresh_duration_seconds", Help: "Refresh cycle duration seconds", Buckets: prometheus.DefBuckets})
	})
}

// ObserveCycle records one refresh cycle and the counts it computed.
func ObserveCycle(counts map[string]int, d time.Duration) {
	if RefreshCycles == nil {
		return
	}
	RefreshCycles.Inc()
	RefreshDuration.Observe(d.Seconds())
	for category, count := range counts {
		MemberCounts.WithLabelValues(category).Set(float64(count))
	}
}

// RenameFailed records a failed rename of the given channel.
func RenameFailed(channel string) {
	if RenameFailures != nil {
		RenameFailures.WithLabelValues(channel).Inc()
	}
}

// CommandHandled records the outcome of one command invocation.
func CommandHandled(command, outcome string) {
	if CommandsTotal != nil {
		CommandsTotal.WithLabelValues(command, outcome).Inc()
	}
}

// StatsApiResponse is a common.Observer for the stats API proxy.
func StatsApiResponse(code int) {
	if StatsApiResponses != nil {
		StatsApiResponses.WithLabelValues(strconv.Itoa(code)).Inc()
	}
}

// Serve exposes /metrics on addr until ctx is done. An empty addr disables it.
func Serve(ctx context.Context, addr string) error {
	if addr == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", addr).Msg("Serving metrics")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
