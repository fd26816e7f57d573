// Package metrics registers the Prometheus series the engine updates while
// running:
//   - offerbot_passes_total{result}        – engine passes by outcome (ok|partial)
//   - offerbot_pass_duration_seconds       – duration of the last pass
//   - offerbot_market_errors_total{market,kind} – per-market skips and failures
//   - offerbot_actions_total{market,type}  – order actions emitted (place|replace|cancel|noop)
//
// Served at /metrics in Prometheus text exposition format.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lumenmm/offerbot/internal/utils"
)

var (
	Passes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "offerbot_passes_total",
			Help: "Engine passes by outcome",
		},
		[]string{"result"},
	)

	PassDuration = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "offerbot_pass_duration_seconds",
			Help: "Duration of the last engine pass",
		},
	)

	MarketErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "offerbot_market_errors_total",
			Help: "Per-market skips and failures",
		},
		[]string{"market", "kind"},
	)

	Actions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "offerbot_actions_total",
			Help: "Order actions emitted by the reconciler",
		},
		[]string{"market", "type"},
	)
)

func init() {
	prometheus.MustRegister(Passes, PassDuration, MarketErrors, Actions)
}

// Serve exposes /metrics on addr. It blocks, so callers run it in a
// goroutine; listen failures are logged, not fatal.
func Serve(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		utils.GetLogger().Printf("Metrics | listener failed: %v", err)
	}
}
