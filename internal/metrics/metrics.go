// Package metrics exposes prometheus collectors for solve runs and replay clients.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/wricardo/mcp-training/rivercrossing/game/engine"
	"github.com/wricardo/mcp-training/rivercrossing/game/search"
)

const namespace = "rivercrossing"

// Outcome labels for solve runs.
const (
	OutcomeSolved     = "solved"
	OutcomeNoSolution = "no_solution"
	OutcomeLimit      = "limit"
	OutcomeError      = "error"
)

// Recorder holds the solver collectors. It implements service.SolveRecorder.
type Recorder struct {
	solves        *prometheus.CounterVec
	expanded      *prometheus.HistogramVec
	duration      *prometheus.HistogramVec
	cost          *prometheus.HistogramVec
	replayClients prometheus.Gauge
}

// NewRecorder registers the collectors with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		solves: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "solves_total",
			Help:      "Total solve runs by strategy and outcome",
		}, []string{"strategy", "outcome"}),

		expanded: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "expanded_states",
			Help:      "States expanded per solve run",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 16),
		}, []string{"strategy"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "solve_duration_seconds",
			Help:      "Solve run duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10), // 10µs to ~2.6s
		}, []string{"strategy"}),

		cost: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "solution_cost",
			Help:      "Crossings in found solutions",
			Buckets:   []float64{1, 3, 5, 7, 9, 11, 15, 21, 31},
		}, []string{"strategy"}),

		replayClients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "replay_clients",
			Help:      "Connected websocket replay clients",
		}),
	}
}

// RecordSolve records one finished run. sol may be nil when the run never started.
func (r *Recorder) RecordSolve(strategy search.Strategy, sol *engine.Solution, err error) {
	label := strategy.String()
	r.solves.WithLabelValues(label, Outcome(err)).Inc()
	if sol == nil {
		return
	}

	r.expanded.WithLabelValues(label).Observe(float64(sol.Expanded))
	r.duration.WithLabelValues(label).Observe(sol.Duration.Seconds())
	if sol.Found {
		r.cost.WithLabelValues(label).Observe(float64(sol.Cost))
	}
}

// SetReplayClients sets the number of connected replay clients.
func (r *Recorder) SetReplayClients(n int) {
	r.replayClients.Set(float64(n))
}

// Outcome classifies a solve error.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSolved
	case errors.Is(err, search.ErrNotFound):
		return OutcomeNoSolution
	case errors.Is(err, search.ErrExpansionLimit):
		return OutcomeLimit
	default:
		return OutcomeError
	}
}
