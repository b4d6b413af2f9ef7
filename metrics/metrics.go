// Package metrics exposes the three Prometheus series described for
// the trial harness: a counter of trials by outcome and two
// histograms. Recording never depends on whether an HTTP server is
// actually serving them — trialpool workers call Record* unconditionally.
// The check-graph and find-route subcommands do not run trials through
// trialpool and record nothing.
package metrics

import (
	"math/big"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	trialsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bgpsecsim_trials_total",
		Help: "Number of trials run, labeled by outcome.",
	}, []string{"outcome"})

	attackerSuccessRate = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "bgpsecsim_attacker_success_rate",
		Help:    "Distribution of attacker success rate across completed trials.",
		Buckets: prometheus.LinearBuckets(0, 0.1, 11),
	})

	trialDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "bgpsecsim_trial_duration_seconds",
		Help:    "Wall-clock duration of a single trial, from propagation to success-rate computation.",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(trialsTotal, attackerSuccessRate, trialDuration)
}

// Registry returns the default Prometheus gatherer, for
// cmd/bgpsecsim's metrics-serve subcommand to hand to promhttp.
func Registry() prometheus.Gatherer {
	return prometheus.DefaultGatherer
}

// RecordTrial increments the outcome counter and observes the trial's
// duration.
func RecordTrial(outcome string, d time.Duration) {
	trialsTotal.WithLabelValues(outcome).Inc()
	trialDuration.Observe(d.Seconds())
}

// RecordSuccessRate observes a completed trial's attacker success
// rate as a float64; the histogram trades the route-level exactness of
// big.Rat for the bucketed approximation Prometheus requires.
func RecordSuccessRate(rate *big.Rat) {
	if rate == nil {
		return
	}
	f, _ := rate.Float64()
	attackerSuccessRate.Observe(f)
}
