package metrics

import "github.com/prometheus/client_golang/prometheus"

// Outcome labels for DeletionsTotal.
const (
	OutcomeDeleted = "deleted"
	OutcomeGone    = "gone"
	OutcomeFailed  = "failed"
)

var (
	DeletionsScheduled = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "autodelete_deletions_scheduled_total", Help: "Deletion timers armed"},
	)
	DeletionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "autodelete_deletions_total", Help: "Fired deletion timers by outcome"},
		[]string{"outcome"},
	)
	ZeroDelaySuppressed = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "autodelete_zero_delay_suppressed_total", Help: "Zero-delay deletions suppressed"},
	)
	PendingDeletions = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "autodelete_pending_deletions", Help: "Currently armed deletion timers"},
	)
)

func MustRegister() {
	prometheus.MustRegister(DeletionsScheduled, DeletionsTotal, ZeroDelaySuppressed, PendingDeletions)
}
