package metrics

import (
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Package-level Prometheus collectors. They are registered via Register.
var (
	regOK atomic.Bool

	Cycles = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "haltwatch",
			Subsystem: "poller",
			Name:      "cycles_total",
			Help:      "Number of completed poll cycles.",
		},
	)
	FeedErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "haltwatch",
			Subsystem: "poller",
			Name:      "feed_errors_total",
			Help:      "Number of cycles whose feed fetch or parse failed.",
		},
	)
	Events = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "haltwatch",
			Subsystem: "events",
			Name:      "processed_total",
			Help:      "Number of new feed events processed, by type.",
		}, []string{"type"},
	)
	Duplicates = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "haltwatch",
			Subsystem: "events",
			Name:      "duplicates_total",
			Help:      "Number of feed entries skipped as already seen.",
		},
	)
	ResumesScheduled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "haltwatch",
			Subsystem: "resumes",
			Name:      "scheduled_total",
			Help:      "Number of synthetic resumes scheduled.",
		},
	)
	ResumesFired = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "haltwatch",
			Subsystem: "resumes",
			Name:      "fired_total",
			Help:      "Number of synthetic resumes fired at their due time.",
		},
	)
	ResumesCancelled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "haltwatch",
			Subsystem: "resumes",
			Name:      "cancelled_total",
			Help:      "Number of synthetic resumes cancelled by a live resume.",
		},
	)
	NotifyFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "haltwatch",
			Subsystem: "notify",
			Name:      "failures_total",
			Help:      "Number of notification deliveries that failed.",
		},
	)
	SeenKeys = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "haltwatch",
			Subsystem: "state",
			Name:      "seen_keys",
			Help:      "Identity keys currently retained in the dedup set.",
		},
	)
	PendingResumes = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "haltwatch",
			Subsystem: "state",
			Name:      "pending_resumes",
			Help:      "Synthetic resumes currently awaiting their due time.",
		},
	)
)

// Register registers all metrics with the provided registerer.
// It is safe to call multiple times; subsequent calls after success are no-ops.
func Register(r prometheus.Registerer) error {
	if regOK.Load() {
		return nil
	}

	collectors := []prometheus.Collector{
		Cycles,
		FeedErrors,
		Events,
		Duplicates,
		ResumesScheduled,
		ResumesFired,
		ResumesCancelled,
		NotifyFailures,
		SeenKeys,
		PendingResumes,
	}
	for _, c := range collectors {
		if err := r.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if !errors.As(err, &are) {
				return err
			}
		}
	}

	regOK.Store(true)
	return nil
}

// Handler returns the HTTP handler serving the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
