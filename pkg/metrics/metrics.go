// Package metrics exposes Prometheus counters for the contact pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Submission outcomes.
const (
	OutcomeAccepted    = "accepted"
	OutcomeRejected    = "rejected"
	OutcomeUnavailable = "unavailable"
	OutcomeError       = "error"
)

// Store names and results.
const (
	StorePrimary = "primary"
	StoreBackup  = "backup"

	ResultOK      = "ok"
	ResultFailed  = "failed"
	ResultSkipped = "skipped"
)

var (
	submissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "contact_submissions_total",
		Help: "Contact form submissions by outcome.",
	}, []string{"outcome"})

	storeWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "contact_store_writes_total",
		Help: "Writes to the primary and backup stores by result.",
	}, []string{"store", "result"})

	notifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "contact_notifications_total",
		Help: "Owner notification attempts by result.",
	}, []string{"result"})
)

func Submission(outcome string) {
	submissions.WithLabelValues(outcome).Inc()
}

func StoreWrite(store string, ok bool) {
	result := ResultOK
	if !ok {
		result = ResultFailed
	}
	storeWrites.WithLabelValues(store, result).Inc()
}

func Notification(result string) {
	notifications.WithLabelValues(result).Inc()
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
