// Package metrics defines the service's Prometheus instrumentation.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "helloworld"

var (
	// ApplicationsSubmitted counts successful first-time submissions.
	ApplicationsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "applications_submitted_total",
		Help:      "Total applications created",
	})

	// ApplicationsUpdated counts successful partial updates.
	ApplicationsUpdated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "applications_updated_total",
		Help:      "Total application updates applied",
	})

	// StatusChanges counts admin status changes by target status.
	StatusChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "application_status_changes_total",
		Help:      "Total internal status changes by target status",
	}, []string{"status"})

	// ResumeUploads counts successful resume uploads (submit and update).
	ResumeUploads = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "resume_uploads_total",
		Help:      "Total resume files stored",
	})

	// ConfirmationEmails counts confirmation email outcomes ("sent"/"error").
	ConfirmationEmails = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "confirmation_emails_total",
		Help:      "Total confirmation email attempts by outcome",
	}, []string{"outcome"})

	// HTTPErrors counts HTTP errors by structured error type.
	HTTPErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_errors_total",
		Help:      "Total HTTP errors by error type",
	}, []string{"type"})
)

// Handler serves the default Prometheus registry, which includes the Go and
// process collectors alongside the counters above.
func Handler() http.Handler {
	return promhttp.Handler()
}
