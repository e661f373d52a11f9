// Package metrics defines and registers the custom Prometheus metrics of the
// casework API. It is the single source of truth for metric names, labels and
// help strings. Metrics register with the default registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "casework"

// ── HTTP ──────────────────────────────────────────────────────────────────────

// HTTPRequestsTotal counts handled requests.
// Labels: method, route (echo path template), code.
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests handled.",
	},
	[]string{"method", "route", "code"},
)

// HTTPRequestDuration measures request latency per route.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)

// ── Applications ──────────────────────────────────────────────────────────────

// ApplicationsCreatedTotal counts new applications by application type code.
var ApplicationsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "applications_created_total",
		Help:      "Total number of applications created, by application type.",
	},
	[]string{"type"},
)

// StatusTransitionsTotal counts committed status transitions.
// Labels:
//   - from: previous status
//   - to:   new status
var StatusTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "status_transitions_total",
		Help:      "Total number of application status transitions.",
	},
	[]string{"from", "to"},
)

// TransitionConflictsTotal counts transitions rejected by the version check.
var TransitionConflictsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "status_transition_conflicts_total",
		Help:      "Total number of status transitions that lost an optimistic version race.",
	},
)

// ── Documents ─────────────────────────────────────────────────────────────────

// DocumentsReviewedTotal counts review decisions by resulting status.
var DocumentsReviewedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "documents_reviewed_total",
		Help:      "Total number of document reviews, by resulting status.",
	},
	[]string{"status"},
)

// UploadURLsIssuedTotal counts presigned upload URLs, labelled by result (ok/error).
var UploadURLsIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upload_urls_issued_total",
		Help:      "Total number of presigned upload URL requests, by result.",
	},
	[]string{"result"},
)

// ── Audit & identity ──────────────────────────────────────────────────────────

// AuditWriteFailuresTotal counts audit entries that could not be stored.
var AuditWriteFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_write_failures_total",
		Help:      "Total number of audit entries dropped because the write failed.",
	},
	[]string{"action"},
)

// LoginsTotal counts login attempts, labelled by result (ok/denied).
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Bookings & notifications ──────────────────────────────────────────────────

// BookingsCreatedTotal counts bookings, labelled by result (ok/full).
var BookingsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bookings_created_total",
		Help:      "Total number of booking attempts, by result.",
	},
	[]string{"result"},
)

// NotificationsQueueDepth tracks pending notifications per dispatcher worker.
var NotificationsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notifications_queue_depth",
		Help:      "Current number of notifications waiting in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// NotificationsDispatchedTotal counts notification writes, labelled by result.
var NotificationsDispatchedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_dispatched_total",
		Help:      "Total number of notifications persisted by the dispatcher, by result.",
	},
	[]string{"result"},
)
