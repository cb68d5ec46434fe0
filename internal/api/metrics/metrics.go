// Package metrics defines and registers the custom Prometheus metrics of the
// vendor admin API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation; HTTP request metrics come from echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "vendor_admin"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "user_not_found", "disabled", "invalid_input" or "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// SignupsTotal counts signup attempts.
// Labels:
//   - role: requested role, "unknown" when the input never validated
//   - result: "success", "exists", "invalid_input" or "error"
var SignupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of signup attempts, by role and result.",
	},
	[]string{"role", "result"},
)

// TokenRejectionsTotal counts requests refused by the auth guard.
// Label:
//   - reason: "missing", "expired", "signature", "malformed", "claims", "invalid" or "forbidden"
var TokenRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_rejections_total",
		Help:      "Total number of requests rejected by authentication or role checks.",
	},
	[]string{"reason"},
)

// ── License metrics ───────────────────────────────────────────────────────────

// LicenseApprovalsTotal counts approval attempts.
// Label:
//   - result: "approved", "not_found", "conflict" or "error"
var LicenseApprovalsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "license_approvals_total",
		Help:      "Total number of license approval attempts, by result.",
	},
	[]string{"result"},
)

// LicenseApprovalDuration measures the approval transaction end to end,
// including time spent waiting on the request row lock.
var LicenseApprovalDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "license_approval_duration_seconds",
		Help:      "Duration of the license approval transaction.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"result"},
)

// LicenseRequestsTotal counts license requests opened by vendors.
var LicenseRequestsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "license_requests_total",
		Help:      "Total number of license requests submitted.",
	},
)
