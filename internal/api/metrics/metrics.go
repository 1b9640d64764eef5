// Package metrics defines and registers the custom Prometheus metrics of the
// staff portal. It is the single source of truth for metric names, labels and
// help strings. Metrics register with the default registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// ── Login metrics ─────────────────────────────────────────────────────────────

// LoginSubmissionsTotal counts login form submissions.
// Label:
//   - outcome: "missing_fields", "signed_in", "failed" or "ignored"
var LoginSubmissionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_submissions_total",
		Help:      "Total number of login form submissions, by outcome.",
	},
	[]string{"outcome"},
)

// CredentialVerificationsTotal counts answers given by the credential endpoint.
// Label:
//   - result: "verified", "rejected" or "error"
var CredentialVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "credential_verifications_total",
		Help:      "Total number of credential verifications answered by the credential endpoint.",
	},
	[]string{"result"},
)

// CredentialVerificationDuration measures the verifier round-trip as seen by
// the login form.
var CredentialVerificationDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "credential_verification_duration_seconds",
		Help:      "Duration of login submissions that reached the credential verifier.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ── Access metrics ────────────────────────────────────────────────────────────

// GuardDecisionsTotal counts access guard evaluations.
// Labels:
//   - destination: destination name (e.g. "admin-home")
//   - outcome: "authorized", "unauthenticated" or "forbidden_but_authenticated"
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of access guard decisions, by destination and outcome.",
	},
	[]string{"destination", "outcome"},
)

// SignOutsTotal counts explicit sign-outs.
var SignOutsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sign_outs_total",
		Help:      "Total number of sessions signed out.",
	},
)
