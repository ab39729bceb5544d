// Package metrics defines and registers all custom Prometheus metrics for the
// community API auth subsystem. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics are registered with the default Prometheus registry via promauto at
// package load time; the router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "community"

// ── Auth flow metrics ─────────────────────────────────────────────────────────

// RegistrationsTotal counts accounts created through /auth/register.
var RegistrationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_registrations_total",
		Help:      "Total number of successfully registered accounts.",
	},
)

// LoginsTotal counts login attempts by outcome.
// Label:
//   - result: "success", "invalid_credentials", or "unverified"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_logins_total",
		Help:      "Total number of login attempts, labelled by result.",
	},
	[]string{"result"},
)

// VerificationsTotal counts email verification attempts by outcome.
// Label:
//   - result: "verified", "invalid", "expired", or "already_verified"
var VerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_verifications_total",
		Help:      "Total number of email verification attempts, labelled by result.",
	},
	[]string{"result"},
)

// PasswordResetsTotal counts completed password resets.
var PasswordResetsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_password_resets_total",
		Help:      "Total number of completed password resets.",
	},
)

// ── Token metrics ─────────────────────────────────────────────────────────────

// TokensIssuedTotal counts signed tokens minted by the token service.
// Label:
//   - type: "access" or "refresh"
var TokensIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_tokens_issued_total",
		Help:      "Total number of signed tokens issued, labelled by type.",
	},
	[]string{"type"},
)

// ── Mail metrics ──────────────────────────────────────────────────────────────

// EmailsSentTotal counts notifications delivered by the mail dispatcher.
// Label:
//   - template: notification template name (e.g. "verification")
var EmailsSentTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "emails_sent_total",
		Help:      "Total number of notification emails delivered, labelled by template.",
	},
	[]string{"template"},
)

// EmailsFailedTotal counts notifications that failed delivery. Failures are
// logged and swallowed; the originating flow still succeeds.
// Label:
//   - template: notification template name
var EmailsFailedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "emails_failed_total",
		Help:      "Total number of notification emails that failed delivery, labelled by template.",
	},
	[]string{"template"},
)
