// Package obs holds the Prometheus metrics shared by the terminal subsystem.
package obs

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	loginAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "darkterminal_login_attempts_total",
			Help: "Terminal login attempts by outcome (granted, denied, locked_out).",
		},
		[]string{"outcome"},
	)

	failuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "darkterminal_failures_total",
			Help: "Failure consequences fired, by failure kind.",
		},
		[]string{"kind"},
	)

	actionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "darkterminal_actions_total",
			Help: "Terminal actions executed, by action kind.",
		},
		[]string{"action"},
	)

	sessionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "darkterminal_sessions_total",
		Help: "Terminal sessions started.",
	})

	registerOnce sync.Once
)

// Login outcome labels
const (
	OutcomeGranted   = "granted"
	OutcomeDenied    = "denied"
	OutcomeLockedOut = "locked_out"
)

// Init registers the metrics in the default registry. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(loginAttemptsTotal, failuresTotal, actionsTotal, sessionsTotal)
	})
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// LoginAttempt counts one login attempt with the given outcome label.
func LoginAttempt(outcome string) {
	loginAttemptsTotal.WithLabelValues(outcome).Inc()
}

// FailureFired counts one fired failure consequence.
func FailureFired(kind string) {
	failuresTotal.WithLabelValues(kind).Inc()
}

// ActionRun counts one executed action.
func ActionRun(action string) {
	actionsTotal.WithLabelValues(action).Inc()
}

// SessionStarted counts one terminal session.
func SessionStarted() {
	sessionsTotal.Inc()
}
