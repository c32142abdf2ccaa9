// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	frameflow "github.com/frameflow/frameflow"
)

// Collector aggregates activity counters for Prometheus scraping.
// It implements frameflow.ActivitySink so it can be plugged straight
// into the authenticator and interaction services.
type Collector struct {
	loginSuccess    prometheus.Counter
	loginFailure    prometheus.Counter
	usersRegistered prometheus.Counter
	togglesApplied  *prometheus.CounterVec
	togglesRejected prometheus.Counter
	notifsEmitted   *prometheus.CounterVec
	notifsRetracted *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		loginSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "frameflow_login_success_total",
			Help: "Total number of successful logins.",
		}),
		loginFailure: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "frameflow_login_failure_total",
			Help: "Total number of failed login attempts.",
		}),
		usersRegistered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "frameflow_users_registered_total",
			Help: "Total number of registered users.",
		}),
		togglesApplied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "frameflow_toggles_applied_total",
			Help: "Total number of applied set toggles, by action and kind.",
		}, []string{"action", "kind"}),
		togglesRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "frameflow_toggles_rejected_total",
			Help: "Total number of rejected ambiguous toggles.",
		}),
		notifsEmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "frameflow_notifications_emitted_total",
			Help: "Total number of emitted notifications, by action.",
		}, []string{"action"}),
		notifsRetracted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "frameflow_notifications_retracted_total",
			Help: "Total number of retracted notifications, by action.",
		}, []string{"action"}),
	}

	reg.MustRegister(
		c.loginSuccess,
		c.loginFailure,
		c.usersRegistered,
		c.togglesApplied,
		c.togglesRejected,
		c.notifsEmitted,
		c.notifsRetracted,
	)

	return c
}

// Record implements frameflow.ActivitySink.
func (c *Collector) Record(_ context.Context, event frameflow.ActivityEvent) {
	switch event.EventType {
	case frameflow.ActivityEventLoginSuccess:
		c.loginSuccess.Inc()
	case frameflow.ActivityEventLoginFailure:
		c.loginFailure.Inc()
	case frameflow.ActivityEventUserRegistered:
		c.usersRegistered.Inc()
	case frameflow.ActivityEventToggleApplied:
		c.togglesApplied.WithLabelValues(event.Action, event.ToggleKind.String()).Inc()
	case frameflow.ActivityEventToggleRejected:
		c.togglesRejected.Inc()
	case frameflow.ActivityEventNotificationEmitted:
		c.notifsEmitted.WithLabelValues(event.Action).Inc()
	case frameflow.ActivityEventNotificationRetracted:
		c.notifsRetracted.WithLabelValues(event.Action).Inc()
	}
}

var _ frameflow.ActivitySink = (*Collector)(nil)

// Handler returns the HTTP handler serving Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
