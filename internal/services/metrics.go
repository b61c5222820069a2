package services

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the business counters exported on /metrics. A nil *Metrics
// records nothing.
type Metrics struct {
	sessionsStarted   prometheus.Counter
	completions       *prometheus.CounterVec
	cookbookAssigned  *prometheus.CounterVec
	mailsSent         *prometheus.CounterVec
	subscriptionMoves *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		sessionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fullgorilla",
			Name:      "questionnaire_sessions_started_total",
			Help:      "Server-held questionnaire sessions opened.",
		}),
		completions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fullgorilla",
			Name:      "questionnaire_completions_total",
			Help:      "Completed questionnaires by account type and entry point.",
		}, []string{"account_type", "source"}),
		cookbookAssigned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fullgorilla",
			Name:      "cookbook_assignments_total",
			Help:      "Cookbooks granted by the recommendation step.",
		}, []string{"slug"}),
		mailsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fullgorilla",
			Name:      "mails_total",
			Help:      "Transactional mails by type and outcome.",
		}, []string{"type", "result"}),
		subscriptionMoves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fullgorilla",
			Name:      "subscription_changes_total",
			Help:      "Plan changes by target plan.",
		}, []string{"plan"}),
	}
	for _, c := range []prometheus.Collector{m.sessionsStarted, m.completions, m.cookbookAssigned, m.mailsSent, m.subscriptionMoves} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register business metric: %w", err)
		}
	}
	return m, nil
}

func (m *Metrics) SessionStarted() {
	if m == nil {
		return
	}
	m.sessionsStarted.Inc()
}

func (m *Metrics) Completed(accountType, source string, slugs []string) {
	if m == nil {
		return
	}
	m.completions.WithLabelValues(accountType, source).Inc()
	for _, s := range slugs {
		m.cookbookAssigned.WithLabelValues(s).Inc()
	}
}

func (m *Metrics) Mail(kind string, err error) {
	if m == nil {
		return
	}
	result := "sent"
	if err != nil {
		result = "failed"
	}
	m.mailsSent.WithLabelValues(kind, result).Inc()
}

func (m *Metrics) PlanChanged(plan string) {
	if m == nil {
		return
	}
	m.subscriptionMoves.WithLabelValues(plan).Inc()
}
