package events

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// LogSubscriber writes every event to slog, one line per notification.
type LogSubscriber struct{}

// Handle implements Subscriber.
func (LogSubscriber) Handle(ev Event) {
	switch ev.Kind {
	case PersonRegistered:
		slog.Info("person registered", "event_id", ev.ID, "identity", ev.Identity, "name", ev.Name)
	case PersonRenamed:
		slog.Info("person renamed", "event_id", ev.ID, "identity", ev.Identity, "new_name", ev.Name)
	case ExpenseAdded:
		slog.Info("expense added", "event_id", ev.ID, "expense_id", ev.ExpenseID, "label", ev.Label)
	case DebtSettled:
		slog.Info("debt settled", "event_id", ev.ID, "from", ev.From, "to", ev.To, "amount", ev.Amount)
	default:
		slog.Warn("unknown event kind", "event_id", ev.ID, "kind", ev.Kind)
	}
}

// MetricsSubscriber counts emitted notifications per kind.
type MetricsSubscriber struct {
	emitted *prometheus.CounterVec
}

// NewMetricsSubscriber registers the event counters on reg and returns the
// subscriber.
func NewMetricsSubscriber(reg prometheus.Registerer) *MetricsSubscriber {
	m := &MetricsSubscriber{
		emitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "splitbase_events_emitted_total",
			Help: "Notifications emitted by the ledger, by kind.",
		}, []string{"kind"}),
	}
	reg.MustRegister(m.emitted)
	return m
}

// Handle implements Subscriber.
func (m *MetricsSubscriber) Handle(ev Event) {
	m.emitted.WithLabelValues(string(ev.Kind)).Inc()
}
