package broadcast

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var listChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "storefront_list_changes_total",
		Help: "Total list mutations broadcast by the storefront service.",
	},
	[]string{"list", "kind"},
)

// MetricsHandler returns a subscriber that counts every change by list and kind.
func MetricsHandler() Handler {
	return func(change ListChange) {
		listChangesTotal.WithLabelValues(string(change.List), string(change.Kind)).Inc()
	}
}

// DebugLogHandler returns a subscriber that logs every change at debug level.
func DebugLogHandler(logger *slog.Logger) Handler {
	return func(change ListChange) {
		logger.Debug("list changed",
			slog.String("list", string(change.List)),
			slog.String("kind", string(change.Kind)),
			slog.String("session_id", change.SessionID),
			slog.String("item_key", change.ItemKey),
		)
	}
}
