package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(notificationsTotal)
}

var notificationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "viz_notifications_total",
		Help: "Notifications emitted, labeled by kind.",
	},
	[]string{"kind"}, // 'success', 'error', 'info'
)

func IncNotification(kind string) {
	notificationsTotal.WithLabelValues(norm(kind)).Inc()
}
