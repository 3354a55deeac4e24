package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(pollTicksTotal, pollTransportErrorsTotal)
}

var pollTicksTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "viz_poll_ticks_total",
		Help: "Total number of status poll ticks issued.",
	},
)

var pollTransportErrorsTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "viz_poll_transport_errors_total",
		Help: "Total number of poll ticks skipped because of a transport failure.",
	},
)

func IncPollTick() { pollTicksTotal.Inc() }

func IncPollError() { pollTransportErrorsTotal.Inc() }
