package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	SchedulesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mailsched_schedules_total",
			Help: "Schedule lifecycle counter by event",
		},
		[]string{"event"}, // created|deleted|sent
	)

	DeliveriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mailsched_deliveries_total",
			Help: "Delivery attempt outcomes per scan tick",
		},
		[]string{"result"}, // sent|failed|skipped_dup
	)

	PendingGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "mailsched_pending_schedules",
			Help: "Schedules currently waiting for dispatch",
		},
	)
)

func MustRegister(r prometheus.Registerer) {
	r.MustRegister(
		SchedulesTotal,
		DeliveriesTotal,
		PendingGauge,
	)
}
