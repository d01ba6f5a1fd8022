package broadcast

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	eventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clinic_broadcast_events_total",
		Help: "Total number of mutation events broadcast to observers.",
	}, []string{"type"})

	eventsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clinic_broadcast_events_dropped_total",
		Help: "Events dropped because an observer queue was full.",
	}, []string{"type"})

	observersConnected = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "clinic_observers_connected",
		Help: "Number of currently connected observers.",
	})
)
