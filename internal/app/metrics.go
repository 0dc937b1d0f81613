package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	framesCaptured = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tinsel",
		Name:      "frames_captured_total",
		Help:      "Number of camera frames read by the capture pipeline.",
	})

	signalsClassified = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tinsel",
		Name:      "signals_classified_total",
		Help:      "Number of gesture signals fed to the state machine.",
	})
)
