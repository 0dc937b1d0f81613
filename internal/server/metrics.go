package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ayusman/tinsel/internal/state"
)

var (
	framesRendered = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tinsel",
		Name:      "frames_rendered_total",
		Help:      "Number of scene frames computed by the render loop.",
	})

	sceneClients = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "tinsel",
		Name:      "scene_clients",
		Help:      "Number of renderer clients connected to the scene stream.",
	})

	modeTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tinsel",
		Name:      "mode_transitions_total",
		Help:      "Number of interaction mode transitions, labelled by new mode.",
	}, []string{"mode"})
)

// observeTransitions counts mode changes on the given machine.
func observeTransitions(m *state.Machine) {
	m.OnTransition(func(mode state.Mode) {
		modeTransitions.WithLabelValues(string(mode)).Inc()
	})
}
