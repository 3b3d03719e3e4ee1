// Package metrics exposes runtime counters of the robot tasks.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "linesumo"

var (
	// FramesTotal counts radio frames by direction and result.
	FramesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "radio_frames_total",
			Help:      "Radio frames by direction and result",
		},
		[]string{"dir", "result"}, // dir: rx/tx, result: ok/dropped/dup/error
	)

	// RetriesTotal counts frame retransmissions.
	RetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "radio_retries_total",
			Help:      "Radio frames sent again for a missing ack",
		},
	)

	// CommandsTotal counts executed shell commands.
	CommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Shell commands by group and status",
		},
		[]string{"group", "status"},
	)

	// Running reports 1 while a behavior is running.
	Running = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "behavior_running",
			Help:      "1 if the behavior is running",
		},
		[]string{"behavior"},
	)
)

// Frame results.
const (
	ResultOK      = "ok"
	ResultDropped = "dropped"
	ResultDup     = "dup"
	ResultError   = "error"
	ResultExpired = "expired"
)

// RecordFrame counts a frame.
func RecordFrame(dir, result string) {
	FramesTotal.WithLabelValues(dir, result).Inc()
}

// RecordCommand counts a shell command.
func RecordCommand(group string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	CommandsTotal.WithLabelValues(group, status).Inc()
}

// SetRunning updates the running gauge of a behavior.
func SetRunning(behavior string, running bool) {
	var v float64
	if running {
		v = 1
	}
	Running.WithLabelValues(behavior).Set(v)
}
