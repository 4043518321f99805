package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/codewandler/bhvr-go/core/behavior"
	"github.com/codewandler/bhvr-go/core/metrics"
)

// behaviorMetrics implements behavior.BehaviorMetrics using Prometheus.
type behaviorMetrics struct {
	transitionDuration *prometheus.HistogramVec
	transitionsTotal   *prometheus.CounterVec
	stackDepth         prometheus.Gauge
	messagesTotal      *prometheus.CounterVec
}

// NewBehaviorMetrics creates a new Prometheus implementation of
// behavior.BehaviorMetrics.
func NewBehaviorMetrics(reg prometheus.Registerer) behavior.BehaviorMetrics {
	m := &behaviorMetrics{
		transitionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bhvr_transition_duration_seconds",
			Help:    "Full hook sequence time per behavior switch in seconds",
			Buckets: defaultBuckets,
		}, []string{"kind"}),

		transitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bhvr_transitions_total",
			Help: "Total number of behavior switches attempted",
		}, []string{"kind", "success"}),

		stackDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bhvr_stack_depth",
			Help: "Outstanding stacked switches not yet matched by unbecome",
		}),

		messagesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bhvr_messages_total",
			Help: "Total number of messages dispatched to behavior states",
		}, []string{"message_type", "success"}),
	}

	reg.MustRegister(
		m.transitionDuration,
		m.transitionsTotal,
		m.stackDepth,
		m.messagesTotal,
	)

	return m
}

func (m *behaviorMetrics) TransitionDuration(kind string) metrics.Timer {
	return newTimer(m.transitionDuration.WithLabelValues(kind))
}

func (m *behaviorMetrics) TransitionCompleted(kind string, success bool) {
	m.transitionsTotal.WithLabelValues(kind, boolToStr(success)).Inc()
}

func (m *behaviorMetrics) StackDepth(depth int) {
	m.stackDepth.Set(float64(depth))
}

func (m *behaviorMetrics) MessageProcessed(msgType string, success bool) {
	m.messagesTotal.WithLabelValues(msgType, boolToStr(success)).Inc()
}

var _ behavior.BehaviorMetrics = (*behaviorMetrics)(nil)
