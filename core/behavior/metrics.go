package behavior

import "github.com/codewandler/bhvr-go/core/metrics"

// BehaviorMetrics defines the metrics interface for the behavior pillar.
// All methods are thread-safe.
type BehaviorMetrics interface {
	// Switching
	TransitionDuration(kind string) metrics.Timer
	TransitionCompleted(kind string, success bool)
	StackDepth(depth int)

	// Message dispatch
	MessageProcessed(msgType string, success bool)
}

// nopBehaviorMetrics is a no-op implementation of BehaviorMetrics.
type nopBehaviorMetrics struct{}

func (nopBehaviorMetrics) TransitionDuration(string) metrics.Timer { return metrics.NopTimer() }
func (nopBehaviorMetrics) TransitionCompleted(string, bool)        {}
func (nopBehaviorMetrics) StackDepth(int)                          {}

func (nopBehaviorMetrics) MessageProcessed(string, bool) {}

// NopBehaviorMetrics returns a no-op BehaviorMetrics implementation.
func NopBehaviorMetrics() BehaviorMetrics { return nopBehaviorMetrics{} }
