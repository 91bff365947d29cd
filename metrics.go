package outbox

import "time"

// Metrics captures scheduler-level telemetry.
type Metrics interface {
	// ObserveSweepDuration records the time spent in one retry sweep.
	ObserveSweepDuration(duration time.Duration)
	// AddSent increments the count of successfully delivered records.
	AddSent(count int)
	// AddRetried increments the count of attempts rescheduled for retry.
	AddRetried(count int)
	// AddFailed increments the count of records that exhausted their retries.
	AddFailed(count int)
	// SetBacklog updates the current count of pending records.
	SetBacklog(count int)
}

// NopMetrics is a no-op metrics recorder.
type NopMetrics struct{}

// ObserveSweepDuration implements Metrics.
func (NopMetrics) ObserveSweepDuration(time.Duration) {}

// AddSent implements Metrics.
func (NopMetrics) AddSent(int) {}

// AddRetried implements Metrics.
func (NopMetrics) AddRetried(int) {}

// AddFailed implements Metrics.
func (NopMetrics) AddFailed(int) {}

// SetBacklog implements Metrics.
func (NopMetrics) SetBacklog(int) {}
