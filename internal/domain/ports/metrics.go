package ports

import (
	"time"

	"github.com/fitpulse/showcase/internal/domain/entities"
)

// CounterSource supplies the most recent render backend counters.
// Implementations return an UnsupportedEnvironmentError when no render
// backend has reported yet; the sampler then falls back to zeros.
type CounterSource interface {
	Counters() (entities.FrameCounters, error)
}

// FrameSampler aggregates frame timings into smoothed metrics.
type FrameSampler interface {
	// BeginFrame marks the start of a frame measurement.
	BeginFrame()

	// EndFrame closes the measurement opened by BeginFrame and records
	// the elapsed time together with the current backend counters.
	EndFrame()

	// ObserveFrame records an externally measured frame duration, as
	// reported by the page's animation loop.
	ObserveFrame(elapsed time.Duration)

	// Snapshot returns the current smoothed metrics. All fields are
	// finite and non-negative.
	Snapshot() entities.MetricsSnapshot
}
