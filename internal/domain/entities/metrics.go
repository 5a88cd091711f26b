package entities

import "math"

// FrameCounters are the per-frame counters reported by the render backend.
type FrameCounters struct {
	// DrawCalls is the number of draw calls issued for the frame.
	DrawCalls int64 `json:"draw_calls"`

	// Geometries is the number of geometry buffers currently allocated.
	Geometries int64 `json:"geometries"`

	// Textures is the number of textures currently allocated.
	Textures int64 `json:"textures"`

	// AllocatedBytes is the accumulated allocation estimate in bytes.
	AllocatedBytes int64 `json:"allocated_bytes"`
}

// MetricsSnapshot is a smoothed view of recent frame performance.
// Every field is finite and non-negative.
type MetricsSnapshot struct {
	// FramesPerSecond derived from the mean of recent frame times.
	FramesPerSecond float64 `json:"frames_per_second"`

	// MemoryEstimateMB is the render backend allocation estimate in MiB.
	MemoryEstimateMB float64 `json:"memory_estimate_mb"`

	// DrawCalls is the draw call count of the most recent frame.
	DrawCalls int64 `json:"draw_calls"`

	// SampleCount is the number of frame samples the snapshot is based on.
	SampleCount int `json:"sample_count"`
}

// Sanitize clamps every field to a finite, non-negative value.
func (s *MetricsSnapshot) Sanitize() {
	s.FramesPerSecond = clampNonNegative(s.FramesPerSecond)
	s.MemoryEstimateMB = clampNonNegative(s.MemoryEstimateMB)
	if s.DrawCalls < 0 {
		s.DrawCalls = 0
	}
	if s.SampleCount < 0 {
		s.SampleCount = 0
	}
}

func clampNonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
