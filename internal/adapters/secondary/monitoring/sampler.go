package monitoring

import (
	"log"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/fitpulse/showcase/internal/domain/entities"
	"github.com/fitpulse/showcase/internal/domain/ports"
)

// sampleWindow is the number of recent frame timings the sampler keeps.
const sampleWindow = 30

const bytesPerMiB = 1 << 20

// Sampler aggregates per-frame timings and render backend counters into
// a smoothed metrics snapshot. Frame times are kept in a bounded ring of
// the last sampleWindow samples; the oldest sample is dropped once full.
type Sampler struct {
	mu          sync.Mutex
	source      ports.CounterSource
	samples     [sampleWindow]float64 // elapsed milliseconds
	sampleCount int
	next        int
	frameStart  time.Time
	counters    entities.FrameCounters
	warnedOnce  bool
	startedAt   time.Time
}

// NewSampler creates a sampler reading backend counters from source.
// A nil source is treated as an unavailable backend: counters stay zero.
func NewSampler(source ports.CounterSource) *Sampler {
	return &Sampler{
		source:    source,
		startedAt: time.Now(),
	}
}

// BeginFrame marks the start of a frame measurement.
func (s *Sampler) BeginFrame() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frameStart = time.Now()
}

// EndFrame closes the measurement opened by BeginFrame and records the
// elapsed time with the current backend counters. An EndFrame without a
// matching BeginFrame is ignored.
func (s *Sampler) EndFrame() {
	s.mu.Lock()
	start := s.frameStart
	s.frameStart = time.Time{}
	s.mu.Unlock()

	if start.IsZero() {
		return
	}
	s.ObserveFrame(time.Since(start))
}

// ObserveFrame records a frame duration and refreshes backend counters.
// Negative durations are dropped with a diagnostic log.
func (s *Sampler) ObserveFrame(elapsed time.Duration) {
	if elapsed < 0 {
		log.Printf("[DEBUG] [sampler] dropping negative frame duration %v", elapsed)
		return
	}

	counters, err := s.readCounters()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.samples[s.next] = float64(elapsed.Microseconds()) / 1000.0
	s.next = (s.next + 1) % sampleWindow
	if s.sampleCount < sampleWindow {
		s.sampleCount++
	}

	if err == nil {
		s.counters = counters
	} else if !s.warnedOnce {
		s.warnedOnce = true
		log.Printf("[WARN] [sampler] render counters unavailable, defaulting to zero: %v", err)
	}
}

// readCounters pulls the latest backend counters, treating a nil source
// as an unsupported environment.
func (s *Sampler) readCounters() (entities.FrameCounters, error) {
	if s.source == nil {
		return entities.FrameCounters{}, &entities.UnsupportedEnvironmentError{Reason: "no render backend attached"}
	}
	return s.source.Counters()
}

// Snapshot returns the current smoothed metrics. FramesPerSecond is
// 1000 divided by the mean of the recorded frame times in milliseconds;
// an empty window or zero mean yields 0 rather than a non-finite value.
func (s *Sampler) Snapshot() entities.MetricsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	var fps float64
	if s.sampleCount > 0 {
		var sum float64
		for i := 0; i < s.sampleCount; i++ {
			sum += s.samples[i]
		}
		mean := sum / float64(s.sampleCount)
		if mean > 0 {
			fps = 1000.0 / mean
		}
	}
	if math.IsNaN(fps) || math.IsInf(fps, 0) {
		fps = 0
	}

	snapshot := entities.MetricsSnapshot{
		FramesPerSecond:  fps,
		MemoryEstimateMB: float64(s.counters.AllocatedBytes) / bytesPerMiB,
		DrawCalls:        s.counters.DrawCalls,
		SampleCount:      s.sampleCount,
	}
	snapshot.Sanitize()
	return snapshot
}

// Uptime returns how long the sampler has been alive.
func (s *Sampler) Uptime() time.Duration {
	return time.Since(s.startedAt)
}

// HealthStatus reports server-side process health alongside the page
// metrics, for the health endpoint.
func (s *Sampler) HealthStatus() map[string]interface{} {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	snapshot := s.Snapshot()

	return map[string]interface{}{
		"healthy":       memStats.Alloc < 500*1024*1024 && runtime.NumGoroutine() < 1000,
		"uptime":        s.Uptime().String(),
		"goroutines":    runtime.NumGoroutine(),
		"heap_alloc_mb": memStats.HeapAlloc / (1024 * 1024),
		"gc_cycles":     memStats.NumGC,
		"page": map[string]interface{}{
			"frames_per_second":  snapshot.FramesPerSecond,
			"memory_estimate_mb": snapshot.MemoryEstimateMB,
			"draw_calls":         snapshot.DrawCalls,
		},
	}
}

// Ensure Sampler implements FrameSampler
var _ ports.FrameSampler = (*Sampler)(nil)
