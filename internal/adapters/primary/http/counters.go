package http

import (
	"sync"
	"time"

	"github.com/fitpulse/showcase/internal/domain/entities"
)

// counterStaleAfter is how long a reported counter set stays valid
// without a fresh frame report from the page.
const counterStaleAfter = 10 * time.Second

// ReportedCounters is a CounterSource fed by frame reports arriving over
// the WebSocket. Until the first report lands (or after reports go
// stale) it answers with an UnsupportedEnvironmentError so the sampler
// falls back to zeros.
type ReportedCounters struct {
	mu       sync.RWMutex
	counters entities.FrameCounters
	updated  time.Time
}

// NewReportedCounters creates an empty counter source.
func NewReportedCounters() *ReportedCounters {
	return &ReportedCounters{}
}

// Report stores the latest counters from the page.
func (r *ReportedCounters) Report(counters entities.FrameCounters) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counters = counters
	r.updated = time.Now()
}

// Counters returns the most recent counters.
func (r *ReportedCounters) Counters() (entities.FrameCounters, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.updated.IsZero() {
		return entities.FrameCounters{}, &entities.UnsupportedEnvironmentError{Reason: "no render backend has reported"}
	}
	if time.Since(r.updated) > counterStaleAfter {
		return entities.FrameCounters{}, &entities.UnsupportedEnvironmentError{Reason: "render backend reports are stale"}
	}
	return r.counters, nil
}
