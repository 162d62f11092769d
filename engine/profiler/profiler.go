package profiler

import (
	"runtime"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-shade/common"
)

// Stats is a snapshot of the shader variant counters.
type Stats struct {
	// Compiles counts program variants requested from a backend.
	Compiles int64
	// Reuses counts requests answered by an already cached variant.
	Reuses int64
	// Failures counts variants whose compilation failed.
	Failures int64
	// Fallbacks counts fallback reduction steps applied by materials.
	Fallbacks int64
}

// Profiler tracks shader variant statistics together with frame rate and memory usage.
// Counters may be incremented from compile workers; Tick must be called from the render loop.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	compiles  atomic.Int64
	reuses    atomic.Int64
	failures  atomic.Int64
	fallbacks atomic.Int64

	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastTotalAlloc uint64
	last           Stats
}

// NewProfiler creates a new Profiler. The update interval defaults to 1 second.
//
// Parameters:
//   - interval: the logging interval, non-positive values keep the default
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(interval time.Duration) *Profiler {
	return &Profiler{
		lastTime:       time.Now(),
		updateInterval: common.Coalesce(max(interval, 0), time.Second),
	}
}

// CompileRequested counts a variant handed to a backend.
func (p *Profiler) CompileRequested() {
	p.compiles.Add(1)
}

// ProgramReused counts a request answered from the program cache.
func (p *Profiler) ProgramReused() {
	p.reuses.Add(1)
}

// CompileFailed counts a failed variant.
func (p *Profiler) CompileFailed() {
	p.failures.Add(1)
}

// FallbackApplied counts a fallback reduction step.
func (p *Profiler) FallbackApplied() {
	p.fallbacks.Add(1)
}

// Stats returns the counters accumulated since the profiler was created.
func (p *Profiler) Stats() Stats {
	return Stats{
		Compiles:  p.compiles.Load(),
		Reuses:    p.reuses.Load(),
		Failures:  p.failures.Load(),
		Fallbacks: p.fallbacks.Load(),
	}
}

// Tick should be called once per frame. It logs frame rate, heap usage and the shader variant
// counters (total and since the previous log line) when the update interval has elapsed.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.frameCount++
	now := time.Now()
	elapsed := now.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	fps := float64(p.frameCount) / elapsed.Seconds()
	runtime.ReadMemStats(&p.memStats)
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	allocRateMB := float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds()

	s := p.Stats()
	common.Logger().Info("profiler",
		"fps", fps,
		"heap_mb", allocMB,
		"alloc_rate_mb", allocRateMB,
		"compiles", s.Compiles,
		"compiles_delta", s.Compiles-p.last.Compiles,
		"reuses", s.Reuses,
		"failures", s.Failures,
		"fallbacks", s.Fallbacks,
	)

	p.frameCount = 0
	p.lastTime = now
	p.lastTotalAlloc = p.memStats.TotalAlloc
	p.last = s
	return true
}
