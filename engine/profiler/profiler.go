package profiler

import (
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-hexpick/common"
)

// Stats is one reporting window of the profiler.
type Stats struct {
	FPS         float64
	HeapMB      float64
	AllocRateMB float64
	SysMB       float64
	GCCount     uint32
	LastPauseUs uint64
	MaxPauseUs  uint64

	// Picks is the number of picks recorded in the window.
	Picks    int
	PickMean time.Duration
	PickMax  time.Duration
}

// Profiler tracks frame rate, pick latency and memory statistics for performance monitoring.
// Outputs stats to the common logger at a configurable interval.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	picks     int
	pickTotal time.Duration
	pickMax   time.Duration

	last Stats
	now  func() time.Time
}

// NewProfiler creates a new Profiler with default settings.
// Update interval defaults to 1 second.
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler() *Profiler {
	return &Profiler{
		lastTime:       time.Now(),
		updateInterval: time.Second,
		now:            time.Now,
	}
}

// SetInterval changes how often Tick reports. Non-positive values are ignored.
//
// Parameters:
//   - d: the reporting interval
func (p *Profiler) SetInterval(d time.Duration) {
	if d > 0 {
		p.updateInterval = d
	}
}

// RecordPick adds one pick latency to the current window.
//
// Parameters:
//   - d: time spent in the pick
func (p *Profiler) RecordPick(d time.Duration) {
	p.picks++
	p.pickTotal += d
	if d > p.pickMax {
		p.pickMax = d
	}
}

// Last returns the stats of the most recently completed window.
//
// Returns:
//   - Stats: the last reported stats, zero before the first report
func (p *Profiler) Last() Stats {
	return p.last
}

// Tick should be called once per frame to track frame timing.
// Logs performance statistics when the update interval has elapsed.
// Statistics include: FPS, pick latency, heap usage, allocation rate, GC count/pause times, total memory.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	s := Stats{
		FPS:     float64(p.frameCount) / elapsed.Seconds(),
		Picks:   p.picks,
		PickMax: p.pickMax,
	}
	if p.picks > 0 {
		s.PickMean = p.pickTotal / time.Duration(p.picks)
	}

	runtime.ReadMemStats(&p.memStats)
	// Alloc is live heap, TotalAlloc only grows and tracks churn, Sys is the process footprint
	s.HeapMB = float64(p.memStats.Alloc) / 1024 / 1024
	s.SysMB = float64(p.memStats.Sys) / 1024 / 1024
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	s.AllocRateMB = float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	s.GCCount = p.memStats.NumGC
	if s.GCCount > 0 {
		// PauseNs is a circular buffer of the last 256 GC pauses
		s.LastPauseUs = p.memStats.PauseNs[(s.GCCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if s.GCCount-startIdx > 256 {
			startIdx = s.GCCount - 256
		}
		for i := startIdx; i < s.GCCount; i++ {
			if pause := p.memStats.PauseNs[i%256] / 1000; pause > s.MaxPauseUs {
				s.MaxPauseUs = pause
			}
		}
	}

	common.Logger().Info("profiler",
		"fps", s.FPS,
		"picks", s.Picks,
		"pick_mean", s.PickMean,
		"pick_max", s.PickMax,
		"heap_mb", s.HeapMB,
		"alloc_rate_mb", s.AllocRateMB,
		"gc", s.GCCount,
		"gc_last_us", s.LastPauseUs,
		"gc_max_us", s.MaxPauseUs,
		"sys_mb", s.SysMB,
	)

	p.last = s
	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = s.GCCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	p.picks = 0
	p.pickTotal = 0
	p.pickMax = 0
	return true
}
