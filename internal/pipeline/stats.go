package pipeline

import (
	"slices"
	"sync"
	"time"

	"github.com/dgallion1/contactcsv/internal/vcf"
)

// Conversion describes one finished conversion for Stats.
type Conversion struct {
	Mode    vcf.Mode
	Elapsed time.Duration
	Cards   int
	Columns int
}

type sample struct {
	at         time.Time
	mode       vcf.Mode
	durationMs int64
	cards      int
	columns    int
}

// StatsSnapshot aggregates the conversions inside the window.
type StatsSnapshot struct {
	Count  int                    `json:"count"`
	Cards  int                    `json:"cards"`
	MinMs  int64                  `json:"min_ms"`
	MaxMs  int64                  `json:"max_ms"`
	AvgMs  float64                `json:"avg_ms"`
	P50Ms  float64                `json:"p50_ms"`
	P95Ms  float64                `json:"p95_ms"`
	P99Ms  float64                `json:"p99_ms"`
	ByMode map[vcf.Mode]ModeStats `json:"by_mode"`
}

// ModeStats is the per-schema part of a snapshot. MaxColumns shows how wide
// dynamic tables get; it is constant for fixed mode.
type ModeStats struct {
	Conversions  int     `json:"conversions"`
	Cards        int     `json:"cards"`
	CardsPerFile float64 `json:"cards_per_file"`
	MaxColumns   int     `json:"max_columns"`
	AvgMs        float64 `json:"avg_ms"`
}

// Stats keeps conversion samples for a rolling window.
type Stats struct {
	mu      sync.Mutex
	samples []sample
	window  time.Duration
}

func NewStats(window time.Duration) *Stats {
	if window <= 0 {
		window = time.Hour
	}
	return &Stats{
		samples: make([]sample, 0, 256),
		window:  window,
	}
}

// Record adds one finished conversion. Negative values are clamped to zero.
func (s *Stats) Record(c Conversion) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	s.samples = append(s.samples, sample{
		at:         now,
		mode:       c.Mode,
		durationMs: max(c.Elapsed.Milliseconds(), 0),
		cards:      max(c.Cards, 0),
		columns:    max(c.Columns, 0),
	})
}

func (s *Stats) Snapshot() StatsSnapshot {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	snap := StatsSnapshot{ByMode: make(map[vcf.Mode]ModeStats)}
	if len(s.samples) == 0 {
		return snap
	}

	values := make([]int64, 0, len(s.samples))
	var sum int64
	modeMs := make(map[vcf.Mode]int64)
	for _, sm := range s.samples {
		values = append(values, sm.durationMs)
		sum += sm.durationMs
		snap.Cards += sm.cards

		ms := snap.ByMode[sm.mode]
		ms.Conversions++
		ms.Cards += sm.cards
		ms.MaxColumns = max(ms.MaxColumns, sm.columns)
		snap.ByMode[sm.mode] = ms
		modeMs[sm.mode] += sm.durationMs
	}
	for mode, ms := range snap.ByMode {
		ms.CardsPerFile = float64(ms.Cards) / float64(ms.Conversions)
		ms.AvgMs = float64(modeMs[mode]) / float64(ms.Conversions)
		snap.ByMode[mode] = ms
	}
	slices.Sort(values)

	snap.Count = len(values)
	snap.MinMs = values[0]
	snap.MaxMs = values[len(values)-1]
	snap.AvgMs = float64(sum) / float64(len(values))
	snap.P50Ms = percentile(values, 50)
	snap.P95Ms = percentile(values, 95)
	snap.P99Ms = percentile(values, 99)
	return snap
}

func (s *Stats) pruneLocked(now time.Time) {
	cutoff := now.Add(-s.window)
	s.samples = slices.DeleteFunc(s.samples, func(sm sample) bool {
		return sm.at.Before(cutoff)
	})
}

// percentile interpolates linearly between the two nearest ranks of a sorted
// slice.
func percentile(sorted []int64, pct float64) float64 {
	switch {
	case len(sorted) == 0:
		return 0
	case pct <= 0:
		return float64(sorted[0])
	case pct >= 100:
		return float64(sorted[len(sorted)-1])
	}

	rank := float64(len(sorted)-1) * pct / 100
	lower := int(rank)
	if lower+1 >= len(sorted) {
		return float64(sorted[lower])
	}
	lo, hi := float64(sorted[lower]), float64(sorted[lower+1])
	return lo + (hi-lo)*(rank-float64(lower))
}
