package formulas

import (
	"github.com/aristath/tradecal/internal/calendar"
)

// SessionDurationStats summarizes trading-hour durations over a stretch
// of schedule entries. Durations are in minutes; break time is excluded
// from trading duration.
type SessionDurationStats struct {
	Sessions      int     `json:"sessions"`
	WithBreak     int     `json:"with_break"`
	MeanMinutes   float64 `json:"mean_minutes"`
	MedianMinutes float64 `json:"median_minutes"`
	StdDevMinutes float64 `json:"std_dev_minutes"`
	MinMinutes    float64 `json:"min_minutes"`
	MaxMinutes    float64 `json:"max_minutes"`
	TotalMinutes  float64 `json:"total_minutes"`
}

// SessionStats computes duration statistics across schedule entries.
func SessionStats(entries []calendar.ScheduleEntry) SessionDurationStats {
	stats := SessionDurationStats{Sessions: len(entries)}
	if len(entries) == 0 {
		return stats
	}

	durations := make([]float64, len(entries))
	for i, e := range entries {
		d := e.Close.Sub(e.Open)
		if e.HasBreak() {
			d -= e.BreakEnd.Sub(e.BreakStart)
			stats.WithBreak++
		}
		durations[i] = d.Minutes()
	}

	stats.MeanMinutes = Mean(durations)
	stats.MedianMinutes = Median(durations)
	if len(durations) > 1 {
		// Sample standard deviation is undefined for one session.
		stats.StdDevMinutes = StdDev(durations)
	}
	stats.MinMinutes = durations[0]
	stats.MaxMinutes = durations[0]
	for _, d := range durations {
		if d < stats.MinMinutes {
			stats.MinMinutes = d
		}
		if d > stats.MaxMinutes {
			stats.MaxMinutes = d
		}
		stats.TotalMinutes += d
	}
	return stats
}
