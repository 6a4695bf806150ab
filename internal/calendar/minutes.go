package calendar

// minuteIndex holds the arrays derived from the schedule and the side
// policy: per-session first/last trading minutes (and the sub-session
// bounds around a break), the dense sequence of every trading minute,
// and cumulative minute counts for closed-form range totals. Everything
// here is frozen at construction and read-only afterwards.
type minuteIndex struct {
	firstMinutes []int64
	lastMinutes  []int64
	// lastAMMinutes / firstPMMinutes are natNanos for sessions without a
	// break.
	lastAMMinutes  []int64
	firstPMMinutes []int64

	allMinutes []int64

	// cumMinutes[i] is the total trading minute count of sessions 0..i.
	cumMinutes []int64
}

func deriveMinuteIndex(entries []ScheduleEntry, side Side) *minuteIndex {
	n := len(entries)
	mi := &minuteIndex{
		firstMinutes:   make([]int64, n),
		lastMinutes:    make([]int64, n),
		lastAMMinutes:  make([]int64, n),
		firstPMMinutes: make([]int64, n),
		cumMinutes:     make([]int64, n),
	}

	total := int64(0)
	for i, e := range entries {
		first := nanosOf(e.Open)
		if !side.includesLeft() {
			first += nanosPerMinute
		}
		last := nanosOf(e.Close)
		if !side.includesRight() {
			last -= nanosPerMinute
		}
		mi.firstMinutes[i] = first
		mi.lastMinutes[i] = last

		if e.HasBreak() {
			lastAM := nanosOf(e.BreakStart)
			if !side.includesRight() {
				lastAM -= nanosPerMinute
			}
			firstPM := nanosOf(e.BreakEnd)
			if !side.includesLeft() {
				firstPM += nanosPerMinute
			}
			mi.lastAMMinutes[i] = lastAM
			mi.firstPMMinutes[i] = firstPM
			total += minutesBetween(first, lastAM) + minutesBetween(firstPM, last)
		} else {
			mi.lastAMMinutes[i] = natNanos
			mi.firstPMMinutes[i] = natNanos
			total += minutesBetween(first, last)
		}
		mi.cumMinutes[i] = total
	}

	// A multi-decade calendar holds tens of millions of minutes; size the
	// flat array once instead of growing it.
	mi.allMinutes = make([]int64, 0, total)
	for i := range entries {
		if mi.lastAMMinutes[i] != natNanos {
			mi.allMinutes = minuteRange(mi.allMinutes, mi.firstMinutes[i], mi.lastAMMinutes[i])
			mi.allMinutes = minuteRange(mi.allMinutes, mi.firstPMMinutes[i], mi.lastMinutes[i])
		} else {
			mi.allMinutes = minuteRange(mi.allMinutes, mi.firstMinutes[i], mi.lastMinutes[i])
		}
	}
	return mi
}

// sessionMinuteBounds returns the positions of session i's minutes in
// allMinutes as the half-open range [lo, hi).
func (mi *minuteIndex) sessionMinuteBounds(i int) (lo, hi int64) {
	if i > 0 {
		lo = mi.cumMinutes[i-1]
	}
	return lo, mi.cumMinutes[i]
}

// minutesBetween counts whole minutes from first through last inclusive.
func minutesBetween(first, last int64) int64 {
	if last < first {
		return 0
	}
	return (last-first)/nanosPerMinute + 1
}
