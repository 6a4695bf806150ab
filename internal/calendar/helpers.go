package calendar

import (
	"math"
	"sort"
	"time"
)

const (
	nanosPerMinute = int64(time.Minute)
	nanosPerDay    = 24 * int64(time.Hour)

	// natNanos marks an absent value (e.g. the break columns of a
	// session without an intraday break) in the nanosecond arrays.
	natNanos = math.MinInt64
)

// dateOf strips the time component, returning midnight UTC of the same
// calendar day as t observed in UTC.
func dateOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// isDate reports whether t is a pure date (midnight UTC).
func isDate(t time.Time) bool {
	return t.UTC().Equal(dateOf(t))
}

// floorMinute truncates t to whole-minute precision, UTC.
func floorMinute(t time.Time) time.Time {
	return t.UTC().Truncate(time.Minute)
}

func nanosOf(t time.Time) int64 {
	return t.UnixNano()
}

func timeOf(nanos int64) time.Time {
	return time.Unix(0, nanos).UTC()
}

// searchLeft returns the index of the first element >= v.
func searchLeft(sorted []int64, v int64) int {
	return sort.Search(len(sorted), func(i int) bool { return sorted[i] >= v })
}

// searchRight returns the index of the first element > v.
func searchRight(sorted []int64, v int64) int {
	return sort.Search(len(sorted), func(i int) bool { return sorted[i] > v })
}

// nextDividerIdx returns the index of the first divider strictly greater
// than v. A value sitting exactly on a divider therefore resolves to the
// following divider, never to itself. ok is false when no such divider
// exists.
func nextDividerIdx(dividers []int64, v int64) (int, bool) {
	idx := searchRight(dividers, v)
	if idx >= len(dividers) {
		return 0, false
	}
	return idx, true
}

// previousDividerIdx returns the index of the last divider less than or
// equal to v. ok is false when v lies before the first divider; index 0
// is a valid result, not a boundary marker.
func previousDividerIdx(dividers []int64, v int64) (int, bool) {
	idx := searchRight(dividers, v)
	if idx == 0 {
		return 0, false
	}
	return idx - 1, true
}

// containsNanos reports whether v is a member of the sorted array.
func containsNanos(sorted []int64, v int64) bool {
	idx := searchLeft(sorted, v)
	return idx < len(sorted) && sorted[idx] == v
}

// minuteRange appends every minute from first through last inclusive to
// dst. Bounds must already be whole minutes.
func minuteRange(dst []int64, first, last int64) []int64 {
	for v := first; v <= last; v += nanosPerMinute {
		dst = append(dst, v)
	}
	return dst
}

func timesOf(nanos []int64) []time.Time {
	out := make([]time.Time, len(nanos))
	for i, v := range nanos {
		out[i] = timeOf(v)
	}
	return out
}
