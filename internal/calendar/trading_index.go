package calendar

import (
	"fmt"
	"time"
)

// Closed selects which edges of generated trading-index points or
// intervals are included. It mirrors Side but is chosen per call, not at
// construction.
type Closed string

const (
	ClosedLeft    Closed = "left"
	ClosedRight   Closed = "right"
	ClosedBoth    Closed = "both"
	ClosedNeither Closed = "neither"
)

func (cl Closed) valid() bool {
	switch cl {
	case ClosedLeft, ClosedRight, ClosedBoth, ClosedNeither:
		return true
	}
	return false
}

// Interval is a contiguous [Start, End) span of a trading index.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// TradingIndexOptions tunes trading-index generation. The zero value
// requests left-closed output with no clamping and strict overlap
// handling.
type TradingIndexOptions struct {
	// Closed selects edge inclusion; empty means ClosedLeft.
	Closed Closed

	// ForceClose clamps the final interval of a session (or of its
	// afternoon sub-session) to the session close instead of letting it
	// overrun. ForceBreakClose does the same for the morning sub-session
	// and the break start. Intervals only.
	ForceClose      bool
	ForceBreakClose bool

	// CurtailOverlaps truncates an interval whose right edge extends
	// past the next interval's left edge instead of failing. Intervals
	// only; overlapping point sequences always fail.
	CurtailOverlaps bool
}

type subSession struct {
	left  int64
	right int64
	force bool // clamp the trailing edge to right
}

// TradingIndex partitions the sessions in [start, end] into consecutive
// points spaced by period, laid out per sub-session so an intraday break
// restarts the grid. The trailing point of a sub-session may overrun its
// true end when period does not divide the sub-session length; the
// Closed option decides whether each sub-session's first and last points
// are kept.
func (c *Calendar) TradingIndex(start, end time.Time, period time.Duration, opts TradingIndexOptions) ([]time.Time, error) {
	lo, hi, closed, err := c.tradingIndexArgs(start, end, period, opts)
	if err != nil {
		return nil, err
	}
	if lo >= hi {
		return nil, nil
	}
	if period == 24*time.Hour {
		return timesOf(c.sessions[lo:hi]), nil
	}

	p := int64(period)
	var pts []int64
	for i := lo; i < hi; i++ {
		for _, sub := range c.subSessions(i, opts) {
			n := ceilDiv(sub.right-sub.left, p)
			from, to := int64(0), n
			if closed == ClosedRight || closed == ClosedNeither {
				from = 1
			}
			if closed == ClosedLeft || closed == ClosedNeither {
				to = n - 1
			}
			for k := from; k <= to; k++ {
				pts = append(pts, sub.left+k*p)
			}
		}
	}
	for i := 1; i < len(pts); i++ {
		if pts[i] <= pts[i-1] {
			return nil, &IndicesOverlapError{At: timeOf(pts[i])}
		}
	}
	return timesOf(pts), nil
}

// TradingIndexIntervals partitions the sessions in [start, end] into
// consecutive [left, right) intervals of length period, per sub-session.
// The final interval of a sub-session may overrun its true end unless
// ForceClose / ForceBreakClose clamps it.
func (c *Calendar) TradingIndexIntervals(start, end time.Time, period time.Duration, opts TradingIndexOptions) ([]Interval, error) {
	lo, hi, closed, err := c.tradingIndexArgs(start, end, period, opts)
	if err != nil {
		return nil, err
	}
	if closed != ClosedLeft && closed != ClosedRight {
		return nil, fmt.Errorf(
			"intervals require closed %q or %q, got %q: an interval cannot be"+
				" closed or open on both edges at once",
			ClosedLeft, ClosedRight, closed,
		)
	}
	if lo >= hi {
		return nil, nil
	}

	p := int64(period)
	if period == 24*time.Hour {
		out := make([]Interval, 0, hi-lo)
		for _, s := range c.sessions[lo:hi] {
			out = append(out, Interval{Start: timeOf(s), End: timeOf(s + p)})
		}
		return out, nil
	}

	type span struct{ left, right int64 }
	var spans []span
	for i := lo; i < hi; i++ {
		for _, sub := range c.subSessions(i, opts) {
			n := ceilDiv(sub.right-sub.left, p)
			for k := int64(0); k < n; k++ {
				left := sub.left + k*p
				right := left + p
				if k == n-1 && sub.force && right > sub.right {
					right = sub.right
				}
				spans = append(spans, span{left, right})
			}
		}
	}

	for i := 0; i < len(spans)-1; i++ {
		if spans[i].right > spans[i+1].left {
			if !opts.CurtailOverlaps {
				return nil, &IntervalsOverlapError{
					RightEdge: timeOf(spans[i].right),
					NextLeft:  timeOf(spans[i+1].left),
				}
			}
			spans[i].right = spans[i+1].left
		}
	}

	out := make([]Interval, len(spans))
	for i, s := range spans {
		out[i] = Interval{Start: timeOf(s.left), End: timeOf(s.right)}
	}
	return out, nil
}

func (c *Calendar) tradingIndexArgs(start, end time.Time, period time.Duration, opts TradingIndexOptions) (lo, hi int, closed Closed, err error) {
	closed = opts.Closed
	if closed == "" {
		closed = ClosedLeft
	}
	if !closed.valid() {
		return 0, 0, closed, fmt.Errorf("invalid closed %q", opts.Closed)
	}
	if period <= 0 {
		return 0, 0, closed, fmt.Errorf("period must be positive, got %s", period)
	}
	if period > 24*time.Hour {
		return 0, 0, closed, fmt.Errorf("period must not exceed one day, got %s", period)
	}
	if period%time.Minute != 0 {
		return 0, 0, closed, fmt.Errorf("period must be a whole number of minutes, got %s", period)
	}
	lo = searchLeft(c.sessions, nanosOf(dateOf(start)))
	hi = searchRight(c.sessions, nanosOf(dateOf(end)))
	return lo, hi, closed, nil
}

// subSessions splits session i at its break, pairing each piece with the
// force flag that may clamp its trailing edge.
func (c *Calendar) subSessions(i int, opts TradingIndexOptions) []subSession {
	e := c.entries[i]
	if e.HasBreak() {
		return []subSession{
			{left: nanosOf(e.Open), right: nanosOf(e.BreakStart), force: opts.ForceBreakClose},
			{left: nanosOf(e.BreakEnd), right: nanosOf(e.Close), force: opts.ForceClose},
		}
	}
	return []subSession{
		{left: nanosOf(e.Open), right: nanosOf(e.Close), force: opts.ForceClose},
	}
}

func ceilDiv(a, b int64) int64 {
	return (a + b - 1) / b
}
