// Package calendar computes the authoritative set of trading sessions of
// a securities exchange over a date range and answers minute-granularity
// temporal queries against them. A Calendar is built once from a
// declarative Spec and is immutable afterwards; every query is a pure
// read over sorted arrays searched in O(log n).
package calendar

import (
	"fmt"
	"time"
)

const (
	defaultStartYearsBack = 20
	defaultEndYearsAhead  = 1
)

// Calendar is the immutable aggregate of date range, side, schedule and
// minute index.
type Calendar struct {
	name string
	side Side
	tz   *time.Location

	entries  []ScheduleEntry
	sessions []int64 // session dates, UTC midnight nanos
	opens    []int64
	closes   []int64

	mi *minuteIndex

	lateOpens   []time.Time
	earlyCloses []time.Time
}

// New constructs a Calendar for spec over the window selected by opts.
// Construction either fully succeeds or fails; no partial calendar is
// ever returned.
func New(spec Spec, opts Options) (*Calendar, error) {
	if spec.TZ == nil {
		return nil, fmt.Errorf("calendar %s: spec has no timezone", spec.Name)
	}

	side := opts.Side
	if side == "" {
		side = spec.defaultSide()
	}
	if !side.valid() {
		return nil, fmt.Errorf("calendar %s: invalid side %q", spec.Name, opts.Side)
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = dateOf(now)

	start, end, err := resolveWindow(spec, opts, now)
	if err != nil {
		return nil, err
	}

	b, err := buildSchedule(spec, start, end)
	if err != nil {
		return nil, err
	}

	if side.includesRight() {
		for i := 1; i < len(b.sessions); i++ {
			if b.opens[i] == b.closes[i-1] {
				return nil, fmt.Errorf(
					"calendar %s: side %q would duplicate the minute %s shared by"+
						" a close and the next open; use side left or neither",
					spec.Name, side, timeOf(b.opens[i]).Format(time.RFC3339),
				)
			}
		}
	}

	entries := b.entries()
	c := &Calendar{
		name:        spec.Name,
		side:        side,
		tz:          spec.TZ,
		entries:     entries,
		opens:       b.opens,
		closes:      b.closes,
		mi:          deriveMinuteIndex(entries, side),
		lateOpens:   b.specialOpenSessions,
		earlyCloses: b.specialCloseSessions,
	}
	c.sessions = make([]int64, len(c.entries))
	for i, e := range c.entries {
		c.sessions[i] = nanosOf(e.Session)
	}
	return c, nil
}

func resolveWindow(spec Spec, opts Options, now time.Time) (start, end time.Time, err error) {
	if opts.Start.IsZero() {
		start = now.AddDate(-defaultStartYearsBack, 0, 0)
		if !spec.BoundStart.IsZero() && start.Before(spec.BoundStart) {
			start = spec.BoundStart
		}
	} else {
		if !isDate(opts.Start) {
			return start, end, fmt.Errorf(
				"parameter start received as %s although a date (midnight UTC) is required",
				opts.Start.Format(time.RFC3339),
			)
		}
		start = dateOf(opts.Start)
		if !spec.BoundStart.IsZero() && start.Before(spec.BoundStart) {
			return start, end, &RangeError{Param: "start", Value: start, Bound: spec.BoundStart,
				Msg: fmt.Sprintf(
					"the earliest date from which calendar %s can be evaluated is %s, although received start as %s",
					spec.Name, spec.BoundStart.Format("2006-01-02"), start.Format("2006-01-02"),
				)}
		}
	}

	if opts.End.IsZero() {
		end = now.AddDate(defaultEndYearsAhead, 0, 0)
		if !spec.BoundEnd.IsZero() && end.After(spec.BoundEnd) {
			end = spec.BoundEnd
		}
	} else {
		if !isDate(opts.End) {
			return start, end, fmt.Errorf(
				"parameter end received as %s although a date (midnight UTC) is required",
				opts.End.Format(time.RFC3339),
			)
		}
		end = dateOf(opts.End)
		if !spec.BoundEnd.IsZero() && end.After(spec.BoundEnd) {
			return start, end, &RangeError{Param: "end", Value: end, Bound: spec.BoundEnd,
				Msg: fmt.Sprintf(
					"the latest date to which calendar %s can be evaluated is %s, although received end as %s",
					spec.Name, spec.BoundEnd.Format("2006-01-02"), end.Format("2006-01-02"),
				)}
		}
	}

	if !start.Before(end) {
		return start, end, &RangeError{Param: "start", Value: start, Bound: end,
			Msg: fmt.Sprintf(
				"start must be earlier than end although start parsed as %s and end as %s",
				start.Format("2006-01-02"), end.Format("2006-01-02"),
			)}
	}
	return start, end, nil
}

// Name returns the calendar's name.
func (c *Calendar) Name() string { return c.name }

// Side returns the minute-inclusivity policy the calendar was built with.
func (c *Calendar) Side() Side { return c.side }

// TZ returns the exchange's timezone.
func (c *Calendar) TZ() *time.Location { return c.tz }

// Schedule returns the per-session schedule. The slice is shared; treat
// it as read-only.
func (c *Calendar) Schedule() []ScheduleEntry { return c.entries }

// Sessions returns every session date. The slice is shared; treat it as
// read-only.
func (c *Calendar) Sessions() []time.Time { return timesOf(c.sessions) }

// Minutes returns every trading minute of the calendar. The slice is
// freshly allocated per call and may be very large; prefer the query
// methods.
func (c *Calendar) Minutes() []time.Time { return timesOf(c.mi.allMinutes) }

// FirstSession returns the calendar's first session date.
func (c *Calendar) FirstSession() time.Time { return timeOf(c.sessions[0]) }

// LastSession returns the calendar's last session date.
func (c *Calendar) LastSession() time.Time { return timeOf(c.sessions[len(c.sessions)-1]) }

// FirstMinute returns the calendar's first trading minute.
func (c *Calendar) FirstMinute() time.Time { return timeOf(c.mi.allMinutes[0]) }

// LastMinute returns the calendar's last trading minute.
func (c *Calendar) LastMinute() time.Time {
	return timeOf(c.mi.allMinutes[len(c.mi.allMinutes)-1])
}

// LateOpens returns the sessions whose open was replaced by a special
// open.
func (c *Calendar) LateOpens() []time.Time { return c.lateOpens }

// EarlyCloses returns the sessions whose close was replaced by a special
// close.
func (c *Calendar) EarlyCloses() []time.Time { return c.earlyCloses }

// IsSession reports whether date is a session of the calendar.
func (c *Calendar) IsSession(date time.Time) bool {
	return containsNanos(c.sessions, nanosOf(dateOf(date)))
}

func (c *Calendar) sessionIndex(session time.Time) (int, error) {
	v := nanosOf(dateOf(session))
	idx := searchLeft(c.sessions, v)
	if idx >= len(c.sessions) || c.sessions[idx] != v {
		return 0, &NotSessionError{Name: c.name, Date: dateOf(session)}
	}
	return idx, nil
}

// SessionOpen returns the open time of session.
func (c *Calendar) SessionOpen(session time.Time) (time.Time, error) {
	idx, err := c.sessionIndex(session)
	if err != nil {
		return time.Time{}, err
	}
	return c.entries[idx].Open, nil
}

// SessionClose returns the close time of session.
func (c *Calendar) SessionClose(session time.Time) (time.Time, error) {
	idx, err := c.sessionIndex(session)
	if err != nil {
		return time.Time{}, err
	}
	return c.entries[idx].Close, nil
}

// SessionBreakStart returns the break start of session, or a zero time
// when the session has no break.
func (c *Calendar) SessionBreakStart(session time.Time) (time.Time, error) {
	idx, err := c.sessionIndex(session)
	if err != nil {
		return time.Time{}, err
	}
	return c.entries[idx].BreakStart, nil
}

// SessionBreakEnd returns the break end of session, or a zero time when
// the session has no break.
func (c *Calendar) SessionBreakEnd(session time.Time) (time.Time, error) {
	idx, err := c.sessionIndex(session)
	if err != nil {
		return time.Time{}, err
	}
	return c.entries[idx].BreakEnd, nil
}

// SessionEntry returns the full schedule entry of session.
func (c *Calendar) SessionEntry(session time.Time) (ScheduleEntry, error) {
	idx, err := c.sessionIndex(session)
	if err != nil {
		return ScheduleEntry{}, err
	}
	return c.entries[idx], nil
}

// SessionFirstMinute returns session's first trading minute under the
// calendar's side.
func (c *Calendar) SessionFirstMinute(session time.Time) (time.Time, error) {
	idx, err := c.sessionIndex(session)
	if err != nil {
		return time.Time{}, err
	}
	return timeOf(c.mi.firstMinutes[idx]), nil
}

// SessionLastMinute returns session's last trading minute under the
// calendar's side.
func (c *Calendar) SessionLastMinute(session time.Time) (time.Time, error) {
	idx, err := c.sessionIndex(session)
	if err != nil {
		return time.Time{}, err
	}
	return timeOf(c.mi.lastMinutes[idx]), nil
}

// SessionLastAMMinute returns the last trading minute before session's
// break. Zero when the session has no break.
func (c *Calendar) SessionLastAMMinute(session time.Time) (time.Time, error) {
	idx, err := c.sessionIndex(session)
	if err != nil {
		return time.Time{}, err
	}
	if c.mi.lastAMMinutes[idx] == natNanos {
		return time.Time{}, nil
	}
	return timeOf(c.mi.lastAMMinutes[idx]), nil
}

// SessionFirstPMMinute returns the first trading minute after session's
// break. Zero when the session has no break.
func (c *Calendar) SessionFirstPMMinute(session time.Time) (time.Time, error) {
	idx, err := c.sessionIndex(session)
	if err != nil {
		return time.Time{}, err
	}
	if c.mi.firstPMMinutes[idx] == natNanos {
		return time.Time{}, nil
	}
	return timeOf(c.mi.firstPMMinutes[idx]), nil
}

// SessionHasBreak reports whether session observes an intraday break.
func (c *Calendar) SessionHasBreak(session time.Time) (bool, error) {
	idx, err := c.sessionIndex(session)
	if err != nil {
		return false, err
	}
	return c.entries[idx].HasBreak(), nil
}

// HasBreaks reports whether any session of the calendar has a break.
func (c *Calendar) HasBreaks() bool {
	for _, e := range c.entries {
		if e.HasBreak() {
			return true
		}
	}
	return false
}

// NextSession returns the session following session.
func (c *Calendar) NextSession(session time.Time) (time.Time, error) {
	idx, err := c.sessionIndex(session)
	if err != nil {
		return time.Time{}, err
	}
	if idx == len(c.sessions)-1 {
		return time.Time{}, &OutOfBoundsError{
			Param: "session", Value: dateOf(session),
			Bound: c.LastSession(), Kind: "last session",
		}
	}
	return timeOf(c.sessions[idx+1]), nil
}

// PreviousSession returns the session preceding session.
func (c *Calendar) PreviousSession(session time.Time) (time.Time, error) {
	idx, err := c.sessionIndex(session)
	if err != nil {
		return time.Time{}, err
	}
	if idx == 0 {
		return time.Time{}, &OutOfBoundsError{
			Param: "session", Value: dateOf(session),
			Bound: c.FirstSession(), Kind: "first session",
		}
	}
	return timeOf(c.sessions[idx-1]), nil
}

// DateToSession maps any date onto a session. direction resolves dates
// that are not themselves sessions: DirectionNext takes the first
// session after date, DirectionPrevious the last session before it, and
// DirectionNone errors.
func (c *Calendar) DateToSession(date time.Time, direction Direction) (time.Time, error) {
	if !direction.valid() {
		return time.Time{}, fmt.Errorf("invalid direction %q", direction)
	}
	d := dateOf(date)
	v := nanosOf(d)
	if c.IsSession(d) {
		return d, nil
	}
	switch direction {
	case DirectionNext:
		if v > c.sessions[len(c.sessions)-1] {
			return time.Time{}, &OutOfBoundsError{
				Param: "date", Value: d, Bound: c.LastSession(), Kind: "last session",
			}
		}
		return timeOf(c.sessions[searchLeft(c.sessions, v)]), nil
	case DirectionPrevious:
		if v < c.sessions[0] {
			return time.Time{}, &OutOfBoundsError{
				Param: "date", Value: d, Bound: c.FirstSession(), Kind: "first session",
			}
		}
		return timeOf(c.sessions[searchRight(c.sessions, v)-1]), nil
	default:
		return time.Time{}, &NotSessionError{Name: c.name, Date: d}
	}
}

// NextOpen returns the first open strictly after minute.
func (c *Calendar) NextOpen(minute time.Time) (time.Time, error) {
	return c.nextDivider(c.opens, minute, "last open")
}

// NextClose returns the first close strictly after minute.
func (c *Calendar) NextClose(minute time.Time) (time.Time, error) {
	return c.nextDivider(c.closes, minute, "last close")
}

// PreviousOpen returns the last open at or before minute.
func (c *Calendar) PreviousOpen(minute time.Time) (time.Time, error) {
	return c.previousDivider(c.opens, minute, "first open")
}

// PreviousClose returns the last close at or before minute.
func (c *Calendar) PreviousClose(minute time.Time) (time.Time, error) {
	return c.previousDivider(c.closes, minute, "first close")
}

// NextMinute returns the first trading minute strictly after minute.
func (c *Calendar) NextMinute(minute time.Time) (time.Time, error) {
	return c.nextDivider(c.mi.allMinutes, minute, "last trading minute")
}

// PreviousMinute returns the last trading minute at or before minute.
func (c *Calendar) PreviousMinute(minute time.Time) (time.Time, error) {
	return c.previousDivider(c.mi.allMinutes, minute, "first trading minute")
}

func (c *Calendar) nextDivider(dividers []int64, minute time.Time, kind string) (time.Time, error) {
	v := nanosOf(floorMinute(minute))
	idx, ok := nextDividerIdx(dividers, v)
	if !ok {
		return time.Time{}, &OutOfBoundsError{
			Param: "minute", Value: floorMinute(minute),
			Bound: timeOf(dividers[len(dividers)-1]), Kind: kind,
		}
	}
	return timeOf(dividers[idx]), nil
}

func (c *Calendar) previousDivider(dividers []int64, minute time.Time, kind string) (time.Time, error) {
	v := nanosOf(floorMinute(minute))
	idx, ok := previousDividerIdx(dividers, v)
	if !ok {
		return time.Time{}, &OutOfBoundsError{
			Param: "minute", Value: floorMinute(minute),
			Bound: timeOf(dividers[0]), Kind: kind,
		}
	}
	return timeOf(dividers[idx]), nil
}

// IsTradingMinute reports whether minute is a trading minute under the
// calendar's side.
func (c *Calendar) IsTradingMinute(minute time.Time) bool {
	return containsNanos(c.mi.allMinutes, nanosOf(floorMinute(minute)))
}

// IsBreakMinute reports whether minute falls inside a session's break.
func (c *Calendar) IsBreakMinute(minute time.Time) bool {
	v := nanosOf(floorMinute(minute))
	idx := searchLeft(c.mi.lastMinutes, v)
	if idx >= len(c.mi.lastMinutes) || v < c.mi.firstMinutes[idx] {
		return false
	}
	// Inside the session's span; a non-trading minute here can only be a
	// break minute.
	return !containsNanos(c.mi.allMinutes, v)
}

// IsOpenOnMinute reports whether the exchange is open at minute. With
// ignoreBreaks, break minutes count as open.
func (c *Calendar) IsOpenOnMinute(minute time.Time, ignoreBreaks bool) bool {
	v := nanosOf(floorMinute(minute))
	idx := searchLeft(c.mi.lastMinutes, v)
	if idx >= len(c.mi.lastMinutes) || v < c.mi.firstMinutes[idx] {
		return false
	}
	if ignoreBreaks {
		return true
	}
	return containsNanos(c.mi.allMinutes, v)
}

// MinuteToSession maps any minute onto a session. Trading and break
// minutes map to their containing session regardless of direction; for
// minutes between sessions, DirectionNext takes the following session,
// DirectionPrevious the preceding one, and DirectionNone errors.
func (c *Calendar) MinuteToSession(minute time.Time, direction Direction) (time.Time, error) {
	if !direction.valid() {
		return time.Time{}, fmt.Errorf("invalid direction %q", direction)
	}
	v := nanosOf(floorMinute(minute))

	if v < c.mi.firstMinutes[0] {
		if direction == DirectionNext {
			return c.FirstSession(), nil
		}
		return time.Time{}, &OutOfBoundsError{
			Param: "minute", Value: floorMinute(minute),
			Bound: c.FirstMinute(), Kind: "first trading minute",
		}
	}
	last := c.mi.lastMinutes[len(c.mi.lastMinutes)-1]
	if v > last {
		if direction == DirectionPrevious {
			return c.LastSession(), nil
		}
		return time.Time{}, &OutOfBoundsError{
			Param: "minute", Value: floorMinute(minute),
			Bound: c.LastMinute(), Kind: "last trading minute",
		}
	}

	// First session whose last minute is not before v: the containing
	// session when v is within its span, otherwise the next session.
	idx := searchLeft(c.mi.lastMinutes, v)
	switch direction {
	case DirectionNext:
		return timeOf(c.sessions[idx]), nil
	case DirectionPrevious:
		if v >= c.mi.firstMinutes[idx] {
			return timeOf(c.sessions[idx]), nil
		}
		return timeOf(c.sessions[idx-1]), nil
	default:
		if v >= c.mi.firstMinutes[idx] && containsNanos(c.mi.allMinutes, v) {
			return timeOf(c.sessions[idx]), nil
		}
		return time.Time{}, &NotTradingMinuteError{Name: c.name, Minute: floorMinute(minute)}
	}
}

// SessionsInRange returns all sessions from start through end inclusive.
// The bounds are dates and need not themselves be sessions.
func (c *Calendar) SessionsInRange(start, end time.Time) []time.Time {
	lo := searchLeft(c.sessions, nanosOf(dateOf(start)))
	hi := searchRight(c.sessions, nanosOf(dateOf(end)))
	if lo >= hi {
		return nil
	}
	return timesOf(c.sessions[lo:hi])
}

// SessionsWindow returns the block of count+1 sessions anchored at
// session: forward for count >= 0, backward otherwise. A window that
// would extend past either end of the calendar is an error.
func (c *Calendar) SessionsWindow(session time.Time, count int) ([]time.Time, error) {
	idx, err := c.sessionIndex(session)
	if err != nil {
		return nil, err
	}
	endIdx := idx + count
	if endIdx < 0 {
		return nil, &OutOfBoundsError{
			Param: "count", Value: dateOf(session),
			Bound: c.FirstSession(), Kind: "first session",
		}
	}
	if endIdx >= len(c.sessions) {
		return nil, &OutOfBoundsError{
			Param: "count", Value: dateOf(session),
			Bound: c.LastSession(), Kind: "last session",
		}
	}
	lo, hi := idx, endIdx
	if lo > hi {
		lo, hi = hi, lo
	}
	return timesOf(c.sessions[lo : hi+1]), nil
}

// SessionDistance returns the signed count of sessions from start
// through end inclusive; Monday to Wednesday over three consecutive
// sessions is 3, and the reverse order negates the result.
func (c *Calendar) SessionDistance(start, end time.Time) int {
	negate := end.Before(start)
	if negate {
		start, end = end, start
	}
	lo := searchLeft(c.sessions, nanosOf(dateOf(start)))
	hi := searchRight(c.sessions, nanosOf(dateOf(end)))
	d := hi - lo
	if negate {
		return -d
	}
	return d
}

// MinutesInRange returns all trading minutes from start through end
// inclusive. The bounds need not themselves be trading minutes.
func (c *Calendar) MinutesInRange(start, end time.Time) []time.Time {
	lo := searchLeft(c.mi.allMinutes, nanosOf(floorMinute(start)))
	hi := searchRight(c.mi.allMinutes, nanosOf(floorMinute(end)))
	if lo >= hi {
		return nil
	}
	return timesOf(c.mi.allMinutes[lo:hi])
}

// MinutesWindow returns a block of |count| trading minutes anchored at
// the last trading minute at or before start: forward for count > 0,
// backward (ending at the anchor) for count < 0.
func (c *Calendar) MinutesWindow(start time.Time, count int) ([]time.Time, error) {
	v := nanosOf(floorMinute(start))
	anchor, ok := previousDividerIdx(c.mi.allMinutes, v)
	if !ok {
		return nil, &OutOfBoundsError{
			Param: "start", Value: floorMinute(start),
			Bound: c.FirstMinute(), Kind: "first trading minute",
		}
	}
	switch {
	case count > 0:
		end := anchor + count
		if end > len(c.mi.allMinutes) {
			return nil, &OutOfBoundsError{
				Param: "count", Value: floorMinute(start),
				Bound: c.LastMinute(), Kind: "last trading minute",
			}
		}
		return timesOf(c.mi.allMinutes[anchor:end]), nil
	case count < 0:
		lo := anchor + count + 1
		if lo < 0 {
			return nil, &OutOfBoundsError{
				Param: "count", Value: floorMinute(start),
				Bound: c.FirstMinute(), Kind: "first trading minute",
			}
		}
		return timesOf(c.mi.allMinutes[lo : anchor+1]), nil
	default:
		return nil, nil
	}
}

// MinuteDistance returns the signed count of trading minutes from start
// through end inclusive.
func (c *Calendar) MinuteDistance(start, end time.Time) int {
	negate := end.Before(start)
	if negate {
		start, end = end, start
	}
	lo := searchLeft(c.mi.allMinutes, nanosOf(floorMinute(start)))
	hi := searchRight(c.mi.allMinutes, nanosOf(floorMinute(end)))
	d := hi - lo
	if negate {
		return -d
	}
	return d
}

// MinutesForSession returns every trading minute of session.
func (c *Calendar) MinutesForSession(session time.Time) ([]time.Time, error) {
	idx, err := c.sessionIndex(session)
	if err != nil {
		return nil, err
	}
	lo, hi := c.mi.sessionMinuteBounds(idx)
	return timesOf(c.mi.allMinutes[lo:hi]), nil
}

// MinutesCountForSessionsInRange returns the total trading minute count
// of the sessions from start through end inclusive, computed in closed
// form from cumulative sums rather than by enumeration.
func (c *Calendar) MinutesCountForSessionsInRange(start, end time.Time) (int64, error) {
	startIdx, err := c.sessionIndex(start)
	if err != nil {
		return 0, err
	}
	endIdx, err := c.sessionIndex(end)
	if err != nil {
		return 0, err
	}
	if endIdx < startIdx {
		return 0, nil
	}
	lo, _ := c.mi.sessionMinuteBounds(startIdx)
	return c.mi.cumMinutes[endIdx] - lo, nil
}
