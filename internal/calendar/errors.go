package calendar

import (
	"fmt"
	"strings"
	"time"
)

// NoSessionsError reports that the requested date range contains no
// sessions at all (every candidate day is a weekend or holiday).
type NoSessionsError struct {
	Name  string
	Start time.Time
	End   time.Time
}

func (e *NoSessionsError) Error() string {
	return fmt.Sprintf(
		"calendar %s: no sessions between %s and %s",
		e.Name, e.Start.Format("2006-01-02"), e.End.Format("2006-01-02"),
	)
}

// RangeError reports a construction parameter falling outside the
// calendar's supported bounds, or a start/end inversion.
type RangeError struct {
	Param string
	Value time.Time
	Bound time.Time
	Msg   string
}

func (e *RangeError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return fmt.Sprintf(
		"parameter %s received as %s although the permitted bound is %s",
		e.Param, e.Value.Format("2006-01-02"), e.Bound.Format("2006-01-02"),
	)
}

// OutOfBoundsError reports a query for a date, minute, open or close
// that falls outside the calendar's covered range. Bound is the first or
// last value the calendar can answer for, Kind names what was exceeded.
type OutOfBoundsError struct {
	Param string
	Value time.Time
	Bound time.Time
	Kind  string // e.g. "first session", "last trading minute"
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf(
		"parameter %s received as %s although the calendar's %s is %s",
		e.Param, e.Value.Format(time.RFC3339), e.Kind, e.Bound.Format(time.RFC3339),
	)
}

// NotSessionError reports a date that parses fine but is not a session
// of the calendar.
type NotSessionError struct {
	Name string
	Date time.Time
}

func (e *NotSessionError) Error() string {
	return fmt.Sprintf(
		"%s is not a session of calendar %s",
		e.Date.Format("2006-01-02"), e.Name,
	)
}

// NotTradingMinuteError reports a minute passed with DirectionNone that
// is not itself a trading minute.
type NotTradingMinuteError struct {
	Name   string
	Minute time.Time
}

func (e *NotTradingMinuteError) Error() string {
	return fmt.Sprintf(
		"%s is not a trading minute of calendar %s; consider passing a direction",
		e.Minute.Format(time.RFC3339), e.Name,
	)
}

// SpecialDatesError reports special open/close overrides that reference
// dates which are not sessions.
type SpecialDatesError struct {
	Dates []time.Time
}

func (e *SpecialDatesError) Error() string {
	parts := make([]string, len(e.Dates))
	for i, d := range e.Dates {
		parts[i] = d.Format("2006-01-02")
	}
	return fmt.Sprintf("special dates %s are not sessions", strings.Join(parts, ", "))
}

// BreakMismatchError reports sessions carrying a break start without a
// break end, or the reverse.
type BreakMismatchError struct {
	Sessions []time.Time
}

func (e *BreakMismatchError) Error() string {
	parts := make([]string, len(e.Sessions))
	for i, d := range e.Sessions {
		parts[i] = d.Format("2006-01-02")
	}
	return fmt.Sprintf(
		"mismatched break start/end presence for sessions %s",
		strings.Join(parts, ", "),
	)
}

// MisalignedDatesError is an internal consistency assertion: the session
// index and a times array ended up with different lengths. It indicates a
// bug, not bad input.
type MisalignedDatesError struct {
	Sessions int
	Times    int
}

func (e *MisalignedDatesError) Error() string {
	return fmt.Sprintf(
		"misaligned dates while building calendar: %d sessions but %d times",
		e.Sessions, e.Times,
	)
}

// IntervalsOverlapError reports that a generated trading interval's right
// edge extends past the next interval's left edge and curtailment was not
// requested.
type IntervalsOverlapError struct {
	RightEdge time.Time
	NextLeft  time.Time
}

func (e *IntervalsOverlapError) Error() string {
	return fmt.Sprintf(
		"trading intervals overlap: right edge %s is later than next left edge %s;"+
			" consider curtailing overlaps or using a shorter period",
		e.RightEdge.Format(time.RFC3339), e.NextLeft.Format(time.RFC3339),
	)
}

// IndicesOverlapError reports that a generated point sequence is not
// strictly increasing.
type IndicesOverlapError struct {
	At time.Time
}

func (e *IndicesOverlapError) Error() string {
	return fmt.Sprintf(
		"trading index points overlap at %s; use a shorter period",
		e.At.Format(time.RFC3339),
	)
}
