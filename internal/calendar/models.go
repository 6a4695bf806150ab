package calendar

import (
	"fmt"
	"sort"
	"time"
)

// Side controls which session boundary instants count as trading
// minutes. It is fixed at construction time and changes only the derived
// minute index, never the schedule itself.
type Side string

const (
	// SideLeft includes open and break end, excludes close and break start.
	SideLeft Side = "left"
	// SideRight includes close and break start, excludes open and break end.
	SideRight Side = "right"
	// SideBoth includes all four boundary minutes.
	SideBoth Side = "both"
	// SideNeither excludes all four boundary minutes.
	SideNeither Side = "neither"
)

func (s Side) valid() bool {
	switch s {
	case SideLeft, SideRight, SideBoth, SideNeither:
		return true
	}
	return false
}

func (s Side) includesLeft() bool  { return s == SideLeft || s == SideBoth }
func (s Side) includesRight() bool { return s == SideRight || s == SideBoth }

// Direction resolves how a date or minute that does not itself represent
// a session or trading minute maps onto the session index.
type Direction string

const (
	DirectionNext     Direction = "next"
	DirectionPrevious Direction = "previous"
	// DirectionNone demands the input already be a session or trading
	// minute; anything else is an error.
	DirectionNone Direction = "none"
)

func (d Direction) valid() bool {
	switch d {
	case DirectionNext, DirectionPrevious, DirectionNone:
		return true
	}
	return false
}

// TimeOfDay is a wall-clock time in the exchange's timezone.
type TimeOfDay struct {
	Hour   int
	Minute int
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// on anchors the wall-clock time to the given date in loc, shifted by
// offsetDays, and returns the instant in UTC. DST transitions resolve
// through the location itself.
func (t TimeOfDay) on(date time.Time, loc *time.Location, offsetDays int) time.Time {
	d := date.UTC()
	local := time.Date(d.Year(), d.Month(), d.Day(), t.Hour, t.Minute, 0, 0, loc)
	if offsetDays != 0 {
		local = local.AddDate(0, 0, offsetDays)
	}
	return local.UTC()
}

// TimeRule is one step of a time-varying open/close/break rule: from
// Since (inclusive, a UTC date; zero means "from the beginning") the
// session takes Time. A session uses the rule with the latest Since not
// after the session date.
type TimeRule struct {
	Since time.Time
	Time  TimeOfDay
}

// DateRule expands to the concrete, sorted UTC dates it covers within
// [start, end]. Holiday rules, special open/close date sources and
// special offset date sources all satisfy it; the engine never inspects
// how the dates were derived.
type DateRule interface {
	Dates(start, end time.Time) []time.Time
}

// DateList is a literal ad-hoc list of dates satisfying DateRule.
type DateList []time.Time

// Dates returns the member dates falling within [start, end], sorted.
func (l DateList) Dates(start, end time.Time) []time.Time {
	var out []time.Time
	for _, d := range l {
		d = dateOf(d)
		if !d.Before(start) && !d.After(end) {
			out = append(out, d)
		}
	}
	sortDates(out)
	return out
}

// SpecialTime declares an absolute replacement open or close time for
// every date produced by Rule.
type SpecialTime struct {
	Time TimeOfDay
	Rule DateRule
}

// SpecialOffset declares signed adjustments, relative to the default
// times, for every date produced by Rule. A zero duration leaves the
// corresponding time unchanged.
type SpecialOffset struct {
	Open       time.Duration
	BreakStart time.Duration
	BreakEnd   time.Duration
	Close      time.Duration
	Rule       DateRule
}

// WeekmaskPeriod temporarily replaces the spec's weekmask for dates in
// [Start, End] inclusive.
type WeekmaskPeriod struct {
	Start    time.Time
	End      time.Time
	Weekmask string
}

// Spec is the complete declarative description of an exchange's trading
// calendar. It is pure data: the engine consumes it, exchange definitions
// produce it. Specs are safe to share; the engine never mutates one.
type Spec struct {
	Name string
	TZ   *time.Location

	// Weekmask has one digit per weekday, Monday first: '1' trading,
	// '0' closed. Empty means Monday through Friday.
	Weekmask string

	OpenTimes       []TimeRule
	CloseTimes      []TimeRule
	BreakStartTimes []TimeRule
	BreakEndTimes   []TimeRule

	// OpenOffsetDays / CloseOffsetDays shift the anchored times by whole
	// days, for sessions that open the evening before (futures) or close
	// past midnight.
	OpenOffsetDays  int
	CloseOffsetDays int

	RegularHolidays []DateRule
	AdhocHolidays   []time.Time

	SpecialOpens     []SpecialTime
	SpecialCloses    []SpecialTime
	SpecialOffsets   []SpecialOffset
	SpecialWeekmasks []WeekmaskPeriod

	// BoundStart / BoundEnd limit the range over which the calendar may
	// be constructed. Zero means unbounded.
	BoundStart time.Time
	BoundEnd   time.Time

	// DefaultSide overrides the derived default (SideLeft for calendars
	// whose open and close coincide on the clock, SideBoth otherwise).
	DefaultSide Side
}

func (s Spec) weekmask() string {
	if s.Weekmask == "" {
		return "1111100"
	}
	return s.Weekmask
}

func (s Spec) defaultSide() Side {
	if s.DefaultSide != "" {
		return s.DefaultSide
	}
	if len(s.OpenTimes) == 1 && len(s.CloseTimes) == 1 &&
		s.OpenTimes[0].Time == s.CloseTimes[0].Time {
		// No distinguishable open vs close on the clock (24h markets);
		// boundary minutes would collide on both/right.
		return SideLeft
	}
	return SideBoth
}

// Options selects the construction window and minute-inclusivity policy
// for a single Calendar instance.
type Options struct {
	// Start / End are dates (midnight UTC); zero selects the default
	// window relative to Now.
	Start time.Time
	End   time.Time

	// Side defaults from the Spec; see Spec.DefaultSide.
	Side Side

	// Now anchors the default window; zero means time.Now(). Threading
	// it explicitly keeps construction a pure function of its inputs.
	Now time.Time
}

// ScheduleEntry is the canonical per-session schedule row. Open and
// Close are always set; BreakStart and BreakEnd are either both set or
// both zero.
type ScheduleEntry struct {
	Session    time.Time `json:"session"`
	Open       time.Time `json:"open"`
	Close      time.Time `json:"close"`
	BreakStart time.Time `json:"break_start,omitempty"`
	BreakEnd   time.Time `json:"break_end,omitempty"`
}

// HasBreak reports whether the session observes an intraday break.
func (e ScheduleEntry) HasBreak() bool {
	return !e.BreakStart.IsZero()
}

func sortDates(dates []time.Time) {
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
}
