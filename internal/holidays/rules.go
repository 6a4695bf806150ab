// Package holidays expands declarative holiday rules into concrete
// dates. Every rule kind produces, for a date range, a sorted list of
// UTC dates; the calendar engine consumes those lists and never inspects
// the rules themselves.
package holidays

import (
	"sort"
	"time"

	"github.com/teambition/rrule-go"
)

// Observance shifts a holiday date that falls inconveniently (typically
// on a weekend) to the date actually observed.
type Observance func(time.Time) time.Time

// NearestWeekday observes Saturday holidays on Friday and Sunday
// holidays on Monday.
func NearestWeekday(d time.Time) time.Time {
	switch d.Weekday() {
	case time.Saturday:
		return d.AddDate(0, 0, -1)
	case time.Sunday:
		return d.AddDate(0, 0, 1)
	}
	return d
}

// SundayToMonday observes Sunday holidays on Monday and leaves every
// other day alone.
func SundayToMonday(d time.Time) time.Time {
	if d.Weekday() == time.Sunday {
		return d.AddDate(0, 0, 1)
	}
	return d
}

// WeekendToMonday observes both Saturday and Sunday holidays on the
// following Monday.
func WeekendToMonday(d time.Time) time.Time {
	switch d.Weekday() {
	case time.Saturday:
		return d.AddDate(0, 0, 2)
	case time.Sunday:
		return d.AddDate(0, 0, 1)
	}
	return d
}

// Holiday is a fixed month/day rule with optional observance shift,
// weekday restriction and year clamps.
type Holiday struct {
	Name  string
	Month time.Month
	Day   int

	// Observance, when set, maps the nominal date to the observed one.
	Observance Observance

	// DaysOfWeek, when non-empty, keeps only nominal dates falling on
	// one of the listed weekdays.
	DaysOfWeek []time.Weekday

	// StartYear / EndYear clamp the rule to [StartYear, EndYear]; zero
	// means unbounded.
	StartYear int
	EndYear   int
}

// Dates returns the rule's observed dates within [start, end], sorted.
func (h Holiday) Dates(start, end time.Time) []time.Time {
	var out []time.Time
	for year := start.Year() - 1; year <= end.Year()+1; year++ {
		if (h.StartYear != 0 && year < h.StartYear) || (h.EndYear != 0 && year > h.EndYear) {
			continue
		}
		d := time.Date(year, h.Month, h.Day, 0, 0, 0, 0, time.UTC)
		if len(h.DaysOfWeek) > 0 && !weekdayIn(d.Weekday(), h.DaysOfWeek) {
			continue
		}
		if h.Observance != nil {
			d = h.Observance(d)
		}
		if inRange(d, start, end) {
			out = append(out, d)
		}
	}
	sortAscending(out)
	return out
}

// NthWeekdayHoliday is an "nth weekday of month" rule; N of -1 means the
// last occurrence. Offset shifts the located date by whole days, which
// covers rules like "the Friday after the fourth Thursday" (Offset 1) or
// "the Thursday before the first Monday" (Offset -4).
type NthWeekdayHoliday struct {
	Name    string
	Month   time.Month
	Weekday time.Weekday
	N       int
	Offset  int

	StartYear int
	EndYear   int
}

// Dates returns the rule's dates within [start, end], sorted.
func (h NthWeekdayHoliday) Dates(start, end time.Time) []time.Time {
	var out []time.Time
	for year := start.Year(); year <= end.Year(); year++ {
		if (h.StartYear != 0 && year < h.StartYear) || (h.EndYear != 0 && year > h.EndYear) {
			continue
		}
		var d time.Time
		if h.N == -1 {
			d = LastWeekdayOf(year, h.Month, h.Weekday)
		} else {
			d = NthWeekdayOf(year, h.Month, h.Weekday, h.N)
		}
		if h.Offset != 0 {
			d = d.AddDate(0, 0, h.Offset)
		}
		if inRange(d, start, end) {
			out = append(out, d)
		}
	}
	return out
}

// EasterHoliday is a rule at a signed day offset from Easter Sunday.
type EasterHoliday struct {
	Name     string
	Offset   int // days relative to Easter Sunday; negative is before
	Calendar EasterCalendar

	StartYear int
	EndYear   int
}

// Dates returns the rule's dates within [start, end], sorted.
func (h EasterHoliday) Dates(start, end time.Time) []time.Time {
	var out []time.Time
	for year := start.Year(); year <= end.Year(); year++ {
		if (h.StartYear != 0 && year < h.StartYear) || (h.EndYear != 0 && year > h.EndYear) {
			continue
		}
		d := Easter(year, h.Calendar).AddDate(0, 0, h.Offset)
		if inRange(d, start, end) {
			out = append(out, d)
		}
	}
	return out
}

// Recurrence wraps an RFC-5545 recurrence for anything not expressible
// as the simpler rule kinds ("first trading weekday of the month" style
// special opens and the like).
type Recurrence struct {
	Name string
	rule rrule.ROption
}

// NewRecurrence validates the recurrence options up front so Dates never
// has to fail.
func NewRecurrence(name string, opt rrule.ROption) (Recurrence, error) {
	probe := opt
	probe.Dtstart = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	if _, err := rrule.NewRRule(probe); err != nil {
		return Recurrence{}, err
	}
	return Recurrence{Name: name, rule: opt}, nil
}

// MustRecurrence is NewRecurrence for statically-declared exchange data,
// panicking on malformed options.
func MustRecurrence(name string, opt rrule.ROption) Recurrence {
	r, err := NewRecurrence(name, opt)
	if err != nil {
		panic(err)
	}
	return r
}

// Dates returns the recurrence's dates within [start, end], sorted.
func (r Recurrence) Dates(start, end time.Time) []time.Time {
	opt := r.rule
	opt.Dtstart = start.UTC()
	rr, err := rrule.NewRRule(opt)
	if err != nil {
		// Options were validated at construction; an error here would be
		// a bug in the caller mutating the rule.
		return nil
	}
	occurrences := rr.Between(start.UTC(), end.UTC(), true)
	out := make([]time.Time, 0, len(occurrences))
	for _, o := range occurrences {
		o = o.UTC()
		out = append(out, time.Date(o.Year(), o.Month(), o.Day(), 0, 0, 0, 0, time.UTC))
	}
	sortAscending(out)
	return out
}

// Yearly adapts a per-year date function to a rule. Returning ok false
// skips the year, for holidays that only exist in part of the supported
// range or whose reckoning changed over time.
type Yearly func(year int) (time.Time, bool)

// Dates returns the function's dates within [start, end], sorted.
func (f Yearly) Dates(start, end time.Time) []time.Time {
	var out []time.Time
	for year := start.Year(); year <= end.Year(); year++ {
		if d, ok := f(year); ok && inRange(d, start, end) {
			out = append(out, d)
		}
	}
	return out
}

// NthWeekdayOf returns the nth occurrence (n >= 1) of weekday in the
// given month, as a UTC date.
func NthWeekdayOf(year int, month time.Month, weekday time.Weekday, n int) time.Time {
	d := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := int(weekday - d.Weekday())
	if offset < 0 {
		offset += 7
	}
	return d.AddDate(0, 0, offset+(n-1)*7)
}

// LastWeekdayOf returns the final occurrence of weekday in the given
// month, as a UTC date.
func LastWeekdayOf(year int, month time.Month, weekday time.Weekday) time.Time {
	d := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC) // last day of month
	offset := int(d.Weekday() - weekday)
	if offset < 0 {
		offset += 7
	}
	return d.AddDate(0, 0, -offset)
}

func weekdayIn(w time.Weekday, set []time.Weekday) bool {
	for _, s := range set {
		if s == w {
			return true
		}
	}
	return false
}

func inRange(d, start, end time.Time) bool {
	return !d.Before(start) && !d.After(end)
}

func sortAscending(dates []time.Time) {
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
}
