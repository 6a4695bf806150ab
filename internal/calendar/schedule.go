package calendar

import (
	"fmt"
	"sort"
	"time"
)

// scheduleBuilder holds the mutable buffers used while turning a Spec
// into the canonical per-session schedule. Buffers are only frozen into
// ScheduleEntry values once every override has been applied, so the
// session-integrity invariants are checked at a single finalization
// point.
type scheduleBuilder struct {
	spec  Spec
	start time.Time
	end   time.Time

	sessions    []time.Time
	sessionIdx  map[int64]int // session date nanos -> position
	holidaySet  map[int64]bool
	opens       []int64
	closes      []int64
	breakStarts []int64 // natNanos where no break
	breakEnds   []int64

	specialOpenSessions  []time.Time
	specialCloseSessions []time.Time
}

// buildSchedule runs the full construction pipeline: candidate sessions, default
// times, special offsets, special opens/closes, break removal and final
// validation.
func buildSchedule(spec Spec, start, end time.Time) (*scheduleBuilder, error) {
	b := &scheduleBuilder{spec: spec, start: start, end: end}

	if err := b.collectSessions(); err != nil {
		return nil, err
	}
	if err := b.assignDefaultTimes(); err != nil {
		return nil, err
	}
	if err := b.applySpecialOffsets(); err != nil {
		return nil, err
	}
	if err := b.applySpecialTimes(); err != nil {
		return nil, err
	}
	b.removePreemptedBreaks()
	if err := b.validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// collectSessions generates every date in [start, end] matching the
// weekmask (honouring special weekmask periods) that is not a regular or
// ad-hoc holiday.
func (b *scheduleBuilder) collectSessions() error {
	mask := b.spec.weekmask()
	if err := validateWeekmask(mask); err != nil {
		return fmt.Errorf("calendar %s: %w", b.spec.Name, err)
	}
	for _, p := range b.spec.SpecialWeekmasks {
		if err := validateWeekmask(p.Weekmask); err != nil {
			return fmt.Errorf("calendar %s: special weekmask: %w", b.spec.Name, err)
		}
	}

	b.holidaySet = make(map[int64]bool)
	for _, rule := range b.spec.RegularHolidays {
		for _, d := range rule.Dates(b.start, b.end) {
			b.holidaySet[nanosOf(dateOf(d))] = true
		}
	}
	for _, d := range b.spec.AdhocHolidays {
		b.holidaySet[nanosOf(dateOf(d))] = true
	}

	b.sessionIdx = make(map[int64]int)
	for d := b.start; !d.After(b.end); d = d.AddDate(0, 0, 1) {
		if !weekmaskIncludes(b.maskFor(d), d) {
			continue
		}
		if b.holidaySet[nanosOf(d)] {
			continue
		}
		b.sessionIdx[nanosOf(d)] = len(b.sessions)
		b.sessions = append(b.sessions, d)
	}

	if len(b.sessions) == 0 {
		return &NoSessionsError{Name: b.spec.Name, Start: b.start, End: b.end}
	}
	return nil
}

func (b *scheduleBuilder) maskFor(date time.Time) string {
	for _, p := range b.spec.SpecialWeekmasks {
		if !date.Before(dateOf(p.Start)) && !date.After(dateOf(p.End)) {
			return p.Weekmask
		}
	}
	return b.spec.weekmask()
}

// assignDefaultTimes resolves the time-varying open/close/break rules to
// one absolute UTC instant per session.
func (b *scheduleBuilder) assignDefaultTimes() error {
	if len(b.spec.OpenTimes) == 0 || len(b.spec.CloseTimes) == 0 {
		return fmt.Errorf("calendar %s: open and close times are required", b.spec.Name)
	}
	hasBreakStart := len(b.spec.BreakStartTimes) > 0
	hasBreakEnd := len(b.spec.BreakEndTimes) > 0
	if hasBreakStart != hasBreakEnd {
		return &BreakMismatchError{Sessions: []time.Time{b.start}}
	}

	b.opens = b.resolveTimes(b.spec.OpenTimes, b.spec.OpenOffsetDays)
	b.closes = b.resolveTimes(b.spec.CloseTimes, b.spec.CloseOffsetDays)
	if hasBreakStart {
		b.breakStarts = b.resolveTimes(b.spec.BreakStartTimes, 0)
		b.breakEnds = b.resolveTimes(b.spec.BreakEndTimes, 0)
	} else {
		b.breakStarts = filledNanos(len(b.sessions), natNanos)
		b.breakEnds = filledNanos(len(b.sessions), natNanos)
	}
	return nil
}

// resolveTimes picks, per session, the rule whose Since is the latest
// one not after the session date.
func (b *scheduleBuilder) resolveTimes(rules []TimeRule, offsetDays int) []int64 {
	sorted := make([]TimeRule, len(rules))
	copy(sorted, rules)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Since.Before(sorted[j].Since) })

	out := make([]int64, len(b.sessions))
	for i, session := range b.sessions {
		rule := sorted[0]
		for _, r := range sorted[1:] {
			if r.Since.After(session) {
				break
			}
			rule = r
		}
		out[i] = nanosOf(rule.Time.on(session, b.spec.TZ, offsetDays))
	}
	return out
}

// applySpecialOffsets shifts the default times by the declared signed
// durations. Offsets apply before absolute special opens/closes, so an
// absolute override always wins for a date carrying both. Offset dates
// that are not sessions are skipped: offsets adjust defaults rather than
// asserting that a session exists.
func (b *scheduleBuilder) applySpecialOffsets() error {
	for _, so := range b.spec.SpecialOffsets {
		if so.Rule == nil {
			continue
		}
		for _, d := range so.Rule.Dates(b.start, b.end) {
			idx, ok := b.sessionIdx[nanosOf(dateOf(d))]
			if !ok {
				continue
			}
			b.opens[idx] += int64(so.Open)
			b.closes[idx] += int64(so.Close)
			if b.breakStarts[idx] != natNanos {
				b.breakStarts[idx] += int64(so.BreakStart)
				b.breakEnds[idx] += int64(so.BreakEnd)
			}
		}
	}
	return nil
}

// applySpecialTimes overwrites opens and closes with the absolute special
// times. Special dates coinciding with a holiday are dropped (the rule
// fired on a non-trading day); any other date that is not a session is a
// construction error.
func (b *scheduleBuilder) applySpecialTimes() error {
	opens, err := b.expandSpecialTimes(b.spec.SpecialOpens, b.spec.OpenOffsetDays)
	if err != nil {
		return err
	}
	closes, err := b.expandSpecialTimes(b.spec.SpecialCloses, b.spec.CloseOffsetDays)
	if err != nil {
		return err
	}
	for idx, v := range opens {
		b.opens[idx] = v
		b.specialOpenSessions = append(b.specialOpenSessions, b.sessions[idx])
	}
	for idx, v := range closes {
		b.closes[idx] = v
		b.specialCloseSessions = append(b.specialCloseSessions, b.sessions[idx])
	}
	sortDates(b.specialOpenSessions)
	sortDates(b.specialCloseSessions)
	return nil
}

func (b *scheduleBuilder) expandSpecialTimes(specials []SpecialTime, offsetDays int) (map[int]int64, error) {
	out := make(map[int]int64)
	var bad []time.Time
	for _, st := range specials {
		if st.Rule == nil {
			continue
		}
		for _, d := range st.Rule.Dates(b.start, b.end) {
			d = dateOf(d)
			if b.holidaySet[nanosOf(d)] {
				continue
			}
			idx, ok := b.sessionIdx[nanosOf(d)]
			if !ok {
				bad = append(bad, d)
				continue
			}
			out[idx] = nanosOf(st.Time.on(d, b.spec.TZ, offsetDays))
		}
	}
	if len(bad) > 0 {
		sortDates(bad)
		return nil, &SpecialDatesError{Dates: bad}
	}
	return out, nil
}

// removePreemptedBreaks drops the break of every session whose close was
// overridden by a special close: the override replaces the whole back
// half of the session, so the break goes regardless of where the new
// close lands. It also sweeps for any session whose close, shifted by a
// special offset, now falls at or before its break start.
func (b *scheduleBuilder) removePreemptedBreaks() {
	for _, s := range b.specialCloseSessions {
		idx := b.sessionIdx[nanosOf(s)]
		b.breakStarts[idx] = natNanos
		b.breakEnds[idx] = natNanos
	}
	for i := range b.sessions {
		if b.breakStarts[i] == natNanos {
			continue
		}
		if b.closes[i] <= b.breakStarts[i] {
			b.breakStarts[i] = natNanos
			b.breakEnds[i] = natNanos
		}
	}
}

// validate freezes the invariants: aligned arrays, matched break
// presence, open < (break_start < break_end <) close, and non-overlap
// with the previous session (abutting is permitted for 24h calendars).
func (b *scheduleBuilder) validate() error {
	n := len(b.sessions)
	for _, arr := range [][]int64{b.opens, b.closes, b.breakStarts, b.breakEnds} {
		if len(arr) != n {
			return &MisalignedDatesError{Sessions: n, Times: len(arr)}
		}
	}

	var mismatched []time.Time
	for i := range b.sessions {
		if (b.breakStarts[i] == natNanos) != (b.breakEnds[i] == natNanos) {
			mismatched = append(mismatched, b.sessions[i])
		}
	}
	if len(mismatched) > 0 {
		return &BreakMismatchError{Sessions: mismatched}
	}

	for i, session := range b.sessions {
		if b.opens[i] >= b.closes[i] {
			return fmt.Errorf(
				"calendar %s: session %s has open %s not earlier than close %s",
				b.spec.Name, session.Format("2006-01-02"),
				timeOf(b.opens[i]).Format(time.RFC3339), timeOf(b.closes[i]).Format(time.RFC3339),
			)
		}
		if b.breakStarts[i] != natNanos {
			if b.opens[i] >= b.breakStarts[i] || b.breakStarts[i] >= b.breakEnds[i] || b.breakEnds[i] >= b.closes[i] {
				return fmt.Errorf(
					"calendar %s: session %s break %s-%s does not nest inside %s-%s",
					b.spec.Name, session.Format("2006-01-02"),
					timeOf(b.breakStarts[i]).Format(time.RFC3339), timeOf(b.breakEnds[i]).Format(time.RFC3339),
					timeOf(b.opens[i]).Format(time.RFC3339), timeOf(b.closes[i]).Format(time.RFC3339),
				)
			}
		}
		if i > 0 && b.opens[i] < b.closes[i-1] {
			return fmt.Errorf(
				"calendar %s: session %s opens at %s, before the previous session's close %s",
				b.spec.Name, session.Format("2006-01-02"),
				timeOf(b.opens[i]).Format(time.RFC3339), timeOf(b.closes[i-1]).Format(time.RFC3339),
			)
		}
	}
	return nil
}

func (b *scheduleBuilder) entries() []ScheduleEntry {
	out := make([]ScheduleEntry, len(b.sessions))
	for i, session := range b.sessions {
		e := ScheduleEntry{
			Session: session,
			Open:    timeOf(b.opens[i]),
			Close:   timeOf(b.closes[i]),
		}
		if b.breakStarts[i] != natNanos {
			e.BreakStart = timeOf(b.breakStarts[i])
			e.BreakEnd = timeOf(b.breakEnds[i])
		}
		out[i] = e
	}
	return out
}

func validateWeekmask(mask string) error {
	if len(mask) != 7 {
		return fmt.Errorf("weekmask %q must have exactly 7 digits", mask)
	}
	open := false
	for _, c := range mask {
		switch c {
		case '1':
			open = true
		case '0':
		default:
			return fmt.Errorf("weekmask %q may only contain '0' and '1'", mask)
		}
	}
	if !open {
		return fmt.Errorf("weekmask %q must include at least one trading day", mask)
	}
	return nil
}

// weekmaskIncludes reads the mask Monday-first, matching the numpy
// busdaycalendar convention the exchange data follows.
func weekmaskIncludes(mask string, date time.Time) bool {
	idx := (int(date.Weekday()) + 6) % 7
	return mask[idx] == '1'
}

func filledNanos(n int, v int64) []int64 {
	out := make([]int64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
