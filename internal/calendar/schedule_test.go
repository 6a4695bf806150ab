package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSchedule_HolidaysRemoveSessions(t *testing.T) {
	spec := equitySpec(t)
	spec.RegularHolidays = []DateRule{DateList{date(2021, time.January, 18)}}
	spec.AdhocHolidays = []time.Time{date(2021, time.January, 20)}

	c := build(t, spec, Options{
		Start: date(2021, time.January, 18),
		End:   date(2021, time.January, 22),
	})

	assert.Equal(t, []time.Time{
		date(2021, time.January, 19),
		date(2021, time.January, 21),
		date(2021, time.January, 22),
	}, c.Sessions())
}

func TestBuildSchedule_NoSessionsInWindow(t *testing.T) {
	_, err := New(equitySpec(t), Options{
		Start: date(2021, time.January, 2), // Saturday
		End:   date(2021, time.January, 3), // Sunday
	})
	var noSessions *NoSessionsError
	require.ErrorAs(t, err, &noSessions)
	assert.Equal(t, "TEST", noSessions.Name)
}

func TestBuildSchedule_WeekmaskValidation(t *testing.T) {
	tests := []struct {
		name     string
		weekmask string
		errMsg   string
	}{
		{"wrong length", "11111", "exactly 7 digits"},
		{"bad digit", "11111x0", "may only contain"},
		{"all closed", "0000000", "at least one trading day"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := equitySpec(t)
			spec.Weekmask = tt.weekmask
			_, err := New(spec, Options{
				Start: date(2021, time.January, 4),
				End:   date(2021, time.January, 8),
			})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestBuildSchedule_SpecialWeekmaskPeriod(t *testing.T) {
	spec := equitySpec(t)
	spec.SpecialWeekmasks = []WeekmaskPeriod{{
		Start:    date(2021, time.March, 1),
		End:      date(2021, time.March, 7),
		Weekmask: "1111110", // Saturday trades that week
	}}

	c := build(t, spec, Options{
		Start: date(2021, time.March, 1),
		End:   date(2021, time.March, 14),
	})

	assert.True(t, c.IsSession(date(2021, time.March, 6)))
	assert.False(t, c.IsSession(date(2021, time.March, 7)))
	assert.False(t, c.IsSession(date(2021, time.March, 13))) // back to the default mask
}

func TestBuildSchedule_TimeVaryingOpen(t *testing.T) {
	spec := equitySpec(t)
	spec.OpenTimes = []TimeRule{
		{Time: TimeOfDay{Hour: 10, Minute: 0}},
		{Since: date(2021, time.June, 1), Time: TimeOfDay{Hour: 9, Minute: 30}},
	}

	c := build(t, spec, Options{
		Start: date(2021, time.May, 3),
		End:   date(2021, time.June, 4),
	})

	// EDT: 10:00 local is 14:00 UTC before the switch date.
	open, err := c.SessionOpen(date(2021, time.May, 3))
	require.NoError(t, err)
	assert.Equal(t, utc(2021, time.May, 3, 14, 0), open)

	// The rule with the latest Since not after the session wins; the
	// switch date itself already uses the new time.
	open, err = c.SessionOpen(date(2021, time.June, 1))
	require.NoError(t, err)
	assert.Equal(t, utc(2021, time.June, 1, 13, 30), open)
}

func TestBuildSchedule_OpenOffsetDays(t *testing.T) {
	// Futures style: the session opens the evening before its date.
	spec := Spec{
		Name:           "FUT",
		TZ:             newYork(t),
		OpenTimes:      []TimeRule{{Time: TimeOfDay{Hour: 18, Minute: 1}}},
		CloseTimes:     []TimeRule{{Time: TimeOfDay{Hour: 18, Minute: 0}}},
		OpenOffsetDays: -1,
	}

	c := build(t, spec, Options{
		Start: date(2021, time.January, 4),
		End:   date(2021, time.January, 8),
	})

	open, err := c.SessionOpen(date(2021, time.January, 5))
	require.NoError(t, err)
	assert.Equal(t, utc(2021, time.January, 4, 23, 1), open) // 18:01 EST the prior day

	closeT, err := c.SessionClose(date(2021, time.January, 5))
	require.NoError(t, err)
	assert.Equal(t, utc(2021, time.January, 5, 23, 0), closeT)
}

func TestBuildSchedule_SpecialClose(t *testing.T) {
	spec := equitySpec(t)
	spec.SpecialCloses = []SpecialTime{{
		Time: TimeOfDay{Hour: 13, Minute: 0},
		Rule: DateList{date(2021, time.January, 6)},
	}}

	c := build(t, spec, Options{
		Start: date(2021, time.January, 4),
		End:   date(2021, time.January, 8),
	})

	closeT, err := c.SessionClose(date(2021, time.January, 6))
	require.NoError(t, err)
	assert.Equal(t, utc(2021, time.January, 6, 18, 0), closeT) // 13:00 EST

	assert.Equal(t, []time.Time{date(2021, time.January, 6)}, c.EarlyCloses())
	assert.Empty(t, c.LateOpens())

	// Neighbouring sessions keep the regular close.
	closeT, err = c.SessionClose(date(2021, time.January, 5))
	require.NoError(t, err)
	assert.Equal(t, utc(2021, time.January, 5, 21, 0), closeT)
}

func TestBuildSchedule_SpecialOpen(t *testing.T) {
	spec := equitySpec(t)
	spec.SpecialOpens = []SpecialTime{{
		Time: TimeOfDay{Hour: 11, Minute: 0},
		Rule: DateList{date(2021, time.January, 7)},
	}}

	c := build(t, spec, Options{
		Start: date(2021, time.January, 4),
		End:   date(2021, time.January, 8),
	})

	open, err := c.SessionOpen(date(2021, time.January, 7))
	require.NoError(t, err)
	assert.Equal(t, utc(2021, time.January, 7, 16, 0), open) // 11:00 EST
	assert.Equal(t, []time.Time{date(2021, time.January, 7)}, c.LateOpens())
}

func TestBuildSchedule_SpecialCloseOnHolidayIsDropped(t *testing.T) {
	spec := equitySpec(t)
	spec.RegularHolidays = []DateRule{DateList{date(2021, time.January, 6)}}
	spec.SpecialCloses = []SpecialTime{{
		Time: TimeOfDay{Hour: 13, Minute: 0},
		Rule: DateList{date(2021, time.January, 6)},
	}}

	c := build(t, spec, Options{
		Start: date(2021, time.January, 4),
		End:   date(2021, time.January, 8),
	})

	// The override fired on a holiday; the date stays a holiday and no
	// early close is recorded.
	assert.False(t, c.IsSession(date(2021, time.January, 6)))
	assert.Empty(t, c.EarlyCloses())
}

func TestBuildSchedule_SpecialCloseOnNonSessionFails(t *testing.T) {
	spec := equitySpec(t)
	spec.SpecialCloses = []SpecialTime{{
		Time: TimeOfDay{Hour: 13, Minute: 0},
		Rule: DateList{date(2021, time.January, 9)}, // Saturday
	}}

	_, err := New(spec, Options{
		Start: date(2021, time.January, 4),
		End:   date(2021, time.January, 10),
	})
	var special *SpecialDatesError
	require.ErrorAs(t, err, &special)
	assert.Equal(t, []time.Time{date(2021, time.January, 9)}, special.Dates)
}

func TestBuildSchedule_SpecialOffsets(t *testing.T) {
	spec := equitySpec(t)
	spec.SpecialOffsets = []SpecialOffset{{
		Close: -2 * time.Hour,
		// The Saturday is silently skipped: offsets adjust sessions that
		// exist, they do not assert one does.
		Rule: DateList{date(2021, time.January, 6), date(2021, time.January, 9)},
	}}

	c := build(t, spec, Options{
		Start: date(2021, time.January, 4),
		End:   date(2021, time.January, 8),
	})

	closeT, err := c.SessionClose(date(2021, time.January, 6))
	require.NoError(t, err)
	assert.Equal(t, utc(2021, time.January, 6, 19, 0), closeT)
}

func TestBuildSchedule_AbsoluteOverrideBeatsOffset(t *testing.T) {
	spec := equitySpec(t)
	spec.SpecialOffsets = []SpecialOffset{{
		Close: -time.Hour,
		Rule:  DateList{date(2021, time.January, 6)},
	}}
	spec.SpecialCloses = []SpecialTime{{
		Time: TimeOfDay{Hour: 13, Minute: 0},
		Rule: DateList{date(2021, time.January, 6)},
	}}

	c := build(t, spec, Options{
		Start: date(2021, time.January, 4),
		End:   date(2021, time.January, 8),
	})

	closeT, err := c.SessionClose(date(2021, time.January, 6))
	require.NoError(t, err)
	assert.Equal(t, utc(2021, time.January, 6, 18, 0), closeT)
}

func TestBuildSchedule_EarlyClosePreemptsBreak(t *testing.T) {
	spec := breakSpec(t)
	spec.SpecialCloses = []SpecialTime{{
		Time: TimeOfDay{Hour: 11, Minute: 0},
		Rule: DateList{date(2021, time.January, 6)},
	}}

	c := build(t, spec, Options{
		Start: date(2021, time.January, 4),
		End:   date(2021, time.January, 8),
	})

	// Close moved to 11:00, before the 12:00 break: the break is gone.
	hasBreak, err := c.SessionHasBreak(date(2021, time.January, 6))
	require.NoError(t, err)
	assert.False(t, hasBreak)

	closeT, err := c.SessionClose(date(2021, time.January, 6))
	require.NoError(t, err)
	assert.Equal(t, utc(2021, time.January, 6, 16, 0), closeT)

	// Other sessions keep theirs.
	hasBreak, err = c.SessionHasBreak(date(2021, time.January, 5))
	require.NoError(t, err)
	assert.True(t, hasBreak)
}

func TestBuildSchedule_SpecialCloseAfterBreakRemovesBreak(t *testing.T) {
	spec := breakSpec(t)
	spec.SpecialCloses = []SpecialTime{{
		Time: TimeOfDay{Hour: 13, Minute: 0},
		Rule: DateList{date(2021, time.January, 6)},
	}}

	c := build(t, spec, Options{
		Start: date(2021, time.January, 4),
		End:   date(2021, time.January, 8),
	})

	// The 13:00 close lands after the 12:00-12:30 break, but an early
	// close replaces the whole back half of the session: no break.
	hasBreak, err := c.SessionHasBreak(date(2021, time.January, 6))
	require.NoError(t, err)
	assert.False(t, hasBreak)

	closeT, err := c.SessionClose(date(2021, time.January, 6))
	require.NoError(t, err)
	assert.Equal(t, utc(2021, time.January, 6, 18, 0), closeT) // 13:00 EST

	// The session trades straight through, so its last minute is the
	// close and no AM/PM split remains.
	last, err := c.SessionLastMinute(date(2021, time.January, 6))
	require.NoError(t, err)
	assert.Equal(t, closeT, last)

	lastAM, err := c.SessionLastAMMinute(date(2021, time.January, 6))
	require.NoError(t, err)
	assert.True(t, lastAM.IsZero())

	minutes, err := c.MinutesForSession(date(2021, time.January, 6))
	require.NoError(t, err)
	assert.Len(t, minutes, 211) // 09:30-13:00 inclusive, uninterrupted

	// Other sessions keep the lunch break.
	hasBreak, err = c.SessionHasBreak(date(2021, time.January, 5))
	require.NoError(t, err)
	assert.True(t, hasBreak)
}

func TestBuildSchedule_BreakTimesMustPair(t *testing.T) {
	spec := equitySpec(t)
	spec.BreakStartTimes = []TimeRule{{Time: TimeOfDay{Hour: 12, Minute: 0}}}

	_, err := New(spec, Options{
		Start: date(2021, time.January, 4),
		End:   date(2021, time.January, 8),
	})
	var mismatch *BreakMismatchError
	require.ErrorAs(t, err, &mismatch)
}

func TestBuildSchedule_RejectsInvertedTimes(t *testing.T) {
	spec := equitySpec(t)
	spec.OpenTimes = []TimeRule{{Time: TimeOfDay{Hour: 16, Minute: 0}}}
	spec.CloseTimes = []TimeRule{{Time: TimeOfDay{Hour: 9, Minute: 30}}}

	_, err := New(spec, Options{
		Start: date(2021, time.January, 4),
		End:   date(2021, time.January, 8),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not earlier than close")
}

func TestBuildSchedule_RejectsBreakOutsideSession(t *testing.T) {
	spec := breakSpec(t)
	spec.BreakEndTimes = []TimeRule{{Time: TimeOfDay{Hour: 17, Minute: 0}}} // past the close

	_, err := New(spec, Options{
		Start: date(2021, time.January, 4),
		End:   date(2021, time.January, 8),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not nest")
}

func TestBuildSchedule_RequiresOpenAndClose(t *testing.T) {
	spec := Spec{Name: "EMPTY", TZ: time.UTC}
	_, err := New(spec, Options{
		Start: date(2021, time.January, 4),
		End:   date(2021, time.January, 8),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open and close times are required")
}

func TestBuildSchedule_ScheduleEntries(t *testing.T) {
	c := build(t, breakSpec(t), Options{
		Start: date(2021, time.January, 4),
		End:   date(2021, time.January, 5),
	})

	entries := c.Schedule()
	require.Len(t, entries, 2)
	assert.Equal(t, ScheduleEntry{
		Session:    date(2021, time.January, 4),
		Open:       utc(2021, time.January, 4, 14, 30),
		Close:      utc(2021, time.January, 4, 21, 0),
		BreakStart: utc(2021, time.January, 4, 17, 0),
		BreakEnd:   utc(2021, time.January, 4, 17, 30),
	}, entries[0])

	entry, err := c.SessionEntry(date(2021, time.January, 5))
	require.NoError(t, err)
	assert.Equal(t, entries[1], entry)
}

func TestDateList_Dates(t *testing.T) {
	list := DateList{
		date(2021, time.March, 1),
		utc(2021, time.January, 15, 9, 0), // time component stripped
		date(2020, time.December, 25),
	}

	got := list.Dates(date(2021, time.January, 1), date(2021, time.December, 31))
	assert.Equal(t, []time.Time{
		date(2021, time.January, 15),
		date(2021, time.March, 1),
	}, got)
}
