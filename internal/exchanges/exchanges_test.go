package exchanges

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/tradecal/internal/calendar"
)

func buildYear(t *testing.T, spec calendar.Spec, year int) *calendar.Calendar {
	t.Helper()
	c, err := calendar.New(spec, calendar.Options{
		Start: date(year, time.January, 1),
		End:   date(year, time.December, 31),
	})
	require.NoError(t, err)
	return c
}

func TestAll_EverySpecBuilds(t *testing.T) {
	for name, spec := range All() {
		t.Run(name, func(t *testing.T) {
			c, err := calendar.New(spec, calendar.Options{
				Start: date(2018, time.January, 1),
				End:   date(2023, time.December, 31),
			})
			require.NoError(t, err)
			assert.Equal(t, name, c.Name())
			assert.NotEmpty(t, c.Sessions())
		})
	}
}

func TestNames_MatchesAll(t *testing.T) {
	specs := All()
	names := Names()
	require.Len(t, names, len(specs))
	for _, name := range names {
		assert.Contains(t, specs, name)
	}
}

func TestAliases_PointAtCanonicalNames(t *testing.T) {
	specs := All()
	for alias, canonical := range Aliases {
		assert.Contains(t, specs, canonical, "alias %s", alias)
		assert.NotContains(t, specs, alias)
	}
}

func TestXNYS_2021(t *testing.T) {
	c := buildYear(t, XNYS(), 2021)

	holidays := []time.Time{
		date(2021, time.January, 1),   // New Year's Day
		date(2021, time.January, 18),  // MLK Day
		date(2021, time.February, 15), // Washington's Birthday
		date(2021, time.April, 2),     // Good Friday
		date(2021, time.May, 31),      // Memorial Day
		date(2021, time.July, 5),      // Independence Day observed
		date(2021, time.September, 6), // Labor Day
		date(2021, time.November, 25), // Thanksgiving
		date(2021, time.December, 24), // Christmas observed
	}
	for _, h := range holidays {
		assert.False(t, c.IsSession(h), "%s should be a holiday", h.Format("2006-01-02"))
	}

	// Juneteenth only becomes a holiday from 2022.
	assert.True(t, c.IsSession(date(2021, time.June, 18)))
	assert.Len(t, c.Sessions(), 252)

	open, err := c.SessionOpen(date(2021, time.March, 1))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2021, time.March, 1, 14, 30, 0, 0, time.UTC), open)

	// Day after Thanksgiving closes at 13:00 New York.
	assert.Equal(t, []time.Time{date(2021, time.November, 26)}, c.EarlyCloses())
	closeT, err := c.SessionClose(date(2021, time.November, 26))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2021, time.November, 26, 18, 0, 0, 0, time.UTC), closeT)
}

func TestXNYS_Juneteenth2022(t *testing.T) {
	c := buildYear(t, XNYS(), 2022)

	// 2022-06-19 falls on a Sunday, observed Monday the 20th.
	assert.False(t, c.IsSession(date(2022, time.June, 20)))
	assert.True(t, c.IsSession(date(2022, time.June, 17)))
}

func TestXTAL_2021(t *testing.T) {
	c := buildYear(t, XTAL(), 2021)

	assert.False(t, c.IsSession(date(2021, time.February, 24))) // Independence Day
	assert.False(t, c.IsSession(date(2021, time.June, 23)))     // Victory Day
	assert.False(t, c.IsSession(date(2021, time.June, 24)))     // Saint John's Day
	assert.False(t, c.IsSession(date(2021, time.April, 2)))     // Good Friday
	assert.True(t, c.IsSession(date(2021, time.June, 22)))

	// 10:00 EET is 08:00 UTC in winter.
	open, err := c.SessionOpen(date(2021, time.January, 4))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2021, time.January, 4, 8, 0, 0, 0, time.UTC), open)
}

func TestXCYS_OrthodoxHolidays2021(t *testing.T) {
	c := buildYear(t, XCYS(), 2021)

	// Orthodox Easter 2021 fell on May 2.
	assert.False(t, c.IsSession(date(2021, time.March, 15))) // Green Monday (Easter -48)
	assert.False(t, c.IsSession(date(2021, time.April, 30))) // Orthodox Good Friday
	assert.False(t, c.IsSession(date(2021, time.May, 3)))    // Orthodox Easter Monday
	assert.False(t, c.IsSession(date(2021, time.May, 4)))    // Orthodox Easter Tuesday
	assert.False(t, c.IsSession(date(2021, time.June, 21)))  // Holy Spirit Day (Easter +50)
	// Western Good Friday is also observed.
	assert.False(t, c.IsSession(date(2021, time.April, 2)))
}

func TestXDEM_Schedule(t *testing.T) {
	spec := XDEM()
	c, err := calendar.New(spec, calendar.Options{
		Start: date(2019, time.January, 1),
		End:   date(2021, time.December, 31),
	})
	require.NoError(t, err)

	// Open moved from 10:00 to 09:30 at the start of 2020.
	open, err := c.SessionOpen(date(2019, time.December, 30))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2019, time.December, 30, 10, 0, 0, 0, time.UTC), open)

	open, err = c.SessionOpen(date(2020, time.January, 2))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2020, time.January, 2, 9, 30, 0, 0, time.UTC), open)

	// Midday break.
	hasBreak, err := c.SessionHasBreak(date(2021, time.March, 3))
	require.NoError(t, err)
	assert.True(t, hasBreak)

	// Half days on the last Friday of June and December.
	assert.Contains(t, c.EarlyCloses(), date(2021, time.June, 25))
	closeT, err := c.SessionClose(date(2021, time.June, 25))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2021, time.June, 25, 13, 0, 0, 0, time.UTC), closeT)

	// Half days trade straight through: the early close drops the break
	// even though 13:00 falls after the regular 12:00-12:30 window.
	hasBreak, err = c.SessionHasBreak(date(2021, time.June, 25))
	require.NoError(t, err)
	assert.False(t, hasBreak)
}

func TestUSFutures_OvernightSessions(t *testing.T) {
	c := buildYear(t, USFutures(), 2021)

	// A session opens at 18:01 New York time the evening before its
	// date (23:01 UTC in winter).
	open, err := c.SessionOpen(date(2021, time.January, 5))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2021, time.January, 4, 23, 1, 0, 0, time.UTC), open)

	closeT, err := c.SessionClose(date(2021, time.January, 5))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2021, time.January, 5, 23, 0, 0, 0, time.UTC), closeT)
}

func TestUSFutures_BoundStart(t *testing.T) {
	_, err := calendar.New(USFutures(), calendar.Options{
		Start: date(1999, time.January, 4),
		End:   date(2001, time.January, 4),
	})
	var rangeErr *calendar.RangeError
	require.ErrorAs(t, err, &rangeErr)
}

func TestAlwaysOpen_TradesEveryDay(t *testing.T) {
	c := buildYear(t, AlwaysOpen(), 2021)

	assert.Equal(t, calendar.SideLeft, c.Side())
	assert.Len(t, c.Sessions(), 365)
	assert.True(t, c.IsSession(date(2021, time.December, 25)))

	minutes, err := c.MinutesForSession(date(2021, time.August, 14)) // a Saturday
	require.NoError(t, err)
	assert.Len(t, minutes, 1440)
}
