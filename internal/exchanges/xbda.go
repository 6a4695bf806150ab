package exchanges

import (
	"time"

	"github.com/aristath/tradecal/internal/calendar"
	"github.com/aristath/tradecal/internal/holidays"
)

// bermudaDay locates Bermuda Day, whose reckoning has changed twice.
func bermudaDay(year int) (time.Time, bool) {
	switch {
	case year <= 2017 || year == 2019:
		// May 24th, shifted off weekends to the following Monday.
		return holidays.WeekendToMonday(date(year, time.May, 24)), true
	case year <= 2020:
		// Last Friday in May.
		return holidays.LastWeekdayOf(year, time.May, time.Friday), true
	default:
		// Friday before the last Monday in May.
		return holidays.LastWeekdayOf(year, time.May, time.Monday).AddDate(0, 0, -3), true
	}
}

// queensBirthday locates the Queen's Birthday holiday, discontinued
// after 2008.
func queensBirthday(year int) (time.Time, bool) {
	switch {
	case year <= 1999:
		return holidays.NthWeekdayOf(year, time.June, time.Monday, 3), true
	case year <= 2008:
		// Monday after the second Saturday in June.
		return holidays.NthWeekdayOf(year, time.June, time.Saturday, 2).AddDate(0, 0, 2), true
	default:
		return time.Time{}, false
	}
}

// nationalHeroesDay replaced the Queen's Birthday holiday in 2018.
func nationalHeroesDay(year int) (time.Time, bool) {
	if year < 2018 {
		return time.Time{}, false
	}
	return holidays.NthWeekdayOf(year, time.June, time.Monday, 3), true
}

// XBDA is the Bermuda Stock Exchange. Christmas Eve is a 14:00 early
// close rather than a full holiday.
// https://www.bsx.com/trading-hours-and-holidays
func XBDA() calendar.Spec {
	return calendar.Spec{
		Name:       "XBDA",
		TZ:         mustLoadLocation("Atlantic/Bermuda"),
		OpenTimes:  at(9, 0),
		CloseTimes: at(16, 30),
		RegularHolidays: []calendar.DateRule{
			holidays.NewYearsDay(holidays.WeekendToMonday),
			holidays.GoodFriday(),
			holidays.Yearly(bermudaDay),
			holidays.Yearly(nationalHeroesDay),
			holidays.Yearly(queensBirthday),
			// Emancipation Day: Thursday before the first Monday in
			// August (named Cup Match Day until 2000), and the Friday
			// after it (Mary Prince Day since 2020, Somers Day before).
			holidays.NthWeekdayHoliday{
				Name: "Emancipation Day", Month: time.August,
				Weekday: time.Monday, N: 1, Offset: -4,
			},
			holidays.NthWeekdayHoliday{
				Name: "Mary Prince Day", Month: time.August,
				Weekday: time.Monday, N: 1, Offset: -3,
			},
			holidays.NthWeekdayHoliday{
				Name: "Labour Day", Month: time.September,
				Weekday: time.Monday, N: 1,
			},
			holidays.Holiday{
				Name: "Remembrance Day", Month: time.November, Day: 11,
				Observance: holidays.WeekendToMonday,
			},
			holidays.Christmas(holidays.WeekendToMonday),
			holidays.Holiday{
				Name: "Boxing Day", Month: time.December, Day: 26,
				Observance: nextMondayOrTuesday,
			},
		},
		SpecialCloses: []calendar.SpecialTime{
			{
				Time: calendar.TimeOfDay{Hour: 14},
				Rule: holidays.Holiday{
					Name: "Christmas Eve", Month: time.December, Day: 24,
					Observance: previousFriday,
				},
			},
		},
		AdhocHolidays: []time.Time{
			date(2023, time.May, 8),      // coronation of King Charles III
			date(2022, time.September, 19), // Queen Elizabeth II funeral
			date(2021, time.October, 18), // Flora Duffy Day
			date(2019, time.November, 4), // Portuguese Welcome 170th anniversary
			date(2007, time.January, 5),  // public holiday
		},
	}
}

// nextMondayOrTuesday pushes a weekend date, or a Monday following an
// observed weekend holiday, to the next free weekday. Used for Boxing
// Day, which trails Christmas.
func nextMondayOrTuesday(d time.Time) time.Time {
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return d.AddDate(0, 0, 2)
	case time.Monday:
		return d.AddDate(0, 0, 1)
	}
	return d
}

// previousFriday pulls a weekend date back to the preceding Friday.
func previousFriday(d time.Time) time.Time {
	switch d.Weekday() {
	case time.Saturday:
		return d.AddDate(0, 0, -1)
	case time.Sunday:
		return d.AddDate(0, 0, -2)
	}
	return d
}
