package exchanges

import (
	"time"

	"github.com/aristath/tradecal/internal/calendar"
	"github.com/aristath/tradecal/internal/holidays"
)

// XNYS is the New York Stock Exchange, 09:30-16:00 Eastern with 13:00
// early closes on the day after Thanksgiving and on weekday Christmas
// Eves.
func XNYS() calendar.Spec {
	return calendar.Spec{
		Name:       "XNYS",
		TZ:         mustLoadLocation("America/New_York"),
		OpenTimes:  at(9, 30),
		CloseTimes: at(16, 0),
		RegularHolidays: []calendar.DateRule{
			// A New Year's Day on Saturday is not made up the Friday
			// before; the year simply starts on a trading day.
			holidays.NewYearsDay(holidays.SundayToMonday),
			holidays.NthWeekdayHoliday{
				Name: "Martin Luther King Jr. Day", Month: time.January,
				Weekday: time.Monday, N: 3, StartYear: 1998,
			},
			holidays.NthWeekdayHoliday{
				Name: "Washington's Birthday", Month: time.February,
				Weekday: time.Monday, N: 3,
			},
			holidays.GoodFriday(),
			holidays.NthWeekdayHoliday{
				Name: "Memorial Day", Month: time.May,
				Weekday: time.Monday, N: -1,
			},
			holidays.Holiday{
				Name: "Juneteenth", Month: time.June, Day: 19,
				Observance: holidays.NearestWeekday, StartYear: 2022,
			},
			holidays.Holiday{
				Name: "Independence Day", Month: time.July, Day: 4,
				Observance: holidays.NearestWeekday,
			},
			holidays.NthWeekdayHoliday{
				Name: "Labor Day", Month: time.September,
				Weekday: time.Monday, N: 1,
			},
			holidays.NthWeekdayHoliday{
				Name: "Thanksgiving", Month: time.November,
				Weekday: time.Thursday, N: 4,
			},
			holidays.Christmas(holidays.NearestWeekday),
		},
		SpecialCloses: []calendar.SpecialTime{
			{
				Time: calendar.TimeOfDay{Hour: 13},
				Rule: holidays.NthWeekdayHoliday{
					Name: "Day After Thanksgiving", Month: time.November,
					Weekday: time.Thursday, N: 4, Offset: 1,
				},
			},
			{
				Time: calendar.TimeOfDay{Hour: 13},
				// Weekend Christmas Eves roll into the Christmas
				// observance itself and get no early close.
				Rule: holidays.Holiday{
					Name: "Christmas Eve", Month: time.December, Day: 24,
					DaysOfWeek: []time.Weekday{
						time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
					},
				},
			},
			{
				Time: calendar.TimeOfDay{Hour: 13},
				// July 3rd is a half day when Independence Day lands on
				// a weekday other than Monday.
				Rule: holidays.Holiday{
					Name: "Day Before Independence Day", Month: time.July, Day: 3,
					DaysOfWeek: []time.Weekday{
						time.Tuesday, time.Wednesday, time.Thursday,
					},
				},
			},
		},
		AdhocHolidays: []time.Time{
			date(2025, time.January, 9),  // national day of mourning for Jimmy Carter
			date(2018, time.December, 5), // national day of mourning for George H.W. Bush
			date(2012, time.October, 29), // hurricane Sandy
			date(2012, time.October, 30), // hurricane Sandy
			date(2007, time.January, 2),  // national day of mourning for Gerald Ford
		},
	}
}
