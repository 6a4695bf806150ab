package exchanges

import (
	"time"

	"github.com/aristath/tradecal/internal/calendar"
	"github.com/aristath/tradecal/internal/holidays"
)

// The three Nasdaq Baltic exchanges share hours (10:00-16:00 EET) and
// most of the pan-Baltic holiday set; only the national days differ.
// https://nasdaqbaltic.com/statistics/en/calendar?holidays=1

// XTAL is the Tallinn Stock Exchange (Estonia).
func XTAL() calendar.Spec {
	return calendar.Spec{
		Name:       "XTAL",
		TZ:         mustLoadLocation("Europe/Tallinn"),
		OpenTimes:  at(10, 0),
		CloseTimes: at(16, 0),
		RegularHolidays: []calendar.DateRule{
			holidays.NewYearsDay(nil),
			holidays.Holiday{Name: "Independence Day", Month: time.February, Day: 24},
			holidays.GoodFriday(),
			holidays.EasterMonday(),
			holidays.Holiday{Name: "Spring Day", Month: time.May, Day: 1},
			holidays.AscensionDay(),
			holidays.Holiday{Name: "Victory Day", Month: time.June, Day: 23},
			holidays.Holiday{Name: "Saint John's Day", Month: time.June, Day: 24},
			holidays.Holiday{Name: "Independence Restoration Day", Month: time.August, Day: 20},
			holidays.ChristmasEve(),
			holidays.BoxingDay(),
			holidays.NewYearsEve(),
		},
		AdhocHolidays: []time.Time{
			date(2023, time.December, 25), // additional day off
		},
	}
}

// XLIT is the Vilnius Stock Exchange (Lithuania).
func XLIT() calendar.Spec {
	return calendar.Spec{
		Name:       "XLIT",
		TZ:         mustLoadLocation("Europe/Vilnius"),
		OpenTimes:  at(10, 0),
		CloseTimes: at(16, 0),
		RegularHolidays: []calendar.DateRule{
			holidays.NewYearsDay(nil),
			holidays.Holiday{Name: "Restoration of the State", Month: time.February, Day: 16},
			holidays.Holiday{Name: "Restoration of Independence", Month: time.March, Day: 11},
			holidays.GoodFriday(),
			holidays.EasterMonday(),
			holidays.EuropeanLabourDay(),
			holidays.AscensionDay(),
			holidays.Holiday{Name: "St. John's Day", Month: time.June, Day: 24},
			holidays.Holiday{Name: "Statehood Day", Month: time.July, Day: 6},
			holidays.AssumptionDay(),
			holidays.AllSaintsDay(),
			holidays.Holiday{Name: "All Souls' Day", Month: time.November, Day: 2},
			holidays.ChristmasEve(),
			holidays.BoxingDay(),
			holidays.NewYearsEve(),
		},
		AdhocHolidays: []time.Time{
			date(2023, time.December, 25), // additional day off
		},
	}
}

// XRIS is the Nasdaq Riga Stock Exchange (Latvia).
func XRIS() calendar.Spec {
	return calendar.Spec{
		Name:       "XRIS",
		TZ:         mustLoadLocation("Europe/Riga"),
		OpenTimes:  at(10, 0),
		CloseTimes: at(16, 0),
		RegularHolidays: []calendar.DateRule{
			holidays.NewYearsDay(nil),
			holidays.GoodFriday(),
			holidays.EasterMonday(),
			holidays.EuropeanLabourDay(),
			holidays.Holiday{
				Name: "Restoration of Independence", Month: time.May, Day: 4,
				Observance: holidays.WeekendToMonday,
			},
			holidays.AscensionDay(),
			holidays.Holiday{Name: "Midsummer's Eve", Month: time.June, Day: 23},
			holidays.Holiday{Name: "Midsummer's Day", Month: time.June, Day: 24},
			holidays.Holiday{
				Name: "Proclamation Day", Month: time.November, Day: 18,
				Observance: holidays.WeekendToMonday,
			},
			holidays.ChristmasEve(),
			holidays.BoxingDay(),
			holidays.NewYearsEve(),
		},
		AdhocHolidays: []time.Time{
			date(2028, time.July, 10),     // Latvian Song and Dance Festival (every 5 years)
			date(2025, time.November, 17), // additional day off, Latvia's National Day
			date(2025, time.May, 2),       // additional day off
			date(2024, time.December, 30), // compensation for working 28 December
			date(2024, time.December, 23), // compensation for working 14 December
			date(2023, time.December, 25), // additional day off
			date(2023, time.July, 10),     // Latvian Song and Dance Festival
			date(2023, time.May, 5),       // bridge day, compensated Saturday 20 May
			date(2018, time.May, 9),       // Latvian Song and Dance Festival
		},
	}
}
