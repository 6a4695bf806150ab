package exchanges

import (
	"time"

	"github.com/aristath/tradecal/internal/calendar"
	"github.com/aristath/tradecal/internal/holidays"
)

// USFutures is a synthetic calendar spanning the US futures exchanges
// (CME, CFE, ICE): each session opens at 18:01 Eastern on the evening
// before its date and closes at 18:00 on the date itself.
func USFutures() calendar.Spec {
	return calendar.Spec{
		Name:           "us_futures",
		TZ:             mustLoadLocation("America/New_York"),
		OpenTimes:      at(18, 1),
		CloseTimes:     at(18, 0),
		OpenOffsetDays: -1,
		RegularHolidays: []calendar.DateRule{
			holidays.NewYearsDay(holidays.SundayToMonday),
			holidays.GoodFriday(),
			holidays.Christmas(holidays.NearestWeekday),
		},
		BoundStart: date(2000, time.January, 1),
	}
}

// AlwaysOpen is the 24/7 calendar: every day is a session running the
// full day, with no holidays or breaks. Open and close coincide on the
// clock, so the default side is left.
func AlwaysOpen() calendar.Spec {
	return calendar.Spec{
		Name:            "24/7",
		TZ:              time.UTC,
		Weekmask:        "1111111",
		OpenTimes:       at(0, 0),
		CloseTimes:      at(0, 0),
		CloseOffsetDays: 1,
	}
}
