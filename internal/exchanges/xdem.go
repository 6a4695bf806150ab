package exchanges

import (
	"time"

	"github.com/teambition/rrule-go"

	"github.com/aristath/tradecal/internal/calendar"
	"github.com/aristath/tradecal/internal/holidays"
)

// XDEM is a synthetic demonstration exchange: UTC sessions from 09:30 to
// 16:00 with a 12:00-12:30 lunch break, a 13:00 early close on the last
// Friday of June and December, and a handful of fixed holidays. It
// exists so that break, early-close and time-variation handling can be
// exercised without depending on any real exchange's history.
func XDEM() calendar.Spec {
	return calendar.Spec{
		Name: "XDEM",
		TZ:   time.UTC,
		OpenTimes: []calendar.TimeRule{
			{Time: calendar.TimeOfDay{Hour: 10}},
			// Sessions moved half an hour earlier from 2020.
			{Since: date(2020, time.January, 1), Time: calendar.TimeOfDay{Hour: 9, Minute: 30}},
		},
		CloseTimes:      at(16, 0),
		BreakStartTimes: at(12, 0),
		BreakEndTimes:   at(12, 30),
		RegularHolidays: []calendar.DateRule{
			holidays.NewYearsDay(nil),
			holidays.GoodFriday(),
			holidays.EuropeanLabourDay(),
			holidays.Christmas(nil),
			holidays.BoxingDay(),
		},
		SpecialCloses: []calendar.SpecialTime{
			{
				Time: calendar.TimeOfDay{Hour: 13},
				Rule: holidays.MustRecurrence("Half Day", rrule.ROption{
					Freq:      rrule.YEARLY,
					Bymonth:   []int{6, 12},
					Byweekday: []rrule.Weekday{rrule.FR.Nth(-1)},
				}),
			},
		},
	}
}
