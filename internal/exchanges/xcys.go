package exchanges

import (
	"time"

	"github.com/aristath/tradecal/internal/calendar"
	"github.com/aristath/tradecal/internal/holidays"
)

// XCYS is the Cyprus Stock Exchange. It observes both the Western and
// the Orthodox Easter cycles.
// https://www.cse.com.cy/en-GB/regulated-market/market-indices/other-information/Public-Holiday/
func XCYS() calendar.Spec {
	return calendar.Spec{
		Name:       "XCYS",
		TZ:         mustLoadLocation("Asia/Nicosia"),
		OpenTimes:  at(10, 30),
		CloseTimes: at(17, 0),
		RegularHolidays: []calendar.DateRule{
			holidays.NewYearsDay(nil),
			holidays.Epiphany(),
			holidays.EasterHoliday{Name: "Green Monday", Offset: -48, Calendar: holidays.Julian},
			holidays.Holiday{Name: "Greek Independence Day", Month: time.March, Day: 25},
			holidays.Holiday{Name: "Cyprus National Day", Month: time.April, Day: 1},
			holidays.GoodFriday(),
			holidays.EasterMonday(),
			holidays.OrthodoxGoodFriday(),
			holidays.OrthodoxEasterMonday(),
			holidays.EasterHoliday{Name: "Orthodox Easter Tuesday", Offset: 2, Calendar: holidays.Julian},
			holidays.EuropeanLabourDay(),
			holidays.EasterHoliday{Name: "Holy Spirit Day", Offset: 50, Calendar: holidays.Julian},
			holidays.AssumptionDay(),
			holidays.Holiday{Name: "Cyprus Independence Day", Month: time.October, Day: 1},
			holidays.Holiday{Name: "Okhi Day", Month: time.October, Day: 28},
			holidays.ChristmasEve(),
			holidays.Christmas(nil),
			holidays.BoxingDay(),
		},
	}
}
