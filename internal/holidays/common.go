package holidays

import "time"

// Pre-built rules for the holidays shared by most Western exchanges.
// Exchange definitions compose these rather than redeclaring the same
// month/day pairs everywhere.

func NewYearsDay(observance Observance) Holiday {
	return Holiday{Name: "New Year's Day", Month: time.January, Day: 1, Observance: observance}
}

func Epiphany() Holiday {
	return Holiday{Name: "Epiphany", Month: time.January, Day: 6}
}

func EuropeanLabourDay() Holiday {
	return Holiday{Name: "Labour Day", Month: time.May, Day: 1}
}

func AssumptionDay() Holiday {
	return Holiday{Name: "Assumption Day", Month: time.August, Day: 15}
}

func AllSaintsDay() Holiday {
	return Holiday{Name: "All Saints' Day", Month: time.November, Day: 1}
}

func ChristmasEve() Holiday {
	return Holiday{Name: "Christmas Eve", Month: time.December, Day: 24}
}

func Christmas(observance Observance) Holiday {
	return Holiday{Name: "Christmas Day", Month: time.December, Day: 25, Observance: observance}
}

func BoxingDay() Holiday {
	return Holiday{Name: "Boxing Day", Month: time.December, Day: 26}
}

func NewYearsEve() Holiday {
	return Holiday{Name: "New Year's Eve", Month: time.December, Day: 31}
}

func MaundyThursday() EasterHoliday {
	return EasterHoliday{Name: "Maundy Thursday", Offset: -3, Calendar: Gregorian}
}

func GoodFriday() EasterHoliday {
	return EasterHoliday{Name: "Good Friday", Offset: -2, Calendar: Gregorian}
}

func EasterMonday() EasterHoliday {
	return EasterHoliday{Name: "Easter Monday", Offset: 1, Calendar: Gregorian}
}

func AscensionDay() EasterHoliday {
	return EasterHoliday{Name: "Ascension Day", Offset: 39, Calendar: Gregorian}
}

func WhitMonday() EasterHoliday {
	return EasterHoliday{Name: "Whit Monday", Offset: 50, Calendar: Gregorian}
}

func OrthodoxGoodFriday() EasterHoliday {
	return EasterHoliday{Name: "Orthodox Good Friday", Offset: -2, Calendar: Julian}
}

func OrthodoxEasterMonday() EasterHoliday {
	return EasterHoliday{Name: "Orthodox Easter Monday", Offset: 1, Calendar: Julian}
}

func OrthodoxWhitMonday() EasterHoliday {
	return EasterHoliday{Name: "Orthodox Whit Monday", Offset: 50, Calendar: Julian}
}
