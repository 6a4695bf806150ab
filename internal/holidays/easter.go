package holidays

import "time"

// EasterCalendar selects the computus used for Easter-relative rules.
type EasterCalendar int

const (
	// Gregorian is the Western (Catholic/Protestant) reckoning.
	Gregorian EasterCalendar = iota
	// Julian is the Orthodox reckoning; dates are returned converted to
	// the Gregorian calendar.
	Julian
)

// Easter returns Easter Sunday of year under the given reckoning, as a
// UTC date.
func Easter(year int, cal EasterCalendar) time.Time {
	if cal == Julian {
		return julianEaster(year)
	}
	return gregorianEaster(year)
}

// gregorianEaster implements the anonymous Gregorian computus.
func gregorianEaster(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451

	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// julianEaster implements the Julian computus and converts the result to
// the Gregorian calendar. The 13-day conversion holds for 1900-2099,
// which covers every supported calendar bound.
func julianEaster(year int) time.Time {
	a := year % 19
	b := year % 4
	c := year % 7
	d := (19*a + 15) % 30
	e := (2*b + 4*c + 6*d + 6) % 7

	day := 22 + d + e
	month := time.March
	if day > 31 {
		day -= 31
		month = time.April
	}
	julian := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return julian.AddDate(0, 0, 13)
}
