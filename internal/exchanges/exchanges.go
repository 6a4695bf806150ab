// Package exchanges holds the built-in calendar definitions. Each
// exchange is a plain data record (a calendar.Spec); the construction
// engine lives in internal/calendar and never knows which exchange it is
// building.
package exchanges

import (
	"time"

	"github.com/aristath/tradecal/internal/calendar"
)

// Aliases maps common exchange names to their canonical calendar name.
var Aliases = map[string]string{
	"NYSE":      "XNYS",
	"New York":  "XNYS",
	"Tallinn":   "XTAL",
	"Vilnius":   "XLIT",
	"Riga":      "XRIS",
	"Cyprus":    "XCYS",
	"Bermuda":   "XBDA",
	"CME":       "us_futures",
	"OPEN":      "24/7",
	"ALWAYS_ON": "24/7",
}

// All returns every built-in calendar definition, keyed by canonical
// name.
func All() map[string]calendar.Spec {
	specs := []calendar.Spec{
		XTAL(),
		XLIT(),
		XRIS(),
		XCYS(),
		XBDA(),
		XDEM(),
		XNYS(),
		USFutures(),
		AlwaysOpen(),
	}
	out := make(map[string]calendar.Spec, len(specs))
	for _, s := range specs {
		out[s.Name] = s
	}
	return out
}

// Names returns the canonical calendar names in registration order.
func Names() []string {
	return []string{"XTAL", "XLIT", "XRIS", "XCYS", "XBDA", "XDEM", "XNYS", "us_futures", "24/7"}
}

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

func at(hour, minute int) []calendar.TimeRule {
	return []calendar.TimeRule{{Time: calendar.TimeOfDay{Hour: hour, Minute: minute}}}
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
