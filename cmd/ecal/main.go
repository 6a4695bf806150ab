// Command ecal prints a unix-cal style month grid for a trading
// calendar, marking non-sessions with brackets, and can export a
// calendar's schedule as CSV or print duration statistics.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aristath/tradecal/internal/calendar"
	"github.com/aristath/tradecal/internal/exchanges"
	"github.com/aristath/tradecal/internal/registry"
	"github.com/aristath/tradecal/pkg/formulas"
	"github.com/aristath/tradecal/pkg/logger"
)

const monthWidth = 28

func usage() {
	fmt.Fprintf(os.Stderr, `usage: %s [flags] CALENDAR [[MONTH] YEAR]

Prints a month (or whole year) grid with non-sessions bracketed.

Flags:
  -csv FILE   write the schedule for the calendar's full range as CSV
  -stats      print session duration statistics instead of a grid
  -side SIDE  construction side: left, right, both or neither
  -start DATE construction window start (YYYY-MM-DD)
  -end DATE   construction window end (YYYY-MM-DD)
`, os.Args[0])
	os.Exit(2)
}

func fatal(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}

func main() {
	csvPath := flag.String("csv", "", "write schedule CSV to this file")
	stats := flag.Bool("stats", false, "print session duration statistics")
	side := flag.String("side", "", "construction side")
	startArg := flag.String("start", "", "window start (YYYY-MM-DD)")
	endArg := flag.String("end", "", "window end (YYYY-MM-DD)")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 || len(args) > 3 {
		usage()
	}

	log := logger.New(logger.Config{Level: "warn", Pretty: true})
	reg := registry.New(log)
	for _, spec := range exchanges.All() {
		reg.Register(spec)
	}
	for alias, target := range exchanges.Aliases {
		if err := reg.RegisterAlias(alias, target); err != nil {
			fatal(err.Error())
		}
	}

	opts := calendar.Options{Side: calendar.Side(*side)}
	var err error
	if opts.Start, err = parseDate(*startArg); err != nil {
		fatal(err.Error())
	}
	if opts.End, err = parseDate(*endArg); err != nil {
		fatal(err.Error())
	}

	cal, err := reg.Get(args[0], opts)
	if err != nil {
		fatal(err.Error())
	}

	switch {
	case *csvPath != "":
		if err := writeCSV(cal, *csvPath); err != nil {
			fatal(err.Error())
		}
	case *stats:
		printStats(cal)
	default:
		now := time.Now()
		year, month := now.Year(), int(now.Month())
		switch len(args) {
		case 2:
			year = intArg(args[1], "YEAR")
			month = 0
		case 3:
			month = intArg(args[1], "MONTH")
			year = intArg(args[2], "YEAR")
			if month < 1 || month > 12 {
				fatal(fmt.Sprintf("MONTH must be 1-12, got: %d", month))
			}
		}
		if month != 0 {
			fmt.Println(renderMonth(cal, year, time.Month(month), true))
		} else {
			printYear(cal, year)
		}
	}
}

func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation("2006-01-02", value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", value)
	}
	return t, nil
}

func intArg(value, name string) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		fatal(fmt.Sprintf("%s must be an integer, got: %s", name, value))
	}
	return n
}

// renderMonth draws one month, Sunday first, non-sessions bracketed.
func renderMonth(cal *calendar.Calendar, year int, month time.Month, printYear bool) string {
	var b strings.Builder

	title := month.String()
	if printYear {
		title = fmt.Sprintf("%s %d", title, year)
	}
	pad := (monthWidth - len(title)) / 2
	b.WriteString(strings.Repeat(" ", pad) + title + "\n")
	b.WriteString(" Su  Mo  Tu  We  Th  Fr  Sa\n")

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	b.WriteString(strings.Repeat(" ", 4*int(first.Weekday())))

	for d := first; d.Month() == month; d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Sunday && d.Day() != 1 {
			b.WriteString("\n")
		}
		if cal.IsSession(d) {
			b.WriteString(fmt.Sprintf(" %2d ", d.Day()))
		} else {
			b.WriteString(fmt.Sprintf("[%2d]", d.Day()))
		}
	}
	b.WriteString("\n")
	return b.String()
}

// printYear lays months out three across, four down.
func printYear(cal *calendar.Calendar, year int) {
	title := strconv.Itoa(year)
	pad := (3*monthWidth + 6 - len(title)) / 2
	fmt.Println(strings.Repeat(" ", pad) + title)
	fmt.Println()

	for row := 0; row < 4; row++ {
		blocks := make([][]string, 3)
		height := 0
		for col := 0; col < 3; col++ {
			month := time.Month(row*3 + col + 1)
			blocks[col] = strings.Split(strings.TrimRight(renderMonth(cal, year, month, false), "\n"), "\n")
			if len(blocks[col]) > height {
				height = len(blocks[col])
			}
		}
		for line := 0; line < height; line++ {
			parts := make([]string, 3)
			for col := 0; col < 3; col++ {
				part := ""
				if line < len(blocks[col]) {
					part = blocks[col][line]
				}
				parts[col] = part + strings.Repeat(" ", monthWidth-len(part))
			}
			fmt.Println(strings.TrimRight(strings.Join(parts, "   "), " "))
		}
		fmt.Println()
	}
}

// writeCSV exports the full schedule as session,open,close,break_start,break_end.
func writeCSV(cal *calendar.Calendar, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"session", "open", "close", "break_start", "break_end"}); err != nil {
		return err
	}
	for _, e := range cal.Schedule() {
		record := []string{
			e.Session.Format("2006-01-02"),
			e.Open.Format(time.RFC3339),
			e.Close.Format(time.RFC3339),
			"", "",
		}
		if e.HasBreak() {
			record[3] = e.BreakStart.Format(time.RFC3339)
			record[4] = e.BreakEnd.Format(time.RFC3339)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// printStats prints duration statistics over the calendar's full range.
func printStats(cal *calendar.Calendar) {
	s := formulas.SessionStats(cal.Schedule())
	fmt.Printf("calendar:       %s\n", cal.Name())
	fmt.Printf("range:          %s .. %s\n",
		cal.FirstSession().Format("2006-01-02"), cal.LastSession().Format("2006-01-02"))
	fmt.Printf("sessions:       %d (%d with a break)\n", s.Sessions, s.WithBreak)
	fmt.Printf("mean duration:  %.1f min\n", s.MeanMinutes)
	fmt.Printf("median:         %.1f min\n", s.MedianMinutes)
	fmt.Printf("std dev:        %.1f min\n", s.StdDevMinutes)
	fmt.Printf("min/max:        %.0f / %.0f min\n", s.MinMinutes, s.MaxMinutes)
}
