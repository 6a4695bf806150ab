package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/aristath/tradecal/internal/calendar"
	"github.com/aristath/tradecal/internal/registry"
	"github.com/aristath/tradecal/pkg/formulas"
)

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("failed to encode response")
	}
}

// writeError maps domain errors to HTTP statuses: unknown names are 404,
// bad or out-of-range arguments are 400, everything else is 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	var (
		unknown    registry.UnknownCalendarError
		instance   registry.InstanceOptionsError
		rangeErr   *calendar.RangeError
		bounds     *calendar.OutOfBoundsError
		notSession *calendar.NotSessionError
		notMinute  *calendar.NotTradingMinuteError
		badReq     badRequestError
	)
	switch {
	case errors.As(err, &unknown):
		status = http.StatusNotFound
	case errors.As(err, &instance),
		errors.As(err, &rangeErr),
		errors.As(err, &bounds),
		errors.As(err, &notSession),
		errors.As(err, &notMinute),
		errors.As(err, &badReq):
		status = http.StatusBadRequest
	}

	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

// badRequestError marks query-parameter parse failures.
type badRequestError struct {
	err error
}

func (e badRequestError) Error() string { return e.err.Error() }

func badRequest(format string, args ...any) error {
	return badRequestError{err: fmt.Errorf(format, args...)}
}

// handleHealth returns service health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// calendarFromRequest resolves the {name} path parameter, applying the
// optional side/start/end query parameters as construction options.
func (s *Server) calendarFromRequest(r *http.Request) (*calendar.Calendar, error) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil {
		return nil, badRequest("invalid calendar name: %v", err)
	}

	var opts calendar.Options
	q := r.URL.Query()
	if side := q.Get("side"); side != "" {
		opts.Side = calendar.Side(side)
	}
	if opts.Start, err = parseDateParam(q.Get("window_start")); err != nil {
		return nil, err
	}
	if opts.End, err = parseDateParam(q.Get("window_end")); err != nil {
		return nil, err
	}
	return s.registry.Get(name, opts)
}

func parseDateParam(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation("2006-01-02", value, time.UTC)
	if err != nil {
		return time.Time{}, badRequest("invalid date %q, want YYYY-MM-DD", value)
	}
	return t, nil
}

func parseTimeParam(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, badRequest("invalid time %q, want RFC 3339", value)
	}
	return t, nil
}

// handleListCalendars lists registered calendar names
func (s *Server) handleListCalendars(w http.ResponseWriter, r *http.Request) {
	names := s.registry.Names()
	sort.Strings(names)
	s.writeJSON(w, http.StatusOK, map[string]any{"calendars": names})
}

// handleCalendarInfo returns a calendar summary
func (s *Server) handleCalendarInfo(w http.ResponseWriter, r *http.Request) {
	cal, err := s.calendarFromRequest(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"name":          cal.Name(),
		"timezone":      cal.TZ().String(),
		"side":          cal.Side(),
		"first_session": cal.FirstSession(),
		"last_session":  cal.LastSession(),
		"first_minute":  cal.FirstMinute(),
		"last_minute":   cal.LastMinute(),
		"sessions":      len(cal.Sessions()),
		"has_breaks":    cal.HasBreaks(),
		"late_opens":    len(cal.LateOpens()),
		"early_closes":  len(cal.EarlyCloses()),
	})
}

// rangeFromRequest reads the optional start/end query parameters,
// defaulting to the calendar's full range.
func rangeFromRequest(r *http.Request, cal *calendar.Calendar) (start, end time.Time, err error) {
	if start, err = parseDateParam(r.URL.Query().Get("start")); err != nil {
		return
	}
	if end, err = parseDateParam(r.URL.Query().Get("end")); err != nil {
		return
	}
	if start.IsZero() {
		start = cal.FirstSession()
	}
	if end.IsZero() {
		end = cal.LastSession()
	}
	return
}

// handleSchedule returns schedule entries in a date range
func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	cal, err := s.calendarFromRequest(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	start, end, err := rangeFromRequest(r, cal)
	if err != nil {
		s.writeError(w, err)
		return
	}

	entries := make([]calendar.ScheduleEntry, 0)
	for _, session := range cal.SessionsInRange(start, end) {
		entry, err := cal.SessionEntry(session)
		if err != nil {
			s.writeError(w, err)
			return
		}
		entries = append(entries, entry)
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"calendar": cal.Name(),
		"schedule": entries,
	})
}

// handleSessions returns session dates in a date range
func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	cal, err := s.calendarFromRequest(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	start, end, err := rangeFromRequest(r, cal)
	if err != nil {
		s.writeError(w, err)
		return
	}
	sessions := cal.SessionsInRange(start, end)
	dates := make([]string, len(sessions))
	for i, session := range sessions {
		dates[i] = session.Format("2006-01-02")
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"calendar": cal.Name(),
		"sessions": dates,
	})
}

// handleStatus reports the calendar's state at a given minute (default
// now): whether the exchange is open, the containing or nearest session
// and the surrounding open/close dividers.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	cal, err := s.calendarFromRequest(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	minute, err := parseTimeParam(r.URL.Query().Get("minute"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if minute.IsZero() {
		minute = time.Now().UTC()
	}
	if minute.Before(cal.FirstMinute()) || minute.After(cal.LastMinute()) {
		s.writeError(w, badRequest("minute %s outside calendar range [%s, %s]",
			minute.Format(time.RFC3339), cal.FirstMinute().Format(time.RFC3339),
			cal.LastMinute().Format(time.RFC3339)))
		return
	}

	resp := map[string]any{
		"calendar":                cal.Name(),
		"minute":                  minute.UTC(),
		"is_trading":              cal.IsTradingMinute(minute),
		"is_break":                cal.IsBreakMinute(minute),
		"is_open_ignoring_breaks": cal.IsOpenOnMinute(minute, true),
	}
	if next, err := cal.NextOpen(minute); err == nil {
		resp["next_open"] = next
	}
	if next, err := cal.NextClose(minute); err == nil {
		resp["next_close"] = next
	}
	if prev, err := cal.PreviousClose(minute); err == nil {
		resp["previous_close"] = prev
	}
	if session, err := cal.MinuteToSession(minute, calendar.DirectionNext); err == nil {
		resp["session"] = session.Format("2006-01-02")
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// handleTradingIndex generates a trading index over a date range
func (s *Server) handleTradingIndex(w http.ResponseWriter, r *http.Request) {
	cal, err := s.calendarFromRequest(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	start, end, err := rangeFromRequest(r, cal)
	if err != nil {
		s.writeError(w, err)
		return
	}

	q := r.URL.Query()
	periodMinutes, err := strconv.Atoi(q.Get("period"))
	if err != nil {
		s.writeError(w, badRequest("invalid period %q, want whole minutes", q.Get("period")))
		return
	}
	period := time.Duration(periodMinutes) * time.Minute

	opts := calendar.TradingIndexOptions{
		Closed:          calendar.Closed(q.Get("closed")),
		ForceClose:      q.Get("force_close") == "true",
		ForceBreakClose: q.Get("force_break_close") == "true",
		CurtailOverlaps: q.Get("curtail_overlaps") == "true",
	}

	if q.Get("intervals") == "true" {
		intervals, err := cal.TradingIndexIntervals(start, end, period, opts)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]any{
			"calendar":  cal.Name(),
			"intervals": intervals,
		})
		return
	}

	points, err := cal.TradingIndex(start, end, period, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"calendar": cal.Name(),
		"index":    points,
	})
}

// handleStats returns session-duration statistics over a date range
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	cal, err := s.calendarFromRequest(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	start, end, err := rangeFromRequest(r, cal)
	if err != nil {
		s.writeError(w, err)
		return
	}

	sessions := cal.SessionsInRange(start, end)
	entries := make([]calendar.ScheduleEntry, 0, len(sessions))
	for _, session := range sessions {
		entry, err := cal.SessionEntry(session)
		if err != nil {
			s.writeError(w, err)
			return
		}
		entries = append(entries, entry)
	}

	stats := formulas.SessionStats(entries)
	s.writeJSON(w, http.StatusOK, map[string]any{
		"calendar": cal.Name(),
		"start":    start.Format("2006-01-02"),
		"end":      end.Format("2006-01-02"),
		"stats":    stats,
	})
}
