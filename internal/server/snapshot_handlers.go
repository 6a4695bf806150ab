package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aristath/tradecal/internal/store"
)

// handleCreateSnapshot freezes the calendar's current schedule
func (s *Server) handleCreateSnapshot(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, badRequest("snapshot store is not configured"))
		return
	}
	cal, err := s.calendarFromRequest(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	snap, err := s.store.SaveSnapshot(r.Context(), cal)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, snap)
}

// handleListSnapshots lists stored snapshots, optionally filtered by
// calendar
func (s *Server) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, badRequest("snapshot store is not configured"))
		return
	}
	snaps, err := s.store.ListSnapshots(r.Context(), r.URL.Query().Get("calendar"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if snaps == nil {
		snaps = []store.Snapshot{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"snapshots": snaps})
}

// handleGetSnapshot returns one snapshot with its schedule rows
func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, badRequest("snapshot store is not configured"))
		return
	}
	snap, entries, err := s.store.GetSnapshot(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"snapshot": snap,
		"schedule": entries,
	})
}

// handleDeleteSnapshot removes a snapshot
func (s *Server) handleDeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, badRequest("snapshot store is not configured"))
		return
	}
	if err := s.store.DeleteSnapshot(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
