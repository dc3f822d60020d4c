package api

import (
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/okian/touchline/internal/domain/model"
)

const (
	secondsPerMinute = 60
	maxEditMinute    = math.MaxInt / secondsPerMinute
)

type goalRequest struct {
	RequestID string `json:"request_id"`
	Scorer    string `json:"scorer"`
	Assist    string `json:"assist"`
	Side      string `json:"side"`
}

type incidentRequest struct {
	RequestID string `json:"request_id"`
	Kind      string `json:"kind"`
}

// timeEditRequest takes exactly one of Minute or Seconds.
type timeEditRequest struct {
	Minute  *int `json:"minute"`
	Seconds *int `json:"seconds"`
}

func (t timeEditRequest) raw() (int, error) {
	switch {
	case t.Minute != nil && t.Seconds != nil:
		return 0, fmt.Errorf("%w: give minute or seconds, not both", ErrBadRequest)
	case t.Minute != nil:
		if *t.Minute < 0 || *t.Minute > maxEditMinute {
			return 0, fmt.Errorf("%w: minute must be between 0 and %d", ErrBadRequest, maxEditMinute)
		}
		return *t.Minute * secondsPerMinute, nil
	case t.Seconds != nil:
		return *t.Seconds, nil
	}
	return 0, fmt.Errorf("%w: missing minute or seconds", ErrBadRequest)
}

func (s *Server) handlePostGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	side, err := model.ParseSide(req.Side)
	if err != nil || side == model.SideNone {
		s.writeError(w, r, fmt.Errorf("%w: side must be home or away", ErrBadRequest))
		return
	}
	ack, err := s.session.RecordGoal(r.Context(), req.RequestID, req.Scorer, req.Assist, side)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ack)
}

func (s *Server) handlePostIncident(w http.ResponseWriter, r *http.Request) {
	var req incidentRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if strings.TrimSpace(req.Kind) == "" {
		s.writeError(w, r, fmt.Errorf("%w: missing kind", ErrBadRequest))
		return
	}
	ack, err := s.session.RecordIncident(r.Context(), req.RequestID, req.Kind)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ack)
}

func (s *Server) handleDelete(kind model.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, err := pathIndex(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if err := s.session.Delete(r.Context(), kind, index); err != nil {
			s.writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) handleEditTime(kind model.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, err := pathIndex(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		var req timeEditRequest
		if err := decodeJSON(r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}
		raw, err := req.raw()
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if err := s.session.EditTime(r.Context(), kind, index, raw); err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, s.session.State())
	}
}
