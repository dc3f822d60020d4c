package api

import (
	"fmt"
	"net/http"
)

type regulationRequest struct {
	Seconds int `json:"seconds"`
}

func (s *Server) handleGetClock(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.session.ClockView())
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	if err := s.session.StartClock(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.session.State())
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	if err := s.session.PauseClock(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.session.State())
}

func (s *Server) handleHalfTime(w http.ResponseWriter, r *http.Request) {
	if _, err := s.session.HalfTime(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.session.State())
}

func (s *Server) handleFullTime(w http.ResponseWriter, r *http.Request) {
	if _, err := s.session.FullTime(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.session.State())
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.session.Reset(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.session.State())
}

func (s *Server) handleRegulation(w http.ResponseWriter, r *http.Request) {
	var req regulationRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Seconds <= 0 {
		s.writeError(w, r, fmt.Errorf("%w: seconds must be positive", ErrBadRequest))
		return
	}
	if err := s.session.SetRegulationSeconds(r.Context(), req.Seconds); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.session.State())
}
