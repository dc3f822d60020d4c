package api

import (
	"fmt"
	"net/http"

	"github.com/okian/touchline/internal/domain/model"
)

type renameRequest struct {
	Name string `json:"name"`
}

type summaryTextResponse struct {
	Text     string `json:"text"`
	ShareURL string `json:"share_url"`
}

func (s *Server) handleTimeline(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Timeline())
}

func (s *Server) handleSummary(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Summary())
}

// handleSummaryText serves plain text unless the client asks for JSON.
func (s *Server) handleSummaryText(w http.ResponseWriter, r *http.Request) {
	text, link := s.session.SummaryText()
	if r.Header.Get("Accept") == "application/json" {
		writeJSON(w, http.StatusOK, summaryTextResponse{Text: text, ShareURL: link})
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Link", "<"+link+`>; rel="share"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(text))
}

func (s *Server) handleRenameTeam(w http.ResponseWriter, r *http.Request) {
	side, err := model.ParseSide(r.PathValue("side"))
	if err != nil || side == model.SideNone {
		s.writeError(w, r, fmt.Errorf("%w: side must be home or away", ErrBadRequest))
		return
	}
	var req renameRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.session.RenameTeam(r.Context(), side, req.Name); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.session.State())
}

func (s *Server) handleRoster(w http.ResponseWriter, _ *http.Request) {
	roster := s.session.Roster()
	if roster == nil {
		roster = []string{}
	}
	writeJSON(w, http.StatusOK, roster)
}
