// Package api exposes one match session over HTTP and a websocket feed.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/okian/touchline/internal/domain/model"
	"github.com/okian/touchline/internal/domain/scoring"
	"github.com/okian/touchline/internal/domain/types"
	"github.com/okian/touchline/pkg/logger"
)

// maxBodyBytes bounds request bodies; every payload here is a few fields.
const maxBodyBytes = 64 << 10

// Session is the match the handlers drive.
type Session interface {
	ID() string

	StartClock(ctx context.Context) error
	PauseClock(ctx context.Context) error
	HalfTime(ctx context.Context) (types.Ack, error)
	FullTime(ctx context.Context) (types.Ack, error)
	Reset(ctx context.Context) error
	SetRegulationSeconds(ctx context.Context, n int) error

	RecordGoal(ctx context.Context, requestID, scorer, assist string, side model.Side) (types.Ack, error)
	RecordIncident(ctx context.Context, requestID, label string) (types.Ack, error)
	Delete(ctx context.Context, kind model.Kind, index int) error
	EditTime(ctx context.Context, kind model.Kind, index, raw int) error
	RenameTeam(ctx context.Context, side model.Side, name string) error

	ClockView() types.ClockView
	Timeline() []types.TimelineEntry
	Summary() scoring.Summary
	SummaryText() (text, shareURL string)
	Roster() []string
	State() types.State
}

// Server wires HTTP routes for the match API.
type Server struct {
	session Session
	hub     *Hub
	logger  logger.Logger

	healthHandler *HealthHandler
}

// NewServer creates a new API server. hub may be nil, in which case /ws is
// not registered.
func NewServer(session Session, hub *Hub, l logger.Logger) *Server {
	return &Server{
		session:       session,
		hub:           hub,
		logger:        l,
		healthHandler: NewHealthHandler(session),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("GET /metrics", MetricsHandler())
	if s.hub != nil {
		mux.HandleFunc("GET /ws", MetricsMiddleware(s.handleFeed, "ws"))
	}

	mux.HandleFunc("GET /clock", MetricsMiddleware(s.handleGetClock, "clock"))
	mux.HandleFunc("POST /clock/start", MetricsMiddleware(s.handleStart, "clock_start"))
	mux.HandleFunc("POST /clock/pause", MetricsMiddleware(s.handlePause, "clock_pause"))
	mux.HandleFunc("POST /clock/half-time", MetricsMiddleware(s.handleHalfTime, "clock_half_time"))
	mux.HandleFunc("POST /clock/full-time", MetricsMiddleware(s.handleFullTime, "clock_full_time"))
	mux.HandleFunc("POST /clock/reset", MetricsMiddleware(s.handleReset, "clock_reset"))
	mux.HandleFunc("PUT /clock/regulation", MetricsMiddleware(s.handleRegulation, "clock_regulation"))

	mux.HandleFunc("POST /goals", MetricsMiddleware(s.handlePostGoal, "goals"))
	mux.HandleFunc("DELETE /goals/{index}", MetricsMiddleware(s.handleDelete(model.KindGoal), "goals_delete"))
	mux.HandleFunc("PATCH /goals/{index}/time", MetricsMiddleware(s.handleEditTime(model.KindGoal), "goals_time"))
	mux.HandleFunc("POST /incidents", MetricsMiddleware(s.handlePostIncident, "incidents"))
	mux.HandleFunc("DELETE /incidents/{index}", MetricsMiddleware(s.handleDelete(model.KindIncident), "incidents_delete"))
	mux.HandleFunc("PATCH /incidents/{index}/time", MetricsMiddleware(s.handleEditTime(model.KindIncident), "incidents_time"))

	mux.HandleFunc("GET /timeline", MetricsMiddleware(s.handleTimeline, "timeline"))
	mux.HandleFunc("GET /summary", MetricsMiddleware(s.handleSummary, "summary"))
	mux.HandleFunc("GET /summary/text", MetricsMiddleware(s.handleSummaryText, "summary_text"))
	mux.HandleFunc("PUT /teams/{side}", MetricsMiddleware(s.handleRenameTeam, "teams"))
	mux.HandleFunc("GET /roster", MetricsMiddleware(s.handleRoster, "roster"))
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	greeting := types.FeedMessage{Type: types.FeedState, Data: s.session.State()}
	if err := s.hub.Serve(w, r, &greeting); err != nil {
		s.logger.Warn(r.Context(), "websocket connection rejected", logger.Error(err))
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed",
			logger.String("path", r.URL.Path),
			logger.String("method", r.Method),
			logger.Error(err),
		)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: err.Error()})
}

// decodeJSON reads a bounded JSON body into v. An empty body leaves v as is.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return nil
}

func pathIndex(r *http.Request) (int, error) {
	raw := r.PathValue("index")
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: invalid index %q", ErrBadRequest, raw)
	}
	return n, nil
}
