package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mrwolf/journaly/internal/config"
	"github.com/mrwolf/journaly/internal/journal"
	"github.com/mrwolf/journaly/internal/llm"
	"github.com/mrwolf/journaly/internal/models"
	"github.com/mrwolf/journaly/internal/stats"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

const (
	recentEntries = 5
	replyTimeout  = 60 * time.Second
)

// ErrorResponse is the standard error response format
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func writeError(w http.ResponseWriter, status int, message, code string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error: message,
		Code:  code,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeServiceError maps journal and store errors to HTTP responses
func (h *Handlers) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, journal.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, err.Error(), "SESSION_NOT_FOUND")
	case errors.Is(err, models.ErrEntryNotFound):
		writeError(w, http.StatusNotFound, err.Error(), "ENTRY_NOT_FOUND")
	case errors.Is(err, journal.ErrComposing):
		writeError(w, http.StatusConflict, err.Error(), "COMPOSING")
	case errors.Is(err, journal.ErrInvalidState):
		writeError(w, http.StatusConflict, err.Error(), "INVALID_STATE")
	case errors.Is(err, journal.ErrEmptyMessage):
		writeError(w, http.StatusBadRequest, err.Error(), "EMPTY_MESSAGE")
	case errors.Is(err, journal.ErrInvalidMood):
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_MOOD")
	case errors.Is(err, stats.ErrUnknownRange):
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_RANGE")
	default:
		h.logger.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL")
	}
}

type Handlers struct {
	cfg      *config.Config
	journal  *journal.Service
	gateway  *llm.Gateway
	logger   *zap.Logger
	validate *validator.Validate
	loc      *time.Location
	now      func() time.Time
}

func NewHandlers(cfg *config.Config, svc *journal.Service, gateway *llm.Gateway, logger *zap.Logger) *Handlers {
	return &Handlers{
		cfg:      cfg,
		journal:  svc,
		gateway:  gateway,
		logger:   logger,
		validate: validator.New(),
		loc:      cfg.Location(),
		now:      time.Now,
	}
}

// decode reads a JSON body into dst and validates it. It writes the error
// response itself and reports whether the handler should continue.
func (h *Handlers) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	// an empty body decodes as an empty object
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body", "INVALID_BODY")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation failed",
			Code:    "VALIDATION_ERROR",
			Details: formatValidationError(err),
		})
		return false
	}
	return true
}

func formatValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", field, e.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", field, e.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", field))
		}
	}
	return strings.Join(msgs, "; ")
}

// Health handles GET /health
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	resp := models.HealthResponse{
		Status:  "ok",
		LLM:     h.checkLLM(r.Context()),
		Store:   h.cfg.Store,
		Version: Version,
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) checkLLM(ctx context.Context) string {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := h.gateway.Health(ctx)
	switch {
	case errors.Is(err, llm.ErrNoBackend):
		return "not configured"
	case err != nil:
		return "error: " + err.Error()
	default:
		return h.gateway.BackendName() + ": connected"
	}
}

// Moods handles GET /moods
func (h *Handlers) Moods(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.MoodsResponse{Moods: models.Moods()})
}

// Home handles GET /home
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	entries, err := h.journal.Entries(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	resp := models.HomeResponse{
		Greeting: stats.Greeting(h.now().In(h.loc)),
		Recent:   entries,
	}
	if len(entries) > recentEntries {
		resp.Recent = entries[:recentEntries]
	}
	if len(entries) > 0 {
		mood := entries[0].Mood
		resp.Vibe = &models.CurrentVibe{
			Mood:  mood,
			Emoji: mood.Info().Emoji,
			Label: stats.VibeLabel(mood),
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// StartSession handles POST /sessions
func (h *Handlers) StartSession(w http.ResponseWriter, r *http.Request) {
	var req models.StartSessionRequest
	if !h.decode(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), replyTimeout)
	defer cancel()

	snap, err := h.journal.StartSession(ctx, req.Text, req.EntryID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, snap)
}

// GetSession handles GET /sessions/{sessionID}
func (h *Handlers) GetSession(w http.ResponseWriter, r *http.Request) {
	snap, err := h.journal.Session(chi.URLParam(r, "sessionID"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// SendMessage handles POST /sessions/{sessionID}/messages
func (h *Handlers) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req models.SendMessageRequest
	if !h.decode(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), replyTimeout)
	defer cancel()

	resp, err := h.journal.SendMessage(ctx, chi.URLParam(r, "sessionID"), req.Text)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ChooseMood handles PUT /sessions/{sessionID}/mood
func (h *Handlers) ChooseMood(w http.ResponseWriter, r *http.Request) {
	var req models.ChooseMoodRequest
	if !h.decode(w, r, &req) {
		return
	}

	snap, err := h.journal.ChooseMood(chi.URLParam(r, "sessionID"), models.Mood(req.Mood))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// FinishSession handles POST /sessions/{sessionID}/finish
func (h *Handlers) FinishSession(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), replyTimeout)
	defer cancel()

	entry, err := h.journal.Finish(ctx, chi.URLParam(r, "sessionID"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// CancelSession handles DELETE /sessions/{sessionID}
func (h *Handlers) CancelSession(w http.ResponseWriter, r *http.Request) {
	if err := h.journal.Cancel(chi.URLParam(r, "sessionID")); err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListEntries handles GET /entries
func (h *Handlers) ListEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.journal.Entries(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.EntriesResponse{Entries: entries})
}

// GetEntry handles GET /entries/{entryID}
func (h *Handlers) GetEntry(w http.ResponseWriter, r *http.Request) {
	entry, err := h.journal.Entry(r.Context(), chi.URLParam(r, "entryID"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// Insights handles GET /insights?range=week|month|year|all
func (h *Handlers) Insights(w http.ResponseWriter, r *http.Request) {
	rng, err := stats.ParseRange(r.URL.Query().Get("range"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	entries, err := h.journal.Entries(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats.Summarize(entries, rng, h.now(), h.loc))
}

// Calendar handles GET /calendar?year=YYYY&month=M. Missing values mean the current month.
func (h *Handlers) Calendar(w http.ResponseWriter, r *http.Request) {
	now := h.now().In(h.loc)
	year, month := now.Year(), int(now.Month())

	q := r.URL.Query()
	if v := q.Get("year"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 9999 {
			writeError(w, http.StatusBadRequest, "year must be a number between 1 and 9999", "INVALID_YEAR")
			return
		}
		year = n
	}
	if v := q.Get("month"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 12 {
			writeError(w, http.StatusBadRequest, "month must be a number between 1 and 12", "INVALID_MONTH")
			return
		}
		month = n
	}

	entries, err := h.journal.Entries(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	cal, err := stats.MonthView(entries, year, time.Month(month), now, h.loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_MONTH")
		return
	}
	writeJSON(w, http.StatusOK, cal)
}
