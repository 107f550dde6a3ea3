package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/heartmarshall/lasty-backend/internal/domain"
	"github.com/heartmarshall/lasty-backend/internal/service/session"
)

// sessionOrchestrator defines the session operations TrainingHandler needs.
type sessionOrchestrator interface {
	StartSession(ctx context.Context, userID uuid.UUID, language string, limit int) (session.StartResult, error)
	GetCurrentTask(ctx context.Context, userID, sessionID uuid.UUID) (session.TaskPage, error)
	SubmitAnswer(ctx context.Context, userID, sessionID uuid.UUID, taskID, answer string) (domain.AnswerOutcome, error)
	Advance(ctx context.Context, userID, sessionID uuid.UUID) (session.TaskPage, error)
	Prefetch(ctx context.Context, userID, sessionID uuid.UUID) error
	Finish(ctx context.Context, userID, sessionID uuid.UUID) error
}

// TrainingHandler serves the practice-session endpoints.
type TrainingHandler struct {
	svc sessionOrchestrator
	log *slog.Logger
}

func NewTrainingHandler(svc sessionOrchestrator, logger *slog.Logger) *TrainingHandler {
	return &TrainingHandler{svc: svc, log: logger.With("handler", "training")}
}

type startSessionRequest struct {
	Language string `json:"language"`
	Limit    int    `json:"limit"`
}

type submitAnswerRequest struct {
	TaskID string `json:"taskId"`
	Answer string `json:"answer"`
}

// taskResponse is the learner-facing task view. The reference answer
// and the correct option index never leave the server before scoring.
type taskResponse struct {
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	Instruction string   `json:"instruction,omitempty"`
	Sentence    string   `json:"sentence,omitempty"`
	Hint        string   `json:"hint,omitempty"`
	Options     []string `json:"options,omitempty"`
}

type taskPageResponse struct {
	Task     taskResponse `json:"task"`
	Position int          `json:"position"`
	Total    int          `json:"total"`
}

type startSessionResponse struct {
	SessionID string `json:"sessionId"`
	taskPageResponse
}

type advanceResponse struct {
	Completed bool `json:"completed"`
	taskPageResponse
}

type outcomeResponse struct {
	Classification  string   `json:"classification"`
	Accepted        bool     `json:"accepted"`
	Explanation     string   `json:"explanation,omitempty"`
	ErrorCategories []string `json:"errorCategories,omitempty"`
	NewProgress     int      `json:"newProgress"`
	NextDue         string   `json:"nextDue"`
}

// Start handles POST /training/sessions.
func (h *TrainingHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.StartSession(r.Context(), userID, req.Language, req.Limit)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, startSessionResponse{
		SessionID:        result.SessionID.String(),
		taskPageResponse: toTaskPage(result.TaskPage),
	})
}

// CurrentTask handles GET /training/sessions/{id}/task.
func (h *TrainingHandler) CurrentTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	sessionID, err := pathID(r)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	page, err := h.svc.GetCurrentTask(r.Context(), userID, sessionID)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toTaskPage(page))
}

// Submit handles POST /training/sessions/{id}/answer.
func (h *TrainingHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	sessionID, err := pathID(r)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	var req submitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	outcome, err := h.svc.SubmitAnswer(r.Context(), userID, sessionID, req.TaskID, req.Answer)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	categories := make([]string, 0, len(outcome.ErrorCategories))
	for _, c := range outcome.ErrorCategories {
		categories = append(categories, c.String())
	}

	writeJSON(w, http.StatusOK, outcomeResponse{
		Classification:  outcome.Class.String(),
		Accepted:        outcome.Class.Accepted(),
		Explanation:     outcome.Explanation,
		ErrorCategories: categories,
		NewProgress:     outcome.NewProgress,
		NextDue:         outcome.NextDue.Format("2006-01-02"),
	})
}

// Advance handles POST /training/sessions/{id}/next. A session with no
// task left answers with completed=true instead of an error.
func (h *TrainingHandler) Advance(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	sessionID, err := pathID(r)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	page, err := h.svc.Advance(r.Context(), userID, sessionID)
	if errors.Is(err, domain.ErrSessionComplete) {
		writeJSON(w, http.StatusOK, advanceResponse{Completed: true})
		return
	}
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, advanceResponse{taskPageResponse: toTaskPage(page)})
}

// Prefetch handles POST /training/sessions/{id}/prefetch. It only hints
// the orchestrator; a 202 promises nothing.
func (h *TrainingHandler) Prefetch(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	sessionID, err := pathID(r)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	if err := h.svc.Prefetch(r.Context(), userID, sessionID); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

// Finish handles DELETE /training/sessions/{id}.
func (h *TrainingHandler) Finish(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	sessionID, err := pathID(r)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	if err := h.svc.Finish(r.Context(), userID, sessionID); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toTaskPage(page session.TaskPage) taskPageResponse {
	return taskPageResponse{
		Task: taskResponse{
			ID:          page.Task.ID,
			Type:        page.Task.Type.String(),
			Instruction: page.Task.Instruction,
			Sentence:    page.Task.Sentence,
			Hint:        page.Task.Hint,
			Options:     page.Task.Options,
		},
		Position: page.Position,
		Total:    page.Total,
	}
}
