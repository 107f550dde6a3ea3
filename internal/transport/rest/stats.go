package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/heartmarshall/lasty-backend/internal/domain"
	"github.com/heartmarshall/lasty-backend/internal/service/stats"
)

type statsService interface {
	Overview(ctx context.Context, userID uuid.UUID, language string) (stats.Overview, error)
	TopErrors(ctx context.Context, userID uuid.UUID, language string, limit int) ([]domain.ErrorRecord, error)
}

// StatsHandler serves the learning-statistics endpoints.
type StatsHandler struct {
	svc statsService
	log *slog.Logger
}

func NewStatsHandler(svc statsService, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{svc: svc, log: logger.With("handler", "stats")}
}

type overviewResponse struct {
	TotalWords        int            `json:"totalWords"`
	ReadyForTraining  int            `json:"readyForTraining"`
	PracticedRecently int            `json:"practicedRecently"`
	ProgressBuckets   map[string]int `json:"progressBuckets"`
}

type errorRecordResponse struct {
	Description string `json:"description"`
	Count       int    `json:"count"`
}

// Overview handles GET /stats?language=es.
func (h *StatsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	overview, err := h.svc.Overview(r.Context(), userID, r.URL.Query().Get("language"))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, overviewResponse{
		TotalWords:        overview.TotalWords,
		ReadyForTraining:  overview.ReadyForTraining,
		PracticedRecently: overview.PracticedRecently,
		ProgressBuckets:   overview.ProgressBuckets,
	})
}

// TopErrors handles GET /stats/errors?language=es&limit=10.
func (h *StatsHandler) TopErrors(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, _ = strconv.Atoi(v)
	}

	records, err := h.svc.TopErrors(r.Context(), userID, r.URL.Query().Get("language"), limit)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	out := make([]errorRecordResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, errorRecordResponse{Description: rec.Description, Count: rec.Count})
	}
	writeJSON(w, http.StatusOK, out)
}
