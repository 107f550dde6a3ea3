package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/heartmarshall/lasty-backend/internal/domain"
	"github.com/heartmarshall/lasty-backend/internal/service/words"
)

type wordsService interface {
	ImportPairs(ctx context.Context, userID uuid.UUID, language string, pairs []words.PairInput) (words.ImportReport, error)
	ListWords(ctx context.Context, userID uuid.UUID, language string) ([]domain.WordPair, error)
	DeleteWord(ctx context.Context, userID, pairID uuid.UUID) error
}

// WordsHandler serves the word-collection endpoints.
type WordsHandler struct {
	svc wordsService
	log *slog.Logger
}

func NewWordsHandler(svc wordsService, logger *slog.Logger) *WordsHandler {
	return &WordsHandler{svc: svc, log: logger.With("handler", "words")}
}

type importRequest struct {
	Language string `json:"language"`
	Pairs    []struct {
		NativeWord string `json:"nativeWord"`
		TargetWord string `json:"targetWord"`
	} `json:"pairs"`
}

type importResponse struct {
	Imported   int      `json:"imported"`
	Duplicates int      `json:"duplicates"`
	Failed     int      `json:"failed"`
	Failures   []string `json:"failures,omitempty"`
}

type wordResponse struct {
	ID            string `json:"id"`
	NativeWord    string `json:"nativeWord"`
	TargetWord    string `json:"targetWord"`
	Language      string `json:"language"`
	Progress      int    `json:"progress"`
	LastPracticed string `json:"lastPracticed,omitempty"`
	NextDue       string `json:"nextDue"`
}

// Import handles POST /words/import.
func (h *WordsHandler) Import(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	pairs := make([]words.PairInput, 0, len(req.Pairs))
	for _, p := range req.Pairs {
		pairs = append(pairs, words.PairInput{NativeWord: p.NativeWord, TargetWord: p.TargetWord})
	}

	report, err := h.svc.ImportPairs(r.Context(), userID, req.Language, pairs)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, importResponse{
		Imported:   report.Imported,
		Duplicates: report.Duplicates,
		Failed:     report.Failed,
		Failures:   report.Failures,
	})
}

// List handles GET /words?language=es.
func (h *WordsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	pairs, err := h.svc.ListWords(r.Context(), userID, r.URL.Query().Get("language"))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	out := make([]wordResponse, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, toWordResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

// Delete handles DELETE /words/{id}.
func (h *WordsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	pairID, err := pathID(r)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	if err := h.svc.DeleteWord(r.Context(), userID, pairID); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toWordResponse(p domain.WordPair) wordResponse {
	out := wordResponse{
		ID:         p.ID.String(),
		NativeWord: p.NativeWord,
		TargetWord: p.TargetWord,
		Language:   p.Language,
		Progress:   p.Progress,
		NextDue:    p.NextDue.Format("2006-01-02"),
	}
	if p.LastPracticed != nil {
		out.LastPracticed = p.LastPracticed.Format("2006-01-02")
	}
	return out
}
