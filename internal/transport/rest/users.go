package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/heartmarshall/lasty-backend/internal/domain"
)

type userService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (domain.UserProfile, error)
	UpdatePreferredTopics(ctx context.Context, userID uuid.UUID, topics []string) (domain.UserProfile, error)
	UpdateLearningLanguages(ctx context.Context, userID uuid.UUID, languages []string) (domain.UserProfile, error)
}

// UsersHandler serves the profile endpoints.
type UsersHandler struct {
	svc userService
	log *slog.Logger
}

func NewUsersHandler(svc userService, logger *slog.Logger) *UsersHandler {
	return &UsersHandler{svc: svc, log: logger.With("handler", "users")}
}

type profileResponse struct {
	ID                string   `json:"id"`
	Login             string   `json:"login"`
	NativeLanguage    string   `json:"nativeLanguage"`
	InterfaceLanguage string   `json:"interfaceLanguage"`
	LearningLanguages []string `json:"learningLanguages"`
	PreferredTopics   []string `json:"preferredTopics"`
}

// updateProfileRequest is a partial update: nil slices leave the field
// untouched.
type updateProfileRequest struct {
	PreferredTopics   []string `json:"preferredTopics"`
	LearningLanguages []string `json:"learningLanguages"`
}

// Me handles GET /users/me.
func (h *UsersHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	profile, err := h.svc.GetProfile(r.Context(), userID)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toProfileResponse(profile))
}

// Update handles PATCH /users/me.
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PreferredTopics == nil && req.LearningLanguages == nil {
		writeError(w, http.StatusBadRequest, "nothing to update")
		return
	}

	var (
		profile domain.UserProfile
		err     error
	)
	if req.PreferredTopics != nil {
		profile, err = h.svc.UpdatePreferredTopics(r.Context(), userID, req.PreferredTopics)
		if err != nil {
			handleError(w, r, h.log, err)
			return
		}
	}
	if req.LearningLanguages != nil {
		profile, err = h.svc.UpdateLearningLanguages(r.Context(), userID, req.LearningLanguages)
		if err != nil {
			handleError(w, r, h.log, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, toProfileResponse(profile))
}

func toProfileResponse(p domain.UserProfile) profileResponse {
	return profileResponse{
		ID:                p.ID.String(),
		Login:             p.Login,
		NativeLanguage:    p.NativeLanguage,
		InterfaceLanguage: p.InterfaceLanguage,
		LearningLanguages: p.LearningLanguages,
		PreferredTopics:   p.PreferredTopics,
	}
}
