package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/IvanChernomyrdin/go-devlog/internal/server/middleware"
)

// GetProfile возвращает профиль текущего пользователя.
//
// @Summary      Get profile
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} models.User
// @Failure      401 {object} ErrorResponse "Unauthorized"
// @Router       /api/profile [get]
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	u, err := h.Svc.Profile.Get(r.Context(), userID)
	if err != nil {
		h.fail(w, r, "get profile", err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// UpdateProfile меняет name, bio, country и аватар (поле profilePic в multipart).
//
// @Summary      Update profile
// @Tags         profile
// @Accept       json,mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        name       formData string false "Display name"
// @Param        bio        formData string false "About"
// @Param        country    formData string false "Country"
// @Param        profilePic formData file   false "jpeg, jpg, png or webp up to 5MB"
// @Success      200 {object} models.User
// @Failure      400 {object} ErrorResponse "Invalid input or rejected upload"
// @Failure      401 {object} ErrorResponse "Unauthorized"
// @Router       /api/profile [put]
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	patch, err := h.decodeProfilePatch(w, r)
	if err != nil {
		h.fail(w, r, "update profile", err)
		return
	}

	u, err := h.Svc.Profile.Update(r.Context(), userID, patch)
	if err != nil {
		h.fail(w, r, "update profile", err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// PublicProfile — публичное портфолио: профиль без email и только завершённые проекты.
//
// @Summary      Public portfolio
// @Tags         public
// @Produce      json
// @Param        handle path string true "Username"
// @Success      200 {object} smodels.PublicProfileResponse
// @Failure      404 {object} ErrorResponse "User not found"
// @Router       /api/public/{handle} [get]
func (h *Handler) PublicProfile(w http.ResponseWriter, r *http.Request) {
	resp, err := h.Svc.Public.Profile(r.Context(), strings.TrimSpace(chi.URLParam(r, "handle")))
	if err != nil {
		h.fail(w, r, "public profile", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HealthResponse — ответ /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

// Health проверяет доступность хранилища.
//
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200 {object} HealthResponse
// @Failure      503 {object} HealthResponse
// @Router       /healthz [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Health(r.Context()); err != nil {
		h.Log.Sugar().Warnf("health check failed: %v", err)
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}
