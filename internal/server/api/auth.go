// HTTP-хендлеры регистрации, логина, текущего пользователя и logout
package api

import (
	"net/http"
	"time"

	"github.com/IvanChernomyrdin/go-devlog/internal/server/middleware"
	smodels "github.com/IvanChernomyrdin/go-devlog/internal/server/service/models"
	serr "github.com/IvanChernomyrdin/go-devlog/internal/shared/errors"
)

// Register обрабатывает регистрацию пользователя.
//
// @Summary      Register
// @Description  Creates an account and returns an access token. Username and email are case-insensitive and unique.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body smodels.RegisterRequest true "Register request"
// @Success      201 {object} smodels.AuthResponse
// @Failure      400 {object} ErrorResponse "Invalid input or bad JSON"
// @Failure      409 {object} ErrorResponse "Email or username already taken"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /api/auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req smodels.RegisterRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, "register", err)
		return
	}

	resp, err := h.Svc.Auth.Register(r.Context(), req)
	if err != nil {
		h.fail(w, r, "register", err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// Login обрабатывает вход пользователя.
//
// @Summary      Login
// @Description  Exchanges email and password for an access token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body smodels.LoginRequest true "Login request"
// @Success      200 {object} smodels.AuthResponse
// @Failure      400 {object} ErrorResponse "Invalid input or bad JSON"
// @Failure      401 {object} ErrorResponse "Invalid credentials"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /api/auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req smodels.LoginRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, "login", err)
		return
	}

	resp, err := h.Svc.Auth.Login(r.Context(), req)
	if err != nil {
		h.fail(w, r, "login", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Me возвращает пользователя, которому принадлежит токен.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} models.User
// @Failure      401 {object} ErrorResponse "Unauthorized"
// @Router       /api/auth/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, serr.ErrUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// Logout отзывает текущий токен до истечения его срока.
//
// @Summary      Logout
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Failure      401 {object} ErrorResponse "Unauthorized"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /api/auth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, serr.ErrUnauthorized)
		return
	}

	var exp time.Time
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}
	if err := h.Svc.Auth.Logout(r.Context(), claims.ID, exp); err != nil {
		h.fail(w, r, "logout", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
