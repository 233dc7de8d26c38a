package api

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	serr "github.com/IvanChernomyrdin/go-devlog/internal/shared/errors"
)

// StatusFor возвращает HTTP-статус для доменной ошибки.
//
//   - ErrInvalidInput, ErrBadJSON, ErrUploadRejected — 400;
//   - ErrUnauthorized, ErrInvalidCredentials — 401;
//   - ErrForbidden — 403 (401 при legacyForbidden);
//   - ErrNotFound — 404;
//   - ErrAlreadyExists — 409;
//   - всё остальное — 500.
func StatusFor(err error, legacyForbidden bool) int {
	switch {
	case errors.Is(err, serr.ErrInvalidInput),
		errors.Is(err, serr.ErrBadJSON),
		errors.Is(err, serr.ErrUploadRejected):
		return http.StatusBadRequest
	case errors.Is(err, serr.ErrUnauthorized),
		errors.Is(err, serr.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, serr.ErrForbidden):
		if legacyForbidden {
			return http.StatusUnauthorized
		}
		return http.StatusForbidden
	case errors.Is(err, serr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, serr.ErrAlreadyExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail пишет ошибку клиенту. Текст 500-х наружу не уходит, только в лог.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := StatusFor(err, h.opts.LegacyForbiddenStatus)
	if status == http.StatusInternalServerError {
		h.Log.Error(op+" failed",
			zap.String("method", r.Method),
			zap.String("uri", r.RequestURI),
			zap.Error(err),
		)
		WriteError(w, status, serr.ErrInternal)
		return
	}
	switch {
	case errors.Is(err, serr.ErrUploadRejected):
		// текст про допустимые форматы без обёрток
		WriteError(w, status, serr.ErrUploadRejected)
	case errors.Is(err, serr.ErrAlreadyExists):
		WriteError(w, status, serr.ErrAlreadyExists)
	default:
		WriteError(w, status, err)
	}
}
