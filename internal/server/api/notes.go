package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/IvanChernomyrdin/go-devlog/internal/server/middleware"
	"github.com/IvanChernomyrdin/go-devlog/internal/server/models"
	smodels "github.com/IvanChernomyrdin/go-devlog/internal/server/service/models"
)

// ListNotes возвращает заметки пользователя, недавно изменённые сверху.
//
// @Summary      List notes
// @Tags         notes
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} models.Note
// @Failure      401 {object} ErrorResponse "Unauthorized"
// @Router       /api/notes [get]
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	list, err := h.Svc.Notes.List(r.Context(), userID)
	if err != nil {
		h.fail(w, r, "list notes", err)
		return
	}
	if list == nil {
		list = []*models.Note{}
	}
	writeJSON(w, http.StatusOK, list)
}

// CreateNote создаёт заметку. Пустые title и color получают значения по умолчанию.
//
// @Summary      Create note
// @Tags         notes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body smodels.NotePatch true "Note"
// @Success      201 {object} models.Note
// @Failure      400 {object} ErrorResponse "Bad JSON"
// @Failure      401 {object} ErrorResponse "Unauthorized"
// @Router       /api/notes [post]
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	var patch smodels.NotePatch
	if err := h.decodeJSON(w, r, &patch); err != nil {
		h.fail(w, r, "create note", err)
		return
	}

	n, err := h.Svc.Notes.Create(r.Context(), userID, patch)
	if err != nil {
		h.fail(w, r, "create note", err)
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

// GetNote возвращает заметку владельца.
//
// @Summary      Get note
// @Tags         notes
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Note id"
// @Success      200 {object} models.Note
// @Failure      403 {object} ErrorResponse "Note belongs to another user"
// @Failure      404 {object} ErrorResponse "Note not found"
// @Router       /api/notes/{id} [get]
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	n, err := h.Svc.Notes.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "get note", err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// UpdateNote частично обновляет заметку.
//
// @Summary      Update note
// @Tags         notes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Note id"
// @Param        request body smodels.NotePatch true "Changed fields"
// @Success      200 {object} models.Note
// @Failure      403 {object} ErrorResponse "Note belongs to another user"
// @Failure      404 {object} ErrorResponse "Note not found"
// @Router       /api/notes/{id} [put]
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	var patch smodels.NotePatch
	if err := h.decodeJSON(w, r, &patch); err != nil {
		h.fail(w, r, "update note", err)
		return
	}

	n, err := h.Svc.Notes.Update(r.Context(), userID, chi.URLParam(r, "id"), patch)
	if err != nil {
		h.fail(w, r, "update note", err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// DeleteNote удаляет заметку владельца.
//
// @Summary      Delete note
// @Tags         notes
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Note id"
// @Success      200 {object} MessageResponse
// @Failure      403 {object} ErrorResponse "Note belongs to another user"
// @Failure      404 {object} ErrorResponse "Note not found"
// @Router       /api/notes/{id} [delete]
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	if err := h.Svc.Notes.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, "delete note", err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "note removed"})
}
