package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/IvanChernomyrdin/go-devlog/internal/server/middleware"
	"github.com/IvanChernomyrdin/go-devlog/internal/server/models"
)

// ListProjects возвращает проекты текущего пользователя, новые сверху.
//
// Фильтры из query:
//   - search — подстрока в title или techStack без учёта регистра;
//   - status — In Progress | Completed | On Hold | All.
//
// @Summary      List projects
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        search query string false "Substring of title or tech stack"
// @Param        status query string false "In Progress | Completed | On Hold | All"
// @Success      200 {array} models.Project
// @Failure      400 {object} ErrorResponse "Unknown status"
// @Failure      401 {object} ErrorResponse "Unauthorized"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /api/projects [get]
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	q := r.URL.Query()
	filter := models.ProjectFilter{
		Search: q.Get("search"),
		Status: models.Status(strings.TrimSpace(q.Get("status"))),
	}

	list, err := h.Svc.Projects.List(r.Context(), userID, filter)
	if err != nil {
		h.fail(w, r, "list projects", err)
		return
	}
	if list == nil {
		list = []*models.Project{}
	}
	writeJSON(w, http.StatusOK, list)
}

// CreateProject создаёт проект. Принимает JSON или multipart/form-data с файлом thumbnail.
//
// @Summary      Create project
// @Tags         projects
// @Accept       json,mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        title       formData string true  "Title"
// @Param        description formData string true  "Description"
// @Param        techStack   formData string false "Comma separated list"
// @Param        status      formData string false "In Progress | Completed | On Hold"
// @Param        githubLink  formData string false "Repository link"
// @Param        liveLink    formData string false "Demo link"
// @Param        thumbnail   formData file   false "jpeg, jpg, png or webp up to 5MB"
// @Success      201 {object} models.Project
// @Failure      400 {object} ErrorResponse "Invalid input or rejected upload"
// @Failure      401 {object} ErrorResponse "Unauthorized"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /api/projects [post]
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	patch, err := h.decodeProjectPatch(w, r)
	if err != nil {
		h.fail(w, r, "create project", err)
		return
	}

	p, err := h.Svc.Projects.Create(r.Context(), userID, patch)
	if err != nil {
		h.fail(w, r, "create project", err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// GetProject возвращает проект владельца.
//
// @Summary      Get project
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Project id"
// @Success      200 {object} models.Project
// @Failure      401 {object} ErrorResponse "Unauthorized"
// @Failure      403 {object} ErrorResponse "Project belongs to another user"
// @Failure      404 {object} ErrorResponse "Project not found"
// @Router       /api/projects/{id} [get]
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	p, err := h.Svc.Projects.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "get project", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// UpdateProject частично обновляет проект: непереданные поля не меняются.
//
// @Summary      Update project
// @Tags         projects
// @Accept       json,mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Project id"
// @Param        thumbnail formData file false "New thumbnail"
// @Success      200 {object} models.Project
// @Failure      400 {object} ErrorResponse "Invalid input or rejected upload"
// @Failure      401 {object} ErrorResponse "Unauthorized"
// @Failure      403 {object} ErrorResponse "Project belongs to another user"
// @Failure      404 {object} ErrorResponse "Project not found"
// @Router       /api/projects/{id} [put]
func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	patch, err := h.decodeProjectPatch(w, r)
	if err != nil {
		h.fail(w, r, "update project", err)
		return
	}

	p, err := h.Svc.Projects.Update(r.Context(), userID, chi.URLParam(r, "id"), patch)
	if err != nil {
		h.fail(w, r, "update project", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// DeleteProject удаляет проект владельца.
//
// @Summary      Delete project
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Project id"
// @Success      200 {object} MessageResponse
// @Failure      401 {object} ErrorResponse "Unauthorized"
// @Failure      403 {object} ErrorResponse "Project belongs to another user"
// @Failure      404 {object} ErrorResponse "Project not found"
// @Router       /api/projects/{id} [delete]
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	if err := h.Svc.Projects.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, "delete project", err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "project removed"})
}
