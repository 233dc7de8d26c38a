package models

import (
	"strings"
	"time"
)

// Status — статус проекта.
type Status string

const (
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
	StatusOnHold     Status = "On Hold"

	// StatusAll — значение фильтра списка "без фильтра по статусу", в базе не хранится.
	StatusAll Status = "All"
)

// Valid проверяет, что статус входит в enum.
func (s Status) Valid() bool {
	switch s {
	case StatusInProgress, StatusCompleted, StatusOnHold:
		return true
	}
	return false
}

// Project — проект пользователя.
//
// UserID проставляется при создании и больше никогда не меняется.
type Project struct {
	ID          string    `json:"_id"`
	UserID      string    `json:"user"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	TechStack   []string  `json:"techStack"`
	Status      Status    `json:"status"`
	GithubLink  string    `json:"githubLink"`
	LiveLink    string    `json:"liveLink"`
	Thumbnail   string    `json:"thumbnail"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (p *Project) OwnerID() string { return p.UserID }

// ProjectFilter — параметры выборки списка проектов владельца.
//
// Search — подстрока (без учёта регистра) в title или в любом элементе techStack.
// Status — точное совпадение; пустое значение или All означают "без фильтра".
type ProjectFilter struct {
	Search string
	Status Status
}

// Matches — эталонная реализация фильтра. Используется in-memory хранилищем;
// postgres и mongo реализуют то же самое запросом.
func (f ProjectFilter) Matches(p *Project) bool {
	if f.Status != "" && f.Status != StatusAll && p.Status != f.Status {
		return false
	}
	if f.Search == "" {
		return true
	}
	needle := strings.ToLower(f.Search)
	if strings.Contains(strings.ToLower(p.Title), needle) {
		return true
	}
	for _, t := range p.TechStack {
		if strings.Contains(strings.ToLower(t), needle) {
			return true
		}
	}
	return false
}
