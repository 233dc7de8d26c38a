// Package models содержит входные структуры сервисного слоя:
// то, что HTTP-слой собирает из JSON или multipart и передаёт в сервисы.
package models

import (
	servermodels "github.com/IvanChernomyrdin/go-devlog/internal/server/models"
	"github.com/IvanChernomyrdin/go-devlog/internal/server/storage"
	sm "github.com/IvanChernomyrdin/go-devlog/internal/shared/models"
)

// RegisterRequest — регистрация. Теги validate проверяются в AuthService после нормализации.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Username string `json:"username" validate:"required,handle"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest — вход по email и паролю.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProjectPatch — поля проекта из запроса.
//
// Один тип и для создания, и для частичного обновления:
// при создании отсутствующие поля получают значения по умолчанию,
// при обновлении отсутствующие поля не трогаются.
type ProjectPatch struct {
	Title       sm.Optional[string]              `json:"title"`
	Description sm.Optional[string]              `json:"description"`
	TechStack   sm.Optional[sm.Tags]             `json:"techStack"`
	Status      sm.Optional[servermodels.Status] `json:"status"`
	GithubLink  sm.Optional[string]              `json:"githubLink"`
	LiveLink    sm.Optional[string]              `json:"liveLink"`

	// Thumbnail — новый файл картинки, только из multipart.
	Thumbnail *storage.Upload `json:"-"`
}

// NotePatch — поля заметки из запроса. Семантика как у ProjectPatch.
type NotePatch struct {
	Title   sm.Optional[string] `json:"title"`
	Content sm.Optional[string] `json:"content"`
	Color   sm.Optional[string] `json:"color"`
}

// ProfilePatch — редактируемые поля профиля.
// email, username и пароль через профиль не меняются.
type ProfilePatch struct {
	Name    sm.Optional[string] `json:"name"`
	Bio     sm.Optional[string] `json:"bio"`
	Country sm.Optional[string] `json:"country"`

	ProfilePic *storage.Upload `json:"-"`
}

// AuthResponse — ответ register/login.
type AuthResponse struct {
	Token string             `json:"token"`
	User  *servermodels.User `json:"user"`
}

// PublicProfileResponse — публичное портфолио по handle.
type PublicProfileResponse struct {
	User     servermodels.PublicUser `json:"user"`
	Projects []*servermodels.Project `json:"projects"`
}
