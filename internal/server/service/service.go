// Package service содержит бизнес-логику DevLog.
// Это прослойка между HTTP-обработчиками (api) и хранилищем данных (repository).
//
// Сервисы не знают ни про HTTP, ни про конкретную БД: они работают
// через интерфейсы ниже и возвращают доменные ошибки из internal/shared/errors.
package service

import (
	"context"
	"time"

	"github.com/IvanChernomyrdin/go-devlog/internal/server/config"
	"github.com/IvanChernomyrdin/go-devlog/internal/server/models"
	"github.com/IvanChernomyrdin/go-devlog/internal/server/storage"
)

// Repositories — набор интерфейсов, которые сервисный слой ожидает от слоя repository.
type Repositories struct {
	Users    UsersRepo
	Projects ProjectsRepo
	Notes    NotesRepo
	Health   HealthRepo

	Assets  AssetStore
	Revoked TokenRevoker
}

// Services — агрегатор всех сервисов приложения.
type Services struct {
	Auth     *AuthService
	Projects *ProjectsService
	Notes    *NotesService
	Profile  *ProfileService
	Public   *PublicService

	health HealthRepo
}

// NewServices собирает все сервисы приложения.
// cfg нужен AuthService (хэширование пароля и параметры JWT).
func NewServices(repos Repositories, cfg *config.Config) *Services {
	return &Services{
		Auth:     NewAuthService(repos.Users, repos.Revoked, cfg),
		Projects: NewProjectsService(repos.Projects, repos.Assets),
		Notes:    NewNotesService(repos.Notes),
		Profile:  NewProfileService(repos.Users, repos.Assets),
		Public:   NewPublicService(repos.Users, repos.Projects),
		health:   repos.Health,
	}
}

// Health проверяет доступность хранилища.
func (s *Services) Health(ctx context.Context) error {
	if s.health == nil {
		return nil
	}
	return s.health.Ping(ctx)
}

// HealthRepo — минимально нужное для health-check.
type HealthRepo interface {
	Ping(ctx context.Context) error
}

// UsersRepo — репозиторий пользователей.
//
// Email и Username приходят уже в нижнем регистре.
// Create и Update возвращают ErrAlreadyExists при нарушении уникальности,
// все Get* — ErrNotFound, если пользователя нет.
type UsersRepo interface {
	Create(ctx context.Context, u *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, u *models.User) (*models.User, error)
}

// ProjectsRepo — репозиторий проектов.
//
// List возвращает проекты владельца, новые первыми (createdAt desc).
// Невалидный id для GetByID/Update/Delete — это ErrNotFound, а не ошибка формата.
type ProjectsRepo interface {
	Create(ctx context.Context, p *models.Project) (*models.Project, error)
	GetByID(ctx context.Context, id string) (*models.Project, error)
	List(ctx context.Context, userID string, filter models.ProjectFilter) ([]*models.Project, error)
	Update(ctx context.Context, p *models.Project) (*models.Project, error)
	Delete(ctx context.Context, id string) error
}

// NotesRepo — репозиторий заметок.
// ListByUser возвращает заметки владельца, недавно изменённые первыми (updatedAt desc).
type NotesRepo interface {
	Create(ctx context.Context, n *models.Note) (*models.Note, error)
	GetByID(ctx context.Context, id string) (*models.Note, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Note, error)
	Update(ctx context.Context, n *models.Note) (*models.Note, error)
	Delete(ctx context.Context, id string) error
}

// AssetStore — хранилище загруженных картинок.
// Save возвращает ссылку на сохранённый файл или ErrUploadRejected.
type AssetStore interface {
	Save(ctx context.Context, kind string, u *storage.Upload) (string, error)
	Remove(ctx context.Context, ref string) error
}

// discardAsset удаляет только что сохранённую картинку, если запись документа не удалась.
// Транзакции между хранилищами нет, поэтому удаление best-effort: ошибку некуда вернуть.
func discardAsset(ctx context.Context, assets AssetStore, ref string) {
	if ref == "" {
		return
	}
	_ = assets.Remove(context.WithoutCancel(ctx), ref)
}

// TokenRevoker — список отозванных access-токенов (по хэшу jti).
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenHash string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenHash string) (bool, error)
}
