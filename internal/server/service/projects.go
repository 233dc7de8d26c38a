package service

import (
	"context"
	"strings"

	"github.com/IvanChernomyrdin/go-devlog/internal/server/models"
	"github.com/IvanChernomyrdin/go-devlog/internal/server/storage"
	smodels "github.com/IvanChernomyrdin/go-devlog/internal/server/service/models"
	serr "github.com/IvanChernomyrdin/go-devlog/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-devlog/internal/shared/utils"
)

// ProjectsService — CRUD проектов в рамках одного владельца.
type ProjectsService struct {
	repo   ProjectsRepo
	assets AssetStore
	owned  Owned[*models.Project]
}

func NewProjectsService(repo ProjectsRepo, assets AssetStore) *ProjectsService {
	return &ProjectsService{
		repo:   repo,
		assets: assets,
		owned:  NewOwned[*models.Project]("project", repo),
	}
}

// Create создаёт проект владельца userID.
//
// Отсутствующие поля получают значения по умолчанию:
// techStack — пустой список, status — In Progress, ссылки и thumbnail — "".
//
// Ошибки:
//   - ErrInvalidInput — пустой title/description или неизвестный status;
//   - ErrUploadRejected — thumbnail не прошёл проверку.
func (s *ProjectsService) Create(ctx context.Context, userID string, in smodels.ProjectPatch) (*models.Project, error) {
	if userID == "" {
		return nil, serr.ErrUnauthorized
	}

	p := &models.Project{
		UserID:      userID,
		Title:       strings.TrimSpace(in.Title.Value),
		Description: strings.TrimSpace(in.Description.Value),
		TechStack:   utils.CleanTags(in.TechStack.Value),
		Status:      models.StatusInProgress,
		GithubLink:  strings.TrimSpace(in.GithubLink.Value),
		LiveLink:    strings.TrimSpace(in.LiveLink.Value),
	}
	if p.Title == "" || p.Description == "" {
		return nil, serr.Invalid("title and description are required")
	}
	if in.Status.Set && in.Status.Value != "" {
		if !in.Status.Value.Valid() {
			return nil, invalidStatus()
		}
		p.Status = in.Status.Value
	}

	if in.Thumbnail != nil {
		ref, err := s.assets.Save(ctx, storage.KindThumbnail, in.Thumbnail)
		if err != nil {
			return nil, err
		}
		p.Thumbnail = ref
	}

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		discardAsset(ctx, s.assets, p.Thumbnail)
		return nil, err
	}
	return created, nil
}

// List возвращает проекты владельца с фильтрами, новые первыми.
// Пустой status и All означают "без фильтра", любое другое неизвестное значение — ErrInvalidInput.
func (s *ProjectsService) List(ctx context.Context, userID string, filter models.ProjectFilter) ([]*models.Project, error) {
	if userID == "" {
		return nil, serr.ErrUnauthorized
	}
	filter.Search = strings.TrimSpace(filter.Search)
	if filter.Status != "" && filter.Status != models.StatusAll && !filter.Status.Valid() {
		return nil, invalidStatus()
	}
	return s.repo.List(ctx, userID, filter)
}

// Get возвращает проект, если он принадлежит userID.
func (s *ProjectsService) Get(ctx context.Context, userID, id string) (*models.Project, error) {
	return s.owned.Get(ctx, userID, id)
}

// Update применяет частичное изменение.
//
// Поле, которого нет в patch, не меняется. Пришедшее поле перезаписывает значение,
// в том числе пустым (techStack: "" очищает список). title и description
// пустыми быть не могут. Новый thumbnail сохраняется только после проверки владельца.
func (s *ProjectsService) Update(ctx context.Context, userID, id string, patch smodels.ProjectPatch) (*models.Project, error) {
	if patch.Title.Set {
		patch.Title.Value = strings.TrimSpace(patch.Title.Value)
		if patch.Title.Value == "" {
			return nil, serr.Invalid("title cannot be empty")
		}
	}
	if patch.Description.Set {
		patch.Description.Value = strings.TrimSpace(patch.Description.Value)
		if patch.Description.Value == "" {
			return nil, serr.Invalid("description cannot be empty")
		}
	}
	if patch.Status.Set && !patch.Status.Value.Valid() {
		return nil, invalidStatus()
	}

	var saved string
	updated, err := s.owned.Mutate(ctx, userID, id, func(p *models.Project) error {
		patch.Title.ApplyTo(&p.Title)
		patch.Description.ApplyTo(&p.Description)
		patch.Status.ApplyTo(&p.Status)
		if patch.TechStack.Set {
			p.TechStack = utils.CleanTags(patch.TechStack.Value)
		}
		if patch.GithubLink.Set {
			p.GithubLink = strings.TrimSpace(patch.GithubLink.Value)
		}
		if patch.LiveLink.Set {
			p.LiveLink = strings.TrimSpace(patch.LiveLink.Value)
		}
		if patch.Thumbnail != nil {
			ref, err := s.assets.Save(ctx, storage.KindThumbnail, patch.Thumbnail)
			if err != nil {
				return err
			}
			p.Thumbnail = ref
			saved = ref
		}
		return nil
	})
	if err != nil {
		discardAsset(ctx, s.assets, saved)
		return nil, err
	}
	return updated, nil
}

// Delete удаляет проект владельца.
func (s *ProjectsService) Delete(ctx context.Context, userID, id string) error {
	return s.owned.Delete(ctx, userID, id)
}

func invalidStatus() error {
	return serr.Invalid("status must be one of: In Progress, Completed, On Hold")
}
