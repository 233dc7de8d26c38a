package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/IvanChernomyrdin/go-devlog/internal/server/models"
	smodels "github.com/IvanChernomyrdin/go-devlog/internal/server/service/models"
	serr "github.com/IvanChernomyrdin/go-devlog/internal/shared/errors"
)

// PublicService — публичное портфолио, без аутентификации.
type PublicService struct {
	users    UsersRepo
	projects ProjectsRepo
}

func NewPublicService(users UsersRepo, projects ProjectsRepo) *PublicService {
	return &PublicService{users: users, projects: projects}
}

// Profile возвращает публичные данные пользователя по handle
// и только его завершённые проекты, новые первыми.
func (s *PublicService) Profile(ctx context.Context, handle string) (*smodels.PublicProfileResponse, error) {
	handle = strings.ToLower(strings.TrimSpace(handle))
	if handle == "" {
		return nil, fmt.Errorf("user %w", serr.ErrNotFound)
	}

	u, err := s.users.GetByUsername(ctx, handle)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return nil, fmt.Errorf("user %w", serr.ErrNotFound)
		}
		return nil, err
	}

	projects, err := s.projects.List(ctx, u.ID, models.ProjectFilter{Status: models.StatusCompleted})
	if err != nil {
		return nil, err
	}

	return &smodels.PublicProfileResponse{
		User:     u.Public(),
		Projects: projects,
	}, nil
}
