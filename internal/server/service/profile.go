package service

import (
	"context"
	"errors"
	"strings"

	"github.com/IvanChernomyrdin/go-devlog/internal/server/models"
	"github.com/IvanChernomyrdin/go-devlog/internal/server/storage"
	smodels "github.com/IvanChernomyrdin/go-devlog/internal/server/service/models"
	serr "github.com/IvanChernomyrdin/go-devlog/internal/shared/errors"
)

// ProfileService — профиль текущего пользователя.
type ProfileService struct {
	users  UsersRepo
	assets AssetStore
}

func NewProfileService(users UsersRepo, assets AssetStore) *ProfileService {
	return &ProfileService{users: users, assets: assets}
}

// Get возвращает профиль. Пользователь, удалённый после выпуска токена, — ErrUnauthorized.
func (s *ProfileService) Get(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, serr.ErrUnauthorized
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return nil, serr.ErrUnauthorized
		}
		return nil, err
	}
	return u, nil
}

// Update меняет name, bio, country и аватар.
// Email, username и пароль здесь не меняются.
func (s *ProfileService) Update(ctx context.Context, userID string, patch smodels.ProfilePatch) (*models.User, error) {
	if patch.Name.Set {
		patch.Name.Value = strings.TrimSpace(patch.Name.Value)
		if patch.Name.Value == "" {
			return nil, serr.Invalid("name cannot be empty")
		}
	}

	u, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	patch.Name.ApplyTo(&u.Name)
	if patch.Bio.Set {
		u.Bio = strings.TrimSpace(patch.Bio.Value)
	}
	if patch.Country.Set {
		u.Country = strings.TrimSpace(patch.Country.Value)
	}
	if patch.ProfilePic != nil {
		ref, err := s.assets.Save(ctx, storage.KindAvatar, patch.ProfilePic)
		if err != nil {
			return nil, err
		}
		u.ProfilePic = ref
	}

	updated, err := s.users.Update(ctx, u)
	if err != nil {
		if patch.ProfilePic != nil {
			discardAsset(ctx, s.assets, u.ProfilePic)
		}
		if errors.Is(err, serr.ErrNotFound) {
			return nil, serr.ErrUnauthorized
		}
		return nil, err
	}
	return updated, nil
}
