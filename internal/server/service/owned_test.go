package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/IvanChernomyrdin/go-devlog/internal/server/models"
	"github.com/IvanChernomyrdin/go-devlog/internal/server/service"
	"github.com/IvanChernomyrdin/go-devlog/internal/server/service/mocks"
	smodels "github.com/IvanChernomyrdin/go-devlog/internal/server/service/models"
	serr "github.com/IvanChernomyrdin/go-devlog/internal/shared/errors"
	sm "github.com/IvanChernomyrdin/go-devlog/internal/shared/models"
)

func TestProjects_StoreErrorPassesThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockProjectsRepo(ctrl)
	assets := mocks.NewMockAssetStore(ctrl)
	svc := service.NewProjectsService(repo, assets)

	boom := errors.New("connection reset")
	repo.EXPECT().GetByID(gomock.Any(), "p1").Return(nil, boom)

	_, err := svc.Get(context.Background(), "u1", "p1")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, serr.ErrNotFound)
}

// Проект удалили между чтением и записью — клиенту всё равно NotFound.
func TestProjects_Update_DeletedConcurrently(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockProjectsRepo(ctrl)
	svc := service.NewProjectsService(repo, mocks.NewMockAssetStore(ctrl))

	repo.EXPECT().GetByID(gomock.Any(), "p1").Return(&models.Project{ID: "p1", UserID: "u1", Title: "t", Description: "d"}, nil)
	repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil, serr.ErrNotFound)

	_, err := svc.Update(context.Background(), "u1", "p1", smodels.ProjectPatch{Title: sm.Some("new")})
	require.ErrorIs(t, err, serr.ErrNotFound)
	assert.Equal(t, "project not found", err.Error())
}

// Загрузка не трогает хранилище картинок, пока не доказано владение.
func TestProjects_Update_UploadAfterOwnershipCheck(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockProjectsRepo(ctrl)
	assets := mocks.NewMockAssetStore(ctrl)
	svc := service.NewProjectsService(repo, assets)

	owned := &models.Project{ID: "p1", UserID: "u1", Title: "t", Description: "d"}
	upload := pngUpload("a.png", 64)

	gomock.InOrder(
		repo.EXPECT().GetByID(gomock.Any(), "p1").Return(owned, nil),
		assets.EXPECT().Save(gomock.Any(), "thumbnails", upload).Return("/uploads/thumbnails/a.png", nil),
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p *models.Project) (*models.Project, error) {
				return p, nil
			}),
	)

	got, err := svc.Update(context.Background(), "u1", "p1", smodels.ProjectPatch{Thumbnail: upload})
	require.NoError(t, err)
	assert.Equal(t, "/uploads/thumbnails/a.png", got.Thumbnail)
}

// Документ не записался — свежая картинка удаляется, ссылок на неё не осталось.
func TestAssets_DiscardedWhenWriteFails(t *testing.T) {
	boom := errors.New("write conflict")
	upload := pngUpload("a.png", 64)
	const ref = "/uploads/thumbnails/a.png"

	t.Run("project create", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockProjectsRepo(ctrl)
		assets := mocks.NewMockAssetStore(ctrl)
		svc := service.NewProjectsService(repo, assets)

		gomock.InOrder(
			assets.EXPECT().Save(gomock.Any(), "thumbnails", upload).Return(ref, nil),
			repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, boom),
			assets.EXPECT().Remove(gomock.Any(), ref).Return(nil),
		)

		_, err := svc.Create(context.Background(), "u1", smodels.ProjectPatch{
			Title: sm.Some("t"), Description: sm.Some("d"), Thumbnail: upload,
		})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("project update", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockProjectsRepo(ctrl)
		assets := mocks.NewMockAssetStore(ctrl)
		svc := service.NewProjectsService(repo, assets)

		gomock.InOrder(
			repo.EXPECT().GetByID(gomock.Any(), "p1").Return(&models.Project{ID: "p1", UserID: "u1", Thumbnail: "/uploads/thumbnails/old.png"}, nil),
			assets.EXPECT().Save(gomock.Any(), "thumbnails", upload).Return(ref, nil),
			repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil, boom),
			assets.EXPECT().Remove(gomock.Any(), ref).Return(errors.New("ignored")),
		)

		_, err := svc.Update(context.Background(), "u1", "p1", smodels.ProjectPatch{Thumbnail: upload})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("profile update", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		users := mocks.NewMockUsersRepo(ctrl)
		assets := mocks.NewMockAssetStore(ctrl)
		svc := service.NewProfileService(users, assets)

		gomock.InOrder(
			users.EXPECT().GetByID(gomock.Any(), "u1").Return(&models.User{ID: "u1", Name: "Ann"}, nil),
			assets.EXPECT().Save(gomock.Any(), "avatars", upload).Return("/uploads/avatars/a.png", nil),
			users.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil, boom),
			assets.EXPECT().Remove(gomock.Any(), "/uploads/avatars/a.png").Return(nil),
		)

		_, err := svc.Update(context.Background(), "u1", smodels.ProfilePatch{ProfilePic: upload})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("rejected upload removes nothing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockProjectsRepo(ctrl)
		assets := mocks.NewMockAssetStore(ctrl)
		svc := service.NewProjectsService(repo, assets)

		repo.EXPECT().GetByID(gomock.Any(), "p1").Return(&models.Project{ID: "p1", UserID: "u1"}, nil)
		assets.EXPECT().Save(gomock.Any(), "thumbnails", upload).Return("", serr.ErrUploadRejected)

		_, err := svc.Update(context.Background(), "u1", "p1", smodels.ProjectPatch{Thumbnail: upload})
		assert.ErrorIs(t, err, serr.ErrUploadRejected)
	})
}

func TestProjects_List_PassesNormalizedFilter(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockProjectsRepo(ctrl)
	svc := service.NewProjectsService(repo, mocks.NewMockAssetStore(ctrl))

	repo.EXPECT().
		List(gomock.Any(), "u1", models.ProjectFilter{Search: "go", Status: models.StatusAll}).
		Return([]*models.Project{}, nil)

	_, err := svc.List(context.Background(), "u1", models.ProjectFilter{Search: "  go ", Status: models.StatusAll})
	require.NoError(t, err)
}

func TestAuth_Register_StoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUsersRepo(ctrl)
	svc := service.NewAuthService(users, nil, testConfig())

	boom := errors.New("db down")
	users.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, boom)

	_, err := svc.Register(context.Background(), smodels.RegisterRequest{
		Name: "Ann", Username: "ann", Email: "ann@example.com", Password: "password123",
	})
	assert.ErrorIs(t, err, boom)
}

func TestAuth_Logout_WithoutRevokerIsNoop(t *testing.T) {
	svc := service.NewAuthService(nil, nil, testConfig())
	require.NoError(t, svc.Logout(context.Background(), "jti", inAnHour()))
}

func TestAuth_Logout_StoresHashNotRawID(t *testing.T) {
	ctrl := gomock.NewController(t)
	revoked := mocks.NewMockTokenRevoker(ctrl)
	svc := service.NewAuthService(nil, revoked, testConfig())

	revoked.EXPECT().Revoke(gomock.Any(), gomock.Not("raw-jti"), gomock.Any()).Return(nil)
	require.NoError(t, svc.Logout(context.Background(), "raw-jti", inAnHour()))
}

func TestServices_Health(t *testing.T) {
	ctrl := gomock.NewController(t)
	health := mocks.NewMockHealthRepo(ctrl)
	svc := service.NewServices(service.Repositories{Health: health}, testConfig())

	health.EXPECT().Ping(gomock.Any()).Return(errors.New("down"))
	assert.Error(t, svc.Health(context.Background()))
}
