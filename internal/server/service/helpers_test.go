package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/IvanChernomyrdin/go-devlog/internal/server/config"
	"github.com/IvanChernomyrdin/go-devlog/internal/server/models"
	"github.com/IvanChernomyrdin/go-devlog/internal/server/repository/memory"
	"github.com/IvanChernomyrdin/go-devlog/internal/server/service"
	smodels "github.com/IvanChernomyrdin/go-devlog/internal/server/service/models"
	"github.com/IvanChernomyrdin/go-devlog/internal/server/sessions"
	"github.com/IvanChernomyrdin/go-devlog/internal/server/storage"
	sm "github.com/IvanChernomyrdin/go-devlog/internal/shared/models"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func pngUpload(name string, size int) *storage.Upload {
	b := make([]byte, size)
	copy(b, pngMagic)
	return &storage.Upload{Filename: name, Data: b}
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	cfg.Auth.JWT.SigningKey = "test-signing-key-with-enough-length"
	cfg.Auth.Issuer = "devlog"
	cfg.Password.Hasher = "bcrypt"
	cfg.Password.Bcrypt.Cost = 4
	return cfg
}

type env struct {
	svc    *service.Services
	store  *memory.Store
	assets *storage.Store
	dir    string
}

// newEnv — сервисы поверх in-memory хранилища и локального бэкенда картинок во временном каталоге.
func newEnv(t *testing.T) *env {
	t.Helper()
	dir := t.TempDir()
	backend, err := storage.NewLocalBackend(dir, "/uploads")
	require.NoError(t, err)
	assets := storage.NewStore(backend, storage.DefaultMaxBytes)

	store := memory.NewStore()
	svc := service.NewServices(service.Repositories{
		Users:    store.Users(),
		Projects: store.Projects(),
		Notes:    store.Notes(),
		Health:   store,
		Assets:   assets,
		Revoked:  sessions.NewMemoryRevocations(),
	}, testConfig())

	return &env{svc: svc, store: store, assets: assets, dir: dir}
}

func (e *env) register(t *testing.T, username string) *models.User {
	t.Helper()
	res, err := e.svc.Auth.Register(context.Background(), smodels.RegisterRequest{
		Name:     "User " + username,
		Username: username,
		Email:    username + "@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	return res.User
}

func (e *env) project(t *testing.T, owner, title string, status models.Status, tags ...string) *models.Project {
	t.Helper()
	p, err := e.svc.Projects.Create(context.Background(), owner, smodels.ProjectPatch{
		Title:       sm.Some(title),
		Description: sm.Some("about " + title),
		TechStack:   sm.Some(sm.Tags(tags)),
		Status:      sm.Some(status),
	})
	require.NoError(t, err)
	return p
}

var storageUploadText = storage.Upload{Filename: "notes.png", Data: []byte("just some text, not an image")}

func inAnHour() time.Time { return time.Now().Add(time.Hour) }
