package service_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IvanChernomyrdin/go-devlog/internal/server/models"
	smodels "github.com/IvanChernomyrdin/go-devlog/internal/server/service/models"
	serr "github.com/IvanChernomyrdin/go-devlog/internal/shared/errors"
	sm "github.com/IvanChernomyrdin/go-devlog/internal/shared/models"
)

func TestProfile_Update(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.register(t, "ann")

	upd, err := e.svc.Profile.Update(ctx, u.ID, smodels.ProfilePatch{
		Bio:        sm.Some(" Go developer "),
		Country:    sm.Some("Latvia"),
		ProfilePic: pngUpload("me.png", 1024),
	})
	require.NoError(t, err)
	assert.Equal(t, u.Name, upd.Name)
	assert.Equal(t, "Go developer", upd.Bio)
	assert.Equal(t, "Latvia", upd.Country)
	assert.True(t, strings.HasPrefix(upd.ProfilePic, "/uploads/avatars/"))
	assert.Equal(t, u.Email, upd.Email)
	assert.Equal(t, u.Username, upd.Username)

	_, err = e.svc.Profile.Update(ctx, u.ID, smodels.ProfilePatch{Name: sm.Some(" ")})
	assert.ErrorIs(t, err, serr.ErrInvalidInput)

	got, err := e.svc.Profile.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, upd.ProfilePic, got.ProfilePic)
}

func TestProfile_UnknownUserFailsClosed(t *testing.T) {
	e := newEnv(t)
	_, err := e.svc.Profile.Get(context.Background(), "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, serr.ErrUnauthorized)
}

func TestPublic_Profile(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.register(t, "ann")
	e.register(t, "bob")

	done := e.project(t, u.ID, "Shipped", models.StatusCompleted)
	e.project(t, u.ID, "WIP", models.StatusInProgress)
	e.project(t, u.ID, "Paused", models.StatusOnHold)
	done2 := e.project(t, u.ID, "Shipped 2", models.StatusCompleted)

	res, err := e.svc.Public.Profile(ctx, "  ANN ")
	require.NoError(t, err)
	assert.Equal(t, "ann", res.User.Username)
	require.Len(t, res.Projects, 2)
	assert.Equal(t, done2.ID, res.Projects[0].ID)
	assert.Equal(t, done.ID, res.Projects[1].ID)
	for _, p := range res.Projects {
		assert.Equal(t, models.StatusCompleted, p.Status)
	}

	// в публичном ответе нет ни email, ни хэша пароля
	raw, err := json.Marshal(res)
	require.NoError(t, err)
	body := string(raw)
	assert.NotContains(t, body, "email")
	assert.NotContains(t, body, "ann@example.com")
	assert.NotContains(t, body, "password")
	assert.NotContains(t, body, "$2a$")
}

func TestPublic_UnknownHandle(t *testing.T) {
	e := newEnv(t)
	_, err := e.svc.Public.Profile(context.Background(), "ghost")
	assert.ErrorIs(t, err, serr.ErrNotFound)
	assert.Equal(t, "user not found", err.Error())
}
