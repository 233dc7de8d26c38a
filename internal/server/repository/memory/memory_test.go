package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IvanChernomyrdin/go-devlog/internal/server/models"
	"github.com/IvanChernomyrdin/go-devlog/internal/server/repository/memory"
	serr "github.com/IvanChernomyrdin/go-devlog/internal/shared/errors"
)

func TestUsers_UniqueEmailAndUsername(t *testing.T) {
	ctx := context.Background()
	users := memory.NewStore().Users()

	u, err := users.Create(ctx, &models.User{Name: "Ann", Username: "ann", Email: "ann@example.com", PasswordHash: "h"})
	require.NoError(t, err)
	require.NotEmpty(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	_, err = users.Create(ctx, &models.User{Name: "Other", Username: "ann", Email: "other@example.com"})
	assert.ErrorIs(t, err, serr.ErrAlreadyExists)

	_, err = users.Create(ctx, &models.User{Name: "Other", Username: "other", Email: "ann@example.com"})
	assert.ErrorIs(t, err, serr.ErrAlreadyExists)

	got, err := users.GetByUsername(ctx, "ann")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = users.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, serr.ErrNotFound)
}

func TestUsers_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	users := memory.NewStore().Users()

	u, err := users.Create(ctx, &models.User{Name: "Ann", Username: "ann", Email: "ann@example.com"})
	require.NoError(t, err)

	u.Name = "changed outside"
	got, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann", got.Name)
}

func TestProjects_ListOrderAndFilter(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return now })
	projects := store.Projects()

	create := func(title string, status models.Status, tags ...string) *models.Project {
		p, err := projects.Create(ctx, &models.Project{UserID: "u1", Title: title, Description: "d", Status: status, TechStack: tags})
		require.NoError(t, err)
		return p
	}

	a := create("Alpha", models.StatusCompleted, "Go")
	now = now.Add(time.Minute)
	b := create("Beta", models.StatusInProgress, "React")
	// одинаковый createdAt: порядок всё равно стабильный, последний созданный первым
	c := create("Gamma", models.StatusCompleted, "golang")
	_, err := projects.Create(ctx, &models.Project{UserID: "u2", Title: "Alien go", Description: "d", Status: models.StatusCompleted})
	require.NoError(t, err)

	all, err := projects.List(ctx, "u1", models.ProjectFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{c.ID, b.ID, a.ID}, []string{all[0].ID, all[1].ID, all[2].ID})

	got, err := projects.List(ctx, "u1", models.ProjectFilter{Search: "GO", Status: models.StatusCompleted})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, c.ID, got[0].ID)
	assert.Equal(t, a.ID, got[1].ID)
}

func TestProjects_UpdateKeepsOwnerAndCreatedAt(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return now })
	projects := store.Projects()

	p, err := projects.Create(ctx, &models.Project{UserID: "u1", Title: "t", Description: "d"})
	require.NoError(t, err)

	now = now.Add(time.Hour)
	p.UserID = "intruder"
	p.Title = "new"
	upd, err := projects.Update(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, "u1", upd.UserID)
	assert.Equal(t, "new", upd.Title)
	assert.True(t, upd.UpdatedAt.After(upd.CreatedAt))

	require.NoError(t, projects.Delete(ctx, p.ID))
	assert.ErrorIs(t, projects.Delete(ctx, p.ID), serr.ErrNotFound)
	_, err = projects.Update(ctx, p)
	assert.ErrorIs(t, err, serr.ErrNotFound)
}

func TestNotes_ListMostRecentlyUpdatedFirst(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return now })
	notes := store.Notes()

	first, err := notes.Create(ctx, &models.Note{UserID: "u1", Title: "first"})
	require.NoError(t, err)
	now = now.Add(time.Minute)
	second, err := notes.Create(ctx, &models.Note{UserID: "u1", Title: "second"})
	require.NoError(t, err)

	list, err := notes.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)

	now = now.Add(time.Minute)
	first.Content = "edited"
	_, err = notes.Update(ctx, first)
	require.NoError(t, err)

	list, err = notes.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, "edited", list[0].Content)

	empty, err := notes.ListByUser(ctx, "u2")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}
