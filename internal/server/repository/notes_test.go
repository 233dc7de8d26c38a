package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/go-devlog/internal/server/models"
	"github.com/IvanChernomyrdin/go-devlog/internal/server/repository"
	serr "github.com/IvanChernomyrdin/go-devlog/internal/shared/errors"
)

var noteCols = []string{"id", "user_id", "title", "content", "color", "created_at", "updated_at"}

func TestNotesRepository_Create_OK(t *testing.T) {
	db, mock := newMock(t)
	repo := repository.NewNotesRepository(db)

	id, owner := uuid.New(), uuid.New()
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO notes`).
		WithArgs(owner.String(), "Untitled Note", "", "#1e293b").
		WillReturnRows(sqlmock.NewRows(noteCols).
			AddRow(id.String(), owner.String(), "Untitled Note", "", "#1e293b", now, now))

	got, err := repo.Create(context.Background(), &models.Note{
		UserID: owner.String(), Title: models.DefaultNoteTitle, Color: models.DefaultNoteColor,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != id.String() {
		t.Fatalf("expected %v, got %v", id, got.ID)
	}
}

func TestNotesRepository_ListByUser_OrderedByUpdatedAt(t *testing.T) {
	db, mock := newMock(t)
	repo := repository.NewNotesRepository(db)

	owner := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT (.+) FROM notes WHERE user_id=\$1 ORDER BY updated_at DESC`).
		WithArgs(owner.String()).
		WillReturnRows(sqlmock.NewRows(noteCols).
			AddRow(uuid.NewString(), owner.String(), "fresh", "", "#fff", now.Add(-time.Hour), now).
			AddRow(uuid.NewString(), owner.String(), "old", "", "#fff", now.Add(-time.Hour), now.Add(-time.Minute)))

	got, err := repo.ListByUser(context.Background(), owner.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].Title != "fresh" {
		t.Fatalf("unexpected list: %+v", got)
	}
}

func TestNotesRepository_Delete_MalformedID(t *testing.T) {
	db, _ := newMock(t)
	repo := repository.NewNotesRepository(db)

	if err := repo.Delete(context.Background(), "zzz"); !errors.Is(err, serr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
