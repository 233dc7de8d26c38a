package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/go-devlog/internal/server/models"
	"github.com/IvanChernomyrdin/go-devlog/internal/server/repository"
	serr "github.com/IvanChernomyrdin/go-devlog/internal/shared/errors"
)

var projectCols = []string{"id", "user_id", "title", "description", "tech_stack", "status", "github_link", "live_link", "thumbnail", "created_at", "updated_at"}

func TestProjectsRepository_Create_OK(t *testing.T) {
	db, mock := newMock(t)
	repo := repository.NewProjectsRepository(db)

	id, owner := uuid.New(), uuid.New()
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO projects`).
		WithArgs(owner.String(), "DevLog", "tracker", sqlmock.AnyArg(), "In Progress", "", "", "").
		WillReturnRows(sqlmock.NewRows(projectCols).
			AddRow(id.String(), owner.String(), "DevLog", "tracker", "{Go,React}", "In Progress", "", "", "", now, now))

	got, err := repo.Create(context.Background(), &models.Project{
		UserID: owner.String(), Title: "DevLog", Description: "tracker",
		TechStack: []string{"Go", "React"}, Status: models.StatusInProgress,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != id.String() || got.UserID != owner.String() {
		t.Fatalf("unexpected ids: %+v", got)
	}
	if len(got.TechStack) != 2 || got.TechStack[0] != "Go" || got.TechStack[1] != "React" {
		t.Fatalf("unexpected tech stack: %v", got.TechStack)
	}
}

func TestProjectsRepository_GetByID_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := repository.NewProjectsRepository(db)

	id := uuid.New()
	mock.ExpectQuery(`SELECT (.+) FROM projects WHERE id=\$1`).
		WithArgs(id.String()).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), id.String())
	if !errors.Is(err, serr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	_, err = repo.GetByID(context.Background(), "64b7f0c2e1")
	if !errors.Is(err, serr.ErrNotFound) {
		t.Fatalf("malformed id: expected ErrNotFound, got %v", err)
	}
}

// пустой tech_stack из базы превращается в пустой список, а не nil
func TestProjectsRepository_GetByID_EmptyTechStack(t *testing.T) {
	db, mock := newMock(t)
	repo := repository.NewProjectsRepository(db)

	id, owner := uuid.New(), uuid.New()
	now := time.Now()
	mock.ExpectQuery(`SELECT (.+) FROM projects WHERE id=\$1`).
		WithArgs(id.String()).
		WillReturnRows(sqlmock.NewRows(projectCols).
			AddRow(id.String(), owner.String(), "t", "d", "{}", "Completed", "", "", "", now, now))

	got, err := repo.GetByID(context.Background(), id.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.TechStack == nil || len(got.TechStack) != 0 {
		t.Fatalf("expected empty non-nil tech stack, got %#v", got.TechStack)
	}
	if got.Status != models.StatusCompleted {
		t.Fatalf("unexpected status %q", got.Status)
	}
}

func TestProjectsRepository_List_NoFilter(t *testing.T) {
	db, mock := newMock(t)
	repo := repository.NewProjectsRepository(db)

	owner := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT (.+) FROM projects WHERE user_id=\$1 ORDER BY created_at DESC`).
		WithArgs(owner.String()).
		WillReturnRows(sqlmock.NewRows(projectCols).
			AddRow(uuid.NewString(), owner.String(), "b", "d", "{}", "In Progress", "", "", "", now, now).
			AddRow(uuid.NewString(), owner.String(), "a", "d", "{}", "Completed", "", "", "", now.Add(-time.Hour), now))

	got, err := repo.List(context.Background(), owner.String(), models.ProjectFilter{Status: models.StatusAll})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].Title != "b" {
		t.Fatalf("unexpected list: %+v", got)
	}
}

// status и search складываются через AND, search экранируется
func TestProjectsRepository_List_StatusAndSearch(t *testing.T) {
	db, mock := newMock(t)
	repo := repository.NewProjectsRepository(db)

	owner := uuid.New()

	mock.ExpectQuery(`WHERE user_id=\$1 AND status=\$2 AND \(title ILIKE \$3 OR EXISTS`).
		WithArgs(owner.String(), "Completed", `%100\%\_go%`).
		WillReturnRows(sqlmock.NewRows(projectCols))

	got, err := repo.List(context.Background(), owner.String(), models.ProjectFilter{
		Search: "100%_go",
		Status: models.StatusCompleted,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", got)
	}
}

func TestProjectsRepository_Update_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := repository.NewProjectsRepository(db)

	id := uuid.New()
	mock.ExpectQuery(`UPDATE projects`).
		WithArgs(id.String(), "t", "d", sqlmock.AnyArg(), "On Hold", "", "", "").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Update(context.Background(), &models.Project{ID: id.String(), Title: "t", Description: "d", Status: models.StatusOnHold})
	if !errors.Is(err, serr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestProjectsRepository_Delete(t *testing.T) {
	db, mock := newMock(t)
	repo := repository.NewProjectsRepository(db)

	id := uuid.New()
	mock.ExpectExec(`DELETE FROM projects WHERE id=\$1`).
		WithArgs(id.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM projects WHERE id=\$1`).
		WithArgs(id.String()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), id.String()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.Delete(context.Background(), id.String()); !errors.Is(err, serr.ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
}
