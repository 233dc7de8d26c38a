package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/go-devlog/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-devlog/internal/shared/errors"
)

const noteColumns = `id, user_id, title, content, color, created_at, updated_at`

type NotesRepository struct {
	db *sql.DB
}

func NewNotesRepository(db *sql.DB) *NotesRepository {
	return &NotesRepository{db: db}
}

func (r *NotesRepository) Create(ctx context.Context, n *models.Note) (*models.Note, error) {
	out, err := scanNote(r.db.QueryRowContext(ctx,
		`INSERT INTO notes (user_id, title, content, color)
		 VALUES ($1,$2,$3,$4)
		 RETURNING `+noteColumns,
		n.UserID, n.Title, n.Content, n.Color,
	))
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

func (r *NotesRepository) GetByID(ctx context.Context, id string) (*models.Note, error) {
	nid, err := uuid.Parse(id)
	if err != nil {
		return nil, serr.ErrNotFound
	}
	out, err := scanNote(r.db.QueryRowContext(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE id=$1`, nid.String()))
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

// ListByUser — заметки владельца, последние изменённые первыми.
func (r *NotesRepository) ListByUser(ctx context.Context, userID string) ([]*models.Note, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return []*models.Note{}, nil
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE user_id=$1 ORDER BY updated_at DESC, id DESC`, userID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	out := make([]*models.Note, 0)
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, mapError(err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

func (r *NotesRepository) Update(ctx context.Context, n *models.Note) (*models.Note, error) {
	nid, err := uuid.Parse(n.ID)
	if err != nil {
		return nil, serr.ErrNotFound
	}
	out, err := scanNote(r.db.QueryRowContext(ctx,
		`UPDATE notes SET title=$2, content=$3, color=$4, updated_at=now()
		 WHERE id=$1
		 RETURNING `+noteColumns,
		nid.String(), n.Title, n.Content, n.Color,
	))
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

func (r *NotesRepository) Delete(ctx context.Context, id string) error {
	nid, err := uuid.Parse(id)
	if err != nil {
		return serr.ErrNotFound
	}
	return execDelete(ctx, r.db, `DELETE FROM notes WHERE id=$1`, nid.String())
}

func scanNote(row rowScanner) (*models.Note, error) {
	var (
		n      models.Note
		id     uuid.UUID
		userID uuid.UUID
	)
	if err := row.Scan(&id, &userID, &n.Title, &n.Content, &n.Color, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return nil, err
	}
	n.ID = id.String()
	n.UserID = userID.String()
	return &n, nil
}
