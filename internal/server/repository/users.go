// Package repository содержит postgres-реализации слоя доступа к данным (Repository layer).
//
// Репозитории инкапсулируют работу с БД и не содержат бизнес-логики.
// Все ошибки приводятся к доменным ошибкам из internal/shared/errors:
// sql.ErrNoRows и невалидный uuid — ErrNotFound, unique_violation — ErrAlreadyExists,
// всё остальное — ErrInternal с исходной ошибкой внутри (для логов).
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"

	"github.com/IvanChernomyrdin/go-devlog/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-devlog/internal/shared/errors"
)

const userColumns = `id, name, username, email, password_hash, bio, country, profile_pic, created_at, updated_at`

type UsersRepository struct {
	db *sql.DB
}

func NewUsersRepository(db *sql.DB) *UsersRepository {
	return &UsersRepository{db: db}
}

// Create сохраняет пользователя. id и timestamps проставляет база.
func (r *UsersRepository) Create(ctx context.Context, u *models.User) (*models.User, error) {
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO users (name, username, email, password_hash, bio, country, profile_pic)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)
		 RETURNING `+userColumns,
		u.Name, u.Username, u.Email, u.PasswordHash, u.Bio, u.Country, u.ProfilePic,
	)
	out, err := scanUser(row)
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

func (r *UsersRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, serr.ErrNotFound
	}
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, uid.String())
}

func (r *UsersRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email=$1`, email)
}

func (r *UsersRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE username=$1`, username)
}

// Update полностью перезаписывает редактируемые поля и обновляет updated_at.
func (r *UsersRepository) Update(ctx context.Context, u *models.User) (*models.User, error) {
	uid, err := uuid.Parse(u.ID)
	if err != nil {
		return nil, serr.ErrNotFound
	}
	row := r.db.QueryRowContext(ctx,
		`UPDATE users
		 SET name=$2, username=$3, email=$4, password_hash=$5, bio=$6, country=$7, profile_pic=$8, updated_at=now()
		 WHERE id=$1
		 RETURNING `+userColumns,
		uid.String(), u.Name, u.Username, u.Email, u.PasswordHash, u.Bio, u.Country, u.ProfilePic,
	)
	out, err := scanUser(row)
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

func (r *UsersRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	out, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

// rowScanner — общее у *sql.Row и *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		u  models.User
		id uuid.UUID
	)
	err := row.Scan(&id, &u.Name, &u.Username, &u.Email, &u.PasswordHash,
		&u.Bio, &u.Country, &u.ProfilePic, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	u.ID = id.String()
	return &u, nil
}

// mapError приводит ошибку database/sql или pgx к доменной.
func mapError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return serr.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return serr.ErrAlreadyExists
		case "23503", "22P02": // владелец уже удалён или id не uuid
			return serr.ErrNotFound
		}
	}
	return fmt.Errorf("%w: %v", serr.ErrInternal, err)
}

// Health — ping базы для /healthz.
type Health struct {
	db *sql.DB
}

func NewHealth(db *sql.DB) *Health { return &Health{db: db} }

func (h *Health) Ping(ctx context.Context) error {
	return h.db.PingContext(ctx)
}
