package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/IvanChernomyrdin/go-devlog/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-devlog/internal/shared/errors"
)

const projectColumns = `id, user_id, title, description, tech_stack, status, github_link, live_link, thumbnail, created_at, updated_at`

type ProjectsRepository struct {
	db *sql.DB
}

func NewProjectsRepository(db *sql.DB) *ProjectsRepository {
	return &ProjectsRepository{db: db}
}

func (r *ProjectsRepository) Create(ctx context.Context, p *models.Project) (*models.Project, error) {
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO projects (user_id, title, description, tech_stack, status, github_link, live_link, thumbnail)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		 RETURNING `+projectColumns,
		p.UserID, p.Title, p.Description, pq.Array(nonNil(p.TechStack)), string(p.Status), p.GithubLink, p.LiveLink, p.Thumbnail,
	)
	out, err := scanProject(row)
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

func (r *ProjectsRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	pid, err := uuid.Parse(id)
	if err != nil {
		return nil, serr.ErrNotFound
	}
	out, err := scanProject(r.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id=$1`, pid.String()))
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

// List возвращает проекты владельца, новые первыми.
//
// search ищется как подстрока без учёта регистра в title или в любом элементе tech_stack.
// Спецсимволы LIKE экранируются, так что поиск всегда буквальный.
func (r *ProjectsRepository) List(ctx context.Context, userID string, filter models.ProjectFilter) ([]*models.Project, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return []*models.Project{}, nil
	}

	query := `SELECT ` + projectColumns + ` FROM projects WHERE user_id=$1`
	args := []any{userID}

	if filter.Status != "" && filter.Status != models.StatusAll {
		args = append(args, string(filter.Status))
		query += fmt.Sprintf(` AND status=$%d`, len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		n := len(args)
		query += fmt.Sprintf(` AND (title ILIKE $%d OR EXISTS (SELECT 1 FROM unnest(tech_stack) AS tag WHERE tag ILIKE $%d))`, n, n)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	out := make([]*models.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, mapError(err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

// Update перезаписывает все изменяемые поля. user_id и created_at не трогаются.
func (r *ProjectsRepository) Update(ctx context.Context, p *models.Project) (*models.Project, error) {
	pid, err := uuid.Parse(p.ID)
	if err != nil {
		return nil, serr.ErrNotFound
	}
	row := r.db.QueryRowContext(ctx,
		`UPDATE projects
		 SET title=$2, description=$3, tech_stack=$4, status=$5, github_link=$6, live_link=$7, thumbnail=$8, updated_at=now()
		 WHERE id=$1
		 RETURNING `+projectColumns,
		pid.String(), p.Title, p.Description, pq.Array(nonNil(p.TechStack)), string(p.Status), p.GithubLink, p.LiveLink, p.Thumbnail,
	)
	out, err := scanProject(row)
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

func (r *ProjectsRepository) Delete(ctx context.Context, id string) error {
	pid, err := uuid.Parse(id)
	if err != nil {
		return serr.ErrNotFound
	}
	return execDelete(ctx, r.db, `DELETE FROM projects WHERE id=$1`, pid.String())
}

func scanProject(row rowScanner) (*models.Project, error) {
	var (
		p      models.Project
		id     uuid.UUID
		userID uuid.UUID
		status string
		tags   []string
	)
	err := row.Scan(&id, &userID, &p.Title, &p.Description, pq.Array(&tags), &status,
		&p.GithubLink, &p.LiveLink, &p.Thumbnail, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.ID = id.String()
	p.UserID = userID.String()
	p.Status = models.Status(status)
	p.TechStack = nonNil(tags)
	return &p, nil
}

func execDelete(ctx context.Context, db *sql.DB, query string, arg any) error {
	res, err := db.ExecContext(ctx, query, arg)
	if err != nil {
		return mapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return mapError(err)
	}
	if n == 0 {
		return serr.ErrNotFound
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike экранирует спецсимволы шаблона LIKE (escape-символ по умолчанию — обратный слэш).
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
