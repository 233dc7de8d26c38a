// Package memory — хранилище в памяти процесса (db.driver: memory).
//
// Нужен для локальной разработки без БД и для сценарных тестов сервисов.
// Поведение повторяет postgres и mongo: уникальность email/username,
// ErrNotFound на неизвестный id, сортировка списков, updatedAt на каждой записи.
// Наружу всегда отдаются копии, чтобы вызывающий не мог поменять состояние в обход Update.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/go-devlog/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-devlog/internal/shared/errors"
)

// Store — общее состояние всех трёх репозиториев.
type Store struct {
	mu  sync.RWMutex
	now func() time.Time
	seq int64

	users    map[string]*models.User
	projects map[string]*projectRow
	notes    map[string]*noteRow
}

// seq нужен для стабильной сортировки, когда timestamp совпадает
type projectRow struct {
	p   models.Project
	seq int64
}

type noteRow struct {
	n   models.Note
	seq int64 // номер последней записи
}

func NewStore() *Store {
	return &Store{
		now:      func() time.Time { return time.Now().UTC() },
		users:    make(map[string]*models.User),
		projects: make(map[string]*projectRow),
		notes:    make(map[string]*noteRow),
	}
}

// SetClock подменяет часы (для тестов сортировки).
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Users() *UsersRepository       { return &UsersRepository{s: s} }
func (s *Store) Projects() *ProjectsRepository { return &ProjectsRepository{s: s} }
func (s *Store) Notes() *NotesRepository       { return &NotesRepository{s: s} }

func (s *Store) next() int64 {
	s.seq++
	return s.seq
}

// UsersRepository — пользователи.
type UsersRepository struct{ s *Store }

func (r *UsersRepository) Create(_ context.Context, u *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.taken(u.Email, u.Username, "") {
		return nil, serr.ErrAlreadyExists
	}
	cp := *u
	cp.ID = uuid.NewString()
	cp.CreatedAt = r.s.now()
	cp.UpdatedAt = cp.CreatedAt
	r.s.users[cp.ID] = &cp

	out := cp
	return &out, nil
}

func (r *UsersRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, serr.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *UsersRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Email == email })
}

func (r *UsersRepository) GetByUsername(_ context.Context, username string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Username == username })
}

func (r *UsersRepository) Update(_ context.Context, u *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.users[u.ID]
	if !ok {
		return nil, serr.ErrNotFound
	}
	if r.s.taken(u.Email, u.Username, u.ID) {
		return nil, serr.ErrAlreadyExists
	}
	cp := *u
	cp.CreatedAt = cur.CreatedAt
	cp.UpdatedAt = r.s.now()
	r.s.users[cp.ID] = &cp

	out := cp
	return &out, nil
}

func (r *UsersRepository) find(match func(*models.User) bool) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, serr.ErrNotFound
}

// taken — занят ли email или username кем-то кроме exceptID. Вызывать под mu.
func (s *Store) taken(email, username, exceptID string) bool {
	for id, u := range s.users {
		if id == exceptID {
			continue
		}
		if u.Email == email || u.Username == username {
			return true
		}
	}
	return false
}

// ProjectsRepository — проекты.
type ProjectsRepository struct{ s *Store }

func (r *ProjectsRepository) Create(_ context.Context, p *models.Project) (*models.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row := &projectRow{p: cloneProject(p), seq: r.s.next()}
	row.p.ID = uuid.NewString()
	row.p.CreatedAt = r.s.now()
	row.p.UpdatedAt = row.p.CreatedAt
	r.s.projects[row.p.ID] = row

	out := cloneProject(&row.p)
	return &out, nil
}

func (r *ProjectsRepository) GetByID(_ context.Context, id string) (*models.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	row, ok := r.s.projects[id]
	if !ok {
		return nil, serr.ErrNotFound
	}
	out := cloneProject(&row.p)
	return &out, nil
}

func (r *ProjectsRepository) List(_ context.Context, userID string, filter models.ProjectFilter) ([]*models.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows := make([]*projectRow, 0)
	for _, row := range r.s.projects {
		if row.p.UserID == userID && filter.Matches(&row.p) {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].p.CreatedAt.Equal(rows[j].p.CreatedAt) {
			return rows[i].p.CreatedAt.After(rows[j].p.CreatedAt)
		}
		return rows[i].seq > rows[j].seq
	})

	out := make([]*models.Project, 0, len(rows))
	for _, row := range rows {
		cp := cloneProject(&row.p)
		out = append(out, &cp)
	}
	return out, nil
}

func (r *ProjectsRepository) Update(_ context.Context, p *models.Project) (*models.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row, ok := r.s.projects[p.ID]
	if !ok {
		return nil, serr.ErrNotFound
	}
	next := cloneProject(p)
	// владелец и дата создания не меняются
	next.UserID = row.p.UserID
	next.CreatedAt = row.p.CreatedAt
	next.UpdatedAt = r.s.now()
	row.p = next

	out := cloneProject(&row.p)
	return &out, nil
}

func (r *ProjectsRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.projects[id]; !ok {
		return serr.ErrNotFound
	}
	delete(r.s.projects, id)
	return nil
}

func cloneProject(p *models.Project) models.Project {
	cp := *p
	cp.TechStack = append([]string{}, p.TechStack...)
	return cp
}

// NotesRepository — заметки.
type NotesRepository struct{ s *Store }

func (r *NotesRepository) Create(_ context.Context, n *models.Note) (*models.Note, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row := &noteRow{n: *n, seq: r.s.next()}
	row.n.ID = uuid.NewString()
	row.n.CreatedAt = r.s.now()
	row.n.UpdatedAt = row.n.CreatedAt
	r.s.notes[row.n.ID] = row

	out := row.n
	return &out, nil
}

func (r *NotesRepository) GetByID(_ context.Context, id string) (*models.Note, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	row, ok := r.s.notes[id]
	if !ok {
		return nil, serr.ErrNotFound
	}
	out := row.n
	return &out, nil
}

func (r *NotesRepository) ListByUser(_ context.Context, userID string) ([]*models.Note, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows := make([]*noteRow, 0)
	for _, row := range r.s.notes {
		if row.n.UserID == userID {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].n.UpdatedAt.Equal(rows[j].n.UpdatedAt) {
			return rows[i].n.UpdatedAt.After(rows[j].n.UpdatedAt)
		}
		return rows[i].seq > rows[j].seq
	})

	out := make([]*models.Note, 0, len(rows))
	for _, row := range rows {
		n := row.n
		out = append(out, &n)
	}
	return out, nil
}

func (r *NotesRepository) Update(_ context.Context, n *models.Note) (*models.Note, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row, ok := r.s.notes[n.ID]
	if !ok {
		return nil, serr.ErrNotFound
	}
	next := *n
	next.UserID = row.n.UserID
	next.CreatedAt = row.n.CreatedAt
	next.UpdatedAt = r.s.now()
	row.n = next
	row.seq = r.s.next()

	out := row.n
	return &out, nil
}

func (r *NotesRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.notes[id]; !ok {
		return serr.ErrNotFound
	}
	delete(r.s.notes, id)
	return nil
}
