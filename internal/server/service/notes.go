package service

import (
	"context"
	"strings"

	"github.com/IvanChernomyrdin/go-devlog/internal/server/models"
	smodels "github.com/IvanChernomyrdin/go-devlog/internal/server/service/models"
	serr "github.com/IvanChernomyrdin/go-devlog/internal/shared/errors"
)

// NotesService — CRUD заметок владельца. Обязательных полей у заметки нет.
type NotesService struct {
	repo  NotesRepo
	owned Owned[*models.Note]
}

func NewNotesService(repo NotesRepo) *NotesService {
	return &NotesService{
		repo:  repo,
		owned: NewOwned[*models.Note]("note", repo),
	}
}

// Create создаёт заметку. Пустой title становится "Untitled Note", пустой color — "#1e293b".
// Content сохраняется как есть, с отступами и переводами строк.
func (s *NotesService) Create(ctx context.Context, userID string, in smodels.NotePatch) (*models.Note, error) {
	if userID == "" {
		return nil, serr.ErrUnauthorized
	}
	n := &models.Note{
		UserID:  userID,
		Title:   strings.TrimSpace(in.Title.Value),
		Content: in.Content.Value,
		Color:   strings.TrimSpace(in.Color.Value),
	}
	if n.Title == "" {
		n.Title = models.DefaultNoteTitle
	}
	if n.Color == "" {
		n.Color = models.DefaultNoteColor
	}
	return s.repo.Create(ctx, n)
}

// List — заметки владельца, последние изменённые первыми.
func (s *NotesService) List(ctx context.Context, userID string) ([]*models.Note, error) {
	if userID == "" {
		return nil, serr.ErrUnauthorized
	}
	return s.repo.ListByUser(ctx, userID)
}

func (s *NotesService) Get(ctx context.Context, userID, id string) (*models.Note, error) {
	return s.owned.Get(ctx, userID, id)
}

// Update перезаписывает только пришедшие поля, пустые значения разрешены.
func (s *NotesService) Update(ctx context.Context, userID, id string, patch smodels.NotePatch) (*models.Note, error) {
	return s.owned.Mutate(ctx, userID, id, func(n *models.Note) error {
		if patch.Title.Set {
			n.Title = strings.TrimSpace(patch.Title.Value)
		}
		if patch.Content.Set {
			n.Content = patch.Content.Value
		}
		if patch.Color.Set {
			n.Color = strings.TrimSpace(patch.Color.Value)
		}
		return nil
	})
}

func (s *NotesService) Delete(ctx context.Context, userID, id string) error {
	return s.owned.Delete(ctx, userID, id)
}
