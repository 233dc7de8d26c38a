package mongorepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/IvanChernomyrdin/go-devlog/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-devlog/internal/shared/errors"
)

type noteDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id"`
	Title     string             `bson:"title"`
	Content   string             `bson:"content"`
	Color     string             `bson:"color"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (d *noteDoc) model() *models.Note {
	return &models.Note{
		ID:        d.ID.Hex(),
		UserID:    d.UserID,
		Title:     d.Title,
		Content:   d.Content,
		Color:     d.Color,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type NotesRepository struct {
	col *mongo.Collection
}

func NewNotesRepository(db *mongo.Database) *NotesRepository {
	return &NotesRepository{col: db.Collection(notesCollection)}
}

func (r *NotesRepository) Create(ctx context.Context, n *models.Note) (*models.Note, error) {
	ts := now()
	doc := noteDoc{
		ID:        primitive.NewObjectID(),
		UserID:    n.UserID,
		Title:     n.Title,
		Content:   n.Content,
		Color:     n.Color,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, mapError(err)
	}
	return doc.model(), nil
}

func (r *NotesRepository) GetByID(ctx context.Context, id string) (*models.Note, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, serr.ErrNotFound
	}
	var doc noteDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, mapError(err)
	}
	return doc.model(), nil
}

func (r *NotesRepository) ListByUser(ctx context.Context, userID string) ([]*models.Note, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, mapError(err)
	}
	defer cur.Close(ctx)

	var docs []noteDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, mapError(err)
	}
	out := make([]*models.Note, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].model())
	}
	return out, nil
}

func (r *NotesRepository) Update(ctx context.Context, n *models.Note) (*models.Note, error) {
	oid, ok := parseID(n.ID)
	if !ok {
		return nil, serr.ErrNotFound
	}
	var doc noteDoc
	err := findOneAndSet(ctx, r.col, oid, bson.M{
		"title":      n.Title,
		"content":    n.Content,
		"color":      n.Color,
		"updated_at": now(),
	}, &doc)
	if err != nil {
		return nil, err
	}
	return doc.model(), nil
}

func (r *NotesRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.col, id)
}
