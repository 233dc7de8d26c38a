// Package mongorepo — репозитории поверх MongoDB (db.driver: mongo).
//
// id документов — ObjectID, наружу отдаётся hex. Невалидный hex трактуется
// как отсутствующий документ. Уникальность email и username держат индексы,
// которые создаёт EnsureIndexes.
package mongorepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	serr "github.com/IvanChernomyrdin/go-devlog/internal/shared/errors"
)

const (
	usersCollection    = "users"
	projectsCollection = "projects"
	notesCollection    = "notes"
)

// EnsureIndexes создаёт индексы. Повторный вызов безопасен.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(usersCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return fmt.Errorf("users indexes: %w", err)
	}

	_, err = db.Collection(projectsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("projects indexes: %w", err)
	}

	_, err = db.Collection(notesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "updated_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("notes indexes: %w", err)
	}
	return nil
}

// Health — ping для /healthz.
type Health struct {
	client *mongo.Client
}

func NewHealth(client *mongo.Client) *Health { return &Health{client: client} }

func (h *Health) Ping(ctx context.Context) error {
	return h.client.Ping(ctx, readpref.Primary())
}

// now — время с точностью до миллисекунд, как его хранит mongo
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func parseID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}

func mapError(err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return serr.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return serr.ErrAlreadyExists
	default:
		return fmt.Errorf("%w: %v", serr.ErrInternal, err)
	}
}

// findOneAndSet делает $set и возвращает документ после изменения.
func findOneAndSet(ctx context.Context, col *mongo.Collection, id primitive.ObjectID, set bson.M, out any) error {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	res := col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts)
	if err := res.Decode(out); err != nil {
		return mapError(err)
	}
	return nil
}

func deleteByID(ctx context.Context, col *mongo.Collection, id string) error {
	oid, ok := parseID(id)
	if !ok {
		return serr.ErrNotFound
	}
	res, err := col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return mapError(err)
	}
	if res.DeletedCount == 0 {
		return serr.ErrNotFound
	}
	return nil
}
