package mongorepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/IvanChernomyrdin/go-devlog/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-devlog/internal/shared/errors"
)

type userDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Username     string             `bson:"username"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password_hash"`
	Bio          string             `bson:"bio"`
	Country      string             `bson:"country"`
	ProfilePic   string             `bson:"profile_pic"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func (d *userDoc) model() *models.User {
	return &models.User{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Bio:          d.Bio,
		Country:      d.Country,
		ProfilePic:   d.ProfilePic,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

type UsersRepository struct {
	col *mongo.Collection
}

func NewUsersRepository(db *mongo.Database) *UsersRepository {
	return &UsersRepository{col: db.Collection(usersCollection)}
}

func (r *UsersRepository) Create(ctx context.Context, u *models.User) (*models.User, error) {
	ts := now()
	doc := userDoc{
		ID:           primitive.NewObjectID(),
		Name:         u.Name,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Bio:          u.Bio,
		Country:      u.Country,
		ProfilePic:   u.ProfilePic,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, mapError(err)
	}
	return doc.model(), nil
}

func (r *UsersRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, serr.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UsersRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UsersRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *UsersRepository) Update(ctx context.Context, u *models.User) (*models.User, error) {
	oid, ok := parseID(u.ID)
	if !ok {
		return nil, serr.ErrNotFound
	}
	var doc userDoc
	err := findOneAndSet(ctx, r.col, oid, bson.M{
		"name":          u.Name,
		"username":      u.Username,
		"email":         u.Email,
		"password_hash": u.PasswordHash,
		"bio":           u.Bio,
		"country":       u.Country,
		"profile_pic":   u.ProfilePic,
		"updated_at":    now(),
	}, &doc)
	if err != nil {
		return nil, err
	}
	return doc.model(), nil
}

func (r *UsersRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var doc userDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, mapError(err)
	}
	return doc.model(), nil
}
