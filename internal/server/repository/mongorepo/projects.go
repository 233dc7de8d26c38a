package mongorepo

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/IvanChernomyrdin/go-devlog/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-devlog/internal/shared/errors"
)

type projectDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserID      string             `bson:"user_id"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	TechStack   []string           `bson:"tech_stack"`
	Status      string             `bson:"status"`
	GithubLink  string             `bson:"github_link"`
	LiveLink    string             `bson:"live_link"`
	Thumbnail   string             `bson:"thumbnail"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (d *projectDoc) model() *models.Project {
	tags := d.TechStack
	if tags == nil {
		tags = []string{}
	}
	return &models.Project{
		ID:          d.ID.Hex(),
		UserID:      d.UserID,
		Title:       d.Title,
		Description: d.Description,
		TechStack:   tags,
		Status:      models.Status(d.Status),
		GithubLink:  d.GithubLink,
		LiveLink:    d.LiveLink,
		Thumbnail:   d.Thumbnail,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type ProjectsRepository struct {
	col *mongo.Collection
}

func NewProjectsRepository(db *mongo.Database) *ProjectsRepository {
	return &ProjectsRepository{col: db.Collection(projectsCollection)}
}

func (r *ProjectsRepository) Create(ctx context.Context, p *models.Project) (*models.Project, error) {
	ts := now()
	doc := projectDoc{
		ID:          primitive.NewObjectID(),
		UserID:      p.UserID,
		Title:       p.Title,
		Description: p.Description,
		TechStack:   p.TechStack,
		Status:      string(p.Status),
		GithubLink:  p.GithubLink,
		LiveLink:    p.LiveLink,
		Thumbnail:   p.Thumbnail,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	if doc.TechStack == nil {
		doc.TechStack = []string{}
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, mapError(err)
	}
	return doc.model(), nil
}

func (r *ProjectsRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, serr.ErrNotFound
	}
	var doc projectDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, mapError(err)
	}
	return doc.model(), nil
}

// List — проекты владельца, новые первыми.
// search экранируется через regexp.QuoteMeta: ищем подстроку, а не пользовательский regex.
func (r *ProjectsRepository) List(ctx context.Context, userID string, filter models.ProjectFilter) ([]*models.Project, error) {
	q := ProjectQuery(userID, filter)
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})

	cur, err := r.col.Find(ctx, q, opts)
	if err != nil {
		return nil, mapError(err)
	}
	defer cur.Close(ctx)

	var docs []projectDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, mapError(err)
	}

	out := make([]*models.Project, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].model())
	}
	return out, nil
}

// ProjectQuery собирает фильтр выборки списка проектов.
func ProjectQuery(userID string, filter models.ProjectFilter) bson.M {
	q := bson.M{"user_id": userID}
	if filter.Status != "" && filter.Status != models.StatusAll {
		q["status"] = string(filter.Status)
	}
	if filter.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		// regex по массиву совпадает, если подходит хотя бы один элемент
		q["$or"] = bson.A{
			bson.M{"title": re},
			bson.M{"tech_stack": re},
		}
	}
	return q
}

func (r *ProjectsRepository) Update(ctx context.Context, p *models.Project) (*models.Project, error) {
	oid, ok := parseID(p.ID)
	if !ok {
		return nil, serr.ErrNotFound
	}
	tags := p.TechStack
	if tags == nil {
		tags = []string{}
	}
	var doc projectDoc
	err := findOneAndSet(ctx, r.col, oid, bson.M{
		"title":       p.Title,
		"description": p.Description,
		"tech_stack":  tags,
		"status":      string(p.Status),
		"github_link": p.GithubLink,
		"live_link":   p.LiveLink,
		"thumbnail":   p.Thumbnail,
		"updated_at":  now(),
	}, &doc)
	if err != nil {
		return nil, err
	}
	return doc.model(), nil
}

func (r *ProjectsRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.col, id)
}
