package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/raylene/casework/internal/core/domain"
	"github.com/raylene/casework/internal/core/ports"
)

const collectionTasks = "tasks"

type TaskRepository struct {
	col *mongo.Collection
}

func NewTaskRepository(db *mongo.Database) *TaskRepository {
	return &TaskRepository{col: db.Collection(collectionTasks)}
}

func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, t); err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id, clientID string) (*domain.Task, error) {
	filter := bson.M{"_id": id}
	if clientID != "" {
		filter["client_id"] = clientID
	}
	var t domain.Task
	if err := findOne(ctx, r.col, filter, &t, domain.ErrTaskNotFound); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepository) Update(ctx context.Context, t *domain.Task) error {
	return replaceByID(ctx, r.col, t.ID, t, domain.ErrTaskNotFound)
}

func (r *TaskRepository) List(ctx context.Context, f ports.TaskFilter) ([]*domain.Task, error) {
	filter := bson.M{}
	if f.ClientID != "" {
		filter["client_id"] = f.ClientID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.AssignedToID != "" {
		filter["assigned_to_id"] = f.AssignedToID
	}
	if f.ApplicationID != "" {
		filter["application_id"] = f.ApplicationID
	}
	sort := bson.D{{Key: "due_date", Value: 1}, {Key: "created_at", Value: 1}}
	return findAll[domain.Task](ctx, r.col, filter, options.Find().SetSort(sort))
}

func (r *TaskRepository) EnsureIndexes(ctx context.Context) error {
	return createIndexes(ctx, r.col,
		mongo.IndexModel{Keys: bson.D{{Key: "application_id", Value: 1}}},
		mongo.IndexModel{Keys: bson.D{{Key: "client_id", Value: 1}, {Key: "due_date", Value: 1}}},
		mongo.IndexModel{Keys: bson.D{{Key: "assigned_to_id", Value: 1}}},
	)
}
