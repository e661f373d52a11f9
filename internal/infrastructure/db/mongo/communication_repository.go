package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/raylene/casework/internal/core/domain"
)

const (
	collectionMessages      = "messages"
	collectionNotifications = "notifications"
	collectionTemplates     = "templates"
)

type MessageRepository struct {
	col *mongo.Collection
}

func NewMessageRepository(db *mongo.Database) *MessageRepository {
	return &MessageRepository{col: db.Collection(collectionMessages)}
}

func (r *MessageRepository) Create(ctx context.Context, m *domain.Message) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, m); err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (r *MessageRepository) ListForUser(ctx context.Context, userID string, includeInternal bool) ([]*domain.Message, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"from_user_id": userID},
		bson.M{"to_user_id": userID},
	}}
	if !includeInternal {
		filter["is_internal"] = false
	}
	return findAll[domain.Message](ctx, r.col, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
}

func (r *MessageRepository) EnsureIndexes(ctx context.Context) error {
	return createIndexes(ctx, r.col,
		mongo.IndexModel{Keys: bson.D{{Key: "from_user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		mongo.IndexModel{Keys: bson.D{{Key: "to_user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		mongo.IndexModel{Keys: bson.D{{Key: "application_id", Value: 1}}},
	)
}

type NotificationRepository struct {
	col *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	return &NotificationRepository{col: db.Collection(collectionNotifications)}
}

func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, n); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (r *NotificationRepository) ListForUser(ctx context.Context, userID string) ([]*domain.Notification, error) {
	return findAll[domain.Notification](ctx, r.col, bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
}

// MarkRead stamps read_at on the caller's own notification. Someone else's
// notification is reported as missing.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID string) (*domain.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var n domain.Notification
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "user_id": userID},
		bson.M{"$currentDate": bson.M{"read_at": true}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&n)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotificationNotFound
		}
		return nil, fmt.Errorf("mark notification read: %w", err)
	}
	return &n, nil
}

func (r *NotificationRepository) EnsureIndexes(ctx context.Context) error {
	return createIndexes(ctx, r.col,
		mongo.IndexModel{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
	)
}

type TemplateRepository struct {
	col *mongo.Collection
}

func NewTemplateRepository(db *mongo.Database) *TemplateRepository {
	return &TemplateRepository{col: db.Collection(collectionTemplates)}
}

func (r *TemplateRepository) List(ctx context.Context, code, locale string) ([]*domain.Template, error) {
	filter := bson.M{}
	if code != "" {
		filter["code"] = code
	}
	if locale != "" {
		filter["locale"] = locale
	}
	return findAll[domain.Template](ctx, r.col, filter,
		options.Find().SetSort(bson.D{{Key: "code", Value: 1}, {Key: "locale", Value: 1}}))
}

func (r *TemplateRepository) Find(ctx context.Context, code, locale string) (*domain.Template, error) {
	var t domain.Template
	if err := findOne(ctx, r.col, bson.M{"code": code, "locale": locale}, &t, domain.ErrTemplateNotFound); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TemplateRepository) EnsureIndexes(ctx context.Context) error {
	return createIndexes(ctx, r.col, uniqueIndex(bson.D{{Key: "code", Value: 1}, {Key: "locale", Value: 1}}))
}
