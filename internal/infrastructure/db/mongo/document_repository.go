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

const (
	collectionDocuments     = "documents"
	collectionDocumentTypes = "document_types"
)

type DocumentRepository struct {
	col *mongo.Collection
}

func NewDocumentRepository(db *mongo.Database) *DocumentRepository {
	return &DocumentRepository{col: db.Collection(collectionDocuments)}
}

func (r *DocumentRepository) Create(ctx context.Context, d *domain.Document) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, d); err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (r *DocumentRepository) FindByID(ctx context.Context, id, clientID string) (*domain.Document, error) {
	filter := bson.M{"_id": id}
	if clientID != "" {
		filter["client_id"] = clientID
	}
	var d domain.Document
	if err := findOne(ctx, r.col, filter, &d, domain.ErrDocumentNotFound); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DocumentRepository) Update(ctx context.Context, d *domain.Document) error {
	return replaceByID(ctx, r.col, d.ID, d, domain.ErrDocumentNotFound)
}

func (r *DocumentRepository) List(ctx context.Context, f ports.DocumentFilter) ([]*domain.Document, int64, error) {
	filter := bson.M{}
	if f.ClientID != "" {
		filter["client_id"] = f.ClientID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.DocumentTypeID != "" {
		filter["document_type_id"] = f.DocumentTypeID
	}
	if f.ApplicationID != "" {
		filter["application_id"] = f.ApplicationID
	}

	total, err := count(ctx, r.col, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count documents: %w", err)
	}
	items, err := findAll[domain.Document](ctx, r.col, filter, page(f.Pagination, bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, 0, fmt.Errorf("list documents: %w", err)
	}
	return items, total, nil
}

func (r *DocumentRepository) EnsureIndexes(ctx context.Context) error {
	return createIndexes(ctx, r.col,
		mongo.IndexModel{Keys: bson.D{{Key: "application_id", Value: 1}}},
		mongo.IndexModel{Keys: bson.D{{Key: "client_id", Value: 1}, {Key: "created_at", Value: -1}}},
		mongo.IndexModel{Keys: bson.D{{Key: "status", Value: 1}}},
	)
}

type DocumentTypeRepository struct {
	col *mongo.Collection
}

func NewDocumentTypeRepository(db *mongo.Database) *DocumentTypeRepository {
	return &DocumentTypeRepository{col: db.Collection(collectionDocumentTypes)}
}

func (r *DocumentTypeRepository) Create(ctx context.Context, t *domain.DocumentType) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, t); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("document type %q: %w", t.Code, domain.ErrConflict)
		}
		return err
	}
	return nil
}

func (r *DocumentTypeRepository) FindByID(ctx context.Context, id string) (*domain.DocumentType, error) {
	var t domain.DocumentType
	if err := findOne(ctx, r.col, bson.M{"_id": id}, &t, domain.ErrDocumentTypeNotFound); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *DocumentTypeRepository) List(ctx context.Context, activeOnly bool) ([]*domain.DocumentType, error) {
	filter := bson.M{}
	if activeOnly {
		filter["is_active"] = true
	}
	return findAll[domain.DocumentType](ctx, r.col, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
}

func (r *DocumentTypeRepository) EnsureIndexes(ctx context.Context) error {
	return createIndexes(ctx, r.col, uniqueIndex(bson.D{{Key: "code", Value: 1}}))
}
