package mongo

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/raylene/casework/internal/core/domain"
	"github.com/raylene/casework/internal/core/ports"
)

const (
	collectionApplications  = "applications"
	collectionStatusHistory = "status_history"
)

// ApplicationRepository stores applications and their status history. It also
// reaches into the task and document collections to cascade deletes.
type ApplicationRepository struct {
	apps    *mongo.Collection
	history *mongo.Collection
	tasks   *mongo.Collection
	docs    *mongo.Collection
}

func NewApplicationRepository(db *mongo.Database) *ApplicationRepository {
	return &ApplicationRepository{
		apps:    db.Collection(collectionApplications),
		history: db.Collection(collectionStatusHistory),
		tasks:   db.Collection(collectionTasks),
		docs:    db.Collection(collectionDocuments),
	}
}

func (r *ApplicationRepository) Create(ctx context.Context, a *domain.Application) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.apps.InsertOne(ctx, a); err != nil {
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}

// FindByID retrieves an application. When clientID is non-empty, an
// additional filter by client_id is applied.
func (r *ApplicationRepository) FindByID(ctx context.Context, id, clientID string) (*domain.Application, error) {
	filter := bson.M{"_id": id}
	if clientID != "" {
		filter["client_id"] = clientID
	}
	var a domain.Application
	if err := findOne(ctx, r.apps, filter, &a, domain.ErrApplicationNotFound); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *ApplicationRepository) List(ctx context.Context, f ports.ApplicationFilter) ([]*domain.Application, int64, error) {
	filter := bson.M{}
	if f.ClientID != "" {
		filter["client_id"] = f.ClientID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Priority != "" {
		filter["priority"] = f.Priority
	}
	if f.ApplicationTypeID != "" {
		filter["application_type_id"] = f.ApplicationTypeID
	}
	if f.AssignedToID != "" {
		filter["assigned_to_id"] = f.AssignedToID
	}
	if q := strings.TrimSpace(f.Search); q != "" {
		re := bson.M{"$regex": regexp.QuoteMeta(q), "$options": "i"}
		filter["$or"] = bson.A{
			bson.M{"notes": re},
			bson.M{"internal_notes": re},
			bson.M{"external_ref": re},
		}
	}

	total, err := count(ctx, r.apps, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count applications: %w", err)
	}
	items, err := findAll[domain.Application](ctx, r.apps, filter, page(f.Pagination, orderingSort(f.Ordering)))
	if err != nil {
		return nil, 0, fmt.Errorf("list applications: %w", err)
	}
	return items, total, nil
}

// orderingSort turns "field" / "-field" into a sort document with _id as tiebreaker.
func orderingSort(ordering string) bson.D {
	dir := 1
	field := ordering
	if strings.HasPrefix(ordering, "-") {
		dir, field = -1, ordering[1:]
	}
	if field == "" {
		field, dir = "created_at", -1
	}
	return bson.D{{Key: field, Value: dir}, {Key: "_id", Value: dir}}
}

// Update replaces the stored application only if its version still equals
// expectedVersion, then advances a.Version.
func (r *ApplicationRepository) Update(ctx context.Context, a *domain.Application, expectedVersion int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	next := *a
	next.Version = expectedVersion + 1
	res, err := r.apps.ReplaceOne(ctx, bson.M{"_id": a.ID, "version": expectedVersion}, &next)
	if err != nil {
		return fmt.Errorf("update application: %w", err)
	}
	if res.MatchedCount == 0 {
		n, err := r.apps.CountDocuments(ctx, bson.M{"_id": a.ID})
		if err != nil {
			return err
		}
		if n == 0 {
			return domain.ErrApplicationNotFound
		}
		return domain.ErrConflict
	}
	a.Version = next.Version
	return nil
}

// Delete removes the application and the rows it owns. Callers run it inside
// a transaction so the cascade is all-or-nothing.
func (r *ApplicationRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	owned := bson.M{"application_id": id}
	for _, col := range []*mongo.Collection{r.history, r.tasks, r.docs} {
		if _, err := col.DeleteMany(ctx, owned); err != nil {
			return fmt.Errorf("cascade %s: %w", col.Name(), err)
		}
	}
	res, err := r.apps.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete application: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrApplicationNotFound
	}
	return nil
}

func (r *ApplicationRepository) CountByType(ctx context.Context, applicationTypeID string) (int64, error) {
	return count(ctx, r.apps, bson.M{"application_type_id": applicationTypeID})
}

func (r *ApplicationRepository) AppendHistory(ctx context.Context, h *domain.StatusHistory) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.history.InsertOne(ctx, h)
	return err
}

// ListHistory returns the transitions of one application, newest first.
func (r *ApplicationRepository) ListHistory(ctx context.Context, applicationID string) ([]domain.StatusHistory, error) {
	rows, err := findAll[domain.StatusHistory](ctx, r.history,
		bson.M{"application_id": applicationID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("list status history: %w", err)
	}
	out := make([]domain.StatusHistory, 0, len(rows))
	for _, h := range rows {
		out = append(out, *h)
	}
	return out, nil
}

func (r *ApplicationRepository) EnsureIndexes(ctx context.Context) error {
	if err := createIndexes(ctx, r.apps,
		mongo.IndexModel{Keys: bson.D{{Key: "client_id", Value: 1}, {Key: "created_at", Value: -1}}},
		mongo.IndexModel{Keys: bson.D{{Key: "status", Value: 1}}},
		mongo.IndexModel{Keys: bson.D{{Key: "application_type_id", Value: 1}}},
		mongo.IndexModel{Keys: bson.D{{Key: "assigned_to_id", Value: 1}}},
	); err != nil {
		return err
	}
	return createIndexes(ctx, r.history,
		mongo.IndexModel{Keys: bson.D{{Key: "application_id", Value: 1}, {Key: "created_at", Value: -1}}},
	)
}

// --- application types ---

const collectionApplicationTypes = "application_types"

type applicationTypeDoc struct {
	ID              string               `bson:"_id"`
	Code            string               `bson:"code"`
	Name            string               `bson:"name"`
	Slug            string               `bson:"slug"`
	Country         string               `bson:"country"`
	Description     string               `bson:"description"`
	BasePrice       primitive.Decimal128 `bson:"base_price"`
	DocRequirements []string             `bson:"doc_requirements"`
	IsActive        bool                 `bson:"is_active"`
	CreatedAt       time.Time            `bson:"created_at"`
}

func toApplicationTypeDoc(t *domain.ApplicationType) applicationTypeDoc {
	return applicationTypeDoc{
		ID:              t.ID,
		Code:            t.Code,
		Name:            t.Name,
		Slug:            t.Slug,
		Country:         t.Country,
		Description:     t.Description,
		BasePrice:       toDecimal128(t.BasePrice),
		DocRequirements: t.DocRequirements,
		IsActive:        t.IsActive,
		CreatedAt:       t.CreatedAt,
	}
}

func (d *applicationTypeDoc) toDomain() *domain.ApplicationType {
	return &domain.ApplicationType{
		ID:              d.ID,
		Code:            d.Code,
		Name:            d.Name,
		Slug:            d.Slug,
		Country:         d.Country,
		Description:     d.Description,
		BasePrice:       fromDecimal128(d.BasePrice),
		DocRequirements: d.DocRequirements,
		IsActive:        d.IsActive,
		CreatedAt:       d.CreatedAt,
	}
}

// ApplicationTypeRepository stores the application type catalog.
type ApplicationTypeRepository struct {
	col *mongo.Collection
}

func NewApplicationTypeRepository(db *mongo.Database) *ApplicationTypeRepository {
	return &ApplicationTypeRepository{col: db.Collection(collectionApplicationTypes)}
}

func (r *ApplicationTypeRepository) Create(ctx context.Context, t *domain.ApplicationType) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, toApplicationTypeDoc(t)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("application type %q: %w", t.Code, domain.ErrConflict)
		}
		return err
	}
	return nil
}

func (r *ApplicationTypeRepository) FindByID(ctx context.Context, id string) (*domain.ApplicationType, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *ApplicationTypeRepository) FindBySlug(ctx context.Context, slug string) (*domain.ApplicationType, error) {
	return r.findOne(ctx, bson.M{"slug": slug})
}

func (r *ApplicationTypeRepository) findOne(ctx context.Context, filter bson.M) (*domain.ApplicationType, error) {
	var d applicationTypeDoc
	if err := findOne(ctx, r.col, filter, &d, domain.ErrApplicationTypeNotFound); err != nil {
		return nil, err
	}
	return d.toDomain(), nil
}

func (r *ApplicationTypeRepository) List(ctx context.Context, activeOnly bool) ([]*domain.ApplicationType, error) {
	filter := bson.M{}
	if activeOnly {
		filter["is_active"] = true
	}
	docs, err := findAll[applicationTypeDoc](ctx, r.col, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list application types: %w", err)
	}
	out := make([]*domain.ApplicationType, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *ApplicationTypeRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrApplicationTypeNotFound
	}
	return nil
}

func (r *ApplicationTypeRepository) EnsureIndexes(ctx context.Context) error {
	return createIndexes(ctx, r.col,
		uniqueIndex(bson.D{{Key: "code", Value: 1}}),
		uniqueIndex(bson.D{{Key: "slug", Value: 1}}),
	)
}
