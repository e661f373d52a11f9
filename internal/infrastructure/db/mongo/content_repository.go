package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/google/uuid"

	"github.com/raylene/casework/internal/core/domain"
	"github.com/raylene/casework/internal/core/ports"
)

const (
	collectionBlogPosts = "blog_posts"
	collectionPages     = "pages"
)

type BlogRepository struct {
	col *mongo.Collection
}

func NewBlogRepository(db *mongo.Database) *BlogRepository {
	return &BlogRepository{col: db.Collection(collectionBlogPosts)}
}

func (r *BlogRepository) Create(ctx context.Context, post *domain.BlogPost) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, post); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("blog post %q: %w", post.Slug, domain.ErrConflict)
		}
		return fmt.Errorf("insert blog post: %w", err)
	}
	return nil
}

func (r *BlogRepository) FindBySlug(ctx context.Context, slug string, publishedOnly bool) (*domain.BlogPost, error) {
	filter := bson.M{"slug": slug}
	if publishedOnly {
		filter["published_at"] = bson.M{"$ne": nil}
	}
	var p domain.BlogPost
	if err := findOne(ctx, r.col, filter, &p, domain.ErrPostNotFound); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *BlogRepository) ListPublished(ctx context.Context, p ports.Pagination) ([]*domain.BlogPost, int64, error) {
	filter := bson.M{"published_at": bson.M{"$ne": nil}}

	total, err := count(ctx, r.col, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count blog posts: %w", err)
	}
	items, err := findAll[domain.BlogPost](ctx, r.col, filter, page(p, bson.D{{Key: "published_at", Value: -1}}))
	if err != nil {
		return nil, 0, fmt.Errorf("list blog posts: %w", err)
	}
	return items, total, nil
}

func (r *BlogRepository) Update(ctx context.Context, post *domain.BlogPost) error {
	return replaceByID(ctx, r.col, post.ID, post, domain.ErrPostNotFound)
}

func (r *BlogRepository) EnsureIndexes(ctx context.Context) error {
	return createIndexes(ctx, r.col,
		uniqueIndex(bson.D{{Key: "slug", Value: 1}}),
		mongo.IndexModel{Keys: bson.D{{Key: "published_at", Value: -1}}},
	)
}

type PageRepository struct {
	col *mongo.Collection
	now func() time.Time
}

func NewPageRepository(db *mongo.Database) *PageRepository {
	return &PageRepository{col: db.Collection(collectionPages), now: func() time.Time { return time.Now().UTC() }}
}

func (r *PageRepository) FindBySlug(ctx context.Context, slug string) (*domain.Page, error) {
	var p domain.Page
	if err := findOne(ctx, r.col, bson.M{"slug": slug}, &p, domain.ErrPageNotFound); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpsertContent sets translations.<locale> in place so concurrent edits of
// different locales do not overwrite each other. Callers must pass a locale
// free of '.' and '$'.
func (r *PageRepository) UpsertContent(ctx context.Context, slug, locale string, content domain.PageContent) (*domain.Page, error) {
	upsertCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.UpdateOne(upsertCtx,
		bson.M{"slug": slug},
		bson.M{
			"$set": bson.M{"translations." + locale: content},
			"$setOnInsert": bson.M{
				"_id":        uuid.NewString(),
				"slug":       slug,
				"created_at": r.now(),
			},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return nil, fmt.Errorf("upsert page %q: %w", slug, err)
	}
	return r.FindBySlug(ctx, slug)
}

func (r *PageRepository) EnsureIndexes(ctx context.Context) error {
	return createIndexes(ctx, r.col, uniqueIndex(bson.D{{Key: "slug", Value: 1}}))
}
