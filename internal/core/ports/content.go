package ports

import (
	"context"

	"github.com/raylene/casework/internal/core/domain"
)

type BlogRepository interface {
	Create(ctx context.Context, post *domain.BlogPost) error
	FindBySlug(ctx context.Context, slug string, publishedOnly bool) (*domain.BlogPost, error)
	ListPublished(ctx context.Context, page Pagination) ([]*domain.BlogPost, int64, error)
	Update(ctx context.Context, post *domain.BlogPost) error
}

type PageRepository interface {
	FindBySlug(ctx context.Context, slug string) (*domain.Page, error)
	// UpsertContent creates the page when missing and sets one locale's content.
	UpsertContent(ctx context.Context, slug, locale string, content domain.PageContent) (*domain.Page, error)
}

type CreatePostInput struct {
	Slug     string
	Title    string
	Excerpt  string
	BodyHTML string
	CoverURL string
	Tags     []string
}

// LocalizedPage is a page rendered for one requested locale. Content is nil
// when neither the requested locale nor the default exists.
type LocalizedPage struct {
	Slug            string
	RequestedLocale string
	Locale          string
	Content         *domain.PageContent
}

type ContentService interface {
	ListPosts(ctx context.Context, page Pagination) (PageResult[*domain.BlogPost], error)
	GetPost(ctx context.Context, slug string) (*domain.BlogPost, error)
	CreatePost(ctx context.Context, actor domain.Actor, in CreatePostInput) (*domain.BlogPost, error)
	PublishPost(ctx context.Context, actor domain.Actor, slug string) (*domain.BlogPost, error)
	GetPage(ctx context.Context, slug, locale string) (*LocalizedPage, error)
	UpsertPage(ctx context.Context, actor domain.Actor, slug, locale, title, bodyHTML string) (*domain.Page, error)
}
