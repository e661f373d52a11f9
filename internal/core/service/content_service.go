package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/raylene/casework/internal/core/domain"
	"github.com/raylene/casework/internal/core/ports"
)

// ContentService serves the public blog and localized CMS pages.
type ContentService struct {
	posts  ports.BlogRepository
	pages  ports.PageRepository
	logger zerolog.Logger
	now    clock
}

func NewContentService(posts ports.BlogRepository, pages ports.PageRepository, logger zerolog.Logger) *ContentService {
	return &ContentService{posts: posts, pages: pages, logger: logger, now: utcNow}
}

func (s *ContentService) ListPosts(ctx context.Context, page ports.Pagination) (ports.PageResult[*domain.BlogPost], error) {
	page = page.Normalize()
	items, total, err := s.posts.ListPublished(ctx, page)
	if err != nil {
		return ports.PageResult[*domain.BlogPost]{}, err
	}
	return ports.NewPageResult(items, total, page), nil
}

// GetPost returns a published post. Drafts are not found.
func (s *ContentService) GetPost(ctx context.Context, slug string) (*domain.BlogPost, error) {
	return s.posts.FindBySlug(ctx, slug, true)
}

func (s *ContentService) CreatePost(ctx context.Context, actor domain.Actor, in ports.CreatePostInput) (*domain.BlogPost, error) {
	if !actor.Holds(domain.Administrators) {
		return nil, domain.ErrForbidden
	}
	verr := &domain.ValidationError{}
	if strings.TrimSpace(in.Slug) == "" {
		verr.Add("slug", "This field is required.")
	}
	if strings.TrimSpace(in.Title) == "" {
		verr.Add("title", "This field is required.")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}
	now := s.now()
	post := &domain.BlogPost{
		ID:        newID(),
		Slug:      in.Slug,
		Title:     in.Title,
		Excerpt:   in.Excerpt,
		BodyHTML:  in.BodyHTML,
		CoverURL:  in.CoverURL,
		Tags:      tags,
		AuthorID:  actorRef(actor.Principal),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

// PublishPost stamps published_at once; republishing keeps the first date.
func (s *ContentService) PublishPost(ctx context.Context, actor domain.Actor, slug string) (*domain.BlogPost, error) {
	if !actor.Holds(domain.Administrators) {
		return nil, domain.ErrForbidden
	}
	post, err := s.posts.FindBySlug(ctx, slug, false)
	if err != nil {
		return nil, err
	}
	if post.PublishedAt != nil {
		return post, nil
	}
	now := s.now()
	post.PublishedAt = &now
	post.UpdatedAt = now
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("publish post: %w", err)
	}
	return post, nil
}

// GetPage resolves a page for locale, falling back to the default locale.
// Content is nil when neither translation exists.
func (s *ContentService) GetPage(ctx context.Context, slug, locale string) (*ports.LocalizedPage, error) {
	locale = normalizeLocale(locale)
	if locale == "" {
		locale = domain.DefaultLocale
	}
	page, err := s.pages.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	content, served := page.Resolve(locale)
	if served == "" {
		served = locale
	}
	return &ports.LocalizedPage{
		Slug:            page.Slug,
		RequestedLocale: locale,
		Locale:          served,
		Content:         content,
	}, nil
}

func (s *ContentService) UpsertPage(ctx context.Context, actor domain.Actor, slug, locale, title, bodyHTML string) (*domain.Page, error) {
	if !actor.Holds(domain.Administrators) {
		return nil, domain.ErrForbidden
	}
	verr := &domain.ValidationError{}
	if strings.TrimSpace(slug) == "" {
		verr.Add("slug", "This field is required.")
	}
	switch {
	case strings.TrimSpace(locale) == "":
		verr.Add("locale", "This field is required.")
	case strings.ContainsAny(locale, ".$ "):
		verr.Add("locale", "Enter a valid locale code.")
	}
	if strings.TrimSpace(title) == "" {
		verr.Add("title", "This field is required.")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return s.pages.UpsertContent(ctx, slug, normalizeLocale(locale), domain.PageContent{
		Title:     title,
		BodyHTML:  bodyHTML,
		UpdatedAt: s.now(),
	})
}

// normalizeLocale makes locale codes case-insensitive: pt-BR and pt-br name
// the same translation.
func normalizeLocale(locale string) string {
	return strings.ToLower(strings.TrimSpace(locale))
}
