package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/raylene/casework/internal/core/domain"
	"github.com/raylene/casework/internal/core/ports"
)

type ContentHandler struct {
	service ports.ContentService
}

func NewContentHandler(service ports.ContentService) *ContentHandler {
	return &ContentHandler{service: service}
}

type createPostRequest struct {
	Slug     string   `json:"slug"      validate:"required,max=200"`
	Title    string   `json:"title"     validate:"required,max=300"`
	Excerpt  string   `json:"excerpt"`
	BodyHTML string   `json:"body_html"`
	CoverURL string   `json:"cover_url" validate:"omitempty,url"`
	Tags     []string `json:"tags"`
}

type upsertPageRequest struct {
	Title    string `json:"title"     validate:"required,max=300"`
	BodyHTML string `json:"body_html"`
}

type pageContentResponse struct {
	Slug            string              `json:"slug"`
	Locale          string              `json:"locale"`
	RequestedLocale string              `json:"requested_locale"`
	Content         *domain.PageContent `json:"content"`
}

type pageResponseBody struct {
	ID           string                        `json:"id"`
	Slug         string                        `json:"slug"`
	Translations map[string]domain.PageContent `json:"translations"`
	CreatedAt    time.Time                     `json:"created_at"`
}

// ListPosts handles GET /api/content/blog.
//
// @Summary      Published blog posts, newest first
// @Tags         content
// @Produce      json
// @Param        page   query     int  false  "Page number"
// @Param        limit  query     int  false  "Page size (max 100)"
// @Success      200    {object}  pageResponse[domain.BlogPost]
// @Router       /api/content/blog [get]
func (h *ContentHandler) ListPosts(c echo.Context) error {
	res, err := h.service.ListPosts(c.Request().Context(), pagination(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPage(res, asIs[*domain.BlogPost]))
}

// GetPost handles GET /api/content/blog/:slug.
//
// @Summary      A published blog post
// @Tags         content
// @Produce      json
// @Param        slug  path      string  true  "Slug"
// @Success      200   {object}  domain.BlogPost
// @Failure      404   {object}  map[string]any
// @Router       /api/content/blog/{slug} [get]
func (h *ContentHandler) GetPost(c echo.Context) error {
	post, err := h.service.GetPost(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// CreatePost handles POST /api/content/blog.
//
// @Summary      Draft a blog post
// @Tags         content
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPostRequest  true  "Post"
// @Success      201   {object}  domain.BlogPost
// @Failure      403   {object}  map[string]any
// @Failure      409   {object}  map[string]any
// @Router       /api/content/blog [post]
func (h *ContentHandler) CreatePost(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req createPostRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	post, err := h.service.CreatePost(c.Request().Context(), a, ports.CreatePostInput{
		Slug:     req.Slug,
		Title:    req.Title,
		Excerpt:  req.Excerpt,
		BodyHTML: req.BodyHTML,
		CoverURL: req.CoverURL,
		Tags:     req.Tags,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, post)
}

// PublishPost handles POST /api/content/blog/:slug/publish.
//
// @Summary      Publish a blog post
// @Tags         content
// @Produce      json
// @Security     BearerAuth
// @Param        slug  path      string  true  "Slug"
// @Success      200   {object}  domain.BlogPost
// @Failure      403   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /api/content/blog/{slug}/publish [post]
func (h *ContentHandler) PublishPost(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	post, err := h.service.PublishPost(c.Request().Context(), a, c.Param("slug"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// GetPage handles GET /api/content/pages/:slug.
//
// @Summary      A CMS page in the requested locale, falling back to English
// @Tags         content
// @Produce      json
// @Param        slug    path      string  true   "Slug"
// @Param        locale  query     string  false  "Locale (default en)"
// @Success      200     {object}  pageContentResponse
// @Failure      404     {object}  map[string]any
// @Router       /api/content/pages/{slug} [get]
func (h *ContentHandler) GetPage(c echo.Context) error {
	page, err := h.service.GetPage(c.Request().Context(), c.Param("slug"), c.QueryParam("locale"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pageContentResponse{
		Slug:            page.Slug,
		Locale:          page.Locale,
		RequestedLocale: page.RequestedLocale,
		Content:         page.Content,
	})
}

// UpsertPage handles PUT /api/content/pages/:slug/:locale.
//
// @Summary      Create or replace one locale of a page
// @Tags         content
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        slug    path      string             true  "Slug"
// @Param        locale  path      string             true  "Locale"
// @Param        body    body      upsertPageRequest  true  "Content"
// @Success      200     {object}  pageResponseBody
// @Failure      400     {object}  map[string]any
// @Failure      403     {object}  map[string]any
// @Router       /api/content/pages/{slug}/{locale} [put]
func (h *ContentHandler) UpsertPage(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req upsertPageRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	page, err := h.service.UpsertPage(c.Request().Context(), a, c.Param("slug"), c.Param("locale"), req.Title, req.BodyHTML)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pageResponseBody{
		ID:           page.ID,
		Slug:         page.Slug,
		Translations: page.Translations,
		CreatedAt:    page.CreatedAt,
	})
}
