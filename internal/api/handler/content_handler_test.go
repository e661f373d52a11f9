package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/raylene/casework/internal/core/domain"
	"github.com/raylene/casework/internal/core/ports"
)

type stubContentService struct {
	ports.ContentService
	getPageFn func(ctx context.Context, slug, locale string) (*ports.LocalizedPage, error)
}

func (s *stubContentService) GetPage(ctx context.Context, slug, locale string) (*ports.LocalizedPage, error) {
	return s.getPageFn(ctx, slug, locale)
}

func TestContentHandler_GetPage_ReportsResolvedLocale(t *testing.T) {
	e := newTestEcho()
	stub := &stubContentService{
		getPageFn: func(ctx context.Context, slug, locale string) (*ports.LocalizedPage, error) {
			if slug != "about" || locale != "pt" {
				t.Fatalf("unexpected args: %s %s", slug, locale)
			}
			return &ports.LocalizedPage{
				Slug:            slug,
				RequestedLocale: locale,
				Locale:          "en",
				Content:         &domain.PageContent{Title: "About us", BodyHTML: "<p>hi</p>"},
			}, nil
		},
	}
	h := NewContentHandler(stub)

	c, rec := jsonContext(e, http.MethodGet, "/api/content/pages/about?locale=pt", "")
	c.SetParamNames("slug")
	c.SetParamValues("about")

	if err := h.GetPage(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp struct {
		Locale          string `json:"locale"`
		RequestedLocale string `json:"requested_locale"`
		Content         *struct {
			Title string `json:"title"`
		} `json:"content"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Locale != "en" || resp.RequestedLocale != "pt" {
		t.Fatalf("unexpected locales: %+v", resp)
	}
	if resp.Content == nil || resp.Content.Title != "About us" {
		t.Fatalf("unexpected content: %+v", resp.Content)
	}
}

func TestContentHandler_GetPage_NoTranslation(t *testing.T) {
	e := newTestEcho()
	stub := &stubContentService{
		getPageFn: func(ctx context.Context, slug, locale string) (*ports.LocalizedPage, error) {
			return &ports.LocalizedPage{Slug: slug, RequestedLocale: "fr"}, nil
		},
	}
	h := NewContentHandler(stub)

	c, rec := jsonContext(e, http.MethodGet, "/api/content/pages/faq?locale=fr", "")
	c.SetParamNames("slug")
	c.SetParamValues("faq")

	if err := h.GetPage(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if v, ok := resp["content"]; !ok || v != nil {
		t.Fatalf("expected content null, got %+v", resp)
	}
}
