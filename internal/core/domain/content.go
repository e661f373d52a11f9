package domain

import "time"

// DefaultLocale is the fallback for any missing translation.
const DefaultLocale = "en"

type BlogPost struct {
	ID          string     `json:"id" bson:"_id"`
	Slug        string     `json:"slug" bson:"slug"`
	Title       string     `json:"title" bson:"title"`
	Excerpt     string     `json:"excerpt" bson:"excerpt"`
	BodyHTML    string     `json:"body_html" bson:"body_html"`
	CoverURL    string     `json:"cover_url" bson:"cover_url"`
	Tags        []string   `json:"tags" bson:"tags"`
	PublishedAt *time.Time `json:"published_at" bson:"published_at,omitempty"`
	AuthorID    *string    `json:"author_id" bson:"author_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" bson:"updated_at"`
}

type PageContent struct {
	Title     string    `json:"title" bson:"title"`
	BodyHTML  string    `json:"body_html" bson:"body_html"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Page is a CMS page with one content entry per locale.
type Page struct {
	ID           string                 `json:"id" bson:"_id"`
	Slug         string                 `json:"slug" bson:"slug"`
	Translations map[string]PageContent `json:"-" bson:"translations"`
	CreatedAt    time.Time              `json:"created_at" bson:"created_at"`
}

// Resolve returns the content for locale, falling back to DefaultLocale.
// The second result names the locale actually served; both are zero when
// neither translation exists.
func (p *Page) Resolve(locale string) (*PageContent, string) {
	if c, ok := p.Translations[locale]; ok {
		return &c, locale
	}
	if c, ok := p.Translations[DefaultLocale]; ok {
		return &c, DefaultLocale
	}
	return nil, ""
}
