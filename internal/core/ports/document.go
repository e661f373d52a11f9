package ports

import (
	"context"
	"time"

	"github.com/raylene/casework/internal/core/domain"
)

type DocumentFilter struct {
	ClientID       string
	Status         string
	DocumentTypeID string
	ApplicationID  string
	Pagination
}

type DocumentRepository interface {
	Create(ctx context.Context, d *domain.Document) error
	FindByID(ctx context.Context, id, clientID string) (*domain.Document, error)
	Update(ctx context.Context, d *domain.Document) error
	List(ctx context.Context, filter DocumentFilter) ([]*domain.Document, int64, error)
}

type DocumentTypeRepository interface {
	Create(ctx context.Context, t *domain.DocumentType) error
	FindByID(ctx context.Context, id string) (*domain.DocumentType, error)
	List(ctx context.Context, activeOnly bool) ([]*domain.DocumentType, error)
}

// ObjectStore issues time-limited direct-upload URLs. File bytes never pass
// through this service.
type ObjectStore interface {
	PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (string, error)
}

type UploadDocumentInput struct {
	ApplicationID  string
	DocumentTypeID string
	URL            string
	Filename       string
	Size           int64
	MimeType       string
}

type ReviewDocumentInput struct {
	DocumentID string
	Status     string
	Remarks    string
}

type CreateDocumentTypeInput struct {
	Code        string
	Name        string
	Description string
	MimeTypes   []string
	IsRequired  bool
	MaxSizeMB   int
}

// PresignedUpload is the response to an upload URL request.
type PresignedUpload struct {
	URL       string
	Key       string
	ExpiresIn int
}

type DocumentService interface {
	Upload(ctx context.Context, actor domain.Actor, in UploadDocumentInput) (*domain.Document, error)
	Review(ctx context.Context, actor domain.Actor, in ReviewDocumentInput) (*domain.Document, error)
	Get(ctx context.Context, p domain.Principal, id string) (*domain.Document, error)
	List(ctx context.Context, p domain.Principal, filter DocumentFilter) (PageResult[*domain.Document], error)
	ListTypes(ctx context.Context) ([]*domain.DocumentType, error)
	CreateType(ctx context.Context, actor domain.Actor, in CreateDocumentTypeInput) (*domain.DocumentType, error)
	PresignUpload(ctx context.Context, p domain.Principal, filename, contentType string) (*PresignedUpload, error)
}
