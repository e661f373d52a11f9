package service

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/raylene/casework/internal/core/domain"
	"github.com/raylene/casework/internal/core/ports"
	"github.com/raylene/casework/internal/metrics"
)

const (
	defaultUploadURLTTL = time.Hour
	defaultMaxSizeMB    = 10
)

// DocumentService handles document metadata, reviews and direct-upload URLs.
type DocumentService struct {
	apps   ports.ApplicationRepository
	docs   ports.DocumentRepository
	types  ports.DocumentTypeRepository
	store  ports.ObjectStore
	tx     ports.TxManager
	audit  ports.AuditRecorder
	ttl    time.Duration
	logger zerolog.Logger
	now    clock
}

func NewDocumentService(
	apps ports.ApplicationRepository,
	docs ports.DocumentRepository,
	types ports.DocumentTypeRepository,
	store ports.ObjectStore,
	tx ports.TxManager,
	audit ports.AuditRecorder,
	uploadURLTTL time.Duration,
	logger zerolog.Logger,
) *DocumentService {
	if uploadURLTTL <= 0 {
		uploadURLTTL = defaultUploadURLTTL
	}
	return &DocumentService{
		apps:   apps,
		docs:   docs,
		types:  types,
		store:  store,
		tx:     tx,
		audit:  audit,
		ttl:    uploadURLTTL,
		logger: logger,
		now:    utcNow,
	}
}

// Upload registers an already-stored file against an application.
func (s *DocumentService) Upload(ctx context.Context, actor domain.Actor, in ports.UploadDocumentInput) (*domain.Document, error) {
	app, err := s.apps.FindByID(ctx, in.ApplicationID, scopeFor(actor.Principal, domain.StaffRoles))
	if err != nil {
		return nil, err
	}
	if app.ClientID != actor.UserID() && !actor.CanSeeAll(domain.DocumentReviewers) {
		return nil, domain.ErrForbidden
	}

	verr := &domain.ValidationError{}
	if strings.TrimSpace(in.URL) == "" {
		verr.Add("url", "This field is required.")
	}
	if strings.TrimSpace(in.Filename) == "" {
		verr.Add("filename", "This field is required.")
	}
	if in.Size < 0 {
		verr.Add("size", "Ensure this value is greater than or equal to 0.")
	}
	docType, err := s.types.FindByID(ctx, in.DocumentTypeID)
	switch {
	case err == nil:
		if !docType.AllowsMime(in.MimeType) {
			verr.Add("mime_type", fmt.Sprintf("%q is not accepted for %s.", in.MimeType, docType.Name))
		}
		if docType.MaxSizeMB > 0 && in.Size > int64(docType.MaxSizeMB)*1024*1024 {
			verr.Add("size", fmt.Sprintf("File exceeds the %d MB limit.", docType.MaxSizeMB))
		}
	case isNotFound(err):
		verr.Add("document_type", fmt.Sprintf("Invalid pk %q - object does not exist.", in.DocumentTypeID))
	default:
		return nil, err
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	now := s.now()
	doc := &domain.Document{
		ID:             newID(),
		ApplicationID:  app.ID,
		ClientID:       app.ClientID,
		DocumentTypeID: docType.ID,
		URL:            in.URL,
		Filename:       in.Filename,
		Size:           in.Size,
		MimeType:       in.MimeType,
		Status:         domain.DocumentReceived,
		UploadedByID:   actorRef(actor.Principal),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.docs.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}
	return doc, nil
}

// Review records a reviewer's decision. Callers outside the reviewer roles
// get ErrForbidden for documents they can see and ErrNotFound otherwise.
func (s *DocumentService) Review(ctx context.Context, actor domain.Actor, in ports.ReviewDocumentInput) (*domain.Document, error) {
	doc, err := s.docs.FindByID(ctx, in.DocumentID, scopeFor(actor.Principal, domain.DocumentReviewers))
	if err != nil {
		return nil, err
	}
	if !actor.CanSeeAll(domain.DocumentReviewers) {
		return nil, domain.ErrForbidden
	}
	status, err := domain.ParseDocumentStatus(in.Status)
	if err != nil {
		return nil, err
	}

	now := s.now()
	doc.Status = status
	doc.Remarks = in.Remarks
	doc.ReviewedAt = &now
	doc.UpdatedAt = now

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.docs.Update(ctx, doc); err != nil {
			return err
		}
		if err := s.audit.Append(ctx, actor, domain.ActionReviewDocument, domain.EntityDocument, doc.ID, map[string]any{
			"status":  string(status),
			"remarks": in.Remarks,
		}); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("review document: %w", err)
	}

	metrics.DocumentsReviewedTotal.WithLabelValues(string(status)).Inc()
	return doc, nil
}

func (s *DocumentService) Get(ctx context.Context, p domain.Principal, id string) (*domain.Document, error) {
	return s.docs.FindByID(ctx, id, scopeFor(p, domain.DocumentReviewers))
}

func (s *DocumentService) List(ctx context.Context, p domain.Principal, filter ports.DocumentFilter) (ports.PageResult[*domain.Document], error) {
	filter.ClientID = scopeFor(p, domain.DocumentReviewers)
	filter.Pagination = filter.Pagination.Normalize()
	items, total, err := s.docs.List(ctx, filter)
	if err != nil {
		return ports.PageResult[*domain.Document]{}, err
	}
	return ports.NewPageResult(items, total, filter.Pagination), nil
}

func (s *DocumentService) ListTypes(ctx context.Context) ([]*domain.DocumentType, error) {
	return s.types.List(ctx, true)
}

func (s *DocumentService) CreateType(ctx context.Context, actor domain.Actor, in ports.CreateDocumentTypeInput) (*domain.DocumentType, error) {
	if !actor.Holds(domain.Administrators) {
		return nil, domain.ErrForbidden
	}
	verr := &domain.ValidationError{}
	if strings.TrimSpace(in.Code) == "" {
		verr.Add("code", "This field is required.")
	}
	if strings.TrimSpace(in.Name) == "" {
		verr.Add("name", "This field is required.")
	}
	if in.MaxSizeMB < 0 {
		verr.Add("max_size_mb", "Ensure this value is greater than or equal to 0.")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	maxSize := in.MaxSizeMB
	if maxSize == 0 {
		maxSize = defaultMaxSizeMB
	}
	mimes := in.MimeTypes
	if mimes == nil {
		mimes = []string{}
	}
	t := &domain.DocumentType{
		ID:          newID(),
		Code:        in.Code,
		Name:        in.Name,
		Description: in.Description,
		MimeTypes:   mimes,
		IsRequired:  in.IsRequired,
		MaxSizeMB:   maxSize,
		IsActive:    true,
		CreatedAt:   s.now(),
	}
	if err := s.types.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create document type: %w", err)
	}
	return t, nil
}

// PresignUpload issues a PUT URL under documents/{userID}/{filename}.
func (s *DocumentService) PresignUpload(ctx context.Context, p domain.Principal, filename, contentType string) (*ports.PresignedUpload, error) {
	if filename == "" || contentType == "" {
		return nil, domain.NewValidationError("filename", "filename and content_type are required")
	}

	name := path.Base(filename)
	switch name {
	case ".", "..", "/":
		return nil, domain.NewValidationError("filename", "Enter a valid file name.")
	}

	key := path.Join("documents", p.UserID(), name)
	url, err := s.store.PresignPut(ctx, key, contentType, s.ttl)
	if err != nil {
		metrics.UploadURLsIssuedTotal.WithLabelValues("error").Inc()
		s.logger.Error().Err(err).Str("key", key).Msg("presign upload failed")
		return nil, domain.Upstream("presign upload", err)
	}

	metrics.UploadURLsIssuedTotal.WithLabelValues("ok").Inc()
	return &ports.PresignedUpload{URL: url, Key: key, ExpiresIn: int(s.ttl.Seconds())}, nil
}
