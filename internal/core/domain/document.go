package domain

import (
	"fmt"
	"time"
)

type DocumentStatus string

const (
	DocumentReceived      DocumentStatus = "RECEIVED"
	DocumentReviewing     DocumentStatus = "REVIEWING"
	DocumentNeedsReupload DocumentStatus = "NEEDS_REUPLOAD"
	DocumentApproved      DocumentStatus = "APPROVED"
	DocumentRejected      DocumentStatus = "REJECTED"
)

func ParseDocumentStatus(raw string) (DocumentStatus, error) {
	switch s := DocumentStatus(raw); s {
	case DocumentReceived, DocumentReviewing, DocumentNeedsReupload, DocumentApproved, DocumentRejected:
		return s, nil
	}
	return "", NewValidationError("status", fmt.Sprintf("%q is not a valid choice.", raw))
}

type DocumentType struct {
	ID          string    `json:"id" bson:"_id"`
	Code        string    `json:"code" bson:"code"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description" bson:"description"`
	MimeTypes   []string  `json:"mime_types" bson:"mime_types"`
	IsRequired  bool      `json:"is_required" bson:"is_required"`
	MaxSizeMB   int       `json:"max_size_mb" bson:"max_size_mb"`
	IsActive    bool      `json:"is_active" bson:"is_active"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

// AllowsMime reports whether mime is accepted. An empty list accepts anything.
func (t *DocumentType) AllowsMime(mime string) bool {
	if len(t.MimeTypes) == 0 {
		return true
	}
	for _, m := range t.MimeTypes {
		if m == mime {
			return true
		}
	}
	return false
}

// Document is the metadata of an uploaded artifact; the bytes live in the object store.
type Document struct {
	ID             string         `json:"id" bson:"_id"`
	ApplicationID  string         `json:"application_id" bson:"application_id"`
	ClientID       string         `json:"-" bson:"client_id"`
	DocumentTypeID string         `json:"document_type_id" bson:"document_type_id"`
	URL            string         `json:"url" bson:"url"`
	Filename       string         `json:"filename" bson:"filename"`
	Size           int64          `json:"size" bson:"size"`
	MimeType       string         `json:"mime_type" bson:"mime_type"`
	Status         DocumentStatus `json:"status" bson:"status"`
	Remarks        string         `json:"remarks" bson:"remarks"`
	UploadedByID   *string        `json:"uploaded_by_id" bson:"uploaded_by_id,omitempty"`
	CreatedAt      time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at" bson:"updated_at"`
	ReviewedAt     *time.Time     `json:"reviewed_at" bson:"reviewed_at,omitempty"`
}
