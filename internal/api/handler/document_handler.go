package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/raylene/casework/internal/core/domain"
	"github.com/raylene/casework/internal/core/ports"
)

type DocumentHandler struct {
	service ports.DocumentService
}

func NewDocumentHandler(service ports.DocumentService) *DocumentHandler {
	return &DocumentHandler{service: service}
}

type uploadDocumentRequest struct {
	ApplicationID  string `json:"application"   validate:"required"`
	DocumentTypeID string `json:"document_type" validate:"required"`
	URL            string `json:"url"           validate:"required,url"`
	Filename       string `json:"filename"      validate:"required,max=255"`
	Size           int64  `json:"size"          validate:"gte=0"`
	MimeType       string `json:"mime_type"     validate:"required,max=100"`
}

type reviewDocumentRequest struct {
	Status  string `json:"status" validate:"required"`
	Remarks string `json:"remarks"`
}

type createDocumentTypeRequest struct {
	Code        string   `json:"code"        validate:"required,max=50"`
	Name        string   `json:"name"        validate:"required,max=200"`
	Description string   `json:"description"`
	MimeTypes   []string `json:"mime_types"`
	IsRequired  bool     `json:"is_required"`
	MaxSizeMB   int      `json:"max_size_mb" validate:"gte=0"`
}

type presignRequest struct {
	Filename    string `json:"filename"     validate:"required"`
	ContentType string `json:"content_type" validate:"required"`
}

type presignResponse struct {
	URL       string `json:"url"`
	Key       string `json:"key"`
	ExpiresIn int    `json:"expires_in"`
}

// List handles GET /api/documents.
//
// @Summary      List visible documents
// @Tags         documents
// @Produce      json
// @Security     BearerAuth
// @Param        status         query     string  false  "Status filter"
// @Param        document_type  query     string  false  "Document type id"
// @Param        application    query     string  false  "Application id"
// @Param        page           query     int     false  "Page number"
// @Param        limit          query     int     false  "Page size (max 100)"
// @Success      200            {object}  pageResponse[domain.Document]
// @Router       /api/documents [get]
func (h *DocumentHandler) List(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	res, err := h.service.List(c.Request().Context(), p, ports.DocumentFilter{
		Status:         c.QueryParam("status"),
		DocumentTypeID: c.QueryParam("document_type"),
		ApplicationID:  c.QueryParam("application"),
		Pagination:     pagination(c),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPage(res, asIs[*domain.Document]))
}

// Upload handles POST /api/documents. The file itself has already been put
// to object storage through a presigned URL.
//
// @Summary      Register an uploaded document
// @Tags         documents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      uploadDocumentRequest  true  "Document metadata"
// @Success      201   {object}  domain.Document
// @Failure      400   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /api/documents [post]
func (h *DocumentHandler) Upload(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req uploadDocumentRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	doc, err := h.service.Upload(c.Request().Context(), a, ports.UploadDocumentInput{
		ApplicationID:  req.ApplicationID,
		DocumentTypeID: req.DocumentTypeID,
		URL:            req.URL,
		Filename:       req.Filename,
		Size:           req.Size,
		MimeType:       req.MimeType,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, doc)
}

// Get handles GET /api/documents/:id.
//
// @Summary      Document detail
// @Tags         documents
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Document id"
// @Success      200  {object}  domain.Document
// @Failure      404  {object}  map[string]any
// @Router       /api/documents/{id} [get]
func (h *DocumentHandler) Get(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	doc, err := h.service.Get(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, doc)
}

// Review handles PATCH /api/documents/:id/review.
//
// @Summary      Record a review decision
// @Tags         documents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Document id"
// @Param        body  body      reviewDocumentRequest  true  "Decision"
// @Success      200   {object}  domain.Document
// @Failure      400   {object}  map[string]any
// @Failure      403   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /api/documents/{id}/review [patch]
func (h *DocumentHandler) Review(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req reviewDocumentRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	doc, err := h.service.Review(c.Request().Context(), a, ports.ReviewDocumentInput{
		DocumentID: c.Param("id"),
		Status:     req.Status,
		Remarks:    req.Remarks,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, doc)
}

// ListTypes handles GET /api/documents/types.
//
// @Summary      Active document types
// @Tags         documents
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.DocumentType
// @Router       /api/documents/types [get]
func (h *DocumentHandler) ListTypes(c echo.Context) error {
	types, err := h.service.ListTypes(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, types)
}

// CreateType handles POST /api/documents/types.
//
// @Summary      Add a document type
// @Tags         documents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createDocumentTypeRequest  true  "Document type"
// @Success      201   {object}  domain.DocumentType
// @Failure      403   {object}  map[string]any
// @Router       /api/documents/types [post]
func (h *DocumentHandler) CreateType(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req createDocumentTypeRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	t, err := h.service.CreateType(c.Request().Context(), a, ports.CreateDocumentTypeInput{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		MimeTypes:   req.MimeTypes,
		IsRequired:  req.IsRequired,
		MaxSizeMB:   req.MaxSizeMB,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, t)
}

// Presign handles POST /api/documents/uploads/presign.
//
// @Summary      Get a presigned upload URL
// @Tags         documents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      presignRequest  true  "File to upload"
// @Success      200   {object}  presignResponse
// @Failure      400   {object}  map[string]any
// @Failure      500   {object}  map[string]any
// @Router       /api/documents/uploads/presign [post]
func (h *DocumentHandler) Presign(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req presignRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	up, err := h.service.PresignUpload(c.Request().Context(), p, req.Filename, req.ContentType)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, presignResponse{URL: up.URL, Key: up.Key, ExpiresIn: up.ExpiresIn})
}
