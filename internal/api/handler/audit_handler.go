package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/raylene/casework/internal/core/domain"
	"github.com/raylene/casework/internal/core/ports"
)

type AuditHandler struct {
	service ports.AuditService
}

func NewAuditHandler(service ports.AuditService) *AuditHandler {
	return &AuditHandler{service: service}
}

// List handles GET /api/audit-logs.
//
// @Summary      Audit trail, newest first
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Param        action       query     string  false  "Action"
// @Param        entity_type  query     string  false  "Entity type"
// @Param        entity_id    query     string  false  "Entity id"
// @Param        date_from    query     string  false  "RFC3339 lower bound"
// @Param        date_to      query     string  false  "RFC3339 upper bound"
// @Param        page         query     int     false  "Page number"
// @Param        limit        query     int     false  "Page size (max 100)"
// @Success      200          {object}  pageResponse[domain.AuditLog]
// @Failure      403          {object}  map[string]any
// @Router       /api/audit-logs [get]
func (h *AuditHandler) List(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	filter := ports.AuditFilter{
		Action:     c.QueryParam("action"),
		EntityType: c.QueryParam("entity_type"),
		EntityID:   c.QueryParam("entity_id"),
		Pagination: pagination(c),
	}
	verr := &domain.ValidationError{}
	filter.DateFrom = queryTime(c, "date_from", verr)
	filter.DateTo = queryTime(c, "date_to", verr)
	if err := verr.OrNil(); err != nil {
		return err
	}

	res, err := h.service.List(c.Request().Context(), p, filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPage(res, asIs[*domain.AuditLog]))
}

func queryTime(c echo.Context, name string, verr *domain.ValidationError) time.Time {
	raw := c.QueryParam(name)
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		verr.Add(name, "Datetime has wrong format. Use RFC3339.")
	}
	return t
}
