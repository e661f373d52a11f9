package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/raylene/casework/internal/core/domain"
	"github.com/raylene/casework/internal/core/ports"
)

// AdminHandler manages role assignments.
type AdminHandler struct {
	identity ports.IdentityService
}

func NewAdminHandler(identity ports.IdentityService) *AdminHandler {
	return &AdminHandler{identity: identity}
}

// AssignRole handles POST /api/admin/users/:id/roles/:role.
//
// @Summary      Grant a role
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string  true  "User id"
// @Param        role  path      string  true  "ADMIN, CONSULTANT, FINANCE, SUPPORT or CLIENT"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]any
// @Failure      403   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /api/admin/users/{id}/roles/{role} [post]
func (h *AdminHandler) AssignRole(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	role := domain.RoleCode(strings.ToUpper(c.Param("role")))
	if err := h.identity.AssignRole(c.Request().Context(), a, c.Param("id"), role); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Role assigned."})
}

// RevokeRole handles DELETE /api/admin/users/:id/roles/:role.
//
// @Summary      Revoke a role
// @Tags         admin
// @Security     BearerAuth
// @Param        id    path  string  true  "User id"
// @Param        role  path  string  true  "Role code"
// @Success      204
// @Failure      403   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /api/admin/users/{id}/roles/{role} [delete]
func (h *AdminHandler) RevokeRole(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	role := domain.RoleCode(strings.ToUpper(c.Param("role")))
	if err := h.identity.RevokeRole(c.Request().Context(), a, c.Param("id"), role); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
