package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/raylene/casework/internal/core/domain"
	"github.com/raylene/casework/internal/core/ports"
)

// ApplicationHandler serves applications, their history, tasks and the
// application type catalog.
type ApplicationHandler struct {
	service ports.ApplicationService
	tasks   ports.TaskService
}

func NewApplicationHandler(service ports.ApplicationService, tasks ports.TaskService) *ApplicationHandler {
	return &ApplicationHandler{service: service, tasks: tasks}
}

// List handles GET /api/applications.
//
// @Summary      List visible applications
// @Tags         applications
// @Produce      json
// @Security     BearerAuth
// @Param        status            query     string  false  "Status filter"
// @Param        priority          query     string  false  "Priority filter"
// @Param        application_type  query     string  false  "Application type id"
// @Param        assigned_to       query     string  false  "Assignee id"
// @Param        search            query     string  false  "Free text over notes and external ref"
// @Param        ordering          query     string  false  "created_at, updated_at or submitted_at; prefix - for desc"
// @Param        page              query     int     false  "Page number"
// @Param        limit             query     int     false  "Page size (max 100)"
// @Success      200               {object}  pageResponse[applicationResponse]
// @Router       /api/applications [get]
func (h *ApplicationHandler) List(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	res, err := h.service.List(c.Request().Context(), p, ports.ApplicationFilter{
		Status:            c.QueryParam("status"),
		Priority:          c.QueryParam("priority"),
		ApplicationTypeID: c.QueryParam("application_type"),
		AssignedToID:      c.QueryParam("assigned_to"),
		Search:            c.QueryParam("search"),
		Ordering:          c.QueryParam("ordering"),
		Pagination:        pagination(c),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPage(res, func(a *domain.Application) applicationResponse {
		return toApplicationResponse(a, p)
	}))
}

// Create handles POST /api/applications.
//
// @Summary      Open a new application
// @Tags         applications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createApplicationRequest  true  "Application"
// @Success      201   {object}  applicationResponse
// @Failure      400   {object}  map[string]any
// @Router       /api/applications [post]
func (h *ApplicationHandler) Create(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req createApplicationRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	app, err := h.service.Create(c.Request().Context(), a, ports.CreateApplicationInput{
		ApplicationTypeID: req.ApplicationTypeID,
		Country:           req.Country,
		Notes:             req.Notes,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toApplicationResponse(app, a.Principal))
}

// Get handles GET /api/applications/:id.
//
// @Summary      Application detail with history and tasks
// @Tags         applications
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Application id"
// @Success      200  {object}  applicationResponse
// @Failure      404  {object}  map[string]any
// @Router       /api/applications/{id} [get]
func (h *ApplicationHandler) Get(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	app, err := h.service.Get(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toApplicationResponse(app, p))
}

// Update handles PATCH /api/applications/:id.
//
// @Summary      Edit an application
// @Tags         applications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                    true  "Application id"
// @Param        body  body      updateApplicationRequest  true  "Fields to change"
// @Success      200   {object}  applicationResponse
// @Failure      403   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Failure      409   {object}  map[string]any
// @Router       /api/applications/{id} [patch]
func (h *ApplicationHandler) Update(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req updateApplicationRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	app, err := h.service.Update(c.Request().Context(), a, c.Param("id"), ports.UpdateApplicationInput{
		Notes:         req.Notes,
		Country:       req.Country,
		Priority:      req.Priority,
		AssignedToID:  req.AssignedToID,
		InternalNotes: req.InternalNotes,
		ExternalRef:   req.ExternalRef,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toApplicationResponse(app, a.Principal))
}

// Delete handles DELETE /api/applications/:id.
//
// @Summary      Delete an application
// @Tags         applications
// @Security     BearerAuth
// @Param        id   path  string  true  "Application id"
// @Success      204
// @Failure      403  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /api/applications/{id} [delete]
func (h *ApplicationHandler) Delete(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), a, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// UpdateStatus handles PATCH /api/applications/:id/status.
//
// @Summary      Move an application to a new status
// @Tags         applications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Application id"
// @Param        body  body      transitionRequest  true  "Target status and note"
// @Success      200   {object}  applicationResponse
// @Failure      400   {object}  map[string]any
// @Failure      403   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Failure      409   {object}  map[string]any
// @Router       /api/applications/{id}/status [patch]
func (h *ApplicationHandler) UpdateStatus(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req transitionRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	app, err := h.service.TransitionStatus(c.Request().Context(), a, ports.TransitionInput{
		ApplicationID: c.Param("id"),
		Status:        req.Status,
		Note:          req.Note,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toApplicationResponse(app, a.Principal))
}

// History handles GET /api/applications/:id/history.
//
// @Summary      Status history, newest first
// @Tags         applications
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Application id"
// @Success      200  {array}   domain.StatusHistory
// @Failure      404  {object}  map[string]any
// @Router       /api/applications/{id}/history [get]
func (h *ApplicationHandler) History(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	history, err := h.service.History(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return err
	}
	if history == nil {
		history = []domain.StatusHistory{}
	}
	return c.JSON(http.StatusOK, history)
}

// AddTask handles POST /api/applications/:id/tasks.
//
// @Summary      Add a task to an application
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Application id"
// @Param        body  body      addTaskRequest  true  "Task"
// @Success      201   {object}  taskResponse
// @Failure      400   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /api/applications/{id}/tasks [post]
func (h *ApplicationHandler) AddTask(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req addTaskRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	task, err := h.tasks.AddTask(c.Request().Context(), a, ports.AddTaskInput{
		ApplicationID: c.Param("id"),
		Title:         req.Title,
		Description:   req.Description,
		DueDate:       req.DueDate,
		AssigneeID:    req.AssigneeID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toTaskResponse(task))
}

// ListTypes handles GET /api/applications/types.
//
// @Summary      Active application types
// @Tags         application-types
// @Produce      json
// @Success      200  {array}  domain.ApplicationType
// @Router       /api/applications/types [get]
func (h *ApplicationHandler) ListTypes(c echo.Context) error {
	types, err := h.service.ListTypes(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, types)
}

// GetType handles GET /api/applications/types/:slug.
//
// @Summary      Application type by slug
// @Tags         application-types
// @Produce      json
// @Param        slug  path      string  true  "Slug"
// @Success      200   {object}  domain.ApplicationType
// @Failure      404   {object}  map[string]any
// @Router       /api/applications/types/{slug} [get]
func (h *ApplicationHandler) GetType(c echo.Context) error {
	t, err := h.service.GetType(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, t)
}

// CreateType handles POST /api/applications/types.
//
// @Summary      Add an application type
// @Tags         application-types
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createApplicationTypeRequest  true  "Application type"
// @Success      201   {object}  domain.ApplicationType
// @Failure      400   {object}  map[string]any
// @Failure      403   {object}  map[string]any
// @Failure      409   {object}  map[string]any
// @Router       /api/applications/types [post]
func (h *ApplicationHandler) CreateType(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req createApplicationTypeRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	t, err := h.service.CreateType(c.Request().Context(), a, ports.CreateApplicationTypeInput{
		Code:            req.Code,
		Name:            req.Name,
		Slug:            req.Slug,
		Country:         req.Country,
		Description:     req.Description,
		BasePrice:       req.BasePrice,
		DocRequirements: req.DocRequirements,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, t)
}

// DeleteType handles DELETE /api/applications/types/:id.
//
// @Summary      Remove an unreferenced application type
// @Tags         application-types
// @Security     BearerAuth
// @Param        id   path  string  true  "Application type id"
// @Success      204
// @Failure      403  {object}  map[string]any
// @Failure      409  {object}  map[string]any
// @Router       /api/applications/types/{id} [delete]
func (h *ApplicationHandler) DeleteType(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteType(c.Request().Context(), a, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
