package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/raylene/casework/internal/core/ports"
)

type TaskHandler struct {
	service ports.TaskService
}

func NewTaskHandler(service ports.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

type updateTaskRequest struct {
	Title       *string    `json:"title"       validate:"omitempty,max=200"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	DueDate     *time.Time `json:"due_date"`
	AssigneeID  *string    `json:"assigned_to"`
}

// List handles GET /api/tasks.
//
// @Summary      List visible tasks, soonest due first
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        status       query     string  false  "Status filter"
// @Param        assigned_to  query     string  false  "Assignee id"
// @Param        application  query     string  false  "Application id"
// @Success      200          {array}   taskResponse
// @Router       /api/tasks [get]
func (h *TaskHandler) List(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	tasks, err := h.service.ListTasks(c.Request().Context(), p, ports.TaskFilter{
		Status:        c.QueryParam("status"),
		AssignedToID:  c.QueryParam("assigned_to"),
		ApplicationID: c.QueryParam("application"),
	})
	if err != nil {
		return err
	}
	out := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResponse(t))
	}
	return c.JSON(http.StatusOK, out)
}

// Update handles PATCH /api/tasks/:id.
//
// @Summary      Edit a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Task id"
// @Param        body  body      updateTaskRequest  true  "Fields to change"
// @Success      200   {object}  taskResponse
// @Failure      400   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /api/tasks/{id} [patch]
func (h *TaskHandler) Update(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req updateTaskRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	task, err := h.service.UpdateTask(c.Request().Context(), a, c.Param("id"), ports.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		DueDate:     req.DueDate,
		AssigneeID:  req.AssigneeID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTaskResponse(task))
}

// Complete handles PATCH /api/tasks/:id/complete.
//
// @Summary      Mark a task done
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task id"
// @Success      200  {object}  taskResponse
// @Failure      404  {object}  map[string]any
// @Router       /api/tasks/{id}/complete [patch]
func (h *TaskHandler) Complete(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	task, err := h.service.CompleteTask(c.Request().Context(), a, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTaskResponse(task))
}
