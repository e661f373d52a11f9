package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/raylene/casework/internal/core/ports"
)

type CommunicationHandler struct {
	service ports.CommunicationService
}

func NewCommunicationHandler(service ports.CommunicationService) *CommunicationHandler {
	return &CommunicationHandler{service: service}
}

type sendMessageRequest struct {
	ApplicationID string   `json:"application" validate:"required"`
	ToUserID      *string  `json:"to_user"`
	Body          string   `json:"body"        validate:"required"`
	Attachments   []string `json:"attachments" validate:"omitempty,dive,url"`
	IsInternal    bool     `json:"is_internal"`
}

// ListMessages handles GET /api/communications/messages.
//
// @Summary      Messages sent by or to the caller
// @Tags         communications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Message
// @Router       /api/communications/messages [get]
func (h *CommunicationHandler) ListMessages(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	msgs, err := h.service.ListMessages(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, msgs)
}

// SendMessage handles POST /api/communications/messages.
//
// @Summary      Send a message about an application
// @Tags         communications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      sendMessageRequest  true  "Message"
// @Success      201   {object}  domain.Message
// @Failure      400   {object}  map[string]any
// @Failure      403   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /api/communications/messages [post]
func (h *CommunicationHandler) SendMessage(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req sendMessageRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	msg, err := h.service.SendMessage(c.Request().Context(), a, ports.SendMessageInput{
		ApplicationID: req.ApplicationID,
		ToUserID:      req.ToUserID,
		Body:          req.Body,
		Attachments:   req.Attachments,
		IsInternal:    req.IsInternal,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, msg)
}

// ListNotifications handles GET /api/communications/notifications.
//
// @Summary      The caller's notifications
// @Tags         communications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Notification
// @Router       /api/communications/notifications [get]
func (h *CommunicationHandler) ListNotifications(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	ns, err := h.service.ListNotifications(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ns)
}

// MarkRead handles PATCH /api/communications/notifications/:id/read.
//
// @Summary      Mark a notification read
// @Tags         communications
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Notification id"
// @Success      200  {object}  domain.Notification
// @Failure      404  {object}  map[string]any
// @Router       /api/communications/notifications/{id}/read [patch]
func (h *CommunicationHandler) MarkRead(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	n, err := h.service.MarkNotificationRead(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, n)
}

// ListTemplates handles GET /api/communications/templates.
//
// @Summary      List templates
// @Tags         communications
// @Produce      json
// @Security     BearerAuth
// @Param        code    query     string  false  "Template code"
// @Param        locale  query     string  false  "Locale"
// @Success      200     {array}   domain.Template
// @Router       /api/communications/templates [get]
func (h *CommunicationHandler) ListTemplates(c echo.Context) error {
	ts, err := h.service.ListTemplates(c.Request().Context(), c.QueryParam("code"), c.QueryParam("locale"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ts)
}

// GetTemplate handles GET /api/communications/templates/:code.
//
// @Summary      Resolve a template for a locale, falling back to English
// @Tags         communications
// @Produce      json
// @Security     BearerAuth
// @Param        code    path      string  true   "Template code"
// @Param        locale  query     string  false  "Locale (default en)"
// @Success      200     {object}  domain.Template
// @Failure      404     {object}  map[string]any
// @Router       /api/communications/templates/{code} [get]
func (h *CommunicationHandler) GetTemplate(c echo.Context) error {
	t, err := h.service.ResolveTemplate(c.Request().Context(), c.Param("code"), c.QueryParam("locale"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, t)
}
