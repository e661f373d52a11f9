package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/raylene/casework/internal/core/domain"
	"github.com/raylene/casework/internal/core/ports"
)

// CommunicationService covers case messages, in-app notifications and the
// template catalog.
type CommunicationService struct {
	apps          ports.ApplicationRepository
	messages      ports.MessageRepository
	notifications ports.NotificationRepository
	templates     ports.TemplateRepository
	logger        zerolog.Logger
	now           clock
}

func NewCommunicationService(
	apps ports.ApplicationRepository,
	messages ports.MessageRepository,
	notifications ports.NotificationRepository,
	templates ports.TemplateRepository,
	logger zerolog.Logger,
) *CommunicationService {
	return &CommunicationService{
		apps:          apps,
		messages:      messages,
		notifications: notifications,
		templates:     templates,
		logger:        logger,
		now:           utcNow,
	}
}

// ListMessages returns messages the caller sent or received. Internal notes
// between staff are hidden from everyone who is not staff-like.
func (s *CommunicationService) ListMessages(ctx context.Context, p domain.Principal) ([]*domain.Message, error) {
	return s.messages.ListForUser(ctx, p.UserID(), p.IsStaffLike())
}

func (s *CommunicationService) SendMessage(ctx context.Context, actor domain.Actor, in ports.SendMessageInput) (*domain.Message, error) {
	app, err := s.apps.FindByID(ctx, in.ApplicationID, scopeFor(actor.Principal, domain.StaffRoles))
	if err != nil {
		return nil, err
	}
	if in.IsInternal && !actor.IsStaffLike() {
		return nil, domain.ErrForbidden
	}
	if strings.TrimSpace(in.Body) == "" {
		return nil, domain.NewValidationError("body", "This field may not be blank.")
	}

	// With no explicit recipient a client writes to the assigned consultant
	// and staff write to the client.
	to := nonEmpty(in.ToUserID)
	if to == nil && !in.IsInternal {
		if app.ClientID == actor.UserID() {
			to = app.AssignedToID
		} else {
			client := app.ClientID
			to = &client
		}
	}

	attachments := in.Attachments
	if attachments == nil {
		attachments = []string{}
	}
	msg := &domain.Message{
		ID:            newID(),
		ApplicationID: app.ID,
		FromUserID:    actor.UserID(),
		ToUserID:      to,
		Body:          in.Body,
		Attachments:   attachments,
		IsInternal:    in.IsInternal,
		CreatedAt:     s.now(),
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	return msg, nil
}

func (s *CommunicationService) ListNotifications(ctx context.Context, p domain.Principal) ([]*domain.Notification, error) {
	return s.notifications.ListForUser(ctx, p.UserID())
}

func (s *CommunicationService) MarkNotificationRead(ctx context.Context, p domain.Principal, id string) (*domain.Notification, error) {
	return s.notifications.MarkRead(ctx, id, p.UserID())
}

func (s *CommunicationService) ListTemplates(ctx context.Context, code, locale string) ([]*domain.Template, error) {
	return s.templates.List(ctx, code, locale)
}

// ResolveTemplate finds code in locale, falling back to the default locale.
func (s *CommunicationService) ResolveTemplate(ctx context.Context, code, locale string) (*domain.Template, error) {
	if locale == "" {
		locale = domain.DefaultLocale
	}
	t, err := s.templates.Find(ctx, code, locale)
	if err == nil || !isNotFound(err) || locale == domain.DefaultLocale {
		return t, err
	}
	return s.templates.Find(ctx, code, domain.DefaultLocale)
}
