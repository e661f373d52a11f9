package ports

import (
	"context"

	"github.com/raylene/casework/internal/core/domain"
)

type MessageRepository interface {
	Create(ctx context.Context, m *domain.Message) error
	// ListForUser returns messages sent by or to userID, newest first.
	ListForUser(ctx context.Context, userID string, includeInternal bool) ([]*domain.Message, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListForUser(ctx context.Context, userID string) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, id, userID string) (*domain.Notification, error)
}

type TemplateRepository interface {
	List(ctx context.Context, code, locale string) ([]*domain.Template, error)
	Find(ctx context.Context, code, locale string) (*domain.Template, error)
}

type SendMessageInput struct {
	ApplicationID string
	ToUserID      *string
	Body          string
	Attachments   []string
	IsInternal    bool
}

type CommunicationService interface {
	ListMessages(ctx context.Context, p domain.Principal) ([]*domain.Message, error)
	SendMessage(ctx context.Context, actor domain.Actor, in SendMessageInput) (*domain.Message, error)
	ListNotifications(ctx context.Context, p domain.Principal) ([]*domain.Notification, error)
	MarkNotificationRead(ctx context.Context, p domain.Principal, id string) (*domain.Notification, error)
	ListTemplates(ctx context.Context, code, locale string) ([]*domain.Template, error)
	ResolveTemplate(ctx context.Context, code, locale string) (*domain.Template, error)
}

// Notifier delivers notifications asynchronously. Callers enqueue only after
// the change that caused the notification has committed.
type Notifier interface {
	Enqueue(n *domain.Notification)
}
