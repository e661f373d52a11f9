package ports

import (
	"context"
	"time"

	"github.com/raylene/casework/internal/core/domain"
)

type AuditFilter struct {
	Action     string
	EntityType string
	EntityID   string
	DateFrom   time.Time
	DateTo     time.Time
	Pagination
}

// AuditRepository is write-once: there is deliberately no update or delete.
type AuditRepository interface {
	Insert(ctx context.Context, entry *domain.AuditLog) error
	List(ctx context.Context, filter AuditFilter) ([]*domain.AuditLog, int64, error)
}

// AuditRecorder appends audit entries on behalf of other services.
//
// Record is best-effort: write errors are logged and never reach the caller.
// Append is for writes inside a transaction. A failed insert aborts a Mongo
// transaction anyway, so the error is returned and the whole unit rolls back.
type AuditRecorder interface {
	Record(ctx context.Context, actor domain.Actor, action, entityType, entityID string, meta map[string]any)
	Append(ctx context.Context, actor domain.Actor, action, entityType, entityID string, meta map[string]any) error
}

type AuditService interface {
	List(ctx context.Context, p domain.Principal, filter AuditFilter) (PageResult[*domain.AuditLog], error)
}
