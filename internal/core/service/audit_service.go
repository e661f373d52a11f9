package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/raylene/casework/internal/core/domain"
	"github.com/raylene/casework/internal/core/ports"
	"github.com/raylene/casework/internal/metrics"
)

// AuditService appends and lists audit entries. Entries are never updated.
type AuditService struct {
	repo   ports.AuditRepository
	logger zerolog.Logger
	now    clock
}

func NewAuditService(repo ports.AuditRepository, logger zerolog.Logger) *AuditService {
	return &AuditService{repo: repo, logger: logger, now: utcNow}
}

// Record stores one entry. A failed write is logged and counted; it never
// fails the operation being audited.
func (s *AuditService) Record(ctx context.Context, actor domain.Actor, action, entityType, entityID string, meta map[string]any) {
	if err := s.Append(ctx, actor, action, entityType, entityID, meta); err != nil {
		s.logger.Warn().Err(err).
			Str("action", action).
			Str("entity_type", entityType).
			Str("entity_id", entityID).
			Msg("audit write failed")
	}
}

// Append stores one entry and reports a failed write. Used inside
// transactions, where the audit row commits or rolls back with the change.
func (s *AuditService) Append(ctx context.Context, actor domain.Actor, action, entityType, entityID string, meta map[string]any) error {
	if meta == nil {
		meta = map[string]any{}
	}
	entry := &domain.AuditLog{
		ID:         newID(),
		ActorID:    actorRef(actor.Principal),
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Meta:       meta,
		IPAddress:  actor.IPAddress,
		UserAgent:  actor.UserAgent,
		CreatedAt:  s.now(),
	}
	if err := s.repo.Insert(ctx, entry); err != nil {
		metrics.AuditWriteFailuresTotal.WithLabelValues(action).Inc()
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// List returns entries newest first. Only staff-like callers may read the trail.
func (s *AuditService) List(ctx context.Context, p domain.Principal, filter ports.AuditFilter) (ports.PageResult[*domain.AuditLog], error) {
	if !p.IsStaffLike() {
		return ports.PageResult[*domain.AuditLog]{}, domain.ErrForbidden
	}
	filter.Pagination = filter.Pagination.Normalize()
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return ports.PageResult[*domain.AuditLog]{}, err
	}
	return ports.NewPageResult(items, total, filter.Pagination), nil
}
