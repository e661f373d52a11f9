package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/raylene/casework/internal/core/domain"
	"github.com/raylene/casework/internal/core/ports"
	"github.com/raylene/casework/internal/metrics"
)

var applicationOrderings = map[string]bool{
	"created_at": true, "-created_at": true,
	"updated_at": true, "-updated_at": true,
	"submitted_at": true, "-submitted_at": true,
}

const defaultApplicationOrdering = "-created_at"

// ApplicationService owns the application lifecycle and the application type catalog.
type ApplicationService struct {
	apps     ports.ApplicationRepository
	types    ports.ApplicationTypeRepository
	tasks    ports.TaskRepository
	tx       ports.TxManager
	audit    ports.AuditRecorder
	notifier ports.Notifier
	logger   zerolog.Logger
	now      clock
}

func NewApplicationService(
	apps ports.ApplicationRepository,
	types ports.ApplicationTypeRepository,
	tasks ports.TaskRepository,
	tx ports.TxManager,
	audit ports.AuditRecorder,
	notifier ports.Notifier,
	logger zerolog.Logger,
) *ApplicationService {
	return &ApplicationService{
		apps:     apps,
		types:    types,
		tasks:    tasks,
		tx:       tx,
		audit:    audit,
		notifier: notifier,
		logger:   logger,
		now:      utcNow,
	}
}

// Create opens a DRAFT application owned by the caller.
func (s *ApplicationService) Create(ctx context.Context, actor domain.Actor, in ports.CreateApplicationInput) (*domain.Application, error) {
	if in.ApplicationTypeID == "" {
		return nil, domain.NewValidationError("application_type", "This field is required.")
	}
	appType, err := s.types.FindByID(ctx, in.ApplicationTypeID)
	if err != nil {
		if isNotFound(err) {
			return nil, domain.NewValidationError("application_type", fmt.Sprintf("Invalid pk %q - object does not exist.", in.ApplicationTypeID))
		}
		return nil, err
	}
	if !appType.IsActive {
		return nil, domain.NewValidationError("application_type", "This application type is no longer offered.")
	}

	country := strings.TrimSpace(in.Country)
	if country == "" {
		country = appType.Country
	}

	now := s.now()
	app := &domain.Application{
		ID:                newID(),
		ClientID:          actor.UserID(),
		ApplicationTypeID: appType.ID,
		Status:            domain.StatusDraft,
		Priority:          domain.PriorityNormal,
		Country:           country,
		Notes:             in.Notes,
		Version:           1,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.apps.Create(ctx, app); err != nil {
		return nil, fmt.Errorf("create application: %w", err)
	}

	metrics.ApplicationsCreatedTotal.WithLabelValues(appType.Code).Inc()
	s.logger.Info().Str("application_id", app.ID).Str("client_id", app.ClientID).Msg("application created")
	return s.withDetail(ctx, app)
}

// Get returns the application with its history and tasks. Applications
// outside the caller's scope are reported as not found.
func (s *ApplicationService) Get(ctx context.Context, p domain.Principal, id string) (*domain.Application, error) {
	app, err := s.apps.FindByID(ctx, id, scopeFor(p, domain.StaffRoles))
	if err != nil {
		return nil, err
	}
	return s.withDetail(ctx, app)
}

func (s *ApplicationService) List(ctx context.Context, p domain.Principal, filter ports.ApplicationFilter) (ports.PageResult[*domain.Application], error) {
	filter.ClientID = scopeFor(p, domain.StaffRoles)
	if !applicationOrderings[filter.Ordering] {
		filter.Ordering = defaultApplicationOrdering
	}
	filter.Pagination = filter.Pagination.Normalize()

	items, total, err := s.apps.List(ctx, filter)
	if err != nil {
		return ports.PageResult[*domain.Application]{}, err
	}
	return ports.NewPageResult(items, total, filter.Pagination), nil
}

// Update edits descriptive fields. Owners may change notes and country; the
// remaining fields are reserved for staff-like callers. Status is never
// changed here.
func (s *ApplicationService) Update(ctx context.Context, actor domain.Actor, id string, in ports.UpdateApplicationInput) (*domain.Application, error) {
	app, err := s.apps.FindByID(ctx, id, scopeFor(actor.Principal, domain.StaffRoles))
	if err != nil {
		return nil, err
	}

	staffOnly := in.Priority != nil || in.AssignedToID != nil || in.InternalNotes != nil || in.ExternalRef != nil
	if staffOnly && !actor.IsStaffLike() {
		return nil, domain.ErrForbidden
	}
	if in.Priority != nil {
		pr := domain.Priority(*in.Priority)
		if !pr.Valid() {
			return nil, domain.NewValidationError("priority", fmt.Sprintf("%q is not a valid choice.", *in.Priority))
		}
		app.Priority = pr
	}

	setString(&app.Notes, in.Notes)
	setString(&app.Country, in.Country)
	setString(&app.InternalNotes, in.InternalNotes)
	setString(&app.ExternalRef, in.ExternalRef)
	if in.AssignedToID != nil {
		if *in.AssignedToID == "" {
			app.AssignedToID = nil
		} else {
			assignee := *in.AssignedToID
			app.AssignedToID = &assignee
		}
	}
	app.UpdatedAt = s.now()

	if err := s.apps.Update(ctx, app, app.Version); err != nil {
		return nil, err
	}
	return s.withDetail(ctx, app)
}

// Delete removes the application and everything it owns. Owners may delete
// only while the application is still a draft.
func (s *ApplicationService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	app, err := s.apps.FindByID(ctx, id, scopeFor(actor.Principal, domain.StaffRoles))
	if err != nil {
		return err
	}
	if !actor.IsStaffLike() && app.Status != domain.StatusDraft {
		return domain.ErrForbidden
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.apps.Delete(ctx, app.ID); err != nil {
			return err
		}
		if err := s.audit.Append(ctx, actor, domain.ActionDeleteApplication, domain.EntityApplication, app.ID, map[string]any{
			"status":    string(app.Status),
			"client_id": app.ClientID,
		}); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete application: %w", err)
	}
	s.logger.Info().Str("application_id", app.ID).Str("by", actor.UserID()).Msg("application deleted")
	return nil
}

// TransitionStatus moves an application to a new state. The status write, the
// history row and the audit entry commit together; a concurrent writer makes
// the transition fail with domain.ErrConflict. A transition to the current
// state is still recorded.
func (s *ApplicationService) TransitionStatus(ctx context.Context, actor domain.Actor, in ports.TransitionInput) (*domain.Application, error) {
	next, err := domain.ParseApplicationStatus(in.Status)
	if err != nil {
		return nil, err
	}

	var (
		app  *domain.Application
		prev domain.ApplicationStatus
	)
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		found, err := s.apps.FindByID(ctx, in.ApplicationID, scopeFor(actor.Principal, domain.StaffRoles))
		if err != nil {
			return err
		}
		if !actor.IsStaffLike() {
			return domain.ErrForbidden
		}

		now := s.now()
		prev = found.ApplyStatus(next, now)
		if err := s.apps.Update(ctx, found, found.Version); err != nil {
			return err
		}
		if err := s.apps.AppendHistory(ctx, &domain.StatusHistory{
			ID:            newID(),
			ApplicationID: found.ID,
			FromStatus:    prev,
			ToStatus:      next,
			Note:          in.Note,
			ChangedByID:   actorRef(actor.Principal),
			CreatedAt:     now,
		}); err != nil {
			return fmt.Errorf("append status history: %w", err)
		}
		if err := s.audit.Append(ctx, actor, domain.ActionUpdateStatus, domain.EntityApplication, found.ID, map[string]any{
			"from": string(prev),
			"to":   string(next),
			"note": in.Note,
		}); err != nil {
			return err
		}
		app = found
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			metrics.TransitionConflictsTotal.Inc()
		}
		return nil, err
	}

	metrics.StatusTransitionsTotal.WithLabelValues(string(prev), string(next)).Inc()
	s.logger.Info().
		Str("application_id", app.ID).
		Str("from", string(prev)).
		Str("to", string(next)).
		Str("by", actor.UserID()).
		Msg("application status changed")

	s.notifier.Enqueue(&domain.Notification{
		ID:           newID(),
		UserID:       app.ClientID,
		Channel:      domain.ChannelInApp,
		TemplateCode: domain.TemplateStatusChanged,
		Payload: map[string]any{
			"application_id": app.ID,
			"from":           string(prev),
			"to":             string(next),
		},
		Status:    domain.NotificationPending,
		CreatedAt: s.now(),
	})

	return s.withDetail(ctx, app)
}

// History lists the transitions of a visible application, newest first.
func (s *ApplicationService) History(ctx context.Context, p domain.Principal, id string) ([]domain.StatusHistory, error) {
	app, err := s.apps.FindByID(ctx, id, scopeFor(p, domain.StaffRoles))
	if err != nil {
		return nil, err
	}
	return s.apps.ListHistory(ctx, app.ID)
}

func (s *ApplicationService) withDetail(ctx context.Context, app *domain.Application) (*domain.Application, error) {
	history, err := s.apps.ListHistory(ctx, app.ID)
	if err != nil {
		return nil, fmt.Errorf("load status history: %w", err)
	}
	tasks, err := s.tasks.List(ctx, ports.TaskFilter{ApplicationID: app.ID})
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	app.StatusHistory = history
	app.Tasks = make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		app.Tasks = append(app.Tasks, *t)
	}
	return app, nil
}

// --- Application type catalog ---

func (s *ApplicationService) ListTypes(ctx context.Context) ([]*domain.ApplicationType, error) {
	return s.types.List(ctx, true)
}

func (s *ApplicationService) GetType(ctx context.Context, slug string) (*domain.ApplicationType, error) {
	return s.types.FindBySlug(ctx, slug)
}

func (s *ApplicationService) CreateType(ctx context.Context, actor domain.Actor, in ports.CreateApplicationTypeInput) (*domain.ApplicationType, error) {
	if !actor.Holds(domain.Administrators) {
		return nil, domain.ErrForbidden
	}

	verr := &domain.ValidationError{}
	if strings.TrimSpace(in.Code) == "" {
		verr.Add("code", "This field is required.")
	}
	if strings.TrimSpace(in.Name) == "" {
		verr.Add("name", "This field is required.")
	}
	if strings.TrimSpace(in.Slug) == "" {
		verr.Add("slug", "This field is required.")
	}
	price := decimal.Zero
	if in.BasePrice != "" {
		p, err := decimal.NewFromString(in.BasePrice)
		if err != nil || p.IsNegative() {
			verr.Add("base_price", "A valid non-negative number is required.")
		} else {
			price = p.Round(2)
		}
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	reqs := in.DocRequirements
	if reqs == nil {
		reqs = []string{}
	}
	t := &domain.ApplicationType{
		ID:              newID(),
		Code:            in.Code,
		Name:            in.Name,
		Slug:            in.Slug,
		Country:         in.Country,
		Description:     in.Description,
		BasePrice:       price,
		DocRequirements: reqs,
		IsActive:        true,
		CreatedAt:       s.now(),
	}
	if err := s.types.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create application type: %w", err)
	}
	return t, nil
}

// DeleteType removes a catalog entry that no application references.
func (s *ApplicationService) DeleteType(ctx context.Context, actor domain.Actor, id string) error {
	if !actor.Holds(domain.Administrators) {
		return domain.ErrForbidden
	}
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.types.FindByID(ctx, id); err != nil {
			return err
		}
		n, err := s.apps.CountByType(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("application type is used by %d applications: %w", n, domain.ErrProtected)
		}
		return s.types.Delete(ctx, id)
	})
}
