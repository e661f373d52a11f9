package ports

import (
	"context"
	"time"

	"github.com/raylene/casework/internal/core/domain"
)

// ApplicationFilter carries every list parameter. ClientID is the visibility
// scope: the service sets it for callers who are not staff-like, and the
// repository must apply it inside the query.
type ApplicationFilter struct {
	ClientID          string
	Status            string
	Priority          string
	ApplicationTypeID string
	AssignedToID      string
	Search            string // notes, internal_notes, external_ref
	Ordering          string // created_at | updated_at | submitted_at, "-" prefix for desc
	Pagination
}

type ApplicationRepository interface {
	Create(ctx context.Context, a *domain.Application) error
	// FindByID applies the client scope when clientID is non-empty.
	FindByID(ctx context.Context, id, clientID string) (*domain.Application, error)
	List(ctx context.Context, filter ApplicationFilter) ([]*domain.Application, int64, error)
	// Update stores a and bumps its version. It fails with domain.ErrConflict
	// when the stored version is no longer expectedVersion.
	Update(ctx context.Context, a *domain.Application, expectedVersion int64) error
	// Delete removes the application together with its history, tasks and documents.
	Delete(ctx context.Context, id string) error
	CountByType(ctx context.Context, applicationTypeID string) (int64, error)

	AppendHistory(ctx context.Context, h *domain.StatusHistory) error
	ListHistory(ctx context.Context, applicationID string) ([]domain.StatusHistory, error)
}

type ApplicationTypeRepository interface {
	Create(ctx context.Context, t *domain.ApplicationType) error
	FindByID(ctx context.Context, id string) (*domain.ApplicationType, error)
	FindBySlug(ctx context.Context, slug string) (*domain.ApplicationType, error)
	List(ctx context.Context, activeOnly bool) ([]*domain.ApplicationType, error)
	Delete(ctx context.Context, id string) error
}

type CreateApplicationInput struct {
	ApplicationTypeID string
	Country           string
	Notes             string
}

// UpdateApplicationInput uses nil for "leave unchanged".
type UpdateApplicationInput struct {
	Notes         *string
	Country       *string
	Priority      *string
	AssignedToID  *string
	InternalNotes *string
	ExternalRef   *string
}

type TransitionInput struct {
	ApplicationID string
	Status        string
	Note          string
}

type CreateApplicationTypeInput struct {
	Code            string
	Name            string
	Slug            string
	Country         string
	Description     string
	BasePrice       string
	DocRequirements []string
}

type ApplicationService interface {
	Create(ctx context.Context, actor domain.Actor, in CreateApplicationInput) (*domain.Application, error)
	Get(ctx context.Context, p domain.Principal, id string) (*domain.Application, error)
	List(ctx context.Context, p domain.Principal, filter ApplicationFilter) (PageResult[*domain.Application], error)
	Update(ctx context.Context, actor domain.Actor, id string, in UpdateApplicationInput) (*domain.Application, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
	TransitionStatus(ctx context.Context, actor domain.Actor, in TransitionInput) (*domain.Application, error)
	History(ctx context.Context, p domain.Principal, id string) ([]domain.StatusHistory, error)

	ListTypes(ctx context.Context) ([]*domain.ApplicationType, error)
	GetType(ctx context.Context, slug string) (*domain.ApplicationType, error)
	CreateType(ctx context.Context, actor domain.Actor, in CreateApplicationTypeInput) (*domain.ApplicationType, error)
	DeleteType(ctx context.Context, actor domain.Actor, id string) error
}

// --- Tasks ---

type TaskFilter struct {
	ClientID      string
	Status        string
	AssignedToID  string
	ApplicationID string
}

type TaskRepository interface {
	Create(ctx context.Context, t *domain.Task) error
	FindByID(ctx context.Context, id, clientID string) (*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	// List orders by due date, then creation time.
	List(ctx context.Context, filter TaskFilter) ([]*domain.Task, error)
}

type AddTaskInput struct {
	ApplicationID string
	Title         string
	Description   string
	DueDate       *time.Time
	AssigneeID    *string
}

type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *string
	DueDate     *time.Time
	AssigneeID  *string
}

type TaskService interface {
	AddTask(ctx context.Context, actor domain.Actor, in AddTaskInput) (*domain.Task, error)
	CompleteTask(ctx context.Context, actor domain.Actor, taskID string) (*domain.Task, error)
	UpdateTask(ctx context.Context, actor domain.Actor, taskID string, in UpdateTaskInput) (*domain.Task, error)
	ListTasks(ctx context.Context, p domain.Principal, filter TaskFilter) ([]*domain.Task, error)
}
