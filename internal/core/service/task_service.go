package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/raylene/casework/internal/core/domain"
	"github.com/raylene/casework/internal/core/ports"
)

// TaskService manages follow-up tasks on applications. Consultants and admins
// see every task; anyone else sees the tasks of their own applications.
type TaskService struct {
	apps   ports.ApplicationRepository
	tasks  ports.TaskRepository
	logger zerolog.Logger
	now    clock
}

func NewTaskService(apps ports.ApplicationRepository, tasks ports.TaskRepository, logger zerolog.Logger) *TaskService {
	return &TaskService{apps: apps, tasks: tasks, logger: logger, now: utcNow}
}

func (s *TaskService) AddTask(ctx context.Context, actor domain.Actor, in ports.AddTaskInput) (*domain.Task, error) {
	app, err := s.apps.FindByID(ctx, in.ApplicationID, scopeFor(actor.Principal, domain.StaffRoles))
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, domain.NewValidationError("title", "This field is required.")
	}

	task := &domain.Task{
		ID:            newID(),
		ApplicationID: app.ID,
		ClientID:      app.ClientID,
		Title:         in.Title,
		Description:   in.Description,
		Status:        domain.TaskPending,
		AssignedToID:  nonEmpty(in.AssigneeID),
		DueDate:       in.DueDate,
		CreatedAt:     s.now(),
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	s.logger.Debug().Str("task_id", task.ID).Str("application_id", app.ID).Msg("task added")
	return task, nil
}

// CompleteTask marks a visible task DONE regardless of its current status.
func (s *TaskService) CompleteTask(ctx context.Context, actor domain.Actor, taskID string) (*domain.Task, error) {
	task, err := s.tasks.FindByID(ctx, taskID, scopeFor(actor.Principal, domain.TaskReaders))
	if err != nil {
		return nil, err
	}
	task.Complete(s.now())
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("complete task: %w", err)
	}
	return task, nil
}

func (s *TaskService) UpdateTask(ctx context.Context, actor domain.Actor, taskID string, in ports.UpdateTaskInput) (*domain.Task, error) {
	task, err := s.tasks.FindByID(ctx, taskID, scopeFor(actor.Principal, domain.TaskReaders))
	if err != nil {
		return nil, err
	}

	if in.Status != nil {
		status, err := domain.ParseTaskStatus(*in.Status)
		if err != nil {
			return nil, err
		}
		if status == domain.TaskDone && task.Status != domain.TaskDone {
			task.Complete(s.now())
		}
		task.Status = status
	}
	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, domain.NewValidationError("title", "This field may not be blank.")
		}
		task.Title = *in.Title
	}
	setString(&task.Description, in.Description)
	if in.DueDate != nil {
		task.DueDate = in.DueDate
	}
	if in.AssigneeID != nil {
		task.AssignedToID = nonEmpty(in.AssigneeID)
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return task, nil
}

// ListTasks orders by due date, then creation time.
func (s *TaskService) ListTasks(ctx context.Context, p domain.Principal, filter ports.TaskFilter) ([]*domain.Task, error) {
	filter.ClientID = scopeFor(p, domain.TaskReaders)
	return s.tasks.List(ctx, filter)
}

// nonEmpty turns an empty optional reference into nil.
func nonEmpty(v *string) *string {
	if v == nil || *v == "" {
		return nil
	}
	out := *v
	return &out
}
