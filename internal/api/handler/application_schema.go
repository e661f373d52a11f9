package handler

import (
	"time"

	"github.com/raylene/casework/internal/core/domain"
)

type createApplicationRequest struct {
	ApplicationTypeID string `json:"application_type" validate:"required"`
	Country           string `json:"country"          validate:"omitempty,max=64"`
	Notes             string `json:"notes"`
}

type updateApplicationRequest struct {
	Notes         *string `json:"notes"`
	Country       *string `json:"country"        validate:"omitempty,max=64"`
	Priority      *string `json:"priority"`
	AssignedToID  *string `json:"assigned_to"`
	InternalNotes *string `json:"internal_notes"`
	ExternalRef   *string `json:"external_ref"   validate:"omitempty,max=100"`
}

type transitionRequest struct {
	Status string `json:"status" validate:"required"`
	Note   string `json:"note"`
}

type createApplicationTypeRequest struct {
	Code            string   `json:"code"             validate:"required,max=50"`
	Name            string   `json:"name"             validate:"required,max=200"`
	Slug            string   `json:"slug"             validate:"required,max=100"`
	Country         string   `json:"country"          validate:"required,max=64"`
	Description     string   `json:"description"`
	BasePrice       string   `json:"base_price"       validate:"required"`
	DocRequirements []string `json:"doc_requirements"`
}

type addTaskRequest struct {
	Title       string     `json:"title"       validate:"required,max=200"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	AssigneeID  *string    `json:"assigned_to"`
}

type applicationResponse struct {
	ID              string                 `json:"id"`
	ClientID        string                 `json:"client"`
	ApplicationType string                 `json:"application_type"`
	AssignedToID    *string                `json:"assigned_to"`
	Status          string                 `json:"status"`
	Priority        string                 `json:"priority"`
	Country         string                 `json:"country"`
	Notes           string                 `json:"notes"`
	InternalNotes   *string                `json:"internal_notes,omitempty"`
	ExternalRef     string                 `json:"external_ref"`
	Version         int64                  `json:"version"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
	SubmittedAt     *time.Time             `json:"submitted_at"`
	StatusHistory   []domain.StatusHistory `json:"status_history,omitempty"`
	Tasks           []taskResponse         `json:"tasks,omitempty"`
}

type taskResponse struct {
	ID            string     `json:"id"`
	ApplicationID string     `json:"application"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Status        string     `json:"status"`
	AssignedToID  *string    `json:"assigned_to"`
	DueDate       *time.Time `json:"due_date"`
	CompletedAt   *time.Time `json:"completed_at"`
	CreatedAt     time.Time  `json:"created_at"`
}
