package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ApplicationStatus is the lifecycle state of an application.
type ApplicationStatus string

const (
	StatusDraft                   ApplicationStatus = "DRAFT"
	StatusIntake                  ApplicationStatus = "INTAKE"
	StatusInReview                ApplicationStatus = "IN_REVIEW"
	StatusDocsPending             ApplicationStatus = "DOCS_PENDING"
	StatusReadyToSubmit           ApplicationStatus = "READY_TO_SUBMIT"
	StatusSubmitted               ApplicationStatus = "SUBMITTED"
	StatusDHAProcessing           ApplicationStatus = "DHA_PROCESSING"
	StatusAdditionalInfoRequested ApplicationStatus = "ADDITIONAL_INFO_REQUESTED"
	StatusApproved                ApplicationStatus = "APPROVED"
	StatusRejected                ApplicationStatus = "REJECTED"
	StatusClosed                  ApplicationStatus = "CLOSED"
)

// ApplicationStatuses lists the 11 valid states in workflow order.
var ApplicationStatuses = []ApplicationStatus{
	StatusDraft, StatusIntake, StatusInReview, StatusDocsPending, StatusReadyToSubmit,
	StatusSubmitted, StatusDHAProcessing, StatusAdditionalInfoRequested,
	StatusApproved, StatusRejected, StatusClosed,
}

// Valid reports whether s is one of the enumerated states.
func (s ApplicationStatus) Valid() bool {
	for _, v := range ApplicationStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// ParseApplicationStatus validates raw against the enumeration. Any state may
// follow any other; only membership is checked.
func ParseApplicationStatus(raw string) (ApplicationStatus, error) {
	s := ApplicationStatus(raw)
	if !s.Valid() {
		return "", NewValidationError("status", fmt.Sprintf("%q is not a valid choice.", raw))
	}
	return s, nil
}

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityNormal Priority = "NORMAL"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// ApplicationType is catalog reference data. It cannot be deleted while any
// application references it.
type ApplicationType struct {
	ID              string          `json:"id"`
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	Slug            string          `json:"slug"`
	Country         string          `json:"country"`
	Description     string          `json:"description"`
	BasePrice       decimal.Decimal `json:"base_price"`
	DocRequirements []string        `json:"doc_requirements"`
	IsActive        bool            `json:"is_active"`
	CreatedAt       time.Time       `json:"created_at"`
}

// Application is the central case record. ClientID never changes after creation.
type Application struct {
	ID                string            `bson:"_id"`
	ClientID          string            `bson:"client_id"`
	ApplicationTypeID string            `bson:"application_type_id"`
	AssignedToID      *string           `bson:"assigned_to_id,omitempty"`
	Status            ApplicationStatus `bson:"status"`
	Priority          Priority          `bson:"priority"`
	Country           string            `bson:"country"`
	Notes             string            `bson:"notes"`
	InternalNotes     string            `bson:"internal_notes"`
	ExternalRef       string            `bson:"external_ref"`
	Version           int64             `bson:"version"`
	CreatedAt         time.Time         `bson:"created_at"`
	UpdatedAt         time.Time         `bson:"updated_at"`
	SubmittedAt       *time.Time        `bson:"submitted_at,omitempty"`

	StatusHistory []StatusHistory `bson:"-"`
	Tasks         []Task          `bson:"-"`
}

// ApplyStatus moves the application to next and returns the previous state.
// SubmittedAt is stamped only the first time the application reaches SUBMITTED.
func (a *Application) ApplyStatus(next ApplicationStatus, now time.Time) ApplicationStatus {
	prev := a.Status
	a.Status = next
	if next == StatusSubmitted && a.SubmittedAt == nil {
		t := now
		a.SubmittedAt = &t
	}
	a.UpdatedAt = now
	return prev
}

// StatusHistory is one immutable transition record.
type StatusHistory struct {
	ID            string            `json:"id" bson:"_id"`
	ApplicationID string            `json:"application_id" bson:"application_id"`
	FromStatus    ApplicationStatus `json:"from_status" bson:"from_status"`
	ToStatus      ApplicationStatus `json:"to_status" bson:"to_status"`
	Note          string            `json:"note" bson:"note"`
	ChangedByID   *string           `json:"changed_by_id" bson:"changed_by_id,omitempty"`
	CreatedAt     time.Time         `json:"created_at" bson:"created_at"`
}
