package handler

import (
	"github.com/raylene/casework/internal/core/domain"
)

// toApplicationResponse renders a for viewer. Internal notes are only shown
// to staff-like callers.
func toApplicationResponse(a *domain.Application, viewer domain.Principal) applicationResponse {
	out := applicationResponse{
		ID:              a.ID,
		ClientID:        a.ClientID,
		ApplicationType: a.ApplicationTypeID,
		AssignedToID:    a.AssignedToID,
		Status:          string(a.Status),
		Priority:        string(a.Priority),
		Country:         a.Country,
		Notes:           a.Notes,
		ExternalRef:     a.ExternalRef,
		Version:         a.Version,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
		SubmittedAt:     a.SubmittedAt,
		StatusHistory:   a.StatusHistory,
	}
	if viewer.IsStaffLike() {
		notes := a.InternalNotes
		out.InternalNotes = &notes
	}
	for i := range a.Tasks {
		out.Tasks = append(out.Tasks, toTaskResponse(&a.Tasks[i]))
	}
	return out
}

func toTaskResponse(t *domain.Task) taskResponse {
	return taskResponse{
		ID:            t.ID,
		ApplicationID: t.ApplicationID,
		Title:         t.Title,
		Description:   t.Description,
		Status:        string(t.Status),
		AssignedToID:  t.AssignedToID,
		DueDate:       t.DueDate,
		CompletedAt:   t.CompletedAt,
		CreatedAt:     t.CreatedAt,
	}
}
