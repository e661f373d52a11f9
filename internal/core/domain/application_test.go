package domain

import (
	"errors"
	"testing"
	"time"
)

func TestParseApplicationStatus(t *testing.T) {
	for _, s := range ApplicationStatuses {
		got, err := ParseApplicationStatus(string(s))
		if err != nil || got != s {
			t.Fatalf("ParseApplicationStatus(%q) = %q, %v", s, got, err)
		}
	}

	_, err := ParseApplicationStatus("submitted")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for lower-case status, got %v", err)
	}
	if verr.Fields["status"] != `"submitted" is not a valid choice.` {
		t.Errorf("unexpected message: %q", verr.Fields["status"])
	}
}

func TestApplication_ApplyStatus_StampsSubmittedOnce(t *testing.T) {
	t0 := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	a := &Application{Status: StatusReadyToSubmit}

	prev := a.ApplyStatus(StatusSubmitted, t0)
	if prev != StatusReadyToSubmit {
		t.Errorf("expected previous READY_TO_SUBMIT, got %s", prev)
	}
	if a.SubmittedAt == nil || !a.SubmittedAt.Equal(t0) {
		t.Fatalf("expected submitted_at %v, got %v", t0, a.SubmittedAt)
	}

	a.ApplyStatus(StatusAdditionalInfoRequested, t0.Add(time.Hour))
	a.ApplyStatus(StatusSubmitted, t0.Add(2*time.Hour))
	if !a.SubmittedAt.Equal(t0) {
		t.Errorf("re-submission must keep the first timestamp, got %v", a.SubmittedAt)
	}
	if !a.UpdatedAt.Equal(t0.Add(2 * time.Hour)) {
		t.Errorf("updated_at not advanced: %v", a.UpdatedAt)
	}
}

func TestApplication_ApplyStatus_AnyToAny(t *testing.T) {
	a := &Application{Status: StatusClosed}
	a.ApplyStatus(StatusDraft, time.Now())
	if a.Status != StatusDraft {
		t.Errorf("expected CLOSED -> DRAFT to be allowed, got %s", a.Status)
	}
	if a.SubmittedAt != nil {
		t.Errorf("submitted_at must stay nil")
	}
}

func TestErrors_EntityNotFoundMatchesSentinel(t *testing.T) {
	for _, err := range []error{ErrApplicationNotFound, ErrDocumentNotFound, ErrPageNotFound} {
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("%v should match ErrNotFound", err)
		}
	}
	verr := &ValidationError{}
	if verr.OrNil() != nil {
		t.Errorf("empty ValidationError should collapse to nil")
	}
	verr.Add("b", "second")
	verr.Add("a", "first")
	verr.Add("a", "ignored")
	if got := verr.Error(); got != "validation failed: a: first; b: second" {
		t.Errorf("unexpected Error(): %q", got)
	}
}
