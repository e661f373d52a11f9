package service

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/raylene/casework/internal/core/domain"
)

type clock func() time.Time

func utcNow() time.Time { return time.Now().UTC() }

func newID() string { return uuid.NewString() }

// actorRef returns the actor's id for nullable foreign keys.
func actorRef(p domain.Principal) *string {
	id := p.UserID()
	if id == "" {
		return nil
	}
	return &id
}

// scopeFor returns the client id a lookup must be restricted to, or "" when the
// principal may read every record of the resource.
func scopeFor(p domain.Principal, readers domain.RoleSet) string {
	if p.CanSeeAll(readers) {
		return ""
	}
	return p.UserID()
}

func isNotFound(err error) bool { return errors.Is(err, domain.ErrNotFound) }

func normalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + strings.ToLower(email[at:])
}

func validatePassword(field, password string, verr *domain.ValidationError) {
	switch {
	case len(password) < 8:
		verr.Add(field, "This password is too short. It must contain at least 8 characters.")
	case strings.Trim(password, "0123456789") == "":
		verr.Add(field, "This password is entirely numeric.")
	}
}
