package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/raylene/casework/internal/core/domain"
	"github.com/raylene/casework/internal/core/ports"
)

// IdentityService resolves callers into principals and manages role grants.
type IdentityService struct {
	repo   ports.IdentityRepository
	audit  ports.AuditRecorder
	logger zerolog.Logger
	now    clock
}

func NewIdentityService(repo ports.IdentityRepository, audit ports.AuditRecorder, logger zerolog.Logger) *IdentityService {
	return &IdentityService{repo: repo, audit: audit, logger: logger, now: utcNow}
}

// LoadPrincipal reads the user and the roles held right now. Missing or
// deactivated users are reported as invalid credentials.
func (s *IdentityService) LoadPrincipal(ctx context.Context, userID string) (domain.Principal, error) {
	user, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return domain.Principal{}, domain.ErrInvalidCredentials
		}
		return domain.Principal{}, fmt.Errorf("load user: %w", err)
	}
	if !user.IsActive {
		return domain.Principal{}, domain.ErrInvalidCredentials
	}
	roles, err := s.repo.ListRoles(ctx, user.ID)
	if err != nil {
		return domain.Principal{}, fmt.Errorf("load roles: %w", err)
	}
	return domain.Principal{User: user, Roles: roles}, nil
}

func (s *IdentityService) AssignRole(ctx context.Context, actor domain.Actor, userID string, role domain.RoleCode) error {
	if err := s.checkRoleChange(ctx, actor, userID, role); err != nil {
		return err
	}
	ur := &domain.UserRole{ID: newID(), UserID: userID, Role: role, AssignedAt: s.now()}
	if err := s.repo.AssignRole(ctx, ur); err != nil {
		return fmt.Errorf("assign role: %w", err)
	}
	s.audit.Record(ctx, actor, domain.ActionAssignRole, domain.EntityUser, userID, map[string]any{"role": string(role)})
	s.logger.Info().Str("user_id", userID).Str("role", string(role)).Str("by", actor.UserID()).Msg("role assigned")
	return nil
}

func (s *IdentityService) RevokeRole(ctx context.Context, actor domain.Actor, userID string, role domain.RoleCode) error {
	if err := s.checkRoleChange(ctx, actor, userID, role); err != nil {
		return err
	}
	if err := s.repo.RevokeRole(ctx, userID, role); err != nil {
		return fmt.Errorf("revoke role: %w", err)
	}
	s.audit.Record(ctx, actor, domain.ActionRevokeRole, domain.EntityUser, userID, map[string]any{"role": string(role)})
	s.logger.Info().Str("user_id", userID).Str("role", string(role)).Str("by", actor.UserID()).Msg("role revoked")
	return nil
}

func (s *IdentityService) checkRoleChange(ctx context.Context, actor domain.Actor, userID string, role domain.RoleCode) error {
	if !actor.Holds(domain.Administrators) {
		return domain.ErrForbidden
	}
	if !role.Valid() {
		return domain.NewValidationError("role", fmt.Sprintf("%q is not a valid choice.", role))
	}
	if _, err := s.repo.FindUserByID(ctx, userID); err != nil {
		if isNotFound(err) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("load user: %w", err)
	}
	return nil
}

// EnsureRoles seeds the fixed role catalog. Safe to run on every start.
func (s *IdentityService) EnsureRoles(ctx context.Context) error {
	for _, code := range domain.AllRoles {
		if err := s.repo.UpsertRole(ctx, domain.Role{Code: code, Name: code.DisplayName()}); err != nil {
			return fmt.Errorf("seed role %s: %w", code, err)
		}
	}
	return nil
}

// BootstrapAdmin makes sure an is_staff ADMIN account exists for email. An
// existing account is granted the role but its password is left alone.
func (s *IdentityService) BootstrapAdmin(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)
	user, err := s.repo.FindUserByEmail(ctx, email)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNotFound):
		hash, herr := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if herr != nil {
			return herr
		}
		user = &domain.User{
			ID:           newID(),
			Email:        email,
			PasswordHash: string(hash),
			IsActive:     true,
			IsStaff:      true,
			DateJoined:   s.now(),
		}
		if err := s.repo.CreateUser(ctx, user); err != nil {
			return fmt.Errorf("create admin: %w", err)
		}
		s.logger.Info().Str("email", email).Msg("bootstrap admin created")
	default:
		return fmt.Errorf("find admin: %w", err)
	}
	return s.repo.AssignRole(ctx, &domain.UserRole{ID: newID(), UserID: user.ID, Role: domain.RoleAdmin, AssignedAt: s.now()})
}
