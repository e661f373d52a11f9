package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/raylene/casework/internal/core/domain"
	"github.com/raylene/casework/internal/core/ports"
	"github.com/raylene/casework/internal/metrics"
	"github.com/raylene/casework/internal/pkg/security"
)

// AuthService implements registration, token issuance and self-service
// account management.
type AuthService struct {
	repo     ports.IdentityRepository
	tx       ports.TxManager
	tokens   *security.TokenManager
	denylist ports.TokenDenylist
	logger   zerolog.Logger
	now      clock
}

func NewAuthService(repo ports.IdentityRepository, tx ports.TxManager, tokens *security.TokenManager, denylist ports.TokenDenylist, logger zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, tx: tx, tokens: tokens, denylist: denylist, logger: logger, now: utcNow}
}

// Register creates the user, its client profile and the CLIENT role grant as
// one unit: either all three exist afterwards or none does.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.ClientProfile, *domain.User, error) {
	email := normalizeEmail(in.Email)

	verr := &domain.ValidationError{}
	if email == "" {
		verr.Add("email", "This field is required.")
	}
	if in.Password != in.PasswordConfirm {
		verr.Add("password", "Passwords do not match.")
	}
	validatePassword("password", in.Password, verr)
	if err := verr.OrNil(); err != nil {
		return nil, nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	now := s.now()
	user := &domain.User{
		ID:           newID(),
		Email:        email,
		PasswordHash: string(hash),
		IsActive:     true,
		DateJoined:   now,
	}
	profile := &domain.ClientProfile{
		ID:           newID(),
		UserID:       user.ID,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
		ConsentFlags: map[string]bool{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.CreateUser(ctx, user); err != nil {
			return err
		}
		if err := s.repo.CreateClientProfile(ctx, profile); err != nil {
			return fmt.Errorf("create client profile: %w", err)
		}
		return s.repo.AssignRole(ctx, &domain.UserRole{ID: newID(), UserID: user.ID, Role: domain.RoleClient, AssignedAt: now})
	})
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("client registered")
	return profile, user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.TokenPair, *domain.User, error) {
	if email == "" || password == "" {
		return nil, nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if isNotFound(err) {
			metrics.LoginsTotal.WithLabelValues("denied").Inc()
			return nil, nil, domain.ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if !user.IsActive || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.LoginsTotal.WithLabelValues("denied").Inc()
		return nil, nil, domain.ErrInvalidCredentials
	}

	access, err := s.tokens.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, nil, err
	}
	refresh, err := s.tokens.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, nil, err
	}

	now := s.now()
	if err := s.repo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, nil, fmt.Errorf("update last login: %w", err)
	}
	user.LastLogin = &now

	metrics.LoginsTotal.WithLabelValues("ok").Inc()
	return &ports.TokenPair{Access: access, Refresh: refresh}, user, nil
}

// Refresh exchanges a live refresh token for a new access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.parseRefresh(ctx, refreshToken)
	if err != nil {
		return "", err
	}
	user, err := s.repo.FindUserByID(ctx, claims.UserID)
	if err != nil || !user.IsActive {
		return "", domain.ErrInvalidCredentials
	}
	return s.tokens.GenerateAccessToken(user.ID, user.Email)
}

// Logout revokes the refresh token until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.parseRefresh(ctx, refreshToken)
	if err != nil {
		return err
	}
	return s.denylist.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}

func (s *AuthService) parseRefresh(ctx context.Context, refreshToken string) (*security.Claims, error) {
	claims, err := s.tokens.Parse(refreshToken, security.TokenTypeRefresh)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCredentials, err)
	}
	revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check token denylist: %w", err)
	}
	if revoked {
		return nil, fmt.Errorf("%w: token has been revoked", domain.ErrInvalidCredentials)
	}
	return claims, nil
}

func (s *AuthService) Me(ctx context.Context, p domain.Principal) (*ports.Me, error) {
	me := &ports.Me{User: p.User, Roles: p.Roles}

	cp, err := s.repo.FindClientProfile(ctx, p.UserID())
	switch {
	case err == nil:
		me.ClientProfile = cp
	case !isNotFound(err):
		return nil, err
	}

	sp, err := s.repo.FindStaffProfile(ctx, p.UserID())
	switch {
	case err == nil:
		me.StaffProfile = sp
	case !isNotFound(err):
		return nil, err
	}
	return me, nil
}

// UpdateMe applies a partial update to whichever profiles the caller has.
func (s *AuthService) UpdateMe(ctx context.Context, p domain.Principal, in ports.UpdateProfileInput) (*ports.Me, error) {
	me, err := s.Me(ctx, p)
	if err != nil {
		return nil, err
	}
	now := s.now()

	if cp := me.ClientProfile; cp != nil {
		setString(&cp.FirstName, in.FirstName)
		setString(&cp.LastName, in.LastName)
		setString(&cp.Nationality, in.Nationality)
		setString(&cp.PassportNo, in.PassportNo)
		setString(&cp.Phone, in.Phone)
		setString(&cp.Address, in.Address)
		if in.DateOfBirth != nil {
			cp.DateOfBirth = in.DateOfBirth
		}
		if in.ConsentFlags != nil {
			if cp.ConsentFlags == nil {
				cp.ConsentFlags = map[string]bool{}
			}
			for k, v := range in.ConsentFlags {
				cp.ConsentFlags[k] = v
			}
		}
		cp.UpdatedAt = now
		if err := s.repo.UpdateClientProfile(ctx, cp); err != nil {
			return nil, fmt.Errorf("update client profile: %w", err)
		}
	}

	if sp := me.StaffProfile; sp != nil {
		setString(&sp.Title, in.Title)
		setString(&sp.Bio, in.Bio)
		setString(&sp.CalendarLink, in.CalendarLink)
		setString(&sp.WhatsAppNo, in.WhatsAppNo)
		sp.UpdatedAt = now
		if err := s.repo.UpdateStaffProfile(ctx, sp); err != nil {
			return nil, fmt.Errorf("update staff profile: %w", err)
		}
	}
	return me, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, p domain.Principal, in ports.ChangePasswordInput) error {
	user, err := s.repo.FindUserByID(ctx, p.UserID())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrInvalidCredentials
		}
		return err
	}

	verr := &domain.ValidationError{}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.OldPassword)) != nil {
		verr.Add("old_password", "Old password is incorrect.")
	}
	if in.NewPassword != in.NewPasswordConfirm {
		verr.Add("new_password", "New passwords do not match.")
	}
	validatePassword("new_password", in.NewPassword, verr)
	if err := verr.OrNil(); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, user.ID, string(hash))
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
