package ports

import (
	"context"
	"time"

	"github.com/raylene/casework/internal/core/domain"
)

// IdentityRepository persists users, profiles and role assignments.
type IdentityRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	FindUserByID(ctx context.Context, id string) (*domain.User, error)
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateLastLogin(ctx context.Context, userID string, at time.Time) error
	UpdatePassword(ctx context.Context, userID, hash string) error

	UpsertRole(ctx context.Context, role domain.Role) error
	// ListRoles returns the role codes currently assigned to the user.
	ListRoles(ctx context.Context, userID string) ([]domain.RoleCode, error)
	// AssignRole is a no-op when the pair already exists.
	AssignRole(ctx context.Context, ur *domain.UserRole) error
	RevokeRole(ctx context.Context, userID string, role domain.RoleCode) error

	CreateClientProfile(ctx context.Context, p *domain.ClientProfile) error
	FindClientProfile(ctx context.Context, userID string) (*domain.ClientProfile, error)
	UpdateClientProfile(ctx context.Context, p *domain.ClientProfile) error
	FindStaffProfile(ctx context.Context, userID string) (*domain.StaffProfile, error)
	UpdateStaffProfile(ctx context.Context, p *domain.StaffProfile) error
}

// TokenDenylist remembers revoked refresh tokens by jti until they expire.
type TokenDenylist interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type RegisterInput struct {
	Email           string
	Password        string
	PasswordConfirm string
	FirstName       string
	LastName        string
	Phone           string
}

// TokenPair is what a successful login yields.
type TokenPair struct {
	Access  string
	Refresh string
}

type UpdateProfileInput struct {
	FirstName    *string
	LastName     *string
	Nationality  *string
	PassportNo   *string
	Phone        *string
	Address      *string
	DateOfBirth  *time.Time
	ConsentFlags map[string]bool

	Title        *string
	Bio          *string
	CalendarLink *string
	WhatsAppNo   *string
}

type ChangePasswordInput struct {
	OldPassword        string
	NewPassword        string
	NewPasswordConfirm string
}

// Me is the caller's own account view.
type Me struct {
	User          *domain.User
	Roles         []domain.RoleCode
	ClientProfile *domain.ClientProfile
	StaffProfile  *domain.StaffProfile
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.ClientProfile, *domain.User, error)
	Login(ctx context.Context, email, password string) (*TokenPair, *domain.User, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Logout(ctx context.Context, refreshToken string) error
	Me(ctx context.Context, p domain.Principal) (*Me, error)
	UpdateMe(ctx context.Context, p domain.Principal, in UpdateProfileInput) (*Me, error)
	ChangePassword(ctx context.Context, p domain.Principal, in ChangePasswordInput) error
}

// IdentityService answers "who is calling and what may they do".
type IdentityService interface {
	LoadPrincipal(ctx context.Context, userID string) (domain.Principal, error)
	AssignRole(ctx context.Context, actor domain.Actor, userID string, role domain.RoleCode) error
	RevokeRole(ctx context.Context, actor domain.Actor, userID string, role domain.RoleCode) error
}
