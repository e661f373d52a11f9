package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/raylene/casework/internal/core/domain"
	"github.com/raylene/casework/internal/core/ports"
	"github.com/raylene/casework/internal/pkg/security"
)

func newAuthFixture() (*AuthService, *memIdentity, *memDenylist) {
	repo := newMemIdentity()
	deny := newMemDenylist()
	tx := &stubTx{stores: []snapshotter{repo}}
	tokens := security.NewTokenManager("test-secret", time.Minute, time.Hour)
	return NewAuthService(repo, tx, tokens, deny, zerolog.Nop()), repo, deny
}

func validRegistration() ports.RegisterInput {
	return ports.RegisterInput{
		Email:           "Thandi@Example.COM",
		Password:        "s3cure-pass",
		PasswordConfirm: "s3cure-pass",
		FirstName:       "Thandi",
		LastName:        "Nkosi",
		Phone:           "+27821234567",
	}
}

func TestAuthService_Register_CreatesUserProfileAndClientRole(t *testing.T) {
	svc, repo, _ := newAuthFixture()

	profile, user, err := svc.Register(context.Background(), validRegistration())

	require.NoError(t, err)
	assert.Equal(t, "Thandi@example.com", user.Email, "domain part is lower-cased")
	assert.True(t, user.IsActive)
	assert.False(t, user.IsStaff)
	assert.NotEqual(t, "s3cure-pass", user.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cure-pass")))
	assert.Equal(t, user.ID, profile.UserID)
	assert.Equal(t, "Thandi", profile.FirstName)
	assert.Equal(t, []domain.RoleCode{domain.RoleClient}, repo.roles[user.ID])
	assert.Contains(t, repo.clients, user.ID)
}

func TestAuthService_Register_PasswordMismatch(t *testing.T) {
	svc, repo, _ := newAuthFixture()
	in := validRegistration()
	in.PasswordConfirm = "something-else"

	_, _, err := svc.Register(context.Background(), in)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Passwords do not match.", verr.Fields["password"])
	assert.Empty(t, repo.users)
}

func TestAuthService_Register_ShortPassword(t *testing.T) {
	svc, _, _ := newAuthFixture()
	in := validRegistration()
	in.Password, in.PasswordConfirm = "short", "short"

	_, _, err := svc.Register(context.Background(), in)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "password")
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()

	_, _, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)
	_, _, err = svc.Register(ctx, validRegistration())

	assert.ErrorIs(t, err, domain.ErrUserExists)
}

func TestAuthService_Register_IsAtomic(t *testing.T) {
	svc, repo, _ := newAuthFixture()
	repo.failProfileErr = errors.New("profile insert failed")

	_, _, err := svc.Register(context.Background(), validRegistration())

	require.Error(t, err)
	assert.Empty(t, repo.users, "user must not survive a failed registration")
	assert.Empty(t, repo.clients)
	assert.Empty(t, repo.roles)
}

func TestAuthService_Login_IssuesTokensAndStampsLastLogin(t *testing.T) {
	svc, repo, _ := newAuthFixture()
	ctx := context.Background()
	_, user, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	pair, logged, err := svc.Login(ctx, "Thandi@example.com", "s3cure-pass")

	require.NoError(t, err)
	assert.NotEmpty(t, pair.Access)
	assert.NotEmpty(t, pair.Refresh)
	require.NotNil(t, logged.LastLogin)
	require.NotNil(t, repo.users[user.ID].LastLogin)
}

func TestAuthService_Login_Rejections(t *testing.T) {
	svc, repo, _ := newAuthFixture()
	ctx := context.Background()
	_, user, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "Thandi@example.com", "wrong-password")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody@example.com", "s3cure-pass")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	repo.users[user.ID].IsActive = false
	_, _, err = svc.Login(ctx, "Thandi@example.com", "s3cure-pass")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_RefreshAndLogout(t *testing.T) {
	svc, _, deny := newAuthFixture()
	ctx := context.Background()
	_, _, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)
	pair, _, err := svc.Login(ctx, "Thandi@example.com", "s3cure-pass")
	require.NoError(t, err)

	access, err := svc.Refresh(ctx, pair.Refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, access)

	_, err = svc.Refresh(ctx, pair.Access)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials, "access tokens cannot be refreshed")

	require.NoError(t, svc.Logout(ctx, pair.Refresh))
	assert.Len(t, deny.revoked, 1)

	_, err = svc.Refresh(ctx, pair.Refresh)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials, "revoked refresh token")
}

func TestAuthService_ChangePassword(t *testing.T) {
	svc, repo, _ := newAuthFixture()
	ctx := context.Background()
	_, user, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)
	p := domain.Principal{User: user, Roles: []domain.RoleCode{domain.RoleClient}}

	err = svc.ChangePassword(ctx, p, ports.ChangePasswordInput{
		OldPassword: "not-it", NewPassword: "another-pass", NewPasswordConfirm: "another-pass",
	})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "old_password")

	err = svc.ChangePassword(ctx, p, ports.ChangePasswordInput{
		OldPassword: "s3cure-pass", NewPassword: "another-pass", NewPasswordConfirm: "another-pass",
	})
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.users[user.ID].PasswordHash), []byte("another-pass")))
}

func TestAuthService_UpdateMe_PartialClientProfile(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()
	_, user, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)
	p := domain.Principal{User: user, Roles: []domain.RoleCode{domain.RoleClient}}

	nationality := "ZW"
	me, err := svc.UpdateMe(ctx, p, ports.UpdateProfileInput{
		Nationality:  &nationality,
		ConsentFlags: map[string]bool{"marketing": true},
	})

	require.NoError(t, err)
	require.NotNil(t, me.ClientProfile)
	assert.Nil(t, me.StaffProfile)
	assert.Equal(t, "ZW", me.ClientProfile.Nationality)
	assert.Equal(t, "Thandi", me.ClientProfile.FirstName, "unset fields are kept")
	assert.True(t, me.ClientProfile.ConsentFlags["marketing"])
}
