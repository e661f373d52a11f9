package handler

import (
	"time"

	"github.com/raylene/casework/internal/core/domain"
	"github.com/raylene/casework/internal/core/ports"
)

type registerRequest struct {
	Email           string `json:"email"            validate:"required,email"`
	Password        string `json:"password"         validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
	FirstName       string `json:"first_name"       validate:"required,max=150"`
	LastName        string `json:"last_name"        validate:"required,max=150"`
	Phone           string `json:"phone"            validate:"max=32"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

type verify2FARequest struct {
	Code string `json:"code"`
}

type updateMeRequest struct {
	FirstName    *string         `json:"first_name"    validate:"omitempty,max=150"`
	LastName     *string         `json:"last_name"     validate:"omitempty,max=150"`
	Nationality  *string         `json:"nationality"   validate:"omitempty,max=64"`
	PassportNo   *string         `json:"passport_no"   validate:"omitempty,max=32"`
	Phone        *string         `json:"phone"         validate:"omitempty,max=32"`
	Address      *string         `json:"address"`
	DateOfBirth  *string         `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	ConsentFlags map[string]bool `json:"consent_flags"`

	Title        *string `json:"title"         validate:"omitempty,max=120"`
	Bio          *string `json:"bio"`
	CalendarLink *string `json:"calendar_link" validate:"omitempty,url"`
	WhatsAppNo   *string `json:"whatsapp_no"   validate:"omitempty,max=32"`
}

type changePasswordRequest struct {
	OldPassword        string `json:"old_password"         validate:"required"`
	NewPassword        string `json:"new_password"         validate:"required"`
	NewPasswordConfirm string `json:"new_password_confirm" validate:"required"`
}

type userResponse struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	IsActive         bool       `json:"is_active"`
	IsStaff          bool       `json:"is_staff"`
	TwoFactorEnabled bool       `json:"two_factor_enabled"`
	DateJoined       time.Time  `json:"date_joined"`
	LastLogin        *time.Time `json:"last_login"`
	Roles            []string   `json:"roles,omitempty"`
}

type registerResponse struct {
	*domain.ClientProfile
	User userResponse `json:"user"`
}

type loginResponse struct {
	Access  string       `json:"access"`
	Refresh string       `json:"refresh"`
	User    userResponse `json:"user"`
}

type accessResponse struct {
	Access string `json:"access"`
}

type meResponse struct {
	userResponse
	ClientProfile *domain.ClientProfile `json:"client_profile"`
	StaffProfile  *domain.StaffProfile  `json:"staff_profile"`
}

func toUserResponse(u *domain.User, roles []domain.RoleCode) userResponse {
	out := userResponse{
		ID:               u.ID,
		Email:            u.Email,
		IsActive:         u.IsActive,
		IsStaff:          u.IsStaff,
		TwoFactorEnabled: u.TwoFactorEnabled,
		DateJoined:       u.DateJoined,
		LastLogin:        u.LastLogin,
	}
	for _, r := range roles {
		out.Roles = append(out.Roles, string(r))
	}
	return out
}

func toMeResponse(me *ports.Me) meResponse {
	return meResponse{
		userResponse:  toUserResponse(me.User, me.Roles),
		ClientProfile: me.ClientProfile,
		StaffProfile:  me.StaffProfile,
	}
}

func toUpdateProfileInput(req updateMeRequest) (ports.UpdateProfileInput, error) {
	in := ports.UpdateProfileInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Nationality:  req.Nationality,
		PassportNo:   req.PassportNo,
		Phone:        req.Phone,
		Address:      req.Address,
		ConsentFlags: req.ConsentFlags,
		Title:        req.Title,
		Bio:          req.Bio,
		CalendarLink: req.CalendarLink,
		WhatsAppNo:   req.WhatsAppNo,
	}
	if req.DateOfBirth != nil {
		dob, err := time.Parse(time.DateOnly, *req.DateOfBirth)
		if err != nil {
			return in, domain.NewValidationError("date_of_birth", "Date has wrong format. Use YYYY-MM-DD.")
		}
		in.DateOfBirth = &dob
	}
	return in, nil
}
