package domain

import "time"

// RoleCode is one of the fixed role tags a user may hold.
type RoleCode string

const (
	RoleAdmin      RoleCode = "ADMIN"
	RoleConsultant RoleCode = "CONSULTANT"
	RoleFinance    RoleCode = "FINANCE"
	RoleSupport    RoleCode = "SUPPORT"
	RoleClient     RoleCode = "CLIENT"
)

// AllRoles lists every role in display order.
var AllRoles = []RoleCode{RoleAdmin, RoleConsultant, RoleFinance, RoleSupport, RoleClient}

var roleNames = map[RoleCode]string{
	RoleAdmin:      "Admin",
	RoleConsultant: "Consultant",
	RoleFinance:    "Finance",
	RoleSupport:    "Support",
	RoleClient:     "Client",
}

// Valid reports whether r is one of the enumerated roles.
func (r RoleCode) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

// DisplayName returns the human label for the role.
func (r RoleCode) DisplayName() string {
	return roleNames[r]
}

type Role struct {
	Code        RoleCode `json:"code" bson:"_id"`
	Name        string   `json:"name" bson:"name"`
	Description string   `json:"description,omitempty" bson:"description,omitempty"`
}

// UserRole joins a user to a role. (user_id, role) is unique.
type UserRole struct {
	ID         string    `json:"id" bson:"_id"`
	UserID     string    `json:"user_id" bson:"user_id"`
	Role       RoleCode  `json:"role" bson:"role"`
	AssignedAt time.Time `json:"assigned_at" bson:"assigned_at"`
}

// User models an authenticated account. Email is the login key.
type User struct {
	ID               string     `json:"id" bson:"_id"`
	Email            string     `json:"email" bson:"email"`
	PasswordHash     string     `json:"-" bson:"password_hash"`
	IsActive         bool       `json:"is_active" bson:"is_active"`
	IsStaff          bool       `json:"is_staff" bson:"is_staff"`
	TwoFactorEnabled bool       `json:"two_factor_enabled" bson:"two_factor_enabled"`
	TwoFactorSecret  string     `json:"-" bson:"two_factor_secret,omitempty"`
	DateJoined       time.Time  `json:"date_joined" bson:"date_joined"`
	LastLogin        *time.Time `json:"last_login" bson:"last_login,omitempty"`
}

type ClientProfile struct {
	ID           string          `json:"id" bson:"_id"`
	UserID       string          `json:"user_id" bson:"user_id"`
	FirstName    string          `json:"first_name" bson:"first_name"`
	LastName     string          `json:"last_name" bson:"last_name"`
	DateOfBirth  *time.Time      `json:"date_of_birth,omitempty" bson:"date_of_birth,omitempty"`
	Nationality  string          `json:"nationality" bson:"nationality"`
	PassportNo   string          `json:"-" bson:"passport_no"`
	Phone        string          `json:"phone" bson:"phone"`
	Address      string          `json:"address" bson:"address"`
	ConsentFlags map[string]bool `json:"consent_flags" bson:"consent_flags"`
	CreatedAt    time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" bson:"updated_at"`
}

type StaffProfile struct {
	ID           string    `json:"id" bson:"_id"`
	UserID       string    `json:"user_id" bson:"user_id"`
	Title        string    `json:"title" bson:"title"`
	Bio          string    `json:"bio" bson:"bio"`
	CalendarLink string    `json:"calendar_link" bson:"calendar_link"`
	WhatsAppNo   string    `json:"whatsapp_no" bson:"whatsapp_no"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}
