package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role names the fixed set of roles an account can hold. Every account has
// exactly one role.
type Role string

const (
	RoleAdministrator Role = "Administrator"
	RoleTeacher       Role = "Teacher"
	RoleStudent       Role = "Student"
)

// Roles is the fixed role set seeded at bootstrap.
var Roles = []Role{RoleAdministrator, RoleTeacher, RoleStudent}

// Valid reports whether the role is one of the known tags.
func (r Role) Valid() bool {
	switch r {
	case RoleAdministrator, RoleTeacher, RoleStudent:
		return true
	}
	return false
}

// Account is a login-capable identity stored in the accounts table.
type Account struct {
	ID           string     `db:"id" json:"id"`
	Login        string     `db:"login" json:"login"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Role         Role       `db:"role" json:"role"`
	Active       bool       `db:"active" json:"active"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// UserRow is the paged user directory projection joined across the profile
// tables by account id.
type UserRow struct {
	ID        string     `db:"id" json:"id"`
	FirstName string     `db:"first_name" json:"firstName"`
	LastName  string     `db:"last_name" json:"lastName"`
	Email     string     `db:"email" json:"email"`
	Role      Role       `db:"role" json:"role"`
	Active    bool       `db:"active" json:"isActive"`
	DateAdded time.Time  `db:"created_at" json:"dateAdded"`
	LastLogin *time.Time `db:"last_login" json:"lastSuccessfulLogin,omitempty"`
}

// UserDetail is the single-user projection with role-resolved profile names.
type UserDetail struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	Active    bool   `json:"isActive"`
}

// RefreshToken is a persisted refresh token entry.
type RefreshToken struct {
	ID        string     `db:"id" json:"id"`
	AccountID string     `db:"account_id" json:"account_id"`
	Token     string     `db:"token" json:"token"`
	ExpiresAt time.Time  `db:"expires_at" json:"expires_at"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	Revoked   bool       `db:"revoked" json:"revoked"`
	RevokedAt *time.Time `db:"revoked_at" json:"revoked_at,omitempty"`
}

// PasswordResetToken backs the reset round trip used by admin-driven password
// changes.
type PasswordResetToken struct {
	ID        string    `db:"id"`
	AccountID string    `db:"account_id"`
	Token     string    `db:"token"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
	Consumed  bool      `db:"consumed"`
}

// JWTClaims is the access token payload.
type JWTClaims struct {
	AccountID string `json:"uid"`
	Role      Role   `json:"role"`
	jwt.RegisteredClaims
}

// LoginRequest is the credential payload for token issuance.
type LoginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
	IP       string `json:"-"`
}

// LoginResponse carries the issued token pair.
type LoginResponse struct {
	AccessToken  string    `json:"token"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresIn    int64     `json:"expiresIn"`
	IssuedAt     time.Time `json:"issuedAt"`
	User         UserInfo  `json:"user"`
}

// RefreshRequest exchanges a refresh token for a new pair.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
	IP           string `json:"-"`
}

// UserInfo is the identity summary embedded in login responses.
type UserInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}
