package models

// CreateUserRequest is the admin payload for provisioning an account with its
// role profile.
type CreateUserRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Login     string `json:"login" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	Role      Role   `json:"role" validate:"required"`
}

// UpdateUserRequest is the admin payload for editing an account. Password is
// optional and rotates the credential when present.
type UpdateUserRequest struct {
	FirstName string  `json:"firstName" validate:"required"`
	LastName  string  `json:"lastName" validate:"required"`
	Email     string  `json:"email" validate:"required,email"`
	Active    bool    `json:"isActive"`
	Password  *string `json:"password,omitempty" validate:"omitempty,min=8"`
}
