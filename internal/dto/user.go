package dto

// RegisterUserRequest defines the data needed to register (or refresh) a user
// directory entry. The user id is derived from the sanitized email.
type RegisterUserRequest struct {
	Name  string `json:"name" validate:"required,max=60"`
	Email string `json:"email" validate:"required,email"`
}
