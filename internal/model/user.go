package model

// User is received as three independent top-level body fields.
// Only presence is checked.
type User struct {
	Username *string `json:"username" validate:"required"`
	Email    *string `json:"email" validate:"required"`
	FullName *string `json:"full_name" validate:"required"`
}

// SessionResult is returned by the session cookie read.
type SessionResult struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}
