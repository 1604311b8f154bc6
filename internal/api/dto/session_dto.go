package dto

import "time"

// SessionUser is the user object handed over by the login screen.
type SessionUser struct {
	ID string `json:"id"`
}

// CreateSessionRequest is the login hand-off payload.
type CreateSessionRequest struct {
	Token string      `json:"token"`
	User  SessionUser `json:"user"`
}

// SessionResponse describes the active session.
type SessionResponse struct {
	SessionID string     `json:"session_id"`
	UserID    string     `json:"user_id"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}
