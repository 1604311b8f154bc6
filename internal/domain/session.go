package domain

import "time"

// Session is the signed-in browser context handed to every screen.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Token     string    `json:"token"`
	OTPEmail  string    `json:"otp_email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Authenticated reports whether the session carries a user and a bearer token.
func (s Session) Authenticated() bool {
	return s.UserID != "" && s.Token != ""
}
