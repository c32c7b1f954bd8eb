package types

import "time"

// AuthState records an upstream-validated session for a user. The token is
// opaque to this service; the upstream API owns its lifetime.
type AuthState struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Token      string    `json:"token"`
	Email      string    `json:"email,omitempty"`
	LoggedInAt time.Time `json:"loggedInAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	ExpiresAt  time.Time `json:"expiresAt,omitempty"`
}

type UserProfile struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}
