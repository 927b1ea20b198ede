package model

import "time"

// Session is one issued login. The token is a random server-side value; it
// carries no information about the shared secret.
type Session struct {
	ID        int64     `json:"id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
