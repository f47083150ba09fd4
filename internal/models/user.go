package models

import "time"

type contextKey string

const UserContextKey contextKey = "user"

type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
	PassHash []byte `json:"-"`
}

type RegisterRequest struct {
	Email    string
	Password string
	Name     string
	Role     string
}

// Session is an issued identity token.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user"`
}
