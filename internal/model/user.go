package model

import "time"

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// IdentityClaim is what a verified token asserts about its bearer.
type IdentityClaim struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
}

type AuthUser struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type AuthResponse struct {
	Token string   `json:"token"`
	User  AuthUser `json:"user"`
}

func (u User) Public() AuthUser {
	return AuthUser{ID: u.ID, Name: u.Name, Email: u.Email}
}
