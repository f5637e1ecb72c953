// Copyright (c) 2026 Cinelist. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements user accounts and session management.

Accounts live in PostgreSQL (users.account). Refresh sessions live in Redis,
keyed by the SHA-256 hash of the refresh token, so a leaked Redis snapshot does
not leak usable tokens.

# Token Model

  - Access token: short-lived RS256 JWT sent as "Authorization: Bearer".
  - Refresh token: opaque random string in an HttpOnly cookie, rotated on every use.
*/
package auth

import "time"

// # Authentication Constraints

const (
	// RefreshTokenTTL is how long a refresh session stays valid.
	RefreshTokenTTL = 30 * 24 * time.Hour

	// RefreshTokenLength is the byte length of the random refresh token.
	RefreshTokenLength = 32

	// MinPasswordLength is the shortest accepted password.
	MinPasswordLength = 6

	// MaxNameLength bounds the display name.
	MaxNameLength = 100
)

// # Domain Entities

// User is a registered Cinelist account.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile is the public view of a [User].
type Profile struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Profile strips credentials from the account.
func (user *User) Profile() Profile {
	return Profile{ID: user.ID, Email: user.Email, Name: user.Name}
}

// Session is an active refresh-token session.
type Session struct {
	UserID    string    `json:"userId"`
	UserAgent string    `json:"userAgent"`
	IPAddress string    `json:"ipAddress"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AuthResult is returned by every flow that issues tokens.
type AuthResult struct {
	AccessToken      string
	AccessExpiresIn  time.Duration
	RefreshToken     string
	RefreshExpiresAt time.Time
	User             *User
}

// # Field Identifiers

const (
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldName        = "name"
	FieldAccessToken = "accessToken"
	FieldTokenType   = "tokenType"
	FieldExpiresIn   = "expiresIn"
	FieldUser        = "user"
)
