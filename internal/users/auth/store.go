// Copyright (c) 2026 Cinelist. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	// FindByID returns the account with the given ID, or NOT_FOUND.
	FindByID(context context.Context, id string) (*User, error)

	// FindByEmail returns the account with the given email (case-insensitive), or NOT_FOUND.
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		Create persists a new account.

		Parameters:
		  - context: context.Context
		  - user: *User (ID and timestamps are filled in)

		Returns:
		  - error: CONFLICT when the email is taken, otherwise storage errors
	*/
	Create(context context.Context, user *User) error

	// TouchLastLogin records a successful login.
	TouchLastLogin(context context.Context, id string, at time.Time) error
}

// # Session Data Access

// SessionRepository stores refresh sessions by token hash.
type SessionRepository interface {

	// Create stores a session that expires after ttl.
	Create(context context.Context, tokenHash string, session *Session, ttl time.Duration) error

	/*
		Consume atomically fetches and removes a session.

		Description: Rotation relies on this being atomic. Two concurrent refreshes
		with the same token must not both succeed.

		Returns:
		  - *Session: The removed session
		  - error: UNAUTHORIZED when absent or expired
	*/
	Consume(context context.Context, tokenHash string) (*Session, error)

	// Delete removes a session. Deleting an unknown session is not an error.
	Delete(context context.Context, tokenHash string) error
}
