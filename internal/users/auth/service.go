// Copyright (c) 2026 Cinelist. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/cinelist/internal/platform/apperr"
	"github.com/taibuivan/cinelist/internal/platform/metrics"
	"github.com/taibuivan/cinelist/internal/platform/sec"
	"github.com/taibuivan/cinelist/internal/platform/validate"
)

// # Contracts & Types

// TokenProvider issues signed access tokens.
type TokenProvider interface {
	GenerateAccessToken(userID, email string, timeToLive time.Duration) (string, error)
}

// Attempt kinds reported to metrics.
const (
	attemptRegister = "register"
	attemptLogin    = "login"
	attemptRefresh  = "refresh"
)

// dummyHash is compared against when the email is unknown, so a failed login
// takes about as long whether or not the account exists.
var dummyHash = sync.OnceValue(func() string {
	hash, _ := sec.HashPassword("cinelist-timing-equalizer")
	return hash
})

// Service implements the account and session use cases.
type Service struct {
	users     UserRepository
	sessions  SessionRepository
	tokens    TokenProvider
	accessTTL time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

// NewService constructs a new auth [Service].
func NewService(users UserRepository, sessions SessionRepository, tokens TokenProvider, accessTTL time.Duration, logger *slog.Logger) *Service {
	return &Service{
		users:     users,
		sessions:  sessions,
		tokens:    tokens,
		accessTTL: accessTTL,
		logger:    logger,
		now:       time.Now,
	}
}

// # Registration Flow

// RegisterInput holds the data required to create an account.
type RegisterInput struct {
	Email     string
	Password  string
	Name      string
	UserAgent string
	IPAddress string
}

/*
Register validates, hashes, and persists a new account, then signs it in.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *AuthResult: Tokens for the new account
  - error: VALIDATION_ERROR, CONFLICT (email taken) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	name := strings.TrimSpace(input.Name)

	validator := &validate.Validator{}
	validator.Required(FieldEmail, email).Email(FieldEmail, email).
		Required(FieldName, name).MaxLen(FieldName, name, MaxNameLength).
		MinLen(FieldPassword, input.Password, MinPasswordLength)
	if err := validator.Err(); err != nil {
		metrics.RecordAuthAttempt(attemptRegister, false)
		return nil, err
	}

	// Prevent storing plain-text passwords
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	user := &User{Email: email, Name: name, PasswordHash: hashedPassword}
	if err := service.users.Create(context, user); err != nil {
		metrics.RecordAuthAttempt(attemptRegister, false)
		return nil, err
	}

	result, err := service.issue(context, user, input.UserAgent, input.IPAddress)
	if err != nil {
		return nil, err
	}

	metrics.RecordAuthAttempt(attemptRegister, true)
	service.logger.InfoContext(context, "user_registered", slog.String("user_id", user.ID))
	return result, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email     string
	Password  string
	UserAgent string
	IPAddress string
}

/*
Login verifies credentials and opens a new session.

Description: Unknown emails and wrong passwords produce the same 401 so the
endpoint cannot be used to enumerate accounts.
*/
func (service *Service) Login(context context.Context, input LoginInput) (*AuthResult, error) {
	invalid := apperr.Unauthorized("Invalid credentials")

	user, err := service.users.FindByEmail(context, strings.TrimSpace(input.Email))
	if err != nil {
		if !isNotFound(err) {
			return nil, err
		}
		sec.CheckPasswordHash(input.Password, dummyHash())
		metrics.RecordAuthAttempt(attemptLogin, false)
		return nil, invalid
	}

	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		metrics.RecordAuthAttempt(attemptLogin, false)
		service.logger.WarnContext(context, "login_failed", slog.String("user_id", user.ID))
		return nil, invalid
	}

	result, err := service.issue(context, user, input.UserAgent, input.IPAddress)
	if err != nil {
		return nil, err
	}

	if err := service.users.TouchLastLogin(context, user.ID, service.now()); err != nil {
		service.logger.WarnContext(context, "last_login_update_failed", slog.Any("error", err))
	}

	metrics.RecordAuthAttempt(attemptLogin, true)
	return result, nil
}

/*
Refresh rotates a refresh token.

Description: The presented session is consumed before anything is issued,
so a token can be exchanged exactly once.
*/
func (service *Service) Refresh(context context.Context, refreshToken, userAgent, ipAddress string) (*AuthResult, error) {
	if refreshToken == "" {
		metrics.RecordAuthAttempt(attemptRefresh, false)
		return nil, apperr.Unauthorized("Missing refresh token")
	}

	session, err := service.sessions.Consume(context, sec.HashToken(refreshToken))
	if err != nil {
		metrics.RecordAuthAttempt(attemptRefresh, false)
		return nil, err
	}

	if !session.ExpiresAt.After(service.now()) {
		metrics.RecordAuthAttempt(attemptRefresh, false)
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	user, err := service.users.FindByID(context, session.UserID)
	if err != nil {
		metrics.RecordAuthAttempt(attemptRefresh, false)
		if isNotFound(err) {
			return nil, apperr.Unauthorized("Account no longer exists")
		}
		return nil, err
	}

	result, err := service.issue(context, user, userAgent, ipAddress)
	if err != nil {
		return nil, err
	}

	metrics.RecordAuthAttempt(attemptRefresh, true)
	return result, nil
}

// Logout revokes the session behind refreshToken. Unknown tokens are ignored.
func (service *Service) Logout(context context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	if err := service.sessions.Delete(context, sec.HashToken(refreshToken)); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}
	return nil
}

// Me returns the account of the authenticated caller.
func (service *Service) Me(context context.Context, userID string) (*User, error) {
	return service.users.FindByID(context, userID)
}

// # Helpers

// issue signs an access token and opens a refresh session for user.
func (service *Service) issue(context context.Context, user *User, userAgent, ipAddress string) (*AuthResult, error) {
	accessToken, err := service.tokens.GenerateAccessToken(user.ID, user.Email, service.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	refreshToken, err := sec.GenerateSecureToken(RefreshTokenLength)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	now := service.now()
	session := &Session{
		UserID:    user.ID,
		UserAgent: userAgent,
		IPAddress: ipAddress,
		CreatedAt: now,
		ExpiresAt: now.Add(RefreshTokenTTL),
	}

	if err := service.sessions.Create(context, sec.HashToken(refreshToken), session, RefreshTokenTTL); err != nil {
		return nil, fmt.Errorf("auth_service_session_creation_failed: %w", err)
	}

	return &AuthResult{
		AccessToken:      accessToken,
		AccessExpiresIn:  service.accessTTL,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: session.ExpiresAt,
		User:             user,
	}, nil
}

func isNotFound(err error) bool {
	appErr := apperr.As(err)
	return appErr != nil && appErr.HTTPStatus == http.StatusNotFound
}
