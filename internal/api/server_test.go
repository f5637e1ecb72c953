// Copyright (c) 2026 Cinelist. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/cinelist/internal/core/movie"
	"github.com/taibuivan/cinelist/internal/platform/config"
	"github.com/taibuivan/cinelist/internal/platform/constants"
	"github.com/taibuivan/cinelist/internal/platform/sec"
	"github.com/taibuivan/cinelist/internal/users/auth"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestServer wires the real router. Domain services have no storage, so
// only paths that are answered before storage is touched are exercised.
func newTestServer(t *testing.T, environment string, deps HealthDependencies) (http.Handler, *sec.TokenService) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	tokens := sec.NewTokenServiceFromKeys(key, &key.PublicKey, constants.AuthIssuer)

	cfg := &config.Config{
		ServerPort:  "0",
		Environment: environment,
		CORSOrigins: []string{"https://cinelist.app"},
	}

	logger := discardLogger()
	liveness, readiness := NewHealthHandlers(deps, logger)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	server := NewServer(ctx, cfg, logger, tokens, Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(auth.NewService(nil, nil, tokens, time.Minute, logger), false),
		Movie:     movie.NewHandler(movie.NewService(nil, nil, nil, 1024, logger)),
	})
	return server.Handler(), tokens
}

func TestServer_Routing(t *testing.T) {
	handler, tokens := newTestServer(t, "development", HealthDependencies{})

	accessToken, err := tokens.GenerateAccessToken("0190a3c4-0000-7000-8000-0000000000aa", "jane@example.com", time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name          string
		method        string
		path          string
		authorization string
		wantStatus    int
		wantCode      string
	}{
		{name: "health", method: http.MethodGet, path: "/health", wantStatus: http.StatusOK},
		{name: "movies_anonymous", method: http.MethodGet, path: "/api/v1/movies", wantStatus: http.StatusUnauthorized, wantCode: "UNAUTHORIZED"},
		{name: "movies_bad_token", method: http.MethodGet, path: "/api/v1/movies", authorization: "Bearer nope", wantStatus: http.StatusUnauthorized, wantCode: "UNAUTHORIZED"},
		{name: "movies_bad_scheme", method: http.MethodGet, path: "/api/v1/movies", authorization: "Basic abc", wantStatus: http.StatusUnauthorized, wantCode: "UNAUTHORIZED"},
		{name: "movies_authenticated_bad_id", method: http.MethodGet, path: "/api/v1/movies/not-a-uuid", authorization: "Bearer " + accessToken, wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_ERROR"},
		{name: "refresh_without_cookie", method: http.MethodPost, path: "/api/v1/auth/refresh", wantStatus: http.StatusUnauthorized, wantCode: "UNAUTHORIZED"},
		{name: "unknown_route", method: http.MethodGet, path: "/api/v1/unknown", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.authorization != "" {
				request.Header.Set("Authorization", tt.authorization)
			}

			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.NotEmpty(t, recorder.Header().Get(constants.HeaderXRequestID))

			if tt.wantCode != "" {
				var body struct {
					Code string `json:"code"`
				}
				require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
				assert.Equal(t, tt.wantCode, body.Code)
			}
		})
	}
}

func TestServer_CORSOnUnauthorized(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		origin      string
		wantAllowed bool
	}{
		{name: "development_any_origin", environment: "development", origin: "http://localhost:5173", wantAllowed: true},
		{name: "production_listed_origin", environment: "production", origin: "https://cinelist.app", wantAllowed: true},
		{name: "production_unlisted_origin", environment: "production", origin: "https://evil.example.com", wantAllowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, _ := newTestServer(t, tt.environment, HealthDependencies{})

			request := httptest.NewRequest(http.MethodGet, "/api/v1/movies", nil)
			request.Header.Set(constants.HeaderOrigin, tt.origin)
			request.Header.Set("Authorization", "Bearer expired")

			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, http.StatusUnauthorized, recorder.Code)
			if tt.wantAllowed {
				assert.Equal(t, tt.origin, recorder.Header().Get("Access-Control-Allow-Origin"))
				assert.Equal(t, "true", recorder.Header().Get("Access-Control-Allow-Credentials"))
			} else {
				assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

func TestServer_Preflight(t *testing.T) {
	handler, _ := newTestServer(t, "development", HealthDependencies{})

	request := httptest.NewRequest(http.MethodOptions, "/api/v1/movies", nil)
	request.Header.Set(constants.HeaderOrigin, "http://localhost:5173")
	request.Header.Set("Access-Control-Request-Method", http.MethodPost)

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Contains(t, recorder.Header().Get("Access-Control-Allow-Methods"), http.MethodPatch)
}

func TestServer_Metrics(t *testing.T) {
	handler, _ := newTestServer(t, "development", HealthDependencies{})

	// Generate at least one observation
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "cinelist_http_requests_total")
}

func TestServer_ReadinessDegraded(t *testing.T) {
	handler, _ := newTestServer(t, "development", HealthDependencies{
		CheckDatabase: func(context.Context) error { return nil },
		CheckCache:    func(context.Context) error { return errors.New("connection refused") },
	})

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"degraded"`)
}
