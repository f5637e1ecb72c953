// Copyright (c) 2026 Cinelist. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package s3_test

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/cinelist/internal/core/poster"
	"github.com/taibuivan/cinelist/internal/platform/storage/s3"
)

/*
TestStore_PresignGet signs offline with static credentials and checks the URL shape.
*/
func TestStore_PresignGet(t *testing.T) {
	t.Setenv("AWS_EC2_METADATA_DISABLED", "true")

	tests := []struct {
		name     string
		endpoint string
		wantHost string
		wantPath string
	}{
		{
			name:     "virtual_hosted",
			wantHost: "cinelist-posters.s3.us-east-1.amazonaws.com",
			wantPath: "/posters/a b.jpg",
		},
		{
			name:     "custom_endpoint_path_style",
			endpoint: "http://localhost:9000",
			wantHost: "localhost:9000",
			wantPath: "/cinelist-posters/posters/a b.jpg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := s3.New(context.Background(), s3.Config{
				Bucket:          "cinelist-posters",
				Region:          "us-east-1",
				Endpoint:        tt.endpoint,
				AccessKeyID:     "AKIDEXAMPLE",
				SecretAccessKey: "wJalrXUtnFEMI/K7MDENG+bPxRfiCYEXAMPLEKEY",
			})
			require.NoError(t, err)
			assert.Equal(t, "cinelist-posters", store.Bucket())

			signed, err := store.PresignGet(context.Background(), "posters/a b.jpg", 15*time.Minute)
			require.NoError(t, err)

			parsed, err := url.Parse(signed)
			require.NoError(t, err)

			assert.Equal(t, tt.wantHost, parsed.Host)
			assert.Equal(t, tt.wantPath, parsed.Path)
			assert.Contains(t, parsed.EscapedPath(), "a%20b.jpg")
			assert.Equal(t, "900", parsed.Query().Get("X-Amz-Expires"))
			assert.NotEmpty(t, parsed.Query().Get("X-Amz-Signature"))
		})
	}
}

/*
TestStore_PresignGetRoundTrip feeds signed URLs back into reference parsing.
The key must come back decoded exactly once.
*/
func TestStore_PresignGetRoundTrip(t *testing.T) {
	t.Setenv("AWS_EC2_METADATA_DISABLED", "true")

	tests := []struct {
		name     string
		endpoint string
		key      string
	}{
		{name: "virtual_hosted_space", key: "posters/a b.jpg"},
		{name: "virtual_hosted_unicode", key: "posters/1700000000000-Am\u00e9lie poster.jpg"},
		{name: "custom_endpoint_space", endpoint: "http://localhost:9000", key: "posters/a b.jpg"},
		{name: "custom_endpoint_escaped_literal", endpoint: "http://localhost:9000", key: "posters/a%20b.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := s3.New(context.Background(), s3.Config{
				Bucket:          "cinelist-posters",
				Region:          "us-east-1",
				Endpoint:        tt.endpoint,
				AccessKeyID:     "AKIDEXAMPLE",
				SecretAccessKey: "wJalrXUtnFEMI/K7MDENG+bPxRfiCYEXAMPLEKEY",
			})
			require.NoError(t, err)

			signed, err := store.PresignGet(context.Background(), tt.key, 15*time.Minute)
			require.NoError(t, err)

			key, ok := poster.ExtractKey(signed, poster.Bucket{
				Name:     "cinelist-posters",
				Region:   "us-east-1",
				Endpoint: tt.endpoint,
			})
			require.True(t, ok, "signed URL %q was not recognized", signed)
			assert.Equal(t, tt.key, key)
		})
	}
}
