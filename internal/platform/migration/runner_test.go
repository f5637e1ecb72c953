// Copyright (c) 2026 Cinelist. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration

import (
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatabaseURL(t *testing.T) {
	tests := map[string]string{
		"postgres://u:p@localhost:5432/cinelist":   "pgx5://u:p@localhost:5432/cinelist",
		"postgresql://u:p@localhost:5432/cinelist": "pgx5://u:p@localhost:5432/cinelist",
		"pgx5://u:p@localhost:5432/cinelist":       "pgx5://u:p@localhost:5432/cinelist",
		"host=localhost dbname=cinelist":           "host=localhost dbname=cinelist",
	}

	for input, want := range tests {
		t.Run(input, func(t *testing.T) {
			assert.Equal(t, want, databaseURL(input))
		})
	}
}

func TestSourceURL(t *testing.T) {
	source, err := sourceURL("./data/migrations")
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(source, "file://"))
	assert.True(t, strings.HasSuffix(source, "/data/migrations"))

	path := strings.TrimPrefix(source, "file://")
	assert.True(t, filepath.IsAbs(filepath.FromSlash(path)))
}

func TestSlogBridge_VerboseFollowsLevel(t *testing.T) {
	quiet := slogBridge{logger: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelInfo}))}
	loud := slogBridge{logger: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))}

	assert.False(t, quiet.Verbose())
	assert.True(t, loud.Verbose())
}
