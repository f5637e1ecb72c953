// Copyright (c) 2026 Cinelist. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/cinelist/internal/platform/constants"
)

func TestClientOptions(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		wantAddr string
		wantDB   int
		wantErr  bool
	}{
		{name: "default_db", url: "redis://localhost:6379", wantAddr: "localhost:6379", wantDB: 0},
		{name: "explicit_db", url: "redis://:secret@cache.internal:6380/2", wantAddr: "cache.internal:6380", wantDB: 2},
		{name: "wrong_scheme", url: "http://localhost:6379", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			options, err := clientOptions(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			assert.Equal(t, tt.wantAddr, options.Addr)
			assert.Equal(t, tt.wantDB, options.DB)
			assert.Equal(t, constants.AppName, options.ClientName)
			assert.Equal(t, poolSize, options.PoolSize)
			assert.Equal(t, ioTimeout, options.ReadTimeout)
		})
	}
}
