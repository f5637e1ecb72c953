// Copyright (c) 2026 Cinelist. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"encoding/json"
	"math"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/cinelist/pkg/pagination"
	"github.com/taibuivan/cinelist/pkg/pointer"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		page     *int
		limit    *int
		pageSize *int
		want     pagination.Request
		wantSkip int
	}{
		{name: "defaults", want: pagination.Request{Page: 1, Size: 10}, wantSkip: 0},
		{name: "limit_only", page: pointer.To(3), limit: pointer.To(20), want: pagination.Request{Page: 3, Size: 20}, wantSkip: 40},
		{name: "page_size_wins", limit: pointer.To(20), pageSize: pointer.To(5), want: pagination.Request{Page: 1, Size: 5}, wantSkip: 0},
		{name: "second_page_of_five", page: pointer.To(2), pageSize: pointer.To(5), want: pagination.Request{Page: 2, Size: 5}, wantSkip: 5},
		{name: "page_below_one", page: pointer.To(0), want: pagination.Request{Page: 1, Size: 10}, wantSkip: 0},
		{name: "negative_page", page: pointer.To(-4), want: pagination.Request{Page: 1, Size: 10}, wantSkip: 0},
		{name: "size_above_max", limit: pointer.To(500), want: pagination.Request{Page: 1, Size: 100}, wantSkip: 0},
		{name: "size_below_min", pageSize: pointer.To(0), want: pagination.Request{Page: 1, Size: 1}, wantSkip: 0},
		{
			name:     "huge_page_capped",
			page:     pointer.To(math.MaxInt),
			pageSize: pointer.To(10),
			want:     pagination.Request{Page: pagination.MaxPage, Size: 10},
			wantSkip: (pagination.MaxPage - 1) * 10,
		},
		{
			name:     "huge_page_max_size",
			page:     pointer.To(math.MaxInt),
			pageSize: pointer.To(pagination.MaxSize),
			want:     pagination.Request{Page: pagination.MaxPage, Size: pagination.MaxSize},
			wantSkip: (pagination.MaxPage - 1) * pagination.MaxSize,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pagination.Resolve(tt.page, tt.limit, tt.pageSize)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantSkip, got.Skip())
		})
	}
}

func TestSkip_NeverNegative(t *testing.T) {
	tests := []struct {
		name    string
		request pagination.Request
		want    int
	}{
		{name: "unresolved_huge_page", request: pagination.Request{Page: math.MaxInt, Size: 10}, want: math.MaxInt},
		{name: "zero_size", request: pagination.Request{Page: 5, Size: 0}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.request.Skip())
		})
	}
}

func TestBuildMeta(t *testing.T) {
	tests := []struct {
		name      string
		page      int
		size      int
		total     int
		wantPages int
	}{
		{name: "exact", page: 1, size: 10, total: 30, wantPages: 3},
		{name: "remainder", page: 2, size: 5, total: 12, wantPages: 3},
		{name: "single_partial", page: 1, size: 10, total: 1, wantPages: 1},
		{name: "empty", page: 1, size: 10, total: 0, wantPages: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := pagination.BuildMeta(tt.page, tt.size, tt.total)
			assert.Equal(t, tt.wantPages, meta.TotalPages)
			assert.Equal(t, tt.page, meta.CurrentPage)
			assert.Equal(t, tt.total, meta.TotalItems)
			assert.Equal(t, tt.size, meta.ItemsPerPage)
		})
	}
}

func TestMeta_JSONCarriesBothConventions(t *testing.T) {
	meta := pagination.BuildMeta(2, 5, 12)

	data, err := json.Marshal(meta)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"currentPage": 2, "totalPages": 3, "totalItems": 12, "itemsPerPage": 5,
		"page": 2, "lastPage": 3, "total": 12, "pageSize": 5
	}`, string(data))

	var decoded pagination.Meta
	require.NoError(t, json.Unmarshal([]byte(`{"page":2,"lastPage":3,"total":12,"pageSize":5}`), &decoded))
	assert.Equal(t, meta, decoded)
}

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  pagination.Request
	}{
		{name: "empty", query: "", want: pagination.Request{Page: 1, Size: 10}},
		{name: "limit", query: "?page=2&limit=25", want: pagination.Request{Page: 2, Size: 25}},
		{name: "page_size_wins", query: "?limit=25&pageSize=5", want: pagination.Request{Page: 1, Size: 5}},
		{name: "non_numeric_ignored", query: "?page=abc&limit=ten", want: pagination.Request{Page: 1, Size: 10}},
		{name: "non_numeric_page_size_falls_back_to_limit", query: "?limit=30&pageSize=x", want: pagination.Request{Page: 1, Size: 30}},
		{name: "out_of_range_clamped", query: "?page=-1&pageSize=1000", want: pagination.Request{Page: 1, Size: 100}},
		{name: "max_int_page_capped", query: "?page=9223372036854775807&pageSize=10", want: pagination.Request{Page: pagination.MaxPage, Size: 10}},
		{name: "overflowing_page_ignored", query: "?page=99999999999999999999&pageSize=10", want: pagination.Request{Page: 1, Size: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest("GET", "/api/v1/movies"+tt.query, nil)
			got := pagination.FromRequest(request)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got.Skip(), 0)
		})
	}
}
