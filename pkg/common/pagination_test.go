package common

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractPaginationParams(t *testing.T) {
	r := httptest.NewRequest("GET", "/matters?page=3&page_size=50&sort=title&order=asc", nil)

	params := ExtractPaginationParams(r)

	assert.Equal(t, 3, params.Page)
	assert.Equal(t, 50, params.PageSize)
	assert.Equal(t, "title", params.Sort)
	assert.Equal(t, "asc", params.Order)
	assert.Equal(t, 100, params.Offset())
}

func TestExtractPaginationParams_Defaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/matters", nil)

	params := ExtractPaginationParams(r)

	assert.Equal(t, 1, params.Page)
	assert.Equal(t, 20, params.PageSize)
	assert.Equal(t, "desc", params.Order)
	assert.Equal(t, 0, params.Offset())
}

func TestExtractPaginationParams_RejectsBadInput(t *testing.T) {
	r := httptest.NewRequest("GET", "/matters?page=-1&page_size=9999&order=sideways", nil)

	params := ExtractPaginationParams(r)

	assert.Equal(t, 1, params.Page)
	assert.Equal(t, maxPageSize, params.PageSize)
	assert.Equal(t, "desc", params.Order)
}

func TestCalculateTotalPages(t *testing.T) {
	assert.Equal(t, 0, CalculateTotalPages(0, 20))
	assert.Equal(t, 1, CalculateTotalPages(20, 20))
	assert.Equal(t, 2, CalculateTotalPages(21, 20))
	assert.Equal(t, 0, CalculateTotalPages(10, 0))
}

func TestBuildPaginationMeta(t *testing.T) {
	meta := BuildPaginationMeta(2, 20, 45)

	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasNext)
	assert.True(t, meta.HasPrev)

	first := BuildPaginationMeta(1, 20, 45)
	assert.False(t, first.HasPrev)
	assert.True(t, first.HasNext)

	last := BuildPaginationMeta(3, 20, 45)
	assert.True(t, last.HasPrev)
	assert.False(t, last.HasNext)
}

func TestPageSlice(t *testing.T) {
	params := PaginationParams{Page: 2, PageSize: 10}

	start, end := params.PageSlice(25)
	assert.Equal(t, 10, start)
	assert.Equal(t, 20, end)

	// Past the end of the result set.
	start, end = params.PageSlice(5)
	assert.Equal(t, 5, start)
	assert.Equal(t, 5, end)

	// Partial final page.
	start, end = params.PageSlice(15)
	assert.Equal(t, 10, start)
	assert.Equal(t, 15, end)
}
