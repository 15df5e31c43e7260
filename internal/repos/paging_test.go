package repos_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"maisonmarket/internal/repos"
)

func TestClampPage(t *testing.T) {
	cases := []struct {
		name                   string
		page, pageSize         int
		wantPage, wantPageSize int
	}{
		{"zero values fall back", 0, 0, 1, repos.DefaultPageSize},
		{"negative page floors at one", -3, 10, 1, 10},
		{"oversized pageSize caps", 1, 500, 1, repos.MaxPageSize},
		{"valid input untouched", 4, 20, 4, 20},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, ps := repos.ClampPage(tc.page, tc.pageSize)
			assert.Equal(t, tc.wantPage, p)
			assert.Equal(t, tc.wantPageSize, ps)
		})
	}
}

func TestNewPagination_Consistency(t *testing.T) {
	pg := repos.NewPagination(1, 20, 25)
	assert.Equal(t, 2, pg.TotalPages)
	assert.True(t, pg.HasNext)
	assert.False(t, pg.HasPrev)

	pg = repos.NewPagination(2, 20, 25)
	assert.False(t, pg.HasNext)
	assert.True(t, pg.HasPrev)
	assert.Equal(t, 20, pg.Offset())

	// an exact multiple must not produce a phantom page
	pg = repos.NewPagination(1, 12, 24)
	assert.Equal(t, 2, pg.TotalPages)

	// empty result set
	pg = repos.NewPagination(1, 12, 0)
	assert.Equal(t, 0, pg.TotalPages)
	assert.False(t, pg.HasNext)
	assert.False(t, pg.HasPrev)
}
