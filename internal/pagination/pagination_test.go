package pagination_test

import (
	"testing"

	"github.com/Houeta/pulsemarket/internal/pagination"
	"github.com/stretchr/testify/assert"
)

func TestView_Arrows(t *testing.T) {
	testCases := []struct {
		name     string
		page     int
		total    int
		visible  bool
		hasPrev  bool
		hasNext  bool
		prevPage int
		nextPage int
	}{
		{name: "no pages", page: 1, total: 0, visible: false, prevPage: 1, nextPage: 1},
		{name: "single page", page: 1, total: 1, visible: true, prevPage: 1, nextPage: 1},
		{name: "first of many", page: 1, total: 5, visible: true, hasNext: true, prevPage: 1, nextPage: 2},
		{name: "middle", page: 3, total: 5, visible: true, hasPrev: true, hasNext: true, prevPage: 2, nextPage: 4},
		{name: "last", page: 5, total: 5, visible: true, hasPrev: true, prevPage: 4, nextPage: 5},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := pagination.New(tc.page, tc.total, 12)

			assert.Equal(t, tc.visible, v.Visible())
			assert.Equal(t, tc.hasPrev, v.HasPrev())
			assert.Equal(t, tc.hasNext, v.HasNext())
			assert.Equal(t, tc.prevPage, v.Prev())
			assert.Equal(t, tc.nextPage, v.Next())
		})
	}
}

func TestView_CanJump(t *testing.T) {
	v := pagination.New(2, 4, 12)

	assert.False(t, v.CanJump(0))
	assert.True(t, v.CanJump(1))
	assert.True(t, v.CanJump(4))
	assert.False(t, v.CanJump(5))
}

func TestView_Strip(t *testing.T) {
	testCases := []struct {
		name  string
		page  int
		total int
		width int
		want  []int
	}{
		{name: "no pages", page: 1, total: 0, width: 5, want: nil},
		{name: "fewer pages than width", page: 2, total: 3, width: 5, want: []int{1, 2, 3}},
		{name: "at start", page: 1, total: 10, width: 5, want: []int{1, 2, 3, 4, 5}},
		{name: "centred", page: 6, total: 10, width: 5, want: []int{4, 5, 6, 7, 8}},
		{name: "at end", page: 10, total: 10, width: 5, want: []int{6, 7, 8, 9, 10}},
		{name: "zero width", page: 1, total: 10, width: 0, want: nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, pagination.New(tc.page, tc.total, 12).Strip(tc.width))
		})
	}
}

func TestView_LimitChoices(t *testing.T) {
	assert.Equal(t, []int{6, 12, 24, 50, 100}, pagination.New(1, 1, 12).LimitChoices())
}

func TestNew_NegativeTotal(t *testing.T) {
	v := pagination.New(1, -3, 12)

	assert.Equal(t, 0, v.TotalPages)
	assert.False(t, v.Visible())
}
