package sliceutil_test

import (
	"strconv"
	"testing"

	"github.com/speakeasy-api/fieldmap/internal/sliceutil"
	"github.com/stretchr/testify/assert"
)

func TestMap(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		slice    []int
		expected []string
	}{
		{name: "empty slice", slice: []int{}, expected: []string{}},
		{name: "single element", slice: []int{1}, expected: []string{"1"}},
		{name: "multiple elements", slice: []int{1, 2, 3}, expected: []string{"1", "2", "3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, sliceutil.Map(tt.slice, strconv.Itoa))
		})
	}
}

func TestTake(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		slice    []string
		n        int
		expected []string
	}{
		{name: "shorter than n", slice: []string{"id"}, n: 3, expected: []string{"id"}},
		{name: "cut to n", slice: []string{"id", "name", "user_id"}, n: 2, expected: []string{"id", "name"}},
		{name: "zero keeps all", slice: []string{"id", "name"}, n: 0, expected: []string{"id", "name"}},
		{name: "nil", slice: nil, n: 2, expected: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, sliceutil.Take(tt.slice, tt.n))
		})
	}
}
