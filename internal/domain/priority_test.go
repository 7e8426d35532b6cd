package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketPriority_TotalOverRange(t *testing.T) {
	for g := 0; g <= 100; g++ {
		p, err := BucketPriority(g)
		require.NoError(t, err, "group %d", g)
		assert.NotEmpty(t, p)
	}
}

func TestBucketPriority_Boundaries(t *testing.T) {
	tests := []struct {
		group int
		want  Priority
	}{
		{0, PriorityNotPrioritized},
		{1, PriorityLow},
		{25, PriorityLow},
		{26, PriorityMedium},
		{30, PriorityMedium},
		{50, PriorityMedium},
		{51, PriorityHigh},
		{75, PriorityHigh},
		{76, PriorityUrgent},
		{100, PriorityUrgent},
	}
	for _, tt := range tests {
		got, err := BucketPriority(tt.group)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "group %d", tt.group)
	}
}

func TestBucketPriority_OutOfRange(t *testing.T) {
	for _, g := range []int{-1, 101, 1000} {
		_, err := BucketPriority(g)
		assert.ErrorIs(t, err, ErrPriorityOutOfRange, "group %d", g)
	}
}
