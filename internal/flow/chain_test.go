package flow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixed(id string, ok bool) Resolver[int] {
	return ResolverFunc[int](func(context.Context, int) (string, bool, error) { return id, ok, nil })
}

func TestChain_FirstMatchWins(t *testing.T) {
	c := Chain[int]{fixed("", false), fixed("", true), fixed("b", true), fixed("c", true)}
	id, ok, err := c.Resolve(context.Background(), 0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "b", id)
}

func TestChain_NoMatch(t *testing.T) {
	id, ok, err := Chain[int]{fixed("", false)}.Resolve(context.Background(), 0)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, id)
}

func TestChain_ErrorStops(t *testing.T) {
	boom := errors.New("boom")
	failing := ResolverFunc[int](func(context.Context, int) (string, bool, error) { return "", false, boom })
	_, _, err := Chain[int]{failing, fixed("late", true)}.Resolve(context.Background(), 0)
	assert.ErrorIs(t, err, boom)
}
