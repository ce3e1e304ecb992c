package cache

import (
	"context"
	"testing"

	"bhoomisetu/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryPlaceCacheRoundTrip(t *testing.T) {
	c := NewMemoryPlaceCache()
	ctx := context.Background()

	got, err := c.Get(ctx, "banglore")
	require.NoError(t, err)
	assert.Nil(t, got, "miss should return nil, nil")

	place := &model.ResolvedPlace{Name: "bangalore", District: "Bangalore Urban", State: "Karnataka"}
	require.NoError(t, c.Set(ctx, "banglore", place))

	got, err = c.Get(ctx, "  BANGLORE ")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, *place, *got, "key should be case and whitespace insensitive")
}
