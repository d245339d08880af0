package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/highimexy/Bugly/internal/tracker/domain"
)

func setupCache(t *testing.T) (*ProjectCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return New(client, 30*time.Second), mr
}

func TestGet_Miss(t *testing.T) {
	c, _ := setupCache(t)
	p, err := c.Get(context.Background(), "PRJ-1000")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestSetGetRoundTrip(t *testing.T) {
	c, _ := setupCache(t)
	ctx := context.Background()

	project := &domain.Project{
		ID:    "PRJ-1000",
		Name:  "Alpha",
		Color: "blue",
		Bugs: []domain.Bug{
			{ID: "BUG-1", ProjectID: "PRJ-1000", Title: "crash", Priority: domain.PriorityHigh},
		},
	}
	require.NoError(t, c.Set(ctx, project))

	got, err := c.Get(ctx, "PRJ-1000")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Alpha", got.Name)
	require.Len(t, got.Bugs, 1)
	assert.Equal(t, "BUG-1", got.Bugs[0].ID)
}

func TestInvalidate(t *testing.T) {
	c, _ := setupCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, &domain.Project{ID: "PRJ-1000", Name: "Alpha"}))
	require.NoError(t, c.Invalidate(ctx, "PRJ-1000"))

	got, err := c.Get(ctx, "PRJ-1000")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestEntryExpires(t *testing.T) {
	c, mr := setupCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, &domain.Project{ID: "PRJ-1000", Name: "Alpha"}))
	mr.FastForward(time.Minute)

	got, err := c.Get(ctx, "PRJ-1000")
	require.NoError(t, err)
	assert.Nil(t, got)
}
