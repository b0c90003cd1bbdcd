package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := Wrap(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestClient_JSONRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestClient(t)

	type plan struct {
		Name string `json:"name"`
	}
	require.NoError(t, c.SetJSON(ctx, KeyPublicPricing, []plan{{Name: "Starter"}}, time.Minute))

	var got []plan
	require.True(t, c.GetJSON(ctx, KeyPublicPricing, &got))
	assert.Equal(t, []plan{{Name: "Starter"}}, got)

	mr.FastForward(2 * time.Minute)
	assert.False(t, c.GetJSON(ctx, KeyPublicPricing, &got))
}

func TestClient_Delete(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestClient(t)

	require.NoError(t, c.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, c.Set(ctx, "b", []byte("2"), 0))
	require.NoError(t, c.Delete(ctx, "a", "b"))

	v, err := c.Get(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestClient_FailsOpen(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestClient(t)
	mr.Close()

	v, err := c.Get(ctx, "missing")
	assert.NoError(t, err)
	assert.Nil(t, v)
	assert.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	assert.Error(t, c.Ping(ctx))
}

func TestNilClient(t *testing.T) {
	ctx := context.Background()
	var c *Client

	assert.Nil(t, New("", "", 0))
	assert.NoError(t, c.Ping(ctx))
	assert.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	assert.NoError(t, c.SetJSON(ctx, "k", 1, time.Minute))
	var dst int
	assert.False(t, c.GetJSON(ctx, "k", &dst))
	assert.NoError(t, c.Delete(ctx, "k"))
	assert.NoError(t, c.Close())
}
