package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trivedia/internal/cache"
	"trivedia/internal/model"
)

func testUser() *model.User {
	return &model.User{ID: uuid.New(), Email: "alice@x.com", Role: model.RoleEditor}
}

func TestJWTService_AccessToken(t *testing.T) {
	svc := NewJWTService("test-secret")
	user := testUser()

	token, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, model.RoleEditor, claims.Role)
	assert.NotEmpty(t, claims.ID)
	assert.InDelta(t, AccessTokenExpiry.Seconds(), claims.TTL().Seconds(), 5)
}

func TestJWTService_Rejects(t *testing.T) {
	svc := NewJWTService("test-secret")
	user := testUser()

	_, refresh, err := svc.GenerateRefreshToken(user)
	require.NoError(t, err)
	access, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)

	tests := []struct {
		name  string
		check func() error
	}{
		{"refresh token used as access", func() error { _, err := svc.ValidateAccessToken(refresh); return err }},
		{"access token used as refresh", func() error { _, err := svc.ValidateRefreshToken(access); return err }},
		{"other secret", func() error { _, err := NewJWTService("other").ValidateAccessToken(access); return err }},
		{"garbage", func() error { _, err := svc.ValidateAccessToken("not-a-token"); return err }},
		{"expired", func() error {
			old := NewJWTService("test-secret")
			old.now = func() time.Time { return time.Now().Add(-time.Hour) }
			tok, err := old.GenerateAccessToken(user)
			require.NoError(t, err)
			_, err = svc.ValidateAccessToken(tok)
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.check())
		})
	}
}

func TestTokenStore(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	c := cache.Wrap(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = c.Close() })
	store := NewTokenStore(c)

	userID := uuid.New()
	require.NoError(t, store.StoreRefreshToken(ctx, "rt-1", userID, time.Hour))

	got, err := store.GetRefreshToken(ctx, "rt-1")
	require.NoError(t, err)
	assert.Equal(t, userID, got)

	require.NoError(t, store.DeleteRefreshToken(ctx, "rt-1"))
	_, err = store.GetRefreshToken(ctx, "rt-1")
	assert.ErrorIs(t, err, ErrRefreshTokenNotFound)

	blacklisted, err := store.IsAccessTokenBlacklisted(ctx, "at-1")
	require.NoError(t, err)
	assert.False(t, blacklisted)

	require.NoError(t, store.BlacklistAccessToken(ctx, "at-1", time.Minute))
	blacklisted, err = store.IsAccessTokenBlacklisted(ctx, "at-1")
	require.NoError(t, err)
	assert.True(t, blacklisted)

	mr.FastForward(2 * time.Minute)
	blacklisted, err = store.IsAccessTokenBlacklisted(ctx, "at-1")
	require.NoError(t, err)
	assert.False(t, blacklisted)
}

func TestTokenStore_WithoutRedis(t *testing.T) {
	ctx := context.Background()
	store := NewTokenStore(nil)

	require.NoError(t, store.StoreRefreshToken(ctx, "rt", uuid.New(), time.Hour))
	_, err := store.GetRefreshToken(ctx, "rt")
	assert.ErrorIs(t, err, ErrRefreshTokenNotFound)

	blacklisted, err := store.IsAccessTokenBlacklisted(ctx, "at")
	require.NoError(t, err)
	assert.False(t, blacklisted)
}
