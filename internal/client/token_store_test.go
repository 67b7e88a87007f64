package client_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/rezonia/myinvois/internal/client"
)

func newRedisStore(t *testing.T) (*client.RedisTokenStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return client.NewRedisTokenStore(rdb, ""), mr
}

func TestMemoryTokenStore_ExpiredIsMiss(t *testing.T) {
	store := client.NewMemoryTokenStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", &oauth2.Token{AccessToken: "old", Expiry: time.Now().Add(-time.Minute)}))

	tok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, tok)
}

func TestRedisTokenStore_RoundTrip(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	expiry := time.Now().Add(time.Hour).Truncate(time.Second)
	require.NoError(t, store.Set(ctx, "client-id:self", &oauth2.Token{
		AccessToken: "tok-1",
		TokenType:   "Bearer",
		Expiry:      expiry,
	}))

	assert.True(t, mr.Exists(client.DefaultRedisPrefix+"client-id:self"))
	assert.Greater(t, mr.TTL(client.DefaultRedisPrefix+"client-id:self"), 59*time.Minute)

	tok, err := store.Get(ctx, "client-id:self")
	require.NoError(t, err)
	require.NotNil(t, tok)
	assert.Equal(t, "tok-1", tok.AccessToken)
	assert.True(t, expiry.Equal(tok.Expiry))
}

func TestRedisTokenStore_Miss(t *testing.T) {
	store, _ := newRedisStore(t)

	tok, err := store.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.Nil(t, tok)
}

func TestRedisTokenStore_ExpiresWithToken(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", &oauth2.Token{AccessToken: "tok", Expiry: time.Now().Add(10 * time.Minute)}))
	mr.FastForward(11 * time.Minute)

	tok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, tok)
}

func TestRedisTokenStore_SkipsTokensWithoutExpiry(t *testing.T) {
	store, mr := newRedisStore(t)

	require.NoError(t, store.Set(context.Background(), "k", &oauth2.Token{AccessToken: "tok"}))
	assert.False(t, mr.Exists(client.DefaultRedisPrefix+"k"))
}

func TestRedisTokenStore_SharedAcrossClients(t *testing.T) {
	fp := newFakePlatform(t)
	store, _ := newRedisStore(t)

	for i := 0; i < 3; i++ {
		_, err := fp.client(client.WithTokenStore(store)).Token(context.Background())
		require.NoError(t, err)
	}

	assert.Equal(t, int32(1), fp.tokenCalls.Load())
}

func TestRedisTokenStore_UnreachableFallsBackToLogin(t *testing.T) {
	fp := newFakePlatform(t)

	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 100 * time.Millisecond,
	})
	t.Cleanup(func() { _ = rdb.Close() })
	store := client.NewRedisTokenStore(rdb, "test:")

	tok, err := fp.client(client.WithTokenStore(store)).Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok.AccessToken)
}
