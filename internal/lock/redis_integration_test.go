//go:build integration

package lock

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRedis(t *testing.T) *Redis {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	r := NewRedis(Options{Addr: addr})
	require.NoError(t, r.Ping(context.Background()))
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestRedis_AcquireRelease(t *testing.T) {
	ctx := context.Background()
	r := testRedis(t)
	name := "test_" + uuid.NewString()

	release, err := r.Acquire(ctx, name)
	require.NoError(t, err)

	_, err = r.Acquire(ctx, name)
	assert.ErrorIs(t, err, ErrHeld)

	require.NoError(t, release(ctx))

	release2, err := r.Acquire(ctx, name)
	require.NoError(t, err)
	require.NoError(t, release2(ctx))
}

func TestRedis_StaleReleaseKeepsNewHolder(t *testing.T) {
	ctx := context.Background()
	r := testRedis(t)
	name := "test_" + uuid.NewString()

	stale, err := r.Acquire(ctx, name)
	require.NoError(t, err)
	require.NoError(t, r.client.Del(ctx, Key(name)).Err())

	current, err := r.Acquire(ctx, name)
	require.NoError(t, err)

	// the first holder's token no longer matches
	require.NoError(t, stale(ctx))
	_, err = r.Acquire(ctx, name)
	assert.ErrorIs(t, err, ErrHeld)

	require.NoError(t, current(ctx))
}
