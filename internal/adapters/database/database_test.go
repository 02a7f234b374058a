package database_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okian/internsim/internal/adapters/database"
)

func TestOpenRedis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb, err := database.OpenRedis(context.Background(), database.RedisOptions{Addr: mr.Addr()})
	require.NoError(t, err)
	defer rdb.Close()

	assert.NoError(t, rdb.Set(context.Background(), "k", "v", 0).Err())
	got, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestOpenRedisUnreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	_, err = database.OpenRedis(context.Background(), database.RedisOptions{Addr: addr})
	assert.Error(t, err)
}

func TestOpenPostgresBadDSN(t *testing.T) {
	// Nothing listens on port 1; the ping must fail fast.
	_, err := database.OpenPostgres(context.Background(), database.PostgresOptions{
		DSN: "host=127.0.0.1 port=1 user=x dbname=x sslmode=disable connect_timeout=1",
	})
	assert.Error(t, err)
}
