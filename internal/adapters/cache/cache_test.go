package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okian/internsim/internal/domain/model"
)

func sampleSnapshot() model.MarketSnapshot {
	return model.MarketSnapshot{
		TopSkills:            []model.NamedCount{{Name: "React", Count: 4}, {Name: "Python", Count: 2}},
		TopCategories:        []model.NamedCount{{Name: "Frontend & UI/UX", Count: 3}},
		AvgStipendByCategory: []model.NamedValue{{Name: "Frontend & UI/UX", Value: 15000}},
		RemoteRatio:          60,
		OnsiteRatio:          40,
		TotalCount:           5,
	}
}

func setupMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisCache_RoundTrip(t *testing.T) {
	mr, client := setupMiniredis(t)
	c := NewRedisCache(client, time.Minute)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "v1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Put(ctx, "v1", sampleSnapshot()))
	assert.True(t, mr.Exists("internsim:market:v1"))

	got, ok, err := c.Get(ctx, "v1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, sampleSnapshot(), got)

	_, ok, err = c.Get(ctx, "v2")
	require.NoError(t, err)
	assert.False(t, ok, "a new corpus version must miss")
}

func TestRedisCache_Expiry(t *testing.T) {
	mr, client := setupMiniredis(t)
	c := NewRedisCache(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "v1", sampleSnapshot()))
	mr.FastForward(2 * time.Minute)

	_, ok, err := c.Get(ctx, "v1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCache_CorruptValue(t *testing.T) {
	mr, client := setupMiniredis(t)
	require.NoError(t, mr.Set(Key("v1"), "not json"))

	_, ok, err := NewRedisCache(client, 0).Get(context.Background(), "v1")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestRedisCache_Errors(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewRedisCache(client, time.Minute)
	ctx := context.Background()

	mock.ExpectGet(Key("v1")).SetErr(errors.New("connection refused"))
	_, ok, err := c.Get(ctx, "v1")
	assert.ErrorContains(t, err, "redis get")
	assert.False(t, ok)

	mock.ExpectGet(Key("v2")).RedisNil()
	_, ok, err = c.Get(ctx, "v2")
	assert.NoError(t, err)
	assert.False(t, ok)

	mock.Regexp().ExpectSet(Key("v3"), `.*`, time.Minute).SetErr(errors.New("READONLY"))
	assert.ErrorContains(t, c.Put(ctx, "v3", sampleSnapshot()), "redis set")

	assert.NoError(t, mock.ExpectationsWereMet())
}
