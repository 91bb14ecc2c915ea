package adapters

import (
	"context"
	"fmt"
	"testing"

	"shipment-status/internal/core/cache"
	"shipment-status/internal/features/status/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisUnmappedRecorder(t *testing.T) {
	mr := miniredis.RunT(t)

	redisCache, err := cache.NewRedisAdapter("redis://" + mr.Addr())
	require.NoError(t, err)
	defer redisCache.Close()

	recorder := NewRedisUnmappedRecorder(redisCache, 0)
	ctx := context.Background()

	for _, status := range []string{"held at customs", "lost", "held at customs", "held at customs", "lost", "damaged"} {
		require.NoError(t, recorder.Record(ctx, status))
	}

	top, err := recorder.Top(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []domain.UnmappedStatus{
		{Canonical: "held at customs", Count: 3},
		{Canonical: "lost", Count: 2},
	}, top)
}

func TestRedisUnmappedRecorder_Unavailable(t *testing.T) {
	mr := miniredis.RunT(t)

	redisCache, err := cache.NewRedisAdapter("redis://" + mr.Addr())
	require.NoError(t, err)
	defer redisCache.Close()

	mr.Close()

	recorder := NewRedisUnmappedRecorder(redisCache, 0)
	err = recorder.Record(context.Background(), "lost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to record unmapped status")

	_, err = recorder.Top(context.Background(), 5)
	assert.Error(t, err)
}

func TestNopUnmappedRecorder(t *testing.T) {
	var recorder NopUnmappedRecorder

	assert.NoError(t, recorder.Record(context.Background(), "anything"))

	top, err := recorder.Top(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, top)
}

func TestRedisUnmappedRecorder_BoundedSet(t *testing.T) {
	mr := miniredis.RunT(t)

	redisCache, err := cache.NewRedisAdapter("redis://" + mr.Addr())
	require.NoError(t, err)
	defer redisCache.Close()

	recorder := NewRedisUnmappedRecorder(redisCache, 5)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, recorder.Record(ctx, "held at customs"))
	}
	for i := 0; i < 50; i++ {
		require.NoError(t, recorder.Record(ctx, fmt.Sprintf("junk %d", i)))
	}

	members, err := mr.ZMembers("status:unmapped")
	require.NoError(t, err)
	assert.Len(t, members, 5)

	top, err := recorder.Top(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []domain.UnmappedStatus{{Canonical: "held at customs", Count: 3}}, top)
}

func TestNewRedisUnmappedRecorder_DefaultBound(t *testing.T) {
	recorder := NewRedisUnmappedRecorder(nil, -1)
	assert.Equal(t, int64(DefaultMaxMembers), recorder.maxMembers)
}
