package redis

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HAL94/fast-movie-reserve/internal/domain/reservation"
)

func TestTaskIndex(t *testing.T) {
	client, err := NewClient(&Config{Host: "localhost", Port: "6379"})
	if err != nil {
		t.Skip("Redis not available")
	}
	defer client.Close()

	ctx := context.Background()
	index := NewTaskIndex(client)

	t.Run("保存した値を取得できる", func(t *testing.T) {
		resID := uuid.NewString()
		defer index.Delete(ctx, resID)

		require.NoError(t, index.Set(ctx, resID, "task-1", time.Minute))

		got, err := index.Get(ctx, resID)
		require.NoError(t, err)
		assert.Equal(t, "task-1", got)

		ttl, err := client.TTL(ctx, reservation.TaskKey(resID)).Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, 50*time.Second)
	})

	t.Run("未登録はミス", func(t *testing.T) {
		_, err := index.Get(ctx, uuid.NewString())
		assert.ErrorIs(t, err, reservation.ErrTaskIndexMiss)
	})

	t.Run("削除後はミス", func(t *testing.T) {
		resID := uuid.NewString()
		require.NoError(t, index.Set(ctx, resID, "task-2", time.Minute))
		require.NoError(t, index.Delete(ctx, resID))

		_, err := index.Get(ctx, resID)
		assert.ErrorIs(t, err, reservation.ErrTaskIndexMiss)
	})

	t.Run("TTL経過で消える", func(t *testing.T) {
		resID := uuid.NewString()
		require.NoError(t, index.Set(ctx, resID, "task-3", 100*time.Millisecond))
		time.Sleep(250 * time.Millisecond)

		_, err := index.Get(ctx, resID)
		assert.ErrorIs(t, err, reservation.ErrTaskIndexMiss)
	})
}
