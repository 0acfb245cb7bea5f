package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/HAL94/fast-movie-reserve/internal/domain/reservation"
)

// TaskIndex は予約IDから期限切れチェックのタスクIDを引くキャッシュ
// キーは reservations:{id}:task
type TaskIndex struct {
	client *redis.Client
}

func NewTaskIndex(client *redis.Client) *TaskIndex {
	return &TaskIndex{client: client}
}

func (c *TaskIndex) Set(ctx context.Context, reservationID, taskID string, ttl time.Duration) error {
	if err := c.client.Set(ctx, reservation.TaskKey(reservationID), taskID, ttl).Err(); err != nil {
		return fmt.Errorf("タスクインデックス保存に失敗: %w", err)
	}
	return nil
}

func (c *TaskIndex) Get(ctx context.Context, reservationID string) (string, error) {
	taskID, err := c.client.Get(ctx, reservation.TaskKey(reservationID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", reservation.ErrTaskIndexMiss
	}
	if err != nil {
		return "", fmt.Errorf("タスクインデックス取得に失敗: %w", err)
	}
	return taskID, nil
}

func (c *TaskIndex) Delete(ctx context.Context, reservationID string) error {
	if err := c.client.Del(ctx, reservation.TaskKey(reservationID)).Err(); err != nil {
		return fmt.Errorf("タスクインデックス削除に失敗: %w", err)
	}
	return nil
}

var _ reservation.TaskIndex = (*TaskIndex)(nil)
