package worker

import (
	"context"

	"github.com/HAL94/fast-movie-reserve/internal/domain/task"
)

// ExpiryChecker は仮押さえの期限切れチェックを実行するインターフェース
type ExpiryChecker interface {
	RunExpiryCheck(ctx context.Context, reservationID string) (bool, error)
}

// ExpiryCheckHandler は check_if_confirmed タスクのハンドラーを返す
func ExpiryCheckHandler(checker ExpiryChecker) task.Handler {
	return func(ctx context.Context, t *task.Task) error {
		var payload task.CheckIfConfirmedPayload
		if err := t.DecodePayload(&payload); err != nil {
			return err
		}
		if payload.ReservationID == "" {
			return task.ErrInvalidPayload
		}
		_, err := checker.RunExpiryCheck(ctx, payload.ReservationID)
		return err
	}
}
