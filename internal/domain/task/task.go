package task

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// 登録済みのタスク名
const (
	// NameCheckIfConfirmed は仮押さえの期限切れチェック
	NameCheckIfConfirmed = "check_if_confirmed"
)

var (
	ErrUnknownTask    = errors.New("未登録のタスクです")
	ErrInvalidPayload = errors.New("タスクのペイロードが不正です")
)

// Task は遅延実行されるタスク
type Task struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Payload json.RawMessage `json:"payload"`
	RunAt   time.Time       `json:"run_at"`
}

// CheckIfConfirmedPayload は期限切れチェックの引数
type CheckIfConfirmedPayload struct {
	ReservationID string `json:"reservation_id"`
}

// Scheduler は遅延タスクの登録・取り消しを行う
type Scheduler interface {
	// Schedule は runAt 以降に実行されるタスクを登録し、タスクIDを返す
	Schedule(ctx context.Context, name string, payload any, runAt time.Time) (string, error)
	// Cancel は未実行のタスクを取り消す。取り消せなければ false を返す
	Cancel(ctx context.Context, taskID string) (bool, error)
}

// Queue はワーカーがタスクを受け取るためのインターフェース
// 配信は at-least-once なので、ハンドラーは冪等である必要がある
type Queue interface {
	Scheduler
	// Claim は実行時刻を過ぎたタスクを最大 limit 件取り出す
	// エラーと一緒に返されたタスクも実行してよい
	Claim(ctx context.Context, now time.Time, limit int) ([]*Task, error)
	// Ack は処理済みのタスクを削除する
	Ack(ctx context.Context, taskID string) error
}

// Handler はタスクを処理する関数
type Handler func(ctx context.Context, t *Task) error

// DecodePayload はペイロードを v に展開する
func (t *Task) DecodePayload(v any) error {
	if err := json.Unmarshal(t.Payload, v); err != nil {
		return errors.Join(ErrInvalidPayload, err)
	}
	return nil
}
