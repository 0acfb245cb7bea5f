package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/HAL94/fast-movie-reserve/internal/domain/task"
)

// DefaultQueuePrefix はキューのキー接頭辞
// ハッシュタグで囲み、Cluster でも全キーが同じスロットに載るようにする
const DefaultQueuePrefix = "{tasks}"

// claimScript は実行時刻を過ぎたタスクと、リース切れの処理中タスクを processing に移して返す
// 戻り値は id と envelope を交互に並べた配列
//
// KEYS[1]=scheduled(ZSET) KEYS[2]=processing(ZSET) KEYS[3]=payload(HASH)
// ARGV[1]=現在時刻(ms) ARGV[2]=リース期限(ms) ARGV[3]=最大件数
var claimScript = redis.NewScript(`
local ids = {}
local limit = tonumber(ARGV[3])

local expired = redis.call("ZRANGEBYSCORE", KEYS[2], "-inf", ARGV[1], "LIMIT", 0, limit)
for _, id in ipairs(expired) do
	redis.call("ZADD", KEYS[2], ARGV[2], id)
	table.insert(ids, id)
end

local remaining = limit - #ids
if remaining > 0 then
	local due = redis.call("ZRANGEBYSCORE", KEYS[1], "-inf", ARGV[1], "LIMIT", 0, remaining)
	for _, id in ipairs(due) do
		redis.call("ZREM", KEYS[1], id)
		redis.call("ZADD", KEYS[2], ARGV[2], id)
		table.insert(ids, id)
	end
end

local out = {}
for _, id in ipairs(ids) do
	local payload = redis.call("HGET", KEYS[3], id)
	if payload then
		table.insert(out, id)
		table.insert(out, payload)
	else
		redis.call("ZREM", KEYS[2], id)
	end
end
return out
`)

// cancelScript は未取得のタスクだけを取り消す
var cancelScript = redis.NewScript(`
if redis.call("ZREM", KEYS[1], ARGV[1]) == 1 then
	redis.call("HDEL", KEYS[2], ARGV[1])
	return 1
end
return 0
`)

// DelayQueue は sorted set を使った遅延タスクキュー
//
// 配信は at-least-once。Claim 後に Ack されないままリースが切れたタスクは再配信される。
type DelayQueue struct {
	client        *redis.Client
	scheduledKey  string
	processingKey string
	payloadKey    string
	lease         time.Duration
}

// NewDelayQueue は遅延タスクキューを作成する
// lease は Claim されたタスクが再配信されるまでの猶予
func NewDelayQueue(client *redis.Client, prefix string, lease time.Duration) *DelayQueue {
	if prefix == "" {
		prefix = DefaultQueuePrefix
	}
	return &DelayQueue{
		client:        client,
		scheduledKey:  prefix + ":scheduled",
		processingKey: prefix + ":processing",
		payloadKey:    prefix + ":payload",
		lease:         lease,
	}
}

// Schedule はタスクを登録し、タスクIDを返す
func (q *DelayQueue) Schedule(ctx context.Context, name string, payload any, runAt time.Time) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("タスクのペイロード変換に失敗: %w", err)
	}
	t := &task.Task{ID: uuid.NewString(), Name: name, Payload: raw, RunAt: runAt.UTC()}
	envelope, err := json.Marshal(t)
	if err != nil {
		return "", fmt.Errorf("タスクの変換に失敗: %w", err)
	}

	_, err = q.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, q.payloadKey, t.ID, envelope)
		pipe.ZAdd(ctx, q.scheduledKey, redis.Z{Score: float64(runAt.UnixMilli()), Member: t.ID})
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("タスク登録に失敗: %w", err)
	}
	return t.ID, nil
}

// Cancel は未取得のタスクを取り消す
// 既に Claim された、または実行済みのタスクは取り消せず false を返す
func (q *DelayQueue) Cancel(ctx context.Context, taskID string) (bool, error) {
	n, err := cancelScript.Run(ctx, q.client, []string{q.scheduledKey, q.payloadKey}, taskID).Int()
	if err != nil {
		return false, fmt.Errorf("タスク取り消しに失敗: %w", err)
	}
	return n == 1, nil
}

// Claim は実行時刻を過ぎたタスクを最大 limit 件取り出す
//
// 復元できない envelope はその場で破棄し、残りのタスクと ErrInvalidPayload を返す。
func (q *DelayQueue) Claim(ctx context.Context, now time.Time, limit int) ([]*task.Task, error) {
	if limit <= 0 {
		return nil, nil
	}
	keys := []string{q.scheduledKey, q.processingKey, q.payloadKey}
	raw, err := claimScript.Run(ctx, q.client, keys, now.UnixMilli(), now.Add(q.lease).UnixMilli(), limit).StringSlice()
	if err != nil {
		return nil, fmt.Errorf("タスク取得に失敗: %w", err)
	}

	tasks := make([]*task.Task, 0, len(raw)/2)
	var broken []string
	for i := 0; i+1 < len(raw); i += 2 {
		id, envelope := raw[i], raw[i+1]
		var t task.Task
		if err := json.Unmarshal([]byte(envelope), &t); err != nil || t.ID != id {
			broken = append(broken, id)
			continue
		}
		tasks = append(tasks, &t)
	}
	if len(broken) == 0 {
		return tasks, nil
	}

	for _, id := range broken {
		if err := q.Ack(ctx, id); err != nil {
			return tasks, errors.Join(task.ErrInvalidPayload, err)
		}
	}
	return tasks, fmt.Errorf("%w: %d件を破棄 %v", task.ErrInvalidPayload, len(broken), broken)
}

// Ack は処理済みタスクを processing とペイロードから削除する
func (q *DelayQueue) Ack(ctx context.Context, taskID string) error {
	_, err := q.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRem(ctx, q.processingKey, taskID)
		pipe.HDel(ctx, q.payloadKey, taskID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("タスク完了処理に失敗: %w", err)
	}
	return nil
}

// Len は待機中と処理中のタスク数を返す
func (q *DelayQueue) Len(ctx context.Context) (scheduled, processing int64, err error) {
	pipe := q.client.Pipeline()
	s := pipe.ZCard(ctx, q.scheduledKey)
	p := pipe.ZCard(ctx, q.processingKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, 0, fmt.Errorf("タスク数取得に失敗: %w", err)
	}
	return s.Val(), p.Val(), nil
}

var _ task.Queue = (*DelayQueue)(nil)
