package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/HAL94/fast-movie-reserve/internal/config"
	"github.com/HAL94/fast-movie-reserve/internal/domain/task"
	"github.com/HAL94/fast-movie-reserve/internal/pkg/logger"
	"github.com/HAL94/fast-movie-reserve/internal/pkg/metrics"
)

// TaskRunner は遅延キューから期限の来たタスクを取り出して実行するワーカー
//
// 失敗したタスクは再実行せずログだけ残して ack する。
// 処理中にプロセスが落ちた場合はリースが切れた時点で別のワーカーに再配送される。
type TaskRunner struct {
	queue        task.Queue
	handlers     map[string]task.Handler
	pollInterval time.Duration
	concurrency  int
	batchSize    int
	now          func() time.Time
	stopCh       chan struct{}
	doneCh       chan struct{}
}

func NewTaskRunner(queue task.Queue, cfg config.JobsConfig) *TaskRunner {
	concurrency := cfg.TaskConcurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	batchSize := cfg.TaskBatchSize
	if batchSize <= 0 {
		batchSize = concurrency
	}
	return &TaskRunner{
		queue:        queue,
		handlers:     make(map[string]task.Handler),
		pollInterval: cfg.TaskPollInterval,
		concurrency:  concurrency,
		batchSize:    batchSize,
		now:          time.Now,
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
	}
}

// Register はタスク名にハンドラーを登録する。Start より前に呼ぶこと
func (r *TaskRunner) Register(name string, h task.Handler) {
	r.handlers[name] = h
}

// Start はランナーを開始し、停止されるまでブロックする
func (r *TaskRunner) Start(ctx context.Context) {
	logger.Info("タスクランナー開始",
		zap.Duration("poll_interval", r.pollInterval),
		zap.Int("concurrency", r.concurrency),
	)

	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()
	defer close(r.doneCh)

	for {
		select {
		case <-ctx.Done():
			logger.Info("タスクランナー停止（コンテキストキャンセル）")
			return
		case <-r.stopCh:
			logger.Info("タスクランナー停止（シグナル受信）")
			return
		case <-ticker.C:
			// バッチが埋まっている間は待たずに取り出し続ける
			for r.poll(ctx) == r.batchSize && ctx.Err() == nil {
			}
		}
	}
}

// Stop はランナーを停止
func (r *TaskRunner) Stop() {
	close(r.stopCh)
	<-r.doneCh
}

// poll は期限の来たタスクを取り出して並行に実行し、取り出した件数を返す
func (r *TaskRunner) poll(ctx context.Context) int {
	tasks, err := r.queue.Claim(ctx, r.now(), r.batchSize)
	if err != nil {
		// 一部だけ取得できた場合も、取れた分は実行する
		logger.Error("タスク取得に失敗", zap.Error(err), zap.Int("count", len(tasks)))
	}
	if len(tasks) == 0 {
		return 0
	}

	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for _, t := range tasks {
		t := t
		g.Go(func() error {
			r.run(ctx, t)
			return nil
		})
	}
	_ = g.Wait()
	return len(tasks)
}

// run は1件のタスクを実行して ack する
func (r *TaskRunner) run(ctx context.Context, t *task.Task) {
	log := logger.Get().With(zap.String("task_id", t.ID), zap.String("task", t.Name))

	handler, ok := r.handlers[t.Name]
	switch {
	case !ok:
		log.Error("未登録のタスクを破棄します", zap.Error(task.ErrUnknownTask))
		metrics.RecordTask("unknown")
	default:
		if err := handler(ctx, t); err != nil {
			log.Error("タスク実行に失敗", zap.Error(err))
			metrics.RecordTask("failed")
		} else {
			log.Debug("タスク実行完了")
			metrics.RecordTask("succeeded")
		}
	}

	if err := r.queue.Ack(ctx, t.ID); err != nil {
		log.Warn("タスクの ack に失敗", zap.Error(err))
	}
}
