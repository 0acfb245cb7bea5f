package worker

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/HAL94/fast-movie-reserve/internal/application"
	redisinfra "github.com/HAL94/fast-movie-reserve/internal/infrastructure/redis"
	"github.com/HAL94/fast-movie-reserve/internal/pkg/logger"
	"github.com/HAL94/fast-movie-reserve/internal/pkg/metrics"
)

const completionLockKey = "jobs:convert_reservations_to_complete"

// ShowtimeCompleter は終了した上映の予約を完了にするインターフェース
type ShowtimeCompleter interface {
	CompleteEndedShowtimes(ctx context.Context, now time.Time) (application.SweepResult, error)
}

// CompletionSweeper は一定間隔で完了スイープを実行するワーカー
// 複数のワーカープロセスがあっても分散ロックで同時実行を1つに絞る
type CompletionSweeper struct {
	completer ShowtimeCompleter
	locks     redisinfra.LockManagerInterface
	interval  time.Duration
	now       func() time.Time
	stopCh    chan struct{}
	doneCh    chan struct{}
}

// NewCompletionSweeper は新しいスイーパーを作成。locks が nil ならロックなしで実行する
func NewCompletionSweeper(c ShowtimeCompleter, locks redisinfra.LockManagerInterface, interval time.Duration) *CompletionSweeper {
	return &CompletionSweeper{
		completer: c,
		locks:     locks,
		interval:  interval,
		now:       time.Now,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start はスイーパーを開始し、停止されるまでブロックする
func (s *CompletionSweeper) Start(ctx context.Context) {
	logger.Info("完了スイーパー開始", zap.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	defer close(s.doneCh)

	for {
		select {
		case <-ctx.Done():
			logger.Info("完了スイーパー停止（コンテキストキャンセル）")
			return
		case <-s.stopCh:
			logger.Info("完了スイーパー停止（シグナル受信）")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// Stop はスイーパーを停止
func (s *CompletionSweeper) Stop() {
	close(s.stopCh)
	<-s.doneCh
}

// sweep は1回分の完了処理。失敗はログに残し、次回に再試行される
func (s *CompletionSweeper) sweep(ctx context.Context) {
	log := logger.Get()

	if s.locks != nil {
		// ロックの有効期限はスイープ間隔と同じにしておく
		lock, err := s.locks.AcquireLock(ctx, completionLockKey, s.interval)
		if errors.Is(err, redisinfra.ErrLockNotAcquired) {
			log.Debug("他のワーカーが完了スイープを実行中")
			metrics.RecordCompletionSweep("skipped", 0)
			return
		}
		if err != nil {
			log.Error("完了スイープのロック取得に失敗", zap.Error(err))
			metrics.RecordCompletionSweep("error", 0)
			return
		}
		defer func() {
			if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
				log.Warn("完了スイープのロック解放に失敗", zap.Error(err))
			}
		}()

		stop := s.keepAlive(ctx, lock)
		defer stop()
	}

	result, err := s.completer.CompleteEndedShowtimes(ctx, s.now())
	if err != nil {
		log.Error("完了スイープ失敗", zap.Error(err))
		metrics.RecordCompletionSweep("error", 0)
		return
	}
	metrics.RecordCompletionSweep("success", result.Completed)

	if result.Showtimes == 0 {
		log.Debug("完了対象の上映なし")
	}
}

// keepAlive はスイープ中、間隔の半分ごとにロックを延長する。返り値の関数で止める
func (s *CompletionSweeper) keepAlive(ctx context.Context, lock redisinfra.Lock) func() {
	stopCh := make(chan struct{})
	doneCh := make(chan struct{})

	go func() {
		defer close(doneCh)
		ticker := time.NewTicker(s.interval / 2)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-stopCh:
				return
			case <-ticker.C:
				if err := lock.Extend(ctx, s.interval); err != nil {
					logger.Warn("完了スイープのロック延長に失敗", zap.Error(err))
					return
				}
			}
		}
	}()

	return func() {
		close(stopCh)
		<-doneCh
	}
}
