package main

import (
	"context"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/HAL94/fast-movie-reserve/internal/application"
	"github.com/HAL94/fast-movie-reserve/internal/config"
	"github.com/HAL94/fast-movie-reserve/internal/domain/task"
	"github.com/HAL94/fast-movie-reserve/internal/infrastructure/postgres"
	redisinfra "github.com/HAL94/fast-movie-reserve/internal/infrastructure/redis"
	"github.com/HAL94/fast-movie-reserve/internal/pkg/logger"
	"github.com/HAL94/fast-movie-reserve/internal/pkg/metrics"
	"github.com/HAL94/fast-movie-reserve/internal/worker"
)

// worker は遅延タスク（仮押さえの期限切れチェック）と上映終了後の完了処理を実行する
func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Env)
	defer logger.Sync()
	metrics.Init()

	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		logger.Fatal("データベース接続エラー", zap.Error(err))
	}
	defer db.Close()

	rc, err := redisinfra.NewClient(redisinfra.ConfigFrom(&cfg.Redis))
	if err != nil {
		logger.Fatal("Redis接続エラー", zap.Error(err))
	}
	defer rc.Close()

	txManager := postgres.NewTxManager(db)
	showtimeRepo := postgres.NewShowtimeRepository(db)
	seatRepo := postgres.NewSeatRepository(db)
	reservationRepo := postgres.NewReservationRepository(db)

	queue := redisinfra.NewDelayQueue(rc, redisinfra.DefaultQueuePrefix, cfg.Jobs.TaskLease)
	taskIndex := redisinfra.NewTaskIndex(rc)
	locks := redisinfra.NewLockManager(rc)

	reservationService := application.NewReservationService(
		txManager, reservationRepo, showtimeRepo, seatRepo, queue, taskIndex, cfg.Reservation,
	)
	completionService := application.NewCompletionService(txManager, showtimeRepo, reservationRepo, cfg.Jobs.CompletionOffset)

	runner := worker.NewTaskRunner(queue, cfg.Jobs)
	runner.Register(task.NameCheckIfConfirmed, worker.ExpiryCheckHandler(reservationService))
	sweeper := worker.NewCompletionSweeper(completionService, locks, cfg.Jobs.CompletionInterval)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if scheduled, processing, err := queue.Len(ctx); err == nil {
		logger.Info("ワーカーを起動します",
			zap.Int64("scheduled", scheduled),
			zap.Int64("processing", processing),
		)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		runner.Start(gctx)
		return nil
	})
	g.Go(func() error {
		sweeper.Start(gctx)
		return nil
	})

	<-gctx.Done()
	logger.Info("ワーカーを停止しています...")
	runner.Stop()
	sweeper.Stop()

	if err := g.Wait(); err != nil {
		logger.Error("ワーカー停止エラー", zap.Error(err))
		return
	}
	logger.Info("ワーカーが正常に停止しました")
}
