package application

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/HAL94/fast-movie-reserve/internal/domain/reservation"
	"github.com/HAL94/fast-movie-reserve/internal/domain/showtime"
	"github.com/HAL94/fast-movie-reserve/internal/domain/transaction"
	"github.com/HAL94/fast-movie-reserve/internal/pkg/logger"
)

// CompletionService は終了した上映の CONFIRMED 予約を COMPLETE にする
type CompletionService struct {
	txManager       transaction.Manager
	showtimeRepo    showtime.Repository
	reservationRepo reservation.Repository
	offset          time.Duration
}

func NewCompletionService(txm transaction.Manager, str showtime.Repository, rr reservation.Repository, offset time.Duration) *CompletionService {
	return &CompletionService{txManager: txm, showtimeRepo: str, reservationRepo: rr, offset: offset}
}

// SweepResult は1回のスイープの結果
type SweepResult struct {
	Showtimes int
	Completed int64
}

// CompleteEndedShowtimes は now - offset より前に終了した未処理の上映を1トランザクションで処理する
// 上映の処理済みフラグと予約の更新は同時にコミットされるので、途中で失敗しても次回やり直せる
func (s *CompletionService) CompleteEndedShowtimes(ctx context.Context, now time.Time) (SweepResult, error) {
	var result SweepResult
	cutoff := now.Add(-s.offset)

	err := transaction.Run(ctx, s.txManager, func(tx transaction.Tx) error {
		pending, err := s.showtimeRepo.ListPendingCompletion(ctx, tx, cutoff)
		if err != nil {
			return err
		}
		ids := make([]string, 0, len(pending))
		for _, st := range pending {
			if !st.HasEndedBefore(cutoff) {
				continue
			}
			ids = append(ids, st.ID)
		}
		if len(ids) == 0 {
			return nil
		}

		completed, err := s.reservationRepo.CompleteConfirmedByShowtimes(ctx, tx, ids)
		if err != nil {
			return err
		}
		if err := s.showtimeRepo.MarkProcessed(ctx, tx, ids); err != nil {
			return err
		}
		result = SweepResult{Showtimes: len(ids), Completed: completed}
		return nil
	})
	if err != nil {
		return SweepResult{}, fmt.Errorf("完了処理に失敗: %w", err)
	}

	if result.Showtimes > 0 {
		logger.Info("終了した上映の予約を完了にしました",
			zap.Int("showtimes", result.Showtimes),
			zap.Int64("count", result.Completed),
			zap.Time("cutoff", cutoff),
		)
	}
	return result, nil
}
