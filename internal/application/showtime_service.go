package application

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/HAL94/fast-movie-reserve/internal/domain/movie"
	"github.com/HAL94/fast-movie-reserve/internal/domain/reservation"
	"github.com/HAL94/fast-movie-reserve/internal/domain/showtime"
	"github.com/HAL94/fast-movie-reserve/internal/domain/transaction"
	"github.com/HAL94/fast-movie-reserve/internal/pkg/logger"
	"github.com/HAL94/fast-movie-reserve/internal/pkg/pagination"
)

type ShowtimeService struct {
	txManager       transaction.Manager
	showtimeRepo    showtime.Repository
	movieRepo       movie.Repository
	reservationRepo reservation.Repository
	now             func() time.Time
}

func NewShowtimeService(txm transaction.Manager, str showtime.Repository, mr movie.Repository, rr reservation.Repository) *ShowtimeService {
	return &ShowtimeService{txManager: txm, showtimeRepo: str, movieRepo: mr, reservationRepo: rr, now: time.Now}
}

type ShowtimeInput struct {
	MovieID        string
	TheatreID      string
	BaseTicketCost float64
	StartAt        time.Time
	EndAt          time.Time
}

func (s *ShowtimeService) CreateShowtime(ctx context.Context, input ShowtimeInput) (*showtime.Detail, error) {
	st := showtime.NewShowtime(input.MovieID, input.TheatreID, input.BaseTicketCost, input.StartAt, input.EndAt)
	if err := s.save(ctx, st, true); err != nil {
		return nil, err
	}
	logger.Info("上映を作成しました", zap.String("showtime_id", st.ID), zap.String("theatre_id", st.TheatreID))
	return s.showtimeRepo.GetDetail(ctx, st.ID)
}

func (s *ShowtimeService) UpdateShowtime(ctx context.Context, id string, input ShowtimeInput) (*showtime.Detail, error) {
	st, err := s.showtimeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// 座席はシアターに属するので、予約が付いたままシアターは移せない
	if input.TheatreID != st.TheatreID {
		active, err := s.reservationRepo.ActiveSeatIDs(ctx, id)
		if err != nil {
			return nil, err
		}
		if len(active) > 0 {
			return nil, showtime.ErrHasActiveReservations
		}
	}
	// 終了時刻が変われば完了スイープの対象に戻す
	if !input.EndAt.Equal(st.EndAt) {
		st.IsProcessedForCompletion = false
	}
	st.MovieID = input.MovieID
	st.TheatreID = input.TheatreID
	st.BaseTicketCost = input.BaseTicketCost
	st.StartAt = input.StartAt
	st.EndAt = input.EndAt
	st.UpdatedAt = s.now()

	if err := s.save(ctx, st, false); err != nil {
		return nil, err
	}
	return s.showtimeRepo.GetDetail(ctx, st.ID)
}

// save は同じシアターの上映を行ロックしたうえで重複を確認して書き込む
// 同時に作成された上映同士の重複もシアター行のロックで直列化される
func (s *ShowtimeService) save(ctx context.Context, st *showtime.Showtime, create bool) error {
	if err := st.Validate(); err != nil {
		return fmt.Errorf("バリデーションエラー: %w", err)
	}
	if _, err := s.movieRepo.GetByID(ctx, st.MovieID); err != nil {
		return err
	}

	return transaction.Run(ctx, s.txManager, func(tx transaction.Tx) error {
		existing, err := s.showtimeRepo.ListByTheatreForUpdate(ctx, tx, st.TheatreID)
		if err != nil {
			return err
		}
		for _, other := range existing {
			if st.Overlaps(other) {
				return showtime.ErrShowtimeOverlap
			}
		}
		if create {
			return s.showtimeRepo.Create(ctx, tx, st)
		}
		return s.showtimeRepo.Update(ctx, tx, st)
	})
}

func (s *ShowtimeService) DeleteShowtime(ctx context.Context, id string) error {
	return s.showtimeRepo.Delete(ctx, id)
}

func (s *ShowtimeService) GetShowtime(ctx context.Context, id string) (*showtime.Detail, error) {
	return s.showtimeRepo.GetDetail(ctx, id)
}

func (s *ShowtimeService) ListShowtimes(ctx context.Context, q pagination.Query) (*pagination.Page[*showtime.Detail], error) {
	items, total, err := s.showtimeRepo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return pagination.NewPage(q, items, total), nil
}

// ListLatest は現在時刻以降に始まる上映を返す
func (s *ShowtimeService) ListLatest(ctx context.Context, q pagination.Query) (*pagination.Page[*showtime.Detail], error) {
	items, total, err := s.showtimeRepo.ListUpcoming(ctx, s.now(), q)
	if err != nil {
		return nil, err
	}
	return pagination.NewPage(q, items, total), nil
}
