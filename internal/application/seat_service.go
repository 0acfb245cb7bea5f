package application

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/HAL94/fast-movie-reserve/internal/domain/reservation"
	"github.com/HAL94/fast-movie-reserve/internal/domain/seat"
	"github.com/HAL94/fast-movie-reserve/internal/domain/showtime"
	"github.com/HAL94/fast-movie-reserve/internal/domain/theatre"
	"github.com/HAL94/fast-movie-reserve/internal/pkg/logger"
	"github.com/HAL94/fast-movie-reserve/internal/pkg/pagination"
)

type SeatService struct {
	seatRepo        seat.Repository
	theatreRepo     theatre.Repository
	showtimeRepo    showtime.Repository
	reservationRepo reservation.Repository
}

func NewSeatService(sr seat.Repository, tr theatre.Repository, str showtime.Repository, rr reservation.Repository) *SeatService {
	return &SeatService{seatRepo: sr, theatreRepo: tr, showtimeRepo: str, reservationRepo: rr}
}

type CreateSeatInput struct {
	TheatreID  string
	SeatNumber string
	Level      string
}

func (s *SeatService) CreateSeat(ctx context.Context, input CreateSeatInput) (*seat.Seat, error) {
	se := seat.NewSeat(input.TheatreID, input.SeatNumber, input.Level)
	if err := se.Validate(); err != nil {
		return nil, err
	}
	if err := s.ensureCapacity(ctx, input.TheatreID, 1); err != nil {
		return nil, err
	}
	if err := s.seatRepo.Create(ctx, se); err != nil {
		return nil, err
	}
	return se, nil
}

type CreateBulkSeatsInput struct {
	TheatreID string
	Prefix    string
	Count     int
	Level     string
}

// CreateBulkSeats は "<Prefix><連番>" の座席をまとめて作成する
func (s *SeatService) CreateBulkSeats(ctx context.Context, input CreateBulkSeatsInput) ([]*seat.Seat, error) {
	seats := make([]*seat.Seat, 0, input.Count)
	for i := 1; i <= input.Count; i++ {
		seatNumber := fmt.Sprintf("%s%d", input.Prefix, i)
		se := seat.NewSeat(input.TheatreID, seatNumber, input.Level)
		if err := se.Validate(); err != nil {
			return nil, err
		}
		seats = append(seats, se)
	}
	if err := s.ensureCapacity(ctx, input.TheatreID, len(seats)); err != nil {
		return nil, err
	}
	if err := s.seatRepo.CreateBulk(ctx, seats); err != nil {
		return nil, err
	}
	logger.Info("座席を一括作成しました", zap.String("theatre_id", input.TheatreID), zap.Int("count", len(seats)))
	return seats, nil
}

// ensureCapacity は追加後の座席数がシアターの定員を超えないことを確認する
func (s *SeatService) ensureCapacity(ctx context.Context, theatreID string, adding int) error {
	th, err := s.theatreRepo.GetByID(ctx, theatreID)
	if err != nil {
		return fmt.Errorf("シアター取得に失敗: %w", err)
	}
	count, err := s.seatRepo.CountByTheatre(ctx, theatreID)
	if err != nil {
		return err
	}
	if count+adding > th.Capacity {
		return seat.ErrTheatreFull
	}
	return nil
}

func (s *SeatService) GetSeat(ctx context.Context, id string) (*seat.Seat, error) {
	return s.seatRepo.GetByID(ctx, id)
}

// GetAvailableSeats は上映のシアターの座席から HELD / CONFIRMED の予約が付いたものを除いて返す
func (s *SeatService) GetAvailableSeats(ctx context.Context, showtimeID string, q pagination.Query) (*pagination.Page[*seat.Seat], error) {
	st, err := s.showtimeRepo.GetByID(ctx, showtimeID)
	if err != nil {
		return nil, err
	}
	taken, err := s.reservationRepo.ActiveSeatIDs(ctx, st.ID)
	if err != nil {
		return nil, err
	}
	seats, total, err := s.seatRepo.ListByTheatreExcluding(ctx, st.TheatreID, taken, q)
	if err != nil {
		return nil, err
	}
	return pagination.NewPage(q, seats, total), nil
}
