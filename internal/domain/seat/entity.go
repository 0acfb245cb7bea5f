package seat

import "time"

// Seat はシアターに属する座席
// 予約状態は持たず、空席かどうかは上映ごとの有効な予約から毎回算出する
type Seat struct {
	ID         string
	TheatreID  string
	SeatNumber string
	Level      string
	CreatedAt  time.Time
}

// NewSeat は新しい座席を作成する
func NewSeat(theatreID, seatNumber, level string) *Seat {
	return &Seat{
		TheatreID:  theatreID,
		SeatNumber: seatNumber,
		Level:      level,
		CreatedAt:  time.Now(),
	}
}

// Validate は座席の検証を行う
func (s *Seat) Validate() error {
	if s.TheatreID == "" {
		return ErrTheatreIDRequired
	}
	if s.SeatNumber == "" {
		return ErrSeatNumberRequired
	}
	if s.Level == "" {
		return ErrLevelRequired
	}
	return nil
}

// BelongsTo は座席が指定シアターに属するかを返す
func (s *Seat) BelongsTo(theatreID string) bool {
	return s.TheatreID == theatreID
}
