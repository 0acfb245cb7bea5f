package reservation

import "time"

// Status は予約の状態を表す
type Status string

const (
	StatusHeld      Status = "HELD"
	StatusConfirmed Status = "CONFIRMED"
	StatusComplete  Status = "COMPLETE"
	StatusNoShow    Status = "NO_SHOW"
	StatusCanceled  Status = "CANCELED"
)

// IsActive は座席を塞ぐ状態（HELD / CONFIRMED）かを返す
func (s Status) IsActive() bool {
	return s == StatusHeld || s == StatusConfirmed
}

// IsValid は定義済みの状態かを返す
func (s Status) IsValid() bool {
	switch s {
	case StatusHeld, StatusConfirmed, StatusComplete, StatusNoShow, StatusCanceled:
		return true
	}
	return false
}

// Reservation は1上映・1座席の予約エンティティ
//
// 状態遷移は HELD→CONFIRMED→{COMPLETE, NO_SHOW, CANCELED} のみ。
// HELD のまま期限切れになった予約は行ごと削除される。
type Reservation struct {
	ID         string
	ShowtimeID string
	SeatID     string
	UserID     string
	Status     Status
	ReservedAt time.Time
	IsPaid     bool
	IsRefunded bool
	FinalPrice float64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewHeld は仮押さえ状態の予約を作成する
// finalPrice は作成時点の上映の基本料金をスナップショットしたもの
func NewHeld(showtimeID, seatID, userID string, finalPrice float64, reservedAt time.Time) *Reservation {
	now := time.Now()
	if reservedAt.IsZero() {
		reservedAt = now
	}
	return &Reservation{
		ShowtimeID: showtimeID,
		SeatID:     seatID,
		UserID:     userID,
		Status:     StatusHeld,
		ReservedAt: reservedAt,
		IsPaid:     false,
		IsRefunded: false,
		FinalPrice: finalPrice,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Validate は予約の検証を行う
func (r *Reservation) Validate() error {
	if r.ShowtimeID == "" {
		return ErrShowtimeIDRequired
	}
	if r.SeatID == "" {
		return ErrSeatIDRequired
	}
	if r.UserID == "" {
		return ErrUserIDRequired
	}
	if r.FinalPrice < 0 {
		return ErrInvalidPrice
	}
	return nil
}

// IsActive は座席を塞いでいるかを返す
func (r *Reservation) IsActive() bool {
	return r.Status.IsActive()
}

// IsOwnedBy は予約の所有者かを返す
func (r *Reservation) IsOwnedBy(userID string) bool {
	return r.UserID == userID
}

// Confirm は HELD → CONFIRMED に遷移し、支払い済みにする
// 決済IDの検証はサービス層で行う
func (r *Reservation) Confirm(userID string) error {
	if !r.IsOwnedBy(userID) || r.Status != StatusHeld {
		return ErrInvalidTransition
	}
	r.Status = StatusConfirmed
	r.IsPaid = true
	r.UpdatedAt = time.Now()
	return nil
}

// Cancel は CONFIRMED → CANCELED に遷移する
func (r *Reservation) Cancel(userID string) error {
	if !r.IsOwnedBy(userID) || r.Status != StatusConfirmed {
		return ErrInvalidTransition
	}
	r.Status = StatusCanceled
	r.UpdatedAt = time.Now()
	return nil
}

// MarkNoShow は CONFIRMED → NO_SHOW に遷移する（管理者操作）
func (r *Reservation) MarkNoShow() error {
	if r.Status != StatusConfirmed {
		return ErrInvalidTransition
	}
	r.Status = StatusNoShow
	r.UpdatedAt = time.Now()
	return nil
}

// IsExpirable は期限切れチェックで削除してよい状態かを返す
func (r *Reservation) IsExpirable() bool {
	return r.Status == StatusHeld
}
