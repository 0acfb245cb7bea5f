package theatre

import "time"

// Theatre はシアター（スクリーン）
type Theatre struct {
	ID            string
	TheatreNumber string
	Capacity      int
	CreatedAt     time.Time
}

// NewTheatre は新しいシアターを作成する
func NewTheatre(theatreNumber string, capacity int) *Theatre {
	return &Theatre{
		TheatreNumber: theatreNumber,
		Capacity:      capacity,
		CreatedAt:     time.Now(),
	}
}

// Validate はシアターの検証を行う
func (t *Theatre) Validate() error {
	if t.TheatreNumber == "" {
		return ErrTheatreNumberRequired
	}
	if t.Capacity <= 0 {
		return ErrInvalidCapacity
	}
	return nil
}
