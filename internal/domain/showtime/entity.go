package showtime

import "time"

// Showtime は映画とシアターを [StartAt, EndAt) の時間帯で結びつける上映
type Showtime struct {
	ID                       string
	MovieID                  string
	TheatreID                string
	BaseTicketCost           float64
	StartAt                  time.Time
	EndAt                    time.Time
	IsProcessedForCompletion bool
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

// Detail は表示用に映画名・シアター番号・空席数を付けた上映
type Detail struct {
	Showtime
	MovieTitle     string
	TheatreNumber  string
	SeatsAvailable int
}

// NewShowtime は新しい上映を作成する
func NewShowtime(movieID, theatreID string, baseTicketCost float64, startAt, endAt time.Time) *Showtime {
	now := time.Now()
	return &Showtime{
		MovieID:        movieID,
		TheatreID:      theatreID,
		BaseTicketCost: baseTicketCost,
		StartAt:        startAt,
		EndAt:          endAt,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Validate は上映の検証を行う
func (s *Showtime) Validate() error {
	if s.MovieID == "" {
		return ErrMovieIDRequired
	}
	if s.TheatreID == "" {
		return ErrTheatreIDRequired
	}
	if s.BaseTicketCost < 0 {
		return ErrInvalidTicketCost
	}
	if !s.StartAt.Before(s.EndAt) {
		return ErrInvalidShowtimeTime
	}
	return nil
}

// Overlaps は同じシアターの別の上映と時間帯が重なるかを返す
// 半開区間なので、終了時刻ちょうどに始まる上映は重ならない
func (s *Showtime) Overlaps(other *Showtime) bool {
	if s.TheatreID != other.TheatreID {
		return false
	}
	if s.ID != "" && s.ID == other.ID {
		return false
	}
	return s.StartAt.Before(other.EndAt) && other.StartAt.Before(s.EndAt)
}

// IsBookable は仮押さえを受け付けられるかを返す
// 開始時刻が当日0時以降であればよい（当日開始済みの上映も受け付ける）
func (s *Showtime) IsBookable(now time.Time) bool {
	return !s.StartAt.Before(StartOfDay(now))
}

// HasEndedBefore は終了時刻が cutoff より前かを返す
func (s *Showtime) HasEndedBefore(cutoff time.Time) bool {
	return s.EndAt.Before(cutoff)
}

// StartOfDay は t と同じタイムゾーンでのその日の0時を返す
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
