package showtime

import "errors"

// Showtime ドメインのエラー定義
var (
	ErrShowtimeNotFound      = errors.New("上映が見つかりません")
	ErrShowtimeOverlap       = errors.New("同じシアターの上映と時間帯が重複しています")
	ErrHasActiveReservations = errors.New("有効な予約がある上映はシアターを変更できません")
	ErrInvalidShowtimeTime   = errors.New("開始時刻は終了時刻より前である必要があります")
	ErrInvalidTicketCost     = errors.New("基本料金は0以上である必要があります")
	ErrMovieIDRequired       = errors.New("映画IDは必須です")
	ErrTheatreIDRequired     = errors.New("シアターIDは必須です")
)
