package reservation

import "errors"

// Reservation ドメインのエラー定義
var (
	ErrReservationNotFound = errors.New("予約が見つかりません")
	ErrSeatAlreadyReserved = errors.New("座席は既にこの上映で予約されています")
	ErrInvalidTransition   = errors.New("この予約は変更できません")
	ErrPaymentRejected     = errors.New("決済が確認できません")
	ErrSchedulingFailed    = errors.New("期限切れチェックの登録に失敗しました")
	ErrShowtimeIDRequired  = errors.New("上映IDは必須です")
	ErrSeatIDRequired      = errors.New("座席IDは必須です")
	ErrUserIDRequired      = errors.New("ユーザーIDは必須です")
	ErrInvalidPrice        = errors.New("価格は0以上である必要があります")
	ErrTaskIndexMiss       = errors.New("タスクインデックスにエントリがありません")
)
