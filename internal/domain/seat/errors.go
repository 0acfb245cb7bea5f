package seat

import "errors"

// Seat ドメインのエラー定義
var (
	ErrSeatNotFound       = errors.New("座席が見つかりません")
	ErrSeatNumberTaken    = errors.New("同じシアターに同じ座席番号が既に存在します")
	ErrTheatreFull        = errors.New("シアターの定員に達しています")
	ErrTheatreIDRequired  = errors.New("シアターIDは必須です")
	ErrSeatNumberRequired = errors.New("座席番号は必須です")
	ErrLevelRequired      = errors.New("座席レベルは必須です")
)
