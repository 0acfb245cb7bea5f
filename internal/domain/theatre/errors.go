package theatre

import "errors"

var (
	ErrTheatreNotFound       = errors.New("シアターが見つかりません")
	ErrTheatreNumberRequired = errors.New("シアター番号は必須です")
	ErrInvalidCapacity       = errors.New("定員は1以上である必要があります")
)
