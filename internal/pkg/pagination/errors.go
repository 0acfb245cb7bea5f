package pagination

import "errors"

var (
	ErrInvalidQuery  = errors.New("ページネーションまたはフィルタの指定が不正です")
	ErrInvalidSchema = errors.New("ページネーションスキーマの定義が不正です")
)
