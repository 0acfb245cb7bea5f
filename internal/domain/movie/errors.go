package movie

import "errors"

// Movie ドメインのエラー定義
var (
	ErrMovieNotFound      = errors.New("映画が見つかりません")
	ErrTitleTaken         = errors.New("同じタイトルの映画が既に存在します")
	ErrTitleRequired      = errors.New("タイトルは必須です")
	ErrInvalidRating      = errors.New("レーティングは0から10の範囲で指定してください")
	ErrGenreTitleRequired = errors.New("ジャンル名は必須です")
	ErrGenreTitleTaken    = errors.New("同じ名前のジャンルが既に存在します")
	ErrMovieHasShowtimes  = errors.New("上映が登録されている映画は削除できません")
)
