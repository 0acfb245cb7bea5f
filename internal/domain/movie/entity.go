package movie

import (
	"strings"
	"time"
)

// MaxRating はレーティングの上限
const MaxRating = 10

// Movie は映画エンティティ
type Movie struct {
	ID          string
	Title       string
	Description string
	Rating      int
	ImageURL    string
	Genres      []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Genre はジャンル
type Genre struct {
	ID    string
	Title string
}

// NewMovie は新しい映画を作成する
func NewMovie(title, description string, rating int, imageURL string, genres []string) *Movie {
	now := time.Now()
	return &Movie{
		Title:       strings.TrimSpace(title),
		Description: description,
		Rating:      rating,
		ImageURL:    imageURL,
		Genres:      NormalizeGenres(genres),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Validate は映画の検証を行う
func (m *Movie) Validate() error {
	if m.Title == "" {
		return ErrTitleRequired
	}
	if m.Rating < 0 || m.Rating > MaxRating {
		return ErrInvalidRating
	}
	return nil
}

// NormalizeGenres は前後の空白を除き、空要素と重複を取り除く
// nil はそのまま nil を返す（更新時に「ジャンル変更なし」を表す）
func NormalizeGenres(genres []string) []string {
	if genres == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(genres))
	out := make([]string, 0, len(genres))
	for _, g := range genres {
		g = strings.TrimSpace(g)
		if g == "" {
			continue
		}
		key := strings.ToLower(g)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, g)
	}
	return out
}
