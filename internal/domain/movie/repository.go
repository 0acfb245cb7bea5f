package movie

import (
	"context"

	"github.com/HAL94/fast-movie-reserve/internal/domain/transaction"
	"github.com/HAL94/fast-movie-reserve/internal/pkg/pagination"
)

// Repository は映画リポジトリのインターフェース
type Repository interface {
	// Create は映画を作成する（トランザクション必須）
	Create(ctx context.Context, tx transaction.Tx, m *Movie) error

	// Update は映画を更新する（トランザクション必須）
	Update(ctx context.Context, tx transaction.Tx, m *Movie) error

	// ReplaceGenres はジャンルを名前で upsert し、映画のジャンルを置き換える（トランザクション必須）
	ReplaceGenres(ctx context.Context, tx transaction.Tx, movieID string, genres []string) error

	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Movie, error)
	List(ctx context.Context, q pagination.Query) ([]*Movie, int, error)
}

// GenreRepository はジャンルリポジトリのインターフェース
type GenreRepository interface {
	Create(ctx context.Context, g *Genre) error
	List(ctx context.Context, q pagination.Query) ([]*Genre, int, error)
}
