package theatre

import (
	"context"

	"github.com/HAL94/fast-movie-reserve/internal/pkg/pagination"
)

// Repository はシアターリポジトリのインターフェース
type Repository interface {
	Create(ctx context.Context, t *Theatre) error
	GetByID(ctx context.Context, id string) (*Theatre, error)
	List(ctx context.Context, q pagination.Query) ([]*Theatre, int, error)
}
