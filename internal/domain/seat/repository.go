package seat

import (
	"context"

	"github.com/HAL94/fast-movie-reserve/internal/pkg/pagination"
)

// Repository は座席リポジトリのインターフェース
type Repository interface {
	// Create は新しい座席を作成する
	Create(ctx context.Context, seat *Seat) error

	// CreateBulk は複数の座席を一括作成する
	CreateBulk(ctx context.Context, seats []*Seat) error

	// GetByID はIDから座席を取得する
	GetByID(ctx context.Context, id string) (*Seat, error)

	// CountByTheatre はシアターの座席数を返す
	CountByTheatre(ctx context.Context, theatreID string) (int, error)

	// ListByTheatreExcluding はシアターの座席から excluded を除いた一覧を返す
	ListByTheatreExcluding(ctx context.Context, theatreID string, excluded []string, q pagination.Query) ([]*Seat, int, error)
}
