package showtime

import (
	"context"
	"time"

	"github.com/HAL94/fast-movie-reserve/internal/domain/transaction"
	"github.com/HAL94/fast-movie-reserve/internal/pkg/pagination"
)

// Repository は上映リポジトリのインターフェース
type Repository interface {
	// Create は上映を作成する（トランザクション必須）
	Create(ctx context.Context, tx transaction.Tx, s *Showtime) error

	// Update は上映を更新する（トランザクション必須）
	Update(ctx context.Context, tx transaction.Tx, s *Showtime) error

	// Delete は上映を削除する
	Delete(ctx context.Context, id string) error

	// GetByID はIDから上映を取得する
	GetByID(ctx context.Context, id string) (*Showtime, error)

	// GetDetail は空席数付きで上映を取得する
	GetDetail(ctx context.Context, id string) (*Detail, error)

	// ListByTheatreForUpdate はシアターの上映を行ロック付きで取得する（重複チェック用、トランザクション必須）
	ListByTheatreForUpdate(ctx context.Context, tx transaction.Tx, theatreID string) ([]*Showtime, error)

	// List は上映一覧を取得する
	List(ctx context.Context, q pagination.Query) ([]*Detail, int, error)

	// ListUpcoming は from 以降に開始する上映一覧を取得する
	ListUpcoming(ctx context.Context, from time.Time, q pagination.Query) ([]*Detail, int, error)

	// ListPendingCompletion は cutoff より前に終了し、未処理の上映を取得する（トランザクション必須）
	// 並行するスイープと重ならないよう SKIP LOCKED で取得する
	ListPendingCompletion(ctx context.Context, tx transaction.Tx, cutoff time.Time) ([]*Showtime, error)

	// MarkProcessed は完了処理済みフラグを立てる（トランザクション必須）
	MarkProcessed(ctx context.Context, tx transaction.Tx, ids []string) error
}
