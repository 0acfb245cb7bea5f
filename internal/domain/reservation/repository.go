package reservation

import (
	"context"
	"time"

	"github.com/HAL94/fast-movie-reserve/internal/domain/transaction"
	"github.com/HAL94/fast-movie-reserve/internal/pkg/pagination"
)

// Detail は一覧・詳細表示用に上映と座席の概要を含めた予約
type Detail struct {
	Reservation
	MovieTitle      string
	TheatreNumber   string
	SeatNumber      string
	SeatLevel       string
	ShowtimeStartAt time.Time
	ShowtimeEndAt   time.Time
}

// Repository は予約リポジトリのインターフェース
type Repository interface {
	// Create は新しい予約を作成する（トランザクション必須）
	// 同じ上映・座席に有効な予約があれば ErrSeatAlreadyReserved を返す
	Create(ctx context.Context, tx transaction.Tx, reservation *Reservation) error

	// GetByID はIDから予約を取得する
	GetByID(ctx context.Context, id string) (*Reservation, error)

	// GetByIDForUpdate は行ロックを取って予約を取得する（トランザクション必須）
	GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*Reservation, error)

	// GetDetail は上映・座席の概要付きで予約を取得する
	GetDetail(ctx context.Context, id string) (*Detail, error)

	// UpdateStatus は現在の状態が from の場合のみ予約を更新する（トランザクション必須）
	// 条件に一致しなければ ErrInvalidTransition を返す
	UpdateStatus(ctx context.Context, tx transaction.Tx, reservation *Reservation, from Status) error

	// DeleteHeld は HELD の予約のみ削除し、削除したかを返す（トランザクション必須）
	DeleteHeld(ctx context.Context, tx transaction.Tx, id string) (bool, error)

	// CompleteConfirmedByShowtimes は指定上映の CONFIRMED 予約を COMPLETE に一括更新する（トランザクション必須）
	CompleteConfirmedByShowtimes(ctx context.Context, tx transaction.Tx, showtimeIDs []string) (int64, error)

	// ActiveSeatIDs は上映で HELD / CONFIRMED の予約が付いている座席IDを返す
	ActiveSeatIDs(ctx context.Context, showtimeID string) ([]string, error)

	// ListByUser はユーザーの予約一覧を取得する
	ListByUser(ctx context.Context, userID string, q pagination.Query) ([]*Detail, int, error)

	// List は全予約の一覧を取得する
	List(ctx context.Context, q pagination.Query) ([]*Detail, int, error)
}

// TaskIndex は予約IDから保留中の期限切れチェックタスクIDを引くためのキャッシュ
// 正しさの判断には使わない
type TaskIndex interface {
	Set(ctx context.Context, reservationID, taskID string, ttl time.Duration) error
	// Get はエントリがなければ ErrTaskIndexMiss を返す
	Get(ctx context.Context, reservationID string) (string, error)
	Delete(ctx context.Context, reservationID string) error
}

// TaskKey はタスクインデックスのキー
func TaskKey(reservationID string) string {
	return "reservations:" + reservationID + ":task"
}
