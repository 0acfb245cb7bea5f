package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/HAL94/fast-movie-reserve/internal/domain/reservation"
	"github.com/HAL94/fast-movie-reserve/internal/domain/transaction"
	"github.com/HAL94/fast-movie-reserve/internal/pkg/pagination"
)

const activeSeatIndex = "uq_reservations_active_seat"

const reservationColumns = `r.id, r.showtime_id, r.seat_id, r.user_id, r.status, r.reserved_at, r.is_paid, r.is_refunded, r.final_price, r.created_at, r.updated_at`

const reservationDetailFrom = ` FROM reservations r
	JOIN showtimes s ON s.id = r.showtime_id
	JOIN movies m ON m.id = s.movie_id
	JOIN theatres t ON t.id = s.theatre_id
	JOIN seats se ON se.id = r.seat_id`

const reservationDetailColumns = reservationColumns + `, m.title AS movie_title, t.theatre_number, se.seat_number, se.level AS seat_level, s.start_at AS showtime_start_at, s.end_at AS showtime_end_at`

// ReservationSchema は予約一覧でソート・フィルタできる項目
var ReservationSchema = pagination.MustSchema("r.reserved_at DESC",
	pagination.Field{Name: "status", Column: "r.status", Kind: pagination.KindString, Sortable: true, Filterable: true},
	pagination.Field{Name: "reserved_at", Column: "r.reserved_at", Kind: pagination.KindTime, Sortable: true, Filterable: true},
	pagination.Field{Name: "final_price", Column: "r.final_price", Kind: pagination.KindFloat, Sortable: true, Filterable: true},
	pagination.Field{Name: "is_paid", Column: "r.is_paid", Kind: pagination.KindBool, Filterable: true},
	pagination.Field{Name: "showtime_id", Column: "r.showtime_id", Kind: pagination.KindString, Filterable: true},
	pagination.Field{Name: "user_id", Column: "r.user_id", Kind: pagination.KindString, Filterable: true},
	pagination.Field{Name: "start_at", Column: "s.start_at", Kind: pagination.KindTime, Sortable: true, Filterable: true},
	pagination.Field{Name: "movie_title", Column: "m.title", Kind: pagination.KindString, Sortable: true, Filterable: true},
)

type reservationRow struct {
	ID         string    `db:"id"`
	ShowtimeID string    `db:"showtime_id"`
	SeatID     string    `db:"seat_id"`
	UserID     string    `db:"user_id"`
	Status     string    `db:"status"`
	ReservedAt time.Time `db:"reserved_at"`
	IsPaid     bool      `db:"is_paid"`
	IsRefunded bool      `db:"is_refunded"`
	FinalPrice float64   `db:"final_price"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (r *reservationRow) toEntity() *reservation.Reservation {
	return &reservation.Reservation{
		ID: r.ID, ShowtimeID: r.ShowtimeID, SeatID: r.SeatID, UserID: r.UserID,
		Status: reservation.Status(r.Status), ReservedAt: r.ReservedAt,
		IsPaid: r.IsPaid, IsRefunded: r.IsRefunded, FinalPrice: r.FinalPrice,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

type reservationDetailRow struct {
	reservationRow
	MovieTitle      string    `db:"movie_title"`
	TheatreNumber   string    `db:"theatre_number"`
	SeatNumber      string    `db:"seat_number"`
	SeatLevel       string    `db:"seat_level"`
	ShowtimeStartAt time.Time `db:"showtime_start_at"`
	ShowtimeEndAt   time.Time `db:"showtime_end_at"`
}

func (r *reservationDetailRow) toDetail() *reservation.Detail {
	return &reservation.Detail{
		Reservation:     *r.reservationRow.toEntity(),
		MovieTitle:      r.MovieTitle,
		TheatreNumber:   r.TheatreNumber,
		SeatNumber:      r.SeatNumber,
		SeatLevel:       r.SeatLevel,
		ShowtimeStartAt: r.ShowtimeStartAt,
		ShowtimeEndAt:   r.ShowtimeEndAt,
	}
}

type ReservationRepository struct{ db *sqlx.DB }

func NewReservationRepository(db *sqlx.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

func (r *ReservationRepository) Create(ctx context.Context, tx transaction.Tx, res *reservation.Reservation) error {
	sqlTx, err := UnwrapTx(tx)
	if err != nil {
		return err
	}
	query := `INSERT INTO reservations (showtime_id, seat_id, user_id, status, reserved_at, is_paid, is_refunded, final_price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	err = sqlTx.QueryRowContext(ctx, query,
		res.ShowtimeID, res.SeatID, res.UserID, string(res.Status), res.ReservedAt,
		res.IsPaid, res.IsRefunded, res.FinalPrice, res.CreatedAt, res.UpdatedAt,
	).Scan(&res.ID)
	if err != nil {
		if isUniqueViolation(err) && constraintName(err) == activeSeatIndex {
			return reservation.ErrSeatAlreadyReserved
		}
		return fmt.Errorf("予約作成に失敗: %w", err)
	}
	return nil
}

func (r *ReservationRepository) GetByID(ctx context.Context, id string) (*reservation.Reservation, error) {
	return r.get(ctx, r.db, `SELECT `+reservationColumns+` FROM reservations r WHERE r.id = $1`, id)
}

func (r *ReservationRepository) GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*reservation.Reservation, error) {
	sqlTx, err := UnwrapTx(tx)
	if err != nil {
		return nil, err
	}
	return r.get(ctx, sqlTx, `SELECT `+reservationColumns+` FROM reservations r WHERE r.id = $1 FOR UPDATE`, id)
}

func (r *ReservationRepository) get(ctx context.Context, q queryer, query, id string) (*reservation.Reservation, error) {
	var row reservationRow
	if err := q.GetContext(ctx, &row, query, id); err != nil {
		if isNotFound(err) {
			return nil, reservation.ErrReservationNotFound
		}
		return nil, fmt.Errorf("予約取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *ReservationRepository) GetDetail(ctx context.Context, id string) (*reservation.Detail, error) {
	var row reservationDetailRow
	query := `SELECT ` + reservationDetailColumns + reservationDetailFrom + ` WHERE r.id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if isNotFound(err) {
			return nil, reservation.ErrReservationNotFound
		}
		return nil, fmt.Errorf("予約取得に失敗: %w", err)
	}
	return row.toDetail(), nil
}

// UpdateStatus は WHERE status = from を条件に1往復で更新する
func (r *ReservationRepository) UpdateStatus(ctx context.Context, tx transaction.Tx, res *reservation.Reservation, from reservation.Status) error {
	sqlTx, err := UnwrapTx(tx)
	if err != nil {
		return err
	}
	query := `UPDATE reservations SET status = $1, is_paid = $2, is_refunded = $3, updated_at = $4 WHERE id = $5 AND status = $6`
	result, err := sqlTx.ExecContext(ctx, query, string(res.Status), res.IsPaid, res.IsRefunded, res.UpdatedAt, res.ID, string(from))
	if err != nil {
		return fmt.Errorf("予約更新に失敗: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("予約更新に失敗: %w", err)
	}
	if rows == 0 {
		return reservation.ErrInvalidTransition
	}
	return nil
}

func (r *ReservationRepository) DeleteHeld(ctx context.Context, tx transaction.Tx, id string) (bool, error) {
	sqlTx, err := UnwrapTx(tx)
	if err != nil {
		return false, err
	}
	result, err := sqlTx.ExecContext(ctx, `DELETE FROM reservations WHERE id = $1 AND status = $2`, id, string(reservation.StatusHeld))
	if err != nil {
		return false, fmt.Errorf("予約削除に失敗: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("予約削除に失敗: %w", err)
	}
	return rows > 0, nil
}

func (r *ReservationRepository) CompleteConfirmedByShowtimes(ctx context.Context, tx transaction.Tx, showtimeIDs []string) (int64, error) {
	if len(showtimeIDs) == 0 {
		return 0, nil
	}
	sqlTx, err := UnwrapTx(tx)
	if err != nil {
		return 0, err
	}
	query := `UPDATE reservations SET status = $1, updated_at = NOW() WHERE showtime_id = ANY($2) AND status = $3`
	result, err := sqlTx.ExecContext(ctx, query, string(reservation.StatusComplete), pq.Array(showtimeIDs), string(reservation.StatusConfirmed))
	if err != nil {
		return 0, fmt.Errorf("予約の一括完了に失敗: %w", err)
	}
	return result.RowsAffected()
}

func (r *ReservationRepository) ActiveSeatIDs(ctx context.Context, showtimeID string) ([]string, error) {
	var ids []string
	query := `SELECT seat_id FROM reservations WHERE showtime_id = $1 AND status = ANY($2)`
	active := []string{string(reservation.StatusHeld), string(reservation.StatusConfirmed)}
	if err := r.db.SelectContext(ctx, &ids, query, showtimeID, pq.Array(active)); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("予約済み座席の取得に失敗: %w", err)
	}
	return ids, nil
}

func (r *ReservationRepository) ListByUser(ctx context.Context, userID string, q pagination.Query) ([]*reservation.Detail, int, error) {
	clause, err := ReservationSchema.Build(q)
	if err != nil {
		return nil, 0, err
	}
	clause.And("r.user_id = ?", userID)
	return r.list(ctx, clause)
}

func (r *ReservationRepository) List(ctx context.Context, q pagination.Query) ([]*reservation.Detail, int, error) {
	clause, err := ReservationSchema.Build(q)
	if err != nil {
		return nil, 0, err
	}
	return r.list(ctx, clause)
}

func (r *ReservationRepository) list(ctx context.Context, clause *pagination.Clause) ([]*reservation.Detail, int, error) {
	var total int
	countQuery := r.db.Rebind(`SELECT COUNT(*)` + reservationDetailFrom + clause.Where())
	if err := r.db.GetContext(ctx, &total, countQuery, clause.Args()...); err != nil {
		return nil, 0, fmt.Errorf("予約件数取得に失敗: %w", err)
	}

	var rows []reservationDetailRow
	query := r.db.Rebind(`SELECT ` + reservationDetailColumns + reservationDetailFrom + clause.Where() + clause.OrderLimit())
	if err := r.db.SelectContext(ctx, &rows, query, clause.Args()...); err != nil {
		return nil, 0, fmt.Errorf("予約一覧取得に失敗: %w", err)
	}

	result := make([]*reservation.Detail, len(rows))
	for i := range rows {
		result[i] = rows[i].toDetail()
	}
	return result, total, nil
}

var _ reservation.Repository = (*ReservationRepository)(nil)
