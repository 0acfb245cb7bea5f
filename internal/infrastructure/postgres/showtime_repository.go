package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/HAL94/fast-movie-reserve/internal/domain/movie"
	"github.com/HAL94/fast-movie-reserve/internal/domain/showtime"
	"github.com/HAL94/fast-movie-reserve/internal/domain/theatre"
	"github.com/HAL94/fast-movie-reserve/internal/domain/transaction"
	"github.com/HAL94/fast-movie-reserve/internal/pkg/pagination"
)

const showtimeColumns = `s.id, s.movie_id, s.theatre_id, s.base_ticket_cost, s.start_at, s.end_at, s.is_processed_for_completion, s.created_at, s.updated_at`

// 空席数は座席数から有効な予約数を引いてリクエストごとに算出する
const showtimeDetailColumns = showtimeColumns + `, m.title AS movie_title, t.theatre_number,
	(SELECT COUNT(*) FROM seats se WHERE se.theatre_id = s.theatre_id)
	- (SELECT COUNT(*) FROM reservations r WHERE r.showtime_id = s.id AND r.status IN ('HELD', 'CONFIRMED')) AS seats_available`

const showtimeDetailFrom = ` FROM showtimes s
	JOIN movies m ON m.id = s.movie_id
	JOIN theatres t ON t.id = s.theatre_id`

// ShowtimeSchema は上映一覧でソート・フィルタできる項目
var ShowtimeSchema = pagination.MustSchema("s.start_at ASC",
	pagination.Field{Name: "start_at", Column: "s.start_at", Kind: pagination.KindTime, Sortable: true, Filterable: true},
	pagination.Field{Name: "end_at", Column: "s.end_at", Kind: pagination.KindTime, Sortable: true, Filterable: true},
	pagination.Field{Name: "base_ticket_cost", Column: "s.base_ticket_cost", Kind: pagination.KindFloat, Sortable: true, Filterable: true},
	pagination.Field{Name: "movie_id", Column: "s.movie_id", Kind: pagination.KindString, Filterable: true},
	pagination.Field{Name: "theatre_id", Column: "s.theatre_id", Kind: pagination.KindString, Filterable: true},
	pagination.Field{Name: "movie_title", Column: "m.title", Kind: pagination.KindString, Sortable: true, Filterable: true},
	pagination.Field{Name: "is_processed_for_completion", Column: "s.is_processed_for_completion", Kind: pagination.KindBool, Filterable: true},
)

type showtimeRow struct {
	ID                       string    `db:"id"`
	MovieID                  string    `db:"movie_id"`
	TheatreID                string    `db:"theatre_id"`
	BaseTicketCost           float64   `db:"base_ticket_cost"`
	StartAt                  time.Time `db:"start_at"`
	EndAt                    time.Time `db:"end_at"`
	IsProcessedForCompletion bool      `db:"is_processed_for_completion"`
	CreatedAt                time.Time `db:"created_at"`
	UpdatedAt                time.Time `db:"updated_at"`
}

func (r *showtimeRow) toEntity() *showtime.Showtime {
	return &showtime.Showtime{
		ID: r.ID, MovieID: r.MovieID, TheatreID: r.TheatreID,
		BaseTicketCost: r.BaseTicketCost, StartAt: r.StartAt, EndAt: r.EndAt,
		IsProcessedForCompletion: r.IsProcessedForCompletion,
		CreatedAt:                r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

type showtimeDetailRow struct {
	showtimeRow
	MovieTitle     string `db:"movie_title"`
	TheatreNumber  string `db:"theatre_number"`
	SeatsAvailable int    `db:"seats_available"`
}

func (r *showtimeDetailRow) toDetail() *showtime.Detail {
	return &showtime.Detail{
		Showtime:       *r.showtimeRow.toEntity(),
		MovieTitle:     r.MovieTitle,
		TheatreNumber:  r.TheatreNumber,
		SeatsAvailable: r.SeatsAvailable,
	}
}

type ShowtimeRepository struct{ db *sqlx.DB }

func NewShowtimeRepository(db *sqlx.DB) *ShowtimeRepository {
	return &ShowtimeRepository{db: db}
}

func (r *ShowtimeRepository) Create(ctx context.Context, tx transaction.Tx, s *showtime.Showtime) error {
	sqlTx, err := UnwrapTx(tx)
	if err != nil {
		return err
	}
	query := `INSERT INTO showtimes (movie_id, theatre_id, base_ticket_cost, start_at, end_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err = sqlTx.QueryRowContext(ctx, query, s.MovieID, s.TheatreID, s.BaseTicketCost, s.StartAt, s.EndAt, s.CreatedAt, s.UpdatedAt).Scan(&s.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return movie.ErrMovieNotFound
		}
		return fmt.Errorf("上映作成に失敗: %w", err)
	}
	return nil
}

func (r *ShowtimeRepository) Update(ctx context.Context, tx transaction.Tx, s *showtime.Showtime) error {
	sqlTx, err := UnwrapTx(tx)
	if err != nil {
		return err
	}
	query := `UPDATE showtimes SET movie_id = $1, theatre_id = $2, base_ticket_cost = $3, start_at = $4, end_at = $5,
		is_processed_for_completion = $6, updated_at = $7 WHERE id = $8`
	result, err := sqlTx.ExecContext(ctx, query, s.MovieID, s.TheatreID, s.BaseTicketCost, s.StartAt, s.EndAt,
		s.IsProcessedForCompletion, s.UpdatedAt, s.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return movie.ErrMovieNotFound
		}
		return fmt.Errorf("上映更新に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return showtime.ErrShowtimeNotFound
	}
	return nil
}

func (r *ShowtimeRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM showtimes WHERE id = $1`, id)
	if err != nil {
		if isNotFound(err) {
			return showtime.ErrShowtimeNotFound
		}
		return fmt.Errorf("上映削除に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return showtime.ErrShowtimeNotFound
	}
	return nil
}

func (r *ShowtimeRepository) GetByID(ctx context.Context, id string) (*showtime.Showtime, error) {
	var row showtimeRow
	if err := r.db.GetContext(ctx, &row, `SELECT `+showtimeColumns+` FROM showtimes s WHERE s.id = $1`, id); err != nil {
		if isNotFound(err) {
			return nil, showtime.ErrShowtimeNotFound
		}
		return nil, fmt.Errorf("上映取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *ShowtimeRepository) GetDetail(ctx context.Context, id string) (*showtime.Detail, error) {
	var row showtimeDetailRow
	query := `SELECT ` + showtimeDetailColumns + showtimeDetailFrom + ` WHERE s.id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if isNotFound(err) {
			return nil, showtime.ErrShowtimeNotFound
		}
		return nil, fmt.Errorf("上映取得に失敗: %w", err)
	}
	return row.toDetail(), nil
}

// ListByTheatreForUpdate はシアター行をロックしてから上映を返す
// 同じシアターへの上映登録はこのロックで直列化される
func (r *ShowtimeRepository) ListByTheatreForUpdate(ctx context.Context, tx transaction.Tx, theatreID string) ([]*showtime.Showtime, error) {
	sqlTx, err := UnwrapTx(tx)
	if err != nil {
		return nil, err
	}
	var locked string
	if err := sqlTx.GetContext(ctx, &locked, `SELECT id FROM theatres WHERE id = $1 FOR UPDATE`, theatreID); err != nil {
		if isNotFound(err) {
			return nil, theatre.ErrTheatreNotFound
		}
		return nil, fmt.Errorf("シアターのロックに失敗: %w", err)
	}

	var rows []showtimeRow
	query := `SELECT ` + showtimeColumns + ` FROM showtimes s WHERE s.theatre_id = $1 ORDER BY s.start_at`
	if err := sqlTx.SelectContext(ctx, &rows, query, theatreID); err != nil {
		return nil, fmt.Errorf("上映一覧取得に失敗: %w", err)
	}
	return toShowtimes(rows), nil
}

func (r *ShowtimeRepository) List(ctx context.Context, q pagination.Query) ([]*showtime.Detail, int, error) {
	clause, err := ShowtimeSchema.Build(q)
	if err != nil {
		return nil, 0, err
	}
	return r.list(ctx, clause)
}

func (r *ShowtimeRepository) ListUpcoming(ctx context.Context, from time.Time, q pagination.Query) ([]*showtime.Detail, int, error) {
	clause, err := ShowtimeSchema.Build(q)
	if err != nil {
		return nil, 0, err
	}
	clause.And("s.start_at >= ?", from)
	return r.list(ctx, clause)
}

func (r *ShowtimeRepository) list(ctx context.Context, clause *pagination.Clause) ([]*showtime.Detail, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, r.db.Rebind(`SELECT COUNT(*)`+showtimeDetailFrom+clause.Where()), clause.Args()...); err != nil {
		return nil, 0, fmt.Errorf("上映件数取得に失敗: %w", err)
	}

	var rows []showtimeDetailRow
	query := r.db.Rebind(`SELECT ` + showtimeDetailColumns + showtimeDetailFrom + clause.Where() + clause.OrderLimit())
	if err := r.db.SelectContext(ctx, &rows, query, clause.Args()...); err != nil {
		return nil, 0, fmt.Errorf("上映一覧取得に失敗: %w", err)
	}
	result := make([]*showtime.Detail, len(rows))
	for i := range rows {
		result[i] = rows[i].toDetail()
	}
	return result, total, nil
}

func (r *ShowtimeRepository) ListPendingCompletion(ctx context.Context, tx transaction.Tx, cutoff time.Time) ([]*showtime.Showtime, error) {
	sqlTx, err := UnwrapTx(tx)
	if err != nil {
		return nil, err
	}
	var rows []showtimeRow
	query := `SELECT ` + showtimeColumns + ` FROM showtimes s
		WHERE s.is_processed_for_completion = FALSE AND s.end_at < $1
		ORDER BY s.end_at
		FOR UPDATE SKIP LOCKED`
	if err := sqlTx.SelectContext(ctx, &rows, query, cutoff); err != nil {
		return nil, fmt.Errorf("完了対象の上映取得に失敗: %w", err)
	}
	return toShowtimes(rows), nil
}

func (r *ShowtimeRepository) MarkProcessed(ctx context.Context, tx transaction.Tx, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	sqlTx, err := UnwrapTx(tx)
	if err != nil {
		return err
	}
	_, err = sqlTx.ExecContext(ctx, `UPDATE showtimes SET is_processed_for_completion = TRUE, updated_at = NOW() WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("上映の完了フラグ更新に失敗: %w", err)
	}
	return nil
}

func toShowtimes(rows []showtimeRow) []*showtime.Showtime {
	result := make([]*showtime.Showtime, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result
}

var _ showtime.Repository = (*ShowtimeRepository)(nil)
