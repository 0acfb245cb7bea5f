package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/HAL94/fast-movie-reserve/internal/domain/seat"
	"github.com/HAL94/fast-movie-reserve/internal/domain/theatre"
	"github.com/HAL94/fast-movie-reserve/internal/pkg/pagination"
)

// SeatSchema は空席一覧でソート・フィルタできる項目
var SeatSchema = pagination.MustSchema("se.seat_number ASC",
	pagination.Field{Name: "seat_number", Column: "se.seat_number", Kind: pagination.KindString, Sortable: true, Filterable: true},
	pagination.Field{Name: "level", Column: "se.level", Kind: pagination.KindString, Sortable: true, Filterable: true},
)

type seatRow struct {
	ID         string    `db:"id"`
	TheatreID  string    `db:"theatre_id"`
	SeatNumber string    `db:"seat_number"`
	Level      string    `db:"level"`
	CreatedAt  time.Time `db:"created_at"`
}

func (r *seatRow) toEntity() *seat.Seat {
	return &seat.Seat{
		ID: r.ID, TheatreID: r.TheatreID, SeatNumber: r.SeatNumber,
		Level: r.Level, CreatedAt: r.CreatedAt,
	}
}

type SeatRepository struct{ db *sqlx.DB }

func NewSeatRepository(db *sqlx.DB) *SeatRepository { return &SeatRepository{db: db} }

func (r *SeatRepository) Create(ctx context.Context, s *seat.Seat) error {
	query := `INSERT INTO seats (theatre_id, seat_number, level, created_at) VALUES ($1, $2, $3, $4) RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, s.TheatreID, s.SeatNumber, s.Level, s.CreatedAt).Scan(&s.ID); err != nil {
		return mapSeatWriteError(err)
	}
	return nil
}

func (r *SeatRepository) CreateBulk(ctx context.Context, seats []*seat.Seat) error {
	if len(seats) == 0 {
		return nil
	}

	// バッチサイズごとに分割してマルチバリューINSERTを実行
	const batchSize = 1000
	for i := 0; i < len(seats); i += batchSize {
		end := min(i+batchSize, len(seats))
		if err := r.createBulkBatch(ctx, seats[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (r *SeatRepository) createBulkBatch(ctx context.Context, seats []*seat.Seat) error {
	query := `INSERT INTO seats (theatre_id, seat_number, level, created_at) VALUES `
	args := make([]interface{}, 0, len(seats)*4)
	placeholders := make([]string, 0, len(seats))

	for i, s := range seats {
		base := i * 4
		placeholders = append(placeholders, fmt.Sprintf("($%d, $%d, $%d, $%d)", base+1, base+2, base+3, base+4))
		args = append(args, s.TheatreID, s.SeatNumber, s.Level, s.CreatedAt)
	}

	query += strings.Join(placeholders, ", ") + " RETURNING id"
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, args...); err != nil {
		return mapSeatWriteError(err)
	}
	for i := range ids {
		seats[i].ID = ids[i]
	}
	return nil
}

func mapSeatWriteError(err error) error {
	switch {
	case isUniqueViolation(err):
		return seat.ErrSeatNumberTaken
	case isForeignKeyViolation(err), pqCode(err) == codeInvalidText:
		return theatre.ErrTheatreNotFound
	}
	return fmt.Errorf("座席作成に失敗: %w", err)
}

func (r *SeatRepository) GetByID(ctx context.Context, id string) (*seat.Seat, error) {
	var row seatRow
	if err := r.db.GetContext(ctx, &row, `SELECT id, theatre_id, seat_number, level, created_at FROM seats WHERE id = $1`, id); err != nil {
		if isNotFound(err) {
			return nil, seat.ErrSeatNotFound
		}
		return nil, fmt.Errorf("座席取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *SeatRepository) CountByTheatre(ctx context.Context, theatreID string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM seats WHERE theatre_id = $1`, theatreID); err != nil {
		if isNotFound(err) {
			return 0, theatre.ErrTheatreNotFound
		}
		return 0, fmt.Errorf("座席数取得に失敗: %w", err)
	}
	return count, nil
}

// ListByTheatreExcluding はシアターの座席から excluded を除いてページングする
func (r *SeatRepository) ListByTheatreExcluding(ctx context.Context, theatreID string, excluded []string, q pagination.Query) ([]*seat.Seat, int, error) {
	clause, err := SeatSchema.Build(q)
	if err != nil {
		return nil, 0, err
	}
	clause.And("se.theatre_id = ?", theatreID)
	if len(excluded) > 0 {
		clause.And("NOT (se.id = ANY(?))", pq.Array(excluded))
	}

	var total int
	if err := r.db.GetContext(ctx, &total, r.db.Rebind(`SELECT COUNT(*) FROM seats se`+clause.Where()), clause.Args()...); err != nil {
		return nil, 0, fmt.Errorf("空席数取得に失敗: %w", err)
	}

	var rows []seatRow
	query := r.db.Rebind(`SELECT se.id, se.theatre_id, se.seat_number, se.level, se.created_at FROM seats se` + clause.Where() + clause.OrderLimit())
	if err := r.db.SelectContext(ctx, &rows, query, clause.Args()...); err != nil {
		return nil, 0, fmt.Errorf("空席一覧取得に失敗: %w", err)
	}
	seats := make([]*seat.Seat, len(rows))
	for i := range rows {
		seats[i] = rows[i].toEntity()
	}
	return seats, total, nil
}

var _ seat.Repository = (*SeatRepository)(nil)
