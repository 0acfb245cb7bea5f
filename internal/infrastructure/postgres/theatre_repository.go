package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/HAL94/fast-movie-reserve/internal/domain/theatre"
	"github.com/HAL94/fast-movie-reserve/internal/pkg/pagination"
)

var TheatreSchema = pagination.MustSchema("theatre_number ASC",
	pagination.Field{Name: "theatre_number", Column: "theatre_number", Kind: pagination.KindString, Sortable: true, Filterable: true},
	pagination.Field{Name: "capacity", Column: "capacity", Kind: pagination.KindInt, Sortable: true, Filterable: true},
)

type theatreRow struct {
	ID            string    `db:"id"`
	TheatreNumber string    `db:"theatre_number"`
	Capacity      int       `db:"capacity"`
	CreatedAt     time.Time `db:"created_at"`
}

func (r *theatreRow) toEntity() *theatre.Theatre {
	return &theatre.Theatre{ID: r.ID, TheatreNumber: r.TheatreNumber, Capacity: r.Capacity, CreatedAt: r.CreatedAt}
}

type TheatreRepository struct{ db *sqlx.DB }

func NewTheatreRepository(db *sqlx.DB) *TheatreRepository { return &TheatreRepository{db: db} }

func (r *TheatreRepository) Create(ctx context.Context, t *theatre.Theatre) error {
	query := `INSERT INTO theatres (theatre_number, capacity, created_at) VALUES ($1, $2, $3) RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, t.TheatreNumber, t.Capacity, t.CreatedAt).Scan(&t.ID); err != nil {
		return fmt.Errorf("シアター作成に失敗: %w", err)
	}
	return nil
}

func (r *TheatreRepository) GetByID(ctx context.Context, id string) (*theatre.Theatre, error) {
	var row theatreRow
	if err := r.db.GetContext(ctx, &row, `SELECT id, theatre_number, capacity, created_at FROM theatres WHERE id = $1`, id); err != nil {
		if isNotFound(err) {
			return nil, theatre.ErrTheatreNotFound
		}
		return nil, fmt.Errorf("シアター取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *TheatreRepository) List(ctx context.Context, q pagination.Query) ([]*theatre.Theatre, int, error) {
	clause, err := TheatreSchema.Build(q)
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.db.GetContext(ctx, &total, r.db.Rebind(`SELECT COUNT(*) FROM theatres`+clause.Where()), clause.Args()...); err != nil {
		return nil, 0, fmt.Errorf("シアター件数取得に失敗: %w", err)
	}

	var rows []theatreRow
	query := r.db.Rebind(`SELECT id, theatre_number, capacity, created_at FROM theatres` + clause.Where() + clause.OrderLimit())
	if err := r.db.SelectContext(ctx, &rows, query, clause.Args()...); err != nil {
		return nil, 0, fmt.Errorf("シアター一覧取得に失敗: %w", err)
	}
	result := make([]*theatre.Theatre, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result, total, nil
}

var _ theatre.Repository = (*TheatreRepository)(nil)
