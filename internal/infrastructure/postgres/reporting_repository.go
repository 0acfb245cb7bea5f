package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/HAL94/fast-movie-reserve/internal/domain/reporting"
	"github.com/HAL94/fast-movie-reserve/internal/domain/reservation"
)

type movieRevenueRow struct {
	MovieTitle  string  `db:"movie_title"`
	Revenue     float64 `db:"revenue"`
	TicketsSold int     `db:"tickets_sold"`
}

type ReportingRepository struct{ db *sqlx.DB }

func NewReportingRepository(db *sqlx.DB) *ReportingRepository { return &ReportingRepository{db: db} }

func (r *ReportingRepository) PotentialRevenue(ctx context.Context) ([]*reporting.MovieRevenue, error) {
	query := `SELECT m.title AS movie_title, COALESCE(SUM(r.final_price), 0) AS revenue, COUNT(r.id) AS tickets_sold
		FROM movies m
		JOIN showtimes s ON s.movie_id = m.id
		JOIN reservations r ON r.showtime_id = s.id
		WHERE r.status = $1 AND r.is_paid
		GROUP BY m.title
		ORDER BY revenue DESC, m.title`
	var rows []movieRevenueRow
	if err := r.db.SelectContext(ctx, &rows, query, string(reservation.StatusConfirmed)); err != nil {
		return nil, fmt.Errorf("売上集計に失敗: %w", err)
	}
	result := make([]*reporting.MovieRevenue, len(rows))
	for i, row := range rows {
		result[i] = &reporting.MovieRevenue{MovieTitle: row.MovieTitle, Revenue: row.Revenue, TicketsSold: row.TicketsSold}
	}
	return result, nil
}

var _ reporting.Repository = (*ReportingRepository)(nil)
