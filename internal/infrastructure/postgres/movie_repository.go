package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/HAL94/fast-movie-reserve/internal/domain/movie"
	"github.com/HAL94/fast-movie-reserve/internal/domain/transaction"
	"github.com/HAL94/fast-movie-reserve/internal/pkg/pagination"
)

var MovieSchema = pagination.MustSchema("m.title ASC",
	pagination.Field{Name: "title", Column: "m.title", Kind: pagination.KindString, Sortable: true, Filterable: true},
	pagination.Field{Name: "rating", Column: "m.rating", Kind: pagination.KindInt, Sortable: true, Filterable: true},
	pagination.Field{Name: "created_at", Column: "m.created_at", Kind: pagination.KindTime, Sortable: true, Filterable: true},
)

var GenreSchema = pagination.MustSchema("title ASC",
	pagination.Field{Name: "title", Column: "title", Kind: pagination.KindString, Sortable: true, Filterable: true},
)

const movieSelect = `SELECT m.id, m.title, m.description, m.rating, m.image_url, m.created_at, m.updated_at,
	COALESCE(array_agg(g.title ORDER BY g.title) FILTER (WHERE g.id IS NOT NULL), '{}') AS genres
	FROM movies m
	LEFT JOIN movie_genres mg ON mg.movie_id = m.id
	LEFT JOIN genres g ON g.id = mg.genre_id`

type movieRow struct {
	ID          string         `db:"id"`
	Title       string         `db:"title"`
	Description string         `db:"description"`
	Rating      int            `db:"rating"`
	ImageURL    string         `db:"image_url"`
	Genres      pq.StringArray `db:"genres"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func (r *movieRow) toEntity() *movie.Movie {
	genres := []string(r.Genres)
	if genres == nil {
		genres = []string{}
	}
	return &movie.Movie{
		ID: r.ID, Title: r.Title, Description: r.Description, Rating: r.Rating,
		ImageURL: r.ImageURL, Genres: genres, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

type MovieRepository struct{ db *sqlx.DB }

func NewMovieRepository(db *sqlx.DB) *MovieRepository { return &MovieRepository{db: db} }

func (r *MovieRepository) Create(ctx context.Context, tx transaction.Tx, m *movie.Movie) error {
	sqlTx, err := UnwrapTx(tx)
	if err != nil {
		return err
	}
	query := `INSERT INTO movies (title, description, rating, image_url, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	if err := sqlTx.QueryRowContext(ctx, query, m.Title, m.Description, m.Rating, m.ImageURL, m.CreatedAt, m.UpdatedAt).Scan(&m.ID); err != nil {
		if isUniqueViolation(err) {
			return movie.ErrTitleTaken
		}
		return fmt.Errorf("映画作成に失敗: %w", err)
	}
	return nil
}

func (r *MovieRepository) Update(ctx context.Context, tx transaction.Tx, m *movie.Movie) error {
	sqlTx, err := UnwrapTx(tx)
	if err != nil {
		return err
	}
	query := `UPDATE movies SET title = $1, description = $2, rating = $3, image_url = $4, updated_at = $5 WHERE id = $6`
	result, err := sqlTx.ExecContext(ctx, query, m.Title, m.Description, m.Rating, m.ImageURL, m.UpdatedAt, m.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return movie.ErrTitleTaken
		}
		if isNotFound(err) {
			return movie.ErrMovieNotFound
		}
		return fmt.Errorf("映画更新に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return movie.ErrMovieNotFound
	}
	return nil
}

// ReplaceGenres はジャンルを名前で upsert し、映画とジャンルの関連を置き換える
func (r *MovieRepository) ReplaceGenres(ctx context.Context, tx transaction.Tx, movieID string, genres []string) error {
	sqlTx, err := UnwrapTx(tx)
	if err != nil {
		return err
	}
	if _, err := sqlTx.ExecContext(ctx, `DELETE FROM movie_genres WHERE movie_id = $1`, movieID); err != nil {
		return fmt.Errorf("映画ジャンル削除に失敗: %w", err)
	}
	if len(genres) == 0 {
		return nil
	}
	if _, err := sqlTx.ExecContext(ctx, `INSERT INTO genres (title) SELECT unnest($1::text[]) ON CONFLICT (title) DO NOTHING`, pq.Array(genres)); err != nil {
		return fmt.Errorf("ジャンル登録に失敗: %w", err)
	}
	query := `INSERT INTO movie_genres (movie_id, genre_id) SELECT $1, id FROM genres WHERE title = ANY($2) ON CONFLICT DO NOTHING`
	if _, err := sqlTx.ExecContext(ctx, query, movieID, pq.Array(genres)); err != nil {
		return fmt.Errorf("映画ジャンル登録に失敗: %w", err)
	}
	return nil
}

func (r *MovieRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM movies WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return movie.ErrMovieHasShowtimes
		}
		if isNotFound(err) {
			return movie.ErrMovieNotFound
		}
		return fmt.Errorf("映画削除に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return movie.ErrMovieNotFound
	}
	return nil
}

func (r *MovieRepository) GetByID(ctx context.Context, id string) (*movie.Movie, error) {
	var row movieRow
	if err := r.db.GetContext(ctx, &row, movieSelect+` WHERE m.id = $1 GROUP BY m.id`, id); err != nil {
		if isNotFound(err) {
			return nil, movie.ErrMovieNotFound
		}
		return nil, fmt.Errorf("映画取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *MovieRepository) List(ctx context.Context, q pagination.Query) ([]*movie.Movie, int, error) {
	clause, err := MovieSchema.Build(q)
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.db.GetContext(ctx, &total, r.db.Rebind(`SELECT COUNT(*) FROM movies m`+clause.Where()), clause.Args()...); err != nil {
		return nil, 0, fmt.Errorf("映画件数取得に失敗: %w", err)
	}

	var rows []movieRow
	query := r.db.Rebind(movieSelect + clause.Where() + ` GROUP BY m.id` + clause.OrderLimit())
	if err := r.db.SelectContext(ctx, &rows, query, clause.Args()...); err != nil {
		return nil, 0, fmt.Errorf("映画一覧取得に失敗: %w", err)
	}
	result := make([]*movie.Movie, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result, total, nil
}

type genreRow struct {
	ID    string `db:"id"`
	Title string `db:"title"`
}

type GenreRepository struct{ db *sqlx.DB }

func NewGenreRepository(db *sqlx.DB) *GenreRepository { return &GenreRepository{db: db} }

func (r *GenreRepository) Create(ctx context.Context, g *movie.Genre) error {
	if err := r.db.QueryRowContext(ctx, `INSERT INTO genres (title) VALUES ($1) RETURNING id`, g.Title).Scan(&g.ID); err != nil {
		if isUniqueViolation(err) {
			return movie.ErrGenreTitleTaken
		}
		return fmt.Errorf("ジャンル作成に失敗: %w", err)
	}
	return nil
}

func (r *GenreRepository) List(ctx context.Context, q pagination.Query) ([]*movie.Genre, int, error) {
	clause, err := GenreSchema.Build(q)
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.db.GetContext(ctx, &total, r.db.Rebind(`SELECT COUNT(*) FROM genres`+clause.Where()), clause.Args()...); err != nil {
		return nil, 0, fmt.Errorf("ジャンル件数取得に失敗: %w", err)
	}
	var rows []genreRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(`SELECT id, title FROM genres`+clause.Where()+clause.OrderLimit()), clause.Args()...); err != nil {
		return nil, 0, fmt.Errorf("ジャンル一覧取得に失敗: %w", err)
	}
	result := make([]*movie.Genre, len(rows))
	for i, row := range rows {
		result[i] = &movie.Genre{ID: row.ID, Title: row.Title}
	}
	return result, total, nil
}

var (
	_ movie.Repository      = (*MovieRepository)(nil)
	_ movie.GenreRepository = (*GenreRepository)(nil)
)
