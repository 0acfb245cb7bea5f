package handler

import (
	"context"

	"github.com/HAL94/fast-movie-reserve/internal/application"
	"github.com/HAL94/fast-movie-reserve/internal/domain/movie"
	"github.com/HAL94/fast-movie-reserve/internal/domain/reporting"
	"github.com/HAL94/fast-movie-reserve/internal/domain/reservation"
	"github.com/HAL94/fast-movie-reserve/internal/domain/seat"
	"github.com/HAL94/fast-movie-reserve/internal/domain/showtime"
	"github.com/HAL94/fast-movie-reserve/internal/domain/theatre"
	"github.com/HAL94/fast-movie-reserve/internal/pkg/pagination"
)

// ReservationServiceInterface は予約サービスのインターフェース
type ReservationServiceInterface interface {
	CreateHeld(ctx context.Context, input application.HoldSeatInput) (*reservation.Detail, error)
	ConfirmHeld(ctx context.Context, id, userID, paymentID string) (*reservation.Detail, error)
	MarkNoShow(ctx context.Context, id string) (*reservation.Detail, error)
	Cancel(ctx context.Context, id, userID string) (*reservation.Detail, error)
	GetReservation(ctx context.Context, id string) (*reservation.Detail, error)
	GetReservationForUser(ctx context.Context, id, userID string) (*reservation.Detail, error)
	ListForUser(ctx context.Context, userID string, q pagination.Query) (*pagination.Page[*reservation.Detail], error)
	ListAll(ctx context.Context, q pagination.Query) (*pagination.Page[*reservation.Detail], error)
}

// SeatServiceInterface は座席サービスのインターフェース
type SeatServiceInterface interface {
	CreateSeat(ctx context.Context, input application.CreateSeatInput) (*seat.Seat, error)
	CreateBulkSeats(ctx context.Context, input application.CreateBulkSeatsInput) ([]*seat.Seat, error)
	GetAvailableSeats(ctx context.Context, showtimeID string, q pagination.Query) (*pagination.Page[*seat.Seat], error)
}

// ShowtimeServiceInterface は上映サービスのインターフェース
type ShowtimeServiceInterface interface {
	CreateShowtime(ctx context.Context, input application.ShowtimeInput) (*showtime.Detail, error)
	UpdateShowtime(ctx context.Context, id string, input application.ShowtimeInput) (*showtime.Detail, error)
	DeleteShowtime(ctx context.Context, id string) error
	GetShowtime(ctx context.Context, id string) (*showtime.Detail, error)
	ListShowtimes(ctx context.Context, q pagination.Query) (*pagination.Page[*showtime.Detail], error)
	ListLatest(ctx context.Context, q pagination.Query) (*pagination.Page[*showtime.Detail], error)
}

// MovieServiceInterface は映画・ジャンルサービスのインターフェース
type MovieServiceInterface interface {
	CreateMovie(ctx context.Context, input application.CreateMovieInput) (*movie.Movie, error)
	UpdateMovie(ctx context.Context, id string, input application.UpdateMovieInput) (*movie.Movie, error)
	DeleteMovie(ctx context.Context, id string) error
	GetMovie(ctx context.Context, id string) (*movie.Movie, error)
	ListMovies(ctx context.Context, q pagination.Query) (*pagination.Page[*movie.Movie], error)
	CreateGenre(ctx context.Context, title string) (*movie.Genre, error)
	ListGenres(ctx context.Context, q pagination.Query) (*pagination.Page[*movie.Genre], error)
}

// TheatreServiceInterface はシアターサービスのインターフェース
type TheatreServiceInterface interface {
	CreateTheatre(ctx context.Context, theatreNumber string, capacity int) (*theatre.Theatre, error)
	ListTheatres(ctx context.Context, q pagination.Query) (*pagination.Page[*theatre.Theatre], error)
}

// ReportingServiceInterface は集計サービスのインターフェース
type ReportingServiceInterface interface {
	PotentialRevenue(ctx context.Context) ([]*reporting.MovieRevenue, error)
}
