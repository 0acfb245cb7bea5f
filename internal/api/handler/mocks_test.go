package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/HAL94/fast-movie-reserve/internal/application"
	"github.com/HAL94/fast-movie-reserve/internal/domain/movie"
	"github.com/HAL94/fast-movie-reserve/internal/domain/reporting"
	"github.com/HAL94/fast-movie-reserve/internal/domain/reservation"
	"github.com/HAL94/fast-movie-reserve/internal/domain/seat"
	"github.com/HAL94/fast-movie-reserve/internal/domain/showtime"
	"github.com/HAL94/fast-movie-reserve/internal/domain/theatre"
	"github.com/HAL94/fast-movie-reserve/internal/pkg/pagination"
)

// MockReservationService はReservationServiceInterfaceのモック
type MockReservationService struct {
	mock.Mock
}

func (m *MockReservationService) detail(args mock.Arguments) (*reservation.Detail, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reservation.Detail), args.Error(1)
}

func (m *MockReservationService) page(args mock.Arguments) (*pagination.Page[*reservation.Detail], error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pagination.Page[*reservation.Detail]), args.Error(1)
}

func (m *MockReservationService) CreateHeld(ctx context.Context, input application.HoldSeatInput) (*reservation.Detail, error) {
	return m.detail(m.Called(ctx, input))
}

func (m *MockReservationService) ConfirmHeld(ctx context.Context, id, userID, paymentID string) (*reservation.Detail, error) {
	return m.detail(m.Called(ctx, id, userID, paymentID))
}

func (m *MockReservationService) MarkNoShow(ctx context.Context, id string) (*reservation.Detail, error) {
	return m.detail(m.Called(ctx, id))
}

func (m *MockReservationService) Cancel(ctx context.Context, id, userID string) (*reservation.Detail, error) {
	return m.detail(m.Called(ctx, id, userID))
}

func (m *MockReservationService) GetReservation(ctx context.Context, id string) (*reservation.Detail, error) {
	return m.detail(m.Called(ctx, id))
}

func (m *MockReservationService) GetReservationForUser(ctx context.Context, id, userID string) (*reservation.Detail, error) {
	return m.detail(m.Called(ctx, id, userID))
}

func (m *MockReservationService) ListForUser(ctx context.Context, userID string, q pagination.Query) (*pagination.Page[*reservation.Detail], error) {
	return m.page(m.Called(ctx, userID, q))
}

func (m *MockReservationService) ListAll(ctx context.Context, q pagination.Query) (*pagination.Page[*reservation.Detail], error) {
	return m.page(m.Called(ctx, q))
}

// MockSeatService はSeatServiceInterfaceのモック
type MockSeatService struct {
	mock.Mock
}

func (m *MockSeatService) CreateSeat(ctx context.Context, input application.CreateSeatInput) (*seat.Seat, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*seat.Seat), args.Error(1)
}

func (m *MockSeatService) CreateBulkSeats(ctx context.Context, input application.CreateBulkSeatsInput) ([]*seat.Seat, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*seat.Seat), args.Error(1)
}

func (m *MockSeatService) GetAvailableSeats(ctx context.Context, showtimeID string, q pagination.Query) (*pagination.Page[*seat.Seat], error) {
	args := m.Called(ctx, showtimeID, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pagination.Page[*seat.Seat]), args.Error(1)
}

// MockShowtimeService はShowtimeServiceInterfaceのモック
type MockShowtimeService struct {
	mock.Mock
}

func (m *MockShowtimeService) detail(args mock.Arguments) (*showtime.Detail, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*showtime.Detail), args.Error(1)
}

func (m *MockShowtimeService) page(args mock.Arguments) (*pagination.Page[*showtime.Detail], error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pagination.Page[*showtime.Detail]), args.Error(1)
}

func (m *MockShowtimeService) CreateShowtime(ctx context.Context, input application.ShowtimeInput) (*showtime.Detail, error) {
	return m.detail(m.Called(ctx, input))
}

func (m *MockShowtimeService) UpdateShowtime(ctx context.Context, id string, input application.ShowtimeInput) (*showtime.Detail, error) {
	return m.detail(m.Called(ctx, id, input))
}

func (m *MockShowtimeService) DeleteShowtime(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockShowtimeService) GetShowtime(ctx context.Context, id string) (*showtime.Detail, error) {
	return m.detail(m.Called(ctx, id))
}

func (m *MockShowtimeService) ListShowtimes(ctx context.Context, q pagination.Query) (*pagination.Page[*showtime.Detail], error) {
	return m.page(m.Called(ctx, q))
}

func (m *MockShowtimeService) ListLatest(ctx context.Context, q pagination.Query) (*pagination.Page[*showtime.Detail], error) {
	return m.page(m.Called(ctx, q))
}

// MockMovieService はMovieServiceInterfaceのモック
type MockMovieService struct {
	mock.Mock
}

func (m *MockMovieService) movie(args mock.Arguments) (*movie.Movie, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*movie.Movie), args.Error(1)
}

func (m *MockMovieService) CreateMovie(ctx context.Context, input application.CreateMovieInput) (*movie.Movie, error) {
	return m.movie(m.Called(ctx, input))
}

func (m *MockMovieService) UpdateMovie(ctx context.Context, id string, input application.UpdateMovieInput) (*movie.Movie, error) {
	return m.movie(m.Called(ctx, id, input))
}

func (m *MockMovieService) DeleteMovie(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockMovieService) GetMovie(ctx context.Context, id string) (*movie.Movie, error) {
	return m.movie(m.Called(ctx, id))
}

func (m *MockMovieService) ListMovies(ctx context.Context, q pagination.Query) (*pagination.Page[*movie.Movie], error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pagination.Page[*movie.Movie]), args.Error(1)
}

func (m *MockMovieService) CreateGenre(ctx context.Context, title string) (*movie.Genre, error) {
	args := m.Called(ctx, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*movie.Genre), args.Error(1)
}

func (m *MockMovieService) ListGenres(ctx context.Context, q pagination.Query) (*pagination.Page[*movie.Genre], error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pagination.Page[*movie.Genre]), args.Error(1)
}

// MockTheatreService はTheatreServiceInterfaceのモック
type MockTheatreService struct {
	mock.Mock
}

func (m *MockTheatreService) CreateTheatre(ctx context.Context, theatreNumber string, capacity int) (*theatre.Theatre, error) {
	args := m.Called(ctx, theatreNumber, capacity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*theatre.Theatre), args.Error(1)
}

func (m *MockTheatreService) ListTheatres(ctx context.Context, q pagination.Query) (*pagination.Page[*theatre.Theatre], error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pagination.Page[*theatre.Theatre]), args.Error(1)
}

// MockReportingService はReportingServiceInterfaceのモック
type MockReportingService struct {
	mock.Mock
}

func (m *MockReportingService) PotentialRevenue(ctx context.Context) ([]*reporting.MovieRevenue, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*reporting.MovieRevenue), args.Error(1)
}
