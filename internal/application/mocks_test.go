package application

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/HAL94/fast-movie-reserve/internal/domain/movie"
	"github.com/HAL94/fast-movie-reserve/internal/domain/reporting"
	"github.com/HAL94/fast-movie-reserve/internal/domain/reservation"
	"github.com/HAL94/fast-movie-reserve/internal/domain/seat"
	"github.com/HAL94/fast-movie-reserve/internal/domain/showtime"
	"github.com/HAL94/fast-movie-reserve/internal/domain/theatre"
	"github.com/HAL94/fast-movie-reserve/internal/domain/transaction"
	"github.com/HAL94/fast-movie-reserve/internal/pkg/pagination"
)

// === Mock implementations ===

// MockTxManager implements transaction.Manager
type MockTxManager struct {
	mock.Mock
}

func (m *MockTxManager) Begin(ctx context.Context) (transaction.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(transaction.Tx), args.Error(1)
}

// MockTx implements transaction.Tx
type MockTx struct {
	mock.Mock
}

func (m *MockTx) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTx) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

// MockReservationRepository implements reservation.Repository
type MockReservationRepository struct {
	mock.Mock
}

func (m *MockReservationRepository) Create(ctx context.Context, tx transaction.Tx, r *reservation.Reservation) error {
	args := m.Called(ctx, tx, r)
	return args.Error(0)
}

func (m *MockReservationRepository) GetByID(ctx context.Context, id string) (*reservation.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reservation.Reservation), args.Error(1)
}

func (m *MockReservationRepository) GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*reservation.Reservation, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reservation.Reservation), args.Error(1)
}

func (m *MockReservationRepository) GetDetail(ctx context.Context, id string) (*reservation.Detail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reservation.Detail), args.Error(1)
}

func (m *MockReservationRepository) UpdateStatus(ctx context.Context, tx transaction.Tx, r *reservation.Reservation, from reservation.Status) error {
	args := m.Called(ctx, tx, r, from)
	return args.Error(0)
}

func (m *MockReservationRepository) DeleteHeld(ctx context.Context, tx transaction.Tx, id string) (bool, error) {
	args := m.Called(ctx, tx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockReservationRepository) CompleteConfirmedByShowtimes(ctx context.Context, tx transaction.Tx, ids []string) (int64, error) {
	args := m.Called(ctx, tx, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReservationRepository) ActiveSeatIDs(ctx context.Context, showtimeID string) ([]string, error) {
	args := m.Called(ctx, showtimeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockReservationRepository) ListByUser(ctx context.Context, userID string, q pagination.Query) ([]*reservation.Detail, int, error) {
	args := m.Called(ctx, userID, q)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*reservation.Detail), args.Int(1), args.Error(2)
}

func (m *MockReservationRepository) List(ctx context.Context, q pagination.Query) ([]*reservation.Detail, int, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*reservation.Detail), args.Int(1), args.Error(2)
}

// MockShowtimeRepository implements showtime.Repository
type MockShowtimeRepository struct {
	mock.Mock
}

func (m *MockShowtimeRepository) Create(ctx context.Context, tx transaction.Tx, s *showtime.Showtime) error {
	args := m.Called(ctx, tx, s)
	return args.Error(0)
}

func (m *MockShowtimeRepository) Update(ctx context.Context, tx transaction.Tx, s *showtime.Showtime) error {
	args := m.Called(ctx, tx, s)
	return args.Error(0)
}

func (m *MockShowtimeRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockShowtimeRepository) GetByID(ctx context.Context, id string) (*showtime.Showtime, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*showtime.Showtime), args.Error(1)
}

func (m *MockShowtimeRepository) GetDetail(ctx context.Context, id string) (*showtime.Detail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*showtime.Detail), args.Error(1)
}

func (m *MockShowtimeRepository) ListByTheatreForUpdate(ctx context.Context, tx transaction.Tx, theatreID string) ([]*showtime.Showtime, error) {
	args := m.Called(ctx, tx, theatreID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*showtime.Showtime), args.Error(1)
}

func (m *MockShowtimeRepository) List(ctx context.Context, q pagination.Query) ([]*showtime.Detail, int, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*showtime.Detail), args.Int(1), args.Error(2)
}

func (m *MockShowtimeRepository) ListUpcoming(ctx context.Context, from time.Time, q pagination.Query) ([]*showtime.Detail, int, error) {
	args := m.Called(ctx, from, q)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*showtime.Detail), args.Int(1), args.Error(2)
}

func (m *MockShowtimeRepository) ListPendingCompletion(ctx context.Context, tx transaction.Tx, cutoff time.Time) ([]*showtime.Showtime, error) {
	args := m.Called(ctx, tx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*showtime.Showtime), args.Error(1)
}

func (m *MockShowtimeRepository) MarkProcessed(ctx context.Context, tx transaction.Tx, ids []string) error {
	args := m.Called(ctx, tx, ids)
	return args.Error(0)
}

// MockSeatRepository implements seat.Repository
type MockSeatRepository struct {
	mock.Mock
}

func (m *MockSeatRepository) Create(ctx context.Context, s *seat.Seat) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSeatRepository) CreateBulk(ctx context.Context, seats []*seat.Seat) error {
	args := m.Called(ctx, seats)
	return args.Error(0)
}

func (m *MockSeatRepository) GetByID(ctx context.Context, id string) (*seat.Seat, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*seat.Seat), args.Error(1)
}

func (m *MockSeatRepository) CountByTheatre(ctx context.Context, theatreID string) (int, error) {
	args := m.Called(ctx, theatreID)
	return args.Int(0), args.Error(1)
}

func (m *MockSeatRepository) ListByTheatreExcluding(ctx context.Context, theatreID string, excluded []string, q pagination.Query) ([]*seat.Seat, int, error) {
	args := m.Called(ctx, theatreID, excluded, q)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*seat.Seat), args.Int(1), args.Error(2)
}

// MockTheatreRepository implements theatre.Repository
type MockTheatreRepository struct {
	mock.Mock
}

func (m *MockTheatreRepository) Create(ctx context.Context, t *theatre.Theatre) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTheatreRepository) GetByID(ctx context.Context, id string) (*theatre.Theatre, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*theatre.Theatre), args.Error(1)
}

func (m *MockTheatreRepository) List(ctx context.Context, q pagination.Query) ([]*theatre.Theatre, int, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*theatre.Theatre), args.Int(1), args.Error(2)
}

// MockMovieRepository implements movie.Repository
type MockMovieRepository struct {
	mock.Mock
}

func (m *MockMovieRepository) Create(ctx context.Context, tx transaction.Tx, mv *movie.Movie) error {
	args := m.Called(ctx, tx, mv)
	return args.Error(0)
}

func (m *MockMovieRepository) Update(ctx context.Context, tx transaction.Tx, mv *movie.Movie) error {
	args := m.Called(ctx, tx, mv)
	return args.Error(0)
}

func (m *MockMovieRepository) ReplaceGenres(ctx context.Context, tx transaction.Tx, movieID string, genres []string) error {
	args := m.Called(ctx, tx, movieID, genres)
	return args.Error(0)
}

func (m *MockMovieRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMovieRepository) GetByID(ctx context.Context, id string) (*movie.Movie, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*movie.Movie), args.Error(1)
}

func (m *MockMovieRepository) List(ctx context.Context, q pagination.Query) ([]*movie.Movie, int, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*movie.Movie), args.Int(1), args.Error(2)
}

// MockGenreRepository implements movie.GenreRepository
type MockGenreRepository struct {
	mock.Mock
}

func (m *MockGenreRepository) Create(ctx context.Context, g *movie.Genre) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

func (m *MockGenreRepository) List(ctx context.Context, q pagination.Query) ([]*movie.Genre, int, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*movie.Genre), args.Int(1), args.Error(2)
}

// MockReportingRepository implements reporting.Repository
type MockReportingRepository struct {
	mock.Mock
}

func (m *MockReportingRepository) PotentialRevenue(ctx context.Context) ([]*reporting.MovieRevenue, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*reporting.MovieRevenue), args.Error(1)
}

// MockScheduler implements task.Scheduler
type MockScheduler struct {
	mock.Mock
}

func (m *MockScheduler) Schedule(ctx context.Context, name string, payload any, runAt time.Time) (string, error) {
	args := m.Called(ctx, name, payload, runAt)
	return args.String(0), args.Error(1)
}

func (m *MockScheduler) Cancel(ctx context.Context, taskID string) (bool, error) {
	args := m.Called(ctx, taskID)
	return args.Bool(0), args.Error(1)
}

// MockTaskIndex implements reservation.TaskIndex
type MockTaskIndex struct {
	mock.Mock
}

func (m *MockTaskIndex) Set(ctx context.Context, reservationID, taskID string, ttl time.Duration) error {
	args := m.Called(ctx, reservationID, taskID, ttl)
	return args.Error(0)
}

func (m *MockTaskIndex) Get(ctx context.Context, reservationID string) (string, error) {
	args := m.Called(ctx, reservationID)
	return args.String(0), args.Error(1)
}

func (m *MockTaskIndex) Delete(ctx context.Context, reservationID string) error {
	args := m.Called(ctx, reservationID)
	return args.Error(0)
}
