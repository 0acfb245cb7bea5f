package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/HAL94/fast-movie-reserve/internal/domain/movie"
	"github.com/HAL94/fast-movie-reserve/internal/domain/showtime"
	"github.com/HAL94/fast-movie-reserve/internal/pkg/pagination"
)

type showtimeTestDeps struct {
	txManager    *MockTxManager
	tx           *MockTx
	showtimeRepo *MockShowtimeRepository
	movieRepo    *MockMovieRepository
	resvRepo     *MockReservationRepository
	now          time.Time
	service      *ShowtimeService
}

func newShowtimeTestDeps() *showtimeTestDeps {
	d := &showtimeTestDeps{
		txManager:    new(MockTxManager),
		tx:           new(MockTx),
		showtimeRepo: new(MockShowtimeRepository),
		movieRepo:    new(MockMovieRepository),
		resvRepo:     new(MockReservationRepository),
		now:          time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	d.service = NewShowtimeService(d.txManager, d.showtimeRepo, d.movieRepo, d.resvRepo)
	d.service.now = func() time.Time { return d.now }
	return d
}

func (d *showtimeTestDeps) expectTx(ctx context.Context) {
	d.txManager.On("Begin", ctx).Return(d.tx, nil)
	d.tx.On("Commit").Return(nil).Maybe()
	d.tx.On("Rollback").Return(nil).Maybe()
}

func TestShowtimeService_CreateShowtime(t *testing.T) {
	start := time.Date(2026, 5, 2, 18, 0, 0, 0, time.UTC)
	input := ShowtimeInput{MovieID: "movie-1", TheatreID: "th-1", BaseTicketCost: 15, StartAt: start, EndAt: start.Add(2 * time.Hour)}

	t.Run("重複がなければ作成できる", func(t *testing.T) {
		deps := newShowtimeTestDeps()
		ctx := context.Background()

		deps.movieRepo.On("GetByID", ctx, "movie-1").Return(&movie.Movie{ID: "movie-1"}, nil)
		deps.expectTx(ctx)
		// 終了時刻ちょうどに始まる上映は重ならない
		adjacent := &showtime.Showtime{ID: "st-0", TheatreID: "th-1", StartAt: start.Add(-2 * time.Hour), EndAt: start}
		deps.showtimeRepo.On("ListByTheatreForUpdate", ctx, deps.tx, "th-1").Return([]*showtime.Showtime{adjacent}, nil)
		deps.showtimeRepo.On("Create", ctx, deps.tx, mock.AnythingOfType("*showtime.Showtime")).
			Run(func(args mock.Arguments) {
				args.Get(2).(*showtime.Showtime).ID = "st-1"
			}).
			Return(nil)
		deps.showtimeRepo.On("GetDetail", ctx, "st-1").Return(&showtime.Detail{Showtime: showtime.Showtime{ID: "st-1"}, SeatsAvailable: 100}, nil)

		detail, err := deps.service.CreateShowtime(ctx, input)

		require.NoError(t, err)
		assert.Equal(t, "st-1", detail.ID)
		assert.Equal(t, 100, detail.SeatsAvailable)
		deps.tx.AssertCalled(t, "Commit")
	})

	t.Run("重複していればエラー", func(t *testing.T) {
		deps := newShowtimeTestDeps()
		ctx := context.Background()

		deps.movieRepo.On("GetByID", ctx, "movie-1").Return(&movie.Movie{ID: "movie-1"}, nil)
		deps.expectTx(ctx)
		overlapping := &showtime.Showtime{ID: "st-0", TheatreID: "th-1", StartAt: start.Add(time.Hour), EndAt: start.Add(3 * time.Hour)}
		deps.showtimeRepo.On("ListByTheatreForUpdate", ctx, deps.tx, "th-1").Return([]*showtime.Showtime{overlapping}, nil)

		_, err := deps.service.CreateShowtime(ctx, input)

		assert.ErrorIs(t, err, showtime.ErrShowtimeOverlap)
		deps.tx.AssertCalled(t, "Rollback")
		deps.showtimeRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("開始が終了より後ならエラー", func(t *testing.T) {
		deps := newShowtimeTestDeps()
		bad := input
		bad.EndAt = bad.StartAt.Add(-time.Minute)

		_, err := deps.service.CreateShowtime(context.Background(), bad)

		assert.ErrorIs(t, err, showtime.ErrInvalidShowtimeTime)
	})

	t.Run("映画が存在しなければエラー", func(t *testing.T) {
		deps := newShowtimeTestDeps()
		ctx := context.Background()

		deps.movieRepo.On("GetByID", ctx, "movie-1").Return(nil, movie.ErrMovieNotFound)

		_, err := deps.service.CreateShowtime(ctx, input)

		assert.ErrorIs(t, err, movie.ErrMovieNotFound)
		deps.txManager.AssertNotCalled(t, "Begin", mock.Anything)
	})
}

func TestShowtimeService_UpdateShowtime_ExcludesItself(t *testing.T) {
	deps := newShowtimeTestDeps()
	ctx := context.Background()

	start := time.Date(2026, 5, 2, 18, 0, 0, 0, time.UTC)
	current := &showtime.Showtime{ID: "st-1", MovieID: "movie-1", TheatreID: "th-1", BaseTicketCost: 10, StartAt: start, EndAt: start.Add(2 * time.Hour)}
	deps.showtimeRepo.On("GetByID", ctx, "st-1").Return(current, nil)
	deps.movieRepo.On("GetByID", ctx, "movie-1").Return(&movie.Movie{ID: "movie-1"}, nil)
	deps.expectTx(ctx)
	self := &showtime.Showtime{ID: "st-1", TheatreID: "th-1", StartAt: start, EndAt: start.Add(2 * time.Hour)}
	deps.showtimeRepo.On("ListByTheatreForUpdate", ctx, deps.tx, "th-1").Return([]*showtime.Showtime{self}, nil)
	deps.showtimeRepo.On("Update", ctx, deps.tx, mock.MatchedBy(func(s *showtime.Showtime) bool {
		return s.ID == "st-1" && s.BaseTicketCost == 20
	})).Return(nil)
	deps.showtimeRepo.On("GetDetail", ctx, "st-1").Return(&showtime.Detail{Showtime: *current}, nil)

	_, err := deps.service.UpdateShowtime(ctx, "st-1", ShowtimeInput{
		MovieID: "movie-1", TheatreID: "th-1", BaseTicketCost: 20,
		StartAt: start.Add(30 * time.Minute), EndAt: start.Add(150 * time.Minute),
	})

	require.NoError(t, err)
	deps.showtimeRepo.AssertExpectations(t)
}

func TestShowtimeService_UpdateShowtime_ResetsCompletionFlag(t *testing.T) {
	deps := newShowtimeTestDeps()
	ctx := context.Background()

	start := time.Date(2026, 4, 30, 18, 0, 0, 0, time.UTC)
	current := &showtime.Showtime{ID: "st-1", MovieID: "movie-1", TheatreID: "th-1", StartAt: start, EndAt: start.Add(2 * time.Hour), IsProcessedForCompletion: true}
	deps.showtimeRepo.On("GetByID", ctx, "st-1").Return(current, nil)
	deps.movieRepo.On("GetByID", ctx, "movie-1").Return(&movie.Movie{ID: "movie-1"}, nil)
	deps.expectTx(ctx)
	deps.showtimeRepo.On("ListByTheatreForUpdate", ctx, deps.tx, "th-1").Return([]*showtime.Showtime{}, nil)
	deps.showtimeRepo.On("Update", ctx, deps.tx, mock.MatchedBy(func(s *showtime.Showtime) bool {
		return !s.IsProcessedForCompletion
	})).Return(nil)
	deps.showtimeRepo.On("GetDetail", ctx, "st-1").Return(&showtime.Detail{Showtime: *current}, nil)

	// 終了済みの上映を翌週に移す
	_, err := deps.service.UpdateShowtime(ctx, "st-1", ShowtimeInput{
		MovieID: "movie-1", TheatreID: "th-1", BaseTicketCost: 10,
		StartAt: start.AddDate(0, 0, 7), EndAt: start.AddDate(0, 0, 7).Add(2 * time.Hour),
	})

	require.NoError(t, err)
	deps.showtimeRepo.AssertExpectations(t)
}

func TestShowtimeService_UpdateShowtime_TheatreChange(t *testing.T) {
	start := time.Date(2026, 5, 2, 18, 0, 0, 0, time.UTC)
	input := ShowtimeInput{MovieID: "movie-1", TheatreID: "th-2", BaseTicketCost: 10, StartAt: start, EndAt: start.Add(2 * time.Hour)}

	t.Run("有効な予約があれば拒否する", func(t *testing.T) {
		deps := newShowtimeTestDeps()
		ctx := context.Background()

		current := &showtime.Showtime{ID: "st-1", MovieID: "movie-1", TheatreID: "th-1", StartAt: start, EndAt: start.Add(2 * time.Hour)}
		deps.showtimeRepo.On("GetByID", ctx, "st-1").Return(current, nil)
		deps.resvRepo.On("ActiveSeatIDs", ctx, "st-1").Return([]string{"seat-1"}, nil)

		_, err := deps.service.UpdateShowtime(ctx, "st-1", input)

		assert.ErrorIs(t, err, showtime.ErrHasActiveReservations)
		deps.txManager.AssertNotCalled(t, "Begin", mock.Anything)
	})

	t.Run("予約がなければ移せる", func(t *testing.T) {
		deps := newShowtimeTestDeps()
		ctx := context.Background()

		current := &showtime.Showtime{ID: "st-1", MovieID: "movie-1", TheatreID: "th-1", StartAt: start, EndAt: start.Add(2 * time.Hour)}
		deps.showtimeRepo.On("GetByID", ctx, "st-1").Return(current, nil)
		deps.resvRepo.On("ActiveSeatIDs", ctx, "st-1").Return([]string{}, nil)
		deps.movieRepo.On("GetByID", ctx, "movie-1").Return(&movie.Movie{ID: "movie-1"}, nil)
		deps.expectTx(ctx)
		deps.showtimeRepo.On("ListByTheatreForUpdate", ctx, deps.tx, "th-2").Return([]*showtime.Showtime{}, nil)
		deps.showtimeRepo.On("Update", ctx, deps.tx, mock.MatchedBy(func(s *showtime.Showtime) bool {
			return s.TheatreID == "th-2"
		})).Return(nil)
		deps.showtimeRepo.On("GetDetail", ctx, "st-1").Return(&showtime.Detail{Showtime: *current}, nil)

		_, err := deps.service.UpdateShowtime(ctx, "st-1", input)

		require.NoError(t, err)
		deps.showtimeRepo.AssertExpectations(t)
	})
}

func TestShowtimeService_ListLatest(t *testing.T) {
	deps := newShowtimeTestDeps()
	ctx := context.Background()
	q := pagination.Query{Page: 1, Size: 10}

	deps.showtimeRepo.On("ListUpcoming", ctx, deps.now, q).Return([]*showtime.Detail{{Showtime: showtime.Showtime{ID: "st-9"}}}, 1, nil)

	page, err := deps.service.ListLatest(ctx, q)

	require.NoError(t, err)
	assert.Equal(t, 1, page.TotalRecords)
	assert.Equal(t, "st-9", page.Result[0].ID)
}
