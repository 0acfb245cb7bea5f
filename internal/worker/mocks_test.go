package worker

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/HAL94/fast-movie-reserve/internal/application"
	"github.com/HAL94/fast-movie-reserve/internal/domain/task"
	redisinfra "github.com/HAL94/fast-movie-reserve/internal/infrastructure/redis"
)

// MockShowtimeCompleter は ShowtimeCompleter のモック
type MockShowtimeCompleter struct {
	mock.Mock
}

func (m *MockShowtimeCompleter) CompleteEndedShowtimes(ctx context.Context, now time.Time) (application.SweepResult, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(application.SweepResult), args.Error(1)
}

// MockExpiryChecker は ExpiryChecker のモック
type MockExpiryChecker struct {
	mock.Mock
}

func (m *MockExpiryChecker) RunExpiryCheck(ctx context.Context, reservationID string) (bool, error) {
	args := m.Called(ctx, reservationID)
	return args.Bool(0), args.Error(1)
}

// MockLockManager は redisinfra.LockManagerInterface のモック
type MockLockManager struct {
	mock.Mock
}

func (m *MockLockManager) AcquireLock(ctx context.Context, key string, ttl time.Duration) (redisinfra.Lock, error) {
	args := m.Called(ctx, key, ttl)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(redisinfra.Lock), args.Error(1)
}

// MockLock は redisinfra.Lock のモック
type MockLock struct {
	mock.Mock
}

func (m *MockLock) Release(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockLock) Extend(ctx context.Context, ttl time.Duration) error {
	args := m.Called(ctx, ttl)
	return args.Error(0)
}

// MockQueue は task.Queue のモック
type MockQueue struct {
	mock.Mock
}

func (m *MockQueue) Schedule(ctx context.Context, name string, payload any, runAt time.Time) (string, error) {
	args := m.Called(ctx, name, payload, runAt)
	return args.String(0), args.Error(1)
}

func (m *MockQueue) Cancel(ctx context.Context, taskID string) (bool, error) {
	args := m.Called(ctx, taskID)
	return args.Bool(0), args.Error(1)
}

func (m *MockQueue) Claim(ctx context.Context, now time.Time, limit int) ([]*task.Task, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *MockQueue) Ack(ctx context.Context, taskID string) error {
	args := m.Called(ctx, taskID)
	return args.Error(0)
}
