package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/HAL94/fast-movie-reserve/internal/api"
	"github.com/HAL94/fast-movie-reserve/internal/api/handler"
	"github.com/HAL94/fast-movie-reserve/internal/api/middleware"
	"github.com/HAL94/fast-movie-reserve/internal/application"
	"github.com/HAL94/fast-movie-reserve/internal/config"
	"github.com/HAL94/fast-movie-reserve/internal/infrastructure/postgres"
	redisinfra "github.com/HAL94/fast-movie-reserve/internal/infrastructure/redis"
	"github.com/HAL94/fast-movie-reserve/internal/pkg/logger"
	"github.com/HAL94/fast-movie-reserve/internal/pkg/metrics"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Env)
	defer logger.Sync()
	m := metrics.Init()

	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		logger.Fatal("データベース接続エラー", zap.Error(err))
	}
	defer db.Close()

	if err := postgres.RunMigrations(db.DB, cfg.Database.MigrationsPath); err != nil {
		logger.Fatal("マイグレーションエラー", zap.Error(err))
	}

	rc, err := redisinfra.NewClient(redisinfra.ConfigFrom(&cfg.Redis))
	if err != nil {
		logger.Fatal("Redis接続エラー", zap.Error(err))
	}
	defer rc.Close()

	// リポジトリ
	txManager := postgres.NewTxManager(db)
	movieRepo := postgres.NewMovieRepository(db)
	genreRepo := postgres.NewGenreRepository(db)
	theatreRepo := postgres.NewTheatreRepository(db)
	seatRepo := postgres.NewSeatRepository(db)
	showtimeRepo := postgres.NewShowtimeRepository(db)
	reservationRepo := postgres.NewReservationRepository(db)
	reportingRepo := postgres.NewReportingRepository(db)

	// 遅延タスク
	queue := redisinfra.NewDelayQueue(rc, redisinfra.DefaultQueuePrefix, cfg.Jobs.TaskLease)
	taskIndex := redisinfra.NewTaskIndex(rc)

	// サービス
	movieService := application.NewMovieService(txManager, movieRepo, genreRepo)
	theatreService := application.NewTheatreService(theatreRepo)
	seatService := application.NewSeatService(seatRepo, theatreRepo, showtimeRepo, reservationRepo)
	showtimeService := application.NewShowtimeService(txManager, showtimeRepo, movieRepo, reservationRepo)
	reservationService := application.NewReservationService(
		txManager, reservationRepo, showtimeRepo, seatRepo, queue, taskIndex, cfg.Reservation,
	)
	reportingService := application.NewReportingService(reportingRepo)

	e := api.NewEcho()
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	middleware.SetupMiddleware(e, cfg.Server)
	e.Use(middleware.PrometheusMiddleware(m))

	handler.RegisterRoutes(e, handler.Handlers{
		Health: handler.NewHealthHandler(
			handler.HealthCheck{Name: "postgres", Check: func(ctx context.Context) error { return postgres.Ping(ctx, db) }},
			handler.HealthCheck{Name: "redis", Check: func(ctx context.Context) error { return redisinfra.Ping(ctx, rc) }},
		),
		Movie:       handler.NewMovieHandler(movieService),
		Theatre:     handler.NewTheatreHandler(theatreService),
		Seat:        handler.NewSeatHandler(seatService),
		Showtime:    handler.NewShowtimeHandler(showtimeService),
		Reservation: handler.NewReservationHandler(reservationService, cfg.Auth.AdminRole),
		Reporting:   handler.NewReportingHandler(reportingService),
	}, cfg.Auth)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), middleware.MetricsBasicAuth(cfg.Metrics))

	// Graceful shutdown
	go func() {
		logger.Info("サーバーを起動します", zap.String("port", cfg.Server.Port))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("サーバー起動エラー", zap.Error(err))
		}
	}()

	// シグナル待機
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("サーバーをシャットダウンしています...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("サーバーシャットダウンエラー", zap.Error(err))
		return
	}

	logger.Info("サーバーが正常にシャットダウンしました")
}
