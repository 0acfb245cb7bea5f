package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/HAL94/fast-movie-reserve/internal/api/middleware"
	"github.com/HAL94/fast-movie-reserve/internal/config"
)

// Handlers はルーティングに登録するハンドラーの一式
type Handlers struct {
	Health      *HealthHandler
	Movie       *MovieHandler
	Theatre     *TheatreHandler
	Seat        *SeatHandler
	Showtime    *ShowtimeHandler
	Reservation *ReservationHandler
	Reporting   *ReportingHandler
}

// RegisterRoutes は /health と /api/v1 配下のルートを登録する
func RegisterRoutes(e *echo.Echo, h Handlers, auth config.AuthConfig) {
	e.GET("/health", h.Health.Check)

	authn := middleware.JWTAuth(auth)
	admin := middleware.RequireRole(auth.AdminRole)

	v1 := e.Group("/api/v1")

	// カタログ（参照は公開）
	v1.GET("/movies", h.Movie.List)
	v1.GET("/movies/:id", h.Movie.GetByID)
	v1.POST("/movies", h.Movie.Create, authn, admin)
	v1.PATCH("/movies/:id", h.Movie.Update, authn, admin)
	v1.DELETE("/movies/:id", h.Movie.Delete, authn, admin)

	v1.GET("/genres", h.Movie.ListGenres)
	v1.POST("/genres", h.Movie.CreateGenre, authn, admin)

	v1.GET("/theatres", h.Theatre.List, authn, admin)
	v1.POST("/theatres", h.Theatre.Create, authn, admin)
	v1.POST("/theatres/:id/seats", h.Seat.Create, authn, admin)

	v1.GET("/seats/:showtime_id", h.Seat.GetAvailable)

	v1.GET("/showtimes/latest", h.Showtime.Latest)
	v1.GET("/showtimes", h.Showtime.List, authn, admin)
	v1.GET("/showtimes/:id", h.Showtime.GetByID)
	v1.POST("/showtimes", h.Showtime.Create, authn, admin)
	v1.PATCH("/showtimes/:id", h.Showtime.Update, authn, admin)
	v1.DELETE("/showtimes/:id", h.Showtime.Delete, authn, admin)

	// 予約はすべて認証必須
	r := v1.Group("/reservations", authn)
	r.POST("/hold-seat", h.Reservation.HoldSeat)
	r.PATCH("/confirm-seat/:id", h.Reservation.ConfirmSeat)
	r.PATCH("/no-show/:id", h.Reservation.MarkNoShow, admin)
	r.PATCH("/cancel/:id", h.Reservation.Cancel)
	r.GET("/my-reservations", h.Reservation.MyReservations)
	r.GET("", h.Reservation.List, admin)
	r.GET("/:id", h.Reservation.GetByID)

	v1.GET("/reporting/potential-revenue", h.Reporting.PotentialRevenue, authn, admin)
}
