package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/HAL94/fast-movie-reserve/internal/api/middleware"
	"github.com/HAL94/fast-movie-reserve/internal/application"
	"github.com/HAL94/fast-movie-reserve/internal/domain/reservation"
)

type ReservationHandler struct {
	service   ReservationServiceInterface
	adminRole string
}

func NewReservationHandler(s ReservationServiceInterface, adminRole string) *ReservationHandler {
	return &ReservationHandler{service: s, adminRole: adminRole}
}

type HoldSeatRequest struct {
	ShowtimeID string `json:"showtime_id" validate:"required" example:"550e8400-e29b-41d4-a716-446655440000"`
	SeatID     string `json:"seat_id" validate:"required" example:"550e8400-e29b-41d4-a716-446655440001"`
	// ReservedAt を省略した場合はリクエスト受信時刻
	ReservedAt *time.Time `json:"reserved_at,omitempty" example:"2026-05-01T18:00:00Z"`
}

type ReservationResponse struct {
	ID              string    `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	ShowtimeID      string    `json:"showtime_id"`
	SeatID          string    `json:"seat_id"`
	UserID          string    `json:"user_id" example:"user-123"`
	Status          string    `json:"status" example:"HELD"`
	ReservedAt      time.Time `json:"reserved_at"`
	IsPaid          bool      `json:"is_paid"`
	IsRefunded      bool      `json:"is_refunded"`
	FinalPrice      float64   `json:"final_price" example:"12.5"`
	MovieTitle      string    `json:"movie_title,omitempty"`
	TheatreNumber   string    `json:"theatre_number,omitempty"`
	SeatNumber      string    `json:"seat_number,omitempty"`
	SeatLevel       string    `json:"seat_level,omitempty"`
	ShowtimeStartAt time.Time `json:"showtime_start_at,omitzero"`
	ShowtimeEndAt   time.Time `json:"showtime_end_at,omitzero"`
	CreatedAt       time.Time `json:"created_at"`
}

func toReservationResponse(d *reservation.Detail) ReservationResponse {
	return ReservationResponse{
		ID: d.ID, ShowtimeID: d.ShowtimeID, SeatID: d.SeatID, UserID: d.UserID,
		Status: string(d.Status), ReservedAt: d.ReservedAt,
		IsPaid: d.IsPaid, IsRefunded: d.IsRefunded, FinalPrice: d.FinalPrice,
		MovieTitle: d.MovieTitle, TheatreNumber: d.TheatreNumber,
		SeatNumber: d.SeatNumber, SeatLevel: d.SeatLevel,
		ShowtimeStartAt: d.ShowtimeStartAt, ShowtimeEndAt: d.ShowtimeEndAt,
		CreatedAt: d.CreatedAt,
	}
}

// HoldSeat godoc
// @Summary 座席を仮押さえ
// @Description 座席を HELD で確保します。一定時間内に確定されなければ解放されます
// @Tags reservations
// @Accept json
// @Produce json
// @Param request body HoldSeatRequest true "仮押さえ情報"
// @Success 201 {object} ReservationResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse "座席が既に予約済み"
// @Router /reservations/hold-seat [post]
func (h *ReservationHandler) HoldSeat(c echo.Context) error {
	var req HoldSeatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	reservedAt := time.Now()
	if req.ReservedAt != nil {
		reservedAt = *req.ReservedAt
	}
	d, err := h.service.CreateHeld(c.Request().Context(), application.HoldSeatInput{
		ShowtimeID: req.ShowtimeID,
		SeatID:     req.SeatID,
		UserID:     middleware.UserID(c),
		ReservedAt: reservedAt,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toReservationResponse(d))
}

// ConfirmSeat godoc
// @Summary 仮押さえを確定
// @Description 決済IDを確認して HELD の予約を CONFIRMED にします
// @Tags reservations
// @Produce json
// @Param id path string true "予約ID"
// @Param payment_id query string true "決済ID"
// @Success 200 {object} ReservationResponse
// @Failure 402 {object} api.ErrorResponse "決済が確認できない"
// @Failure 404 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse
// @Router /reservations/confirm-seat/{id} [patch]
func (h *ReservationHandler) ConfirmSeat(c echo.Context) error {
	paymentID := c.QueryParam("payment_id")
	if paymentID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "payment_id が必要です")
	}
	d, err := h.service.ConfirmHeld(c.Request().Context(), c.Param("id"), middleware.UserID(c), paymentID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReservationResponse(d))
}

// MarkNoShow godoc
// @Summary 来場なしにする
// @Tags reservations
// @Produce json
// @Param id path string true "予約ID"
// @Success 200 {object} ReservationResponse
// @Failure 404 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse
// @Router /reservations/no-show/{id} [patch]
func (h *ReservationHandler) MarkNoShow(c echo.Context) error {
	d, err := h.service.MarkNoShow(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReservationResponse(d))
}

// Cancel godoc
// @Summary 予約をキャンセル
// @Description 確定済みの予約をキャンセルし、座席を解放します
// @Tags reservations
// @Produce json
// @Param id path string true "予約ID"
// @Success 200 {object} ReservationResponse
// @Failure 404 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse
// @Router /reservations/cancel/{id} [patch]
func (h *ReservationHandler) Cancel(c echo.Context) error {
	d, err := h.service.Cancel(c.Request().Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReservationResponse(d))
}

// GetByID godoc
// @Summary 予約を取得
// @Description 管理者以外は自分の予約のみ取得できます
// @Tags reservations
// @Produce json
// @Param id path string true "予約ID"
// @Success 200 {object} ReservationResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /reservations/{id} [get]
func (h *ReservationHandler) GetByID(c echo.Context) error {
	ctx := c.Request().Context()
	var (
		d   *reservation.Detail
		err error
	)
	if middleware.Role(c) == h.adminRole {
		d, err = h.service.GetReservation(ctx, c.Param("id"))
	} else {
		d, err = h.service.GetReservationForUser(ctx, c.Param("id"), middleware.UserID(c))
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReservationResponse(d))
}

// MyReservations godoc
// @Summary 自分の予約一覧
// @Tags reservations
// @Produce json
// @Param page query int false "ページ番号"
// @Param size query int false "1ページの件数"
// @Param sort_by query string false "並び順 (例: -created_at)"
// @Param filter_by query string false "絞り込み (例: status=CONFIRMED)"
// @Param skip query bool false "ページングしない"
// @Success 200 {object} pagination.Page[ReservationResponse]
// @Failure 400 {object} api.ErrorResponse
// @Router /reservations/my-reservations [get]
func (h *ReservationHandler) MyReservations(c echo.Context) error {
	q, err := bindPageQuery(c)
	if err != nil {
		return err
	}
	page, err := h.service.ListForUser(c.Request().Context(), middleware.UserID(c), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, mapPage(page, toReservationResponse))
}

// List godoc
// @Summary 全予約の一覧（管理者）
// @Tags reservations
// @Produce json
// @Success 200 {object} pagination.Page[ReservationResponse]
// @Failure 400 {object} api.ErrorResponse
// @Router /reservations [get]
func (h *ReservationHandler) List(c echo.Context) error {
	q, err := bindPageQuery(c)
	if err != nil {
		return err
	}
	page, err := h.service.ListAll(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, mapPage(page, toReservationResponse))
}
