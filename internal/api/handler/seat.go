package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/HAL94/fast-movie-reserve/internal/application"
	"github.com/HAL94/fast-movie-reserve/internal/domain/seat"
)

type SeatHandler struct {
	service SeatServiceInterface
}

func NewSeatHandler(s SeatServiceInterface) *SeatHandler {
	return &SeatHandler{service: s}
}

// CreateSeatsRequest は count を指定すると "<prefix><連番>" で一括作成する
type CreateSeatsRequest struct {
	SeatNumber string `json:"seat_number" validate:"required_without=Count" example:"A1"`
	Prefix     string `json:"prefix" validate:"required_with=Count" example:"A"`
	Count      int    `json:"count" validate:"omitempty,min=1,max=500" example:"10"`
	Level      string `json:"level" validate:"required" example:"standard"`
}

type SeatResponse struct {
	ID         string    `json:"id"`
	TheatreID  string    `json:"theatre_id"`
	SeatNumber string    `json:"seat_number" example:"A1"`
	Level      string    `json:"level" example:"standard"`
	CreatedAt  time.Time `json:"created_at"`
}

func toSeatResponse(s *seat.Seat) SeatResponse {
	return SeatResponse{ID: s.ID, TheatreID: s.TheatreID, SeatNumber: s.SeatNumber, Level: s.Level, CreatedAt: s.CreatedAt}
}

// Create godoc
// @Summary 座席を作成（管理者）
// @Tags seats
// @Accept json
// @Produce json
// @Param id path string true "シアターID"
// @Param request body CreateSeatsRequest true "座席情報"
// @Success 201 {array} SeatResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse "座席番号の重複・定員超過"
// @Router /theatres/{id}/seats [post]
func (h *SeatHandler) Create(c echo.Context) error {
	var req CreateSeatsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	ctx := c.Request().Context()
	theatreID := c.Param("id")

	if req.Count > 0 {
		seats, err := h.service.CreateBulkSeats(ctx, application.CreateBulkSeatsInput{
			TheatreID: theatreID, Prefix: req.Prefix, Count: req.Count, Level: req.Level,
		})
		if err != nil {
			return err
		}
		resp := make([]SeatResponse, len(seats))
		for i, s := range seats {
			resp[i] = toSeatResponse(s)
		}
		return c.JSON(http.StatusCreated, resp)
	}

	s, err := h.service.CreateSeat(ctx, application.CreateSeatInput{
		TheatreID: theatreID, SeatNumber: req.SeatNumber, Level: req.Level,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, []SeatResponse{toSeatResponse(s)})
}

// GetAvailable godoc
// @Summary 上映の空席一覧
// @Description HELD / CONFIRMED の予約が付いていない座席を返します
// @Tags seats
// @Produce json
// @Param showtime_id path string true "上映ID"
// @Param page query int false "ページ番号"
// @Param size query int false "1ページの件数"
// @Success 200 {object} pagination.Page[SeatResponse]
// @Failure 400 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /seats/{showtime_id} [get]
func (h *SeatHandler) GetAvailable(c echo.Context) error {
	q, err := bindPageQuery(c)
	if err != nil {
		return err
	}
	page, err := h.service.GetAvailableSeats(c.Request().Context(), c.Param("showtime_id"), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, mapPage(page, toSeatResponse))
}
