package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/HAL94/fast-movie-reserve/internal/application"
	"github.com/HAL94/fast-movie-reserve/internal/domain/showtime"
)

type ShowtimeHandler struct {
	service ShowtimeServiceInterface
}

func NewShowtimeHandler(s ShowtimeServiceInterface) *ShowtimeHandler {
	return &ShowtimeHandler{service: s}
}

type ShowtimeRequest struct {
	MovieID        string    `json:"movie_id" validate:"required"`
	TheatreID      string    `json:"theatre_id" validate:"required"`
	BaseTicketCost float64   `json:"base_ticket_cost" validate:"gt=0" example:"12.5"`
	StartAt        time.Time `json:"start_at" validate:"required"`
	EndAt          time.Time `json:"end_at" validate:"required,gtfield=StartAt"`
}

type ShowtimeResponse struct {
	ID             string    `json:"id"`
	MovieID        string    `json:"movie_id"`
	TheatreID      string    `json:"theatre_id"`
	BaseTicketCost float64   `json:"base_ticket_cost"`
	StartAt        time.Time `json:"start_at"`
	EndAt          time.Time `json:"end_at"`
	MovieTitle     string    `json:"movie_title,omitempty"`
	TheatreNumber  string    `json:"theatre_number,omitempty"`
	SeatsAvailable int       `json:"seats_available"`
}

func toShowtimeResponse(d *showtime.Detail) ShowtimeResponse {
	return ShowtimeResponse{
		ID: d.ID, MovieID: d.MovieID, TheatreID: d.TheatreID,
		BaseTicketCost: d.BaseTicketCost, StartAt: d.StartAt, EndAt: d.EndAt,
		MovieTitle: d.MovieTitle, TheatreNumber: d.TheatreNumber, SeatsAvailable: d.SeatsAvailable,
	}
}

func (r ShowtimeRequest) toInput() application.ShowtimeInput {
	return application.ShowtimeInput{
		MovieID: r.MovieID, TheatreID: r.TheatreID, BaseTicketCost: r.BaseTicketCost,
		StartAt: r.StartAt, EndAt: r.EndAt,
	}
}

func (h *ShowtimeHandler) bind(c echo.Context) (ShowtimeRequest, error) {
	var req ShowtimeRequest
	if err := c.Bind(&req); err != nil {
		return req, echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return req, err
	}
	return req, nil
}

// Create godoc
// @Summary 上映を作成（管理者）
// @Tags showtimes
// @Accept json
// @Produce json
// @Param request body ShowtimeRequest true "上映情報"
// @Success 201 {object} ShowtimeResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse "同じシアターの上映と時間が重複"
// @Router /showtimes [post]
func (h *ShowtimeHandler) Create(c echo.Context) error {
	req, err := h.bind(c)
	if err != nil {
		return err
	}
	d, err := h.service.CreateShowtime(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toShowtimeResponse(d))
}

// Update godoc
// @Summary 上映を更新（管理者）
// @Tags showtimes
// @Accept json
// @Produce json
// @Param id path string true "上映ID"
// @Param request body ShowtimeRequest true "上映情報"
// @Success 200 {object} ShowtimeResponse
// @Failure 404 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse
// @Router /showtimes/{id} [patch]
func (h *ShowtimeHandler) Update(c echo.Context) error {
	req, err := h.bind(c)
	if err != nil {
		return err
	}
	d, err := h.service.UpdateShowtime(c.Request().Context(), c.Param("id"), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toShowtimeResponse(d))
}

// Delete godoc
// @Summary 上映を削除（管理者）
// @Tags showtimes
// @Param id path string true "上映ID"
// @Success 204
// @Failure 404 {object} api.ErrorResponse
// @Router /showtimes/{id} [delete]
func (h *ShowtimeHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteShowtime(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// GetByID godoc
// @Summary 上映を取得
// @Tags showtimes
// @Produce json
// @Param id path string true "上映ID"
// @Success 200 {object} ShowtimeResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /showtimes/{id} [get]
func (h *ShowtimeHandler) GetByID(c echo.Context) error {
	d, err := h.service.GetShowtime(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toShowtimeResponse(d))
}

// List godoc
// @Summary 上映一覧（管理者）
// @Tags showtimes
// @Produce json
// @Success 200 {object} pagination.Page[ShowtimeResponse]
// @Router /showtimes [get]
func (h *ShowtimeHandler) List(c echo.Context) error {
	q, err := bindPageQuery(c)
	if err != nil {
		return err
	}
	page, err := h.service.ListShowtimes(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, mapPage(page, toShowtimeResponse))
}

// Latest godoc
// @Summary これから始まる上映一覧
// @Tags showtimes
// @Produce json
// @Success 200 {object} pagination.Page[ShowtimeResponse]
// @Router /showtimes/latest [get]
func (h *ShowtimeHandler) Latest(c echo.Context) error {
	q, err := bindPageQuery(c)
	if err != nil {
		return err
	}
	page, err := h.service.ListLatest(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, mapPage(page, toShowtimeResponse))
}
