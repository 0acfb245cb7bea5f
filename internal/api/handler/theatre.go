package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/HAL94/fast-movie-reserve/internal/domain/theatre"
)

type TheatreHandler struct {
	service TheatreServiceInterface
}

func NewTheatreHandler(s TheatreServiceInterface) *TheatreHandler {
	return &TheatreHandler{service: s}
}

type CreateTheatreRequest struct {
	TheatreNumber string `json:"theatre_number" validate:"required,max=50" example:"T1"`
	Capacity      int    `json:"capacity" validate:"required,min=1" example:"120"`
}

type TheatreResponse struct {
	ID            string    `json:"id"`
	TheatreNumber string    `json:"theatre_number"`
	Capacity      int       `json:"capacity"`
	CreatedAt     time.Time `json:"created_at"`
}

func toTheatreResponse(t *theatre.Theatre) TheatreResponse {
	return TheatreResponse{ID: t.ID, TheatreNumber: t.TheatreNumber, Capacity: t.Capacity, CreatedAt: t.CreatedAt}
}

// Create godoc
// @Summary シアターを登録（管理者）
// @Tags theatres
// @Accept json
// @Produce json
// @Param request body CreateTheatreRequest true "シアター情報"
// @Success 201 {object} TheatreResponse
// @Failure 400 {object} api.ErrorResponse
// @Router /theatres [post]
func (h *TheatreHandler) Create(c echo.Context) error {
	var req CreateTheatreRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	t, err := h.service.CreateTheatre(c.Request().Context(), req.TheatreNumber, req.Capacity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toTheatreResponse(t))
}

// List godoc
// @Summary シアター一覧（管理者）
// @Tags theatres
// @Produce json
// @Success 200 {object} pagination.Page[TheatreResponse]
// @Router /theatres [get]
func (h *TheatreHandler) List(c echo.Context) error {
	q, err := bindPageQuery(c)
	if err != nil {
		return err
	}
	page, err := h.service.ListTheatres(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, mapPage(page, toTheatreResponse))
}
