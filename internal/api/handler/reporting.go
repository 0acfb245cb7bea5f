package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/HAL94/fast-movie-reserve/internal/domain/reporting"
)

type ReportingHandler struct {
	service ReportingServiceInterface
}

func NewReportingHandler(s ReportingServiceInterface) *ReportingHandler {
	return &ReportingHandler{service: s}
}

type MovieRevenueResponse struct {
	MovieTitle  string  `json:"movie_title"`
	Revenue     float64 `json:"revenue"`
	TicketsSold int     `json:"tickets_sold"`
}

// PotentialRevenue godoc
// @Summary 映画ごとの見込み売上（管理者）
// @Description 支払い済みの CONFIRMED 予約を売上の降順で集計します
// @Tags reporting
// @Produce json
// @Success 200 {array} MovieRevenueResponse
// @Router /reporting/potential-revenue [get]
func (h *ReportingHandler) PotentialRevenue(c echo.Context) error {
	rows, err := h.service.PotentialRevenue(c.Request().Context())
	if err != nil {
		return err
	}
	resp := make([]MovieRevenueResponse, len(rows))
	for i, r := range rows {
		resp[i] = toMovieRevenueResponse(r)
	}
	return c.JSON(http.StatusOK, resp)
}

func toMovieRevenueResponse(r *reporting.MovieRevenue) MovieRevenueResponse {
	return MovieRevenueResponse{MovieTitle: r.MovieTitle, Revenue: r.Revenue, TicketsSold: r.TicketsSold}
}
