package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/HAL94/fast-movie-reserve/internal/domain/movie"
	"github.com/HAL94/fast-movie-reserve/internal/domain/reservation"
	"github.com/HAL94/fast-movie-reserve/internal/domain/seat"
	"github.com/HAL94/fast-movie-reserve/internal/domain/showtime"
	"github.com/HAL94/fast-movie-reserve/internal/domain/theatre"
	"github.com/HAL94/fast-movie-reserve/internal/pkg/logger"
	"github.com/HAL94/fast-movie-reserve/internal/pkg/pagination"
)

// ErrorResponse はエラーレスポンスの統一フォーマット
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// ドメインエラーとHTTPステータスの対応
var errorStatuses = []struct {
	err  error
	code int
}{
	// 404
	{reservation.ErrReservationNotFound, http.StatusNotFound},
	{showtime.ErrShowtimeNotFound, http.StatusNotFound},
	{seat.ErrSeatNotFound, http.StatusNotFound},
	{theatre.ErrTheatreNotFound, http.StatusNotFound},
	{movie.ErrMovieNotFound, http.StatusNotFound},
	// 409
	{reservation.ErrSeatAlreadyReserved, http.StatusConflict},
	{reservation.ErrInvalidTransition, http.StatusConflict},
	{showtime.ErrShowtimeOverlap, http.StatusConflict},
	{showtime.ErrHasActiveReservations, http.StatusConflict},
	{seat.ErrSeatNumberTaken, http.StatusConflict},
	{seat.ErrTheatreFull, http.StatusConflict},
	{movie.ErrTitleTaken, http.StatusConflict},
	{movie.ErrGenreTitleTaken, http.StatusConflict},
	{movie.ErrMovieHasShowtimes, http.StatusConflict},
	// 402
	{reservation.ErrPaymentRejected, http.StatusPaymentRequired},
	// 400
	{pagination.ErrInvalidQuery, http.StatusBadRequest},
	{reservation.ErrShowtimeIDRequired, http.StatusBadRequest},
	{reservation.ErrSeatIDRequired, http.StatusBadRequest},
	{reservation.ErrUserIDRequired, http.StatusBadRequest},
	{reservation.ErrInvalidPrice, http.StatusBadRequest},
	{showtime.ErrInvalidShowtimeTime, http.StatusBadRequest},
	{showtime.ErrInvalidTicketCost, http.StatusBadRequest},
	{showtime.ErrMovieIDRequired, http.StatusBadRequest},
	{showtime.ErrTheatreIDRequired, http.StatusBadRequest},
	{seat.ErrTheatreIDRequired, http.StatusBadRequest},
	{seat.ErrSeatNumberRequired, http.StatusBadRequest},
	{seat.ErrLevelRequired, http.StatusBadRequest},
	{theatre.ErrTheatreNumberRequired, http.StatusBadRequest},
	{theatre.ErrInvalidCapacity, http.StatusBadRequest},
	{movie.ErrTitleRequired, http.StatusBadRequest},
	{movie.ErrInvalidRating, http.StatusBadRequest},
	{movie.ErrGenreTitleRequired, http.StatusBadRequest},
}

// StatusCode はエラーに対応するHTTPステータスとメッセージを返す
// 対応のないエラーは 500 として扱い、内部の詳細は返さない
func StatusCode(err error) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if m, ok := he.Message.(string); ok {
			return he.Code, m
		}
		return he.Code, http.StatusText(he.Code)
	}
	for _, es := range errorStatuses {
		if errors.Is(err, es.err) {
			return es.code, es.err.Error()
		}
	}
	return http.StatusInternalServerError, "内部サーバーエラー"
}

// CustomHTTPErrorHandler はカスタムエラーハンドラー
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code, message := StatusCode(err)
	resp := ErrorResponse{Error: message, Code: code}

	// ページネーションは利用者が直せるように詳細を返す
	if errors.Is(err, pagination.ErrInvalidQuery) {
		resp.Details = err.Error()
	}

	// エラーログを出力（5xx エラーの場合）
	if code >= 500 {
		logger.Error("サーバーエラー",
			zap.Int("status", code),
			zap.String("path", c.Request().URL.Path),
			zap.Error(err),
		)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, resp)
	}
	if err != nil {
		logger.Error("エラーレスポンス送信失敗", zap.Error(err))
	}
}
