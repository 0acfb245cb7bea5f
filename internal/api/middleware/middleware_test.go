package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HAL94/fast-movie-reserve/internal/api"
	"github.com/HAL94/fast-movie-reserve/internal/config"
	"github.com/HAL94/fast-movie-reserve/internal/domain/reservation"
	"github.com/HAL94/fast-movie-reserve/internal/pkg/metrics"
)

func TestSetupMiddleware(t *testing.T) {
	e := echo.New()

	SetupMiddleware(e, config.ServerConfig{BodyLimit: "1M", CORSAllowOrigins: []string{"*"}})

	e.GET("/test", func(c echo.Context) error {
		return c.String(http.StatusOK, "test")
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "test", rec.Body.String())
	// リクエストIDが付与されている
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestSetupMiddleware_BodyLimitAndCORS(t *testing.T) {
	e := api.NewEcho()
	SetupMiddleware(e, config.ServerConfig{
		BodyLimit:        "1K",
		CORSAllowOrigins: []string{"https://cinema.example.com"},
	})
	e.POST("/reservations/hold-seat", func(c echo.Context) error {
		return c.NoContent(http.StatusCreated)
	})

	t.Run("上限を超えるボディは413", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/reservations/hold-seat", strings.NewReader(strings.Repeat("x", 2048)))
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})

	t.Run("許可したオリジンにはリクエストIDを公開する", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/reservations/hold-seat", strings.NewReader("{}"))
		req.Header.Set(echo.HeaderOrigin, "https://cinema.example.com")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "https://cinema.example.com", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
		assert.Equal(t, "true", rec.Header().Get(echo.HeaderAccessControlAllowCredentials))
		assert.Contains(t, rec.Header().Get(echo.HeaderAccessControlExposeHeaders), echo.HeaderXRequestID)
	})
}

func TestRequestLogger(t *testing.T) {
	tests := []struct {
		name    string
		handler echo.HandlerFunc
		want    int
	}{
		{"正常", func(c echo.Context) error { return c.String(http.StatusOK, "success") }, http.StatusOK},
		{"HTTPエラー", func(c echo.Context) error { return echo.NewHTTPError(http.StatusBadRequest, "bad request") }, http.StatusBadRequest},
		{"ドメインエラー", func(c echo.Context) error { return reservation.ErrSeatAlreadyReserved }, http.StatusConflict},
		{"サーバーエラー", func(c echo.Context) error { return c.String(http.StatusInternalServerError, "internal error") }, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			e.HTTPErrorHandler = api.CustomHTTPErrorHandler
			e.Use(RequestLogger())
			e.GET("/test", tt.handler)

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestPrometheusMiddleware(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler

	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(reg)

	e.Use(PrometheusMiddleware(m))

	e.GET("/test", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/reservations/:id", func(c echo.Context) error {
		return reservation.ErrReservationNotFound
	})

	for _, path := range []string{"/test", "/reservations/abc", "/reservations/def"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
	}

	families, err := reg.Gather()
	require.NoError(t, err)

	var requests []string
	var foundDuration bool
	for _, f := range families {
		switch f.GetName() {
		case "http_requests_total":
			for _, metric := range f.GetMetric() {
				labels := map[string]string{}
				for _, l := range metric.GetLabel() {
					labels[l.GetName()] = l.GetValue()
				}
				requests = append(requests, labels["path"]+" "+labels["status_code"])
				if labels["path"] == "/reservations/:id" {
					// パスパラメータはまとめて集計される
					assert.Equal(t, float64(2), metric.GetCounter().GetValue())
				}
			}
		case "http_request_duration_seconds":
			foundDuration = true
		}
	}
	assert.ElementsMatch(t, []string{"/test 200", "/reservations/:id 404"}, requests)
	assert.True(t, foundDuration, "http_request_duration_seconds should be recorded")
}

func TestStatusCode_HidesInternalErrors(t *testing.T) {
	code, msg := api.StatusCode(errors.New("pq: connection refused"))
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.NotContains(t, msg, "pq")
}
