package middleware

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HAL94/fast-movie-reserve/internal/config"
)

func serveMetrics(t *testing.T, cfg config.MetricsConfig, authHeader string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.GET("/metrics", func(c echo.Context) error {
		return c.String(http.StatusOK, "metrics")
	}, MetricsBasicAuth(cfg))

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func basic(user, pass string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))
}

func TestMetricsBasicAuth(t *testing.T) {
	enabled := config.MetricsConfig{User: "testuser", Password: "testpass"}

	t.Run("認証設定がない場合はスキップ", func(t *testing.T) {
		rec := serveMetrics(t, config.MetricsConfig{}, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "metrics", rec.Body.String())
	})

	t.Run("正しい認証情報", func(t *testing.T) {
		rec := serveMetrics(t, enabled, basic("testuser", "testpass"))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("誤ったパスワード", func(t *testing.T) {
		rec := serveMetrics(t, enabled, basic("testuser", "wrong"))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("認証ヘッダーなし", func(t *testing.T) {
		rec := serveMetrics(t, enabled, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
