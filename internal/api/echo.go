package api

import "github.com/labstack/echo/v4"

// NewEcho はバリデーターとエラーハンドラーを設定済みの Echo を返す
// API プロセスとハンドラーのテストで同じ構成を使う
func NewEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()
	e.HTTPErrorHandler = CustomHTTPErrorHandler
	return e
}
