package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/HAL94/fast-movie-reserve/internal/pkg/pagination"
)

// bindPageQuery はクエリパラメータから一覧条件を読み取って検証する
func bindPageQuery(c echo.Context) (pagination.Query, error) {
	var q pagination.Query
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return q, err
	}
	if err := q.Validate(); err != nil {
		return q, err
	}
	return q, nil
}

func mapPage[T, R any](p *pagination.Page[T], fn func(T) R) *pagination.Page[R] {
	result := make([]R, len(p.Result))
	for i, v := range p.Result {
		result[i] = fn(v)
	}
	return &pagination.Page[R]{
		Result:       result,
		TotalRecords: p.TotalRecords,
		Size:         p.Size,
		Page:         p.Page,
	}
}
