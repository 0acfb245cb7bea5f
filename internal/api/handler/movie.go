package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/HAL94/fast-movie-reserve/internal/application"
	"github.com/HAL94/fast-movie-reserve/internal/domain/movie"
)

type MovieHandler struct {
	service MovieServiceInterface
}

func NewMovieHandler(s MovieServiceInterface) *MovieHandler {
	return &MovieHandler{service: s}
}

type CreateMovieRequest struct {
	Title       string   `json:"title" validate:"required,max=255" example:"Dune"`
	Description string   `json:"description"`
	Rating      int      `json:"rating" validate:"min=0,max=10" example:"8"`
	ImageURL    string   `json:"image_url" validate:"omitempty,url"`
	Genres      []string `json:"genres" validate:"omitempty,dive,required"`
}

// UpdateMovieRequest は指定したフィールドのみ更新する
type UpdateMovieRequest struct {
	Title       *string  `json:"title" validate:"omitempty,max=255"`
	Description *string  `json:"description"`
	Rating      *int     `json:"rating" validate:"omitempty,min=0,max=10"`
	ImageURL    *string  `json:"image_url" validate:"omitempty,url"`
	Genres      []string `json:"genres" validate:"omitempty,dive,required"`
}

type MovieResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Rating      int       `json:"rating"`
	ImageURL    string    `json:"image_url"`
	Genres      []string  `json:"genres"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toMovieResponse(m *movie.Movie) MovieResponse {
	genres := m.Genres
	if genres == nil {
		genres = []string{}
	}
	return MovieResponse{
		ID: m.ID, Title: m.Title, Description: m.Description, Rating: m.Rating,
		ImageURL: m.ImageURL, Genres: genres, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
	}
}

type CreateGenreRequest struct {
	Title string `json:"title" validate:"required,max=100" example:"SF"`
}

type GenreResponse struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func toGenreResponse(g *movie.Genre) GenreResponse {
	return GenreResponse{ID: g.ID, Title: g.Title}
}

// Create godoc
// @Summary 映画を登録（管理者）
// @Tags movies
// @Accept json
// @Produce json
// @Param request body CreateMovieRequest true "映画情報"
// @Success 201 {object} MovieResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse "タイトルが重複"
// @Router /movies [post]
func (h *MovieHandler) Create(c echo.Context) error {
	var req CreateMovieRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	m, err := h.service.CreateMovie(c.Request().Context(), application.CreateMovieInput{
		Title: req.Title, Description: req.Description, Rating: req.Rating,
		ImageURL: req.ImageURL, Genres: req.Genres,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toMovieResponse(m))
}

// Update godoc
// @Summary 映画を更新（管理者）
// @Description genres を空配列で渡すとジャンルを全て外します
// @Tags movies
// @Accept json
// @Produce json
// @Param id path string true "映画ID"
// @Param request body UpdateMovieRequest true "更新内容"
// @Success 200 {object} MovieResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /movies/{id} [patch]
func (h *MovieHandler) Update(c echo.Context) error {
	var req UpdateMovieRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	m, err := h.service.UpdateMovie(c.Request().Context(), c.Param("id"), application.UpdateMovieInput{
		Title: req.Title, Description: req.Description, Rating: req.Rating,
		ImageURL: req.ImageURL, Genres: req.Genres,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toMovieResponse(m))
}

// Delete godoc
// @Summary 映画を削除（管理者）
// @Tags movies
// @Param id path string true "映画ID"
// @Success 204
// @Failure 404 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse "上映が登録されている"
// @Router /movies/{id} [delete]
func (h *MovieHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteMovie(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// GetByID godoc
// @Summary 映画を取得
// @Tags movies
// @Produce json
// @Param id path string true "映画ID"
// @Success 200 {object} MovieResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /movies/{id} [get]
func (h *MovieHandler) GetByID(c echo.Context) error {
	m, err := h.service.GetMovie(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toMovieResponse(m))
}

// List godoc
// @Summary 映画一覧
// @Tags movies
// @Produce json
// @Success 200 {object} pagination.Page[MovieResponse]
// @Router /movies [get]
func (h *MovieHandler) List(c echo.Context) error {
	q, err := bindPageQuery(c)
	if err != nil {
		return err
	}
	page, err := h.service.ListMovies(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, mapPage(page, toMovieResponse))
}

// CreateGenre godoc
// @Summary ジャンルを登録（管理者）
// @Tags genres
// @Accept json
// @Produce json
// @Param request body CreateGenreRequest true "ジャンル"
// @Success 201 {object} GenreResponse
// @Failure 409 {object} api.ErrorResponse
// @Router /genres [post]
func (h *MovieHandler) CreateGenre(c echo.Context) error {
	var req CreateGenreRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	g, err := h.service.CreateGenre(c.Request().Context(), req.Title)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toGenreResponse(g))
}

// ListGenres godoc
// @Summary ジャンル一覧
// @Tags genres
// @Produce json
// @Success 200 {object} pagination.Page[GenreResponse]
// @Router /genres [get]
func (h *MovieHandler) ListGenres(c echo.Context) error {
	q, err := bindPageQuery(c)
	if err != nil {
		return err
	}
	page, err := h.service.ListGenres(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, mapPage(page, toGenreResponse))
}
