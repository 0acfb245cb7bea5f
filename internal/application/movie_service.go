package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/HAL94/fast-movie-reserve/internal/domain/movie"
	"github.com/HAL94/fast-movie-reserve/internal/domain/transaction"
	"github.com/HAL94/fast-movie-reserve/internal/pkg/logger"
	"github.com/HAL94/fast-movie-reserve/internal/pkg/pagination"
)

type MovieService struct {
	txManager transaction.Manager
	movieRepo movie.Repository
	genreRepo movie.GenreRepository
}

func NewMovieService(txm transaction.Manager, mr movie.Repository, gr movie.GenreRepository) *MovieService {
	return &MovieService{txManager: txm, movieRepo: mr, genreRepo: gr}
}

type CreateMovieInput struct {
	Title       string
	Description string
	Rating      int
	ImageURL    string
	Genres      []string
}

func (s *MovieService) CreateMovie(ctx context.Context, input CreateMovieInput) (*movie.Movie, error) {
	m := movie.NewMovie(input.Title, input.Description, input.Rating, input.ImageURL, input.Genres)
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("バリデーションエラー: %w", err)
	}

	err := transaction.Run(ctx, s.txManager, func(tx transaction.Tx) error {
		if err := s.movieRepo.Create(ctx, tx, m); err != nil {
			return err
		}
		if len(m.Genres) == 0 {
			return nil
		}
		return s.movieRepo.ReplaceGenres(ctx, tx, m.ID, m.Genres)
	})
	if err != nil {
		return nil, err
	}
	logger.Info("映画を作成しました", zap.String("movie_id", m.ID), zap.Strings("genres", m.Genres))
	return m, nil
}

// UpdateMovieInput は部分更新。nil のフィールドは変更しない
type UpdateMovieInput struct {
	Title       *string
	Description *string
	Rating      *int
	ImageURL    *string
	// Genres が nil ならジャンルは変更しない。空スライスなら全て外す
	Genres []string
}

func (s *MovieService) UpdateMovie(ctx context.Context, id string, input UpdateMovieInput) (*movie.Movie, error) {
	m, err := s.movieRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Title != nil {
		m.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		m.Description = *input.Description
	}
	if input.Rating != nil {
		m.Rating = *input.Rating
	}
	if input.ImageURL != nil {
		m.ImageURL = *input.ImageURL
	}
	genres := movie.NormalizeGenres(input.Genres)
	if genres != nil {
		m.Genres = genres
	}
	m.UpdatedAt = time.Now()

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("バリデーションエラー: %w", err)
	}

	err = transaction.Run(ctx, s.txManager, func(tx transaction.Tx) error {
		if err := s.movieRepo.Update(ctx, tx, m); err != nil {
			return err
		}
		if genres == nil {
			return nil
		}
		return s.movieRepo.ReplaceGenres(ctx, tx, m.ID, genres)
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (s *MovieService) DeleteMovie(ctx context.Context, id string) error {
	return s.movieRepo.Delete(ctx, id)
}

func (s *MovieService) GetMovie(ctx context.Context, id string) (*movie.Movie, error) {
	return s.movieRepo.GetByID(ctx, id)
}

func (s *MovieService) ListMovies(ctx context.Context, q pagination.Query) (*pagination.Page[*movie.Movie], error) {
	items, total, err := s.movieRepo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return pagination.NewPage(q, items, total), nil
}

func (s *MovieService) CreateGenre(ctx context.Context, title string) (*movie.Genre, error) {
	g := &movie.Genre{Title: strings.TrimSpace(title)}
	if g.Title == "" {
		return nil, movie.ErrGenreTitleRequired
	}
	if err := s.genreRepo.Create(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *MovieService) ListGenres(ctx context.Context, q pagination.Query) (*pagination.Page[*movie.Genre], error) {
	items, total, err := s.genreRepo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return pagination.NewPage(q, items, total), nil
}
