package application

import (
	"context"

	"github.com/HAL94/fast-movie-reserve/internal/domain/theatre"
	"github.com/HAL94/fast-movie-reserve/internal/pkg/pagination"
)

type TheatreService struct {
	theatreRepo theatre.Repository
}

func NewTheatreService(tr theatre.Repository) *TheatreService {
	return &TheatreService{theatreRepo: tr}
}

func (s *TheatreService) CreateTheatre(ctx context.Context, theatreNumber string, capacity int) (*theatre.Theatre, error) {
	th := theatre.NewTheatre(theatreNumber, capacity)
	if err := th.Validate(); err != nil {
		return nil, err
	}
	if err := s.theatreRepo.Create(ctx, th); err != nil {
		return nil, err
	}
	return th, nil
}

func (s *TheatreService) GetTheatre(ctx context.Context, id string) (*theatre.Theatre, error) {
	return s.theatreRepo.GetByID(ctx, id)
}

func (s *TheatreService) ListTheatres(ctx context.Context, q pagination.Query) (*pagination.Page[*theatre.Theatre], error) {
	items, total, err := s.theatreRepo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return pagination.NewPage(q, items, total), nil
}
