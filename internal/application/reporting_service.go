package application

import (
	"context"

	"github.com/HAL94/fast-movie-reserve/internal/domain/reporting"
)

type ReportingService struct {
	reportingRepo reporting.Repository
}

func NewReportingService(rr reporting.Repository) *ReportingService {
	return &ReportingService{reportingRepo: rr}
}

// PotentialRevenue は確定・支払い済み予約の映画別売上を売上の降順で返す
func (s *ReportingService) PotentialRevenue(ctx context.Context) ([]*reporting.MovieRevenue, error) {
	rows, err := s.reportingRepo.PotentialRevenue(ctx)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []*reporting.MovieRevenue{}
	}
	return rows, nil
}
