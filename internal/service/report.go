package service

import (
	"context"
	"time"

	"github.com/casetrack/casetrack/internal/repository"
)

const (
	labelNoRole  = "No Role"
	labelUnknown = "Unknown"
)

type RoleCount struct {
	Role  string `json:"role"`
	Count int64  `json:"count"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type TypeCount struct {
	Type  string `json:"type"`
	Count int64  `json:"count"`
}

// ReportService computes the dashboard aggregations. "Today" is the calendar
// day of now() in the configured location.
type ReportService struct {
	reportRepository repository.ReportRepository
	location         *time.Location
	now              func() time.Time
}

func NewReportService(reportRepository repository.ReportRepository, location *time.Location) *ReportService {
	return &ReportService{
		reportRepository: reportRepository,
		location:         location,
		now:              time.Now,
	}
}

func (s *ReportService) UsersByRole(ctx context.Context) ([]RoleCount, error) {
	counts, err := s.reportRepository.UsersByRole(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]RoleCount, len(counts))
	for i, c := range counts {
		out[i] = RoleCount{Role: labelOr(c.Label, labelNoRole), Count: c.Count}
	}
	return out, nil
}

func (s *ReportService) TodayCasesByStatus(ctx context.Context) ([]StatusCount, error) {
	from, to := s.today()
	counts, err := s.reportRepository.CasesByStatusBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}

	out := make([]StatusCount, len(counts))
	for i, c := range counts {
		out[i] = StatusCount{Status: labelOr(c.Label, labelUnknown), Count: c.Count}
	}
	return out, nil
}

func (s *ReportService) TodayCasesByType(ctx context.Context) ([]TypeCount, error) {
	from, to := s.today()
	counts, err := s.reportRepository.CasesByTypeBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}

	out := make([]TypeCount, len(counts))
	for i, c := range counts {
		out[i] = TypeCount{Type: labelOr(c.Label, labelUnknown), Count: c.Count}
	}
	return out, nil
}

// today returns [midnight, next midnight) of the current local day.
func (s *ReportService) today() (time.Time, time.Time) {
	now := s.now().In(s.location)
	y, m, d := now.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, s.location)
	return start, start.AddDate(0, 0, 1)
}

func labelOr(label *string, fallback string) string {
	if label == nil {
		return fallback
	}
	return *label
}
