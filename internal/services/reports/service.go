package reports

import (
	"context"
	"strings"
	"time"

	"threatdash/internal/domain"
	"threatdash/internal/ports"
)

// Service validates report input and delegates persistence to the repository.
type Service struct {
	repo  ports.ReportRepository
	areas ports.Areas
	now   func() time.Time
}

func New(repo ports.ReportRepository, areas ports.Areas) *Service {
	return &Service{repo: repo, areas: areas, now: time.Now}
}

func (s *Service) List(ctx context.Context) ([]domain.ThreatReport, error) {
	return s.repo.List(ctx)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func (s *Service) Create(ctx context.Context, in domain.NewReport) (domain.ThreatReport, error) {
	required := []struct{ name, value string }{
		{"threat_type", in.ThreatType},
		{"area", in.Area},
		{"severity", in.Severity},
		{"description", in.Description},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return domain.ThreatReport{}, domain.InvalidArgument("Missing required field: %s", f.name)
		}
	}
	area, err := s.areas.Normalize(in.Area)
	if err != nil {
		return domain.ThreatReport{}, err
	}
	sev := domain.Severity(in.Severity)
	if !sev.Valid() {
		return domain.ThreatReport{}, domain.InvalidArgument("Invalid severity. Must be one of: %v", domain.Severities)
	}
	reporter := strings.TrimSpace(in.Reporter)
	if reporter == "" {
		reporter = domain.DefaultReporter
	}
	return s.repo.Insert(ctx, domain.ThreatReport{
		Timestamp:   s.now(),
		ThreatType:  in.ThreatType,
		Area:        area,
		Severity:    sev,
		Description: in.Description,
		Reporter:    reporter,
		Status:      domain.StatusActive,
	})
}

func (s *Service) UpdateStatus(ctx context.Context, id int, status string) (domain.ThreatReport, error) {
	st := domain.Status(status)
	if !st.Valid() {
		return domain.ThreatReport{}, domain.InvalidArgument("Invalid status. Must be one of: %v", domain.Statuses)
	}
	return s.repo.UpdateStatus(ctx, id, st, s.now())
}

func (s *Service) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}
