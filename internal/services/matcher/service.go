package matcher

import (
	"context"
	"fmt"
	"time"

	"threatdash/internal/domain"
	"threatdash/internal/ports"
)

// Service loads datasets per request and runs the pure matching functions
// over them. It holds no dataset state between calls.
type Service struct {
	areas  ports.Areas
	loader ports.DatasetLoader
	now    func() time.Time
}

func New(areas ports.Areas, loader ports.DatasetLoader) *Service {
	return &Service{areas: areas, loader: loader, now: time.Now}
}

func (s *Service) Check(ctx context.Context, area, threat string) (domain.MatchResult, error) {
	if _, _, err := validate(s.areas, area, threat); err != nil {
		return domain.MatchResult{}, err
	}
	issues, err := s.loader.Load(ctx, domain.DatasetIssues)
	if err != nil {
		return domain.MatchResult{}, fmt.Errorf("load issues: %w", err)
	}
	concessions, err := s.loader.Load(ctx, domain.DatasetConcessions)
	if err != nil {
		return domain.MatchResult{}, fmt.Errorf("load concessions: %w", err)
	}
	return CheckThreat(s.areas, area, threat, issues, concessions, s.now())
}

// Products groups the named dataset by area and returns the area keys in the
// order they first appear.
func (s *Service) Products(ctx context.Context, name domain.DatasetName) (map[string][]domain.Product, []string, error) {
	ds, err := s.loader.Load(ctx, name)
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", name, err)
	}
	return GroupByArea(ds), AreaOrder(ds), nil
}
