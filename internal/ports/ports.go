package ports

import (
	"context"

	"threatdash/internal/domain"
)

// Matcher answers threat-vs-area queries and area listings.
type Matcher interface {
	Check(ctx context.Context, area, threat string) (domain.MatchResult, error)
	Products(ctx context.Context, name domain.DatasetName) (map[string][]domain.Product, []string, error)
}

// Reports manages operator threat reports.
type Reports interface {
	List(ctx context.Context) ([]domain.ThreatReport, error)
	Create(ctx context.Context, in domain.NewReport) (domain.ThreatReport, error)
	UpdateStatus(ctx context.Context, id int, status string) (domain.ThreatReport, error)
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context) (int, error)
}

// Areas exposes the configured valid-area set.
type Areas interface {
	List() []string
	Normalize(area string) (string, error)
}
