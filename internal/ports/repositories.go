package ports

import (
	"context"
	"time"

	"threatdash/internal/domain"
)

// DatasetLoader materializes one product dataset. Implementations substitute
// an empty dataset for missing or malformed sources instead of failing.
type DatasetLoader interface {
	Load(ctx context.Context, name domain.DatasetName) (domain.Dataset, error)
}

// ReportRepository persists threat reports. Implementations serialize writers
// and assign ids one past the highest id ever stored.
type ReportRepository interface {
	List(ctx context.Context) ([]domain.ThreatReport, error)
	Insert(ctx context.Context, r domain.ThreatReport) (domain.ThreatReport, error)
	UpdateStatus(ctx context.Context, id int, status domain.Status, at time.Time) (domain.ThreatReport, error)
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context) (int, error)
	Close() error
}
