package postgres

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"threatdash/internal/domain"
	"threatdash/internal/logging"
	"threatdash/internal/ports"
)

var _ ports.ReportRepository = (*DB)(nil)

// Runs only against a disposable database named by THREATDASH_TEST_DATABASE_URL.
func TestReportsAgainstPostgres(t *testing.T) {
	url := os.Getenv("THREATDASH_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("THREATDASH_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	db, err := Connect(ctx, url)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer db.Close()
	if err := db.Migrate(ctx, logging.Discard()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if _, err := db.Pool.Exec(ctx, `TRUNCATE threat_reports`); err != nil {
		t.Fatal(err)
	}

	r, err := db.Insert(ctx, domain.ThreatReport{
		Timestamp: time.Now().UTC(), ThreatType: "SAM", Area: "OP1",
		Severity: domain.SeverityLow, Description: "d", Reporter: "ops", Status: domain.StatusActive,
	})
	if err != nil {
		t.Fatal(err)
	}
	got, err := db.UpdateStatus(ctx, r.ID, domain.StatusResolved, time.Now().UTC())
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != domain.StatusResolved || got.Updated == nil {
		t.Errorf("updated = %+v", got)
	}
	if err := db.Delete(ctx, r.ID); err != nil {
		t.Fatal(err)
	}
	if err := db.Delete(ctx, r.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("second delete err = %v", err)
	}
}
