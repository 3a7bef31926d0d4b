package jsonfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"threatdash/internal/domain"
	"threatdash/internal/logging"
)

func report(area string) domain.ThreatReport {
	return domain.ThreatReport{
		Timestamp:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		ThreatType:  "SAM",
		Area:        area,
		Severity:    domain.SeverityHigh,
		Description: "radar lock observed",
		Reporter:    domain.DefaultReporter,
		Status:      domain.StatusActive,
	}
}

func TestOpenMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "threats.json")
	s, err := Open(path, logging.Discard())
	if err != nil {
		t.Fatal(err)
	}
	n, _ := s.Count(context.Background())
	if n != 0 {
		t.Errorf("count = %d, want 0", n)
	}
}

func TestOpenMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "threats.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := Open(path, logging.Discard())
	if err != nil {
		t.Fatal(err)
	}
	list, _ := s.List(context.Background())
	if len(list) != 0 {
		t.Errorf("expected empty list, got %d", len(list))
	}
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "threats.json")
	s, err := Open(path, logging.Discard())
	if err != nil {
		t.Fatal(err)
	}
	a, err := s.Insert(ctx, report("OP1"))
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.Insert(ctx, report("OP2"))
	if err != nil {
		t.Fatal(err)
	}
	if a.ID != 1 || b.ID != 2 {
		t.Fatalf("ids = %d,%d want 1,2", a.ID, b.ID)
	}
	at := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	if _, err := s.UpdateStatus(ctx, 1, domain.StatusResolved, at); err != nil {
		t.Fatal(err)
	}

	reopened, err := Open(path, logging.Discard())
	if err != nil {
		t.Fatal(err)
	}
	list, _ := reopened.List(ctx)
	if len(list) != 2 {
		t.Fatalf("reopened count = %d", len(list))
	}
	if list[0].Status != domain.StatusResolved || list[0].Updated == nil || !list[0].Updated.Equal(at) {
		t.Errorf("first report = %+v", list[0])
	}
	c, _ := reopened.Insert(ctx, report("OP3"))
	if c.ID != 3 {
		t.Errorf("next id after reopen = %d, want 3", c.ID)
	}
}

func TestDeleteDoesNotReuseIDs(t *testing.T) {
	ctx := context.Background()
	s, err := Open(filepath.Join(t.TempDir(), "threats.json"), logging.Discard())
	if err != nil {
		t.Fatal(err)
	}
	s.Insert(ctx, report("OP1"))
	s.Insert(ctx, report("OP1"))
	if err := s.Delete(ctx, 1); err != nil {
		t.Fatal(err)
	}
	r, _ := s.Insert(ctx, report("OP1"))
	if r.ID != 3 {
		t.Errorf("id = %d, want 3", r.ID)
	}
}

func TestNotFound(t *testing.T) {
	ctx := context.Background()
	s, err := Open(filepath.Join(t.TempDir(), "threats.json"), logging.Discard())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, 42); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Delete err = %v", err)
	}
	if _, err := s.UpdateStatus(ctx, 42, domain.StatusResolved, time.Now()); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("UpdateStatus err = %v", err)
	}
}
