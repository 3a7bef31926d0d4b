package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"threatdash/internal/domain"
)

// ReportStore keeps threat reports in memory and rewrites the backing JSON
// file after every mutation. All access goes through mu.
type ReportStore struct {
	mu      sync.Mutex
	path    string
	reports []domain.ThreatReport
	nextID  int
	log     *logrus.Logger
}

// Open loads path into memory. A missing file starts an empty list; a
// malformed one is logged and also starts empty.
func Open(path string, log *logrus.Logger) (*ReportStore, error) {
	s := &ReportStore{path: path, log: log, nextID: 1}
	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Info("no existing threat data found, starting with empty list")
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, &s.reports); err != nil {
		log.Errorf("error parsing threat data file: %v", err)
		s.reports = nil
		return s, nil
	}
	for _, r := range s.reports {
		if r.ID >= s.nextID {
			s.nextID = r.ID + 1
		}
	}
	log.Infof("loaded %d threats from %s", len(s.reports), path)
	return s, nil
}

func (s *ReportStore) List(_ context.Context) ([]domain.ThreatReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ThreatReport, len(s.reports))
	copy(out, s.reports)
	return out, nil
}

func (s *ReportStore) Count(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reports), nil
}

func (s *ReportStore) Insert(_ context.Context, r domain.ThreatReport) (domain.ThreatReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = s.nextID
	s.nextID++
	s.reports = append(s.reports, r)
	if err := s.saveLocked(); err != nil {
		s.reports = s.reports[:len(s.reports)-1]
		return domain.ThreatReport{}, err
	}
	return r, nil
}

func (s *ReportStore) UpdateStatus(_ context.Context, id int, status domain.Status, at time.Time) (domain.ThreatReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.reports {
		if s.reports[i].ID != id {
			continue
		}
		prev := s.reports[i]
		s.reports[i].Status = status
		s.reports[i].Updated = &at
		if err := s.saveLocked(); err != nil {
			s.reports[i] = prev
			return domain.ThreatReport{}, err
		}
		return s.reports[i], nil
	}
	return domain.ThreatReport{}, fmt.Errorf("threat %d: %w", id, domain.ErrNotFound)
}

func (s *ReportStore) Delete(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := make([]domain.ThreatReport, 0, len(s.reports))
	for _, r := range s.reports {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(s.reports) {
		return fmt.Errorf("threat %d: %w", id, domain.ErrNotFound)
	}
	prev := s.reports
	s.reports = kept
	if err := s.saveLocked(); err != nil {
		s.reports = prev
		return err
	}
	return nil
}

func (s *ReportStore) Close() error { return nil }

// saveLocked writes via a temp file and rename so readers never see a
// partial document.
func (s *ReportStore) saveLocked() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	list := s.reports
	if list == nil {
		list = []domain.ThreatReport{}
	}
	raw, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	s.log.Debugf("saved %d threats to %s", len(s.reports), s.path)
	return nil
}
