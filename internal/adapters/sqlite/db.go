package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"threatdash/internal/domain"
)

//go:embed migrations/*.sql
var migrations embed.FS

type DB struct {
	sql *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return &DB{sql: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// Migrate applies the embedded goose migrations.
func (d *DB) Migrate(ctx context.Context, logger goose.Logger) error {
	goose.SetBaseFS(migrations)
	defer goose.SetBaseFS(nil)
	if logger != nil {
		goose.SetLogger(logger)
	}
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, d.sql, "migrations")
}

const reportColumns = `id, created_at, threat_type, area, severity, description, reporter, status, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanReport(row scanner) (domain.ThreatReport, error) {
	var (
		r                domain.ThreatReport
		created          string
		updated          sql.NullString
		severity, status string
	)
	if err := row.Scan(&r.ID, &created, &r.ThreatType, &r.Area, &severity, &r.Description, &r.Reporter, &status, &updated); err != nil {
		return r, err
	}
	r.Severity = domain.Severity(severity)
	r.Status = domain.Status(status)
	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return r, fmt.Errorf("parse created_at %q: %w", created, err)
	}
	r.Timestamp = t
	if updated.Valid {
		u, err := time.Parse(time.RFC3339Nano, updated.String)
		if err != nil {
			return r, fmt.Errorf("parse updated_at %q: %w", updated.String, err)
		}
		r.Updated = &u
	}
	return r, nil
}

func (d *DB) List(ctx context.Context) ([]domain.ThreatReport, error) {
	rows, err := d.sql.QueryContext(ctx, `SELECT `+reportColumns+` FROM threat_reports ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []domain.ThreatReport{}
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (d *DB) Count(ctx context.Context) (int, error) {
	var n int
	err := d.sql.QueryRowContext(ctx, `SELECT count(*) FROM threat_reports`).Scan(&n)
	return n, err
}

func (d *DB) Insert(ctx context.Context, r domain.ThreatReport) (domain.ThreatReport, error) {
	row := d.sql.QueryRowContext(ctx, `
INSERT INTO threat_reports (created_at, threat_type, area, severity, description, reporter, status)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING `+reportColumns,
		r.Timestamp.UTC().Format(time.RFC3339Nano), r.ThreatType, r.Area, string(r.Severity), r.Description, r.Reporter, string(r.Status))
	return scanReport(row)
}

func (d *DB) UpdateStatus(ctx context.Context, id int, status domain.Status, at time.Time) (domain.ThreatReport, error) {
	row := d.sql.QueryRowContext(ctx, `
UPDATE threat_reports SET status = ?, updated_at = ?
WHERE id = ?
RETURNING `+reportColumns, string(status), at.UTC().Format(time.RFC3339Nano), id)
	r, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ThreatReport{}, fmt.Errorf("threat %d: %w", id, domain.ErrNotFound)
	}
	return r, err
}

func (d *DB) Delete(ctx context.Context, id int) error {
	res, err := d.sql.ExecContext(ctx, `DELETE FROM threat_reports WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("threat %d: %w", id, domain.ErrNotFound)
	}
	return nil
}
