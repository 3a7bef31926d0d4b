package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"threatdash/internal/domain"
)

const reportColumns = `id, created_at, threat_type, area, severity, description, reporter, status, updated_at`

func scanReport(row pgx.Row) (domain.ThreatReport, error) {
	var (
		r        domain.ThreatReport
		id       int64
		severity string
		status   string
	)
	err := row.Scan(&id, &r.Timestamp, &r.ThreatType, &r.Area, &severity, &r.Description, &r.Reporter, &status, &r.Updated)
	r.ID = int(id)
	r.Severity = domain.Severity(severity)
	r.Status = domain.Status(status)
	return r, err
}

func (db *DB) List(ctx context.Context) ([]domain.ThreatReport, error) {
	rows, err := db.Pool.Query(ctx, `SELECT `+reportColumns+` FROM threat_reports ORDER BY id`)
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

func (db *DB) Count(ctx context.Context) (int, error) {
	var n int
	err := db.Pool.QueryRow(ctx, `SELECT count(*) FROM threat_reports`).Scan(&n)
	return n, err
}

func (db *DB) Insert(ctx context.Context, r domain.ThreatReport) (domain.ThreatReport, error) {
	row := db.Pool.QueryRow(ctx, `
        INSERT INTO threat_reports (created_at, threat_type, area, severity, description, reporter, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING `+reportColumns,
		r.Timestamp, r.ThreatType, r.Area, string(r.Severity), r.Description, r.Reporter, string(r.Status))
	return scanReport(row)
}

func (db *DB) UpdateStatus(ctx context.Context, id int, status domain.Status, at time.Time) (domain.ThreatReport, error) {
	row := db.Pool.QueryRow(ctx, `
        UPDATE threat_reports SET status = $2, updated_at = $3
        WHERE id = $1
        RETURNING `+reportColumns, id, string(status), at)
	r, err := scanReport(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ThreatReport{}, fmt.Errorf("threat %d: %w", id, domain.ErrNotFound)
	}
	return r, err
}

func (db *DB) Delete(ctx context.Context, id int) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM threat_reports WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("threat %d: %w", id, domain.ErrNotFound)
	}
	return nil
}
