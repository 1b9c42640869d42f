package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"MarketPulse/internal/domain/models"
	pkgch "MarketPulse/pkg/clickhouse"
)

const reportsTable = "reports"

var reportSchema = []string{
	`CREATE TABLE IF NOT EXISTS reports (
		id         String,
		title      String,
		level      Int8,
		format     String,
		created_at DateTime('UTC'),
		degraded   UInt8,
		document   String,
		rendered   String
	) ENGINE = ReplacingMergeTree()
	ORDER BY (created_at, id)`,
}

// CHReportStore archives reports in ClickHouse. The full report is
// stored as a JSON document next to its rendered bytes so Get restores
// both without re-assembly.
type CHReportStore struct {
	db *sql.DB
}

// NewCHReportStore creates the store and ensures the schema exists.
func NewCHReportStore(ctx context.Context, ch *pkgch.Client) (*CHReportStore, error) {
	if err := ch.InitSchema(ctx, reportSchema); err != nil {
		return nil, err
	}
	return &CHReportStore{db: ch.DB()}, nil
}

func (s *CHReportStore) Save(ctx context.Context, report *models.Report, rendered []byte) error {
	doc, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	degraded := uint8(0)
	if report.Degraded {
		degraded = 1
	}

	query := fmt.Sprintf(`INSERT INTO %s
		(id, title, level, format, created_at, degraded, document, rendered)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`, reportsTable)
	_, err = s.db.ExecContext(ctx, query,
		report.ID, report.Title, int8(report.Level), string(report.Format),
		report.CreatedAt, degraded, string(doc), string(rendered))
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

func (s *CHReportStore) Get(ctx context.Context, id string) (*models.Report, []byte, error) {
	query := fmt.Sprintf(`SELECT document, rendered FROM %s FINAL WHERE id = ? LIMIT 1`, reportsTable)

	var doc, rendered string
	err := s.db.QueryRowContext(ctx, query, id).Scan(&doc, &rendered)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, ErrReportNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("select report: %w", err)
	}

	var report models.Report
	if err := unmarshalReport([]byte(doc), &report); err != nil {
		return nil, nil, err
	}
	return &report, []byte(rendered), nil
}

func (s *CHReportStore) List(ctx context.Context, limit, offset int) ([]*models.Report, int64, error) {
	var total int64
	countQuery := fmt.Sprintf(`SELECT count() FROM %s FINAL`, reportsTable)
	if err := s.db.QueryRowContext(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count reports: %w", err)
	}

	query := fmt.Sprintf(`SELECT document FROM %s FINAL
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`, reportsTable)
	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var reports []*models.Report
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, 0, fmt.Errorf("scan report: %w", err)
		}
		var report models.Report
		if err := unmarshalReport([]byte(doc), &report); err != nil {
			return nil, 0, err
		}
		reports = append(reports, &report)
	}
	return reports, total, rows.Err()
}

func (s *CHReportStore) Delete(ctx context.Context, id string) error {
	if _, _, err := s.Get(ctx, id); err != nil {
		return err
	}
	query := fmt.Sprintf(`ALTER TABLE %s DELETE WHERE id = ?`, reportsTable)
	if _, err := s.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	return nil
}

// unmarshalReport restores a report document. Payload typing inside
// snapshots is not needed here; reports carry only rendered sections.
func unmarshalReport(doc []byte, report *models.Report) error {
	if err := json.Unmarshal(doc, report); err != nil {
		return fmt.Errorf("unmarshal report: %w", err)
	}
	return nil
}
