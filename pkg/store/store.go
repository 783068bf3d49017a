// Package store persists analysis history in SQLite. WAL mode keeps the
// database usable while the directory watcher writes from the background.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/coolbeans/casemind/pkg/types"

	_ "modernc.org/sqlite"
)

// Store manages all SQLite operations for analysis history.
type Store struct {
	db *sql.DB
}

// Record is one persisted analysis.
type Record struct {
	ID              int64                `json:"id"`
	Path            string               `json:"path"`
	CaseStatus      types.CaseStatus     `json:"case_status"`
	Narrative       string               `json:"narrative,omitempty"`
	Recommendations []string             `json:"recommendations,omitempty"`
	Metadata        *types.CaseMetadata  `json:"metadata"`
	Reference       types.Date           `json:"reference"`
	CreatedAt       time.Time            `json:"created_at"`
}

// New opens (or creates) the SQLite database and initializes the schema.
func New(path string) (*Store, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(60000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS analyses (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		path            TEXT NOT NULL,
		case_status     TEXT NOT NULL,
		narrative       TEXT NOT NULL DEFAULT '',
		recommendations TEXT NOT NULL DEFAULT '[]',
		metadata        TEXT NOT NULL,
		reference       TEXT NOT NULL,
		created_at      TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_analyses_path ON analyses(path, created_at);
	CREATE INDEX IF NOT EXISTS idx_analyses_status ON analyses(case_status);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveReport persists one analysis and returns its row ID.
func (s *Store) SaveReport(path string, report *types.DocumentReport, reference types.Date) (int64, error) {
	if report == nil {
		return 0, fmt.Errorf("nil report")
	}

	metadataJSON, err := json.Marshal(report.Metadata)
	if err != nil {
		return 0, fmt.Errorf("encode metadata: %w", err)
	}
	recommendations := report.Recommendations
	if recommendations == nil {
		recommendations = []string{}
	}
	recommendationsJSON, err := json.Marshal(recommendations)
	if err != nil {
		return 0, fmt.Errorf("encode recommendations: %w", err)
	}

	result, err := s.db.Exec(
		`INSERT INTO analyses (path, case_status, narrative, recommendations, metadata, reference, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		path, string(report.CaseStatus), report.Narrative,
		string(recommendationsJSON), string(metadataJSON),
		reference.ToTime().Format("2006-01-02"),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("insert analysis: %w", err)
	}
	return result.LastInsertId()
}

// GetLatest returns the most recent analysis for the given document path.
func (s *Store) GetLatest(path string) (*Record, error) {
	row := s.db.QueryRow(
		`SELECT id, path, case_status, narrative, recommendations, metadata, reference, created_at
		 FROM analyses WHERE path = ? ORDER BY id DESC LIMIT 1`, path)

	record, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no analysis recorded for %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("load analysis for %s: %w", path, err)
	}
	return record, nil
}

// ListRecent returns up to limit analyses, newest first.
func (s *Store) ListRecent(limit int) ([]*Record, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT id, path, case_status, narrative, recommendations, metadata, reference, created_at
		 FROM analyses ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	defer rows.Close()

	records := []*Record{}
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan analysis: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// CountByStatus returns the number of stored analyses per case status.
func (s *Store) CountByStatus() (map[types.CaseStatus]int, error) {
	rows, err := s.db.Query(
		`SELECT case_status, COUNT(*) FROM analyses GROUP BY case_status`)
	if err != nil {
		return nil, fmt.Errorf("count analyses: %w", err)
	}
	defer rows.Close()

	counts := map[types.CaseStatus]int{}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[types.CaseStatus(status)] = count
	}
	return counts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var record Record
	var status, recommendationsJSON, metadataJSON, reference, createdAt string

	err := row.Scan(&record.ID, &record.Path, &status, &record.Narrative,
		&recommendationsJSON, &metadataJSON, &reference, &createdAt)
	if err != nil {
		return nil, err
	}

	record.CaseStatus = types.CaseStatus(status)
	if err := json.Unmarshal([]byte(recommendationsJSON), &record.Recommendations); err != nil {
		return nil, fmt.Errorf("decode recommendations: %w", err)
	}
	if err := json.Unmarshal([]byte(metadataJSON), &record.Metadata); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}

	if parsed, err := time.Parse("2006-01-02", reference); err == nil {
		record.Reference = types.FromTime(parsed)
	}
	if parsed, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		record.CreatedAt = parsed
	}
	return &record, nil
}
