// Package db persists analysis results in SQLite. Full results are stored
// as JSON documents alongside queryable summary columns.
package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/engineop/analyzer/models"
)

// DB wraps the database connection and provides data access methods
type DB struct {
	conn *sql.DB
}

// Config contains database configuration
type Config struct {
	Path string // SQLite database file, or ":memory:"
}

// New opens the database, configures the connection and runs migrations.
func New(config Config) (*DB, error) {
	conn, err := sql.Open("sqlite", config.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// SQLite allows one writer; a single connection avoids SQLITE_BUSY
	// without a busy-timeout dance.
	conn.SetMaxOpenConns(1)
	conn.SetConnMaxLifetime(5 * time.Minute)

	if _, err := conn.Exec("PRAGMA journal_mode = WAL; PRAGMA foreign_keys = ON;"); err != nil {
		return nil, fmt.Errorf("failed to set pragmas: %w", err)
	}

	if err := Migrate(conn); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &DB{conn: conn}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// DB returns the underlying database connection for metrics collection
func (db *DB) DB() *sql.DB {
	return db.conn
}

// AnalysisSummary is the lightweight listing row for an analysis.
type AnalysisSummary struct {
	ID              string              `json:"id"`
	URL             string              `json:"url"`
	Mode            models.AnalysisMode `json:"mode"`
	Timestamp       time.Time           `json:"timestamp"`
	PageCount       int                 `json:"page_count"`
	OverallSEOScore int                 `json:"overall_seo_score"`
	OverallAEOScore int                 `json:"overall_aeo_score"`
	OverallGEOScore int                 `json:"overall_geo_score"`
}

// SaveAnalysis stores a complete analysis result, replacing any previous
// result with the same ID.
func (db *DB) SaveAnalysis(result *models.AnalysisResult) error {
	jsonData, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}

	query := `
		INSERT INTO analyses (id, url, mode, seo_score, aeo_score, geo_score, page_count, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			url = excluded.url,
			mode = excluded.mode,
			seo_score = excluded.seo_score,
			aeo_score = excluded.aeo_score,
			geo_score = excluded.geo_score,
			page_count = excluded.page_count,
			data = excluded.data,
			updated_at = excluded.updated_at
	`

	_, err = db.conn.Exec(
		query,
		result.ID,
		result.URL,
		string(result.Mode),
		result.OverallSEOScore,
		result.OverallAEOScore,
		result.OverallGEOScore,
		len(result.Pages),
		string(jsonData),
		result.Timestamp,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}

	return nil
}

// GetAnalysis retrieves an analysis by ID. A nil result means not found.
func (db *DB) GetAnalysis(id string) (*models.AnalysisResult, error) {
	var jsonData string
	err := db.conn.QueryRow("SELECT data FROM analyses WHERE id = ?", id).Scan(&jsonData)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis: %w", err)
	}

	var result models.AnalysisResult
	if err := json.Unmarshal([]byte(jsonData), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal analysis: %w", err)
	}

	return &result, nil
}

// ListAnalyses returns analysis summaries, newest first, with pagination.
func (db *DB) ListAnalyses(limit, offset int) ([]AnalysisSummary, error) {
	query := `
		SELECT id, url, mode, created_at, page_count, seo_score, aeo_score, geo_score
		FROM analyses
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`

	rows, err := db.conn.Query(query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses: %w", err)
	}
	defer rows.Close()

	results := []AnalysisSummary{}
	for rows.Next() {
		var s AnalysisSummary
		var mode string
		if err := rows.Scan(&s.ID, &s.URL, &mode, &s.Timestamp, &s.PageCount, &s.OverallSEOScore, &s.OverallAEOScore, &s.OverallGEOScore); err != nil {
			// Skip corrupted rows rather than failing the whole listing
			log.Printf("skipping unreadable analysis row: %v", err)
			continue
		}
		s.Mode = models.AnalysisMode(mode)
		results = append(results, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return results, nil
}

// DeleteAnalysis deletes an analysis by ID.
func (db *DB) DeleteAnalysis(id string) error {
	result, err := db.conn.Exec("DELETE FROM analyses WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete analysis: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("no analysis found with id: %s", id)
	}

	return nil
}

// Count returns the total number of stored analyses
func (db *DB) Count() (int, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM analyses").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count analyses: %w", err)
	}
	return count, nil
}

// URLExists checks if an analysis for the given URL already exists
func (db *DB) URLExists(url string) (bool, error) {
	var exists bool
	err := db.conn.QueryRow("SELECT EXISTS(SELECT 1 FROM analyses WHERE url = ?)", url).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check URL existence: %w", err)
	}
	return exists, nil
}
