// Package database handles PostgreSQL connections and queries.
//
// We use sqlx on top of database/sql: raw SQL, struct scanning via `db` tags,
// and the built-in connection pool. One *DB is created at startup and shared
// across goroutines.
package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/Shimizu-Technology/bitelist-api/internal/models"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("not found")

// DB wraps the sqlx database connection with our application-specific methods.
type DB struct {
	*sqlx.DB
}

// New creates a new database connection with connection pooling configured.
func New(databaseURL string) (*DB, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Tuned for serverless Postgres, which closes idle connections quickly.
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(2 * time.Minute)
	db.SetConnMaxIdleTime(30 * time.Second)

	return &DB{db}, nil
}

// HealthCheck verifies the database connection is alive.
func (db *DB) HealthCheck(ctx context.Context) error {
	return db.PingContext(ctx)
}

// --- Extraction Operations ---

// CreateExtraction inserts a new extraction record and fills in its ID and timestamps.
func (db *DB) CreateExtraction(ctx context.Context, e *models.Extraction) error {
	if len(e.Ingredients) == 0 {
		e.Ingredients = json.RawMessage("[]")
	}

	query := `
		INSERT INTO extractions (video_url, platform, video_id, user_description, status, source, used_model, ingredients, thumbnail_url, error_message)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`

	return db.QueryRowContext(ctx, query,
		e.VideoURL, e.Platform, e.VideoID, e.UserDescription, e.Status,
		e.Source, e.UsedModel, []byte(e.Ingredients), e.ThumbnailURL, e.ErrorMessage,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

// GetExtraction retrieves a single extraction by ID.
func (db *DB) GetExtraction(ctx context.Context, id string) (*models.Extraction, error) {
	var e models.Extraction
	err := db.GetContext(ctx, &e, `SELECT * FROM extractions WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("extraction %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get extraction: %w", err)
	}
	return &e, nil
}

// UpdateExtraction writes the processing outcome of an extraction.
func (db *DB) UpdateExtraction(ctx context.Context, e *models.Extraction) error {
	if len(e.Ingredients) == 0 {
		e.Ingredients = json.RawMessage("[]")
	}

	query := `
		UPDATE extractions
		SET status = $2, source = $3, used_model = $4, ingredients = $5,
			thumbnail_url = $6, error_message = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := db.QueryRowContext(ctx, query,
		e.ID, e.Status, e.Source, e.UsedModel, []byte(e.Ingredients),
		e.ThumbnailURL, e.ErrorMessage,
	).Scan(&e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("extraction %s: %w", e.ID, ErrNotFound)
	}
	return err
}

// SetThumbnail stores the thumbnail URL of an extraction.
func (db *DB) SetThumbnail(ctx context.Context, id, thumbnailURL string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE extractions SET thumbnail_url = $2, updated_at = NOW() WHERE id = $1`,
		id, thumbnailURL)
	if err != nil {
		return fmt.Errorf("failed to set thumbnail: %w", err)
	}
	return nil
}

// ListExtractions returns a page of extractions, newest first, and the total
// number of matching rows.
func (db *DB) ListExtractions(ctx context.Context, params models.ExtractionListParams) ([]models.Extraction, int, error) {
	params = normalizeListParams(params)
	countQuery, selectQuery, args := buildListQuery(params)

	var total int
	if err := db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count query failed: %w", err)
	}

	offset := (params.Page - 1) * params.PerPage
	pageArgs := append(append([]interface{}{}, args...), params.PerPage, offset)

	extractions := []models.Extraction{}
	if err := db.SelectContext(ctx, &extractions, selectQuery, pageArgs...); err != nil {
		return nil, 0, fmt.Errorf("list query failed: %w", err)
	}

	return extractions, total, nil
}

// DeleteExtraction removes an extraction by ID.
func (db *DB) DeleteExtraction(ctx context.Context, id string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM extractions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete extraction: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("extraction %s: %w", id, ErrNotFound)
	}
	return nil
}

// normalizeListParams applies pagination defaults.
func normalizeListParams(p models.ExtractionListParams) models.ExtractionListParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 || p.PerPage > 100 {
		p.PerPage = 20
	}
	return p
}

// buildListQuery builds the count and page queries for the given filters.
// The page query takes two extra trailing args: limit and offset.
func buildListQuery(p models.ExtractionListParams) (countQuery, selectQuery string, args []interface{}) {
	var conditions []string
	argNum := 1

	if p.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argNum))
		args = append(args, p.Status)
		argNum++
	}

	if p.Platform != "" {
		conditions = append(conditions, fmt.Sprintf("platform = $%d", argNum))
		args = append(args, p.Platform)
		argNum++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery = "SELECT COUNT(*) FROM extractions" + whereClause
	selectQuery = fmt.Sprintf(
		"SELECT * FROM extractions%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		whereClause, argNum, argNum+1,
	)
	return countQuery, selectQuery, args
}
