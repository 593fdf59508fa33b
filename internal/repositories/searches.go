package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/museekly/internal/models"
	"github.com/desertthunder/museekly/internal/shared"
)

const searchColumns = `id, sequence, artist, title, status, message, lyrics, created_at, updated_at, deleted_at`

// SearchRepository implements models.Repository[*models.SearchRecord] for the search history.
type SearchRepository struct {
	db *sql.DB
}

// NewSearchRepository creates a new SearchRepository with the given database connection
func NewSearchRepository(db *sql.DB) *SearchRepository {
	return &SearchRepository{db: db}
}

// Create inserts a search record with a generated ID and sequence
func (r *SearchRepository) Create(record *models.SearchRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("%w: %w", shared.ErrInvalidInput, err)
	}

	sequence, err := NextSequence(r.db, "searches")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	record.SetID(id)
	record.SetSequence(sequence)

	query := `
		INSERT INTO searches (id, sequence, artist, title, status, message, lyrics, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		record.Artist(),
		record.Title(),
		string(record.Status()),
		record.Message(),
		record.Lyrics(),
		record.CreatedAt(),
		record.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert search: %w", err)
	}

	return nil
}

// Get retrieves a search by ID, excluding soft-deleted searches
func (r *SearchRepository) Get(id string) (*models.SearchRecord, error) {
	query := `SELECT ` + searchColumns + ` FROM searches WHERE id = ? AND deleted_at IS NULL`

	record, err := scanSearch(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: search %s", shared.ErrRecordNotFound, id)
	}
	return record, err
}

// Update rewrites the message and lyrics of an existing search
func (r *SearchRepository) Update(record *models.SearchRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("%w: %w", shared.ErrInvalidInput, err)
	}

	now := time.Now()
	record.SetUpdatedAt(now)

	query := `
		UPDATE searches
		SET message = ?, lyrics = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, record.Message(), record.Lyrics(), now, record.ID())
	if err != nil {
		return fmt.Errorf("failed to update search: %w", err)
	}

	return expectAffected(result, record.ID())
}

// Delete soft-deletes a search by ID
func (r *SearchRepository) Delete(id string) error {
	query := `UPDATE searches SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`

	result, err := r.db.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete search: %w", err)
	}

	return expectAffected(result, id)
}

// List retrieves searches matching the given criteria, newest first, excluding soft-deleted searches.
//
// Supported criteria: "status" (string or [models.SearchStatus]) and "limit" (int, ignored when <= 0).
func (r *SearchRepository) List(criteria map[string]any) ([]*models.SearchRecord, error) {
	query := `SELECT ` + searchColumns + ` FROM searches WHERE deleted_at IS NULL`
	args := []any{}

	switch status := criteria["status"].(type) {
	case string:
		if status != "" {
			query += " AND status = ?"
			args = append(args, status)
		}
	case models.SearchStatus:
		if status != "" {
			query += " AND status = ?"
			args = append(args, string(status))
		}
	}

	query += " ORDER BY sequence DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query searches: %w", err)
	}
	defer rows.Close()

	var records []*models.SearchRecord
	for rows.Next() {
		record, err := scanSearch(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}

// Clear soft-deletes every search and returns how many were removed
func (r *SearchRepository) Clear() (int, error) {
	result, err := r.db.Exec(`UPDATE searches SET deleted_at = ? WHERE deleted_at IS NULL`, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to clear searches: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return int(rows), nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scanSearch scans a single row from [sql.Row] or [sql.Rows] into a [models.SearchRecord]
func scanSearch(row scanner) (*models.SearchRecord, error) {
	var (
		id        string
		sequence  int
		artist    string
		title     string
		status    string
		message   string
		lyrics    string
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	err := row.Scan(&id, &sequence, &artist, &title, &status, &message, &lyrics, &createdAt, &updatedAt, &deletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan search: %w", err)
	}

	var deleted *time.Time
	if deletedAt.Valid {
		deleted = &deletedAt.Time
	}

	return models.RestoreSearchRecord(
		id, sequence, artist, title, models.SearchStatus(status), message, lyrics, createdAt, updatedAt, deleted,
	), nil
}

func expectAffected(result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: search %s not found or already deleted", shared.ErrRecordNotFound, id)
	}
	return nil
}

var _ models.Repository[*models.SearchRecord] = (*SearchRepository)(nil)
