package repositories

import (
	"database/sql"
	"fmt"

	"github.com/desertthunder/museekly/internal/shared"
)

// sequenced lists the tables that own a "{table}_sequence" counter row.
var sequenced = map[string]bool{"searches": true}

// NextSequence increments and returns the sequence counter for table in a single statement.
//
// Sequence numbers give records a human-readable order (search #42) that survives soft deletes.
func NextSequence(db *sql.DB, table string) (int, error) {
	if !sequenced[table] {
		return 0, fmt.Errorf("%w: no sequence for table %q", shared.ErrInvalidInput, table)
	}

	var sequence int
	query := fmt.Sprintf("UPDATE %s_sequence SET value = value + 1 WHERE id = 1 RETURNING value", table)
	if err := db.QueryRow(query).Scan(&sequence); err != nil {
		return 0, fmt.Errorf("failed to increment sequence: %w", err)
	}

	return sequence, nil
}
