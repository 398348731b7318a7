package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/mmynk/hisab/internal/models"
	"github.com/mmynk/hisab/internal/storage"
)

// Read returns the user's document, or nil when none exists.
func (s *SQLiteStore) Read(ctx context.Context, userID string) (*models.Snapshot, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		"SELECT body FROM documents WHERE user_id = ?",
		userID,
	).Scan(&body)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	var snap models.Snapshot
	if err := json.Unmarshal([]byte(body), &snap); err != nil {
		return nil, fmt.Errorf("document %s: %w: %v", userID, storage.ErrCorrupt, err)
	}
	return &snap, nil
}

// Write replaces the user's document. Every field is overwritten.
func (s *SQLiteStore) Write(ctx context.Context, userID string, snap models.Snapshot) error {
	if snap.LastUpdated == "" {
		snap = snap.Stamp(s.now())
	}
	body, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (user_id, body, last_updated) VALUES (?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET body = excluded.body, last_updated = excluded.last_updated`,
		userID, string(body), snap.LastUpdated,
	)
	if err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}
