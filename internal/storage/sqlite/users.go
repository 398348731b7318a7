package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mmynk/hisab/internal/models"
)

const userColumns = "id, email, display_name, password_hash, anonymous, created_at, updated_at"

// CreateUser inserts a new user into the database.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	// Anonymous users have no email; NULL keeps the unique index out of the way.
	var email interface{} = nil
	if user.Email != "" {
		email = user.Email
	}

	_, err := s.db.ExecContext(ctx, query,
		user.ID,
		email,
		user.DisplayName,
		user.PasswordHash,
		user.Anonymous,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByEmail retrieves a user by their email address.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email = ?", email)
	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil // User not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

// GetUserByID retrieves a user by their ID.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil // User not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return user, nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var email sql.NullString
	err := row.Scan(
		&user.ID,
		&email,
		&user.DisplayName,
		&user.PasswordHash,
		&user.Anonymous,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if email.Valid {
		user.Email = email.String
	}
	return user, nil
}
