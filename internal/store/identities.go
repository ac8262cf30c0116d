// ABOUTME: SQLite operations for identity records
// ABOUTME: Covers creation, lookup by id and email, and cascading deletion

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// CreateIdentity inserts a new identity.
// Returns ErrDuplicateEmail if the email is already registered
// (comparison is case-insensitive).
func (s *SQLiteStore) CreateIdentity(ctx context.Context, id *Identity) error {
	query := `
		INSERT INTO identities (id, name, email, password_hash, avatar, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		id.ID,
		id.Name,
		id.Email,
		id.PasswordHash,
		id.Avatar,
		formatTime(id.CreatedAt),
	)
	if err != nil {
		if isConstraintViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("inserting identity: %w", err)
	}

	s.logger.Debug("created identity", "id", id.ID)
	return nil
}

// GetIdentity retrieves an identity by ID.
// Returns ErrNotFound if the identity doesn't exist.
func (s *SQLiteStore) GetIdentity(ctx context.Context, id string) (*Identity, error) {
	query := `
		SELECT id, name, email, password_hash, avatar, created_at
		FROM identities
		WHERE id = ?
	`
	return s.scanIdentity(s.db.QueryRowContext(ctx, query, id))
}

// GetIdentityByEmail retrieves an identity by email, case-insensitively.
// Returns ErrNotFound if no identity uses the email.
func (s *SQLiteStore) GetIdentityByEmail(ctx context.Context, email string) (*Identity, error) {
	query := `
		SELECT id, name, email, password_hash, avatar, created_at
		FROM identities
		WHERE lower(email) = ?
	`
	return s.scanIdentity(s.db.QueryRowContext(ctx, query, strings.ToLower(email)))
}

func (s *SQLiteStore) scanIdentity(row *sql.Row) (*Identity, error) {
	var identity Identity
	var createdAtStr string

	err := row.Scan(
		&identity.ID,
		&identity.Name,
		&identity.Email,
		&identity.PasswordHash,
		&identity.Avatar,
		&createdAtStr,
	)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying identity: %w", err)
	}

	identity.CreatedAt, err = parseTime(createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}

	return &identity, nil
}

// DeleteIdentity removes the identity row. The foreign key cascades
// remove the profile, experience entries, posts, and every comment and
// like the identity left anywhere.
// Returns ErrNotFound if the identity doesn't exist.
func (s *SQLiteStore) DeleteIdentity(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM identities WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting identity: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	s.logger.Debug("deleted identity", "id", id)
	return nil
}
