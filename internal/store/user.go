package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"coursereview/internal/models"
)

const userColumns = `id, username, email, password_hash, role, created_at, updated_at`

// UserStore handles all user-related database operations, including the
// bounded password history.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a new UserStore with the given database connection.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

func scanUser(row scanner) (*models.User, error) {
	u := &models.User{}
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return u, nil
}

// Create inserts a user whose PasswordHash is already set. A taken username
// or email fails with a Conflict error.
func (s *UserStore) Create(ctx context.Context, u *models.User) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO users (username, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING `+userColumns,
		u.Username, u.Email, u.PasswordHash, u.Role,
	)
	created, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", translate(err, map[string]string{
			"users_username_key": u.Username,
			"users_email_key":    u.Email,
		}))
	}
	return created, nil
}

func (s *UserStore) findOne(ctx context.Context, where string, arg any) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE `+where+` = $1`, arg)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by %s: %w", where, err)
	}
	return u, nil
}

// FindByID retrieves a user by their UUID. Returns nil if not found.
func (s *UserStore) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.findOne(ctx, "id", id)
}

// FindByUsername retrieves a user by username. Returns nil if not found.
func (s *UserStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findOne(ctx, "username", username)
}

// FindByEmail retrieves a user by email. Returns nil if not found.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, "email", email)
}

// PasswordHistory returns the retained previous hashes, newest first.
func (s *UserStore) PasswordHistory(ctx context.Context, id uuid.UUID) ([]models.PasswordHistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT password_hash, created_at FROM password_history
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("list password history: %w", err)
	}
	defer rows.Close()

	var entries []models.PasswordHistoryEntry
	for rows.Next() {
		var e models.PasswordHistoryEntry
		if err := rows.Scan(&e.Hash, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan password history: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// RotatePassword sets newHash, appends retired to the history and trims the
// history to the most recently pushed models.PasswordHistoryDepth entries,
// all in one transaction.
func (s *UserStore) RotatePassword(ctx context.Context, id uuid.UUID, newHash string, retired models.PasswordHistoryEntry) (*models.User, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin rotate password: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		UPDATE users SET password_hash = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+userColumns,
		newHash, id,
	)
	updated, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("update password: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO password_history (user_id, password_hash, created_at)
		VALUES ($1, $2, $3)
	`, id, retired.Hash, retired.CreatedAt); err != nil {
		return nil, fmt.Errorf("push password history: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM password_history
		WHERE user_id = $1 AND id NOT IN (
			SELECT id FROM password_history WHERE user_id = $1 ORDER BY id DESC LIMIT $2
		)
	`, id, models.PasswordHistoryDepth); err != nil {
		return nil, fmt.Errorf("trim password history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit rotate password: %w", err)
	}
	return updated, nil
}
