package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed username and email for the development administrator.
const (
	SeedAdminUsername = "admin"
	SeedAdminEmail    = "admin@coursereview.local"
)

// Seed creates a development administrator when the users table is empty.
// The admin signs in with the configured default password.
func Seed(db *sql.DB, password string, cost int) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO users (username, email, password_hash, role)
		VALUES ($1, $2, $3, 'admin')
		ON CONFLICT DO NOTHING
	`, SeedAdminUsername, SeedAdminEmail, string(hash))
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	slog.Info("database seeded with default admin user", "username", SeedAdminUsername)
	return nil
}
