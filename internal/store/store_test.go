// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"coursereview/internal/database"
	"coursereview/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "coursereview")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "coursereview")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	if err := database.Migrate(context.Background(), db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// suffix returns a short unique token for test fixture names.
func suffix() string {
	return uuid.NewString()[:8]
}

// createTestUser inserts a user and removes it (and anything it created)
// when the test finishes.
func createTestUser(t *testing.T, db *sql.DB, role models.Role) *models.User {
	t.Helper()
	name := "test-" + suffix()
	u, err := NewUserStore(db).Create(context.Background(), &models.User{
		Username:     name,
		Email:        name + "@example.com",
		PasswordHash: "$2a$04$placeholderplaceholderplaceholderplaceholderpl",
		Role:         role,
	})
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	t.Cleanup(func() { cleanUser(db, u.ID) })
	return u
}

// cleanUser removes a user and every row that references it.
func cleanUser(db *sql.DB, id uuid.UUID) {
	db.Exec(`DELETE FROM reviews WHERE created_by = $1 OR course_id IN (SELECT id FROM courses WHERE created_by = $1)`, id)
	db.Exec(`DELETE FROM courses WHERE created_by = $1`, id)
	db.Exec(`DELETE FROM categories WHERE created_by = $1`, id)
	db.Exec(`DELETE FROM password_history WHERE user_id = $1`, id)
	db.Exec(`DELETE FROM users WHERE id = $1`, id)
}

func createTestCategory(t *testing.T, db *sql.DB, admin *models.User) *models.Category {
	t.Helper()
	c, err := NewCategoryStore(db).Create(context.Background(), "Category "+suffix(), admin.ID)
	if err != nil {
		t.Fatalf("create test category: %v", err)
	}
	return c
}

func newTestCourse(title string, category *models.Category, admin *models.User) *models.Course {
	return &models.Course{
		Title:      title,
		Instructor: "Jane Doe",
		CategoryID: category.ID,
		Price:      49.99,
		Tags:       models.Tags{{Name: "Programming"}, {Name: "Web", IsDeleted: true}},
		StartDate:  models.NewDate(2024, 1, 1),
		EndDate:    models.NewDate(2024, 1, 15),
		Language:   "English",
		Provider:   "Acme",
		Details:    models.Details{Level: models.LevelBeginner, Description: "Intro"},
		CreatedBy:  admin.ID,
	}
}

func createTestCourse(t *testing.T, db *sql.DB, c *models.Course) *models.Course {
	t.Helper()
	created, err := NewCourseStore(db).Create(context.Background(), c)
	if err != nil {
		t.Fatalf("create test course: %v", err)
	}
	return created
}
