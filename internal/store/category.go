// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"coursereview/internal/models"
)

// CategoryStore handles category CRUD operations.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore creates a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categorySelect = `
	SELECT k.id, k.name, k.created_by, k.created_at, k.updated_at,
	       u.id, u.username, u.email, u.role
	FROM categories k
	JOIN users u ON u.id = k.created_by`

func scanCategory(row scanner) (*models.Category, error) {
	c := &models.Category{Creator: &models.PublicProfile{}}
	if err := row.Scan(
		&c.ID, &c.Name, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt,
		&c.Creator.ID, &c.Creator.Username, &c.Creator.Email, &c.Creator.Role,
	); err != nil {
		return nil, err
	}
	return c, nil
}

// Create inserts a category. A duplicate name fails with a Conflict error.
func (s *CategoryStore) Create(ctx context.Context, name string, createdBy uuid.UUID) (*models.Category, error) {
	var id uuid.UUID
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO categories (name, created_by) VALUES ($1, $2) RETURNING id
	`, name, createdBy).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", translate(err, map[string]string{
			"categories_name_key": name,
		}))
	}
	return s.FindByID(ctx, id)
}

// FindByID retrieves a category by UUID. Returns nil if not found.
func (s *CategoryStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	c, err := scanCategory(s.db.QueryRowContext(ctx, categorySelect+` WHERE k.id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// List returns all categories ordered by name.
func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, categorySelect+` ORDER BY k.name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, *c)
	}
	return categories, rows.Err()
}
