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
	"coursereview/internal/query"
)

// CourseStore handles course persistence and the filtered listing.
type CourseStore struct {
	db *sql.DB
}

// NewCourseStore creates a new CourseStore.
func NewCourseStore(db *sql.DB) *CourseStore {
	return &CourseStore{db: db}
}

// courseSelect aliases courses as c, matching the columns rendered by
// query.Spec.
const courseSelect = `
	SELECT c.id, c.title, c.instructor, c.category_id, c.price, c.tags,
	       c.start_date, c.end_date, c.language, c.provider, c.duration_in_weeks,
	       c.details_level, c.details_description, c.created_by, c.created_at, c.updated_at,
	       u.id, u.username, u.email, u.role
	FROM courses c
	JOIN users u ON u.id = c.created_by`

func scanCourse(row scanner) (*models.Course, error) {
	c := &models.Course{Creator: &models.PublicProfile{}}
	if err := row.Scan(
		&c.ID, &c.Title, &c.Instructor, &c.CategoryID, &c.Price, &c.Tags,
		&c.StartDate, &c.EndDate, &c.Language, &c.Provider, &c.DurationInWeeks,
		&c.Details.Level, &c.Details.Description, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt,
		&c.Creator.ID, &c.Creator.Username, &c.Creator.Email, &c.Creator.Role,
	); err != nil {
		return nil, err
	}
	return c, nil
}

func courseConflicts(c *models.Course) map[string]string {
	return map[string]string{"courses_title_key": c.Title}
}

// Create inserts a course. DurationInWeeks is recomputed from the dates.
// A duplicate title fails with Conflict, an unknown category with NotFound.
func (s *CourseStore) Create(ctx context.Context, c *models.Course) (*models.Course, error) {
	c.RecomputeDuration()

	var id uuid.UUID
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO courses (
			title, instructor, category_id, price, tags, start_date, end_date,
			language, provider, duration_in_weeks, details_level, details_description, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`,
		c.Title, c.Instructor, c.CategoryID, c.Price, c.Tags, c.StartDate, c.EndDate,
		c.Language, c.Provider, c.DurationInWeeks, c.Details.Level, c.Details.Description, c.CreatedBy,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create course: %w", translate(err, courseConflicts(c)))
	}
	return s.FindByID(ctx, id)
}

// FindByID retrieves a course with its creator. Returns nil if not found.
func (s *CourseStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	c, err := scanCourse(s.db.QueryRowContext(ctx, courseSelect+` WHERE c.id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find course by id: %w", err)
	}
	return c, nil
}

// Update writes every mutable field of c. DurationInWeeks is recomputed
// from the dates. Returns nil if the course does not exist.
func (s *CourseStore) Update(ctx context.Context, c *models.Course) (*models.Course, error) {
	c.RecomputeDuration()

	res, err := s.db.ExecContext(ctx, `
		UPDATE courses SET
			title = $1, instructor = $2, category_id = $3, price = $4, tags = $5,
			start_date = $6, end_date = $7, language = $8, provider = $9,
			duration_in_weeks = $10, details_level = $11, details_description = $12,
			updated_at = NOW()
		WHERE id = $13
	`,
		c.Title, c.Instructor, c.CategoryID, c.Price, c.Tags,
		c.StartDate, c.EndDate, c.Language, c.Provider,
		c.DurationInWeeks, c.Details.Level, c.Details.Description, c.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update course: %w", translate(err, courseConflicts(c)))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, nil
	}
	return s.FindByID(ctx, c.ID)
}

// List runs a parsed listing request. The returned total is the number of
// courses on the page.
func (s *CourseStore) List(ctx context.Context, spec query.Spec) ([]models.Course, int, error) {
	stmt, args := spec.SQL(courseSelect)
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	courses := []models.Course{}
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan course: %w", err)
		}
		courses = append(courses, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate courses: %w", err)
	}
	return courses, len(courses), nil
}
