package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"coursereview/internal/apperr"
	"coursereview/internal/models"
)

// ReviewStore handles reviews and the rating aggregate.
type ReviewStore struct {
	db      *sql.DB
	courses *CourseStore
}

// NewReviewStore creates a new ReviewStore.
func NewReviewStore(db *sql.DB, courses *CourseStore) *ReviewStore {
	return &ReviewStore{db: db, courses: courses}
}

const reviewSelect = `
	SELECT r.id, r.course_id, r.rating, r.review, r.created_by, r.created_at, r.updated_at,
	       u.id, u.username, u.email, u.role
	FROM reviews r
	JOIN users u ON u.id = r.created_by`

func scanReview(row scanner) (*models.Review, error) {
	r := &models.Review{Creator: &models.PublicProfile{}}
	if err := row.Scan(
		&r.ID, &r.CourseID, &r.Rating, &r.Review, &r.CreatedBy, &r.CreatedAt, &r.UpdatedAt,
		&r.Creator.ID, &r.Creator.Username, &r.Creator.Email, &r.Creator.Role,
	); err != nil {
		return nil, err
	}
	return r, nil
}

// Create inserts a review. An unknown course fails with NotFound.
func (s *ReviewStore) Create(ctx context.Context, r *models.Review) (*models.Review, error) {
	var id uuid.UUID
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO reviews (course_id, rating, review, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, r.CourseID, r.Rating, r.Review, r.CreatedBy).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create review: %w", translate(err, nil))
	}

	created, err := scanReview(s.db.QueryRowContext(ctx, reviewSelect+` WHERE r.id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("reload review: %w", err)
	}
	return created, nil
}

// ListByCourse returns every review of a course, oldest first.
func (s *ReviewStore) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Review, error) {
	rows, err := s.db.QueryContext(ctx, reviewSelect+` WHERE r.course_id = $1 ORDER BY r.created_at ASC`, courseID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []models.Review{}
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, *r)
	}
	return reviews, rows.Err()
}

// rowQueryer is satisfied by *sql.DB and *sql.Tx.
type rowQueryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// rankTop returns the course with the highest mean rating, ties broken by
// review count and then by course id.
func rankTop(ctx context.Context, q rowQueryer) (uuid.UUID, float64, int, error) {
	var (
		courseID uuid.UUID
		avg      float64
		count    int
	)
	err := q.QueryRowContext(ctx, `
		SELECT course_id, AVG(rating)::float8, COUNT(*)
		FROM reviews
		GROUP BY course_id
		ORDER BY AVG(rating) DESC, COUNT(*) DESC, course_id
		LIMIT 1
	`).Scan(&courseID, &avg, &count)
	return courseID, avg, count, err
}

// BestCourse ranks courses by mean rating, then review count, and returns
// the top one. With no reviews at all it fails with NoData.
func (s *ReviewStore) BestCourse(ctx context.Context) (*models.CourseRating, error) {
	courseID, avg, count, err := rankTop(ctx, s.db)
	if err == sql.ErrNoRows {
		return nil, apperr.Empty("No reviews found")
	}
	if err != nil {
		return nil, fmt.Errorf("rank courses: %w", err)
	}

	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, apperr.Missing("Course not found")
	}
	return &models.CourseRating{Course: course, AverageRating: avg, ReviewCount: count}, nil
}
