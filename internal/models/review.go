package models

import (
	"time"

	"github.com/google/uuid"
)

// Rating bounds for a review.
const (
	MinRating = 1
	MaxRating = 5
)

// Review is a user's rating and comment on a course.
type Review struct {
	ID        uuid.UUID `json:"_id"`
	CourseID  uuid.UUID `json:"courseId"`
	Rating    int       `json:"rating"`
	Review    string    `json:"review"`
	CreatedBy uuid.UUID `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Creator *PublicProfile `json:"createdBy"`
}

// CourseRating is the aggregate result of the best-course ranking.
type CourseRating struct {
	Course        *Course `json:"course"`
	AverageRating float64 `json:"averageRating"`
	ReviewCount   int     `json:"reviewCount"`
}
