package handlers

import (
	"net/http"

	"coursereview/internal/cache"
	"coursereview/internal/models"
)

type reviewRequest struct {
	CourseID string `json:"courseId" validate:"required"`
	Rating   *int   `json:"rating" validate:"required,min=1,max=5"`
	Review   string `json:"review" validate:"notblank"`
}

// CreateReview records the calling user's review of a course.
func (c *Catalog) CreateReview(w http.ResponseWriter, r *http.Request) {
	claims, err := caller(r)
	if err != nil {
		c.rs.Error(w, r, err)
		return
	}

	var req reviewRequest
	if err := decode(w, r, &req); err != nil {
		c.rs.Error(w, r, err)
		return
	}

	courseID, err := parseID(req.CourseID)
	if err != nil {
		c.rs.Error(w, r, err)
		return
	}

	review, err := c.reviews.Create(r.Context(), &models.Review{
		CourseID:  courseID,
		Rating:    *req.Rating,
		Review:    req.Review,
		CreatedBy: claims.UserID,
	})
	if err != nil {
		c.rs.Error(w, r, err)
		return
	}
	c.cache.Invalidate(r.Context(), cache.KeyBestCourse)

	c.rs.JSON(w, http.StatusCreated, "Review created successfully", review)
}
