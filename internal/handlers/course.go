// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strings"

	"coursereview/internal/apperr"
	"coursereview/internal/cache"
	"coursereview/internal/models"
	"coursereview/internal/query"
	"coursereview/internal/respond"
)

type tagRequest struct {
	Name      string `json:"name" validate:"required,max=20,capitalized"`
	IsDeleted bool   `json:"isDeleted"`
}

type detailsRequest struct {
	Level       models.Level `json:"level" validate:"required,oneof=Beginner Intermediate Advanced"`
	Description string       `json:"description" validate:"required"`
}

type createCourseRequest struct {
	Title           string          `json:"title" validate:"notblank"`
	Instructor      string          `json:"instructor" validate:"notblank"`
	CategoryID      string          `json:"categoryId" validate:"required"`
	Price           *float64        `json:"price" validate:"required,gte=0"`
	Tags            []tagRequest    `json:"tags" validate:"required,dive"`
	StartDate       models.Date     `json:"startDate" validate:"required"`
	EndDate         models.Date     `json:"endDate" validate:"required"`
	Language        string          `json:"language" validate:"notblank"`
	Provider        string          `json:"provider" validate:"notblank"`
	DurationInWeeks *int            `json:"durationInWeeks"`
	Details         *detailsRequest `json:"details" validate:"required"`
}

type detailsUpdate struct {
	Level       *models.Level `json:"level" validate:"omitnil,oneof=Beginner Intermediate Advanced"`
	Description *string       `json:"description"`
}

type updateCourseRequest struct {
	Title           *string        `json:"title" validate:"omitnil,notblank"`
	Instructor      *string        `json:"instructor" validate:"omitnil,notblank"`
	CategoryID      *string        `json:"categoryId"`
	Price           *float64       `json:"price" validate:"omitnil,gte=0"`
	Tags            []tagRequest   `json:"tags" validate:"omitempty,dive"`
	StartDate       *models.Date   `json:"startDate"`
	EndDate         *models.Date   `json:"endDate"`
	Language        *string        `json:"language" validate:"omitnil,notblank"`
	Provider        *string        `json:"provider" validate:"omitnil,notblank"`
	DurationInWeeks *int           `json:"durationInWeeks"`
	Details         *detailsUpdate `json:"details"`
}

type courseList struct {
	Courses []models.Course `json:"courses"`
}

func toTags(in []tagRequest) models.Tags {
	tags := make(models.Tags, 0, len(in))
	for _, t := range in {
		tags = append(tags, models.Tag{Name: strings.TrimSpace(t.Name), IsDeleted: t.IsDeleted})
	}
	return tags
}

// checkSchedule rejects inverted date ranges and a client-supplied duration
// that disagrees with the dates.
func checkSchedule(c *models.Course, requested *int) error {
	if c.EndDate.Before(c.StartDate.Time) {
		return apperr.Invalid("endDate must not be before startDate.")
	}
	if requested != nil && *requested != models.DurationInWeeks(c.StartDate, c.EndDate) {
		return apperr.Invalid("Cannot update 'durationInWeeks' directly.")
	}
	return nil
}

// CreateCourse adds a course owned by the calling admin.
func (c *Catalog) CreateCourse(w http.ResponseWriter, r *http.Request) {
	claims, err := caller(r)
	if err != nil {
		c.rs.Error(w, r, err)
		return
	}

	var req createCourseRequest
	if err := decode(w, r, &req); err != nil {
		c.rs.Error(w, r, err)
		return
	}

	categoryID, err := parseID(req.CategoryID)
	if err != nil {
		c.rs.Error(w, r, err)
		return
	}

	course := &models.Course{
		Title:      strings.TrimSpace(req.Title),
		Instructor: strings.TrimSpace(req.Instructor),
		CategoryID: categoryID,
		Price:      *req.Price,
		Tags:       toTags(req.Tags),
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Language:   strings.TrimSpace(req.Language),
		Provider:   strings.TrimSpace(req.Provider),
		Details:    models.Details{Level: req.Details.Level, Description: req.Details.Description},
		CreatedBy:  claims.UserID,
	}
	if err := checkSchedule(course, req.DurationInWeeks); err != nil {
		c.rs.Error(w, r, err)
		return
	}

	created, err := c.courses.Create(r.Context(), course)
	if err != nil {
		c.rs.Error(w, r, err)
		return
	}

	c.rs.JSON(w, http.StatusCreated, "Course created successfully", created)
}

// ListCourses returns one page of courses matching the query string.
func (c *Catalog) ListCourses(w http.ResponseWriter, r *http.Request) {
	spec, err := query.Parse(r.URL.Query())
	if err != nil {
		c.rs.Error(w, r, err)
		return
	}

	courses, total, err := c.courses.List(r.Context(), spec)
	if err != nil {
		c.rs.Error(w, r, err)
		return
	}

	meta := respond.Meta{Page: spec.Page, Limit: spec.Limit, Total: total}
	c.rs.Page(w, http.StatusOK, "Courses retrieved successfully", meta, courseList{Courses: courses})
}

// UpdateCourse applies a partial update. Tags are replaced only by a
// non-empty list; details are merged field by field.
func (c *Catalog) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "courseId")
	if err != nil {
		c.rs.Error(w, r, err)
		return
	}

	var req updateCourseRequest
	if err := decode(w, r, &req); err != nil {
		c.rs.Error(w, r, err)
		return
	}

	course, err := c.courses.FindByID(r.Context(), id)
	if err != nil {
		c.rs.Error(w, r, err)
		return
	}
	if course == nil {
		c.rs.Error(w, r, apperr.Missing("Course not found"))
		return
	}

	if err := applyUpdate(course, &req); err != nil {
		c.rs.Error(w, r, err)
		return
	}

	updated, err := c.courses.Update(r.Context(), course)
	if err != nil {
		c.rs.Error(w, r, err)
		return
	}
	if updated == nil {
		c.rs.Error(w, r, apperr.Missing("Course not found"))
		return
	}
	c.cache.Invalidate(r.Context(), cache.KeyBestCourse)

	c.rs.JSON(w, http.StatusOK, "Course updated successfully", updated)
}

func applyUpdate(course *models.Course, req *updateCourseRequest) error {
	if req.Title != nil {
		course.Title = strings.TrimSpace(*req.Title)
	}
	if req.Instructor != nil {
		course.Instructor = strings.TrimSpace(*req.Instructor)
	}
	if req.CategoryID != nil {
		id, err := parseID(*req.CategoryID)
		if err != nil {
			return err
		}
		course.CategoryID = id
	}
	if req.Price != nil {
		course.Price = *req.Price
	}
	if len(req.Tags) > 0 {
		course.Tags = toTags(req.Tags)
	}
	if req.StartDate != nil {
		course.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		course.EndDate = *req.EndDate
	}
	if req.Language != nil {
		course.Language = strings.TrimSpace(*req.Language)
	}
	if req.Provider != nil {
		course.Provider = strings.TrimSpace(*req.Provider)
	}
	if d := req.Details; d != nil {
		if d.Level != nil {
			course.Details.Level = *d.Level
		}
		if d.Description != nil {
			course.Details.Description = *d.Description
		}
	}
	return checkSchedule(course, req.DurationInWeeks)
}

// CourseReviews returns a course together with all of its reviews.
func (c *Catalog) CourseReviews(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "courseId")
	if err != nil {
		c.rs.Error(w, r, err)
		return
	}

	course, err := c.courses.FindByID(r.Context(), id)
	if err != nil {
		c.rs.Error(w, r, err)
		return
	}
	if course == nil {
		c.rs.Error(w, r, apperr.Missing("Course not found"))
		return
	}

	reviews, err := c.reviews.ListByCourse(r.Context(), id)
	if err != nil {
		c.rs.Error(w, r, err)
		return
	}

	c.rs.JSON(w, http.StatusOK, "Course and Reviews retrieved successfully",
		models.CourseWithReviews{Course: course, Reviews: reviews})
}

// BestCourse returns the course with the highest average rating.
func (c *Catalog) BestCourse(w http.ResponseWriter, r *http.Request) {
	var best models.CourseRating
	if !c.cache.Get(r.Context(), cache.KeyBestCourse, &best) {
		rating, err := c.reviews.BestCourse(r.Context())
		if err != nil {
			c.rs.Error(w, r, err)
			return
		}
		best = *rating
		c.cache.Set(r.Context(), cache.KeyBestCourse, best)
	}

	c.rs.JSON(w, http.StatusOK, "Best course retrieved successfully", best)
}
