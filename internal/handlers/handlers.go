// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the course review API.
// Handlers are grouped by concern (auth, catalog, public) and receive
// their dependencies through the handler struct.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"coursereview/internal/apperr"
	"coursereview/internal/auth"
	"coursereview/internal/models"
	"coursereview/internal/query"
	"coursereview/internal/validate"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// UserCreator persists new accounts.
type UserCreator interface {
	Create(ctx context.Context, u *models.User) (*models.User, error)
}

// LoginService exchanges credentials for a token.
type LoginService interface {
	Login(ctx context.Context, username, password string) (*models.User, string, error)
}

// PasswordChanger rotates a user's password.
type PasswordChanger interface {
	ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) (*models.User, error)
}

// CategoryRepository persists categories.
type CategoryRepository interface {
	Create(ctx context.Context, name string, createdBy uuid.UUID) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
}

// CourseRepository persists courses. FindByID and Update return nil, nil
// for an unknown course.
type CourseRepository interface {
	Create(ctx context.Context, c *models.Course) (*models.Course, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
	Update(ctx context.Context, c *models.Course) (*models.Course, error)
	List(ctx context.Context, spec query.Spec) ([]models.Course, int, error)
}

// ReviewRepository persists reviews and ranks courses by rating.
type ReviewRepository interface {
	Create(ctx context.Context, r *models.Review) (*models.Review, error)
	ListByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Review, error)
	BestCourse(ctx context.Context) (*models.CourseRating, error)
}

// ResponseCache holds computed responses between requests. Misses and
// failures are indistinguishable to callers.
type ResponseCache interface {
	Get(ctx context.Context, key string, dst any) bool
	Set(ctx context.Context, key string, v any)
	Invalidate(ctx context.Context, keys ...string)
}

// decode reads a JSON body into dst and validates it.
func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.As(err, &maxErr):
			return apperr.Invalid("Request body is too large")
		case errors.Is(err, io.EOF):
			return apperr.Invalid("Request body is required")
		case errors.As(err, &typeErr) && typeErr.Field != "":
			return apperr.Validation([]string{typeErr.Field}, map[string]string{
				typeErr.Field: fmt.Sprintf("%s must be a %s.", typeErr.Field, typeErr.Type),
			})
		default:
			return apperr.Wrap(apperr.InvalidRequest, "Invalid JSON", err)
		}
	}
	return validate.Check(dst)
}

// pathID parses a UUID URL parameter.
func pathID(r *http.Request, name string) (uuid.UUID, error) {
	return parseID(chi.URLParam(r, name))
}

func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.InvalidID(raw)
	}
	return id, nil
}

// caller returns the authenticated user's claims.
func caller(r *http.Request) (*auth.Claims, error) {
	c := auth.ClaimsFrom(r.Context())
	if c == nil {
		return nil, apperr.Unauthorized("You do not have the necessary permissions to access this resource.")
	}
	return c, nil
}
