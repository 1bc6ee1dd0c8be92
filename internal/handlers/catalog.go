package handlers

import (
	"net/http"
	"strings"

	"coursereview/internal/cache"
	"coursereview/internal/models"
	"coursereview/internal/respond"
)

// Catalog groups the category, course and review handlers.
type Catalog struct {
	rs         *respond.Responder
	categories CategoryRepository
	courses    CourseRepository
	reviews    ReviewRepository
	cache      ResponseCache
}

// NewCatalog creates a new Catalog handler group. responses may be a nil
// *cache.JSONCache when Valkey is not configured.
func NewCatalog(rs *respond.Responder, categories CategoryRepository, courses CourseRepository, reviews ReviewRepository, responses ResponseCache) *Catalog {
	return &Catalog{
		rs:         rs,
		categories: categories,
		courses:    courses,
		reviews:    reviews,
		cache:      responses,
	}
}

type categoryRequest struct {
	Name string `json:"name" validate:"notblank"`
}

type categoryList struct {
	Categories []models.Category `json:"categories"`
}

// CreateCategory adds a category owned by the calling admin.
func (c *Catalog) CreateCategory(w http.ResponseWriter, r *http.Request) {
	claims, err := caller(r)
	if err != nil {
		c.rs.Error(w, r, err)
		return
	}

	var req categoryRequest
	if err := decode(w, r, &req); err != nil {
		c.rs.Error(w, r, err)
		return
	}

	category, err := c.categories.Create(r.Context(), strings.TrimSpace(req.Name), claims.UserID)
	if err != nil {
		c.rs.Error(w, r, err)
		return
	}
	c.cache.Invalidate(r.Context(), cache.KeyCategories)

	c.rs.JSON(w, http.StatusCreated, "Category is created successfully", category)
}

// ListCategories returns every category.
func (c *Catalog) ListCategories(w http.ResponseWriter, r *http.Request) {
	var out categoryList
	if !c.cache.Get(r.Context(), cache.KeyCategories, &out) {
		categories, err := c.categories.List(r.Context())
		if err != nil {
			c.rs.Error(w, r, err)
			return
		}
		out = categoryList{Categories: categories}
		c.cache.Set(r.Context(), cache.KeyCategories, out)
	}

	c.rs.JSON(w, http.StatusOK, "Categories are retrieved successfully", out)
}
