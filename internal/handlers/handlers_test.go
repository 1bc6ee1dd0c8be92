package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"coursereview/internal/apperr"
	"coursereview/internal/auth"
	"coursereview/internal/models"
	"coursereview/internal/query"
	"coursereview/internal/respond"
)

// envelope captures both the success and failure response shapes.
type envelope struct {
	Success      bool            `json:"success"`
	StatusCode   int             `json:"statusCode"`
	Message      string          `json:"message"`
	ErrorMessage string          `json:"errorMessage"`
	Meta         *respond.Meta   `json:"meta"`
	Data         json.RawMessage `json:"data"`
}

// serve routes a single request through a chi router so URL parameters
// resolve. Non-nil claims are attached as if the request passed the gate.
func serve(t *testing.T, method, pattern, target, body string, h http.HandlerFunc, claims *auth.Claims) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	r := chi.NewRouter()
	r.Method(method, pattern, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if claims != nil {
			req = req.WithContext(auth.WithClaims(req.Context(), claims))
		}
		h(w, req)
	}))

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return rec, env
}

func decodeData(t *testing.T, env envelope, dst any) {
	t.Helper()
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("decode data %s: %v", env.Data, err)
	}
}

func adminClaims() *auth.Claims {
	return &auth.Claims{UserID: uuid.New(), Role: models.RoleAdmin, Email: "admin@example.com"}
}

func userClaims() *auth.Claims {
	return &auth.Claims{UserID: uuid.New(), Role: models.RoleUser, Email: "user@example.com"}
}

// memCache is a map-backed ResponseCache.
type memCache struct {
	mu          sync.Mutex
	entries     map[string][]byte
	invalidated []string
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string][]byte)}
}

func (c *memCache) Get(_ context.Context, key string, dst any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.entries[key]
	if !ok {
		return false
	}
	return json.Unmarshal(b, dst) == nil
}

func (c *memCache) Set(_ context.Context, key string, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, _ := json.Marshal(v)
	c.entries[key] = b
}

func (c *memCache) Invalidate(_ context.Context, keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
		c.invalidated = append(c.invalidated, k)
	}
}

// memUsers is an in-memory UserCreator enforcing unique names and emails.
type memUsers struct {
	byName map[string]*models.User
}

func newMemUsers() *memUsers {
	return &memUsers{byName: make(map[string]*models.User)}
}

func (m *memUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	for _, existing := range m.byName {
		if existing.Username == u.Username {
			return nil, apperr.Duplicate(u.Username)
		}
		if existing.Email == u.Email {
			return nil, apperr.Duplicate(u.Email)
		}
	}
	cp := *u
	cp.ID = uuid.New()
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	m.byName[cp.Username] = &cp
	return &cp, nil
}

// memCatalog implements the category, course and review repositories.
type memCatalog struct {
	categories  []models.Category
	courses     map[uuid.UUID]*models.Course
	reviews     []models.Review
	best        *models.CourseRating
	bestCalls   int
	lastSpec    query.Spec
	coursesPage []models.Course
}

func newMemCatalog() *memCatalog {
	return &memCatalog{courses: make(map[uuid.UUID]*models.Course)}
}

type memCategories struct{ *memCatalog }
type memCourses struct{ *memCatalog }
type memReviews struct{ *memCatalog }

func (m memCategories) Create(_ context.Context, name string, createdBy uuid.UUID) (*models.Category, error) {
	for _, c := range m.categories {
		if c.Name == name {
			return nil, apperr.Duplicate(name)
		}
	}
	c := models.Category{ID: uuid.New(), Name: name, CreatedBy: createdBy,
		Creator: &models.PublicProfile{ID: createdBy}}
	m.categories = append(m.categories, c)
	return &c, nil
}

func (m memCategories) List(context.Context) ([]models.Category, error) {
	return append([]models.Category{}, m.categories...), nil
}

func (m memCourses) Create(_ context.Context, c *models.Course) (*models.Course, error) {
	cp := *c
	cp.ID = uuid.New()
	cp.RecomputeDuration()
	m.courses[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (m memCourses) FindByID(_ context.Context, id uuid.UUID) (*models.Course, error) {
	c, ok := m.courses[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (m memCourses) Update(_ context.Context, c *models.Course) (*models.Course, error) {
	if _, ok := m.courses[c.ID]; !ok {
		return nil, nil
	}
	cp := *c
	cp.RecomputeDuration()
	m.courses[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (m memCourses) List(_ context.Context, spec query.Spec) ([]models.Course, int, error) {
	m.lastSpec = spec
	return m.coursesPage, len(m.coursesPage), nil
}

func (m memReviews) Create(_ context.Context, r *models.Review) (*models.Review, error) {
	if _, ok := m.courses[r.CourseID]; !ok {
		return nil, apperr.Missing("Course not found")
	}
	cp := *r
	cp.ID = uuid.New()
	m.reviews = append(m.reviews, cp)
	return &cp, nil
}

func (m memReviews) ListByCourse(_ context.Context, courseID uuid.UUID) ([]models.Review, error) {
	out := []models.Review{}
	for _, r := range m.reviews {
		if r.CourseID == courseID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m memReviews) BestCourse(context.Context) (*models.CourseRating, error) {
	m.bestCalls++
	if m.best == nil {
		return nil, apperr.Empty("No reviews found")
	}
	cp := *m.best
	return &cp, nil
}
