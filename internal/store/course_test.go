package store

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/google/uuid"

	"coursereview/internal/apperr"
	"coursereview/internal/models"
	"coursereview/internal/query"
)

func TestCategoryStore(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)
	ctx := context.Background()
	admin := createTestUser(t, db, models.RoleAdmin)

	c := createTestCategory(t, db, admin)
	if c.Creator == nil || c.Creator.ID != admin.ID || c.Creator.Username != admin.Username {
		t.Errorf("creator not populated: %+v", c.Creator)
	}

	_, err := s.Create(ctx, c.Name, admin.ID)
	if !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("duplicate name: got %v, want conflict", err)
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	found := false
	for _, item := range list {
		if item.ID == c.ID {
			found = true
		}
	}
	if !found {
		t.Error("created category missing from List")
	}
}

func TestCourseStoreCreateAndFind(t *testing.T) {
	db := testDB(t)
	s := NewCourseStore(db)
	ctx := context.Background()
	admin := createTestUser(t, db, models.RoleAdmin)
	cat := createTestCategory(t, db, admin)

	in := newTestCourse("Course "+suffix(), cat, admin)
	in.DurationInWeeks = 40
	created := createTestCourse(t, db, in)

	if created.DurationInWeeks != 2 {
		t.Errorf("DurationInWeeks: got %d, want 2", created.DurationInWeeks)
	}
	if created.StartDate.String() != "2024-01-01" || created.EndDate.String() != "2024-01-15" {
		t.Errorf("dates: got %s..%s", created.StartDate, created.EndDate)
	}
	if len(created.Tags) != 2 || created.Tags[0].Name != "Programming" || !created.Tags[1].IsDeleted {
		t.Errorf("tags: got %+v", created.Tags)
	}
	if created.Creator == nil || created.Creator.ID != admin.ID {
		t.Errorf("creator: got %+v", created.Creator)
	}

	_, err := s.Create(ctx, newTestCourse(created.Title, cat, admin))
	if !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("duplicate title: got %v, want conflict", err)
	}

	orphan := newTestCourse("Course "+suffix(), cat, admin)
	orphan.CategoryID = uuid.New()
	if _, err := s.Create(ctx, orphan); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("unknown category: got %v, want not found", err)
	}

	missing, err := s.FindByID(ctx, uuid.New())
	if err != nil || missing != nil {
		t.Errorf("FindByID unknown: got %v, %v", missing, err)
	}
}

func TestCourseStoreUpdate(t *testing.T) {
	db := testDB(t)
	s := NewCourseStore(db)
	ctx := context.Background()
	admin := createTestUser(t, db, models.RoleAdmin)
	cat := createTestCategory(t, db, admin)
	c := createTestCourse(t, db, newTestCourse("Course "+suffix(), cat, admin))

	c.EndDate = models.NewDate(2024, 3, 1)
	c.Price = 10
	updated, err := s.Update(ctx, c)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.DurationInWeeks != 9 {
		t.Errorf("DurationInWeeks after update: got %d, want 9", updated.DurationInWeeks)
	}
	if updated.Price != 10 {
		t.Errorf("Price: got %v, want 10", updated.Price)
	}

	ghost := *c
	ghost.ID = uuid.New()
	got, err := s.Update(ctx, &ghost)
	if err != nil || got != nil {
		t.Errorf("Update unknown: got %v, %v; want nil, nil", got, err)
	}
}

func TestCourseStoreListFilters(t *testing.T) {
	db := testDB(t)
	s := NewCourseStore(db)
	ctx := context.Background()
	admin := createTestUser(t, db, models.RoleAdmin)
	cat := createTestCategory(t, db, admin)

	// Provider is unique per run so the listing only sees these fixtures.
	provider := "Provider " + suffix()
	prices := []float64{50, 100, 150, 200, 250}
	for _, p := range prices {
		c := newTestCourse("Course "+suffix(), cat, admin)
		c.Price = p
		c.Provider = provider
		createTestCourse(t, db, c)
	}

	list := func(raw string) []models.Course {
		t.Helper()
		v, _ := url.ParseQuery(raw)
		v.Set("provider", provider)
		spec, err := query.Parse(v)
		if err != nil {
			t.Fatalf("Parse(%q): %v", raw, err)
		}
		courses, total, err := s.List(ctx, spec)
		if err != nil {
			t.Fatalf("List(%q): %v", raw, err)
		}
		if total != len(courses) {
			t.Errorf("total %d != page size %d", total, len(courses))
		}
		return courses
	}

	ranged := list("minPrice=100&maxPrice=200")
	if len(ranged) != 3 {
		t.Fatalf("price range: got %d courses, want 3", len(ranged))
	}
	for _, c := range ranged {
		if c.Price < 100 || c.Price > 200 {
			t.Errorf("price %v outside [100, 200]", c.Price)
		}
	}

	sorted := list("sortBy=price&sortOrder=asc")
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Price < sorted[i-1].Price {
			t.Errorf("not ascending at %d: %v < %v", i, sorted[i].Price, sorted[i-1].Price)
		}
	}

	page := list("sort=-price&page=2&limit=2")
	if len(page) != 2 || page[0].Price != 150 || page[1].Price != 100 {
		t.Errorf("page 2 by -price: got %v", pricesOf(page))
	}

	if got := list("tags=Programming"); len(got) != len(prices) {
		t.Errorf("tag filter: got %d, want %d", len(got), len(prices))
	}
	if got := list("tags=Cooking"); len(got) != 0 {
		t.Errorf("tag filter miss: got %d, want 0", len(got))
	}
	if got := list("startDate=2024-01-01&endDate=2024-01-15&level=Beginner&durationInWeeks=2"); len(got) != len(prices) {
		t.Errorf("date/level/duration filters: got %d, want %d", len(got), len(prices))
	}
	if got := list("startDate=2024-01-02"); len(got) != 0 {
		t.Errorf("later startDate: got %d, want 0", len(got))
	}
}

func pricesOf(cs []models.Course) []float64 {
	out := make([]float64, len(cs))
	for i, c := range cs {
		out[i] = c.Price
	}
	return out
}
