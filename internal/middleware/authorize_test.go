package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"coursereview/internal/auth"
	"coursereview/internal/models"
	"coursereview/internal/respond"
)

type userMap map[uuid.UUID]*models.User

func (m userMap) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	return m[id], nil
}

func TestAuthorize(t *testing.T) {
	issuer := auth.NewIssuer("test-secret", time.Hour)
	expired := auth.NewIssuer("test-secret", -time.Hour)

	admin := &models.User{ID: uuid.New(), Username: "root", Email: "root@x.io", Role: models.RoleAdmin}
	user := &models.User{ID: uuid.New(), Username: "ann", Email: "ann@x.io", Role: models.RoleUser}
	ghost := &models.User{ID: uuid.New(), Username: "ghost", Email: "g@x.io", Role: models.RoleAdmin}
	users := userMap{admin.ID: admin, user.ID: user}

	token := func(is *auth.Issuer, u *models.User) string {
		t.Helper()
		s, err := is.Issue(u)
		if err != nil {
			t.Fatalf("issue: %v", err)
		}
		return s
	}

	// A user whose token still says admin but whose stored role is user.
	demoted := &models.User{ID: user.ID, Username: user.Username, Email: user.Email, Role: models.RoleAdmin}

	tests := []struct {
		name       string
		header     string
		roles      []models.Role
		wantStatus int
		wantError  string
	}{
		{"missing token", "", []models.Role{models.RoleAdmin}, http.StatusUnauthorized,
			"You do not have the necessary permissions to access this resource."},
		{"malformed token", "Bearer not.a.jwt", nil, http.StatusUnauthorized,
			"The JWT provided is invalid or malformed."},
		{"expired token", "Bearer " + token(expired, admin), nil, http.StatusUnauthorized,
			"The provided JWT (JSON Web Token) has expired."},
		{"unknown user", "Bearer " + token(issuer, ghost), nil, http.StatusNotFound,
			"This user is not found!"},
		{"wrong role", "Bearer " + token(issuer, user), []models.Role{models.RoleAdmin}, http.StatusForbidden,
			"You are attempting to access a resource without the necessary authorization."},
		{"stale admin claim", "Bearer " + token(issuer, demoted), []models.Role{models.RoleAdmin}, http.StatusForbidden,
			"You are attempting to access a resource without the necessary authorization."},
		{"admin allowed", "Bearer " + token(issuer, admin), []models.Role{models.RoleAdmin}, http.StatusOK, ""},
		{"bare token allowed", token(issuer, user), []models.Role{models.RoleUser, models.RoleAdmin}, http.StatusOK, ""},
		{"any authenticated", "Bearer " + token(issuer, user), nil, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var claims *auth.Claims
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				claims = auth.ClaimsFrom(r.Context())
				w.WriteHeader(http.StatusOK)
			})
			handler := Authorize(respond.New(false), issuer, users, tt.roles...)(next)

			req := httptest.NewRequest(http.MethodGet, "/api/anything", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rr.Code, tt.wantStatus, rr.Body.String())
			}
			if tt.wantStatus == http.StatusOK {
				if claims == nil {
					t.Fatal("claims not attached to context")
				}
				return
			}

			var f respond.Failure
			if err := json.NewDecoder(rr.Body).Decode(&f); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if f.ErrorMessage != tt.wantError {
				t.Errorf("errorMessage = %q, want %q", f.ErrorMessage, tt.wantError)
			}
			if tt.wantStatus == http.StatusUnauthorized && f.Message != "Unauthorized Access" {
				t.Errorf("message = %q, want Unauthorized Access", f.Message)
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	tests := map[string]string{
		"Bearer abc":  "abc",
		"bearer  abc": "abc",
		"abc":         "abc",
		"":            "",
		"  ":          "",
	}
	for in, want := range tests {
		if got := bearerToken(in); got != want {
			t.Errorf("bearerToken(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCORS(t *testing.T) {
	handler := CORS([]string{"https://app.example.com"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodOptions, "/api/courses", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Errorf("allow origin = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/courses", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("foreign origin allowed: %q", got)
	}
}
