package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/studyhard/account-service/internal/utils"
)

func newProtectedEcho(tokens *utils.Tokens) *echo.Echo {
	e := echo.New()
	e.GET("/protected", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"user_id": c.Get(CtxUserID),
			"role":    c.Get(CtxRole),
		})
	}, JWTAuth(tokens))
	return e
}

func doGet(e *echo.Echo, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuth(t *testing.T) {
	tokens := utils.NewTokens("test-secret", time.Hour, 24*time.Hour, 10*time.Minute)
	e := newProtectedEcho(tokens)

	access, _, err := tokens.Issue(utils.KindAccess, 42, "user")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	refresh, _, err := tokens.Issue(utils.KindRefresh, 42, "")
	if err != nil {
		t.Fatalf("issue refresh: %v", err)
	}

	cases := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"no header", "", http.StatusUnauthorized, "not logged in"},
		{"not bearer", "Basic abc", http.StatusUnauthorized, "not logged in"},
		{"garbage token", "Bearer not.a.jwt", http.StatusUnauthorized, "Invalid token"},
		{"refresh token on access route", "Bearer " + refresh, http.StatusUnauthorized, "Invalid token"},
		{"valid", "Bearer " + access, http.StatusOK, `"user_id":42`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doGet(e, "/protected", tc.header)
			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
			if !strings.Contains(rec.Body.String(), tc.wantBody) {
				t.Errorf("body %s does not contain %q", rec.Body.String(), tc.wantBody)
			}
		})
	}
}

func TestJWTAuthExpiredToken(t *testing.T) {
	expiring := utils.NewTokens("test-secret", -time.Minute, 24*time.Hour, 10*time.Minute)
	access, _, err := expiring.Issue(utils.KindAccess, 42, "user")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	e := newProtectedEcho(utils.NewTokens("test-secret", time.Hour, 24*time.Hour, 10*time.Minute))
	rec := doGet(e, "/protected", "Bearer "+access)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "expired") {
		t.Errorf("expired token should get the expiry message, got %s", rec.Body.String())
	}
}

func TestRequireAdmin(t *testing.T) {
	tokens := utils.NewTokens("test-secret", time.Hour, 24*time.Hour, 10*time.Minute)
	e := echo.New()
	e.GET("/admin", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, JWTAuth(tokens), RequireAdmin("admin"))

	userToken, _, _ := tokens.Issue(utils.KindAccess, 1, "user")
	adminToken, _, _ := tokens.Issue(utils.KindAccess, 2, "admin")

	if rec := doGet(e, "/admin", "Bearer "+userToken); rec.Code != http.StatusForbidden {
		t.Errorf("user role: status = %d, want 403", rec.Code)
	}
	if rec := doGet(e, "/admin", "Bearer "+adminToken); rec.Code != http.StatusOK {
		t.Errorf("admin role: status = %d, want 200", rec.Code)
	}
}

func TestRequireAdminEmptyRolePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("RequireAdmin(\"\") did not panic")
		}
	}()
	RequireAdmin("")
}
