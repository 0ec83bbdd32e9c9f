package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

const testKey = "0123456789abcdef0123456789abcdef"

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestNewSessionManager_EmptyKey(t *testing.T) {
	if _, err := NewSessionManager("", "cc-session", "", false, zap.NewNop()); err == nil {
		t.Error("expected error for empty session key")
	}
}

func TestSignInThenLoad(t *testing.T) {
	m, err := NewSessionManager(testKey, "cc-session", "", false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}

	// Sign in and capture the cookie.
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/login", nil)
	u := &SessionUser{ID: "abc", Name: "Test Staff", Email: "staff@test.com", Role: "staff"}
	if err := m.SignIn(rec, req, u); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("no session cookie set")
	}

	// Replay the cookie through the middleware.
	var got *SessionUser
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = CurrentUser(r)
	})
	req2 := httptest.NewRequest("GET", "/dashboard", nil)
	for _, c := range cookies {
		req2.AddCookie(c)
	}
	m.LoadSessionUser(next).ServeHTTP(httptest.NewRecorder(), req2)

	if got == nil {
		t.Fatal("no user loaded from session")
	}
	if got.ID != "abc" || got.Role != "staff" || got.Email != "staff@test.com" {
		t.Errorf("loaded user = %+v", got)
	}
}

func TestRequireSignedIn(t *testing.T) {
	h := RequireSignedIn(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: got %d, want 401", rec.Code)
	}

	rec = httptest.NewRecorder()
	req := WithTestUser(httptest.NewRequest("GET", "/", nil), &SessionUser{ID: "x", Role: "leader"})
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("signed in: got %d, want 200", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	h := RequireRole("admin", "staff")(okHandler())

	tests := []struct {
		name string
		user *SessionUser
		want int
	}{
		{name: "anonymous", user: nil, want: http.StatusUnauthorized},
		{name: "leader forbidden", user: &SessionUser{ID: "x", Role: "leader"}, want: http.StatusForbidden},
		{name: "staff allowed", user: &SessionUser{ID: "x", Role: "staff"}, want: http.StatusOK},
		{name: "role case-insensitive", user: &SessionUser{ID: "x", Role: "Admin"}, want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.user != nil {
				req = WithTestUser(req, tt.user)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("got %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
