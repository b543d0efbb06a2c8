package apitest

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
)

func do(t *testing.T, s *Server, method, path, token, body string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, s.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	defer resp.Body.Close()

	var out map[string]any
	json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func TestServer_RegisterAndDuplicate(t *testing.T) {
	s := New(t)

	body := `{"email":"a@b.c","password":"pw123456","full_name":"Ann"}`
	resp, out := do(t, s, http.MethodPost, "/api/auth/register", "", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if out["token"] == "" {
		t.Error("token should be set")
	}

	resp, out = do(t, s, http.MethodPost, "/api/auth/register", "", body)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("duplicate status = %d, want 400", resp.StatusCode)
	}
	if out["detail"] != "Email already registered" {
		t.Errorf("detail = %v", out["detail"])
	}
}

func TestServer_LoginRejectsBadPassword(t *testing.T) {
	s := New(t)
	s.SeedUser("a@b.c", "secret-pw", "Ann")

	resp, out := do(t, s, http.MethodPost, "/api/auth/login", "", `{"email":"a@b.c","password":"nope"}`)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
	if out["detail"] != "Invalid credentials" {
		t.Errorf("detail = %v", out["detail"])
	}
}

func TestServer_ProtectedRoutes(t *testing.T) {
	s := New(t)
	token, user := s.SeedUser("a@b.c", "secret-pw", "Ann")

	tests := []struct {
		name   string
		token  string
		status int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"garbage token", "abc", http.StatusUnauthorized},
		{"expired token", s.ExpiredToken(user.ID), http.StatusUnauthorized},
		{"valid token", token, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := do(t, s, http.MethodGet, "/api/auth/me", tt.token, "")
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
		})
	}
}

func TestServer_LatestReadsAre404UntilGenerated(t *testing.T) {
	s := New(t)
	token, _ := s.SeedUser("a@b.c", "secret-pw", "Ann")

	pairs := []struct{ gen, latest string }{
		{"/api/budget/analyze", "/api/budget/latest"},
		{"/api/investment/advice", "/api/investment/latest"},
		{"/api/opportunities/scan", "/api/opportunities/latest"},
	}
	for _, p := range pairs {
		t.Run(p.latest, func(t *testing.T) {
			if resp, _ := do(t, s, http.MethodGet, p.latest, token, ""); resp.StatusCode != http.StatusNotFound {
				t.Fatalf("before generate: status = %d, want 404", resp.StatusCode)
			}
			if resp, _ := do(t, s, http.MethodPost, p.gen, token, "{}"); resp.StatusCode != http.StatusOK {
				t.Fatalf("generate: status = %d, want 200", resp.StatusCode)
			}
			if resp, _ := do(t, s, http.MethodGet, p.latest, token, ""); resp.StatusCode != http.StatusOK {
				t.Fatalf("after generate: status = %d, want 200", resp.StatusCode)
			}
		})
	}
}

func TestServer_CompleteLessonIsIdempotent(t *testing.T) {
	s := New(t)
	token, _ := s.SeedUser("a@b.c", "secret-pw", "Ann")

	for range 2 {
		do(t, s, http.MethodPost, "/api/education/complete/2", token, "{}")
	}
	_, out := do(t, s, http.MethodGet, "/api/education/progress", token, "")
	if out["total_points"] != float64(150) {
		t.Errorf("total_points = %v, want 150", out["total_points"])
	}

	resp, _ := do(t, s, http.MethodPost, "/api/education/complete/99", token, "{}")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown lesson status = %d, want 404", resp.StatusCode)
	}
}

func TestServer_Dashboard(t *testing.T) {
	s := New(t)
	token, user := s.SeedUser("a@b.c", "secret-pw", "Ann")
	s.SetProfile(user.ID, 3000, 2000, 3000)

	_, out := do(t, s, http.MethodGet, "/api/dashboard/stats", token, "")
	if out["monthly_savings"] != float64(1000) {
		t.Errorf("monthly_savings = %v, want 1000", out["monthly_savings"])
	}
	if out["savings_rate"] != 33.3 {
		t.Errorf("savings_rate = %v, want 33.3", out["savings_rate"])
	}
	if out["goal_progress"] != 33.3 {
		t.Errorf("goal_progress = %v, want 33.3", out["goal_progress"])
	}
}

func TestServer_FailNextAndRecording(t *testing.T) {
	s := New(t)
	s.FailNext(http.MethodGet, "/market/overview", http.StatusServiceUnavailable, "maintenance")

	resp, out := do(t, s, http.MethodGet, "/api/market/overview", "", "")
	if resp.StatusCode != http.StatusServiceUnavailable || out["detail"] != "maintenance" {
		t.Fatalf("got %d %v, want 503 maintenance", resp.StatusCode, out)
	}
	resp, _ = do(t, s, http.MethodGet, "/api/market/overview", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("second call status = %d, want 200", resp.StatusCode)
	}

	if got := len(s.Requests()); got != 2 {
		t.Errorf("recorded %d requests, want 2", got)
	}
	last, ok := s.LastRequest()
	if !ok || last.Authorized() {
		t.Errorf("last request should be recorded without auth")
	}
	s.ResetRequests()
	if _, ok := s.LastRequest(); ok {
		t.Error("ResetRequests should clear history")
	}
}

func TestLessonPoints(t *testing.T) {
	if got := LessonPoints("4"); got != 300 {
		t.Errorf("LessonPoints(4) = %d, want 300", got)
	}
	if got := LessonPoints("x"); got != 0 {
		t.Errorf("LessonPoints(x) = %d, want 0", got)
	}
}
