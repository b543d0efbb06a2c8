package command

import (
	"encoding/json"
	"strconv"
	"strings"
	"testing"

	"github.com/yndnr/moneygrowth-go/internal/apitest"
)

func itoa(n int) string { return strconv.Itoa(n) }

func TestMarketOverview_Public(t *testing.T) {
	h := newHarness(t)

	res := h.run("market", "overview")
	if res.err != nil {
		t.Fatalf("overview: %v", res.err)
	}
	for _, want := range []string{"KIND", apitest.Stocks[0].Symbol, apitest.Crypto[0].Name} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, res.stdout)
		}
	}
	if req, _ := h.srv.LastRequest(); req.Authorized() {
		t.Error("market overview sent a token while logged out")
	}
}

func TestMarketStock(t *testing.T) {
	h := newHarness(t)

	res := h.run("-o", "json", "market", "stock", "aapl")
	if res.err != nil {
		t.Fatalf("stock: %v", res.err)
	}
	var q map[string]any
	if err := json.Unmarshal([]byte(res.stdout), &q); err != nil {
		t.Fatalf("decode %q: %v", res.stdout, err)
	}
	if q["symbol"] != "AAPL" {
		t.Errorf("symbol = %v", q["symbol"])
	}
	if req, _ := h.srv.LastRequest(); req.Path != "/api/market/stock/AAPL" {
		t.Errorf("path = %s", req.Path)
	}

	if res := h.run("market", "stock", " "); res.err == nil {
		t.Error("blank symbol should fail")
	}
}

func TestDashboard(t *testing.T) {
	h := newHarness(t)
	uid := h.login()
	h.srv.SetProfile(uid, 4000, 3000, 2000)

	res := h.run("dashboard")
	if res.err != nil {
		t.Fatalf("dashboard: %v", res.err)
	}
	for _, want := range []string{"METRIC", "$4,000.00", "$3,000.00"} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, res.stdout)
		}
	}
}

func TestProfileUpdateAndShow(t *testing.T) {
	h := newHarness(t)
	h.login()

	res := h.run("profile", "update", "--income", "5200.50", "--skills", "go, writing", "--risk", "high")
	if res.err != nil {
		t.Fatalf("update: %v", res.err)
	}
	if !strings.Contains(res.stdout, "Profile updated.") {
		t.Errorf("stdout = %q", res.stdout)
	}
	req, _ := h.srv.LastRequest()
	var body map[string]any
	if err := json.Unmarshal(req.Body, &body); err != nil {
		t.Fatalf("decode body %q: %v", req.Body, err)
	}
	if _, ok := body["location"]; ok {
		t.Errorf("unset field sent: %v", body)
	}
	if body["risk_tolerance"] != "high" {
		t.Errorf("risk_tolerance = %v", body["risk_tolerance"])
	}

	res = h.run("-o", "json", "profile", "show")
	if res.err != nil {
		t.Fatalf("show: %v", res.err)
	}
	var view struct {
		User    map[string]any `json:"user"`
		Profile map[string]any `json:"profile"`
	}
	if err := json.Unmarshal([]byte(res.stdout), &view); err != nil {
		t.Fatalf("decode %q: %v", res.stdout, err)
	}
	if view.User["email"] != "ann@example.com" {
		t.Errorf("user = %v", view.User)
	}
	if view.Profile["risk_tolerance"] != "high" {
		t.Errorf("profile = %v", view.Profile)
	}
}

func TestProfileUpdate_Rejected(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no fields", []string{"profile", "update"}},
		{"bad amount", []string{"profile", "update", "--income", "lots"}},
		{"bad risk", []string{"profile", "update", "--risk", "reckless"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.login()
			h.srv.ResetRequests()

			if res := h.run(tt.args...); res.err == nil {
				t.Fatal("expected an error")
			}
			if n := h.requestCount(); n != 0 {
				t.Errorf("%d requests sent", n)
			}
		})
	}
}
