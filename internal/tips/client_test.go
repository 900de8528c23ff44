package tips

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestTip_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/v1/savings-tips" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("missing or wrong authorization header")
		}

		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if len(req.Goals) != 1 || req.Goals[0].Name != "Viaje" {
			t.Errorf("unexpected goals: %+v", req.Goals)
		}
		if len(req.ContributionHistory) != 1 || req.ContributionHistory[0].Amount != 50 {
			t.Errorf("unexpected history: %+v", req.ContributionHistory)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"tip": "  Ahorra 10% cada quincena.  "})
	}))
	defer server.Close()

	c := NewClient(server.URL+"/", "test-key", time.Second, server.Client())
	tip, err := c.Tip(context.Background(), Request{
		Goals:               []Goal{{Name: "Viaje", Emoji: "✈️", TotalAmount: 1000, SavedAmount: 50, Deadline: "2025-01-01T00:00:00Z"}},
		ContributionHistory: []Contribution{{GoalName: "Viaje", Amount: 50, Date: "2024-05-01T00:00:00Z"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tip != "Ahorra 10% cada quincena." {
		t.Errorf("expected trimmed tip, got %q", tip)
	}
}

func TestTip_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	c := NewClient(server.URL, "", time.Second, server.Client())
	if _, err := c.Tip(context.Background(), Request{}); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestTip_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	c := NewClient(server.URL, "", time.Second, server.Client())
	if _, err := c.Tip(context.Background(), Request{}); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestTip_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	c := NewClient(server.URL, "", 20*time.Millisecond, nil)
	if _, err := c.Tip(context.Background(), Request{}); err == nil {
		t.Fatal("expected timeout error")
	}
}
