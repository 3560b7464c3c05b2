package risk

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAssess_RequiresSalary(t *testing.T) {
	a := NewAdvisor("", "")
	_, err := a.Assess(context.Background(), Input{ApplicantName: "Ana", Amount: 10_000})
	if !errors.Is(err, ErrSalaryNotSet) {
		t.Fatalf("err = %v, want ErrSalaryNotSet", err)
	}
}

func TestAssess_DisabledUsesHeuristic(t *testing.T) {
	a := NewAdvisor("", "")
	out, err := a.Assess(context.Background(), Input{ApplicantName: "Ana", Amount: 80_000, Salary: 10_000})
	if err != nil {
		t.Fatalf("Assess err: %v", err)
	}
	if out.RiskScore <= 0 || out.RiskScore > 100 {
		t.Fatalf("score out of range: %d", out.RiskScore)
	}
	if out.Concerns == "" {
		t.Fatalf("expected a concerns narrative for an 8x amount/salary ratio")
	}
}

func TestAssess_ParsesModelResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("auth header = %q", got)
		}
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{
					"role":    "assistant",
					"content": "```json\n{\"risk_score\": 62, \"concerns\": \"Amount is high relative to salary.\"}\n```",
				}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	a := NewAdvisor("test-key", srv.URL)
	out, err := a.Assess(context.Background(), Input{ApplicantName: "Ana", Amount: 50_000, Salary: 12_000})
	if err != nil {
		t.Fatalf("Assess err: %v", err)
	}
	if out.RiskScore != 62 {
		t.Fatalf("score = %d, want 62", out.RiskScore)
	}
	if out.Concerns != "Amount is high relative to salary." {
		t.Fatalf("concerns = %q", out.Concerns)
	}
}

func TestAssess_ModelFailureFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	a := NewAdvisor("test-key", srv.URL)
	out, err := a.Assess(context.Background(), Input{ApplicantName: "Ana", Amount: 10_000, Salary: 20_000})
	if err != nil {
		t.Fatalf("Assess should fall back, got err: %v", err)
	}
	if out.RiskScore <= 0 {
		t.Fatalf("fallback score = %d", out.RiskScore)
	}
}

func TestParseAssessment_ClampsScore(t *testing.T) {
	out, err := parseAssessment(`{"risk_score": 170, "concerns": ""}`)
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	if out.RiskScore != 100 {
		t.Fatalf("score = %d, want clamped 100", out.RiskScore)
	}
}
