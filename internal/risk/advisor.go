// Package risk feeds applicant figures to an external text-generation
// service and returns its advisory verdict. The output is untrusted
// commentary for display only; nothing in the workflow keys off it.
package risk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

const defaultAPIURL = "https://api.openai.com/v1/chat/completions"

type Input struct {
	ApplicantName string
	Amount        float64
	Salary        float64
	DenialHistory string
}

type Assessment struct {
	RiskScore int    `json:"risk_score"`
	Concerns  string `json:"concerns"`
}

var ErrSalaryNotSet = errors.New("applicant salary must be set before assessing risk")

type Advisor struct {
	apiKey     string
	apiURL     string
	enabled    bool
	httpClient *http.Client
}

// NewAdvisor builds an advisor; with an empty API key it stays disabled and
// answers from a deterministic heuristic instead.
func NewAdvisor(apiKey, apiURL string) *Advisor {
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	return &Advisor{
		apiKey:     apiKey,
		apiURL:     apiURL,
		enabled:    apiKey != "",
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (a *Advisor) Assess(ctx context.Context, in Input) (Assessment, error) {
	if in.Salary <= 0 {
		return Assessment{}, ErrSalaryNotSet
	}
	if !a.enabled {
		return a.fallback(in), nil
	}

	prompt := fmt.Sprintf(`You are a risk assessment assistant for a cooperative lending office.

Generate a risk score (0-100) for this loan application:
- Applicant Name: %s
- Loan Amount: %.2f
- Monthly Salary: %.2f
- Denial History: %s

Also list any relevant concerns for the approver.
Respond with JSON only: {"risk_score": <int>, "concerns": "<string>"}`,
		in.ApplicantName, in.Amount, in.Salary, orNone(in.DenialHistory))

	out, err := a.callModel(ctx, prompt)
	if err != nil {
		log.Printf("risk: model call failed, using heuristic: %v", err)
		return a.fallback(in), nil
	}
	return out, nil
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

// fallback scores on the amount-to-salary ratio alone.
func (a *Advisor) fallback(in Input) Assessment {
	ratio := in.Amount / in.Salary
	score := int(ratio * 10)
	if score > 95 {
		score = 95
	}
	if score < 5 {
		score = 5
	}
	concerns := "No automated concerns."
	if ratio > 6 {
		concerns = fmt.Sprintf("Requested amount is %.1f× the monthly salary; repayment capacity should be reviewed manually.", ratio)
	}
	return Assessment{RiskScore: score, Concerns: concerns}
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (a *Advisor) callModel(ctx context.Context, prompt string) (Assessment, error) {
	body, err := json.Marshal(chatRequest{
		Model:     "gpt-4o-mini",
		Messages:  []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens: 300,
	})
	if err != nil {
		return Assessment{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.apiURL, bytes.NewReader(body))
	if err != nil {
		return Assessment{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return Assessment{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Assessment{}, fmt.Errorf("model endpoint returned %d: %s", resp.StatusCode, b)
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return Assessment{}, err
	}
	if len(cr.Choices) == 0 {
		return Assessment{}, errors.New("model returned no choices")
	}

	return parseAssessment(cr.Choices[0].Message.Content)
}

// parseAssessment tolerates code fences around the JSON payload.
func parseAssessment(content string) (Assessment, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var out Assessment
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &out); err != nil {
		return Assessment{}, fmt.Errorf("unparseable model output: %w", err)
	}
	if out.RiskScore < 0 {
		out.RiskScore = 0
	}
	if out.RiskScore > 100 {
		out.RiskScore = 100
	}
	return out, nil
}
