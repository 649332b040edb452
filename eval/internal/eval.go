package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"medrag/types"
)

// Test is one labelled evaluation question: either the corpus should support
// an answer, or the service is expected to abstain.
type Test struct {
	Name          string `json:"name"`
	Question      string `json:"question"`
	ExpectAbstain bool   `json:"expect_abstain"`
}

// DefaultTests covers both sides of the grounding policy against the sample
// clinical corpus.
var DefaultTests = []Test{
	{
		Name:          "in_scope_hand_hygiene",
		Question:      "What are the key recommendations for hand hygiene?",
		ExpectAbstain: false,
	},
	{
		Name:          "in_scope_pressure_ulcers",
		Question:      "How often should immobile patients be repositioned?",
		ExpectAbstain: false,
	},
	{
		Name:          "out_of_scope_antibiotic",
		Question:      "What antibiotic should be prescribed for pneumonia?",
		ExpectAbstain: true,
	},
}

// Record is the outcome of one evaluation question.
type Record struct {
	Test                string   `json:"test"`
	Question            string   `json:"question"`
	ExpectedAbstained   bool     `json:"expected_abstained"`
	HTTPStatus          int      `json:"http_status"`
	Error               string   `json:"error,omitempty"`
	Abstained           *bool    `json:"abstained,omitempty"`
	BestDistance        *float64 `json:"best_distance,omitempty"`
	Threshold           float64  `json:"threshold,omitempty"`
	WarningFlags        []string `json:"warning_flags,omitempty"`
	HasCitationInAnswer *bool    `json:"has_citation_in_answer,omitempty"`
}

// Summary aggregates a run.
type Summary struct {
	Total                     int `json:"total"`
	HTTP200                   int `json:"http_200"`
	AbstainMatchesExpectation int `json:"abstain_matches_expectation"`
}

// Runner drives a running MedRAG server over HTTP.
type Runner struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

func NewRunner(baseURL, apiKey string) *Runner {
	return &Runner{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// Run posts every test to /query and scores the abstention decisions.
func (r *Runner) Run(ctx context.Context, tests []Test) ([]Record, Summary) {
	records := make([]Record, 0, len(tests))
	for _, t := range tests {
		records = append(records, r.runOne(ctx, t))
	}

	summary := Summary{Total: len(records)}
	for _, rec := range records {
		if rec.HTTPStatus != http.StatusOK {
			continue
		}
		summary.HTTP200++
		if rec.Abstained != nil && *rec.Abstained == rec.ExpectedAbstained {
			summary.AbstainMatchesExpectation++
		}
	}
	return records, summary
}

func (r *Runner) runOne(ctx context.Context, t Test) Record {
	record := Record{
		Test:              t.Name,
		Question:          t.Question,
		ExpectedAbstained: t.ExpectAbstain,
	}

	payload, _ := json.Marshal(map[string]any{
		"question": t.Question,
		"top_k":    types.DefaultTopK,
	})

	req, err := http.NewRequestWithContext(ctx, "POST", r.BaseURL+"/query", bytes.NewBuffer(payload))
	if err != nil {
		record.Error = err.Error()
		return record
	}
	req.Header.Set("Content-Type", "application/json")
	if r.APIKey != "" {
		req.Header.Set("X-API-Key", r.APIKey)
	}

	resp, err := r.Client.Do(req)
	if err != nil {
		record.Error = err.Error()
		return record
	}
	defer resp.Body.Close()

	record.HTTPStatus = resp.StatusCode
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		record.Error = err.Error()
		return record
	}

	if resp.StatusCode != http.StatusOK {
		record.Error = string(body)
		return record
	}

	var result types.QueryResult
	if err := json.Unmarshal(body, &result); err != nil {
		record.Error = fmt.Sprintf("decode response: %v", err)
		return record
	}

	record.Abstained = &result.Grounding.Abstained
	record.BestDistance = result.Grounding.BestDistance
	record.Threshold = result.Grounding.MaxDistanceThreshold
	record.WarningFlags = result.WarningFlags

	if !result.Grounding.Abstained {
		has := hasCitation(result.Answer, result.Citations)
		record.HasCitationInAnswer = &has
	}
	return record
}

func hasCitation(answer string, citations []string) bool {
	for _, cid := range citations {
		if strings.Contains(answer, cid) {
			return true
		}
	}
	return false
}
