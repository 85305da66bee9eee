package search

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"electionwatch/types"
)

// scanResponse mirrors the JSON schema the prompt asks the model to emit.
type scanResponse struct {
	SearchDate string        `json:"search_date"`
	Findings   []scanFinding `json:"findings"`
	NoUpdates  bool          `json:"no_updates"`
	Summary    string        `json:"summary"`
}

type scanFinding struct {
	Headline       string         `json:"headline"`
	Date           string         `json:"date"`
	Description    string         `json:"description"`
	Category       string         `json:"category"`
	AffectedStates []string       `json:"affected_states"`
	Sources        []types.Source `json:"sources"`
}

// ParseFindings extracts the findings JSON from model output. Models wrap
// JSON in markdown fences or prose despite instructions, so the raw object is
// located by stripping fences and scanning for the outermost braces.
// Findings with no source URL are discarded here; they can never be verified.
func ParseFindings(text string) ([]types.Finding, string, error) {
	raw, err := extractJSON(text)
	if err != nil {
		return nil, "", err
	}

	var resp scanResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, "", fmt.Errorf("failed to decode findings JSON: %w", err)
	}

	findings := make([]types.Finding, 0, len(resp.Findings))
	for _, f := range resp.Findings {
		sources := make([]types.Source, 0, len(f.Sources))
		for _, s := range f.Sources {
			if strings.TrimSpace(s.URL) == "" {
				continue
			}
			sources = append(sources, s)
		}
		if len(sources) == 0 {
			log.Printf("Warning: dropping finding with no source URLs: %q", f.Headline)
			continue
		}

		findings = append(findings, types.Finding{
			ID:       types.GenerateID(f.Headline),
			Headline: strings.TrimSpace(f.Headline),
			Date:     f.Date,
			Summary:  strings.TrimSpace(f.Description),
			Category: f.Category,
			States:   f.AffectedStates,
			Sources:  sources,
		})
	}

	return findings, resp.Summary, nil
}

// extractJSON strips markdown fencing and returns the outermost JSON object.
func extractJSON(text string) (string, error) {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```") {
		if idx := strings.Index(cleaned, "\n"); idx != -1 {
			cleaned = cleaned[idx+1:]
		} else {
			cleaned = strings.TrimPrefix(cleaned, "```")
		}
	}
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("no JSON object found in response (%d chars)", len(text))
	}
	return cleaned[start : end+1], nil
}
