package types

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Confidence is the cross-source corroboration rating for a finding.
type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"   // 3+ independent sources
	ConfidenceMedium Confidence = "MEDIUM" // exactly 2 independent sources
	ConfidenceLow    Confidence = "LOW"    // fewer than 2; dropped before publishing
)

// Source is one corroborating reference for a finding.
type Source struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Finding is a single candidate election-administration development surfaced
// by one scan. Findings live only for the duration of a run.
type Finding struct {
	ID         string     `json:"id"`
	Headline   string     `json:"headline"`
	Date       string     `json:"date,omitempty"` // as reported, YYYY-MM-DD or approximate
	Summary    string     `json:"summary"`
	Category   string     `json:"category,omitempty"` // court_ruling|lawsuit|federal_action|legislation|compliance|other
	States     []string   `json:"states,omitempty"`   // two-letter jurisdiction codes
	Sources    []Source   `json:"sources"`
	Confidence Confidence `json:"confidence"`
}

// PublishedEntry is one item already visible on the live site. Entries are
// read-only within a run.
type PublishedEntry struct {
	Title string `json:"title"`
	URL   string `json:"url,omitempty"`
	State string `json:"state,omitempty"`
}

// Snapshot is the published state captured once at run start and passed by
// value through the pipeline; it is never re-read mid-run.
type Snapshot struct {
	Entries     []PublishedEntry `json:"entries"`
	LastUpdated time.Time        `json:"last_updated"` // feed lastBuildDate, zero if unknown
	ReadErrors  []string         `json:"read_errors,omitempty"`
}

// RunResult is the outcome of one pipeline run: the findings that survived
// classification and deduplication, plus the ticket they were filed under.
type RunResult struct {
	RunID       string    `json:"run_id"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
	Candidates  int       `json:"candidates"`
	Findings    []Finding `json:"findings"`
	TicketID    int       `json:"ticket_id,omitempty"`
	TicketURL   string    `json:"ticket_url,omitempty"`
	TicketState string    `json:"ticket_state"` // "created", "skipped", "printed"
}

// GenerateID creates a short stable ID from a finding's headline.
func GenerateID(text string) string {
	hash := sha256.Sum256([]byte(text))
	return hex.EncodeToString(hash[:])[:16]
}
