package search

import (
	"testing"
	"time"

	"electionwatch/types"
)

const sampleResponse = `{
  "search_date": "2026-02-10",
  "findings": [
    {
      "headline": "Georgia signature match lawsuit",
      "date": "2026-02-09",
      "description": "A federal lawsuit challenges Georgia's signature match rules.",
      "category": "lawsuit",
      "affected_states": ["GA"],
      "sources": [
        {"name": "AP", "url": "https://apnews.com/article/ga-signature"},
        {"name": "Votebeat", "url": "https://votebeat.org/ga-signature"},
        {"name": "Democracy Docket", "url": "https://democracydocket.com/ga"}
      ]
    },
    {
      "headline": "Unsourced rumor",
      "date": "2026-02-09",
      "description": "Something without any citation.",
      "category": "other",
      "sources": []
    }
  ],
  "no_updates": false,
  "summary": "One new lawsuit found."
}`

func TestParseFindingsRawJSON(t *testing.T) {
	findings, summary, err := ParseFindings(sampleResponse)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if summary != "One new lawsuit found." {
		t.Errorf("unexpected summary: %q", summary)
	}

	// The unsourced finding must be discarded at parse time
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}

	f := findings[0]
	if f.Headline != "Georgia signature match lawsuit" {
		t.Errorf("unexpected headline: %q", f.Headline)
	}
	if f.ID == "" {
		t.Error("expected a generated finding ID")
	}
	if len(f.Sources) != 3 {
		t.Errorf("expected 3 sources, got %d", len(f.Sources))
	}
	if len(f.States) != 1 || f.States[0] != "GA" {
		t.Errorf("unexpected states: %v", f.States)
	}
}

func TestParseFindingsStripsMarkdownFencing(t *testing.T) {
	fenced := "```json\n" + sampleResponse + "\n```"

	findings, _, err := ParseFindings(fenced)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}
}

func TestParseFindingsIgnoresSurroundingProse(t *testing.T) {
	wrapped := "Here is what I found:\n\n" + sampleResponse + "\n\nLet me know if you need more."

	findings, _, err := ParseFindings(wrapped)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}
}

func TestParseFindingsNoJSON(t *testing.T) {
	if _, _, err := ParseFindings("I could not find anything today."); err == nil {
		t.Fatal("expected an error when no JSON object is present")
	}
}

func TestParseFindingsDropsSourcesWithoutURL(t *testing.T) {
	text := `{"findings":[{"headline":"Partially cited","description":"x","sources":[{"name":"A","url":""},{"name":"B","url":"https://b.example/x"}]}]}`

	findings, _, err := ParseFindings(text)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(findings) != 1 || len(findings[0].Sources) != 1 {
		t.Fatalf("expected one finding with one usable source, got %+v", findings)
	}
}

func TestWindowFromSnapshotUsesFeedTimestamp(t *testing.T) {
	now := time.Date(2026, 2, 10, 13, 0, 0, 0, time.UTC)
	lastBuild := now.Add(-6 * time.Hour)

	w := WindowFromSnapshot(types.Snapshot{LastUpdated: lastBuild}, now, 24*time.Hour)
	if !w.Since.Equal(lastBuild) {
		t.Errorf("expected window since %s, got %s", lastBuild, w.Since)
	}
	if w.Days() != 1 {
		t.Errorf("expected 1-day window, got %d", w.Days())
	}
}

func TestWindowFromSnapshotFallsBackOnStaleOrMissingTimestamp(t *testing.T) {
	now := time.Date(2026, 2, 10, 13, 0, 0, 0, time.UTC)

	w := WindowFromSnapshot(types.Snapshot{}, now, 24*time.Hour)
	if !w.Since.Equal(now.Add(-24 * time.Hour)) {
		t.Errorf("expected 24h fallback, got since=%s", w.Since)
	}

	// A last-updated older than the fallback must not widen the window
	stale := types.Snapshot{LastUpdated: now.Add(-30 * 24 * time.Hour)}
	w = WindowFromSnapshot(stale, now, 24*time.Hour)
	if !w.Since.Equal(now.Add(-24 * time.Hour)) {
		t.Errorf("stale timestamp widened the window: since=%s", w.Since)
	}
}
