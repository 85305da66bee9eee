package search

import (
	"context"
	"time"

	"electionwatch/types"
)

// Window is the time span a scan asks the model to cover. Since is derived
// from the published feed's last build date when available, so each scan picks
// up roughly where the last published update left off.
type Window struct {
	Since time.Time
	Until time.Time
}

// WindowFromSnapshot derives the scan window from the published state,
// falling back to a fixed lookback when the snapshot carries no timestamp.
func WindowFromSnapshot(snap types.Snapshot, now time.Time, fallback time.Duration) Window {
	since := now.Add(-fallback)
	if !snap.LastUpdated.IsZero() && snap.LastUpdated.After(since) {
		since = snap.LastUpdated
	}
	return Window{Since: since, Until: now}
}

// Days returns the window length rounded up to whole days, minimum one.
func (w Window) Days() int {
	days := int(w.Until.Sub(w.Since).Hours()/24) + 1
	if days < 1 {
		days = 1
	}
	return days
}

// Client is the search-capable reasoning service boundary. Implementations
// issue one expensive external call per Query; tests swap in deterministic
// fakes.
type Client interface {
	// Query asks for new election-administration developments within the
	// window, corroborated against the given trusted source domains. Every
	// returned finding carries at least one source URL.
	Query(ctx context.Context, sources []string, window Window) ([]types.Finding, error)
}
