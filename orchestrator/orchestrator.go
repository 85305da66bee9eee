// Package orchestrator runs the scan pipeline end to end.
package orchestrator

import (
	"context"
	"fmt"
	"log"
	"time"

	"electionwatch/common"
	"electionwatch/config"
	"electionwatch/dedup"
	"electionwatch/events"
	"electionwatch/search"
	"electionwatch/sitestate"
	"electionwatch/ticket"
	"electionwatch/types"
	"electionwatch/verify"

	"github.com/google/uuid"
)

const archiveTimeout = 30 * time.Second

// Deps carries the pipeline's collaborators. Search and Publisher are
// required; Guard, Archive, and Events are optional integrations that are
// skipped when nil.
type Deps struct {
	Config    config.Config
	Search    search.Client
	Publisher ticket.Publisher
	Guard     *dedup.TicketGuard
	Archive   *common.S3
	Events    *events.Producer

	// Now is a clock hook for tests; defaults to time.Now.
	Now func() time.Time
}

// RunOnce executes a single scan: read published state, search, verify,
// classify, deduplicate, then file one review ticket or skip. The pipeline is
// strictly linear with no cross-stage retries; only the external-call layers
// retry their own transient errors. Any returned error aborts the run before
// publishing partial results.
func RunOnce(ctx context.Context, deps Deps) (types.RunResult, error) {
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}

	result := types.RunResult{
		RunID:       uuid.NewString(),
		StartedAt:   now(),
		TicketState: "skipped",
	}

	log.Println("=== Election Update Scan ===")
	log.Printf("Run ID: %s", result.RunID)

	// Step 1: snapshot the published state once; passed by value from here on
	snap := sitestate.ReadSnapshot(deps.Config.SiteDir)
	window := search.WindowFromSnapshot(snap, result.StartedAt, config.DefaultLookback)
	log.Printf("Search window: since %s", window.Since.Format("2006-01-02"))

	// Step 2: the single expensive external search call
	log.Println("Searching for election administration updates...")
	candidates, err := deps.Search.Query(ctx, deps.Config.TrustedSources, window)
	if err != nil {
		return result, fmt.Errorf("search failed: %w", err)
	}
	result.Candidates = len(candidates)
	log.Printf("Search returned %d candidate finding(s)", len(candidates))

	// Step 3: optional source liveness check, then confidence classification
	if deps.Config.VerifySources {
		candidates = verify.CheckSources(candidates)
	}
	verified := verify.FilterVerified(candidates)
	log.Printf("%d finding(s) corroborated by 2+ independent sources", len(verified))

	// Step 4: drop findings the site already covers
	kept := dedup.Filter(verified, snap)
	kept = filterSeen(deps.Guard, kept)
	log.Printf("%d finding(s) after deduplication", len(kept))

	// Step 5: publish or skip
	if err := publish(ctx, deps, kept, &result); err != nil {
		return result, err
	}

	result.Findings = kept
	result.FinishedAt = now()

	archiveAndAnnounce(deps, result)
	summarize(result)
	return result, nil
}

// publish files the review ticket for surviving findings. Zero survivors skip
// ticket creation entirely (a no-op success) except for the optional Monday
// heartbeat, which keeps the pipeline visibly alive on quiet weeks.
func publish(ctx context.Context, deps Deps, kept []types.Finding, result *types.RunResult) error {
	now := result.StartedAt

	var title, body string
	var labels []string
	switch {
	case len(kept) > 0:
		title = ticket.BuildTitle(len(kept), now)
		body = ticket.BuildBody(kept, deps.Config.TrustedSources, now)
		labels = []string{config.LabelScan, config.LabelReview}
	case deps.Config.WeeklyHeartbeat && now.UTC().Weekday() == time.Monday:
		title = ticket.BuildHeartbeatTitle(now)
		body = ticket.BuildBody(nil, deps.Config.TrustedSources, now)
		labels = []string{config.LabelScan, config.LabelNoUpdates}
	default:
		log.Println("No new findings; skipping ticket creation")
		return nil
	}

	issue, err := deps.Publisher.CreateIssue(ctx, title, body, labels)
	if err != nil {
		return fmt.Errorf("ticket creation failed: %w", err)
	}

	if issue != nil {
		result.TicketID = issue.Number
		result.TicketURL = issue.URL
		result.TicketState = "created"
	} else {
		result.TicketState = "printed"
	}

	markSeen(deps.Guard, kept)
	return nil
}

// filterSeen drops findings the guard says were ticketed by a recent run.
// Guard errors fail open: better a duplicate ticket than a missed one.
func filterSeen(guard *dedup.TicketGuard, findings []types.Finding) []types.Finding {
	if guard == nil {
		return findings
	}

	kept := make([]types.Finding, 0, len(findings))
	for _, f := range findings {
		seen, err := guard.Seen(dedup.HashFinding(f))
		if err != nil {
			log.Printf("Warning: ticket guard check failed: %v", err)
			kept = append(kept, f)
			continue
		}
		if seen {
			log.Printf("Recently ticketed, suppressing: %s", f.Headline)
			continue
		}
		kept = append(kept, f)
	}
	return kept
}

func markSeen(guard *dedup.TicketGuard, findings []types.Finding) {
	if guard == nil {
		return
	}
	for _, f := range findings {
		if err := guard.Mark(dedup.HashFinding(f)); err != nil {
			log.Printf("Warning: failed to record ticketed finding: %v", err)
		}
	}
}

// archiveAndAnnounce runs the optional post-publish integrations. Both are
// best-effort: the ticket is already filed, so failures here only log.
func archiveAndAnnounce(deps Deps, result types.RunResult) {
	if deps.Archive != nil && deps.Config.S3Bucket != "" {
		actx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
		err := deps.Archive.ArchiveRun(actx, deps.Config.S3Bucket, deps.Config.S3Prefix, result)
		cancel()
		if err != nil {
			log.Printf("Warning: failed to archive run to S3: %v", err)
		} else {
			log.Printf("Archived run to s3://%s/%sscans/%s.json", deps.Config.S3Bucket, deps.Config.S3Prefix, result.RunID)
		}
	}

	if deps.Events != nil {
		if err := deps.Events.PublishRun(result); err != nil {
			log.Printf("Warning: failed to publish scan event: %v", err)
		}
	}
}

func summarize(result types.RunResult) {
	log.Println("\n=== Scan Summary ===")
	log.Printf("Candidates:    %d", result.Candidates)
	log.Printf("Published:     %d", len(result.Findings))
	log.Printf("Ticket:        %s", result.TicketState)
	if result.TicketURL != "" {
		log.Printf("Ticket URL:    %s", result.TicketURL)
	}
	log.Println("====================")
}
