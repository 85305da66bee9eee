package sitestate

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"electionwatch/config"
	"electionwatch/types"

	"github.com/PuerkitoBio/goquery"
)

// compliedStateRe matches the state-risk map embedded in the site's JS,
// e.g. `TX:{name:"Texas",risk:"complied"`.
var compliedStateRe = regexp.MustCompile(`(\w{2}):\{name:"[^"]+",risk:"complied"`)

// ReadSnapshot builds the published-state snapshot from the checked-out site
// directory. It is best-effort by design: unreadable or malformed artifacts
// are recorded as warnings and the run proceeds with whatever was extracted,
// so a broken site document yields more notifications rather than silently
// suppressing everything.
func ReadSnapshot(siteDir string) types.Snapshot {
	var snap types.Snapshot

	indexPath := filepath.Join(siteDir, config.IndexFile)
	entries, err := readIndexEntries(indexPath)
	if err != nil {
		log.Printf("Warning: could not read published index %s: %v (treating as empty)", indexPath, err)
		snap.ReadErrors = append(snap.ReadErrors, fmt.Sprintf("index: %v", err))
	}
	snap.Entries = append(snap.Entries, entries...)

	feedPath := filepath.Join(siteDir, config.FeedFile)
	feedEntries, lastUpdated, err := readFeedEntries(feedPath)
	if err != nil {
		log.Printf("Warning: could not read published feed %s: %v (treating as empty)", feedPath, err)
		snap.ReadErrors = append(snap.ReadErrors, fmt.Sprintf("feed: %v", err))
	}
	snap.Entries = append(snap.Entries, feedEntries...)
	snap.LastUpdated = lastUpdated

	log.Printf("Published state: %d entries (last updated %s)", len(snap.Entries), formatLastUpdated(snap))
	return snap
}

// readIndexEntries extracts timeline entries, tracked court rulings, and
// complied states from the site's index document.
func readIndexEntries(path string) ([]types.PublishedEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse index document: %w", err)
	}

	var entries []types.PublishedEntry

	// Timeline entries: one PublishedEntry per tl-item, titled by its text.
	doc.Find(".tl-item").Each(func(_ int, s *goquery.Selection) {
		text := collapseWhitespace(s.Find(".tl-text").Text())
		if text == "" {
			return
		}
		entries = append(entries, types.PublishedEntry{Title: text})
	})

	// Court rulings already tracked, keyed by state.
	doc.Find(".court-state").Each(func(i int, s *goquery.Selection) {
		state := collapseWhitespace(s.Text())
		if state == "" {
			return
		}
		detail := collapseWhitespace(doc.Find(".court-detail").Eq(i).Text())
		entries = append(entries, types.PublishedEntry{Title: detail, State: state})
	})

	// States already marked as complied in the embedded map data.
	for _, m := range compliedStateRe.FindAllStringSubmatch(string(data), -1) {
		entries = append(entries, types.PublishedEntry{
			Title: m[1] + " marked as complied",
			State: m[1],
		})
	}

	return entries, nil
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func formatLastUpdated(snap types.Snapshot) string {
	if snap.LastUpdated.IsZero() {
		return "unknown"
	}
	return snap.LastUpdated.Format("2006-01-02 15:04 MST")
}
