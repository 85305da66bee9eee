package dedup

import (
	"log"
	"strings"

	"electionwatch/types"
)

// containmentMinLen guards the substring rule: shorter normalized headlines
// match only exactly, so "Texas" alone can never swallow unrelated entries.
const containmentMinLen = 20

// Filter removes findings already present in the published snapshot. A
// finding is a duplicate when its normalized headline matches a published
// title, or any of its normalized source URLs matches a published URL.
// Published timeline text is usually longer than a headline, so titles also
// match by containment in either direction once long enough. A finding that
// only shares a state with a published entry is treated as new: a missed
// duplicate costs one redundant review, a missed update costs coverage.
func Filter(findings []types.Finding, snap types.Snapshot) []types.Finding {
	titles := make([]string, 0, len(snap.Entries))
	urls := make(map[string]struct{}, len(snap.Entries))
	for _, e := range snap.Entries {
		if t := NormalizeTitle(e.Title); t != "" {
			titles = append(titles, t)
		}
		if u := NormalizeURL(e.URL); u != "" {
			urls[u] = struct{}{}
		}
	}

	kept := make([]types.Finding, 0, len(findings))
	for _, f := range findings {
		if reason := matchReason(f, titles, urls); reason != "" {
			log.Printf("Already published (%s): %s", reason, f.Headline)
			continue
		}
		kept = append(kept, f)
	}
	return kept
}

func matchReason(f types.Finding, titles []string, urls map[string]struct{}) string {
	headline := NormalizeTitle(f.Headline)
	for _, title := range titles {
		if headline == title {
			return "title match"
		}
		if len(headline) >= containmentMinLen && strings.Contains(title, headline) {
			return "title contained in published entry"
		}
		if len(title) >= containmentMinLen && strings.Contains(headline, title) {
			return "published entry contained in title"
		}
	}

	for _, s := range f.Sources {
		if _, ok := urls[NormalizeURL(s.URL)]; ok {
			return "source URL match"
		}
	}

	return ""
}
