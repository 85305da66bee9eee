// Package verify assigns confidence ratings from cross-source corroboration.
package verify

import (
	"log"
	"net/url"
	"strings"

	"electionwatch/types"
)

// Confidence thresholds on independent corroborating source count
const (
	HighSourceCount   = 3
	MediumSourceCount = 2
)

// IndependentSources counts the distinct hosts among a finding's source URLs.
// Two articles on the same site corroborate nothing, so the count is over
// normalized hosts, not raw URLs.
func IndependentSources(f types.Finding) int {
	hosts := make(map[string]struct{}, len(f.Sources))
	for _, s := range f.Sources {
		host := normalizeHost(s.URL)
		if host == "" {
			continue
		}
		hosts[host] = struct{}{}
	}
	return len(hosts)
}

// Classify rates a finding from its independent source count. The rating is
// monotonic: more corroboration never lowers confidence. Whatever confidence
// the search client reported upstream is ignored; only the count decides.
func Classify(f types.Finding) types.Confidence {
	switch n := IndependentSources(f); {
	case n >= HighSourceCount:
		return types.ConfidenceHigh
	case n == MediumSourceCount:
		return types.ConfidenceMedium
	default:
		return types.ConfidenceLow
	}
}

// FilterVerified classifies each finding and keeps only those corroborated by
// at least two independent sources.
func FilterVerified(findings []types.Finding) []types.Finding {
	kept := make([]types.Finding, 0, len(findings))
	for _, f := range findings {
		f.Confidence = Classify(f)
		if f.Confidence == types.ConfidenceLow {
			log.Printf("Dropping under-corroborated finding (%d independent source(s)): %s",
				IndependentSources(f), f.Headline)
			continue
		}
		kept = append(kept, f)
	}
	return kept
}

// normalizeHost extracts a lowercase host with any www. prefix and port
// stripped; empty on unparseable input.
func normalizeHost(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	return strings.TrimPrefix(host, "www.")
}
