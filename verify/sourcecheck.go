package verify

import (
	"log"
	"time"

	"electionwatch/types"

	readability "github.com/go-shiori/go-readability"
)

const sourceCheckTimeout = 15 * time.Second

// fetchSource is swapped out in tests to avoid live HTTP fetches.
var fetchSource = func(url string, timeout time.Duration) error {
	_, err := readability.FromURL(url, timeout)
	return err
}

// CheckSources fetches each cited source URL and drops the ones that cannot
// be retrieved, so dead or fabricated links never count toward confidence.
// Fetches run sequentially; a failed fetch removes only that source, and a
// finding left with no live sources is removed entirely. This is an optional
// pre-classification pass and each fetch is best-effort.
func CheckSources(findings []types.Finding) []types.Finding {
	kept := make([]types.Finding, 0, len(findings))
	for _, f := range findings {
		live := make([]types.Source, 0, len(f.Sources))
		for _, s := range f.Sources {
			if err := fetchSource(s.URL, sourceCheckTimeout); err != nil {
				log.Printf("Warning: unreachable source %s for %q: %v", s.URL, f.Headline, err)
				continue
			}
			live = append(live, s)
		}
		if len(live) == 0 {
			log.Printf("Dropping finding with no reachable sources: %s", f.Headline)
			continue
		}
		f.Sources = live
		kept = append(kept, f)
	}
	return kept
}
