package dedup

import (
	"testing"

	"electionwatch/types"
)

func snapshotWith(entries ...types.PublishedEntry) types.Snapshot {
	return types.Snapshot{Entries: entries}
}

func TestFilterDropsExactTitleMatch(t *testing.T) {
	snap := snapshotWith(types.PublishedEntry{Title: "Texas voter roll purge", State: "TX"})
	findings := []types.Finding{
		{Headline: "Texas Voter Roll Purge", States: []string{"TX"}},
		{Headline: "Georgia signature match lawsuit", States: []string{"GA"}},
	}

	kept := Filter(findings, snap)
	if len(kept) != 1 {
		t.Fatalf("expected 1 kept finding, got %d", len(kept))
	}
	if kept[0].Headline != "Georgia signature match lawsuit" {
		t.Errorf("wrong survivor: %q", kept[0].Headline)
	}
}

func TestFilterDropsHeadlineContainedInPublishedEntry(t *testing.T) {
	// Published timeline text is usually longer than a finding headline
	snap := snapshotWith(types.PublishedEntry{
		Title: "Texas voter roll purge removes 100,000 registrations New",
	})
	findings := []types.Finding{{Headline: "Texas voter roll purge removes voters"}}

	// Containment needs the shorter string inside the longer one
	kept := Filter([]types.Finding{{Headline: "Texas voter roll purge removes 100,000 registrations"}}, snap)
	if len(kept) != 0 {
		t.Errorf("expected containment match to drop the finding, kept %+v", kept)
	}

	// A merely similar headline is not a match
	kept = Filter(findings, snap)
	if len(kept) != 1 {
		t.Errorf("expected similar-but-distinct headline to be kept, got %d", len(kept))
	}
}

func TestFilterShortTitlesMatchOnlyExactly(t *testing.T) {
	snap := snapshotWith(types.PublishedEntry{Title: "Texas"})
	findings := []types.Finding{{Headline: "Texas voter roll purge expands to new counties"}}

	if kept := Filter(findings, snap); len(kept) != 1 {
		t.Error("a short published title must not swallow longer headlines by containment")
	}
}

func TestFilterDropsSourceURLMatch(t *testing.T) {
	snap := snapshotWith(types.PublishedEntry{
		Title: "Old coverage",
		URL:   "https://example.org/updates/texas-purge?utm_source=rss",
	})
	findings := []types.Finding{{
		Headline: "Fresh headline, same story",
		Sources:  []types.Source{{URL: "https://EXAMPLE.org/updates/texas-purge/"}},
	}}

	if kept := Filter(findings, snap); len(kept) != 0 {
		t.Errorf("expected normalized URL match to drop the finding, kept %+v", kept)
	}
}

func TestFilterStateOnlyMatchIsTreatedAsNew(t *testing.T) {
	snap := snapshotWith(types.PublishedEntry{Title: "Texas voter roll purge", State: "TX"})
	findings := []types.Finding{{
		Headline: "Texas county election office loses federal funding",
		States:   []string{"TX"},
	}}

	if kept := Filter(findings, snap); len(kept) != 1 {
		t.Error("same state with a different headline must be kept (favor false positives)")
	}
}

func TestNormalizeTitle(t *testing.T) {
	if got := NormalizeTitle("  Texas   Voter\tRoll  Purge "); got != "texas voter roll purge" {
		t.Errorf("unexpected normalization: %q", got)
	}
}

func TestNormalizeURL(t *testing.T) {
	cases := map[string]string{
		"https://Example.ORG/Path/?utm_source=x&fbclid=y&id=1#frag": "https://example.org/Path/?id=1",
		"https://example.org/path/":                                 "https://example.org/path",
		"":                                                          "",
	}
	for in, want := range cases {
		if got := NormalizeURL(in); got != want {
			t.Errorf("NormalizeURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHashFindingStableAcrossFormatting(t *testing.T) {
	a := types.Finding{
		Headline: "Georgia signature match lawsuit",
		Sources:  []types.Source{{URL: "https://apnews.com/a?utm_source=feed"}},
	}
	b := types.Finding{
		Headline: "  georgia  SIGNATURE match lawsuit ",
		Sources:  []types.Source{{URL: "https://APNEWS.com/a"}},
	}

	if HashFinding(a) != HashFinding(b) {
		t.Error("expected normalization-equivalent findings to hash identically")
	}

	c := types.Finding{Headline: "Different story", Sources: a.Sources}
	if HashFinding(a) == HashFinding(c) {
		t.Error("different headlines must not collide")
	}
}
