package sitestate

import (
	"os"
	"path/filepath"
	"testing"
)

const fixtureIndex = `<!DOCTYPE html>
<html>
<body>
  <section class="timeline">
    <div class="timeline-title mono">Timeline</div>
    <div class="tl-item">
      <div class="tl-date">Feb 6</div>
      <div class="tl-dot" style="background:var(--elevated)"></div>
      <div class="tl-text"><strong>Texas voter roll purge</strong> <span class="tl-new">New</span></div>
    </div>
    <div class="tl-item">
      <div class="tl-date">Jan 22</div>
      <div class="tl-dot" style="background:var(--critical)"></div>
      <div class="tl-text"><strong>DOJ sues Maine</strong> over voter data access</div>
    </div>
  </section>
  <div class="court-state">Arizona</div>
  <div class="court-detail">Preliminary injunction granted against roll purge</div>
  <script>
    var states = {TX:{name:"Texas",risk:"complied"},GA:{name:"Georgia",risk:"elevated"}};
  </script>
</body>
</html>`

const fixtureFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Election Risk Map</title>
    <link>https://example.org</link>
    <description>Updates</description>
    <lastBuildDate>Mon, 09 Feb 2026 12:00:00 GMT</lastBuildDate>
    <item>
      <title>Texas voter roll purge</title>
      <link>https://example.org/updates/texas-voter-roll-purge</link>
    </item>
  </channel>
</rss>`

func writeFixtureSite(t *testing.T, index, feed string) string {
	t.Helper()

	dir := t.TempDir()
	if index != "" {
		if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte(index), 0o644); err != nil {
			t.Fatalf("failed to write index fixture: %v", err)
		}
	}
	if feed != "" {
		if err := os.WriteFile(filepath.Join(dir, "feed.xml"), []byte(feed), 0o644); err != nil {
			t.Fatalf("failed to write feed fixture: %v", err)
		}
	}
	return dir
}

func TestReadSnapshotExtractsPublishedEntries(t *testing.T) {
	dir := writeFixtureSite(t, fixtureIndex, fixtureFeed)

	snap := ReadSnapshot(dir)

	if len(snap.ReadErrors) != 0 {
		t.Fatalf("expected no read errors, got %v", snap.ReadErrors)
	}

	titles := make(map[string]bool, len(snap.Entries))
	for _, e := range snap.Entries {
		titles[e.Title] = true
	}

	for _, want := range []string{
		"Texas voter roll purge New",
		"DOJ sues Maine over voter data access",
		"Preliminary injunction granted against roll purge",
		"TX marked as complied",
	} {
		if !titles[want] {
			t.Errorf("expected entry %q in snapshot, have %v", want, titles)
		}
	}

	if titles["GA marked as complied"] {
		t.Error("GA is not complied and must not appear in the snapshot")
	}
}

func TestReadSnapshotCourtEntriesCarryState(t *testing.T) {
	dir := writeFixtureSite(t, fixtureIndex, "")

	snap := ReadSnapshot(dir)

	found := false
	for _, e := range snap.Entries {
		if e.State == "Arizona" {
			found = true
			if e.Title != "Preliminary injunction granted against roll purge" {
				t.Errorf("unexpected court detail: %q", e.Title)
			}
		}
	}
	if !found {
		t.Fatal("expected a court entry for Arizona")
	}
}

func TestReadSnapshotFeedSetsLastUpdated(t *testing.T) {
	dir := writeFixtureSite(t, "", fixtureFeed)

	snap := ReadSnapshot(dir)

	if snap.LastUpdated.IsZero() {
		t.Fatal("expected last updated from feed lastBuildDate")
	}
	if got := snap.LastUpdated.UTC().Format("2006-01-02"); got != "2026-02-09" {
		t.Errorf("expected last updated 2026-02-09, got %s", got)
	}

	if len(snap.Entries) != 1 || snap.Entries[0].URL != "https://example.org/updates/texas-voter-roll-purge" {
		t.Errorf("expected one feed entry with URL, got %+v", snap.Entries)
	}
}

func TestReadSnapshotFailsOpenOnMissingSite(t *testing.T) {
	snap := ReadSnapshot(t.TempDir())

	if len(snap.Entries) != 0 {
		t.Errorf("expected empty snapshot, got %d entries", len(snap.Entries))
	}
	if len(snap.ReadErrors) != 2 {
		t.Errorf("expected read errors for both artifacts, got %v", snap.ReadErrors)
	}
}

func TestReadSnapshotToleratesMalformedMarkup(t *testing.T) {
	dir := writeFixtureSite(t, "<div class=\"tl-item\"><div class=\"tl-text\">Dangling entry", "not xml at all")

	snap := ReadSnapshot(dir)

	// goquery repairs what it can; the feed failure is recorded, not fatal
	if len(snap.Entries) != 1 || snap.Entries[0].Title != "Dangling entry" {
		t.Errorf("expected best-effort extraction of the dangling entry, got %+v", snap.Entries)
	}
	if len(snap.ReadErrors) != 1 {
		t.Errorf("expected one read error for the feed, got %v", snap.ReadErrors)
	}
}
