package sitestate

import (
	"fmt"
	"os"
	"time"

	"electionwatch/types"

	"github.com/mmcdole/gofeed"
)

// readFeedEntries parses the published RSS feed into entries and returns the
// feed's last build time, which drives the search window for the next scan.
func readFeedEntries(path string) ([]types.PublishedEntry, time.Time, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, time.Time{}, err
	}
	defer f.Close()

	parser := gofeed.NewParser()
	feed, err := parser.Parse(f)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to parse feed: %w", err)
	}

	entries := make([]types.PublishedEntry, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item.Title == "" && item.Link == "" {
			continue
		}
		entries = append(entries, types.PublishedEntry{
			Title: item.Title,
			URL:   item.Link,
		})
	}

	var lastUpdated time.Time
	if feed.UpdatedParsed != nil {
		lastUpdated = *feed.UpdatedParsed
	} else if feed.PublishedParsed != nil {
		lastUpdated = *feed.PublishedParsed
	}

	return entries, lastUpdated, nil
}
