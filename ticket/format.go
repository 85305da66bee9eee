// Package ticket formats scan findings and files them with the issue tracker
// for human review.
package ticket

import (
	"fmt"
	"strings"
	"time"

	"electionwatch/types"
	"electionwatch/verify"
)

// BuildTitle renders the issue title with a count summary.
func BuildTitle(count int, now time.Time) string {
	return fmt.Sprintf("🔔 %d election update(s) found — %s", count, now.UTC().Format("Jan 02, 2006"))
}

// BuildHeartbeatTitle renders the weekly "no updates" issue title.
func BuildHeartbeatTitle(now time.Time) string {
	return fmt.Sprintf("Weekly scan: No updates found — %s", now.UTC().Format("Jan 02, 2006"))
}

// BuildBody renders the full markdown issue body: one section per finding
// with confidence, affected states, and sources, plus the reviewer
// instructions footer. All findings go into a single issue per run.
func BuildBody(findings []types.Finding, sources []string, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Automated Election Update Scan — %s\n\n", now.UTC().Format("2006-01-02 15:04 UTC"))

	if len(findings) == 0 {
		b.WriteString("### No new verified developments found.\n\n")
		writeScanFooter(&b, sources)
		return b.String()
	}

	fmt.Fprintf(&b, "### %d Update(s) Found\n\n", len(findings))

	for i, f := range findings {
		marker := "🟡"
		if f.Confidence == types.ConfidenceHigh {
			marker = "🟢"
		}

		b.WriteString("---\n\n")
		fmt.Fprintf(&b, "#### %d. %s\n\n", i+1, f.Headline)
		if f.Date != "" {
			fmt.Fprintf(&b, "**Date:** %s  \n", f.Date)
		}
		fmt.Fprintf(&b, "**Confidence:** %s %s (%d independent sources)  \n",
			marker, f.Confidence, verify.IndependentSources(f))
		if f.Category != "" {
			fmt.Fprintf(&b, "**Category:** %s  \n", f.Category)
		}
		if len(f.States) > 0 {
			fmt.Fprintf(&b, "**Affected states:** %s  \n", strings.Join(f.States, ", "))
		}
		fmt.Fprintf(&b, "\n%s\n\n", f.Summary)

		b.WriteString("**Sources:**\n")
		for _, s := range f.Sources {
			name := s.Name
			if name == "" {
				name = "Source"
			}
			fmt.Fprintf(&b, "- [%s](%s)\n", name, s.URL)
		}
		b.WriteString("\n")
	}

	b.WriteString("---\n\n")
	b.WriteString("### What to do next\n\n")
	b.WriteString("If these updates are accurate and should be added to the site:\n")
	b.WriteString("1. Verify each finding against its sources\n")
	b.WriteString("2. Comment `approved` on this issue to queue the site update\n")
	b.WriteString("3. If any finding looks wrong, comment with corrections before approving\n\n")
	b.WriteString("---\n")
	b.WriteString("*Automated scan. All findings require human approval before going live.*\n")

	return b.String()
}

func writeScanFooter(b *strings.Builder, sources []string) {
	b.WriteString("---\n")
	fmt.Fprintf(b, "*This scan checked %s.*\n", strings.Join(sources, ", "))
}
