// Package dedup removes findings already covered by the published site.
package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"

	"electionwatch/types"
)

// HashFinding returns a SHA-256 hex hash over the finding's normalized
// headline and source URLs, used as the ticket-guard key.
func HashFinding(f types.Finding) string {
	parts := make([]string, 0, len(f.Sources)+1)
	parts = append(parts, NormalizeTitle(f.Headline))
	for _, s := range f.Sources {
		parts = append(parts, NormalizeURL(s.URL))
	}
	h := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(h[:])
}

// NormalizeTitle lowercases and collapses whitespace.
func NormalizeTitle(t string) string {
	t = strings.TrimSpace(t)
	t = strings.ToLower(t)
	fields := strings.Fields(t)
	return strings.Join(fields, " ")
}

// NormalizeURL canonicalizes a URL for matching: lowercase scheme/host,
// fragment removed, common tracking query parameters (utm_*, fbclid, gclid)
// stripped, trailing slash trimmed.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		// fallback: lowercase and trim
		return strings.ToLower(raw)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	q := u.Query()
	for k := range q {
		lk := strings.ToLower(k)
		if strings.HasPrefix(lk, "utm_") || lk == "fbclid" || lk == "gclid" {
			q.Del(k)
		}
	}
	u.RawQuery = q.Encode()

	out := u.String()
	if strings.HasSuffix(out, "/") {
		out = strings.TrimRight(out, "/")
	}
	return out
}
