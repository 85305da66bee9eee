package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Search Constants
const (
	// DefaultModel is the Cohere chat model used for web-search scans
	DefaultModel = "command-r-plus"

	// DefaultLookback is the search window when the published state carries no
	// usable last-updated timestamp
	DefaultLookback = 24 * time.Hour

	// SearchTimeout bounds the single search call (the most expensive and most
	// failure-prone step of a run)
	SearchTimeout = 90 * time.Second

	// SearchRetries is the number of retries after a transient search failure
	SearchRetries = 1
)

// Ticket Constants
const (
	// TicketTimeout bounds each issue-tracker API call
	TicketTimeout = 30 * time.Second

	// TicketRetries is the number of retries after a transient tracker failure
	TicketRetries = 1

	// LabelScan marks every issue opened by the monitor
	LabelScan = "automated-scan"

	// LabelReview marks issues that carry findings awaiting human approval
	LabelReview = "needs-review"

	// LabelNoUpdates marks heartbeat issues opened on empty Monday scans
	LabelNoUpdates = "no-updates"
)

// Published Site Constants
const (
	// IndexFile is the site document the published-state reader parses
	IndexFile = "index.html"

	// FeedFile is the RSS feed read alongside the index document
	FeedFile = "feed.xml"
)

// DefaultTrustedSources lists the domains the scan asks the model to draw
// corroboration from.
var DefaultTrustedSources = []string{
	"brennancenter.org",
	"justice.gov",
	"votebeat.org",
	"democracydocket.com",
	"npr.org",
	"apnews.com",
	"reuters.com",
	"electionline.org",
}

// Config holds the run configuration resolved from the environment.
type Config struct {
	// SiteDir is the checked-out location of the published site
	SiteDir string

	// TrustedSources are the domains offered to the search client
	TrustedSources []string

	CohereAPIKey string
	Model        string

	GitHubToken string
	GitHubRepo  string // owner/repo

	// VerifySources enables the pre-classification source liveness check
	VerifySources bool

	// WeeklyHeartbeat opens a "no updates" issue on empty Monday scans
	WeeklyHeartbeat bool

	// RedisAddr enables the duplicate-ticket guard when set
	RedisAddr string
	RedisPass string

	// KafkaBrokers enables run-summary events when set
	KafkaBrokers []string
	KafkaTopic   string

	// S3Bucket enables run archiving when set
	S3Bucket string
	S3Region string
	S3Prefix string
}

// Load resolves configuration from environment variables. Secrets are carried
// but never logged.
func Load() Config {
	cfg := Config{
		SiteDir:         GetEnvOrDefault("SITE_DIR", "."),
		TrustedSources:  DefaultTrustedSources,
		CohereAPIKey:    os.Getenv("COHERE_API_KEY"),
		Model:           GetEnvOrDefault("SCAN_MODEL", DefaultModel),
		GitHubToken:     os.Getenv("GITHUB_TOKEN"),
		GitHubRepo:      os.Getenv("GITHUB_REPOSITORY"),
		VerifySources:   GetEnvBool("VERIFY_SOURCES", false),
		WeeklyHeartbeat: GetEnvBool("WEEKLY_HEARTBEAT", true),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisPass:       os.Getenv("REDIS_PASS"),
		S3Bucket:        strings.TrimSpace(os.Getenv("S3_BUCKET")),
		S3Region:        strings.TrimSpace(os.Getenv("S3_REGION")),
		S3Prefix:        strings.TrimSpace(os.Getenv("S3_PREFIX")),
		KafkaTopic:      GetEnvOrDefault("KAFKA_TOPIC", "scan-events"),
	}

	if sources := os.Getenv("TRUSTED_SOURCES"); sources != "" {
		cfg.TrustedSources = splitAndTrim(sources)
	}
	if brokers := os.Getenv("KAFKA_BOOTSTRAP_SERVERS"); brokers != "" {
		cfg.KafkaBrokers = splitAndTrim(brokers)
	}
	if cfg.S3Prefix != "" {
		cfg.S3Prefix = strings.Trim(cfg.S3Prefix, "/") + "/"
	}

	return cfg
}

// GetEnvOrDefault returns the value of an environment variable or a default value
func GetEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// GetEnvBool parses a boolean environment variable, falling back on the default
func GetEnvBool(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return parsed
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
