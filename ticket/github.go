package ticket

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"electionwatch/config"

	"golang.org/x/oauth2"
)

// Issue identifies a created tracker ticket.
type Issue struct {
	Number int    `json:"number"`
	URL    string `json:"html_url"`
}

// Publisher is the issue-tracker boundary. The production implementation
// talks to GitHub; tests and credential-less local runs swap in alternatives.
type Publisher interface {
	CreateIssue(ctx context.Context, title, body string, labels []string) (*Issue, error)
}

// GitHubConfig holds configuration for the GitHub issue publisher.
type GitHubConfig struct {
	Token   string
	Repo    string // owner/repo
	BaseURL string // Default: https://api.github.com
	Timeout time.Duration
	Retries int
}

// GitHubPublisher creates issues through the GitHub REST API.
type GitHubPublisher struct {
	baseURL    string
	repo       string
	httpClient *http.Client
	retries    int
}

// NewGitHubPublisher builds a publisher with an oauth2 token transport.
func NewGitHubPublisher(cfg GitHubConfig) (*GitHubPublisher, error) {
	if cfg.Token == "" || cfg.Repo == "" {
		return nil, fmt.Errorf("github token and repository are required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.github.com"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = config.TicketTimeout
	}
	if cfg.Retries == 0 {
		cfg.Retries = config.TicketRetries
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
	httpClient := oauth2.NewClient(context.Background(), ts)
	httpClient.Timeout = cfg.Timeout

	return &GitHubPublisher{
		baseURL:    cfg.BaseURL,
		repo:       cfg.Repo,
		httpClient: httpClient,
		retries:    cfg.Retries,
	}, nil
}

type createIssueRequest struct {
	Title  string   `json:"title"`
	Body   string   `json:"body"`
	Labels []string `json:"labels,omitempty"`
}

// CreateIssue opens one issue and returns its number and URL. Transient
// failures (network, 5xx) get one bounded retry; a failure after that is
// fatal to the run.
func (p *GitHubPublisher) CreateIssue(ctx context.Context, title, body string, labels []string) (*Issue, error) {
	payload := createIssueRequest{Title: title, Body: body, Labels: labels}

	var issue Issue
	var err error
	for attempt := 0; attempt <= p.retries; attempt++ {
		if attempt > 0 {
			log.Printf("Retrying issue creation (attempt %d/%d)", attempt+1, p.retries+1)
		}

		var retryable bool
		retryable, err = p.doJSONRequest(ctx, http.MethodPost,
			fmt.Sprintf("/repos/%s/issues", p.repo), payload, &issue)
		if err == nil {
			log.Printf("Created issue #%d: %s", issue.Number, issue.URL)
			return &issue, nil
		}
		if !retryable {
			return nil, err
		}
		log.Printf("Warning: transient issue tracker error: %v", err)
	}

	return nil, fmt.Errorf("issue creation failed after %d attempt(s): %w", p.retries+1, err)
}

// doJSONRequest performs a JSON request against the GitHub API and decodes
// the response into result when non-nil. The bool return reports whether the
// failure is worth retrying.
func (p *GitHubPublisher) doJSONRequest(ctx context.Context, method, path string, payload, result interface{}) (bool, error) {
	var reqBody io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return false, fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, reqBody)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return true, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		bodyBytes, _ := io.ReadAll(resp.Body)
		retryable := resp.StatusCode >= 500
		return retryable, fmt.Errorf("github API returned %d: %s", resp.StatusCode, string(bodyBytes))
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return false, fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return false, nil
}

// LogPublisher prints the would-be issue to the log instead of filing it.
// Used when tracker credentials are absent, e.g. local dry runs.
type LogPublisher struct{}

func (LogPublisher) CreateIssue(_ context.Context, title, body string, labels []string) (*Issue, error) {
	log.Println("Missing GITHUB_TOKEN or GITHUB_REPOSITORY — printing issue locally instead.")
	log.Println("============================================================")
	log.Printf("ISSUE: %s", title)
	log.Printf("LABELS: %v", labels)
	log.Println("============================================================")
	log.Println(body)
	return nil, nil
}
