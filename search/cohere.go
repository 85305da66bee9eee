package search

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"electionwatch/config"
	"electionwatch/types"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"
	"github.com/cohere-ai/cohere-go/v2/core"
)

const webSearchConnector = "web-search"

// CohereConfig holds configuration for the Cohere-backed search client.
type CohereConfig struct {
	APIKey  string
	Model   string        // Default: config.DefaultModel
	Timeout time.Duration // Default: config.SearchTimeout
	Retries int           // Default: config.SearchRetries
}

// CohereClient implements Client using the Cohere Chat API with the
// web-search connector. One Query is one paid API call; retries are bounded
// to keep cost in check.
type CohereClient struct {
	client  *cohereclient.Client
	model   string
	timeout time.Duration
	retries int
}

// NewCohereClient creates a search client from config. The API key is required.
func NewCohereClient(cfg CohereConfig) (*CohereClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("cohere API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = config.DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = config.SearchTimeout
	}
	if cfg.Retries == 0 {
		cfg.Retries = config.SearchRetries
	}

	// Force HTTP/1.1 to avoid HTTP/2 protocol errors against the Cohere API
	httpClient := &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			TLSNextProto:      make(map[string]func(authority string, c *tls.Conn) http.RoundTripper),
			ForceAttemptHTTP2: false,
		},
	}

	client := cohereclient.NewClient(
		cohereclient.WithToken(cfg.APIKey),
		cohereclient.WithHTTPClient(httpClient),
	)

	return &CohereClient{
		client:  client,
		model:   cfg.Model,
		timeout: cfg.Timeout,
		retries: cfg.Retries,
	}, nil
}

// Query issues the scan prompt through Cohere chat with web search enabled.
// Transient failures (network, 429, 5xx) are retried at most c.retries times;
// anything else surfaces immediately as a run failure.
func (c *CohereClient) Query(ctx context.Context, sources []string, window Window) ([]types.Finding, error) {
	prompt := BuildPrompt(sources, window)

	var resp *cohere.NonStreamedChatResponse
	var err error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			log.Printf("Retrying search call (attempt %d/%d)", attempt+1, c.retries+1)
		}

		qctx, cancel := context.WithTimeout(ctx, c.timeout)
		resp, err = c.client.Chat(qctx, &cohere.ChatRequest{
			Message:     prompt,
			Model:       cohere.String(c.model),
			Temperature: cohere.Float64(0.2),
			Connectors:  []*cohere.ChatConnector{{Id: webSearchConnector}},
		})
		cancel()

		if err == nil {
			break
		}
		if !isTransient(err) {
			return nil, fmt.Errorf("search call failed: %w", err)
		}
		log.Printf("Warning: transient search error: %v", err)
	}
	if err != nil {
		return nil, fmt.Errorf("search call failed after %d attempt(s): %w", c.retries+1, err)
	}

	findings, summary, perr := ParseFindings(resp.Text)
	if perr != nil {
		// Unparseable model output is treated as an empty scan, not a run failure
		log.Printf("Warning: could not parse model response: %v", perr)
		return nil, nil
	}

	if summary != "" {
		log.Printf("Scan summary: %s", summary)
	}
	return findings, nil
}

// isTransient reports whether the error is worth one more attempt: API
// overload or server-side failure, or a transport error before any response.
func isTransient(err error) bool {
	var apiErr *core.APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= 500
	}
	// Context cancellation from the parent is not retryable
	if errors.Is(err, context.Canceled) {
		return false
	}
	return true
}
