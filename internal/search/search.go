package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/darkstrike03/nyx/internal/config"
)

// Result is one hit from the web search provider.
type Result struct {
	Title   string `json:"name"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Client queries the LangSearch web search API. Without an API key it
// degrades to returning no results rather than failing the chat turn.
type Client interface {
	Search(ctx context.Context, query string) ([]Result, error)
}

type client struct {
	apiKey     string
	endpoint   string
	limit      int
	httpClient *http.Client
}

func NewClient(cfg *config.Config) Client {
	limit := cfg.Search.Limit
	if limit <= 0 {
		limit = 5
	}
	return &client{
		apiKey:     cfg.Search.APIKey,
		endpoint:   cfg.Search.Endpoint,
		limit:      limit,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *client) Search(ctx context.Context, query string) ([]Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("empty query")
	}
	if strings.TrimSpace(c.apiKey) == "" {
		log.Printf("[search] no api key configured, skipping web search")
		return nil, nil
	}

	payload, err := json.Marshal(map[string]any{
		"query": query,
		"count": c.limit,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("search http %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var decoded struct {
		Data struct {
			WebPages struct {
				Value []Result `json:"value"`
			} `json:"webPages"`
		} `json:"data"`
	}
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return decoded.Data.WebPages.Value, nil
}

// FormatResults renders hits as a compact reply block.
func FormatResults(results []Result) string {
	if len(results) == 0 {
		return "No results found."
	}
	var b strings.Builder
	for i, r := range results {
		fmt.Fprintf(&b, "%d. %s\n%s\n%s\n", i+1, r.Title, r.Snippet, r.URL)
		if i < len(results)-1 {
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
