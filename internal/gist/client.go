// internal/gist/client.go

// Package gist fetches externally hosted code snippets and inlines
// them into migrated Markdown as fenced code blocks.
package gist

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"
)

// Snippet is one file of a fetched gist.
type Snippet struct {
	Filename string
	Language string
	Content  string
}

// Fetcher resolves a gist id to its snippets. The production
// implementation talks to the GitHub API; tests substitute their own.
type Fetcher interface {
	Fetch(ctx context.Context, id string) ([]Snippet, error)
}

// Client fetches gists from the GitHub REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a GitHub gist API client.
func NewClient() *Client {
	return &Client{
		baseURL: "https://api.github.com/gists/",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type gistResponse struct {
	Files map[string]struct {
		Filename string `json:"filename"`
		Language string `json:"language"`
		Content  string `json:"content"`
	} `json:"files"`
}

// Fetch retrieves one gist. Every file of the gist becomes a snippet;
// files are ordered by name so the substitution is deterministic.
func (c *Client) Fetch(ctx context.Context, id string) ([]Snippet, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+id, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch gist %s: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch gist %s: unexpected status %d", id, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read gist %s: %w", id, err)
	}

	var parsed gistResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal gist %s: %w", id, err)
	}

	var snippets []Snippet
	for _, file := range parsed.Files {
		if file.Content == "" {
			continue
		}
		snippets = append(snippets, Snippet{
			Filename: file.Filename,
			Language: strings.ToLower(file.Language),
			Content:  file.Content,
		})
	}
	if len(snippets) == 0 {
		return nil, fmt.Errorf("gist %s contains no code", id)
	}

	sort.Slice(snippets, func(i, j int) bool {
		return snippets[i].Filename < snippets[j].Filename
	})
	return snippets, nil
}
