package gist

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type fakeFetcher struct {
	calls    map[string]int
	snippets map[string][]Snippet
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		calls:    make(map[string]int),
		snippets: make(map[string][]Snippet),
	}
}

func (f *fakeFetcher) Fetch(_ context.Context, id string) ([]Snippet, error) {
	f.calls[id]++
	snippets, ok := f.snippets[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return snippets, nil
}

func TestInlineReplacesGistLink(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.snippets["abc123"] = []Snippet{
		{Filename: "demo.py", Language: "python", Content: "print(\"hi\")"},
	}
	il := NewInliner(fetcher, "someone")

	got, warnings := il.Inline(context.Background(),
		"Look at https://gist.github.com/someone/abc123 for details.")

	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if strings.Contains(got, "gist.github.com") {
		t.Errorf("gist link not replaced: %q", got)
	}
	want := "```python\nprint(\"hi\")\n```\n"
	if !strings.Contains(got, want) {
		t.Errorf("fenced block missing, got %q", got)
	}
}

func TestInlineRoundTripsContentExactly(t *testing.T) {
	content := "fn main() {\n    let mut x = 0;\n    x += 1;\n}"
	fetcher := newFakeFetcher()
	fetcher.snippets["deadbeef"] = []Snippet{
		{Filename: "main.rs", Language: "rust", Content: content},
	}
	il := NewInliner(fetcher, "")

	got, _ := il.Inline(context.Background(), "https://gist.github.com/anyone/deadbeef")

	if !strings.Contains(got, "```rust\n"+content+"\n```") {
		t.Errorf("content not preserved exactly:\n%s", got)
	}
}

func TestInlineFetchesEachGistOnce(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.snippets["abc123"] = []Snippet{{Filename: "a.sh", Language: "bash", Content: "ls"}}
	il := NewInliner(fetcher, "someone")

	input := "first https://gist.github.com/someone/abc123 then " +
		"again https://gist.github.com/someone/abc123"
	il.Inline(context.Background(), input)
	// A second document in the same run hits the cache too.
	il.Inline(context.Background(), "https://gist.github.com/someone/abc123")

	if fetcher.calls["abc123"] != 1 {
		t.Errorf("gist fetched %d times, want 1", fetcher.calls["abc123"])
	}
}

func TestInlineFailureLeavesLinkAndWarnsOnce(t *testing.T) {
	il := NewInliner(newFakeFetcher(), "someone")

	input := "see https://gist.github.com/someone/ffff00 twice: https://gist.github.com/someone/ffff00"
	got, warnings := il.Inline(context.Background(), input)

	if got != input {
		t.Errorf("failed fetch must leave content untouched:\n got %q\nwant %q", got, input)
	}
	if len(warnings) != 1 {
		t.Errorf("got %d warnings, want 1: %v", len(warnings), warnings)
	}
}

func TestInlineFailureCachedAcrossDocuments(t *testing.T) {
	fetcher := newFakeFetcher()
	il := NewInliner(fetcher, "")

	il.Inline(context.Background(), "https://gist.github.com/x/aaaa11")
	il.Inline(context.Background(), "https://gist.github.com/x/aaaa11")

	if fetcher.calls["aaaa11"] != 1 {
		t.Errorf("failed gist fetched %d times, want 1 attempt per run", fetcher.calls["aaaa11"])
	}
}

func TestInlineIgnoresOtherOwners(t *testing.T) {
	fetcher := newFakeFetcher()
	il := NewInliner(fetcher, "someone")

	input := "https://gist.github.com/stranger/abc123"
	got, warnings := il.Inline(context.Background(), input)

	if got != input || len(warnings) != 0 {
		t.Errorf("foreign gist link should be ignored, got %q warnings %v", got, warnings)
	}
	if len(fetcher.calls) != 0 {
		t.Errorf("foreign gist should not be fetched")
	}
}

func TestClientFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/abc123" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `{"files": {
			"b.py": {"filename": "b.py", "language": "Python", "content": "import os"},
			"a.sh": {"filename": "a.sh", "language": "Shell", "content": "ls -la"}
		}}`)
	}))
	defer server.Close()

	client := NewClient()
	client.baseURL = server.URL + "/"

	snippets, err := client.Fetch(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(snippets) != 2 {
		t.Fatalf("got %d snippets, want 2", len(snippets))
	}
	// Ordered by filename for deterministic output.
	if snippets[0].Filename != "a.sh" || snippets[1].Filename != "b.py" {
		t.Errorf("snippets out of order: %v", snippets)
	}
	if snippets[1].Language != "python" {
		t.Errorf("language should be lowercased, got %q", snippets[1].Language)
	}
}

func TestClientFetchNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient()
	client.baseURL = server.URL + "/"

	if _, err := client.Fetch(context.Background(), "abc123"); err == nil {
		t.Fatal("Fetch should fail on non-200 status")
	}
}
