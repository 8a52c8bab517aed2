// internal/gist/inline.go
package gist

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Inliner replaces gist links in Markdown with fenced code blocks. It
// caches fetch results, including failures, so each unique gist id
// costs at most one request per run.
type Inliner struct {
	fetcher Fetcher
	pattern *regexp.Regexp
	cache   map[string]cached
}

type cached struct {
	snippets []Snippet
	err      error
}

// NewInliner builds an Inliner. owner restricts matching to gists of a
// single user; leave it empty to match any owner.
func NewInliner(fetcher Fetcher, owner string) *Inliner {
	user := `[\w-]+`
	if owner != "" {
		user = regexp.QuoteMeta(owner)
	}
	return &Inliner{
		fetcher: fetcher,
		pattern: regexp.MustCompile(`https://gist\.github\.com/` + user + `/([a-f0-9]+)`),
		cache:   make(map[string]cached),
	}
}

// Inline rewrites every known gist link in markdown. Links whose fetch
// fails are left exactly as they were; each failure produces one
// warning per unique gist id.
func (il *Inliner) Inline(ctx context.Context, markdown string) (string, []string) {
	var warnings []string
	seenFailed := make(map[string]bool)

	for _, match := range il.pattern.FindAllStringSubmatch(markdown, -1) {
		url, id := match[0], match[1]

		entry := il.resolve(ctx, id)
		if entry.err != nil {
			if !seenFailed[id] {
				warnings = append(warnings, fmt.Sprintf("gist %s left unresolved: %v", id, entry.err))
				seenFailed[id] = true
			}
			continue
		}

		markdown = strings.ReplaceAll(markdown, url, renderSnippets(entry.snippets))
	}

	return markdown, warnings
}

func (il *Inliner) resolve(ctx context.Context, id string) cached {
	if entry, ok := il.cache[id]; ok {
		return entry
	}
	snippets, err := il.fetcher.Fetch(ctx, id)
	entry := cached{snippets: snippets, err: err}
	il.cache[id] = entry
	return entry
}

// renderSnippets emits one fenced block per gist file, content
// byte-for-byte as fetched.
func renderSnippets(snippets []Snippet) string {
	var blocks []string
	for _, s := range snippets {
		content := strings.TrimSuffix(s.Content, "\n")
		blocks = append(blocks, "```"+s.Language+"\n"+content+"\n```\n")
	}
	return strings.Join(blocks, "\n")
}
