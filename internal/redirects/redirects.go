// internal/redirects/redirects.go

// Package redirects derives old-URL to new-URL pairs so permalinks of
// the WordPress site keep resolving after the migration.
package redirects

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"unpress/internal/wordpress"
)

// Entry maps one original permalink path to its migrated location.
type Entry struct {
	OldPath string
	NewPath string
}

// Build produces one entry per published post, ordered by publish
// date. Posts without a derivable old path are skipped with a warning;
// duplicate old paths keep the first entry and warn about the rest.
func Build(posts []wordpress.Post, blogDir string) ([]Entry, []string) {
	ordered := make([]wordpress.Post, len(posts))
	copy(ordered, posts)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].PublishDate.Equal(ordered[j].PublishDate) {
			return ordered[i].PublishDate.Before(ordered[j].PublishDate)
		}
		return ordered[i].Slug < ordered[j].Slug
	})

	var entries []Entry
	var warnings []string
	seen := make(map[string]string)

	for _, post := range ordered {
		oldPath := oldPathFor(post)
		if oldPath == "" {
			warnings = append(warnings, fmt.Sprintf("%s: no derivable redirect source", post.Title))
			continue
		}
		if firstSlug, dup := seen[oldPath]; dup {
			warnings = append(warnings, fmt.Sprintf("%s: redirect source %s already claimed by %s", post.Slug, oldPath, firstSlug))
			continue
		}
		seen[oldPath] = post.Slug

		entries = append(entries, Entry{
			OldPath: oldPath,
			NewPath: "/" + blogDir + "/" + post.FileStem() + "/",
		})
	}

	return entries, warnings
}

// oldPathFor recovers the permalink path. The export link is
// authoritative; the slug serves as fallback when the link is a bare
// query-style URL (?p=123) or missing.
func oldPathFor(post wordpress.Post) string {
	if post.Link != "" {
		if u, err := url.Parse(post.Link); err == nil {
			path := strings.TrimSuffix(u.Path, "/")
			if path != "" && u.RawQuery == "" {
				return path
			}
		}
	}
	if post.Slug != "" {
		return "/" + post.Slug
	}
	return ""
}

// ToMap renders the entries as an old-to-new mapping for the redirect
// artifact.
func ToMap(entries []Entry) map[string]string {
	m := make(map[string]string, len(entries))
	for _, e := range entries {
		m[e.OldPath] = e.NewPath
	}
	return m
}
