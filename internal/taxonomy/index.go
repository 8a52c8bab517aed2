// internal/taxonomy/index.go

// Package taxonomy collects category and tag labels across the
// migrated corpus into a deterministic index artifact.
package taxonomy

import (
	"regexp"
	"sort"
	"strings"

	slug "github.com/goliatone/go-slug"

	"unpress/internal/wordpress"
)

// Index maps each taxonomy label (in slug form) to the slugs of the
// posts carrying it, ordered by publish date.
type Index struct {
	Categories map[string][]string `yaml:"categories"`
	Tags       map[string][]string `yaml:"tags"`
}

// Build produces the index for a set of published posts. Callers are
// expected to have filtered drafts already. An empty input yields an
// empty (but non-nil) index.
func Build(posts []wordpress.Post) Index {
	idx := Index{
		Categories: make(map[string][]string),
		Tags:       make(map[string][]string),
	}

	ordered := make([]wordpress.Post, len(posts))
	copy(ordered, posts)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].PublishDate.Equal(ordered[j].PublishDate) {
			return ordered[i].PublishDate.Before(ordered[j].PublishDate)
		}
		return ordered[i].Slug < ordered[j].Slug
	})

	for _, post := range ordered {
		for _, label := range post.Categories {
			key := Slugify(label)
			idx.Categories[key] = appendUnique(idx.Categories[key], post.Slug)
		}
		for _, label := range post.Tags {
			key := Slugify(label)
			idx.Tags[key] = appendUnique(idx.Tags[key], post.Slug)
		}
	}

	return idx
}

// Labels returns the index keys of one axis sorted case-insensitively.
func Labels(axis map[string][]string) []string {
	keys := make([]string, 0, len(axis))
	for key := range axis {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := strings.ToLower(keys[i]), strings.ToLower(keys[j])
		if a != b {
			return a < b
		}
		return keys[i] < keys[j]
	})
	return keys
}

var fallbackStrip = regexp.MustCompile(`[^a-z0-9-]+`)

// Slugify converts a human label to its stable slug form.
func Slugify(label string) string {
	if normalized, err := slug.Normalize(label); err == nil && normalized != "" {
		return normalized
	}
	// Labels the normalizer rejects still need a stable key.
	s := strings.ToLower(strings.TrimSpace(label))
	s = strings.ReplaceAll(s, " ", "-")
	return fallbackStrip.ReplaceAllString(s, "")
}

func appendUnique(list []string, value string) []string {
	for _, v := range list {
		if v == value {
			return list
		}
	}
	return append(list, value)
}
