// internal/writer/frontmatter.go
package writer

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"unpress/internal/taxonomy"
	"unpress/internal/wordpress"
)

type frontMatter struct {
	Title       string   `yaml:"title"`
	Date        string   `yaml:"date,omitempty"`
	Slug        string   `yaml:"slug"`
	Description string   `yaml:"description,omitempty"`
	Categories  []string `yaml:"categories,omitempty"`
	Tags        []string `yaml:"tags,omitempty"`
	Draft       bool     `yaml:"draft"`
}

// renderDocument serializes a migrated post: YAML front matter between
// --- fences, a blank line, the Markdown body, and a trailing newline.
// The output is byte-identical across runs for the same post.
func renderDocument(post wordpress.Post) ([]byte, error) {
	fm := frontMatter{
		Title:       post.Title,
		Date:        post.DateString(),
		Slug:        post.Slug,
		Description: post.Excerpt,
		Categories:  slugifyAll(post.Categories),
		Tags:        slugifyAll(post.Tags),
	}

	meta, err := yaml.Marshal(fm)
	if err != nil {
		return nil, fmt.Errorf("marshal front matter for %s: %w", post.Slug, err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(meta)
	buf.WriteString("---\n\n")
	buf.WriteString(strings.TrimRight(post.Markdown, "\n"))
	buf.WriteString("\n")
	return buf.Bytes(), nil
}

func slugifyAll(labels []string) []string {
	if len(labels) == 0 {
		return nil
	}
	out := make([]string, 0, len(labels))
	for _, label := range labels {
		out = append(out, taxonomy.Slugify(label))
	}
	return out
}
