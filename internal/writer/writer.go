// internal/writer/writer.go

// Package writer persists the migration output: one Markdown file per
// published post or page, a section index, and the whole-corpus
// redirect and taxonomy artifacts.
package writer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"unpress/internal/redirects"
	"unpress/internal/taxonomy"
	"unpress/internal/wordpress"
)

// Writer serializes migrated content under ContentDir. With DryRun set
// it computes paths and documents but touches nothing on disk.
type Writer struct {
	ContentDir string
	BlogDir    string
	DryRun     bool
}

// WritePost writes one published post to <content>/<blog>/<date>-<slug>.md
// and returns the path. Draft records are refused outright; the
// pipeline filters them, this is the last line of defense.
func (w *Writer) WritePost(post wordpress.Post) (string, error) {
	if post.Status != wordpress.StatusPublished {
		return "", fmt.Errorf("refusing to write draft %q", post.Slug)
	}
	path := filepath.Join(w.ContentDir, w.BlogDir, post.FileStem()+".md")
	return path, w.writeDocument(path, post)
}

// WritePage writes a published page to <content>/<slug>.md, undated.
func (w *Writer) WritePage(page wordpress.Post) (string, error) {
	if page.Status != wordpress.StatusPublished {
		return "", fmt.Errorf("refusing to write draft %q", page.Slug)
	}
	path := filepath.Join(w.ContentDir, page.Slug+".md")
	return path, w.writeDocument(path, page)
}

func (w *Writer) writeDocument(path string, post wordpress.Post) error {
	doc, err := renderDocument(post)
	if err != nil {
		return err
	}
	if w.DryRun {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, doc, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// WriteSectionIndex writes the _index.md section page for the blog
// directory so the target site generator treats it as a section.
func (w *Writer) WriteSectionIndex(title string) error {
	if w.DryRun {
		return nil
	}
	if title == "" {
		title = "Blog"
	}
	path := filepath.Join(w.ContentDir, w.BlogDir, "_index.md")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create blog directory: %w", err)
	}
	meta, err := yaml.Marshal(struct {
		Title  string `yaml:"title"`
		SortBy string `yaml:"sort_by"`
	}{Title: title, SortBy: "date"})
	if err != nil {
		return fmt.Errorf("marshal section index: %w", err)
	}
	doc := "---\n" + string(meta) + "---\n"
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		return fmt.Errorf("write section index: %w", err)
	}
	return nil
}

// WriteRedirects writes the redirect map artifact as a JSON object of
// old path to new path, sorted by key.
func (w *Writer) WriteRedirects(path string, entries []redirects.Entry) error {
	if w.DryRun {
		return nil
	}
	data, err := json.MarshalIndent(redirects.ToMap(entries), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal redirect map: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write redirect map %s: %w", path, err)
	}
	return nil
}

// WriteTaxonomy writes the taxonomy index artifact as YAML.
func (w *Writer) WriteTaxonomy(path string, idx taxonomy.Index) error {
	if w.DryRun {
		return nil
	}
	data, err := yaml.Marshal(idx)
	if err != nil {
		return fmt.Errorf("marshal taxonomy index: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write taxonomy index %s: %w", path, err)
	}
	return nil
}
