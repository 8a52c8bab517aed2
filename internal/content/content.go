// internal/content/content.go

// Package content reads migrated Markdown files back from disk. The
// standalone passes (gists, codeblocks, images) and the preview build
// operate on these instead of on the export document.
package content

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
)

// Meta is the front matter of a migrated file.
type Meta struct {
	Title       string   `yaml:"title"`
	Date        string   `yaml:"date"`
	Slug        string   `yaml:"slug"`
	Description string   `yaml:"description"`
	Categories  []string `yaml:"categories"`
	Tags        []string `yaml:"tags"`
	Draft       bool     `yaml:"draft"`
}

// PublishDate parses the front-matter date, zero when absent or
// malformed.
func (m Meta) PublishDate() time.Time {
	if m.Date == "" {
		return time.Time{}
	}
	t, _ := time.Parse("2006-01-02", m.Date)
	return t
}

// File is one content file. Raw holds the full bytes including front
// matter; in-place passes string-replace on Raw and write it back so
// the front matter stays byte-identical.
type File struct {
	Path string
	Meta Meta
	Body string
	Raw  []byte
}

// Read loads and parses one Markdown file.
func Read(path string) (File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read %s: %w", path, err)
	}

	var meta Meta
	body, err := frontmatter.Parse(bytes.NewReader(raw), &meta)
	if err != nil {
		return File{}, fmt.Errorf("parse front matter of %s: %w", path, err)
	}

	return File{
		Path: path,
		Meta: meta,
		Body: string(body),
		Raw:  raw,
	}, nil
}

// ReadDir loads every Markdown file directly under dir, except the
// _index.md section page, sorted by file name.
func ReadDir(dir string) ([]File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read content directory %s: %w", dir, err)
	}

	var files []File
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") || entry.Name() == "_index.md" {
			continue
		}
		file, err := Read(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// WriteRaw persists updated raw bytes back to the file's path.
func (f File) WriteRaw(updated []byte) error {
	if err := os.WriteFile(f.Path, updated, 0644); err != nil {
		return fmt.Errorf("write %s: %w", f.Path, err)
	}
	return nil
}
