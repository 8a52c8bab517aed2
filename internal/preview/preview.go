// internal/preview/preview.go

// Package preview renders the migrated corpus to throwaway HTML so
// conversion defects (broken fences, mangled lists, dead images) are
// visible in a browser before the content is handed to the real site
// generator. It is deliberately not a site renderer: one built-in
// layout, no themes.
package preview

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	"unpress/internal/content"
)

// Options control one preview build.
type Options struct {
	// Unsafe disables HTML sanitization of the rendered output.
	Unsafe bool
	// CleanDestination wipes the output directory first.
	CleanDestination bool
}

var (
	markdownRenderer = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Footnote),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithASTTransformers(
				util.Prioritized(newLocalLinkTransformer(), 100),
			),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)
	htmlSanitizer = bluemonday.UGCPolicy()
)

type pageData struct {
	Title    string
	Date     string
	Labels   []string
	BaseHref string
	Content  template.HTML
}

// Build renders every Markdown file under contentDir into outputDir,
// mirroring the directory layout. It returns the number of pages
// rendered.
func Build(outputDir, contentDir, staticDir string, opts Options) (int, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return 0, err
	}
	if opts.CleanDestination {
		entries, err := os.ReadDir(outputDir)
		if err != nil {
			return 0, err
		}
		for _, entry := range entries {
			if err := os.RemoveAll(filepath.Join(outputDir, entry.Name())); err != nil {
				return 0, err
			}
		}
	}

	tmpl, err := template.New("page").Parse(pageLayout)
	if err != nil {
		return 0, fmt.Errorf("parse built-in layout: %w", err)
	}

	pages := 0
	err = filepath.Walk(contentDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || filepath.Ext(info.Name()) != ".md" || info.Name() == "_index.md" {
			return nil
		}

		file, err := content.Read(path)
		if err != nil {
			return err
		}
		if file.Meta.Draft {
			return nil
		}

		relPath, err := filepath.Rel(contentDir, path)
		if err != nil {
			return err
		}
		outPath := filepath.Join(outputDir, strings.TrimSuffix(relPath, ".md")+".html")

		if err := renderPage(tmpl, outPath, file, relPath, opts); err != nil {
			return fmt.Errorf("render %s: %w", path, err)
		}
		pages++
		return nil
	})
	if err != nil {
		return 0, err
	}

	if staticDir != "" {
		if err := copyStatic(staticDir, outputDir); err != nil {
			return 0, err
		}
	}
	return pages, nil
}

func renderPage(tmpl *template.Template, outPath string, file content.File, relPath string, opts Options) error {
	var rendered bytes.Buffer
	if err := markdownRenderer.Convert([]byte(file.Body), &rendered); err != nil {
		return err
	}

	out := rendered.Bytes()
	if !opts.Unsafe {
		out = htmlSanitizer.SanitizeBytes(out)
	}

	title := file.Meta.Title
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(relPath), ".md")
	}

	data := pageData{
		Title:    title,
		Date:     file.Meta.Date,
		Labels:   append(file.Meta.Categories, file.Meta.Tags...),
		BaseHref: baseHref(relPath),
		Content:  template.HTML(out),
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return err
	}
	outFile, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer outFile.Close()
	return tmpl.Execute(outFile, data)
}

// baseHref makes asset links work for pages at any depth below the
// preview root.
func baseHref(relPath string) string {
	dir := filepath.Dir(relPath)
	if dir == "." {
		return ""
	}
	depth := strings.Count(dir, string(os.PathSeparator)) + 1
	return strings.Repeat("../", depth)
}

// copyStatic mirrors the static assets (the image mirror's output)
// into the preview so image references resolve.
func copyStatic(staticDir, outputDir string) error {
	return filepath.Walk(staticDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == staticDir {
				return filepath.SkipAll
			}
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(staticDir, path)
		if err != nil {
			return err
		}
		dest := filepath.Join(outputDir, rel)
		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(dest, data, 0644)
	})
}
