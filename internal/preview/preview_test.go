package preview

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
}

const previewDoc = `---
title: Post A
date: "2021-07-08"
slug: post-a
categories:
    - python
draft: false
---

## Section

Hello **world**.

` + "```python\nprint(\"hi\")\n```\n"

func TestBuildRendersPosts(t *testing.T) {
	dir := t.TempDir()
	contentDir := filepath.Join(dir, "content")
	outputDir := filepath.Join(dir, "preview")
	writeFile(t, filepath.Join(contentDir, "blog", "2021-07-08-post-a.md"), previewDoc)
	writeFile(t, filepath.Join(contentDir, "blog", "_index.md"), "---\ntitle: Blog\n---\n")

	pages, err := Build(outputDir, contentDir, "", Options{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if pages != 1 {
		t.Errorf("pages = %d, want 1 (_index.md excluded)", pages)
	}

	data, err := os.ReadFile(filepath.Join(outputDir, "blog", "2021-07-08-post-a.html"))
	if err != nil {
		t.Fatalf("rendered page missing: %v", err)
	}
	html := string(data)

	for _, want := range []string{"<h1>Post A</h1>", "Section", "<strong>world</strong>", "print("} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered page missing %q:\n%s", want, html)
		}
	}
	if !strings.Contains(html, `<base href="../">`) {
		t.Errorf("nested page should carry base href:\n%s", html)
	}
}

func TestBuildSkipsDrafts(t *testing.T) {
	dir := t.TempDir()
	contentDir := filepath.Join(dir, "content")
	writeFile(t, filepath.Join(contentDir, "draft.md"), "---\ntitle: D\ndraft: true\n---\n\nhidden\n")

	pages, err := Build(filepath.Join(dir, "preview"), contentDir, "", Options{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if pages != 0 {
		t.Errorf("pages = %d, want 0", pages)
	}
}

func TestBuildSanitizesByDefault(t *testing.T) {
	dir := t.TempDir()
	contentDir := filepath.Join(dir, "content")
	writeFile(t, filepath.Join(contentDir, "post.md"),
		"---\ntitle: P\ndraft: false\n---\n\n<script>alert(1)</script>\n\ntext\n")

	if _, err := Build(filepath.Join(dir, "preview"), contentDir, "", Options{}); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(filepath.Join(dir, "preview", "post.html"))
	if strings.Contains(string(data), "<script>") {
		t.Errorf("script should be sanitized away:\n%s", data)
	}
}

func TestBuildCopiesStaticAssets(t *testing.T) {
	dir := t.TempDir()
	contentDir := filepath.Join(dir, "content")
	staticDir := filepath.Join(dir, "static")
	writeFile(t, filepath.Join(contentDir, "post.md"), "---\ntitle: P\ndraft: false\n---\n\nbody\n")
	writeFile(t, filepath.Join(staticDir, "wp-content", "uploads", "a.png"), "img")

	if _, err := Build(filepath.Join(dir, "preview"), contentDir, staticDir, Options{}); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "preview", "wp-content", "uploads", "a.png")); err != nil {
		t.Errorf("static asset not copied: %v", err)
	}
}
