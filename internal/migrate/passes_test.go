package migrate

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"unpress/internal/gist"
)

func writeContent(t *testing.T, dir, name, body string) string {
	t.Helper()
	doc := "---\ntitle: " + name + "\nslug: " + strings.TrimSuffix(name, ".md") +
		"\ntags:\n    - python\ndraft: false\n---\n\n" + body
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestInlineGistsPass(t *testing.T) {
	dir := t.TempDir()
	path := writeContent(t, dir, "post.md", "https://gist.github.com/someone/abc123\n")
	writeContent(t, dir, "plain.md", "no gists here\n")

	fetcher := &fakeFetcher{snippets: map[string][]gist.Snippet{
		"abc123": {{Filename: "x.py", Language: "python", Content: "import os"}},
	}}

	summary, err := InlineGistsPass(context.Background(), dir, "someone", fetcher, false)
	if err != nil {
		t.Fatalf("pass failed: %v", err)
	}
	if summary.Files != 2 || summary.Updated != 1 {
		t.Errorf("summary = %+v", summary)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "```python\nimport os\n```") {
		t.Errorf("gist not inlined:\n%s", data)
	}
	// Front matter untouched.
	if !strings.HasPrefix(string(data), "---\ntitle: post.md\n") {
		t.Errorf("front matter altered:\n%s", data)
	}
}

func TestRewriteBlocksPass(t *testing.T) {
	dir := t.TempDir()
	path := writeContent(t, dir, "post.md", "[code]\nweird_statement\n[/code]\n")

	summary, err := RewriteBlocksPass(dir, "", false)
	if err != nil {
		t.Fatalf("pass failed: %v", err)
	}
	if summary.Updated != 1 || summary.Blocks != 1 {
		t.Errorf("summary = %+v", summary)
	}

	data, _ := os.ReadFile(path)
	// No content fingerprint matches, so the python tag comes from the
	// file's front-matter tags.
	if !strings.Contains(string(data), "```python\nweird_statement\n```") {
		t.Errorf("block not rewritten with context language:\n%s", data)
	}
}

func TestRewriteBlocksPassDryRun(t *testing.T) {
	dir := t.TempDir()
	path := writeContent(t, dir, "post.md", "[code]\nx\n[/code]\n")
	before, _ := os.ReadFile(path)

	summary, err := RewriteBlocksPass(dir, "", true)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Updated != 1 {
		t.Errorf("dry run should still report updates, got %+v", summary)
	}

	after, _ := os.ReadFile(path)
	if string(before) != string(after) {
		t.Error("dry run modified the file")
	}
}

func TestRewriteBlocksPassSingleFile(t *testing.T) {
	dir := t.TempDir()
	writeContent(t, dir, "one.md", "[code]\na\n[/code]\n")
	otherPath := writeContent(t, dir, "two.md", "[code]\nb\n[/code]\n")
	before, _ := os.ReadFile(otherPath)

	summary, err := RewriteBlocksPass(dir, "one.md", false)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Files != 1 || summary.Updated != 1 {
		t.Errorf("summary = %+v", summary)
	}

	after, _ := os.ReadFile(otherPath)
	if string(before) != string(after) {
		t.Error("file outside the filter was modified")
	}
}
