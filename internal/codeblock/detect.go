// internal/codeblock/detect.go

// Package codeblock rewrites legacy [code]...[/code] spans into fenced
// Markdown blocks, guessing the language from keyword fingerprints.
package codeblock

import (
	"regexp"
	"strings"
)

// Context carries hints used when the block content alone is not
// enough to pick a language: the destination file name and the post's
// taxonomy labels.
type Context struct {
	Filename   string
	Categories []string
	Tags       []string
}

// Fingerprint pattern lists, checked in a fixed order. Plain output
// (logs, shell transcripts, tree listings) is checked first because it
// often contains stray keywords from real languages.
var (
	textPatterns = compileAll(
		`^\d{4}-\d{2}-\d{2}\s+\d{2}:\d{2}`,
		`^\s*[├│└]`,
		`WARNING:`,
		`<Response\s+\[`,
	)

	pythonPatterns = compileAll(
		`^\s*import\s+`,
		`^\s*from\s+.+\s+import`,
		`^\s*def\s+\w+`,
		`^\s*class\s+\w+`,
		`^\s*async\s+def`,
		`^#!/usr/bin/env python`,
		`@app\.(get|post|put|delete)`,
		`^\s*async\s+with`,
		`^\s*print\(`,
	)

	rustPatterns = compileAll(
		`^\s*use\s+\w+::`,
		`^\s*fn\s+\w+`,
		`^\s*let\s+(mut\s+)?\w+`,
		`^\s*impl\s+`,
		`^\s*pub\s+(fn|struct|enum)`,
		`\.unwrap\(\)`,
		`\.ok\(\)`,
		`#\[derive\(`,
	)

	bashPatterns = compileAll(
		`^\s*\$\s+\w`,
		`^\s*brew\s+`,
		`^\s*gst-(launch|inspect)`,
		`^#!/bin/(ba)?sh`,
		`depends_on\s+"`,
	)
)

func compileAll(patterns ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		compiled[i] = regexp.MustCompile(p)
	}
	return compiled
}

// DetectLanguage guesses the language of a code span. Content
// fingerprints win over context hints; no confident match yields the
// empty string (an untagged fence). Same input, same answer.
func DetectLanguage(code string, ctx Context) string {
	if lang := detectFromContent(code); lang != "" {
		return lang
	}
	return detectFromContext(ctx)
}

func detectFromContent(code string) string {
	var lines []string
	for _, line := range strings.Split(strings.TrimSpace(code), "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return ""
	}

	// Output fingerprints only look at the opening lines; transcripts
	// announce themselves early.
	head := lines
	if len(head) > 5 {
		head = head[:5]
	}
	if matchCount(textPatterns, head) > 0 {
		return "text"
	}

	scores := []struct {
		lang  string
		score int
	}{
		{"python", matchCount(pythonPatterns, lines)},
		{"rust", matchCount(rustPatterns, lines)},
		{"bash", matchCount(bashPatterns, lines)},
	}

	best := scores[0]
	matched := 0
	for _, s := range scores {
		if s.score > 0 {
			matched++
		}
		if s.score > best.score {
			best = s
		}
	}

	// Two fingerprint hits is a confident match. A single hit only
	// counts when no other language matched anything.
	if best.score >= 2 || (best.score == 1 && matched == 1) {
		return best.lang
	}
	return ""
}

// matchCount reports how many patterns hit at least one line.
func matchCount(patterns []*regexp.Regexp, lines []string) int {
	count := 0
	for _, p := range patterns {
		for _, line := range lines {
			if p.MatchString(line) {
				count++
				break
			}
		}
	}
	return count
}

func detectFromContext(ctx Context) string {
	name := strings.ToLower(ctx.Filename)
	labels := strings.ToLower(strings.Join(ctx.Categories, " ") + " " + strings.Join(ctx.Tags, " "))

	switch {
	case strings.Contains(name, "python"), strings.Contains(name, "fastapi"),
		strings.Contains(labels, "python"), strings.Contains(labels, "fastapi"):
		return "python"
	case strings.Contains(name, "rust"), strings.Contains(labels, "rust"):
		return "rust"
	}
	return ""
}
