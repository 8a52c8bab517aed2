// internal/codeblock/convert.go
package codeblock

import (
	"fmt"
	"regexp"
	"strings"
)

var legacyBlock = regexp.MustCompile(`(?s)\[code\]\s*\n?(.*?)\[/code\]`)

// Protect replaces each legacy span with an opaque placeholder and
// returns the spans it removed. HTML-to-Markdown conversion collapses
// whitespace, which would destroy the line structure of code sitting
// as bare text; protected spans pass through it untouched and are put
// back with Restore before Rewrite runs.
func Protect(content string) (string, []string) {
	var spans []string
	protected := legacyBlock.ReplaceAllStringFunc(content, func(match string) string {
		token := placeholder(len(spans))
		spans = append(spans, match)
		return "\n\n" + token + "\n\n"
	})
	return protected, spans
}

// Restore swaps the placeholders back for the original legacy spans.
func Restore(content string, spans []string) string {
	for i, span := range spans {
		content = strings.Replace(content, placeholder(i), span, 1)
	}
	return content
}

func placeholder(i int) string {
	return fmt.Sprintf("unpress-code-span-%d", i)
}

// Rewrite replaces every legacy [code]...[/code] span with a fenced
// block. It returns the rewritten content and the number of spans
// converted.
func Rewrite(content string, ctx Context) (string, int) {
	count := 0
	rewritten := legacyBlock.ReplaceAllStringFunc(content, func(match string) string {
		count++
		code := legacyBlock.FindStringSubmatch(match)[1]
		code = strings.TrimRight(code, " \t\n")
		lang := DetectLanguage(code, ctx)
		return "```" + lang + "\n" + code + "\n```"
	})
	return rewritten, count
}

// Validate checks a rewritten body for conversion defects: leftover
// legacy delimiters and unbalanced fences. Each defect is one issue
// string; a clean body yields none.
func Validate(content string) []string {
	var issues []string

	lower := strings.ToLower(content)
	if strings.Contains(lower, "[code]") {
		issues = append(issues, "legacy [code] delimiter still present")
	}
	if strings.Contains(lower, "[/code]") {
		issues = append(issues, "legacy [/code] delimiter still present")
	}

	fences := 0
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			fences++
		}
	}
	if fences%2 != 0 {
		issues = append(issues, "unbalanced code fences")
	}

	return issues
}
