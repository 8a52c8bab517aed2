package codeblock

import (
	"strings"
	"testing"
)

func TestRewriteSingleBlock(t *testing.T) {
	input := "Intro text.\n\n[code]\nprint(\"hi\")\n[/code]\n\nOutro."
	got, count := Rewrite(input, Context{})

	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
	want := "Intro text.\n\n```python\nprint(\"hi\")\n```\n\nOutro."
	if got != want {
		t.Errorf("got:\n%q\nwant:\n%q", got, want)
	}
}

func TestRewriteLeavesNoLegacyDelimiters(t *testing.T) {
	input := "[code]\na\n[/code]\nmiddle\n[code]\nb\n[/code]"
	got, count := Rewrite(input, Context{})

	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
	if strings.Contains(got, "[code]") || strings.Contains(got, "[/code]") {
		t.Errorf("legacy delimiters remain: %q", got)
	}
	if issues := Validate(got); len(issues) != 0 {
		t.Errorf("rewritten content should validate cleanly, got %v", issues)
	}
}

func TestRewriteDeterministic(t *testing.T) {
	input := "[code]\nfn main() { let mut x = 1; }\n[/code]"
	first, _ := Rewrite(input, Context{})
	for i := 0; i < 5; i++ {
		again, _ := Rewrite(input, Context{})
		if again != first {
			t.Fatalf("rewrite not deterministic: %q vs %q", first, again)
		}
	}
}

func TestProtectRestoreRoundTrip(t *testing.T) {
	input := "prose before\n\n[code]\nfn main() {\n    run();\n}\n[/code]\n\nprose after"
	protected, spans := Protect(input)

	if strings.Contains(protected, "[code]") {
		t.Errorf("span not protected: %q", protected)
	}
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	if !strings.Contains(spans[0], "fn main() {\n    run();\n}") {
		t.Errorf("span content altered: %q", spans[0])
	}

	restored := Restore(protected, spans)
	if !strings.Contains(restored, "[code]\nfn main() {\n    run();\n}\n[/code]") {
		t.Errorf("restore did not bring the span back: %q", restored)
	}
}

func TestProtectMultipleSpans(t *testing.T) {
	input := "[code]\nfirst\n[/code] and [code]\nsecond\n[/code]"
	protected, spans := Protect(input)
	if len(spans) != 2 {
		t.Fatalf("got %d spans, want 2", len(spans))
	}

	restored := Restore(protected, spans)
	rewritten, count := Rewrite(restored, Context{})
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
	if !strings.Contains(rewritten, "first") || !strings.Contains(rewritten, "second") {
		t.Errorf("span ordering lost: %q", rewritten)
	}
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name string
		code string
		want string
	}{
		{
			"python imports and def",
			"import asyncio\n\nasync def main():\n    pass",
			"python",
		},
		{
			"single unambiguous python hit",
			`print("hi")`,
			"python",
		},
		{
			"rust fn and let mut",
			"fn main() {\n    let mut count = 0;\n}",
			"rust",
		},
		{
			"rust combinators",
			"use std::io;\n\nresult.ok().unwrap()",
			"rust",
		},
		{
			"bash session",
			"$ brew install gstreamer\nbrew link gstreamer",
			"bash",
		},
		{
			"log output wins over keywords",
			"2021-07-08 08:56 starting\nimport failed\ndef broken",
			"text",
		},
		{
			"tree listing",
			"├── src\n│   └── main.rs\n└── Cargo.toml",
			"text",
		},
		{
			"no confident match",
			"some plain sentence\nanother one",
			"",
		},
		{
			"empty block",
			"   \n  ",
			"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectLanguage(tt.code, Context{})
			if got != tt.want {
				t.Errorf("DetectLanguage(%q) = %q, want %q", tt.code, got, tt.want)
			}
		})
	}
}

func TestDetectLanguageContextFallback(t *testing.T) {
	code := "obscure(statement)\nnothing.matches(here)"

	got := DetectLanguage(code, Context{Tags: []string{"Python", "asyncio"}})
	if got != "python" {
		t.Errorf("tag context fallback = %q, want python", got)
	}

	got = DetectLanguage(code, Context{Filename: "2023-01-26-decompress-content-using-rust.md"})
	if got != "rust" {
		t.Errorf("filename context fallback = %q, want rust", got)
	}

	if got := DetectLanguage(code, Context{}); got != "" {
		t.Errorf("no context should yield untagged, got %q", got)
	}
}

func TestDetectLanguageContentBeatsContext(t *testing.T) {
	code := "fn main() {\n    let mut x = 0;\n}"
	got := DetectLanguage(code, Context{Tags: []string{"python"}})
	if got != "rust" {
		t.Errorf("content fingerprints should win over context, got %q", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		issues int
	}{
		{"clean", "text\n\n```go\ncode\n```\n", 0},
		{"leftover open tag", "[code]\nstuff", 1},
		{"leftover close tag", "stuff\n[/code]", 1},
		{"unbalanced fence", "```python\ncode\n", 1},
		{"all broken", "[code]\n```\n[/code]", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Validate(tt.input)
			if len(got) != tt.issues {
				t.Errorf("Validate(%q) = %v, want %d issues", tt.input, got, tt.issues)
			}
		})
	}
}
