// internal/migrate/result.go
package migrate

import "fmt"

// Warning is one recoverable defect recorded during a run. Slug is
// empty for warnings that are not tied to a single post.
type Warning struct {
	Slug    string
	Message string
}

func (w Warning) String() string {
	if w.Slug == "" {
		return w.Message
	}
	return fmt.Sprintf("%s: %s", w.Slug, w.Message)
}

// Summary is the user-facing report of one migration run. Skips and
// warnings are aggregated here as values, never thrown across the
// batch as errors.
type Summary struct {
	PostsMigrated int
	PagesMigrated int
	Drafts        int
	Skipped       int
	Attachments   int
	Artifacts     []string
	Warnings      []Warning
	DryRun        bool
}

func (s *Summary) warn(slug, message string) {
	s.Warnings = append(s.Warnings, Warning{Slug: slug, Message: message})
}

func (s *Summary) warnAll(slug string, messages []string) {
	for _, m := range messages {
		s.warn(slug, m)
	}
}
