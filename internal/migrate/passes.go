// internal/migrate/passes.go
package migrate

import (
	"context"
	"path/filepath"
	"strings"

	"unpress/internal/codeblock"
	"unpress/internal/content"
	"unpress/internal/gist"
)

// PassSummary reports a standalone pass over an existing content
// directory.
type PassSummary struct {
	Files    int
	Updated  int
	Blocks   int
	Warnings []Warning
}

func (s *PassSummary) warn(slug, message string) {
	s.Warnings = append(s.Warnings, Warning{Slug: slug, Message: message})
}

// InlineGistsPass rewrites gist links in already-migrated files. The
// original migration leaves links in place when a fetch fails, so this
// pass exists to retry them later without re-running the migration.
func InlineGistsPass(ctx context.Context, dir, owner string, fetcher gist.Fetcher, dryRun bool) (*PassSummary, error) {
	files, err := content.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	summary := &PassSummary{Files: len(files)}
	inliner := gist.NewInliner(fetcher, owner)

	for _, file := range files {
		name := filepath.Base(file.Path)

		updated, warnings := inliner.Inline(ctx, string(file.Raw))
		for _, w := range warnings {
			summary.warn(name, w)
		}
		if updated == string(file.Raw) {
			continue
		}

		if !dryRun {
			if err := file.WriteRaw([]byte(updated)); err != nil {
				summary.warn(name, err.Error())
				continue
			}
		}
		summary.Updated++
		// Inlining removes the link, so the occurrence delta is the
		// number of gists replaced.
		summary.Blocks += strings.Count(string(file.Raw), "gist.github.com") -
			strings.Count(updated, "gist.github.com")
	}

	return summary, nil
}

// RewriteBlocksPass converts legacy [code] spans in already-migrated
// files. A file whose rewritten body fails validation is left on disk
// unchanged; the defects are reported instead.
func RewriteBlocksPass(dir, only string, dryRun bool) (*PassSummary, error) {
	files, err := content.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	summary := &PassSummary{}
	for _, file := range files {
		name := filepath.Base(file.Path)
		if only != "" && name != only {
			continue
		}
		summary.Files++

		blockCtx := codeblock.Context{
			Filename:   name,
			Categories: file.Meta.Categories,
			Tags:       file.Meta.Tags,
		}

		updated, count := codeblock.Rewrite(string(file.Raw), blockCtx)
		if count == 0 {
			continue
		}

		if issues := codeblock.Validate(updated); len(issues) != 0 {
			summary.warn(name, "left unchanged: "+strings.Join(issues, "; "))
			continue
		}

		if !dryRun {
			if err := file.WriteRaw([]byte(updated)); err != nil {
				summary.warn(name, err.Error())
				continue
			}
		}
		summary.Updated++
		summary.Blocks += count
	}

	return summary, nil
}
