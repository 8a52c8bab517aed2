// internal/migrate/run.go

// Package migrate orchestrates the WordPress-to-Markdown pipeline:
// parse the export, transform each post, then write the content files
// and the whole-corpus artifacts. The run is a pure function of the
// export document and the gist fetch results; re-running it over the
// same input produces byte-identical output.
package migrate

import (
	"context"
	"fmt"
	"os"

	"unpress/internal/config"
	"unpress/internal/gist"
	"unpress/internal/redirects"
	"unpress/internal/taxonomy"
	"unpress/internal/wordpress"
	"unpress/internal/writer"
)

// Options tune one migration run.
type Options struct {
	ExportPath string
	DryRun     bool
	SkipGists  bool
}

// Run executes the full pipeline. Per-item failures are recorded as
// warnings in the summary; only an unreadable export or a failed
// whole-corpus artifact aborts the run.
func Run(ctx context.Context, cfg config.Config, fetcher gist.Fetcher, opts Options) (*Summary, error) {
	exportPath := opts.ExportPath
	if exportPath == "" {
		exportPath = cfg.ExportFile
	}

	file, err := os.Open(exportPath)
	if err != nil {
		return nil, fmt.Errorf("open export: %w", err)
	}
	defer file.Close()

	export, parseWarnings, err := wordpress.Parse(file)
	if err != nil {
		return nil, err
	}

	summary := &Summary{Attachments: export.Attachments, DryRun: opts.DryRun}
	summary.Skipped = len(parseWarnings)
	summary.warnAll("", parseWarnings)

	tr := &transformer{siteURL: cfg.SiteURL}
	if !opts.SkipGists {
		tr.inliner = gist.NewInliner(fetcher, cfg.GistOwner)
	}

	out := &writer.Writer{
		ContentDir: cfg.ContentDir,
		BlogDir:    cfg.BlogDir,
		DryRun:     opts.DryRun,
	}

	published := runPosts(ctx, export.Posts, tr, out, summary, false)
	runPosts(ctx, export.Pages, tr, out, summary, true)

	if err := out.WriteSectionIndex(export.SiteTitle); err != nil {
		summary.warn("", fmt.Sprintf("section index not written: %v", err))
	}

	entries, redirectWarnings := redirects.Build(published, cfg.BlogDir)
	summary.warnAll("", redirectWarnings)
	if err := out.WriteRedirects(cfg.RedirectsFile, entries); err != nil {
		return summary, err
	}
	summary.Artifacts = append(summary.Artifacts, cfg.RedirectsFile)

	idx := taxonomy.Build(published)
	if err := out.WriteTaxonomy(cfg.TaxonomyFile, idx); err != nil {
		return summary, err
	}
	summary.Artifacts = append(summary.Artifacts, cfg.TaxonomyFile)

	return summary, nil
}

// runPosts transforms and writes one group of items, returning the
// published records that made it to disk (or would have, on dry runs).
func runPosts(ctx context.Context, items []wordpress.Post, tr *transformer, out *writer.Writer, summary *Summary, pages bool) []wordpress.Post {
	var published []wordpress.Post

	for _, post := range items {
		if post.Status != wordpress.StatusPublished {
			summary.Drafts++
			continue
		}

		summary.warnAll(post.Slug, tr.transform(ctx, &post))

		var err error
		if pages {
			_, err = out.WritePage(post)
		} else {
			_, err = out.WritePost(post)
		}
		if err != nil {
			summary.warn(post.Slug, fmt.Sprintf("not written: %v", err))
			summary.Skipped++
			continue
		}

		if pages {
			summary.PagesMigrated++
		} else {
			summary.PostsMigrated++
		}
		published = append(published, post)
	}

	return published
}
