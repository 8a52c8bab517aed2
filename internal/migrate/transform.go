// internal/migrate/transform.go
package migrate

import (
	"context"
	"fmt"

	"unpress/internal/codeblock"
	"unpress/internal/gist"
	"unpress/internal/markup"
	"unpress/internal/wordpress"
)

// transformer converts post bodies to Markdown. The gist inliner is
// shared across all posts of a run so its cache spans the whole batch.
type transformer struct {
	siteURL string
	inliner *gist.Inliner
}

// transform populates post.Markdown and reports any warnings the
// conversion produced. It never fails: every step degrades to a
// best-effort result plus warnings.
func (t *transformer) transform(ctx context.Context, post *wordpress.Post) []string {
	var warnings []string

	// Legacy code spans must survive the HTML conversion byte for byte.
	protected, spans := codeblock.Protect(post.BodyHTML)

	md, unknown := markup.Convert(protected)
	for _, tag := range unknown {
		warnings = append(warnings, fmt.Sprintf("unsupported element <%s> degraded to text", tag))
	}

	md = markup.RewriteLinks(md, t.siteURL)

	if t.inliner != nil {
		var gistWarnings []string
		md, gistWarnings = t.inliner.Inline(ctx, md)
		warnings = append(warnings, gistWarnings...)
	}

	md = codeblock.Restore(md, spans)

	blockCtx := codeblock.Context{
		Filename:   post.FileStem() + ".md",
		Categories: post.Categories,
		Tags:       post.Tags,
	}
	md, _ = codeblock.Rewrite(md, blockCtx)

	warnings = append(warnings, codeblock.Validate(md)...)

	if post.Excerpt != "" {
		excerpt, _ := markup.Convert(post.Excerpt)
		post.Excerpt = excerpt
	}

	post.Markdown = md
	return warnings
}
