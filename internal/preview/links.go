// internal/preview/links.go
package preview

import (
	"bytes"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// localLinkTransformer rewrites links between migrated Markdown files
// so they resolve inside the rendered preview: a reference to
// another-post.md becomes another-post.html.
type localLinkTransformer struct{}

func newLocalLinkTransformer() parser.ASTTransformer {
	return &localLinkTransformer{}
}

func (t *localLinkTransformer) Transform(node *ast.Document, reader text.Reader, pc parser.Context) {
	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		link, ok := n.(*ast.Link)
		if !ok {
			return ast.WalkContinue, nil
		}
		dest := link.Destination
		if bytes.HasPrefix(dest, []byte("http://")) || bytes.HasPrefix(dest, []byte("https://")) {
			return ast.WalkContinue, nil
		}
		if bytes.HasSuffix(dest, []byte(".md")) {
			link.Destination = append(bytes.TrimSuffix(dest, []byte(".md")), []byte(".html")...)
		}
		return ast.WalkContinue, nil
	})
}
