// internal/markup/convert.go

// Package markup converts the rich-text HTML bodies of exported posts
// into Markdown. The conversion is best effort: elements without a
// Markdown equivalent degrade to their text content and are reported
// back to the caller so the run can surface a warning.
package markup

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// Convert renders an HTML fragment as Markdown. The second return
// value lists element names that had no Markdown mapping, one entry
// per distinct tag.
func Convert(src string) (string, []string) {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		// html.Parse only fails on reader errors, which a string
		// reader cannot produce. Fall back to the raw text anyway.
		return strings.TrimSpace(src), []string{fmt.Sprintf("html parse failed: %v", err)}
	}

	c := &converter{unknown: make(map[string]struct{})}
	if body := findBody(doc); body != nil {
		c.renderChildren(body, 0)
	}
	c.flushParagraph()

	var unknown []string
	for tag := range c.unknown {
		unknown = append(unknown, tag)
	}
	sort.Strings(unknown)

	return strings.TrimSpace(strings.Join(c.blocks, "\n\n")), unknown
}

type converter struct {
	blocks  []string
	inline  strings.Builder
	unknown map[string]struct{}
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if body := findBody(child); body != nil {
			return body
		}
	}
	return nil
}

// renderChildren walks block-level content. Loose inline nodes between
// block elements are gathered into implicit paragraphs; WordPress
// exports bodies where paragraphs are bare text separated by blank
// lines rather than <p> elements.
func (c *converter) renderChildren(n *html.Node, quoteDepth int) {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.TextNode {
			c.appendLooseText(child.Data)
			continue
		}
		if child.Type != html.ElementNode {
			continue
		}
		if isBlock(child.Data) {
			c.flushParagraph()
			c.renderBlock(child, quoteDepth)
		} else {
			c.inline.WriteString(c.renderInline(child))
		}
	}
	c.flushParagraph()
}

// appendLooseText handles text sitting directly at block level. Blank
// lines inside it are paragraph breaks.
func (c *converter) appendLooseText(text string) {
	parts := strings.Split(text, "\n\n")
	for i, part := range parts {
		if i > 0 {
			c.flushParagraph()
		}
		c.inline.WriteString(collapseSpace(part))
	}
}

func (c *converter) flushParagraph() {
	para := strings.TrimSpace(c.inline.String())
	c.inline.Reset()
	if para != "" {
		c.blocks = append(c.blocks, para)
	}
}

func (c *converter) renderBlock(n *html.Node, quoteDepth int) {
	switch n.Data {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		level := int(n.Data[1] - '0')
		text := strings.TrimSpace(c.renderInlineChildren(n))
		if text != "" {
			c.blocks = append(c.blocks, strings.Repeat("#", level)+" "+text)
		}
	case "p":
		text := strings.TrimSpace(c.renderInlineChildren(n))
		if text != "" {
			c.blocks = append(c.blocks, text)
		}
	case "blockquote":
		inner := &converter{unknown: c.unknown}
		inner.renderChildren(n, quoteDepth+1)
		quoted := strings.Join(inner.blocks, "\n\n")
		if quoted != "" {
			c.blocks = append(c.blocks, prefixLines(quoted, "> "))
		}
	case "pre":
		c.blocks = append(c.blocks, fencedBlock(n))
	case "ul":
		if list := c.renderList(n, false, 0); list != "" {
			c.blocks = append(c.blocks, list)
		}
	case "ol":
		if list := c.renderList(n, true, 0); list != "" {
			c.blocks = append(c.blocks, list)
		}
	case "hr":
		c.blocks = append(c.blocks, "---")
	case "figure":
		c.renderChildren(n, quoteDepth)
	case "figcaption":
		text := strings.TrimSpace(c.renderInlineChildren(n))
		if text != "" {
			c.blocks = append(c.blocks, "*"+text+"*")
		}
	case "div", "section", "article", "main":
		// Transparent containers.
		c.renderChildren(n, quoteDepth)
	case "script", "style":
		// Executable payloads never belong in migrated prose.
		c.unknown[n.Data] = struct{}{}
	case "table":
		c.unknown[n.Data] = struct{}{}
		text := strings.TrimSpace(c.renderInlineChildren(n))
		if text != "" {
			c.blocks = append(c.blocks, text)
		}
	default:
		c.unknown[n.Data] = struct{}{}
		c.renderChildren(n, quoteDepth)
	}
}

func (c *converter) renderList(n *html.Node, ordered bool, depth int) string {
	var items []string
	index := 0
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != html.ElementNode || child.Data != "li" {
			continue
		}
		index++

		var text strings.Builder
		var nested []string
		for grand := child.FirstChild; grand != nil; grand = grand.NextSibling {
			if grand.Type == html.ElementNode && (grand.Data == "ul" || grand.Data == "ol") {
				if sub := c.renderList(grand, grand.Data == "ol", depth+1); sub != "" {
					nested = append(nested, sub)
				}
				continue
			}
			text.WriteString(c.renderInline(grand))
		}

		marker := "- "
		if ordered {
			marker = fmt.Sprintf("%d. ", index)
		}
		line := strings.Repeat("  ", depth) + marker + strings.TrimSpace(text.String())
		items = append(items, line)
		items = append(items, nested...)
	}
	return strings.Join(items, "\n")
}

// renderInline produces the Markdown for an inline node, descending
// into its children.
func (c *converter) renderInline(n *html.Node) string {
	if n.Type == html.TextNode {
		return collapseSpace(n.Data)
	}
	if n.Type != html.ElementNode {
		return ""
	}

	switch n.Data {
	case "em", "i":
		return wrapNonEmpty(c.renderInlineChildren(n), "*")
	case "strong", "b":
		return wrapNonEmpty(c.renderInlineChildren(n), "**")
	case "del", "s", "strike":
		return wrapNonEmpty(c.renderInlineChildren(n), "~~")
	case "code":
		return "`" + textContent(n) + "`"
	case "a":
		text := strings.TrimSpace(c.renderInlineChildren(n))
		href := attr(n, "href")
		if href == "" {
			return text
		}
		if text == "" {
			text = href
		}
		return "[" + text + "](" + href + ")"
	case "img":
		return "![" + attr(n, "alt") + "](" + attr(n, "src") + ")"
	case "br":
		return "\n"
	case "span", "small", "sub", "sup", "u", "abbr", "cite", "mark":
		// Inline decorations Markdown cannot express; keep the text.
		return c.renderInlineChildren(n)
	default:
		c.unknown[n.Data] = struct{}{}
		return c.renderInlineChildren(n)
	}
}

func (c *converter) renderInlineChildren(n *html.Node) string {
	var sb strings.Builder
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		sb.WriteString(c.renderInline(child))
	}
	return sb.String()
}

// fencedBlock converts a <pre> element, preserving its text verbatim.
// A nested <code class="language-x"> contributes the fence tag.
func fencedBlock(n *html.Node) string {
	lang := ""
	inner := n
	if code := firstElement(n, "code"); code != nil {
		inner = code
		for _, class := range strings.Fields(attr(code, "class")) {
			if strings.HasPrefix(class, "language-") {
				lang = strings.TrimPrefix(class, "language-")
				break
			}
			if strings.HasPrefix(class, "lang-") {
				lang = strings.TrimPrefix(class, "lang-")
				break
			}
		}
	}
	code := strings.TrimRight(strings.TrimPrefix(textContent(inner), "\n"), "\n\t ")
	return "```" + lang + "\n" + code + "\n```"
}

func firstElement(n *html.Node, name string) *html.Node {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode && child.Data == name {
			return child
		}
	}
	return nil
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return sb.String()
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func wrapNonEmpty(s, mark string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ""
	}
	return mark + trimmed + mark
}

// collapseSpace folds whitespace runs into single spaces while keeping
// the boundary spaces that separate inline siblings.
func collapseSpace(s string) string {
	if s == "" {
		return ""
	}
	fields := strings.Fields(s)
	out := strings.Join(fields, " ")
	if out == "" {
		// Pure whitespace still separates words.
		return " "
	}
	if strings.HasPrefix(s, " ") || strings.HasPrefix(s, "\n") || strings.HasPrefix(s, "\t") {
		out = " " + out
	}
	if strings.HasSuffix(s, " ") || strings.HasSuffix(s, "\n") || strings.HasSuffix(s, "\t") {
		out += " "
	}
	return out
}

func prefixLines(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line == "" {
			lines[i] = strings.TrimRight(prefix, " ")
		} else {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

func isBlock(tag string) bool {
	switch tag {
	case "h1", "h2", "h3", "h4", "h5", "h6", "p", "blockquote", "pre",
		"ul", "ol", "hr", "div", "section", "article", "main", "figure",
		"figcaption", "table", "script", "style":
		return true
	}
	return false
}
