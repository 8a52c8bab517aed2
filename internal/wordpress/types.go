// internal/wordpress/types.go
package wordpress

import "time"

// Status classifies an exported item. Anything WordPress does not mark
// as publish (draft, pending, private, trash) is treated as a draft and
// excluded from migration output.
type Status string

const (
	StatusPublished Status = "published"
	StatusDraft     Status = "draft"
)

// Post is one fully parsed item from the export. Markdown is empty
// until the transform stage has run.
type Post struct {
	Title       string
	Link        string
	Slug        string
	PublishDate time.Time
	Categories  []string
	Tags        []string
	BodyHTML    string
	Excerpt     string
	Markdown    string
	Status      Status
}

// HasDate reports whether the post carries a usable publish date.
// Posts without one fall back to undated file names.
func (p Post) HasDate() bool {
	return !p.PublishDate.IsZero()
}

// DateString renders the publish date the way output paths and front
// matter expect it.
func (p Post) DateString() string {
	if !p.HasDate() {
		return ""
	}
	return p.PublishDate.Format("2006-01-02")
}

// FileStem is the file name of the migrated post without extension:
// "<date>-<slug>", or just the slug for undated posts.
func (p Post) FileStem() string {
	if p.HasDate() {
		return p.DateString() + "-" + p.Slug
	}
	return p.Slug
}

// Export is the parsed WXR document.
type Export struct {
	SiteTitle   string
	Posts       []Post
	Pages       []Post
	Attachments int
}
