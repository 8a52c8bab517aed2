// internal/wordpress/export.go

// Package wordpress parses WordPress WXR export documents into typed
// post records. The export is an RSS envelope where each <item> carries
// the WordPress-specific fields under their own XML namespaces.
package wordpress

import (
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

const (
	typePost       = "post"
	typePage       = "page"
	typeAttachment = "attachment"

	domainCategory = "category"
	domainTag      = "post_tag"
)

type rssDoc struct {
	XMLName xml.Name `xml:"rss"`
	Channel channel  `xml:"channel"`
}

type channel struct {
	Title string `xml:"title"`
	Items []item `xml:"item"`
}

type item struct {
	Title      string     `xml:"title"`
	Link       string     `xml:"link"`
	PubDate    string     `xml:"pubDate"`
	PostName   string     `xml:"http://wordpress.org/export/1.2/ post_name"`
	PostDate   string     `xml:"http://wordpress.org/export/1.2/ post_date"`
	Status     string     `xml:"http://wordpress.org/export/1.2/ status"`
	PostType   string     `xml:"http://wordpress.org/export/1.2/ post_type"`
	Content    string     `xml:"http://purl.org/rss/1.0/modules/content/ encoded"`
	Excerpt    string     `xml:"http://wordpress.org/export/1.2/excerpt/ encoded"`
	Categories []category `xml:"category"`
}

type category struct {
	Domain   string `xml:"domain,attr"`
	NiceName string `xml:"nicename,attr"`
	Value    string `xml:",chardata"`
}

// Parse reads a WXR export document. A document whose top-level
// structure cannot be decoded is a fatal error; individual items
// missing required fields are skipped and reported in the returned
// warnings.
func Parse(r io.Reader) (*Export, []string, error) {
	var doc rssDoc
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, nil, fmt.Errorf("malformed export document: %w", err)
	}

	export := &Export{SiteTitle: strings.TrimSpace(doc.Channel.Title)}
	var warnings []string

	for _, it := range doc.Channel.Items {
		switch it.PostType {
		case typeAttachment:
			export.Attachments++
			continue
		case typePost, typePage:
		default:
			// nav_menu_item and friends carry no migratable content.
			continue
		}

		post, warns := buildPost(it)
		warnings = append(warnings, warns...)
		if post == nil {
			continue
		}

		if it.PostType == typePage {
			export.Pages = append(export.Pages, *post)
		} else {
			export.Posts = append(export.Posts, *post)
		}
	}

	return export, warnings, nil
}

// buildPost validates one item and maps it onto a Post. A nil return
// means the item was skipped.
func buildPost(it item) (*Post, []string) {
	title := strings.TrimSpace(html.UnescapeString(it.Title))
	body := strings.TrimSpace(it.Content)

	label := title
	if label == "" {
		label = it.PostName
	}
	if label == "" {
		label = it.Link
	}

	if title == "" {
		return nil, []string{fmt.Sprintf("skipping item without title: %q", label)}
	}
	if body == "" {
		return nil, []string{fmt.Sprintf("skipping item without body: %q", label)}
	}

	post := &Post{
		Title:    title,
		Link:     strings.TrimSpace(it.Link),
		Slug:     strings.TrimSpace(it.PostName),
		BodyHTML: body,
		Excerpt:  strings.TrimSpace(it.Excerpt),
		Status:   mapStatus(it.Status),
	}

	var warnings []string

	if date, ok := parseDate(it.PostDate, it.PubDate); ok {
		post.PublishDate = date
	} else if it.PostDate != "" || it.PubDate != "" {
		warnings = append(warnings, fmt.Sprintf("%s: unparseable publish date %q", label, it.PostDate))
	}

	for _, cat := range it.Categories {
		name := strings.TrimSpace(html.UnescapeString(cat.Value))
		if name == "" {
			continue
		}
		switch cat.Domain {
		case domainCategory:
			// The stock WordPress bucket carries no signal.
			if name == "Uncategorized" {
				continue
			}
			post.Categories = appendUnique(post.Categories, name)
		case domainTag:
			post.Tags = appendUnique(post.Tags, name)
		}
	}

	return post, warnings
}

func mapStatus(s string) Status {
	if s == "publish" {
		return StatusPublished
	}
	return StatusDraft
}

// parseDate tries the WordPress local-time format first, then the RSS
// pubDate, then a tolerant parse of whatever is left.
func parseDate(postDate, pubDate string) (time.Time, bool) {
	if postDate != "" {
		if t, err := time.Parse("2006-01-02 15:04:05", postDate); err == nil {
			return t, true
		}
		if t, err := dateparse.ParseAny(postDate); err == nil {
			return t, true
		}
	}
	if pubDate != "" {
		if t, err := time.Parse(time.RFC1123Z, pubDate); err == nil {
			return t, true
		}
		if t, err := dateparse.ParseAny(pubDate); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func appendUnique(list []string, value string) []string {
	for _, v := range list {
		if v == value {
			return list
		}
	}
	return append(list, value)
}
