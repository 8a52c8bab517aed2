// internal/markup/links.go
package markup

import (
	"net/url"
	"regexp"
	"strings"
)

// RewriteLinks rewrites absolute links to the original WordPress site
// into root-relative paths so the migrated content no longer depends on
// the old host. Media links keep their /wp-content/uploads/ prefix so
// the image mirror can resolve them later.
func RewriteLinks(markdown, siteURL string) string {
	host := hostPattern(siteURL)
	if host == "" {
		return markdown
	}

	uploads := regexp.MustCompile(`https?://` + host + `/wp-content/uploads/([^\s)\]"]+)`)
	markdown = uploads.ReplaceAllString(markdown, "/wp-content/uploads/$1")

	pages := regexp.MustCompile(`https?://` + host + `/([^/\s)\]"]+)`)
	markdown = pages.ReplaceAllString(markdown, "/$1")

	return markdown
}

// hostPattern extracts the site host and escapes it for use inside a
// regular expression. Accepts bare hosts as well as full URLs.
func hostPattern(siteURL string) string {
	s := strings.TrimSpace(siteURL)
	if s == "" {
		return ""
	}
	if strings.Contains(s, "://") {
		if u, err := url.Parse(s); err == nil && u.Host != "" {
			s = u.Host
		}
	}
	s = strings.TrimSuffix(s, "/")
	return regexp.QuoteMeta(s)
}
