// internal/images/images.go

// Package images mirrors the media files referenced by migrated posts
// from the live WordPress site into the static directory, so the
// migrated corpus stops depending on the old host for images.
package images

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"unpress/internal/content"
)

var imageRef = regexp.MustCompile(`!\[[^\]]*\]\((/wp-content/uploads/[^)]+)\)`)

// ExtractRefs collects the unique upload paths referenced by the given
// files, sorted for deterministic download order.
func ExtractRefs(files []content.File) []string {
	seen := make(map[string]bool)
	for _, file := range files {
		for _, match := range imageRef.FindAllStringSubmatch(string(file.Raw), -1) {
			seen[match[1]] = true
		}
	}

	refs := make([]string, 0, len(seen))
	for ref := range seen {
		refs = append(refs, ref)
	}
	sort.Strings(refs)
	return refs
}

// Stats reports the outcome of one mirror run.
type Stats struct {
	Downloaded int
	Skipped    int
	Failed     int
	Bytes      int64
}

// Mirror downloads upload paths from the live site into StaticDir.
type Mirror struct {
	SiteURL   string
	StaticDir string
	Client    *http.Client
}

// NewMirror builds a Mirror against the live site.
func NewMirror(siteURL, staticDir string) *Mirror {
	return &Mirror{
		SiteURL:   strings.TrimSuffix(siteURL, "/"),
		StaticDir: staticDir,
		Client:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Download fetches every ref that is not already mirrored. Individual
// failures are recorded in the warnings and never abort the batch.
func (m *Mirror) Download(ctx context.Context, refs []string) (Stats, []string) {
	var stats Stats
	var warnings []string

	for _, ref := range refs {
		local := filepath.Join(m.StaticDir, filepath.FromSlash(strings.TrimPrefix(ref, "/")))

		if info, err := os.Stat(local); err == nil && info.Size() > 0 {
			stats.Skipped++
			stats.Bytes += info.Size()
			continue
		}

		size, err := m.fetchOne(ctx, ref, local)
		if err != nil {
			stats.Failed++
			warnings = append(warnings, fmt.Sprintf("%s: %v", ref, err))
			continue
		}
		stats.Downloaded++
		stats.Bytes += size
	}

	return stats, warnings
}

func (m *Mirror) fetchOne(ctx context.Context, ref, local string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.SiteURL+ref, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}

	resp, err := m.Client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(local), 0755); err != nil {
		return 0, fmt.Errorf("create directory: %w", err)
	}

	out, err := os.Create(local)
	if err != nil {
		return 0, fmt.Errorf("create file: %w", err)
	}
	defer out.Close()

	size, err := out.ReadFrom(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("save image: %w", err)
	}
	return size, nil
}

// Verify reports which refs are present and non-empty on disk.
func (m *Mirror) Verify(refs []string) (valid int, missing []string) {
	for _, ref := range refs {
		local := filepath.Join(m.StaticDir, filepath.FromSlash(strings.TrimPrefix(ref, "/")))
		if info, err := os.Stat(local); err == nil && info.Size() > 0 {
			valid++
		} else {
			missing = append(missing, ref)
		}
	}
	return valid, missing
}
