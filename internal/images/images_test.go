package images

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"unpress/internal/content"
)

func fileWithBody(body string) content.File {
	return content.File{Raw: []byte(body)}
}

func TestExtractRefs(t *testing.T) {
	files := []content.File{
		fileWithBody("![a](/wp-content/uploads/2022/10/a.png) and ![b](/wp-content/uploads/2021/07/b.jpg)"),
		fileWithBody("repeat ![a](/wp-content/uploads/2022/10/a.png)"),
		fileWithBody("external ![x](https://other.org/x.png) ignored"),
	}

	got := ExtractRefs(files)
	want := []string{
		"/wp-content/uploads/2021/07/b.jpg",
		"/wp-content/uploads/2022/10/a.png",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractRefs = %v, want %v", got, want)
	}
}

func TestDownloadMirrorsAndSkips(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		fmt.Fprint(w, "imagebytes")
	}))
	defer server.Close()

	dir := t.TempDir()
	m := NewMirror(server.URL, dir)
	refs := []string{"/wp-content/uploads/2022/10/a.png"}

	stats, warnings := m.Download(context.Background(), refs)
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if stats.Downloaded != 1 || stats.Bytes != int64(len("imagebytes")) {
		t.Errorf("stats = %+v", stats)
	}

	local := filepath.Join(dir, "wp-content", "uploads", "2022", "10", "a.png")
	data, err := os.ReadFile(local)
	if err != nil || string(data) != "imagebytes" {
		t.Errorf("mirrored file wrong: %q, %v", data, err)
	}

	// A second run skips the existing file without another request.
	stats, _ = m.Download(context.Background(), refs)
	if stats.Skipped != 1 || stats.Downloaded != 0 {
		t.Errorf("second run stats = %+v", stats)
	}
	if requests != 1 {
		t.Errorf("server hit %d times, want 1", requests)
	}
}

func TestDownloadRecordsFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	m := NewMirror(server.URL, t.TempDir())
	stats, warnings := m.Download(context.Background(), []string{"/wp-content/uploads/missing.png"})

	if stats.Failed != 1 {
		t.Errorf("stats = %+v, want one failure", stats)
	}
	if len(warnings) != 1 {
		t.Errorf("warnings = %v, want one entry", warnings)
	}
}

func TestVerify(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "wp-content", "uploads", "ok.png")
	os.MkdirAll(filepath.Dir(good), 0755)
	os.WriteFile(good, []byte("data"), 0644)
	empty := filepath.Join(dir, "wp-content", "uploads", "empty.png")
	os.WriteFile(empty, nil, 0644)

	m := NewMirror("https://example.com", dir)
	valid, missing := m.Verify([]string{
		"/wp-content/uploads/ok.png",
		"/wp-content/uploads/empty.png",
		"/wp-content/uploads/gone.png",
	})

	if valid != 1 {
		t.Errorf("valid = %d, want 1", valid)
	}
	if len(missing) != 2 {
		t.Errorf("missing = %v, want 2 entries", missing)
	}
}
