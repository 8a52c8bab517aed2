// internal/server/server.go

// Package server hosts the rendered preview locally, rebuilding it
// whenever migrated content changes and pushing a reload to connected
// browsers.
package server

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Run builds the preview, serves previewDir on the given port, and
// watches watchPaths for changes. buildFunc re-renders the preview; a
// failing rebuild keeps the server alive and logs the error.
func Run(port int, previewDir string, watchPaths []string, buildFunc func() error) error {
	if err := buildFunc(); err != nil {
		return fmt.Errorf("initial preview build failed: %w", err)
	}

	hub := newHub()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("could not create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := addWatches(watcher, watchPaths); err != nil {
		return err
	}

	go rebuildOnChange(watcher, hub, buildFunc)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWs(hub, w, r)
	})
	mux.Handle("/", reloadInjector(http.FileServer(http.Dir(previewDir))))

	addr := fmt.Sprintf(":%d", port)
	fmt.Printf("Serving preview on http://localhost%s\n", addr)
	fmt.Println("Press Ctrl+C to stop")
	return http.ListenAndServe(addr, mux)
}

// addWatches registers every directory under the watch paths; fsnotify
// watches are not recursive. Files get their parent directory watched
// so editor save-via-rename still triggers.
func addWatches(watcher *fsnotify.Watcher, paths []string) error {
	watched := make(map[string]bool)
	add := func(dir string) {
		dir = filepath.Clean(dir)
		if watched[dir] {
			return
		}
		if err := watcher.Add(dir); err != nil {
			log.Printf("Error adding watch on %s: %v", dir, err)
			return
		}
		watched[dir] = true
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return fmt.Errorf("could not stat watch path %s: %w", path, err)
		}

		if !info.IsDir() {
			add(filepath.Dir(path))
			continue
		}
		err = filepath.Walk(path, func(walkPath string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				add(walkPath)
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", path, err)
		}
	}
	return nil
}

func rebuildOnChange(watcher *fsnotify.Watcher, hub *hub, buildFunc func() error) {
	var lastBuild time.Time
	const debounce = 500 * time.Millisecond

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if time.Since(lastBuild) < debounce {
				continue
			}
			time.Sleep(100 * time.Millisecond)

			log.Printf("Change detected in %s, rebuilding preview...", event.Name)
			if err := buildFunc(); err != nil {
				log.Printf("Error rebuilding preview: %v", err)
			} else {
				hub.broadcast([]byte("reload"))
			}
			lastBuild = time.Now()
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Watcher error: %v", err)
		}
	}
}

// reloadInjector appends the live-reload script to HTML responses and
// disables caching so edits show up immediately.
func reloadInjector(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")

		isHTML := strings.HasSuffix(r.URL.Path, ".html") || strings.HasSuffix(r.URL.Path, "/")
		if !isHTML {
			next.ServeHTTP(w, r)
			return
		}

		buf := &bufferingWriter{ResponseWriter: w, status: http.StatusOK, header: make(http.Header)}
		next.ServeHTTP(buf, r)

		for key, values := range buf.Header() {
			for _, value := range values {
				w.Header().Add(key, value)
			}
		}

		body := buf.body.Bytes()
		if buf.status != http.StatusOK {
			w.WriteHeader(buf.status)
			w.Write(body)
			return
		}

		injected := bytes.Replace(body, []byte("</body>"), []byte(reloadScript+"</body>"), 1)
		w.Header().Set("Content-Length", fmt.Sprint(len(injected)))
		w.WriteHeader(buf.status)
		w.Write(injected)
	})
}

type bufferingWriter struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
	header http.Header
}

func (b *bufferingWriter) Header() http.Header         { return b.header }
func (b *bufferingWriter) Write(p []byte) (int, error) { return b.body.Write(p) }
func (b *bufferingWriter) WriteHeader(status int)      { b.status = status }

const reloadScript = `
<script>
  (function() {
    let socket = new WebSocket("ws://" + window.location.host + "/ws");
    socket.onmessage = function(event) {
      if (event.data === "reload") {
        window.location.reload();
      }
    };
    socket.onerror = function() {
      console.error("Live reload connection lost. Restart 'unpress serve'.");
    };
  })();
</script>
`
