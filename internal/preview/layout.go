// internal/preview/layout.go
package preview

// pageLayout is the single built-in template. It exists to make
// conversion defects visible, nothing more; theming belongs to the
// real site generator downstream.
const pageLayout = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
{{if .BaseHref}}<base href="{{.BaseHref}}">{{end}}
<title>{{.Title}} · unpress preview</title>
<style>
body { max-width: 46rem; margin: 2rem auto; padding: 0 1rem; font-family: system-ui, sans-serif; line-height: 1.6; }
pre { background: #f4f4f4; padding: 1rem; overflow-x: auto; }
code { font-family: ui-monospace, monospace; }
img { max-width: 100%; }
blockquote { border-left: 3px solid #ccc; margin-left: 0; padding-left: 1rem; color: #555; }
.meta { color: #777; font-size: 0.9rem; }
</style>
</head>
<body>
<article>
<h1>{{.Title}}</h1>
<p class="meta">{{.Date}}{{range .Labels}} · {{.}}{{end}}</p>
{{.Content}}
</article>
</body>
</html>
`
