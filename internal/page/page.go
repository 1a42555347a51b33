package page

import (
	"errors"
	"html"
	"io/fs"
	"log/slog"
	"os"
	"strings"
)

// Placeholder is replaced by the current result in the template.
const Placeholder = "{{ server_response }}"

const fallback = `<!doctype html>
<html><body>
<h1>LLM Query App</h1>
<p>(%s not found)</p>
<pre>` + Placeholder + `</pre>
</body></html>`

// Renderer produces the home page from a template file read on every render,
// so edits to the template show up without a restart.
type Renderer struct {
	path string
	log  *slog.Logger
}

func NewRenderer(path string, log *slog.Logger) *Renderer {
	if log == nil {
		log = slog.Default()
	}
	return &Renderer{path: path, log: log}
}

// Render returns the full HTML document with text escaped into the placeholder.
// A missing or unreadable template yields a minimal inline page.
func (r *Renderer) Render(text string) string {
	tpl, err := os.ReadFile(r.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			r.log.Warn("failed to read template", "path", r.path, "err", err)
		}
		tpl = []byte(strings.Replace(fallback, "%s", html.EscapeString(r.path), 1))
	}
	return strings.ReplaceAll(string(tpl), Placeholder, html.EscapeString(text))
}
