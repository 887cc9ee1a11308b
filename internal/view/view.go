package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "templates/layout.html"

// Page is what every template receives. Data holds the page specific model.
type Page struct {
	Title     string
	Username  string
	LoggedIn  bool
	CartCount int
	Flashes   []string
	Data      any
}

type Renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"money": func(d decimal.Decimal) string {
		return "$" + d.StringFixed(2)
	},
}

// New parses every page template together with the shared layout.
func New() (*Renderer, error) {

	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	r := &Renderer{pages: make(map[string]*template.Template)}

	for _, file := range files {
		if file == layoutFile {
			continue
		}

		name := strings.TrimSuffix(path.Base(file), ".html")

		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templateFS, layoutFile, file)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}

		r.pages[name] = tmpl
	}

	return r, nil
}

// Render executes the page into a buffer first so a template error never
// leaves a half written response.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, page *Page) error {

	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown template %q", name)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", page); err != nil {
		return fmt.Errorf("rendering template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)

	return err
}
