// Package view holds the server-rendered pages. Every page is parsed together
// with the shared layout into its own template, so pages can define the same
// "title" and "main" blocks.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"

	"github.com/gin-gonic/gin/render"
	"github.com/shopspring/decimal"

	"github.com/amirhossein-jamali/papertrade/internal/domain/entity"
)

const layoutFile = "templates/layout.html"

// Page names
const (
	Apology        = "apology.html"
	Index          = "index.html"
	Buy            = "buy.html"
	Sell           = "sell.html"
	History        = "history.html"
	Quote          = "quote.html"
	Quoted         = "quoted.html"
	Login          = "login.html"
	Register       = "register.html"
	ChangePassword = "change_password.html"
	AddCash        = "add_cash.html"
	Watchlist      = "watchlist.html"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page is the data every template receives. Data carries the page specific
// values.
type Page struct {
	SignedIn bool
	Username string
	Cash     decimal.Decimal
	Flashes  []string
	Data     any
}

// Funcs are the helpers available to templates
var Funcs = template.FuncMap{
	"usd": entity.FormatUSD,
}

// Renderer implements gin's render.HTMLRender over the embedded pages
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses the layout and every page
func NewRenderer() (*Renderer, error) {
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		if file == layoutFile {
			continue
		}
		name := path.Base(file)
		tmpl, err := template.New(name).Funcs(Funcs).ParseFS(templateFS, layoutFile, file)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		pages[name] = tmpl
	}

	if _, ok := pages[Apology]; !ok {
		return nil, fmt.Errorf("missing %s", Apology)
	}
	return &Renderer{pages: pages}, nil
}

// MustNewRenderer is like NewRenderer but panics on error
func MustNewRenderer() *Renderer {
	r, err := NewRenderer()
	if err != nil {
		panic(err)
	}
	return r
}

// Instance returns the render for a page. Unknown names fall back to the
// apology page.
func (r *Renderer) Instance(name string, data any) render.Render {
	tmpl, ok := r.pages[name]
	if !ok {
		tmpl = r.pages[Apology]
		data = Page{Data: map[string]any{
			"code":    500,
			"message": "page " + strings.TrimSuffix(name, ".html") + " not found",
		}}
	}
	return render.HTML{Template: tmpl, Name: "layout", Data: data}
}

// Names lists the parsed pages
func (r *Renderer) Names() []string {
	names := make([]string, 0, len(r.pages))
	for name := range r.pages {
		names = append(names, name)
	}
	return names
}
