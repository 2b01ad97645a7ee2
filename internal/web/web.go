// Package web holds the server-rendered pages and the static assets they load.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// HTMLData is the data every page template receives.
type HTMLData struct {
	Title string
	Path  string
	Year  int
}

// Page names a renderable page and its template file.
type Page struct {
	Path     string
	File     string
	Title    string
	NavLabel string
}

// Pages lists every page in navigation order.
var Pages = []Page{
	{Path: "/", File: "index.html", Title: "Inicio", NavLabel: "Inicio"},
	{Path: "/register", File: "register.html", Title: "Registrar usuario", NavLabel: "Registro"},
	{Path: "/login", File: "login.html", Title: "Login demo", NavLabel: "Login"},
	{Path: "/users", File: "users.html", Title: "Usuarios", NavLabel: "Usuarios"},
	{Path: "/muro", File: "muro.html", Title: "Muro", NavLabel: "Muro"},
}

var functions = template.FuncMap{
	"nav": func() []Page { return Pages },
}

// Renderer renders pages from templates parsed once at startup.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses the layout together with each page template.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(Pages))}
	for _, p := range Pages {
		ts, err := template.New("").Funcs(functions).ParseFS(templateFS, "templates/base.layout.html", "templates/"+p.File)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", p.File, err)
		}
		r.pages[p.File] = ts
	}
	return r, nil
}

// Render executes the page template named file. data may be nil.
func (r *Renderer) Render(file string, data *HTMLData) ([]byte, error) {
	ts, ok := r.pages[file]
	if !ok {
		return nil, fmt.Errorf("unknown page %q", file)
	}
	if data == nil {
		data = &HTMLData{}
	}
	if data.Year == 0 {
		data.Year = time.Now().Year()
	}

	buf := new(bytes.Buffer)
	if err := ts.ExecuteTemplate(buf, "base", data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// StaticFS returns the static assets rooted at their own directory.
func StaticFS() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
