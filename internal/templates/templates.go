// Package templates содержит HTML-шаблоны консоли и статические файлы.
package templates

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
)

//go:embed *.html
var files embed.FS

//go:embed static
var static embed.FS

// Имена страниц.
const (
	PageIndex  = "index.html"
	PageStatus = "status_checker.html"
)

// Имена фрагментов, которые отдаются отдельно от страницы.
const (
	FragmentBatches = "batches_table"
	FragmentStatus  = "status_table"
)

// Page данные для общего макета.
type Page struct {
	Title string
	Nav   string
	View  any
}

// Renderer держит разобранные шаблоны всех страниц.
type Renderer struct {
	pages map[string]*template.Template
}

// New разбирает встроенные шаблоны. Каждая страница собирается
// отдельно, потому что все они определяют свой блок "content".
func New() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, name := range []string{PageIndex, PageStatus} {
		t, err := template.New(name).ParseFS(files, "layout.html", "partials.html", name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Page рисует страницу целиком.
func (r *Renderer) Page(w io.Writer, name string, data Page) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}

// Fragment рисует один именованный блок страницы.
func (r *Renderer) Fragment(w io.Writer, page, block string, data any) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	return t.ExecuteTemplate(w, block, data)
}

// Static файловая система со стилями и скриптом консоли.
func Static() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
