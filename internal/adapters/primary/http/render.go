package http

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"sort"

	"github.com/lorrc/task-analytics/internal/core/viewmodel"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer executes the report templates.
type Renderer struct {
	templates *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	t, err := template.New("").Funcs(template.FuncMap{
		"attrs":     renderAttrs,
		"exports":   exportLinks,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{templates: t}, nil
}

// Page renders the full page of report.
func (rr *Renderer) Page(w http.ResponseWriter, status int, report string, view any) error {
	return rr.execute(w, status, report, view)
}

// Section renders one section of report as a partial.
func (rr *Renderer) Section(w http.ResponseWriter, status int, report, section string, view any) error {
	return rr.execute(w, status, report+":"+section, view)
}

// HasSection reports whether report has a partial template for section.
func (rr *Renderer) HasSection(report, section string) bool {
	return rr.templates.Lookup(report+":"+section) != nil
}

// execute renders into a buffer first so a template failure can still be
// turned into an error response.
func (rr *Renderer) execute(w http.ResponseWriter, status int, name string, view any) error {
	var buf bytes.Buffer
	if err := rr.templates.ExecuteTemplate(&buf, name, view); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// renderAttrs renders attributes in a stable order.
func renderAttrs(attrs map[string]string) template.HTMLAttr {
	if len(attrs) == 0 {
		return ""
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(' ')
		}
		fmt.Fprintf(&buf, `%s="%s"`, template.HTMLEscapeString(k), template.HTMLEscapeString(attrs[k]))
	}
	return template.HTMLAttr(buf.String())
}

// exportLink is one download link of a section.
type exportLink struct {
	Format string
	Href   string
}

func exportLinks(links viewmodel.LinkBuilder, section string) []exportLink {
	if links == nil {
		return nil
	}
	out := make([]exportLink, 0, len(exportFormats))
	for _, format := range exportFormats {
		out = append(out, exportLink{Format: format, Href: links.ExportHref(section, format)})
	}
	return out
}
