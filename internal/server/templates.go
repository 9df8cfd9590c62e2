package server

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates/*.html
var templateFS embed.FS

// pages holds one template set per page, each parsed with the shared layout.
type pages struct {
	templates map[string]*template.Template
}

var pageNames = []string{"home.html", "document.html", "error.html"}

func loadPages() (*pages, error) {
	titler := cases.Title(language.AmericanEnglish)
	funcs := template.FuncMap{
		"title":      titler.String,
		"capitalize": capitalize,
		"pathEscape": url.PathEscape,
	}

	p := &pages{templates: make(map[string]*template.Template)}
	for _, name := range pageNames {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/index.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
		p.templates[name] = tmpl
	}
	return p, nil
}

// RenderTemplate executes page name inside the layout.
func (p *pages) RenderTemplate(w io.Writer, name string, data map[string]any) error {
	tmpl, ok := p.templates[name]
	if !ok {
		return fmt.Errorf("content template %s does not exist", name)
	}
	return tmpl.ExecuteTemplate(w, "index.html", data)
}

func capitalize(s string) string {
	if s == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToTitle(r)) + s[size:]
}
