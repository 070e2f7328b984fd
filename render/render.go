package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"event-manager-backend/dashboard"
	"event-manager-backend/geo"
	"event-manager-backend/listing"
	"event-manager-backend/model"
	"event-manager-backend/option"
	"event-manager-backend/permalink"
	"event-manager-backend/store"
)

// Renderer turns listings, forms and dashboards into HTML fragments.
type Renderer struct {
	t       *template.Template
	store   *store.Store
	opts    *option.Options
	links   *permalink.Links
	locator *geo.Locator
}

// New parses the fragment templates. locator may be nil, which disables map links.
func New(s *store.Store, opts *option.Options, links *permalink.Links, locator *geo.Locator) *Renderer {
	t := template.Must(template.New("fragments").Funcs(template.FuncMap{
		"join":            strings.Join,
		"has":             has,
		"add":             func(a, b int) int { return a + b },
		"value":           fieldValue,
		"inputType":       inputType,
		"alertOf":         func(m string, isError bool) dashboard.Banner { return dashboard.Banner{Message: m, Error: isError} },
		"datetimeOptions": func() []model.Option { return listing.DatetimeOptions },
	}).Parse(fragments))
	return &Renderer{t: t, store: s, opts: opts, links: links, locator: locator}
}

func (r *Renderer) exec(name string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := r.t.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("exec: %s: %w", name, err)
	}
	return buf.String(), nil
}

// safe marks a fragment this package rendered as trusted markup.
func safe(s string) template.HTML {
	return template.HTML(s)
}

func fieldValue(f model.Field) string {
	if len(f.Value) > 0 {
		return f.Value[0]
	}
	return f.Default
}

func inputType(t model.FieldType) string {
	switch t {
	case model.FieldEmail, model.FieldURL, model.FieldPassword, model.FieldHidden, model.FieldNumber:
		return string(t)
	}
	return "text"
}

func has(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

// Alert is a success or error banner.
func (r *Renderer) Alert(message string, isError bool) (string, error) {
	return r.exec("alert", struct {
		Message string
		Error   bool
	}{message, isError})
}

// NoResults is the empty listing fragment.
func (r *Renderer) NoResults(message string) (string, error) {
	return r.exec("no_results", message)
}

type pageLink struct {
	Number  int
	Current bool
	Gap     bool
}

// Pagination renders numbered page links around current; nothing for a single page.
func (r *Renderer) Pagination(maxPages, current int) (string, error) {
	if maxPages <= 1 {
		return "", nil
	}
	if current < 1 {
		current = 1
	}
	var pages []pageLink
	gap := false
	for n := 1; n <= maxPages; n++ {
		if n == 1 || n == maxPages || (n >= current-2 && n <= current+2) {
			pages = append(pages, pageLink{Number: n, Current: n == current})
			gap = false
			continue
		}
		if !gap {
			pages = append(pages, pageLink{Gap: true})
			gap = true
		}
	}
	return r.exec("pagination", struct {
		Pages    []pageLink
		Current  int
		MaxPages int
	}{pages, current, maxPages})
}

// ShowingLinks is the reset and RSS pair shown next to an applied filter summary.
func (r *Renderer) ShowingLinks(reset, feed string) (string, error) {
	return r.exec("showing_links", struct {
		Reset string
		Feed  string
	}{reset, feed})
}
