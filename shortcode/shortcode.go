// Package shortcode renders the named content blocks pages embed: listings,
// single events, submission forms, dashboards and the dj and local directories.
package shortcode

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"event-manager-backend/dashboard"
	"event-manager-backend/listing"
	"event-manager-backend/model"
	"event-manager-backend/option"
	"event-manager-backend/permalink"
	"event-manager-backend/render"
	"event-manager-backend/store"
	"event-manager-backend/submission"
)

var ErrUnknown = errors.New("unknown shortcode")

// Attrs are the named attributes of one shortcode use.
type Attrs map[string]string

func (a Attrs) Get(key string) string {
	return strings.TrimSpace(a[key])
}

// Or returns the attribute or def when it is absent or blank.
func (a Attrs) Or(key, def string) string {
	if v := a.Get(key); v != "" {
		return v
	}
	return def
}

func (a Attrs) Int(key string, def int) int {
	if n, err := strconv.Atoi(a.Get(key)); err == nil {
		return n
	}
	return def
}

// Bool reads true/false style attributes, keeping def when unset.
func (a Attrs) Bool(key string, def bool) bool {
	switch model.ParseTristate(a.Get(key)) {
	case model.Yes:
		return true
	case model.No:
		return false
	}
	return def
}

func (a Attrs) ID() int64 {
	id, _ := strconv.ParseInt(a.Get("id"), 10, 64)
	return id
}

// Request is one rendering of a shortcode inside an HTTP request.
type Request struct {
	Actor   *model.Actor
	Attrs   Attrs
	Values  model.Values
	Cookies []*http.Cookie
	Posted  bool
	// URL is the page the shortcode is rendered on; forms post back to it.
	URL string
}

func (r *Request) page() int {
	for _, key := range []string{"paged", "page"} {
		if n, err := strconv.Atoi(r.Values.Get(key)); err == nil && n > 0 {
			return n
		}
	}
	return 1
}

// Output is the rendered fragment plus what the response has to carry.
type Output struct {
	HTML     string         `json:"html"`
	Cookies  []*http.Cookie `json:"-"`
	Redirect string         `json:"redirect,omitempty"`
}

type Func func(ctx context.Context, req *Request) (*Output, error)

// Registry maps shortcode names to their renderers.
type Registry struct {
	store    *store.Store
	opts     *option.Options
	engine   *listing.Engine
	renderer *render.Renderer
	submit   *submission.Controller
	dash     *dashboard.Controller
	links    *permalink.Links
	funcs    map[string]Func
}

func New(s *store.Store, opts *option.Options, engine *listing.Engine, renderer *render.Renderer,
	submit *submission.Controller, dash *dashboard.Controller, links *permalink.Links) *Registry {
	r := &Registry{
		store:    s,
		opts:     opts,
		engine:   engine,
		renderer: renderer,
		submit:   submit,
		dash:     dash,
		links:    links,
	}
	r.funcs = map[string]Func{
		"events":             r.events,
		"event":              r.event,
		"event_summary":      r.summary,
		"past_events":        r.pastEvents,
		"event_register":     r.register,
		"upcoming_events":    r.upcomingEvents,
		"related_events":     r.relatedEvents,
		"submit_event_form":  r.form(model.KindEvent),
		"event_dashboard":    r.dashboard(model.KindEvent),
		"submit_dj_form":     r.form(model.KindDJ),
		"dj_dashboard":       r.dashboard(model.KindDJ),
		"event_djs":          r.directory(model.KindDJ),
		"event_dj":           r.profile(model.KindDJ),
		"single_event_dj":    r.eventDJs,
		"submit_local_form":  r.form(model.KindLocal),
		"local_dashboard":    r.dashboard(model.KindLocal),
		"event_locals":       r.directory(model.KindLocal),
		"event_local":        r.profile(model.KindLocal),
		"single_event_local": r.eventLocal,
	}
	return r
}

// Register adds or replaces a shortcode.
func (r *Registry) Register(name string, fn Func) {
	r.funcs[name] = fn
}

// Names lists the registered shortcodes in name order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.funcs))
	for n := range r.funcs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Render runs the named shortcode. The dj and local blocks render nothing
// while their module is switched off.
func (r *Registry) Render(ctx context.Context, name string, req *Request) (*Output, error) {
	fn, ok := r.funcs[name]
	if !ok {
		return nil, ErrUnknown
	}
	if req.Attrs == nil {
		req.Attrs = Attrs{}
	}
	if req.Values == nil {
		req.Values = model.Values{}
	}
	if kind := kindOf(name); kind != model.KindEvent && !r.renderer.DirectoryEnabled(ctx, kind) {
		return &Output{}, nil
	}
	return fn(ctx, req)
}

func kindOf(name string) model.Kind {
	switch {
	case strings.Contains(name, "dj"):
		return model.KindDJ
	case strings.Contains(name, "local"):
		return model.KindLocal
	}
	return model.KindEvent
}

func html(s string, err error) (*Output, error) {
	if err != nil {
		return nil, err
	}
	return &Output{HTML: s}, nil
}
