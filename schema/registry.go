package schema

import (
	"context"
	"sort"
	"sync"

	"event-manager-backend/logger"
	"event-manager-backend/model"
	"event-manager-backend/option"
)

// Surface selects which audience a schema is resolved for.
type Surface int

const (
	Frontend Surface = iota
	Backend
)

// Overrides are operator edits keyed by group then field key.
type Overrides map[string]map[string]model.FieldOverride

type cached struct {
	raw       string
	overrides Overrides
}

// Registry merges built-in field catalogues with the operator overrides stored in
// the options table. It holds no request state.
type Registry struct {
	opts *option.Options

	mu    sync.RWMutex
	cache map[model.Kind]cached
}

func NewRegistry(opts *option.Options) *Registry {
	return &Registry{opts: opts, cache: make(map[model.Kind]cached)}
}

// overrides returns the parsed blob of kind, re-parsing only when the stored text changed.
func (r *Registry) overrides(ctx context.Context, kind model.Kind) Overrides {
	raw, _ := r.opts.Lookup(ctx, option.FormFields(string(kind)))

	r.mu.RLock()
	c, ok := r.cache[kind]
	r.mu.RUnlock()
	if ok && c.raw == raw {
		return c.overrides
	}

	var parsed Overrides
	if raw != "" {
		if _, err := r.opts.JSON(ctx, option.FormFields(string(kind)), &parsed); err != nil {
			logger.Errorf(ctx, "overrides: ignoring unreadable %s form fields: %v", kind, err)
			parsed = nil
		}
	}

	r.mu.Lock()
	r.cache[kind] = cached{raw: raw, overrides: parsed}
	r.mu.Unlock()
	return parsed
}

// Invalidate forgets the parsed overrides of kind.
func (r *Registry) Invalidate(kind model.Kind) {
	r.mu.Lock()
	delete(r.cache, kind)
	r.mu.Unlock()
}

// Default returns the built-in schema of kind, filtered by the site feature toggles.
func (r *Registry) Default(ctx context.Context, kind model.Kind) []model.Field {
	return r.filter(ctx, kind, Defaults(kind))
}

// Effective returns the merged schema of kind for the surface, ordered by priority.
// Operator values override defaults per key; keys only present in the override become new fields.
func (r *Registry) Effective(ctx context.Context, kind model.Kind, surface Surface) []model.Field {
	fields := Defaults(kind)
	group := r.overrides(ctx, kind)[string(kind)]

	seen := make(map[string]bool, len(fields))
	for i := range fields {
		seen[fields[i].Key] = true
		if o, ok := group[fields[i].Key]; ok {
			apply(&fields[i], o)
		}
	}
	var extra []string
	for key := range group {
		if !seen[key] {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	for _, key := range extra {
		f := model.Field{Key: key, Label: key, Type: model.FieldText, Visibility: true, Priority: len(fields) + 1}
		apply(&f, group[key])
		fields = append(fields, f)
	}

	fields = r.filter(ctx, kind, fields)
	if surface == Frontend {
		out := fields[:0]
		for _, f := range fields {
			if !f.AdminOnly {
				out = append(out, f)
			}
		}
		fields = out
	}
	sort.SliceStable(fields, func(i, j int) bool { return fields[i].Priority < fields[j].Priority })
	return fields
}

// Field looks up one effective field by key.
func (r *Registry) Field(ctx context.Context, kind model.Kind, key string) (model.Field, bool) {
	for _, f := range r.Effective(ctx, kind, Backend) {
		if f.Key == key {
			return f, true
		}
	}
	return model.Field{}, false
}

// SaveOverrides stores the operator edits of kind.
func (r *Registry) SaveOverrides(ctx context.Context, kind model.Kind, group map[string]model.FieldOverride) error {
	if err := r.opts.SetJSON(ctx, option.FormFields(string(kind)), Overrides{string(kind): group}); err != nil {
		return err
	}
	r.Invalidate(kind)
	return nil
}

// Reset drops the operator edits of kind.
func (r *Registry) Reset(ctx context.Context, kind model.Kind) error {
	if err := r.opts.Delete(ctx, option.FormFields(string(kind))); err != nil {
		return err
	}
	r.Invalidate(kind)
	return nil
}

// filter removes fields whose feature is switched off.
func (r *Registry) filter(ctx context.Context, kind model.Kind, fields []model.Field) []model.Field {
	if kind != model.KindEvent {
		return fields
	}
	off := map[string]bool{
		"event_category":   !r.opts.Bool(ctx, option.EnableCategories),
		"event_type":       !r.opts.Bool(ctx, option.EnableEventTypes),
		"event_djs":        !r.opts.Bool(ctx, option.EnableDJs),
		"event_dj_name":    !r.opts.Bool(ctx, option.EnableDJs),
		"event_local":      !r.opts.Bool(ctx, option.EnableLocals),
		"event_local_name": !r.opts.Bool(ctx, option.EnableLocals),
		"event_timezone":   r.opts.Get(ctx, option.TimezoneSetting) != option.TimezonePerEvent,
	}
	out := make([]model.Field, 0, len(fields))
	for _, f := range fields {
		if !off[f.Key] {
			out = append(out, f)
		}
	}
	return out
}

func apply(f *model.Field, o model.FieldOverride) {
	if o.Label != nil {
		f.Label = *o.Label
	}
	if o.Type != nil && *o.Type != "" {
		f.Type = *o.Type
	}
	if o.Required != nil {
		f.Required = bool(*o.Required)
	}
	if o.Visibility != nil {
		f.Visibility = bool(*o.Visibility)
	}
	if o.Priority != nil {
		f.Priority = int(*o.Priority)
	}
	if o.Placeholder != nil {
		f.Placeholder = *o.Placeholder
	}
	if o.Description != nil {
		f.Description = *o.Description
	}
	if o.Taxonomy != nil {
		f.Taxonomy = *o.Taxonomy
	}
	if o.Multiple != nil {
		f.Multiple = bool(*o.Multiple)
	}
	if o.AdminOnly != nil {
		f.AdminOnly = bool(*o.AdminOnly)
	}
	if o.Default != nil {
		f.Default = *o.Default
	}
	if len(o.AllowedMimeTypes) > 0 {
		f.AllowedMimeTypes = o.AllowedMimeTypes
	}
	if len(o.Options) > 0 {
		keys := make([]string, 0, len(o.Options))
		for k := range o.Options {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		f.Options = f.Options[:0:0]
		for _, k := range keys {
			f.Options = append(f.Options, model.Option{Value: k, Label: o.Options[k]})
		}
	}
}
