package hook

import (
	"context"
	"sync"
)

// Action is a listener of a named event.
type Action func(ctx context.Context, data interface{})

// Filter rewrites a value passing through a named filter.
type Filter func(ctx context.Context, value interface{}, data interface{}) interface{}

// Bus is the process-wide extension point registry. Listeners run in registration order.
type Bus struct {
	mu      sync.RWMutex
	actions map[string][]Action
	filters map[string][]Filter
}

func New() *Bus {
	return &Bus{actions: map[string][]Action{}, filters: map[string][]Filter{}}
}

func (b *Bus) On(name string, fn Action) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.actions[name] = append(b.actions[name], fn)
}

func (b *Bus) Has(name string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.actions[name]) > 0
}

// Emit calls every listener of name. A nil bus does nothing.
func (b *Bus) Emit(ctx context.Context, name string, data interface{}) {
	if b == nil {
		return
	}
	b.mu.RLock()
	listeners := append([]Action(nil), b.actions[name]...)
	b.mu.RUnlock()
	for _, fn := range listeners {
		fn(ctx, data)
	}
}

func (b *Bus) Clear(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.actions, name)
	delete(b.filters, name)
}

func (b *Bus) AddFilter(name string, fn Filter) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.filters[name] = append(b.filters[name], fn)
}

// Apply threads value through every filter of name.
func (b *Bus) Apply(ctx context.Context, name string, value interface{}, data interface{}) interface{} {
	if b == nil {
		return value
	}
	b.mu.RLock()
	filters := append([]Filter(nil), b.filters[name]...)
	b.mu.RUnlock()
	for _, fn := range filters {
		value = fn(ctx, value, data)
	}
	return value
}

// ApplyBool is Apply for boolean filters; a filter returning a non-bool leaves the value.
func (b *Bus) ApplyBool(ctx context.Context, name string, value bool, data interface{}) bool {
	if v, ok := b.Apply(ctx, name, value, data).(bool); ok {
		return v
	}
	return value
}

// ApplyStrings is Apply for string list filters.
func (b *Bus) ApplyStrings(ctx context.Context, name string, value []string, data interface{}) []string {
	if v, ok := b.Apply(ctx, name, value, data).([]string); ok {
		return v
	}
	return value
}
