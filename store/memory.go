package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"event-manager-backend/model"
)

type geoPoint struct {
	lat, lng float64
}

// Memory is a process-local Backend used by tests and the `memory` database driver.
type Memory struct {
	mu       sync.RWMutex
	nextPost int64
	nextTerm int64
	posts    map[int64]model.Post
	meta     map[int64]map[string]string
	terms    map[int64]model.Term
	rels     map[int64]map[int64]bool
	options  map[string]string
	geo      map[int64]geoPoint
	geoTable bool
}

func NewMemory() *Memory {
	return &Memory{
		posts:   map[int64]model.Post{},
		meta:    map[int64]map[string]string{},
		terms:   map[int64]model.Term{},
		rels:    map[int64]map[int64]bool{},
		options: map[string]string{},
		geo:     map[int64]geoPoint{},
	}
}

func (m *Memory) CreateTables(ctx context.Context) error {
	return nil
}

func (m *Memory) GetPost(ctx context.Context, id int64) (*model.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.posts[id]
	if !ok {
		return nil, fmt.Errorf("getPost: post %d: %w", id, ErrNotFound)
	}
	return &p, nil
}

func (m *Memory) InsertPost(ctx context.Context, p *model.Post) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextPost++
	row := *p
	row.ID = m.nextPost
	m.posts[row.ID] = row
	return row.ID, nil
}

func (m *Memory) UpdatePost(ctx context.Context, p *model.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[p.ID]; !ok {
		return fmt.Errorf("updatePost: post %d: %w", p.ID, ErrNotFound)
	}
	m.posts[p.ID] = *p
	return nil
}

func (m *Memory) DeletePost(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[id]; !ok {
		return fmt.Errorf("deletePost: post %d: %w", id, ErrNotFound)
	}
	delete(m.posts, id)
	delete(m.meta, id)
	delete(m.rels, id)
	return nil
}

func (m *Memory) GetMeta(ctx context.Context, id int64, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.meta[id][key], nil
}

func (m *Memory) AllMeta(ctx context.Context, id int64) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.meta[id]))
	for k, v := range m.meta[id] {
		out[k] = v
	}
	return out, nil
}

func (m *Memory) SetMeta(ctx context.Context, id int64, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.meta[id] == nil {
		m.meta[id] = map[string]string{}
	}
	m.meta[id][key] = value
	return nil
}

func (m *Memory) DeleteMeta(ctx context.Context, id int64, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.meta[id], key)
	return nil
}

func (m *Memory) TermByID(ctx context.Context, taxonomy string, id int64) (*model.Term, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.terms[id]
	if !ok || t.Taxonomy != taxonomy {
		return nil, nil
	}
	return &t, nil
}

func (m *Memory) TermBySlug(ctx context.Context, taxonomy, slug string) (*model.Term, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.terms {
		if t.Taxonomy == taxonomy && strings.EqualFold(t.Slug, slug) {
			t := t
			return &t, nil
		}
	}
	return nil, nil
}

func (m *Memory) ListTerms(ctx context.Context, taxonomy string) ([]model.Term, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.Term
	for _, t := range m.terms {
		if t.Taxonomy == taxonomy {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Memory) InsertTerm(ctx context.Context, t *model.Term) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.terms {
		if existing.Taxonomy == t.Taxonomy && existing.Slug == t.Slug {
			return 0, fmt.Errorf("insertTerm: %s already exists in %s", t.Slug, t.Taxonomy)
		}
	}
	m.nextTerm++
	row := *t
	row.ID = m.nextTerm
	m.terms[row.ID] = row
	return row.ID, nil
}

func (m *Memory) ObjectTerms(ctx context.Context, id int64, taxonomy string) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []int64
	for termID := range m.rels[id] {
		if m.terms[termID].Taxonomy == taxonomy {
			out = append(out, termID)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// SetObjectTerms replaces the terms of one taxonomy; terms of other taxonomies are kept.
func (m *Memory) SetObjectTerms(ctx context.Context, id int64, taxonomy string, termIDs []int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rel := m.rels[id]
	if rel == nil {
		rel = map[int64]bool{}
		m.rels[id] = rel
	}
	for termID := range rel {
		if m.terms[termID].Taxonomy == taxonomy {
			delete(rel, termID)
		}
	}
	for _, termID := range termIDs {
		t, ok := m.terms[termID]
		if !ok || t.Taxonomy != taxonomy {
			return fmt.Errorf("setObjectTerms: term %d is not in %s", termID, taxonomy)
		}
		rel[termID] = true
	}
	return nil
}

func (m *Memory) GetOption(ctx context.Context, name string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.options[name]
	return v, ok, nil
}

func (m *Memory) SetOption(ctx context.Context, name, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.options[name] = value
	return nil
}

func (m *Memory) DeleteOption(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.options, name)
	return nil
}

func (m *Memory) CreateGeoCacheTable(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.geoTable = true
	return nil
}

func (m *Memory) GeoLookup(ctx context.Context, objectID int64) (float64, float64, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.geo[objectID]
	return p.lat, p.lng, ok, nil
}

func (m *Memory) GeoSave(ctx context.Context, objectID int64, lat, lng float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.geoTable {
		return fmt.Errorf("geoSave: geo cache table does not exist")
	}
	m.geo[objectID] = geoPoint{lat: lat, lng: lng}
	return nil
}
