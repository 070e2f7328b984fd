package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"event-manager-backend/logger"
	"event-manager-backend/model"
)

var ErrNotFound = errors.New("record not found")

// Posts is row level access to the posts table.
type Posts interface {
	GetPost(ctx context.Context, id int64) (*model.Post, error)
	InsertPost(ctx context.Context, p *model.Post) (int64, error)
	UpdatePost(ctx context.Context, p *model.Post) error
	// DeletePost removes the row together with its meta and term relationships.
	DeletePost(ctx context.Context, id int64) error
	Search(ctx context.Context, q *Query) (*Result, error)
}

// Meta is access to per-post key/value metadata. Missing keys read as "".
type Meta interface {
	GetMeta(ctx context.Context, id int64, key string) (string, error)
	AllMeta(ctx context.Context, id int64) (map[string]string, error)
	SetMeta(ctx context.Context, id int64, key, value string) error
	DeleteMeta(ctx context.Context, id int64, key string) error
}

// Terms is access to taxonomy terms. Lookups of missing terms return nil, nil.
type Terms interface {
	TermByID(ctx context.Context, taxonomy string, id int64) (*model.Term, error)
	TermBySlug(ctx context.Context, taxonomy, slug string) (*model.Term, error)
	ListTerms(ctx context.Context, taxonomy string) ([]model.Term, error)
	InsertTerm(ctx context.Context, t *model.Term) (int64, error)
	ObjectTerms(ctx context.Context, id int64, taxonomy string) ([]int64, error)
	SetObjectTerms(ctx context.Context, id int64, taxonomy string, termIDs []int64) error
}

// Options is the persistent site option table.
type Options interface {
	GetOption(ctx context.Context, name string) (string, bool, error)
	SetOption(ctx context.Context, name, value string) error
	DeleteOption(ctx context.Context, name string) error
}

// GeoCache stores geocoded coordinates per object.
type GeoCache interface {
	CreateGeoCacheTable(ctx context.Context) error
	GeoLookup(ctx context.Context, objectID int64) (lat, lng float64, ok bool, err error)
	GeoSave(ctx context.Context, objectID int64, lat, lng float64) error
}

// Backend is everything a storage engine has to provide.
type Backend interface {
	Posts
	Meta
	Terms
	Options
	GeoCache
	CreateTables(ctx context.Context) error
}

// Store is the entity adapter used by the rest of the service.
type Store struct {
	Backend
	now func() time.Time
}

func New(b Backend) *Store {
	return &Store{Backend: b, now: time.Now}
}

// Meta reads one meta value. Failures are logged and read as absent.
func (s *Store) Meta(ctx context.Context, id int64, key string) string {
	v, err := s.GetMeta(ctx, id, key)
	if err != nil {
		logger.Warnf(ctx, "meta: reading %s of %d: %v", key, id, err)
		return ""
	}
	return v
}

func (s *Store) metaMap(ctx context.Context, id int64) map[string]string {
	m, err := s.AllMeta(ctx, id)
	if err != nil {
		logger.Warnf(ctx, "metaMap: reading meta of %d: %v", id, err)
		return map[string]string{}
	}
	return m
}

// Insert stamps the dates and creates the post.
func (s *Store) Insert(ctx context.Context, p *model.Post) (int64, error) {
	now := s.now().UTC()
	if p.Date.IsZero() {
		p.Date = now
	}
	p.Modified = now
	id, err := s.InsertPost(ctx, p)
	if err != nil {
		return 0, fmt.Errorf("insert: %w", err)
	}
	p.ID = id
	return id, nil
}

// Update stamps the modification date and writes the post.
func (s *Store) Update(ctx context.Context, p *model.Post) error {
	p.Modified = s.now().UTC()
	if err := s.UpdatePost(ctx, p); err != nil {
		return fmt.Errorf("update: %w", err)
	}
	return nil
}

func (s *Store) SetStatus(ctx context.Context, id int64, status model.Status) error {
	p, err := s.GetPost(ctx, id)
	if err != nil {
		return fmt.Errorf("setStatus: %w", err)
	}
	if p.Status == status {
		return nil
	}
	p.Status = status
	return s.Update(ctx, p)
}

// Trash moves the post to the trash, remembering the previous status.
func (s *Store) Trash(ctx context.Context, id int64) error {
	p, err := s.GetPost(ctx, id)
	if err != nil {
		return fmt.Errorf("trash: %w", err)
	}
	if p.Status == model.StatusTrash {
		return nil
	}
	if err := s.SetMeta(ctx, id, "_wp_trash_meta_status", string(p.Status)); err != nil {
		return fmt.Errorf("trash: %w", err)
	}
	p.Status = model.StatusTrash
	return s.Update(ctx, p)
}

// Attachments lists attachment posts whose parent is id.
func (s *Store) Attachments(ctx context.Context, id int64) ([]model.Post, error) {
	parent := id
	res, err := s.Search(ctx, &Query{
		PostTypes: []model.PostType{model.PostTypeAttachment},
		Statuses:  []model.Status{model.StatusInherit},
		Parent:    &parent,
		OrderBy:   []Order{{Field: OrderID}},
	})
	if err != nil {
		return nil, fmt.Errorf("attachments: %w", err)
	}
	return res.Posts, nil
}

// AttachmentURL returns the guid of an attachment id, or "" when absent.
func (s *Store) AttachmentURL(ctx context.Context, id int64) string {
	if id <= 0 {
		return ""
	}
	p, err := s.GetPost(ctx, id)
	if err != nil || p.Type != model.PostTypeAttachment {
		return ""
	}
	return p.GUID
}

// TermExists accepts either a term id or a slug.
func (s *Store) TermExists(ctx context.Context, taxonomy, value string) bool {
	t, err := lookupTerm(ctx, s, taxonomy, "", value)
	if err != nil {
		logger.Warnf(ctx, "termExists: %s in %s: %v", value, taxonomy, err)
		return false
	}
	return t != nil
}

// ResolveTerm finds a term by id when the value is numeric, by slug otherwise.
func (s *Store) ResolveTerm(ctx context.Context, taxonomy, value string) (*model.Term, error) {
	return lookupTerm(ctx, s, taxonomy, "", value)
}

// Count returns the number of posts matching q.
func (s *Store) Count(ctx context.Context, q Query) (int, error) {
	q.Limit = 1
	q.Offset = 0
	q.OrderBy = []Order{{Field: OrderID}}
	res, err := s.Search(ctx, &q)
	if err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return res.Total, nil
}
