package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"event-manager-backend/model"
)

// Meta keys shared by every component. Field keys are stored with a leading underscore.
const (
	MetaUniqueKey   = "_wpem_unique_key"
	MetaThumbnail   = "_thumbnail_id"
	MetaCancelled   = "_cancelled"
	MetaFeatured    = "_featured"
	MetaViewCount   = "_view_count"
	MetaEventDJs    = "_event_djs"
	MetaEventLocal  = "_event_local"
	MetaTrashStatus = "_wp_trash_meta_status"
)

// MetaKey turns a field key into its stored meta key.
func MetaKey(field string) string {
	if strings.HasPrefix(field, "_") {
		return field
	}
	return "_" + field
}

// Entity loads a post of the given kind. Posts of another type read as not found.
func (s *Store) Entity(ctx context.Context, kind model.Kind, id int64) (*model.Post, error) {
	if id <= 0 {
		return nil, ErrNotFound
	}
	p, err := s.GetPost(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("entity: %w", err)
	}
	if p.Type != kind.PostType() {
		return nil, fmt.Errorf("entity: %d is a %s: %w", id, p.Type, ErrNotFound)
	}
	return p, nil
}

func (s *Store) Event(ctx context.Context, id int64) (*model.Event, error) {
	p, err := s.Entity(ctx, model.KindEvent, id)
	if err != nil {
		return nil, err
	}
	return s.EventFromPost(ctx, p), nil
}

// EventFromPost assembles the typed event of an already loaded post.
func (s *Store) EventFromPost(ctx context.Context, p *model.Post) *model.Event {
	m := s.metaMap(ctx, p.ID)
	e := &model.Event{
		ID:                   p.ID,
		Title:                p.Title,
		Description:          p.Content,
		Status:               p.Status,
		StartDate:            m["_event_start_date"],
		StartTime:            m["_event_start_time"],
		EndDate:              m["_event_end_date"],
		EndTime:              m["_event_end_time"],
		Timezone:             m["_event_timezone"],
		Location:             m["_event_location"],
		Online:               m["_event_online"] == "yes",
		Address:              m["_event_address"],
		Pincode:              m["_event_pincode"],
		Banner:               m["_event_banner"],
		TicketOption:         m["_event_ticket_options"],
		TicketPrice:          m["_event_ticket_price"],
		Registration:         m["_registration"],
		RegistrationDeadline: m["_event_registration_deadline"],
		Expires:              m["_event_expires"],
		Cancelled:            m[MetaCancelled] == "1",
		Featured:             m[MetaFeatured] == "1",
		ViewCount:            atoi(m[MetaViewCount]),
		Author:               p.Author,
		DJIDs:                ParseIDs(m[MetaEventDJs]),
		LocalID:              atoi(m[MetaEventLocal]),
		DJName:               m["_event_dj_name"],
		LocalName:            m["_event_local_name"],
		Thumbnail:            atoi(m[MetaThumbnail]),
		MenuOrder:            p.MenuOrder,
		UniqueKey:            m[MetaUniqueKey],
		CreatedAt:            p.Date,
		UpdatedAt:            p.Modified,
		Meta:                 make(map[string]string, len(m)),
	}
	if e.IsFree() {
		e.TicketPrice = ""
	}
	for k, v := range m {
		e.Meta[strings.TrimPrefix(k, "_")] = v
	}
	e.Categories = s.terms(ctx, p.ID, model.TaxonomyCategory)
	e.Types = s.terms(ctx, p.ID, model.TaxonomyEventType)
	return e
}

func (s *Store) DJ(ctx context.Context, id int64) (*model.DJ, error) {
	p, err := s.Entity(ctx, model.KindDJ, id)
	if err != nil {
		return nil, err
	}
	m := s.metaMap(ctx, p.ID)
	return &model.DJ{
		ID:          p.ID,
		Name:        p.Title,
		Description: p.Content,
		Logo:        m["_dj_logo"],
		Thumbnail:   atoi(m[MetaThumbnail]),
		Website:     m["_dj_website"],
		Socials:     socials(m, "dj"),
		Email:       m["_dj_email"],
		Tagline:     m["_dj_tagline"],
		Video:       m["_dj_video"],
		Country:     m["_dj_country"],
		Author:      p.Author,
		Status:      p.Status,
		UniqueKey:   m[MetaUniqueKey],
		CreatedAt:   p.Date,
		UpdatedAt:   p.Modified,
	}, nil
}

func (s *Store) Local(ctx context.Context, id int64) (*model.Local, error) {
	p, err := s.Entity(ctx, model.KindLocal, id)
	if err != nil {
		return nil, err
	}
	m := s.metaMap(ctx, p.ID)
	return &model.Local{
		ID:          p.ID,
		Name:        p.Title,
		Description: p.Content,
		Logo:        m["_local_logo"],
		Thumbnail:   atoi(m[MetaThumbnail]),
		Website:     m["_local_website"],
		Socials:     socials(m, "local"),
		Country:     m["_local_country"],
		Address:     m["_local_address"],
		Author:      p.Author,
		Status:      p.Status,
		UniqueKey:   m[MetaUniqueKey],
		CreatedAt:   p.Date,
		UpdatedAt:   p.Modified,
	}, nil
}

// DJNames resolves the weak DJ references of an event, falling back to the stored free text.
func (s *Store) DJNames(ctx context.Context, e *model.Event) []string {
	var names []string
	for _, id := range e.DJIDs {
		dj, err := s.DJ(ctx, id)
		if err != nil {
			continue
		}
		names = append(names, dj.Name)
	}
	if len(names) == 0 && e.DJName != "" {
		names = append(names, e.DJName)
	}
	return names
}

// LocalName resolves the weak local reference of an event, falling back to the stored free text.
func (s *Store) LocalName(ctx context.Context, e *model.Event) string {
	if l, err := s.Local(ctx, e.LocalID); err == nil {
		return l.Name
	}
	return e.LocalName
}

// terms lists the term ids of a post; failures read as no terms.
func (s *Store) terms(ctx context.Context, id int64, taxonomy string) []int64 {
	ids, err := s.ObjectTerms(ctx, id, taxonomy)
	if err != nil {
		return nil
	}
	return ids
}

// TermNames resolves ids of one taxonomy to names, skipping unknown ids.
func (s *Store) TermNames(ctx context.Context, taxonomy string, ids []int64) []string {
	var names []string
	for _, id := range ids {
		t, err := s.TermByID(ctx, taxonomy, id)
		if err != nil || t == nil {
			continue
		}
		names = append(names, t.Name)
	}
	return names
}

// Duplicate clones a post with its meta and terms under a new status.
// Keys listed in skip are not copied.
func (s *Store) Duplicate(ctx context.Context, id int64, status model.Status, skip ...string) (int64, error) {
	p, err := s.GetPost(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("duplicate: %w", err)
	}
	clone := *p
	clone.ID = 0
	clone.Status = status
	clone.Date = s.now().UTC()
	newID, err := s.Insert(ctx, &clone)
	if err != nil {
		return 0, fmt.Errorf("duplicate: %w", err)
	}

	skipped := map[string]bool{MetaTrashStatus: true}
	for _, k := range skip {
		skipped[k] = true
	}
	meta, err := s.AllMeta(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("duplicate: reading meta: %w", err)
	}
	for k, v := range meta {
		if skipped[k] {
			continue
		}
		if err := s.SetMeta(ctx, newID, k, v); err != nil {
			return 0, fmt.Errorf("duplicate: copying %s: %w", k, err)
		}
	}

	for _, tax := range []string{model.TaxonomyCategory, model.TaxonomyEventType} {
		ids, err := s.ObjectTerms(ctx, id, tax)
		if err != nil {
			return 0, fmt.Errorf("duplicate: reading %s: %w", tax, err)
		}
		if len(ids) == 0 {
			continue
		}
		if err := s.SetObjectTerms(ctx, newID, tax, ids); err != nil {
			return 0, fmt.Errorf("duplicate: copying %s: %w", tax, err)
		}
	}
	return newID, nil
}

// IsNotFound reports whether err ends in ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// ParseIDs reads a comma separated id list, ignoring anything that is not a positive integer.
func ParseIDs(s string) []int64 {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		if id := atoi(strings.TrimSpace(part)); id > 0 {
			ids = append(ids, id)
		}
	}
	return ids
}

// JoinIDs is the inverse of ParseIDs.
func JoinIDs(ids []int64) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	return strings.Join(parts, ",")
}

func socials(m map[string]string, prefix string) model.Socials {
	get := func(name string) string {
		return m["_"+prefix+"_"+name]
	}
	return model.Socials{
		Facebook:   get("facebook"),
		Instagram:  get("instagram"),
		Twitter:    get("twitter"),
		YouTube:    get("youtube"),
		LinkedIn:   get("linkedin"),
		Xing:       get("xing"),
		Pinterest:  get("pinterest"),
		GooglePlus: get("google_plus"),
	}
}

func atoi(s string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// SplitValues reads a comma separated meta value of a multiple field.
func SplitValues(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
