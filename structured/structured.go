// Package structured builds the schema.org description search engines read from event pages.
package structured

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"event-manager-backend/hook"
	"event-manager-backend/model"
	"event-manager-backend/permalink"
	"event-manager-backend/sanitize"
	"event-manager-backend/schema"
	"event-manager-backend/store"
)

// Filters extensions may register.
const (
	OutputFilter   = "event_manager_output_event_listing_structured_data"
	IndexingFilter = "event_manager_allow_indexing_event_listing"
	DataFilter     = "event_manager_get_event_listing_structured_data"
)

// ErrNotPublic is returned for events that must not expose structured data.
var ErrNotPublic = errors.New("event is not public")

type PostalAddress struct {
	Type            string `json:"@type"`
	StreetAddress   string `json:"streetAddress,omitempty"`
	AddressLocality string `json:"addressLocality,omitempty"`
	AddressRegion   string `json:"addressRegion,omitempty"`
	PostalCode      string `json:"postalCode,omitempty"`
	AddressCountry  string `json:"addressCountry,omitempty"`
}

// Location is a Place with a postal address, or a VirtualLocation with a URL.
// Address holds a *PostalAddress or the plain location text.
type Location struct {
	Type    string      `json:"@type"`
	Name    string      `json:"name,omitempty"`
	Address interface{} `json:"address,omitempty"`
	URL     string      `json:"url,omitempty"`
}

type Organizer struct {
	Type   string `json:"@type"`
	Name   string `json:"name"`
	SameAs string `json:"sameAs,omitempty"`
	URL    string `json:"url,omitempty"`
}

type Event struct {
	Context             string    `json:"@context"`
	Type                string    `json:"@type"`
	ValidThrough        string    `json:"validThrough,omitempty"`
	Description         string    `json:"description"`
	Name                string    `json:"name"`
	Image               string    `json:"image,omitempty"`
	StartDate           string    `json:"startDate,omitempty"`
	EndDate             string    `json:"endDate,omitempty"`
	Performer           string    `json:"performer,omitempty"`
	EventAttendanceMode string    `json:"eventAttendanceMode"`
	EventStatus         string    `json:"eventStatus"`
	Organizer           Organizer `json:"organizer"`
	Location            Location  `json:"location"`
}

// Emitter builds structured data of events.
type Emitter struct {
	store *store.Store
	hooks *hook.Bus
	links *permalink.Links
	loc   *time.Location
}

// New builds an emitter; loc is the site timezone used for events without their own.
func New(s *store.Store, hooks *hook.Bus, links *permalink.Links, loc *time.Location) *Emitter {
	if loc == nil {
		loc = time.UTC
	}
	return &Emitter{store: s, hooks: hooks, links: links, loc: loc}
}

func public(e *model.Event) bool {
	return e.Status == model.StatusPublish && !e.Cancelled
}

// Allowed reports whether structured data is emitted for e.
func (m *Emitter) Allowed(ctx context.Context, e *model.Event) bool {
	return m.hooks.ApplyBool(ctx, OutputFilter, public(e), e)
}

// AllowIndexing reports whether search engines may index the page of e.
func (m *Emitter) AllowIndexing(ctx context.Context, e *model.Event) bool {
	return m.hooks.ApplyBool(ctx, IndexingFilter, public(e), e)
}

// Build returns the structured data of event id, or ErrNotPublic.
func (m *Emitter) Build(ctx context.Context, id int64) (*Event, error) {
	e, err := m.store.Event(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	if !m.Allowed(ctx, e) {
		return nil, ErrNotPublic
	}

	loc := m.zone(e)
	data := &Event{
		Context:             "http://schema.org/",
		Type:                "Event",
		Description:         e.Description,
		Name:                sanitize.StripTags(e.Title),
		Image:               m.image(ctx, e),
		StartDate:           instant(e.StartDate, e.StartTime, loc),
		EndDate:             instant(e.EndDate, e.EndTime, loc),
		EventAttendanceMode: "OfflineEventAttendanceMode",
		EventStatus:         "EventScheduled",
	}
	if e.Expires != "" {
		data.ValidThrough = instant(e.Expires, "", loc)
	}
	if e.Online {
		data.EventAttendanceMode = "OnlineEventAttendanceMode"
	}

	names := m.store.DJNames(ctx, e)
	data.Performer = strings.Join(names, ", ")
	data.Organizer = Organizer{Type: "Organization", Name: data.Performer}
	if len(e.DJIDs) > 0 {
		if dj, err := m.store.DJ(ctx, e.DJIDs[0]); err == nil && dj.Website != "" {
			data.Organizer.SameAs = dj.Website
			data.Organizer.URL = dj.Website
		}
	}

	if e.Location != "" && !e.Online {
		data.Location = Location{Type: "Place", Name: e.Location, Address: e.Location}
		if addr := address(e); addr != nil {
			data.Location.Address = addr
		}
	} else {
		data.Location = Location{Type: "VirtualLocation", URL: m.links.Post(e.ID)}
	}

	if v, ok := m.hooks.Apply(ctx, DataFilter, data, e).(*Event); ok && v != nil {
		data = v
	}
	return data, nil
}

func (m *Emitter) zone(e *model.Event) *time.Location {
	if e.Timezone != "" {
		if loc, err := time.LoadLocation(e.Timezone); err == nil {
			return loc
		}
	}
	return m.loc
}

func (m *Emitter) image(ctx context.Context, e *model.Event) string {
	if banners := store.SplitValues(e.Banner); len(banners) > 0 {
		return banners[0]
	}
	if e.Thumbnail > 0 {
		return m.store.AttachmentURL(ctx, e.Thumbnail)
	}
	return ""
}

// instant renders a stored date and optional time as ISO-8601 in loc.
// A date without a time stays a plain date.
func instant(date, clock string, loc *time.Location) string {
	if date == "" {
		return ""
	}
	if clock == "" {
		return date
	}
	for _, layout := range []string{schema.TimeLayout, "15:04:05"} {
		if t, err := time.ParseInLocation(schema.DateLayout+" "+layout, date+" "+clock, loc); err == nil {
			return t.Format(time.RFC3339)
		}
	}
	return date
}

// address assembles a postal address from geolocation meta, or nil when nothing is known.
func address(e *model.Event) *PostalAddress {
	geo := func(key string) string { return strings.TrimSpace(e.Meta["geolocation_"+key]) }

	var street []string
	for _, key := range []string{"street_number", "street"} {
		if v := geo(key); v != "" {
			street = append(street, v)
		}
	}
	a := &PostalAddress{
		Type:            "PostalAddress",
		StreetAddress:   strings.Join(street, " "),
		AddressLocality: geo("city"),
		AddressRegion:   geo("state_short"),
		PostalCode:      geo("postcode"),
		AddressCountry:  geo("country_short"),
	}
	if *a == (PostalAddress{Type: "PostalAddress"}) {
		return nil
	}
	return a
}
