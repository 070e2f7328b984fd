package render

import (
	"context"
	"html/template"
	"strings"
	"time"

	"event-manager-backend/model"
	"event-manager-backend/option"
	"event-manager-backend/sanitize"
	"event-manager-backend/store"
)

// EventPage renders the single view of an event.
func (r *Renderer) EventPage(ctx context.Context, e *model.Event, now time.Time) (string, error) {
	rows := r.Rows(ctx, []*model.Event{e})
	register, err := r.Register(ctx, e, now)
	if err != nil {
		return "", err
	}
	return r.exec("event_single", struct {
		Row         EventRow
		Expired     bool
		Description template.HTML
		Categories  []string
		Register    template.HTML
	}{
		Row:         rows[0],
		Expired:     e.Status == model.StatusExpired,
		Description: template.HTML(sanitize.RichText(e.Description)),
		Categories:  r.store.TermNames(ctx, model.TaxonomyCategory, e.Categories),
		Register:    safe(register),
	})
}

// Summary renders compact rows for the event_summary shortcode.
func (r *Renderer) Summary(ctx context.Context, events []*model.Event, align string) (string, error) {
	return r.exec("summary", struct {
		Rows  []EventRow
		Align string
	}{r.Rows(ctx, events), align})
}

// RegistrationClosed reports whether registration is over at now.
func RegistrationClosed(e *model.Event, now time.Time) bool {
	if e.Status == model.StatusExpired || e.Cancelled {
		return true
	}
	if e.RegistrationDeadline == "" {
		return false
	}
	return e.RegistrationDeadline < now.Format("2006-01-02")
}

// Register renders how to register: a link for URLs, a mailto for emails.
func (r *Renderer) Register(ctx context.Context, e *model.Event, now time.Time) (string, error) {
	reg := strings.TrimSpace(e.Registration)
	if reg == "" {
		return "", nil
	}
	data := struct {
		Closed bool
		URL    string
		Email  string
	}{Closed: RegistrationClosed(e, now)}
	if strings.Contains(reg, "@") && !strings.Contains(reg, "://") {
		data.Email = sanitize.Email(reg)
	} else {
		data.URL = sanitize.URL(reg)
	}
	return r.exec("register", data)
}

// EntityItem is one dj or local in a directory listing.
type EntityItem struct {
	Name  string
	URL   string
	Logo  string
	Count int
}

// EntityList renders a directory of djs or locals.
func (r *Renderer) EntityList(kind model.Kind, items []EntityItem) (string, error) {
	return r.exec("entity_list", struct {
		Kind  model.Kind
		Items []EntityItem
		Empty string
	}{kind, items, "There are no " + string(kind) + "s."})
}

// Profile is the single view of a dj or local.
type Profile struct {
	Kind        model.Kind
	Name        string
	Logo        string
	Tagline     string
	Description template.HTML
	Address     string
	Website     string
	Socials     []model.Option
	Upcoming    []EventRow
	Past        []EventRow
}

// DJProfile builds the profile of d with its events split at today.
func (r *Renderer) DJProfile(ctx context.Context, d *model.DJ, events []*model.Event, now time.Time) Profile {
	p := Profile{
		Kind:        model.KindDJ,
		Name:        d.Name,
		Logo:        r.logo(ctx, d.Logo, d.Thumbnail),
		Tagline:     d.Tagline,
		Description: template.HTML(sanitize.RichText(d.Description)),
		Website:     d.Website,
		Socials:     socialLinks(d.Socials),
	}
	p.Upcoming, p.Past = r.split(ctx, events, now)
	return p
}

// LocalProfile builds the profile of l with its events split at today.
func (r *Renderer) LocalProfile(ctx context.Context, l *model.Local, events []*model.Event, now time.Time) Profile {
	p := Profile{
		Kind:        model.KindLocal,
		Name:        l.Name,
		Logo:        r.logo(ctx, l.Logo, l.Thumbnail),
		Description: template.HTML(sanitize.RichText(l.Description)),
		Address:     l.Address,
		Website:     l.Website,
		Socials:     socialLinks(l.Socials),
	}
	p.Upcoming, p.Past = r.split(ctx, events, now)
	return p
}

func (r *Renderer) Profile(p Profile) (string, error) {
	return r.exec("entity_single", p)
}

func (r *Renderer) logo(ctx context.Context, logo string, thumbnail int64) string {
	if l := store.SplitValues(logo); len(l) > 0 {
		return l[0]
	}
	if thumbnail > 0 {
		return r.store.AttachmentURL(ctx, thumbnail)
	}
	return ""
}

// split separates events ending before today from the rest.
func (r *Renderer) split(ctx context.Context, events []*model.Event, now time.Time) ([]EventRow, []EventRow) {
	today := now.Format("2006-01-02")
	var upcoming, past []*model.Event
	for _, e := range events {
		end := e.EndDate
		if end == "" {
			end = e.StartDate
		}
		if end != "" && end < today {
			past = append(past, e)
			continue
		}
		upcoming = append(upcoming, e)
	}
	return r.Rows(ctx, upcoming), r.Rows(ctx, past)
}

func socialLinks(s model.Socials) []model.Option {
	var out []model.Option
	for _, o := range []model.Option{
		{Label: "facebook", Value: s.Facebook},
		{Label: "instagram", Value: s.Instagram},
		{Label: "twitter", Value: s.Twitter},
		{Label: "youtube", Value: s.YouTube},
		{Label: "linkedin", Value: s.LinkedIn},
		{Label: "xing", Value: s.Xing},
		{Label: "pinterest", Value: s.Pinterest},
		{Label: "google-plus", Value: s.GooglePlus},
	} {
		if o.Value != "" {
			out = append(out, o)
		}
	}
	return out
}

// DirectoryEnabled reports whether the directory of kind is switched on.
func (r *Renderer) DirectoryEnabled(ctx context.Context, kind model.Kind) bool {
	switch kind {
	case model.KindDJ:
		return r.opts.Bool(ctx, option.EnableDJs)
	case model.KindLocal:
		return r.opts.Bool(ctx, option.EnableLocals)
	}
	return true
}
