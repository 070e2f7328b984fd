package shortcode

import (
	"context"
	"sort"
	"strings"

	"event-manager-backend/model"
	"event-manager-backend/render"
	"event-manager-backend/store"
)

// directory lists every published dj or local by name with its event count.
func (r *Registry) directory(kind model.Kind) Func {
	return func(ctx context.Context, req *Request) (*Output, error) {
		res, err := r.store.Search(ctx, &store.Query{
			PostTypes: []model.PostType{kind.PostType()},
			Statuses:  []model.Status{model.StatusPublish},
			OrderBy:   []store.Order{{Field: store.OrderTitle}},
		})
		if err != nil {
			return nil, err
		}
		items := make([]render.EntityItem, 0, len(res.Posts))
		for _, p := range res.Posts {
			items = append(items, render.EntityItem{
				Name:  p.Title,
				URL:   r.links.Post(p.ID),
				Logo:  r.store.AttachmentURL(ctx, atoi(r.store.Meta(ctx, p.ID, store.MetaThumbnail))),
				Count: len(r.dash.Related(ctx, kind, p.ID)),
			})
		}
		sort.SliceStable(items, func(i, j int) bool {
			return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
		})
		return html(r.renderer.EntityList(kind, items))
	}
}

// profile renders the single view of the dj or local id with its events.
func (r *Registry) profile(kind model.Kind) Func {
	return func(ctx context.Context, req *Request) (*Output, error) {
		id := req.Attrs.ID()
		events := r.entityEvents(ctx, kind, id)
		switch kind {
		case model.KindDJ:
			d, err := r.store.DJ(ctx, id)
			if err != nil || d.Status != model.StatusPublish {
				return missing(err)
			}
			return html(r.renderer.Profile(r.renderer.DJProfile(ctx, d, events, r.engine.Now())))
		default:
			l, err := r.store.Local(ctx, id)
			if err != nil || l.Status != model.StatusPublish {
				return missing(err)
			}
			return html(r.renderer.Profile(r.renderer.LocalProfile(ctx, l, events, r.engine.Now())))
		}
	}
}

func (r *Registry) entityEvents(ctx context.Context, kind model.Kind, id int64) []*model.Event {
	posts := r.dash.Related(ctx, kind, id)
	out := make([]*model.Event, 0, len(posts))
	for i := range posts {
		out = append(out, r.store.EventFromPost(ctx, &posts[i]))
	}
	return out
}

// eventDJs renders the profiles of every dj of the event id. Names without a
// stored dj are shown as plain profiles.
func (r *Registry) eventDJs(ctx context.Context, req *Request) (*Output, error) {
	e, ok, err := r.visible(ctx, req.Attrs.ID())
	if err != nil || !ok {
		return missing(err)
	}
	var b strings.Builder
	for _, id := range e.DJIDs {
		d, err := r.store.DJ(ctx, id)
		if err != nil {
			continue
		}
		out, err := r.renderer.Profile(r.renderer.DJProfile(ctx, d, nil, r.engine.Now()))
		if err != nil {
			return nil, err
		}
		b.WriteString(out)
	}
	if b.Len() == 0 && e.DJName != "" {
		out, err := r.renderer.Profile(render.Profile{Kind: model.KindDJ, Name: e.DJName})
		if err != nil {
			return nil, err
		}
		b.WriteString(out)
	}
	return &Output{HTML: b.String()}, nil
}

// eventLocal renders the local of the event id, falling back to its stored name.
func (r *Registry) eventLocal(ctx context.Context, req *Request) (*Output, error) {
	e, ok, err := r.visible(ctx, req.Attrs.ID())
	if err != nil || !ok {
		return missing(err)
	}
	if l, err := r.store.Local(ctx, e.LocalID); err == nil {
		return html(r.renderer.Profile(r.renderer.LocalProfile(ctx, l, nil, r.engine.Now())))
	}
	if e.LocalName == "" {
		return &Output{}, nil
	}
	return html(r.renderer.Profile(render.Profile{Kind: model.KindLocal, Name: e.LocalName, Address: e.Address}))
}

// missing turns not found into an empty block and passes other errors on.
func missing(err error) (*Output, error) {
	if err != nil && !store.IsNotFound(err) {
		return nil, err
	}
	return &Output{}, nil
}

func atoi(s string) int64 {
	ids := store.ParseIDs(s)
	if len(ids) == 0 {
		return 0
	}
	return ids[0]
}
