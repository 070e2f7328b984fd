package shortcode

import (
	"context"
	"strconv"

	"event-manager-backend/listing"
	"event-manager-backend/model"
	"event-manager-backend/option"
	"event-manager-backend/render"
	"event-manager-backend/store"
)

const noEvents = "There are no events matching your search."

// query reads the listing attributes shared by the listing shortcodes.
func query(a Attrs) model.ListingQuery {
	q := model.ListingQuery{
		Keywords:     a.Get("keywords"),
		Location:     a.Get("location"),
		Categories:   store.SplitValues(a.Get("categories")),
		EventTypes:   store.SplitValues(a.Get("event_types")),
		TicketPrices: store.SplitValues(a.Get("ticket_prices")),
		Featured:     model.ParseTristate(a.Get("featured")),
		Cancelled:    model.ParseTristate(a.Get("cancelled")),
		Online:       model.ParseTristate(a.Get("event_online")),
		OrderBy:      a.Get("orderby"),
		Order:        a.Get("order"),
		PerPage:      a.Int("per_page", 0),
	}
	if q.OrderBy == "meta_value" {
		q.OrderBy = listing.OrderStartDate
	}
	if dt := a.Get("selected_datetime"); dt != "" {
		if r, ok := listing.ParseDateRange(dt); ok {
			q.DateRanges = append(q.DateRanges, r)
		}
	}
	return q
}

func (r *Registry) block(ctx context.Context, req *Request, q model.ListingQuery, filters bool) (*Output, error) {
	q.Page = req.page()
	res, err := r.engine.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	b := render.Block{
		Layout:     req.Attrs.Get("layout_type"),
		Pagination: req.Attrs.Bool("show_pagination", false),
		Page:       q.Page,
		NoResults:  noEvents,
	}
	if filters {
		b.Filters = &render.Filters{
			Action:   req.URL,
			Keywords: q.Keywords,
			Location: q.Location,
			Datetime: req.Attrs.Get("selected_datetime"),
			Selected: append(append([]string(nil), q.Categories...), q.EventTypes...),
		}
	}
	return html(r.renderer.Events(ctx, res, b))
}

func (r *Registry) events(ctx context.Context, req *Request) (*Output, error) {
	return r.block(ctx, req, query(req.Attrs), req.Attrs.Bool("show_filters", true))
}

func (r *Registry) pastEvents(ctx context.Context, req *Request) (*Output, error) {
	q := query(req.Attrs)
	q.PastOnly = true
	q.Statuses = []model.Status{model.StatusPublish, model.StatusExpired}
	q.OrderBy = req.Attrs.Or("orderby", listing.OrderStartDate)
	q.Order = req.Attrs.Or("order", "DESC")
	if _, ok := req.Attrs["show_pagination"]; !ok {
		req.Attrs["show_pagination"] = "true"
	}
	return r.block(ctx, req, q, false)
}

func (r *Registry) upcomingEvents(ctx context.Context, req *Request) (*Output, error) {
	q := query(req.Attrs)
	q.UpcomingOnly = true
	return r.block(ctx, req, q, false)
}

// relatedEvents lists upcoming events sharing a type or category with the event id.
func (r *Registry) relatedEvents(ctx context.Context, req *Request) (*Output, error) {
	e, err := r.store.Event(ctx, req.Attrs.ID())
	if err != nil {
		if store.IsNotFound(err) {
			return &Output{}, nil
		}
		return nil, err
	}
	q := model.ListingQuery{
		EventTypes: ids(e.Types),
		PerPage:    req.Attrs.Int("per_page", 5),
		Exclude:    []int64{e.ID},
	}
	if len(q.EventTypes) == 0 {
		q.Categories = ids(e.Categories)
	}
	res, err := r.engine.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(res.Events) == 0 {
		return &Output{}, nil
	}
	return html(r.renderer.Listing(ctx, res.Events, req.Attrs.Get("layout_type")))
}

func ids(in []int64) []string {
	out := make([]string, 0, len(in))
	for _, id := range in {
		out = append(out, strconv.FormatInt(id, 10))
	}
	return out
}

// visible loads an event a visitor may see: published, or expired while
// expired content is shown.
func (r *Registry) visible(ctx context.Context, id int64) (*model.Event, bool, error) {
	e, err := r.store.Event(ctx, id)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	switch e.Status {
	case model.StatusPublish:
		return e, true, nil
	case model.StatusExpired:
		return e, !r.opts.Bool(ctx, option.HideExpired), nil
	}
	return e, false, nil
}

func (r *Registry) event(ctx context.Context, req *Request) (*Output, error) {
	e, ok, err := r.visible(ctx, req.Attrs.ID())
	if err != nil {
		return nil, err
	}
	if !ok {
		return &Output{HTML: "You are not allowed to view this event."}, nil
	}
	return html(r.renderer.EventPage(ctx, e, r.engine.Now()))
}

// summary renders one event by id, or a featured-filtered selection limited by limit.
func (r *Registry) summary(ctx context.Context, req *Request) (*Output, error) {
	align := req.Attrs.Or("align", "left")
	if id := req.Attrs.ID(); id > 0 {
		e, ok, err := r.visible(ctx, id)
		if err != nil {
			return nil, err
		}
		if !ok {
			return &Output{}, nil
		}
		return html(r.renderer.Summary(ctx, []*model.Event{e}, align))
	}

	q := model.ListingQuery{
		Featured:  model.ParseTristate(req.Attrs.Get("featured")),
		PerPage:   req.Attrs.Int("limit", -1),
		Unbounded: true,
		OrderBy:   listing.OrderRand,
		NoWindow:  true,
	}
	res, err := r.engine.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	return html(r.renderer.Summary(ctx, res.Events, align))
}

func (r *Registry) register(ctx context.Context, req *Request) (*Output, error) {
	e, ok, err := r.visible(ctx, req.Attrs.ID())
	if err != nil {
		return nil, err
	}
	if !ok {
		return &Output{}, nil
	}
	out, err := r.renderer.Register(ctx, e, r.engine.Now())
	if err != nil {
		return nil, err
	}
	return &Output{HTML: `<div class="event-manager-registration-wrapper">` + out + `</div>`}, nil
}
