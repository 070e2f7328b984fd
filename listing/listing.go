package listing

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"event-manager-backend/hook"
	"event-manager-backend/logger"
	"event-manager-backend/model"
	"event-manager-backend/option"
	"event-manager-backend/schema"
	"event-manager-backend/store"
)

// Meta keys the engine filters and sorts on.
const (
	metaStartDate    = "_event_start_date"
	metaStartTime    = "_event_start_time"
	metaEndDate      = "_event_end_date"
	metaLocation     = "_event_location"
	metaOnline       = "_event_online"
	metaTicketOption = "_event_ticket_options"
)

// Result is one page of a listing.
type Result struct {
	Events   []*model.Event
	Total    int
	MaxPages int
	Hidden   int
	Echo     Echo
	Query    model.ListingQuery
}

// Engine runs listing queries over published events.
type Engine struct {
	store *store.Store
	opts  *option.Options
	hooks *hook.Bus
	now   func() time.Time
}

// New builds an engine whose clock reads in loc, the site timezone.
func New(s *store.Store, opts *option.Options, hooks *hook.Bus, loc *time.Location) *Engine {
	if loc == nil {
		loc = time.UTC
	}
	return &Engine{
		store: s,
		opts:  opts,
		hooks: hooks,
		now:   func() time.Time { return time.Now().In(loc) },
	}
}

// Now is the engine clock in the site timezone.
func (e *Engine) Now() time.Time {
	return e.now()
}

// Normalize fills defaults and drops inputs the engine would ignore.
func (e *Engine) Normalize(ctx context.Context, q model.ListingQuery) model.ListingQuery {
	q.Keywords = strings.TrimSpace(q.Keywords)
	if q.Keywords != "" && utf8.RuneCountInString(q.Keywords) < e.opts.Int(ctx, option.KeywordLengthThreshold) {
		q.Keywords = ""
	}
	q.Location = strings.TrimSpace(q.Location)
	q.Categories = compact(q.Categories)
	q.EventTypes = compact(q.EventTypes)
	q.TicketPrices = compact(q.TicketPrices)

	ranges := q.DateRanges[:0:0]
	for _, r := range q.DateRanges {
		if _, _, ok := resolveRange(r, e.opts.Get(ctx, option.DateFormat), e.now()); ok {
			ranges = append(ranges, r)
		}
	}
	q.DateRanges = ranges

	if q.PerPage <= 0 {
		if q.Unbounded {
			q.PerPage = 0
		} else {
			q.PerPage = e.opts.Int(ctx, option.PerPage)
		}
	}
	if q.Page > 0 && q.PerPage > 0 {
		q.Offset = (q.Page - 1) * q.PerPage
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	if len(q.Statuses) == 0 {
		q.Statuses = []model.Status{model.StatusPublish}
	}

	q.OrderBy = strings.TrimSpace(q.OrderBy)
	if q.OrderBy == "" {
		q.OrderBy = OrderStartDate
	}
	if q.Featured == model.Yes && q.OrderBy == OrderFeatured {
		q.OrderBy = OrderDate
	}
	q.Order = strings.ToUpper(strings.TrimSpace(q.Order))
	if q.Order != "DESC" {
		q.Order = "ASC"
	}
	if q.Seed == 0 {
		seed, _ := strconv.ParseInt(e.now().Format("20060102"), 10, 64)
		q.Seed = seed
	}
	return q
}

// Query normalizes q, runs it and drops events hidden by extensions.
func (e *Engine) Query(ctx context.Context, q model.ListingQuery) (*Result, error) {
	q = e.Normalize(ctx, q)
	sq := e.build(ctx, q)

	res, err := e.store.Search(ctx, sq)
	if err != nil {
		return nil, fmt.Errorf("query: search events: %w", err)
	}

	out := &Result{Total: res.Total, MaxPages: res.MaxPages, Query: q}
	for i := range res.Posts {
		ev := e.store.EventFromPost(ctx, &res.Posts[i])
		if e.hooks.ApplyBool(ctx, hook.HideEvent, false, ev) {
			out.Hidden++
			continue
		}
		out.Events = append(out.Events, ev)
	}
	out.Total -= out.Hidden
	if out.Total < 0 {
		out.Total = 0
	}
	out.Echo = e.echo(ctx, q)
	logger.Debugf(ctx, "query: found %d events, %d hidden, page size %d", out.Total, out.Hidden, q.PerPage)
	return out, nil
}

// AnyPublished reports whether at least one event is published at all.
func (e *Engine) AnyPublished(ctx context.Context) (bool, error) {
	n, err := e.store.Count(ctx, store.Query{
		PostTypes: []model.PostType{model.PostTypeEvent},
		Statuses:  []model.Status{model.StatusPublish},
	})
	if err != nil {
		return false, fmt.Errorf("anyPublished: %w", err)
	}
	return n > 0, nil
}

func (e *Engine) build(ctx context.Context, q model.ListingQuery) *store.Query {
	today := e.now().Format(schema.DateLayout)
	meta := &store.MetaQuery{Relation: store.RelationAnd}

	switch {
	case q.PastOnly:
		meta.Groups = append(meta.Groups, pastWindow(today))
	case q.NoWindow:
	case len(q.DateRanges) > 0 && !q.UpcomingOnly:
	default:
		meta.Groups = append(meta.Groups, upcomingWindow(today))
	}

	if len(q.DateRanges) > 0 {
		format := e.opts.Get(ctx, option.DateFormat)
		anyRange := store.MetaQuery{Relation: store.RelationOr}
		for _, r := range q.DateRanges {
			start, end, ok := resolveRange(r, format, e.now())
			if !ok {
				continue
			}
			anyRange.Groups = append(anyRange.Groups, overlap(start, end))
		}
		if !anyRange.Empty() {
			meta.Groups = append(meta.Groups, anyRange)
		}
	}

	cancelled := q.Cancelled
	if cancelled == model.Unset {
		cancelled = model.No
	}
	meta.Clauses = append(meta.Clauses, flagClauses(store.MetaCancelled, "1", cancelled)...)
	meta.Clauses = append(meta.Clauses, flagClauses(store.MetaFeatured, "1", q.Featured)...)
	meta.Clauses = append(meta.Clauses, flagClauses(metaOnline, "yes", q.Online)...)

	if q.Location != "" {
		meta.Clauses = append(meta.Clauses, store.MetaClause{Key: metaLocation, Value: q.Location, Compare: store.CompareLike})
	}
	if tickets := ticketOptions(q.TicketPrices); len(tickets) > 0 {
		meta.Clauses = append(meta.Clauses, store.MetaClause{Key: metaTicketOption, Values: tickets, Compare: store.CompareIn})
	}

	sq := &store.Query{
		PostTypes: []model.PostType{model.PostTypeEvent},
		Statuses:  q.Statuses,
		Author:    q.Author,
		Exclude:   q.Exclude,
		Keywords:  q.Keywords,
		OrderBy:   orders(q.OrderBy, q.Order == "DESC"),
		Offset:    q.Offset,
		Limit:     q.PerPage,
		Seed:      q.Seed,
	}
	if !meta.Empty() {
		sq.Meta = meta
	}
	if len(q.Categories) > 0 {
		sq.Tax = append(sq.Tax, e.taxClause(ctx, model.TaxonomyCategory, q.Categories, option.CategoryFilterType))
	}
	if len(q.EventTypes) > 0 {
		sq.Tax = append(sq.Tax, e.taxClause(ctx, model.TaxonomyEventType, q.EventTypes, option.EventTypeFilterType))
	}
	return sq
}

// taxClause matches every term when the site setting asks for all of them, any otherwise.
// Children of the selected terms only count for the any form.
func (e *Engine) taxClause(ctx context.Context, taxonomy string, terms []string, setting string) store.TaxClause {
	operator := store.OperatorIn
	if e.opts.Get(ctx, setting) == option.FilterAll && len(terms) > 1 {
		operator = store.OperatorAnd
	}
	return store.TaxClause{
		Taxonomy:        taxonomy,
		Terms:           terms,
		Operator:        operator,
		IncludeChildren: operator != store.OperatorAnd,
	}
}

func upcomingWindow(today string) store.MetaQuery {
	return store.MetaQuery{
		Relation: store.RelationOr,
		Clauses: []store.MetaClause{
			{Key: metaStartDate, Value: today, Compare: store.CompareGTE, Type: store.TypeDate},
			{Key: metaEndDate, Value: today, Compare: store.CompareGTE, Type: store.TypeDate},
		},
	}
}

// pastWindow selects events that ended before today, by start date when no end is set.
func pastWindow(today string) store.MetaQuery {
	return store.MetaQuery{
		Relation: store.RelationOr,
		Clauses: []store.MetaClause{
			{Key: metaEndDate, Value: today, Compare: store.CompareLT, Type: store.TypeDate},
		},
		Groups: []store.MetaQuery{{
			Relation: store.RelationAnd,
			Clauses: []store.MetaClause{
				{Key: metaStartDate, Value: today, Compare: store.CompareLT, Type: store.TypeDate},
			},
			Groups: []store.MetaQuery{noEndDate()},
		}},
	}
}

// overlap matches events running at some point between start and end.
func overlap(start, end string) store.MetaQuery {
	return store.MetaQuery{
		Relation: store.RelationAnd,
		Clauses: []store.MetaClause{
			{Key: metaStartDate, Value: end, Compare: store.CompareLTE, Type: store.TypeDate},
		},
		Groups: []store.MetaQuery{{
			Relation: store.RelationOr,
			Clauses: []store.MetaClause{
				{Key: metaEndDate, Value: start, Compare: store.CompareGTE, Type: store.TypeDate},
			},
			Groups: []store.MetaQuery{{
				Relation: store.RelationAnd,
				Clauses: []store.MetaClause{
					{Key: metaStartDate, Value: start, Compare: store.CompareGTE, Type: store.TypeDate},
				},
				Groups: []store.MetaQuery{noEndDate()},
			}},
		}},
	}
}

func noEndDate() store.MetaQuery {
	return store.MetaQuery{
		Relation: store.RelationOr,
		Clauses: []store.MetaClause{
			{Key: metaEndDate, Compare: store.CompareNotExists},
			{Key: metaEndDate, Value: "", Compare: store.CompareEqual},
		},
	}
}

func flagClauses(key, on string, t model.Tristate) []store.MetaClause {
	switch t {
	case model.Yes:
		return []store.MetaClause{{Key: key, Value: on, Compare: store.CompareEqual}}
	case model.No:
		return []store.MetaClause{{Key: key, Value: on, Compare: store.CompareNotEqual}}
	}
	return nil
}

// ticketOptions maps ticket price filter values to stored ticket options.
// Selecting every option, or "any", disables the filter.
func ticketOptions(prices []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, p := range prices {
		v := ticketValue(p)
		switch v {
		case "":
			continue
		case "any":
			return nil
		}
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	if seen[model.TicketFree] && seen[model.TicketPaid] {
		return nil
	}
	return out
}

func ticketValue(p string) string {
	p = strings.ToLower(strings.TrimSpace(p))
	p = strings.TrimPrefix(p, "ticket_price_")
	switch p {
	case model.TicketFree, model.TicketPaid, "any":
		return p
	}
	return ""
}

func compact(in []string) []string {
	var out []string
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
