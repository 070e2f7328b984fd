package render

import (
	"context"
	"strings"

	"event-manager-backend/geo"
	"event-manager-backend/model"
	"event-manager-backend/option"
	"event-manager-backend/schema"
	"event-manager-backend/store"
)

// EventRow is the display form of one event in a listing.
type EventRow struct {
	ID        int64
	Title     string
	URL       string
	Banner    string
	Date      string
	EndDate   string
	Location  string
	MapLink   string
	Online    bool
	Featured  bool
	Cancelled bool
	Ticket    string
	Types     []string
	DJs       []string
	Local     string
}

// Rows builds the display rows of events in their given order.
func (r *Renderer) Rows(ctx context.Context, events []*model.Event) []EventRow {
	dateFormat := r.opts.Get(ctx, option.DateFormat)
	timeFormat := r.opts.Get(ctx, option.TimeFormat)
	sep := r.opts.Get(ctx, option.DateTimeSeparator)

	rows := make([]EventRow, 0, len(events))
	for _, e := range events {
		row := EventRow{
			ID:        e.ID,
			Title:     e.Title,
			URL:       r.links.Post(e.ID),
			Banner:    r.banner(ctx, e),
			Date:      when(e.StartDate, e.StartTime, dateFormat, timeFormat, sep),
			EndDate:   when(e.EndDate, e.EndTime, dateFormat, timeFormat, sep),
			Online:    e.Online,
			Featured:  e.Featured,
			Cancelled: e.Cancelled,
			Ticket:    ticketLabel(e),
			Types:     r.store.TermNames(ctx, model.TaxonomyEventType, e.Types),
			DJs:       r.store.DJNames(ctx, e),
			Local:     r.store.LocalName(ctx, e),
		}
		if e.Online {
			row.Location = "Online Event"
		} else {
			row.Location = geo.SafeAddress(e.Location)
			if r.locator != nil && strings.TrimSpace(e.Location) != "" {
				row.MapLink = r.locator.MapLink(ctx, e.ID, e.Location)
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func (r *Renderer) banner(ctx context.Context, e *model.Event) string {
	if b := store.SplitValues(e.Banner); len(b) > 0 {
		return b[0]
	}
	if e.Thumbnail > 0 {
		return r.store.AttachmentURL(ctx, e.Thumbnail)
	}
	return ""
}

func when(date, clock, dateFormat, timeFormat, sep string) string {
	if date == "" {
		return ""
	}
	out := schema.ToPresentation(date, dateFormat)
	if clock != "" {
		out += " " + sep + " " + schema.PresentTime(clock, timeFormat)
	}
	return out
}

func ticketLabel(e *model.Event) string {
	switch e.TicketOption {
	case model.TicketFree:
		return "Free"
	case model.TicketPaid:
		if e.TicketPrice != "" {
			return e.TicketPrice
		}
		return "Paid"
	}
	return ""
}

// Listing renders events with the per-record template; layout is "box" or "list".
func (r *Renderer) Listing(ctx context.Context, events []*model.Event, layout string) (string, error) {
	if layout != "list" {
		layout = "box"
	}
	return r.exec("listing", struct {
		Rows   []EventRow
		Layout string
	}{r.Rows(ctx, events), layout})
}

// RowsHTML renders only the records, for appending to an existing listing.
func (r *Renderer) RowsHTML(ctx context.Context, events []*model.Event) (string, error) {
	return r.exec("event_rows", r.Rows(ctx, events))
}

// Filters is the search form shown above a listing.
type Filters struct {
	Action       string
	Keywords     string
	Location     string
	Datetime     string
	Categories   []model.Term
	EventTypes   []model.Term
	Selected     []string
	TicketPrices bool
}

func (r *Renderer) Filters(ctx context.Context, f Filters) (string, error) {
	if r.opts.Bool(ctx, option.EnableCategories) && f.Categories == nil {
		f.Categories, _ = r.store.ListTerms(ctx, model.TaxonomyCategory)
	}
	if r.opts.Bool(ctx, option.EnableEventTypes) && f.EventTypes == nil {
		f.EventTypes, _ = r.store.ListTerms(ctx, model.TaxonomyEventType)
	}
	f.TicketPrices = r.opts.Bool(ctx, option.EnableTicketPrices)
	return r.exec("filters", f)
}
