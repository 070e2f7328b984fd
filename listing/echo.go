package listing

import (
	"context"
	"strings"

	"event-manager-backend/logger"
	"event-manager-backend/model"
	"event-manager-backend/option"
)

var ticketLabels = map[string]string{
	model.TicketFree: "Free",
	model.TicketPaid: "Paid",
	"any":            "Any Ticket Price",
}

// Echo is the active filter set in display form, in request order.
type Echo struct {
	Categories   []string `json:"categories,omitempty"`
	EventTypes   []string `json:"event_types,omitempty"`
	Datetimes    []string `json:"datetimes,omitempty"`
	TicketPrices []string `json:"ticket_prices,omitempty"`
	Keywords     string   `json:"keywords,omitempty"`
	Location     string   `json:"location,omitempty"`
}

// Groups is every non-empty filter group joined for display; keywords come last, quoted.
func (e Echo) Groups() []string {
	var out []string
	for _, g := range [][]string{e.Categories, e.EventTypes, e.Datetimes, e.TicketPrices} {
		if len(g) > 0 {
			out = append(out, strings.Join(g, ", "))
		}
	}
	if e.Keywords != "" {
		out = append(out, "“"+e.Keywords+"”")
	}
	return out
}

func (e Echo) Empty() bool {
	return len(e.Groups()) == 0 && e.Location == ""
}

func (e *Engine) echo(ctx context.Context, q model.ListingQuery) Echo {
	out := Echo{
		Categories: e.termNames(ctx, model.TaxonomyCategory, q.Categories),
		EventTypes: e.termNames(ctx, model.TaxonomyEventType, q.EventTypes),
		Keywords:   q.Keywords,
		Location:   q.Location,
	}
	format := e.opts.Get(ctx, option.DateFormat)
	for _, r := range q.DateRanges {
		if l := rangeLabel(r, format, e.now()); l != "" {
			out.Datetimes = append(out.Datetimes, l)
		}
	}
	for _, p := range q.TicketPrices {
		if l, ok := ticketLabels[ticketValue(p)]; ok {
			out.TicketPrices = append(out.TicketPrices, l)
		}
	}
	return out
}

// termNames resolves ids or slugs to names, skipping unknown terms.
func (e *Engine) termNames(ctx context.Context, taxonomy string, values []string) []string {
	var names []string
	for _, v := range values {
		t, err := e.store.ResolveTerm(ctx, taxonomy, v)
		if err != nil {
			logger.Warnf(ctx, "termNames: resolve %s %q: %v", taxonomy, v, err)
			continue
		}
		if t != nil {
			names = append(names, t.Name)
		}
	}
	return names
}
