package render

import (
	"context"
	"html/template"

	"event-manager-backend/listing"
)

// Block configures a full listing: optional filter form, records and paging.
type Block struct {
	// Filters is rendered above the records when set.
	Filters    *Filters
	Layout     string
	Pagination bool
	Page       int
	NoResults  string
}

// Events renders a listing result as a complete block. Without numbered
// pagination a load more link is shown while pages remain.
func (r *Renderer) Events(ctx context.Context, res *listing.Result, b Block) (string, error) {
	if b.Page < 1 {
		b.Page = 1
	}
	if b.Layout != "list" {
		b.Layout = "box"
	}
	data := struct {
		Filters    template.HTML
		Layout     string
		Rows       template.HTML
		Pagination template.HTML
		More       bool
		Next       int
	}{Layout: b.Layout, Next: b.Page + 1}

	if b.Filters != nil {
		out, err := r.Filters(ctx, *b.Filters)
		if err != nil {
			return "", err
		}
		data.Filters = safe(out)
	}

	var rows string
	var err error
	if len(res.Events) == 0 {
		rows, err = r.NoResults(b.NoResults)
	} else {
		rows, err = r.RowsHTML(ctx, res.Events)
	}
	if err != nil {
		return "", err
	}
	data.Rows = safe(rows)

	if b.Pagination {
		out, err := r.Pagination(res.MaxPages, b.Page)
		if err != nil {
			return "", err
		}
		data.Pagination = safe(out)
	} else {
		data.More = res.MaxPages > b.Page
	}
	return r.exec("events_block", data)
}
