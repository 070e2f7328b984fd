package render

import (
	"context"
	"fmt"
	"html/template"
	"strconv"

	"event-manager-backend/dashboard"
	"event-manager-backend/model"
	"event-manager-backend/option"
	"event-manager-backend/permalink"
)

var actionLabels = map[string]string{
	dashboard.ActionEdit:      "Edit",
	dashboard.ActionCancel:    "Mark cancelled",
	dashboard.ActionUncancel:  "Mark not cancelled",
	dashboard.ActionDelete:    "Delete",
	dashboard.ActionDuplicate: "Duplicate",
	dashboard.ActionRelist:    "Relist",
}

type actionLink struct {
	Action string
	Label  string
	URL    string
}

type dashboardRow struct {
	Title     string
	URL       string
	Cancelled bool
	Cells     []string
	Actions   []actionLink
}

// DashboardURL is the page hosting the dashboard of kind, or the home page.
func (r *Renderer) DashboardURL(ctx context.Context, kind model.Kind) string {
	if id := r.opts.Int(ctx, option.PageID(string(kind)+"_dashboard")); id > 0 {
		return r.links.Page(int64(id))
	}
	return r.links.Home()
}

// Dashboard renders a page of an owner dashboard with its row action links.
func (r *Renderer) Dashboard(ctx context.Context, page *dashboard.Page) (string, error) {
	base := r.DashboardURL(ctx, page.Kind)
	dateFormat := r.opts.Get(ctx, option.DateFormat)
	timeFormat := r.opts.Get(ctx, option.TimeFormat)
	sep := r.opts.Get(ctx, option.DateTimeSeparator)

	columns := []string{"Title", "Events"}
	empty := fmt.Sprintf("You do not have any %s.", page.Kind)
	if page.Kind == model.KindEvent {
		columns = []string{"Title", "Start Date", "End Date", "Location", "Status"}
		empty = "You do not have any active listings."
	}

	rows := make([]dashboardRow, 0, len(page.Rows))
	for _, row := range page.Rows {
		dr := dashboardRow{Title: row.Post.Title, URL: r.links.Post(row.Post.ID)}
		if e := row.Event; e != nil {
			loc := e.Location
			if e.Online {
				loc = "Online Event"
			}
			dr.Cancelled = e.Cancelled
			dr.Cells = []string{
				when(e.StartDate, e.StartTime, dateFormat, timeFormat, sep),
				when(e.EndDate, e.EndTime, dateFormat, timeFormat, sep),
				loc,
				row.Status,
			}
		} else {
			dr.Cells = []string{strconv.Itoa(len(row.Events))}
		}
		for _, a := range row.Actions {
			link := permalink.With(base, map[string]string{
				"action":                     a,
				dashboard.IDParam(page.Kind): strconv.FormatInt(row.Post.ID, 10),
				"_wpnonce":                   page.Nonce,
			})
			dr.Actions = append(dr.Actions, actionLink{Action: a, Label: actionLabels[a], URL: link})
		}
		rows = append(rows, dr)
	}

	pagination, err := r.Pagination(page.MaxPages, page.Page)
	if err != nil {
		return "", err
	}
	return r.exec("dashboard", struct {
		Kind       model.Kind
		Keywords   string
		Banners    []dashboard.Banner
		Columns    []string
		Rows       []dashboardRow
		Empty      string
		Pagination template.HTML
	}{page.Kind, page.Keywords, page.Banners, columns, rows, empty, safe(pagination)})
}
