package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"event-manager-backend/listing"
	"event-manager-backend/logger"
	"event-manager-backend/model"
	"event-manager-backend/permalink"
	"event-manager-backend/render"
	"event-manager-backend/response"
)

const (
	noEvents     = "There are currently no events."
	noMoreEvents = "No more events found."
)

func listingQuery(v model.Values) model.ListingQuery {
	q := model.ListingQuery{
		Keywords:     v.Get("search_keywords"),
		Location:     v.Get("search_location"),
		Categories:   list(v, "search_categories"),
		EventTypes:   list(v, "search_event_types"),
		TicketPrices: list(v, "search_ticket_prices"),
		OrderBy:      v.Get("orderby"),
		Order:        v.Get("order"),
		Page:         absint(v.Get("page")),
		PerPage:      absint(v.Get("per_page")),
		Featured:     flag(v.Get("featured")),
		Cancelled:    flag(v.Get("cancelled")),
		Online:       flag(v.Get("event_online")),
		Lang:         v.Get("lang"),
	}
	for _, raw := range v["search_datetimes"] {
		if r, ok := listing.ParseDateRange(raw); ok {
			q.DateRanges = append(q.DateRanges, r)
		}
	}
	if q.Page < 1 {
		q.Page = 1
	}
	return q
}

func searchCompleted(total int) string {
	if total == 1 {
		return "Search completed. Found 1 matching record."
	}
	return fmt.Sprintf("Search completed. Found %d matching records.", total)
}

// feedArgs carries the active filters over to the RSS link.
func feedArgs(q model.ListingQuery) map[string]string {
	args := map[string]string{
		"search_keywords":      q.Keywords,
		"search_location":      q.Location,
		"search_categories":    strings.Join(q.Categories, ","),
		"search_event_types":   strings.Join(q.EventTypes, ","),
		"search_ticket_prices": strings.Join(q.TicketPrices, ","),
	}
	var ranges []string
	for _, r := range q.DateRanges {
		ranges = append(ranges, r.Start+"|"+r.End)
	}
	args["search_datetimes"] = strings.Join(ranges, ",")
	return args
}

// GetListings answers the filter form of a listing with the matching records.
func GetListings(engine *listing.Engine, renderer *render.Renderer, links *permalink.Links) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if err := r.ParseForm(); err != nil {
			response.BadRequest("invalid request", err.Error()).Send(ctx, w)
			return
		}
		v := values(r.Form)
		q := listingQuery(v)

		res, err := engine.Query(ctx, q)
		if err != nil {
			logger.Errorf(ctx, "getListings: %v", err)
			response.SomethingWrong().Send(ctx, w)
			return
		}

		out := response.Listings{
			FoundEvents: len(res.Events)+res.Hidden > 0,
			MaxNumPages: res.MaxPages,
		}
		if len(res.Events) > 0 {
			out.HTML, err = renderer.RowsHTML(ctx, res.Events)
		} else {
			out.HTML, err = noResults(ctx, engine, renderer)
		}
		if err != nil {
			logger.Errorf(ctx, "getListings: render: %v", err)
			response.SomethingWrong().Send(ctx, w)
			return
		}

		if !res.Echo.Empty() {
			out.ShowingAppliedFilters = true
			out.FilterValue = searchCompleted(res.Total)
		}
		out.ShowingLinks, err = renderer.ShowingLinks("#", links.Feed(feedArgs(res.Query)))
		if err != nil {
			logger.Errorf(ctx, "getListings: links: %v", err)
		}
		if v.Get("show_pagination") == "true" {
			out.Pagination, err = renderer.Pagination(res.MaxPages, q.Page)
			if err != nil {
				logger.Errorf(ctx, "getListings: pagination: %v", err)
			}
		}
		response.JSON(w, http.StatusOK, out)
	}
}

func noResults(ctx context.Context, engine *listing.Engine, renderer *render.Renderer) (string, error) {
	published, err := engine.AnyPublished(ctx)
	if err != nil {
		return "", err
	}
	if !published {
		return renderer.NoResults(noEvents)
	}
	return renderer.NoResults(noMatches)
}

// upcomingQuery reads the paging of the upcoming endpoints: the page comes
// in "value" and the newest events come first unless asked otherwise.
func upcomingQuery(v model.Values) model.ListingQuery {
	q := model.ListingQuery{
		UpcomingOnly: true,
		Page:         absint(v.Get("value")),
		PerPage:      absint(v.Get("per_page")),
		OrderBy:      v.Get("orderby"),
		Order:        v.Get("order"),
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.OrderBy == "" {
		q.OrderBy = listing.OrderDate
	}
	if q.Order == "" {
		q.Order = "DESC"
	}
	return q
}

func noMore(res *listing.Result, page int) bool {
	return res.Query.PerPage <= 0 || res.Total <= page*res.Query.PerPage
}

// GetUpcomingListings searches future events by location, keywords, categories and types.
func GetUpcomingListings(engine *listing.Engine, renderer *render.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if err := r.ParseForm(); err != nil {
			response.BadRequest("invalid request", err.Error()).Send(ctx, w)
			return
		}
		v := values(r.Form)
		q := upcomingQuery(v)
		q.Location = v.Get("search_location")
		q.Keywords = v.Get("search_keywords")
		q.Categories = list(v, "search_categories")
		q.EventTypes = list(v, "search_event_types")

		res, err := engine.Query(ctx, q)
		if err != nil {
			logger.Errorf(ctx, "getUpcomingListings: %v", err)
			response.SomethingWrong().Send(ctx, w)
			return
		}

		data := response.Upcoming{NoMoreEvents: true}
		if len(res.Events) > 0 {
			data.HTML, err = renderer.RowsHTML(ctx, res.Events)
			data.NoMoreEvents = noMore(res, q.Page)
		} else {
			data.HTML, err = renderer.Alert(noMatches, true)
		}
		if err != nil {
			logger.Errorf(ctx, "getUpcomingListings: render: %v", err)
			response.SomethingWrong().Send(ctx, w)
			return
		}
		response.JSON(w, http.StatusOK, response.AjaxSuccess(data))
	}
}

// LoadMoreUpcomingEvents returns the next page of future events.
func LoadMoreUpcomingEvents(engine *listing.Engine, renderer *render.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if err := r.ParseForm(); err != nil {
			response.BadRequest("invalid request", err.Error()).Send(ctx, w)
			return
		}
		q := upcomingQuery(values(r.Form))

		res, err := engine.Query(ctx, q)
		if err != nil {
			logger.Errorf(ctx, "loadMoreUpcomingEvents: %v", err)
			response.SomethingWrong().Send(ctx, w)
			return
		}
		if len(res.Events) == 0 {
			response.JSON(w, http.StatusOK, response.AjaxError(noMoreEvents))
			return
		}

		html, err := renderer.RowsHTML(ctx, res.Events)
		if err != nil {
			logger.Errorf(ctx, "loadMoreUpcomingEvents: render: %v", err)
			response.SomethingWrong().Send(ctx, w)
			return
		}
		response.JSON(w, http.StatusOK, response.AjaxSuccess(response.Upcoming{HTML: html, NoMoreEvents: noMore(res, q.Page)}))
	}
}
