package render

import (
	"context"
	"strings"
	"testing"
	"time"

	"event-manager-backend/dashboard"
	"event-manager-backend/model"
	"event-manager-backend/option"
	"event-manager-backend/permalink"
	"event-manager-backend/store"
	"event-manager-backend/submission"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*Renderer, *store.Store, *option.Options) {
	t.Helper()
	s := store.New(store.NewMemory())
	opts := option.New(s, nil, 0)
	return New(s, opts, permalink.New("http://events.test"), nil), s, opts
}

func event(t *testing.T, s *store.Store, title string, status model.Status, meta map[string]string) *model.Event {
	t.Helper()
	ctx := context.Background()
	id, err := s.Insert(ctx, &model.Post{Type: model.PostTypeEvent, Title: title, Status: status, Author: 3})
	require.Nil(t, err, "expected err to be nil")
	for k, v := range meta {
		require.Nil(t, s.SetMeta(ctx, id, k, v), "expected err to be nil")
	}
	e, err := s.Event(ctx, id)
	require.Nil(t, err, "expected err to be nil")
	return e
}

func TestRowsFormatDatesAndLocation(t *testing.T) {
	r, s, opts := setup(t)
	ctx := context.Background()
	require.Nil(t, opts.Set(ctx, option.DateFormat, "d/m/Y"), "expected err to be nil")

	e := event(t, s, "Warehouse", model.StatusPublish, map[string]string{
		"_event_start_date":     "2026-05-01",
		"_event_start_time":     "21:30",
		"_event_banner":         "http://events.test/banner.jpg",
		"_event_ticket_options": "free",
	})
	online := event(t, s, "Stream", model.StatusPublish, map[string]string{"_event_online": "yes"})

	rows := r.Rows(ctx, []*model.Event{e, online})
	require.Len(t, rows, 2)
	assert.Equal(t, "01/05/2026 @ 21:30", rows[0].Date)
	assert.Equal(t, "No address", rows[0].Location)
	assert.Equal(t, "http://events.test/banner.jpg", rows[0].Banner)
	assert.Equal(t, "Free", rows[0].Ticket)
	assert.Equal(t, "http://events.test/?p=1", rows[0].URL)
	assert.Equal(t, "Online Event", rows[1].Location)
	assert.Equal(t, "", rows[1].MapLink)
}

func TestListingEscapesTitles(t *testing.T) {
	r, s, _ := setup(t)
	e := event(t, s, `<script>alert(1)</script>`, model.StatusPublish, nil)

	out, err := r.Listing(context.Background(), []*model.Event{e}, "list")
	require.Nil(t, err, "expected err to be nil")
	assert.Contains(t, out, "wpem-event-list-layout")
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
}

func TestPagination(t *testing.T) {
	r, _, _ := setup(t)

	out, err := r.Pagination(1, 1)
	require.Nil(t, err, "expected err to be nil")
	assert.Equal(t, "", out)

	out, err = r.Pagination(10, 5)
	require.Nil(t, err, "expected err to be nil")
	assert.Contains(t, out, `<span class="current">5</span>`)
	assert.Contains(t, out, `data-page="4"`)
	assert.Contains(t, out, `data-page="10"`)
	assert.Equal(t, 2, strings.Count(out, "gap"))
}

func TestAlertAndNoResults(t *testing.T) {
	r, _, _ := setup(t)

	out, err := r.Alert("Invalid ID", true)
	require.Nil(t, err, "expected err to be nil")
	assert.Equal(t, `<div class="event-manager-error">Invalid ID</div>`, out)

	out, err = r.NoResults("There are no events matching your search.")
	require.Nil(t, err, "expected err to be nil")
	assert.Contains(t, out, "no_event_listings_found")
}

func TestFormRendersFieldsAndValues(t *testing.T) {
	r, _, _ := setup(t)
	f := &submission.Form{
		Kind:  model.KindEvent,
		Name:  "submit-event",
		Steps: []submission.Step{{Key: submission.StepSubmit}, {Key: submission.StepDone}},
		Fields: []model.Field{
			{Key: "event_title", Label: "Event Title", Type: model.FieldText, Required: true, Value: []string{"Rave"}},
			{Key: "event_online", Label: "Online Event", Type: model.FieldRadio, Options: []model.Option{{Value: "yes", Label: "Yes"}, {Value: "no", Label: "No"}}, Value: []string{"no"}},
			{Key: "event_category", Label: "Sounds", Type: model.FieldTermMultiselect, Options: []model.Option{{Value: "4", Label: "House"}}},
		},
		Errors: []string{"Event Title is a required field"},
	}

	out, err := r.Form(context.Background(), f, "http://events.test/?page_id=9")
	require.Nil(t, err, "expected err to be nil")
	assert.Contains(t, out, `name="event_title"`)
	assert.Contains(t, out, `value="Rave"`)
	assert.Contains(t, out, `<option value="no" selected>No</option>`)
	assert.Contains(t, out, `name="event_category[]"`)
	assert.Contains(t, out, "event-manager-error")
	assert.Contains(t, out, "Submit Event")
}

func TestFormDoneAndInvalid(t *testing.T) {
	r, _, _ := setup(t)
	ctx := context.Background()
	steps := []submission.Step{{Key: submission.StepSubmit}, {Key: submission.StepDone}}

	out, err := r.Form(ctx, &submission.Form{Kind: model.KindDJ, Steps: steps, Step: 1, Status: model.StatusPending}, "")
	require.Nil(t, err, "expected err to be nil")
	assert.Contains(t, out, "DJ submitted successfully. Your listing will be visible once approved.")

	out, err = r.Form(ctx, &submission.Form{Kind: model.KindEvent, Invalid: true, Errors: []string{submission.MsgInvalidListing}}, "")
	require.Nil(t, err, "expected err to be nil")
	assert.Equal(t, `<div class="event-manager-error">Invalid listing</div>`, out)
}

func TestDashboardActionLinks(t *testing.T) {
	r, s, opts := setup(t)
	ctx := context.Background()
	require.Nil(t, opts.Set(ctx, option.PageID("event_dashboard"), "12"), "expected err to be nil")
	e := event(t, s, "Mine", model.StatusPublish, map[string]string{"_event_start_date": "2026-04-02", "_event_location": "Club"})

	page := &dashboard.Page{
		Kind:  model.KindEvent,
		Nonce: "abc123",
		Rows: []dashboard.Row{{
			Post:    model.Post{ID: e.ID, Title: "Mine", Status: model.StatusPublish},
			Event:   e,
			Status:  "Active",
			Actions: []string{dashboard.ActionEdit, dashboard.ActionDelete},
		}},
		Banners: []dashboard.Banner{{Message: "Mine has been deleted"}},
		Page:    1,
	}
	out, err := r.Dashboard(ctx, page)
	require.Nil(t, err, "expected err to be nil")
	assert.Contains(t, out, "http://events.test/?_wpnonce=abc123&amp;action=delete&amp;event_id=1&amp;page_id=12")
	assert.Contains(t, out, "Mine has been deleted")
	assert.Contains(t, out, "<td>Club</td>")
	assert.Contains(t, out, "<td>Active</td>")
}

func TestDashboardEmpty(t *testing.T) {
	r, _, _ := setup(t)
	out, err := r.Dashboard(context.Background(), &dashboard.Page{Kind: model.KindDJ})
	require.Nil(t, err, "expected err to be nil")
	assert.Contains(t, out, "You do not have any dj.")
	assert.Contains(t, out, `colspan="3"`)
}

func TestRegister(t *testing.T) {
	r, s, _ := setup(t)
	ctx := context.Background()

	mail := event(t, s, "Mail", model.StatusPublish, map[string]string{"_registration": "rsvp@example.com"})
	out, err := r.Register(ctx, mail, now)
	require.Nil(t, err, "expected err to be nil")
	assert.Contains(t, out, "mailto:rsvp@example.com")

	link := event(t, s, "Link", model.StatusPublish, map[string]string{
		"_registration":                "https://tickets.example.com/x",
		"_event_registration_deadline": "2026-03-10",
	})
	out, err = r.Register(ctx, link, now)
	require.Nil(t, err, "expected err to be nil")
	assert.Contains(t, out, "Registration closed.")

	none := event(t, s, "None", model.StatusPublish, nil)
	out, err = r.Register(ctx, none, now)
	require.Nil(t, err, "expected err to be nil")
	assert.Equal(t, "", out)
}

func TestEventPageMarksCancelled(t *testing.T) {
	r, s, _ := setup(t)
	e := event(t, s, "Off", model.StatusPublish, map[string]string{"_cancelled": "1"})
	out, err := r.EventPage(context.Background(), e, now)
	require.Nil(t, err, "expected err to be nil")
	assert.Contains(t, out, "This event has been cancelled.")
}

func TestDJProfileSplitsEvents(t *testing.T) {
	r, s, _ := setup(t)
	ctx := context.Background()
	past := event(t, s, "Past", model.StatusPublish, map[string]string{"_event_start_date": "2026-01-01"})
	next := event(t, s, "Next", model.StatusPublish, map[string]string{"_event_start_date": "2026-04-01"})

	p := r.DJProfile(ctx, &model.DJ{Name: "Deejay", Socials: model.Socials{Instagram: "https://instagram.com/dj"}}, []*model.Event{past, next}, now)
	require.Len(t, p.Upcoming, 1)
	require.Len(t, p.Past, 1)
	assert.Equal(t, "Next", p.Upcoming[0].Title)
	assert.Equal(t, []model.Option{{Label: "instagram", Value: "https://instagram.com/dj"}}, p.Socials)

	out, err := r.Profile(p)
	require.Nil(t, err, "expected err to be nil")
	assert.Contains(t, out, "Upcoming Events")
	assert.Contains(t, out, "Past Events")
}
