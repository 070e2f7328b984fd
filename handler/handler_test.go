package handler

import (
	"net/url"
	"testing"

	"event-manager-backend/listing"
	"event-manager-backend/model"

	"github.com/stretchr/testify/assert"
)

func TestListingQuery(t *testing.T) {
	form, err := url.ParseQuery("search_keywords=jazz&search_categories[]=rock&search_categories[]=pop,house" +
		"&search_datetimes[]=" + url.QueryEscape(`{"start":"2026-05-01","end":"2026-05-03"}`) + "&search_datetimes[]=" +
		"&featured=true&cancelled=maybe&event_online=false&page=-3&per_page=5")
	assert.Nil(t, err)

	q := listingQuery(values(form))
	assert.Equal(t, "jazz", q.Keywords)
	assert.Equal(t, []string{"rock", "pop", "house"}, q.Categories)
	assert.Equal(t, []model.DateRange{{Start: "2026-05-01", End: "2026-05-03"}}, q.DateRanges)
	assert.Equal(t, model.Yes, q.Featured)
	assert.Equal(t, model.Unset, q.Cancelled)
	assert.Equal(t, model.No, q.Online)
	assert.Equal(t, 3, q.Page)
	assert.Equal(t, 5, q.PerPage)
}

func TestUpcomingQueryDefaults(t *testing.T) {
	q := upcomingQuery(model.Values{})
	assert.True(t, q.UpcomingOnly)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, listing.OrderDate, q.OrderBy)
	assert.Equal(t, "DESC", q.Order)

	q = upcomingQuery(model.Values{"value": {"4"}, "orderby": {"title"}, "order": {"ASC"}})
	assert.Equal(t, 4, q.Page)
	assert.Equal(t, "title", q.OrderBy)
	assert.Equal(t, "ASC", q.Order)
}

func TestNoMore(t *testing.T) {
	res := &listing.Result{Total: 5, Query: model.ListingQuery{PerPage: 2}}
	assert.False(t, noMore(res, 2))
	assert.True(t, noMore(res, 3))
}

func TestSearchCompleted(t *testing.T) {
	assert.Equal(t, "Search completed. Found 1 matching record.", searchCompleted(1))
	assert.Equal(t, "Search completed. Found 0 matching records.", searchCompleted(0))
}

func TestCanUpload(t *testing.T) {
	assert.False(t, canUpload(&model.Actor{}))
	assert.False(t, canUpload(&model.Actor{ID: 2, Caps: map[string]bool{model.CapRead: true}}))
	assert.True(t, canUpload(&model.Actor{ID: 2, Caps: map[string]bool{model.CapUploadFiles: true}}))
	assert.True(t, canUpload(&model.Actor{ID: 2, Caps: map[string]bool{model.CapManageLocals: true}}))
}
