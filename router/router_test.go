package router

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"event-manager-backend/auth"
	"event-manager-backend/config"
	"event-manager-backend/factory"
	"event-manager-backend/install"
	"event-manager-backend/model"
	"event-manager-backend/response"
	"event-manager-backend/store"
	"event-manager-backend/submission"

	"github.com/gorilla/mux"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	jwtSecret   = "jwt-secret"
	nonceSecret = "nonce-secret"
)

var dj = &model.Actor{ID: 41, Name: "nina", Roles: []string{model.RoleDJ}}

type env struct {
	r *mux.Router
	s *store.Store
}

func setup(t *testing.T) *env {
	t.Helper()
	viper.Set(config.SiteURL, "http://events.test")
	viper.Set(config.Secret, jwtSecret)
	viper.Set(config.NonceSecret, nonceSecret)
	viper.Set(config.UploadDir, t.TempDir())
	viper.Set(config.UploadURL, "http://events.test/uploads")

	ctx := context.Background()
	s := store.New(store.NewMemory())
	f := factory.NewFactoryWithStore(s)
	require.Nil(t, install.New(s, f.Options(ctx), viper.GetString(config.AppVersion)).Run(ctx), "expected err to be nil")
	return &env{r: Router(ctx, f), s: s}
}

func day(offset int) string {
	return time.Now().UTC().AddDate(0, 0, offset).Format("2006-01-02")
}

func (v *env) event(t *testing.T, title string, status model.Status, start string) int64 {
	t.Helper()
	ctx := context.Background()
	id, err := v.s.Insert(ctx, &model.Post{Type: model.PostTypeEvent, Title: title, Status: status, Author: dj.ID})
	require.Nil(t, err, "expected err to be nil")
	require.Nil(t, v.s.SetMeta(ctx, id, "_event_start_date", start), "expected err to be nil")
	return id
}

func (v *env) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	v.r.ServeHTTP(rec, req)
	return rec
}

func bearer(t *testing.T, req *http.Request, actor *model.Actor) *http.Request {
	t.Helper()
	token, err := auth.IssueActorToken([]byte(jwtSecret), actor, time.Hour)
	require.Nil(t, err, "expected err to be nil")
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestHealthcheck(t *testing.T) {
	v := setup(t)
	rec := v.do(httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"OK"`)
	assert.NotEmpty(t, rec.Header().Get("Correlation-Id"))
}

func TestNotFound(t *testing.T) {
	v := setup(t)
	rec := v.do(httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "NOT FOUND")
}

func TestBadTokenIsRefused(t *testing.T) {
	v := setup(t)
	req := httptest.NewRequest(http.MethodGet, "/healthcheck", nil)
	req.Header.Set("Authorization", "Bearer nope")
	assert.Equal(t, http.StatusUnauthorized, v.do(req).Code)
}

func listings(t *testing.T, rec *httptest.ResponseRecorder) response.Listings {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var out response.Listings
	require.Nil(t, json.Unmarshal(rec.Body.Bytes(), &out), "expected err to be nil")
	return out
}

func TestGetListings(t *testing.T) {
	v := setup(t)

	out := listings(t, v.do(httptest.NewRequest(http.MethodGet, "/em-ajax/get_listings", nil)))
	assert.False(t, out.FoundEvents)
	assert.Contains(t, out.HTML, "There are currently no events.")

	v.event(t, "Jazz Night", model.StatusPublish, day(2))
	v.event(t, "Rock Night", model.StatusPublish, day(3))
	v.event(t, "Old Jazz", model.StatusPublish, day(-4))

	out = listings(t, v.do(httptest.NewRequest(http.MethodGet, "/em-ajax/get_listings?search_keywords=Jazz", nil)))
	assert.True(t, out.FoundEvents)
	assert.Contains(t, out.HTML, "Jazz Night")
	assert.NotContains(t, out.HTML, "Rock Night")
	assert.NotContains(t, out.HTML, "Old Jazz")
	assert.True(t, out.ShowingAppliedFilters)
	assert.Equal(t, "Search completed. Found 1 matching record.", out.FilterValue)
	assert.Contains(t, out.ShowingLinks, "feed=event_feed")
	assert.Contains(t, out.ShowingLinks, "search_keywords=Jazz")
	assert.Empty(t, out.Pagination)

	out = listings(t, v.do(httptest.NewRequest(http.MethodGet, "/em-ajax/get_listings?search_keywords=Polka", nil)))
	assert.False(t, out.FoundEvents)
	assert.Contains(t, out.HTML, "There are no events matching your search.")

	out = listings(t, v.do(httptest.NewRequest(http.MethodGet, "/em-ajax/get_listings?per_page=1&page=2&show_pagination=true", nil)))
	assert.Contains(t, out.HTML, "Rock Night")
	assert.Equal(t, 2, out.MaxNumPages)
	assert.Contains(t, out.Pagination, `data-page="1"`)
	assert.False(t, out.ShowingAppliedFilters)
	assert.Empty(t, out.FilterValue)
}

type ajax struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data"`
}

func decodeAjax(t *testing.T, rec *httptest.ResponseRecorder) ajax {
	t.Helper()
	var out ajax
	require.Nil(t, json.Unmarshal(rec.Body.Bytes(), &out), "expected err to be nil")
	return out
}

func TestLoadMoreUpcomingEvents(t *testing.T) {
	v := setup(t)
	v.event(t, "First", model.StatusPublish, day(1))
	v.event(t, "Second", model.StatusPublish, day(2))
	v.event(t, "Third", model.StatusPublish, day(3))
	v.event(t, "Over", model.StatusPublish, day(-3))

	out := decodeAjax(t, v.do(httptest.NewRequest(http.MethodPost, "/em-ajax/load_more_upcoming_events?per_page=2&value=1", nil)))
	assert.True(t, out.Success)
	assert.Equal(t, false, out.Data["no_more_events"])

	out = decodeAjax(t, v.do(httptest.NewRequest(http.MethodPost, "/em-ajax/load_more_upcoming_events?per_page=2&value=2", nil)))
	assert.True(t, out.Success)
	assert.Equal(t, true, out.Data["no_more_events"])
	assert.NotContains(t, out.Data["events_html"], "Over")

	out = decodeAjax(t, v.do(httptest.NewRequest(http.MethodPost, "/em-ajax/load_more_upcoming_events?per_page=2&value=3", nil)))
	assert.False(t, out.Success)
	assert.Equal(t, "No more events found.", out.Data["error"])
}

func TestGetUpcomingListings(t *testing.T) {
	v := setup(t)
	v.event(t, "Sunset Session", model.StatusPublish, day(1))

	out := decodeAjax(t, v.do(httptest.NewRequest(http.MethodGet, "/em-ajax/get_upcoming_listings?search_keywords=Sunset", nil)))
	assert.True(t, out.Success)
	assert.Contains(t, out.Data["events_html"], "Sunset Session")

	out = decodeAjax(t, v.do(httptest.NewRequest(http.MethodGet, "/em-ajax/get_upcoming_listings?search_keywords=Polka", nil)))
	assert.True(t, out.Success)
	assert.Contains(t, out.Data["events_html"], "There are no events matching your search.")
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestAddDJ(t *testing.T) {
	v := setup(t)
	nonce := auth.NewNonces([]byte(nonceSecret)).Create(submission.NonceAction(model.KindDJ), dj.ID)

	var out map[string]interface{}
	rec := v.do(postForm("/em-ajax/add_dj", url.Values{"form_data": {"dj_name=Nina"}}))
	require.Nil(t, json.Unmarshal(rec.Body.Bytes(), &out), "expected err to be nil")
	assert.Equal(t, float64(http.StatusForbidden), out["code"])
	assert.Contains(t, out["message"], "Please login as dj to add an dj!")

	form := url.Values{
		"form_data":         {"dj_name=Nina&dj_id=0&dj_country=Brazil&dj_email=nina%40example.com"},
		"dj_description":    {"techno"},
		"wpem_add_dj_nonce": {nonce},
	}
	rec = v.do(bearer(t, postForm("/em-ajax/add_dj", form), dj))
	out = nil
	require.Nil(t, json.Unmarshal(rec.Body.Bytes(), &out), "expected err to be nil")
	require.Equal(t, float64(http.StatusOK), out["code"], out["message"])
	created, ok := out["dj"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Nina", created["dj_name"])
}

func multipartBody(t *testing.T, field, name string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile(field, name)
	require.Nil(t, err, "expected err to be nil")
	_, err = part.Write(content)
	require.Nil(t, err, "expected err to be nil")
	require.Nil(t, mw.Close(), "expected err to be nil")
	return body, mw.FormDataContentType()
}

var png = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)

func TestUploadFile(t *testing.T) {
	v := setup(t)

	body, ct := multipartBody(t, "dj_logo", "logo.png", png)
	req := httptest.NewRequest(http.MethodPost, "/em-ajax/upload_file", body)
	req.Header.Set("Content-Type", ct)
	assert.Equal(t, http.StatusForbidden, v.do(req).Code)

	body, ct = multipartBody(t, "dj_logo", "logo.png", png)
	req = httptest.NewRequest(http.MethodPost, "/em-ajax/upload_file", body)
	req.Header.Set("Content-Type", ct)
	rec := v.do(bearer(t, req, dj))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out response.Files
	require.Nil(t, json.Unmarshal(rec.Body.Bytes(), &out), "expected err to be nil")
	require.Len(t, out.Files, 1)
	assert.Empty(t, out.Files[0].Error)
	assert.Equal(t, "image/png", out.Files[0].Type)
	assert.True(t, strings.HasPrefix(out.Files[0].URL, "http://events.test/uploads/"))

	body, ct = multipartBody(t, "dj_logo", "notes.exe", []byte("MZ\x90\x00binary"))
	req = httptest.NewRequest(http.MethodPost, "/em-ajax/upload_file", body)
	req.Header.Set("Content-Type", ct)
	rec = v.do(bearer(t, req, dj))
	out = response.Files{}
	require.Nil(t, json.Unmarshal(rec.Body.Bytes(), &out), "expected err to be nil")
	require.Len(t, out.Files, 1)
	assert.Contains(t, out.Files[0].Error, "invalid file type")
}

func TestShortcodes(t *testing.T) {
	v := setup(t)
	v.event(t, "Boat Party", model.StatusPublish, day(2))

	rec := v.do(httptest.NewRequest(http.MethodGet, "/shortcode/events?layout_type=list", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html"))
	assert.Contains(t, rec.Body.String(), "Boat Party")

	rec = v.do(httptest.NewRequest(http.MethodGet, "/shortcode/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = v.do(httptest.NewRequest(http.MethodGet, "/shortcode", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	var list response.SuccessResponse
	require.Nil(t, json.Unmarshal(rec.Body.Bytes(), &list), "expected err to be nil")
	assert.Len(t, list.Data.Shortcodes, 19)
}

func TestEventDashboardRequiresLogin(t *testing.T) {
	v := setup(t)
	rec := v.do(httptest.NewRequest(http.MethodGet, "/shortcode/event_dashboard", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "You need to be signed in")
}

func TestStructuredData(t *testing.T) {
	v := setup(t)
	public := v.event(t, "Open Air", model.StatusPublish, day(5))
	draft := v.event(t, "Secret", model.StatusDraft, day(5))

	rec := v.do(httptest.NewRequest(http.MethodGet, "/events/"+itoa(public)+"/structured-data", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/ld+json", rec.Header().Get("Content-Type"))
	assert.Empty(t, rec.Header().Get("X-Robots-Tag"))
	var data map[string]interface{}
	require.Nil(t, json.Unmarshal(rec.Body.Bytes(), &data), "expected err to be nil")
	assert.Equal(t, "Event", data["@type"])
	assert.Equal(t, "Open Air", data["name"])

	assert.Equal(t, http.StatusNotFound, v.do(httptest.NewRequest(http.MethodGet, "/events/"+itoa(draft)+"/structured-data", nil)).Code)
	assert.Equal(t, http.StatusNotFound, v.do(httptest.NewRequest(http.MethodGet, "/events/99999/structured-data", nil)).Code)
}

func TestLogoutClearsCookies(t *testing.T) {
	v := setup(t)
	rec := v.do(httptest.NewRequest(http.MethodPost, "/logout", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	assert.Len(t, cookies, 6)
	for _, c := range cookies {
		assert.True(t, strings.HasPrefix(c.Name, "wp-event-manager-submitting-"))
		assert.Equal(t, -1, c.MaxAge)
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
