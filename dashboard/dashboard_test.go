package dashboard

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"testing"

	"event-manager-backend/auth"
	"event-manager-backend/codec"
	"event-manager-backend/hook"
	"event-manager-backend/model"
	"event-manager-backend/option"
	"event-manager-backend/permalink"
	"event-manager-backend/schema"
	"event-manager-backend/store"
	"event-manager-backend/submission"
	"event-manager-backend/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	owner = &model.Actor{ID: 7, Name: "owner", Roles: []string{model.RoleDJ},
		Caps: map[string]bool{model.CapManageDJs: true, model.CapManageLocals: true, model.CapManageEventListings: true}}
	other = &model.Actor{ID: 8, Name: "other", Roles: []string{model.RoleDJ},
		Caps: map[string]bool{model.CapManageDJs: true, model.CapManageLocals: true, model.CapManageEventListings: true}}
)

type env struct {
	c      *Controller
	s      *store.Store
	opts   *option.Options
	bus    *hook.Bus
	submit *submission.Controller
}

func setup(t *testing.T) *env {
	t.Helper()
	s := store.New(store.NewMemory())
	opts := option.New(s, nil, 0)
	bus := hook.New()
	links := permalink.New("http://events.test")
	sealer, err := codec.NewSealer([]byte("0123456789abcdef0123456789abcdef"))
	require.Nil(t, err, "expected err to be nil")
	submit := submission.New(s, schema.NewRegistry(opts), validation.New(s, opts, bus), opts, bus, sealer, links)
	c := New(s, opts, bus, auth.NewNonces([]byte("nonce-secret")), links, submit)
	return &env{c: c, s: s, opts: opts, bus: bus, submit: submit}
}

func (v *env) post(t *testing.T, kind model.Kind, title string, author int64, status model.Status, meta map[string]string) int64 {
	t.Helper()
	ctx := context.Background()
	id, err := v.s.Insert(ctx, &model.Post{Type: kind.PostType(), Title: title, Author: author, Status: status})
	require.Nil(t, err, "expected err to be nil")
	for k, val := range meta {
		require.Nil(t, v.s.SetMeta(ctx, id, k, val), "expected err to be nil")
	}
	return id
}

func (v *env) do(kind model.Kind, actor *model.Actor, action string, id int64) *Outcome {
	return v.c.Do(context.Background(), ActionRequest{
		Kind: kind, Actor: actor, Action: action, EntityID: id, Nonce: v.c.Nonce(kind, actor),
	})
}

func TestCancelAndUncancel(t *testing.T) {
	ctx := context.Background()
	v := setup(t)
	id := v.post(t, model.KindEvent, "Rave", owner.ID, model.StatusPublish, map[string]string{store.MetaCancelled: "0"})
	var cancelled int64
	v.bus.On(hook.EventCancelled, func(ctx context.Context, data interface{}) { cancelled = data.(int64) })
	var actions []string
	v.bus.On("event_manager_my_event_do_action", func(ctx context.Context, data interface{}) {
		actions = append(actions, data.(ActionData).Action)
	})

	out := v.do(model.KindEvent, owner, ActionCancel, id)
	require.NotNil(t, out.Banner)
	assert.Equal(t, Banner{Message: "Rave has been cancelled."}, *out.Banner)
	assert.Equal(t, "1", v.s.Meta(ctx, id, store.MetaCancelled))
	assert.Equal(t, id, cancelled)

	out = v.do(model.KindEvent, owner, ActionCancel, id)
	assert.Equal(t, Banner{Message: MsgAlreadyCancel, Error: true}, *out.Banner)

	out = v.do(model.KindEvent, owner, ActionUncancel, id)
	assert.Equal(t, Banner{Message: "Rave has been marked as not cancelled."}, *out.Banner)
	assert.Equal(t, "0", v.s.Meta(ctx, id, store.MetaCancelled))

	out = v.do(model.KindEvent, owner, ActionUncancel, id)
	assert.Equal(t, Banner{Message: MsgNotCancelled, Error: true}, *out.Banner)

	assert.Equal(t, []string{ActionCancel, ActionUncancel}, actions)
}

func TestActionsNeedOwnership(t *testing.T) {
	v := setup(t)
	event := v.post(t, model.KindEvent, "Rave", owner.ID, model.StatusPublish, nil)
	dj := v.post(t, model.KindDJ, "Spinner", owner.ID, model.StatusPublish, nil)

	out := v.do(model.KindEvent, other, ActionDelete, event)
	assert.Equal(t, Banner{Message: MsgInvalidID, Error: true}, *out.Banner)

	out = v.do(model.KindDJ, other, ActionDelete, dj)
	assert.Equal(t, Banner{Message: MsgNoPermission, Error: true}, *out.Banner)

	out = v.do(model.KindDJ, owner, ActionDelete, event)
	assert.Equal(t, Banner{Message: "Invalid dj.", Error: true}, *out.Banner)

	p, err := v.s.GetPost(context.Background(), event)
	require.Nil(t, err, "expected err to be nil")
	assert.Equal(t, model.StatusPublish, p.Status)
}

func TestBadNonceIsIgnored(t *testing.T) {
	v := setup(t)
	id := v.post(t, model.KindEvent, "Rave", owner.ID, model.StatusPublish, nil)

	out := v.c.Do(context.Background(), ActionRequest{Kind: model.KindEvent, Actor: owner, Action: ActionDelete, EntityID: id, Nonce: "12345678"})
	assert.Nil(t, out.Banner)

	out = v.c.Do(context.Background(), ActionRequest{Kind: model.KindEvent, Actor: owner, Action: ActionDelete, EntityID: id, Nonce: v.c.Nonce(model.KindDJ, owner)})
	assert.Nil(t, out.Banner)

	p, err := v.s.GetPost(context.Background(), id)
	require.Nil(t, err, "expected err to be nil")
	assert.Equal(t, model.StatusPublish, p.Status)
}

func TestDeleteTrashes(t *testing.T) {
	ctx := context.Background()
	v := setup(t)
	id := v.post(t, model.KindLocal, "Club", owner.ID, model.StatusPublish, nil)

	out := v.do(model.KindLocal, owner, ActionDelete, id)
	assert.Equal(t, Banner{Message: "Club has been deleted."}, *out.Banner)

	p, err := v.s.GetPost(ctx, id)
	require.Nil(t, err, "expected err to be nil")
	assert.Equal(t, model.StatusTrash, p.Status)
	assert.Equal(t, "publish", v.s.Meta(ctx, id, store.MetaTrashStatus))
}

func TestDuplicateNeedsSubmitPage(t *testing.T) {
	ctx := context.Background()
	v := setup(t)
	id := v.post(t, model.KindEvent, "Rave", owner.ID, model.StatusPublish, map[string]string{
		store.MetaUniqueKey: "k", store.MetaFeatured: "1", "_event_location": "Porto",
	})

	out := v.do(model.KindEvent, owner, ActionDuplicate, id)
	assert.Equal(t, Banner{Message: MsgMissingPage, Error: true}, *out.Banner)

	require.Nil(t, v.opts.Set(ctx, option.PageID("submit_event_form"), "42"), "expected err to be nil")
	out = v.do(model.KindEvent, owner, ActionDuplicate, id)
	require.Nil(t, out.Banner)

	clone := id + 1
	assert.Equal(t, fmt.Sprintf("http://events.test/?event_id=%d&page_id=42", clone), out.Redirect)
	p, err := v.s.GetPost(ctx, clone)
	require.Nil(t, err, "expected err to be nil")
	assert.Equal(t, "Rave", p.Title)
	assert.Equal(t, model.StatusPreview, p.Status)
	assert.Equal(t, "Porto", v.s.Meta(ctx, clone, "_event_location"))
	assert.Equal(t, "", v.s.Meta(ctx, clone, store.MetaUniqueKey))
	assert.Equal(t, "", v.s.Meta(ctx, clone, store.MetaFeatured))
}

func TestDuplicateOpensInSubmitForm(t *testing.T) {
	ctx := context.Background()
	v := setup(t)
	require.Nil(t, v.opts.Set(ctx, option.PageID("submit_event_form"), "42"), "expected err to be nil")
	id := v.post(t, model.KindEvent, "Rave", owner.ID, model.StatusPublish, map[string]string{"_event_location": "Porto"})

	out := v.do(model.KindEvent, owner, ActionDuplicate, id)
	require.Nil(t, out.Banner)
	redirect, err := url.Parse(out.Redirect)
	require.Nil(t, err, "expected err to be nil")
	clone, err := strconv.ParseInt(redirect.Query().Get("event_id"), 10, 64)
	require.Nil(t, err, "expected err to be nil")
	require.NotEqual(t, id, clone)

	form := v.submit.Process(ctx, &submission.Request{Kind: model.KindEvent, Actor: owner, EntityID: clone})
	assert.Equal(t, clone, form.EntityID)
	assert.Equal(t, model.StatusPreview, form.Status)
	assert.Equal(t, []string{"Rave"}, fieldValue(form, "event_title"))
	assert.Equal(t, []string{"Porto"}, fieldValue(form, "event_location"))

	assert.Equal(t, int64(0), v.submit.Process(ctx, &submission.Request{Kind: model.KindEvent, Actor: other, EntityID: clone}).EntityID)
}

func fieldValue(f *submission.Form, key string) []string {
	for _, fl := range f.Fields {
		if fl.Key == key {
			return fl.Value
		}
	}
	return nil
}

func TestDuplicateDJIsPublished(t *testing.T) {
	ctx := context.Background()
	v := setup(t)
	require.Nil(t, v.opts.Set(ctx, option.PageID("submit_dj_form"), "5"), "expected err to be nil")
	id := v.post(t, model.KindDJ, "Spinner", owner.ID, model.StatusPublish, nil)

	out := v.do(model.KindDJ, owner, ActionDuplicate, id)
	require.Nil(t, out.Banner)
	assert.Equal(t, fmt.Sprintf("http://events.test/?action=edit&dj_id=%d&page_id=5", id+1), out.Redirect)

	p, err := v.s.GetPost(ctx, id+1)
	require.Nil(t, err, "expected err to be nil")
	assert.Equal(t, model.StatusPublish, p.Status)
}

func TestRelistRedirects(t *testing.T) {
	ctx := context.Background()
	v := setup(t)
	require.Nil(t, v.opts.Set(ctx, option.PageID("submit_event_form"), "42"), "expected err to be nil")
	id := v.post(t, model.KindEvent, "Old", owner.ID, model.StatusExpired, nil)

	out := v.do(model.KindEvent, owner, ActionRelist, id)
	assert.Nil(t, out.Banner)
	assert.Equal(t, fmt.Sprintf("http://events.test/?event_id=%d&page_id=42", id), out.Redirect)
}

func TestEditOpensForm(t *testing.T) {
	v := setup(t)
	id := v.post(t, model.KindEvent, "Rave", owner.ID, model.StatusPublish, nil)

	out := v.do(model.KindEvent, owner, ActionEdit, id)
	require.NotNil(t, out.Form)
	assert.False(t, out.Form.Invalid)
	assert.Equal(t, id, out.Form.EntityID)
}

func TestUnknownActionGoesToHook(t *testing.T) {
	v := setup(t)
	id := v.post(t, model.KindEvent, "Rave", owner.ID, model.StatusPublish, nil)
	var got ActionData
	v.bus.On("event_manager_event_dashboard_do_action_promote", func(ctx context.Context, data interface{}) {
		got = data.(ActionData)
	})

	out := v.do(model.KindEvent, owner, "promote", id)
	assert.Nil(t, out.Banner)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "promote", got.Action)
}

func TestListOwnEvents(t *testing.T) {
	ctx := context.Background()
	v := setup(t)
	v.post(t, model.KindEvent, "Porto", owner.ID, model.StatusPublish, map[string]string{"_event_start_date": "2026-05-02", "_event_online": "no", "_event_location": "Porto"})
	v.post(t, model.KindEvent, "Online", owner.ID, model.StatusPending, map[string]string{"_event_start_date": "2026-05-01", "_event_online": "yes", "_event_location": ""})
	v.post(t, model.KindEvent, "Aveiro", owner.ID, model.StatusExpired, map[string]string{"_event_start_date": "2026-04-01", "_event_online": "no", "_event_location": "Aveiro", store.MetaCancelled: "1"})
	v.post(t, model.KindEvent, "Draft", owner.ID, model.StatusPreview, nil)
	v.post(t, model.KindEvent, "Foreign", other.ID, model.StatusPublish, nil)

	page, err := v.c.List(ctx, ListRequest{Kind: model.KindEvent, Actor: owner, OrderBy: "event_start_date|asc"})
	require.Nil(t, err, "expected err to be nil")
	require.Len(t, page.Rows, 3)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, "Aveiro", page.Rows[0].Post.Title)
	assert.Equal(t, "Expired", page.Rows[0].Status)
	assert.Equal(t, []string{ActionRelist, ActionDuplicate, ActionDelete}, page.Rows[0].Actions)
	assert.Equal(t, "Online", page.Rows[1].Post.Title)
	assert.Equal(t, "Pending approval", page.Rows[1].Status)
	assert.Equal(t, []string{ActionEdit, ActionCancel, ActionDuplicate, ActionDelete}, page.Rows[2].Actions)
	assert.NotEmpty(t, page.Nonce)

	page, err = v.c.List(ctx, ListRequest{Kind: model.KindEvent, Actor: owner, OrderBy: "event_location|asc"})
	require.Nil(t, err, "expected err to be nil")
	require.Len(t, page.Rows, 3)
	assert.Equal(t, "Online", page.Rows[0].Post.Title)
	assert.Equal(t, "Aveiro", page.Rows[1].Post.Title)
	assert.Equal(t, "Porto", page.Rows[2].Post.Title)

	page, err = v.c.List(ctx, ListRequest{Kind: model.KindEvent, Actor: owner, Keywords: "port"})
	require.Nil(t, err, "expected err to be nil")
	require.Len(t, page.Rows, 1)
	assert.Equal(t, "Porto", page.Rows[0].Post.Title)
}

func TestListDJWithEvents(t *testing.T) {
	ctx := context.Background()
	v := setup(t)
	dj := v.post(t, model.KindDJ, "Spinner", owner.ID, model.StatusPublish, nil)
	v.post(t, model.KindDJ, "Theirs", other.ID, model.StatusPublish, nil)
	v.post(t, model.KindEvent, "With", other.ID, model.StatusPublish, map[string]string{store.MetaEventDJs: fmt.Sprintf("%d,99", dj)})
	v.post(t, model.KindEvent, "Lookalike", other.ID, model.StatusPublish, map[string]string{store.MetaEventDJs: fmt.Sprintf("%d9", dj)})

	page, err := v.c.List(ctx, ListRequest{Kind: model.KindDJ, Actor: owner})
	require.Nil(t, err, "expected err to be nil")
	require.Len(t, page.Rows, 1)
	assert.Equal(t, "Spinner", page.Rows[0].Post.Title)
	require.Len(t, page.Rows[0].Events, 1)
	assert.Equal(t, "With", page.Rows[0].Events[0].Title)
}

func TestAuthorize(t *testing.T) {
	ctx := context.Background()
	v := setup(t)

	assert.Equal(t, ErrLoginRequired, v.c.Authorize(ctx, nil))
	assert.Nil(t, v.c.Authorize(ctx, owner))

	require.Nil(t, v.opts.Set(ctx, option.AllowedSubmissionRoles, "organizer"), "expected err to be nil")
	err := v.c.Authorize(ctx, owner)
	require.NotNil(t, err)
	assert.Equal(t, MsgNoAccess, err.Error())

	admin := &model.Actor{ID: 1, Roles: []string{model.RoleAdministrator}}
	assert.Nil(t, v.c.Authorize(ctx, admin))
}
