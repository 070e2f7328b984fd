package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"event-manager-backend/auth"
	"event-manager-backend/hook"
	"event-manager-backend/logger"
	"event-manager-backend/model"
	"event-manager-backend/option"
	"event-manager-backend/permalink"
	"event-manager-backend/store"
	"event-manager-backend/submission"
)

// Row actions.
const (
	ActionCancel    = "mark_cancelled"
	ActionUncancel  = "mark_not_cancelled"
	ActionDelete    = "delete"
	ActionDuplicate = "duplicate"
	ActionRelist    = "relist"
	ActionEdit      = "edit"
)

const (
	MsgNoAccess      = "You do not have permission to manage this dashboard."
	MsgNoPermission  = "You do not have permission to perform this action."
	MsgMissingPage   = "Missing submission page."
	MsgInvalidID     = "Invalid ID"
	MsgAlreadyCancel = "This event has already been cancelled."
	MsgNotCancelled  = "This event is not cancelled."
)

// ErrLoginRequired is returned to guests; the dashboard shows the sign in prompt instead.
var ErrLoginRequired = errors.New("login required")

// ActionError is a user visible failure of a dashboard action.
type ActionError struct {
	Message string
}

func (e *ActionError) Error() string {
	return e.Message
}

// Banner is a message shown above the dashboard on the next render.
type Banner struct {
	Message string `json:"message"`
	Error   bool   `json:"error"`
}

// ActionData is passed to dashboard action hooks.
type ActionData struct {
	Kind   model.Kind
	Action string
	ID     int64
	Actor  *model.Actor
}

// Controller runs the owner dashboards of events, djs and locals.
type Controller struct {
	store  *store.Store
	opts   *option.Options
	hooks  *hook.Bus
	nonces *auth.Nonces
	links  *permalink.Links
	submit *submission.Controller
}

func New(s *store.Store, opts *option.Options, hooks *hook.Bus, nonces *auth.Nonces,
	links *permalink.Links, submit *submission.Controller) *Controller {
	return &Controller{store: s, opts: opts, hooks: hooks, nonces: nonces, links: links, submit: submit}
}

// NonceAction is the anti-forgery action guarding row actions of kind.
func NonceAction(kind model.Kind) string {
	return "event_manager_my_" + string(kind) + "_actions"
}

// IDParam is the request parameter naming the row of an action.
func IDParam(kind model.Kind) string {
	return string(kind) + "_id"
}

// SignInMessage is shown to guests instead of a dashboard.
func SignInMessage(kind model.Kind) string {
	return fmt.Sprintf("You need to be signed in to manage your %s listings.", kind)
}

// Authorize checks that the actor may open dashboards at all.
func (c *Controller) Authorize(ctx context.Context, actor *model.Actor) error {
	if !actor.LoggedIn() {
		return ErrLoginRequired
	}
	if actor.IsAdmin() {
		return nil
	}
	allowed := c.opts.List(ctx, option.AllowedSubmissionRoles)
	if len(allowed) == 0 {
		return nil
	}
	for _, role := range allowed {
		if actor.HasRole(role) {
			return nil
		}
	}
	return &ActionError{Message: MsgNoAccess}
}

// Nonce issues the token row action links carry for actor.
func (c *Controller) Nonce(kind model.Kind, actor *model.Actor) string {
	return c.nonces.Create(NonceAction(kind), actor.ID)
}

// ValidNonce checks a token issued by Nonce.
func (c *Controller) ValidNonce(kind model.Kind, actor *model.Actor, nonce string) bool {
	return actor.LoggedIn() && c.nonces.Verify(nonce, NonceAction(kind), actor.ID)
}

// ListRequest selects one page of the actor's entities.
type ListRequest struct {
	Kind  model.Kind
	Actor *model.Actor
	// OrderBy is "field|direction", e.g. "event_start_date|asc".
	OrderBy  string
	Keywords string
	Page     int
	PerPage  int
}

// Row is one entity of a dashboard.
type Row struct {
	Post    model.Post
	Event   *model.Event
	Status  string
	Actions []string
	// Events lists published events featuring a dj or held at a local.
	Events []model.Post
}

// Page is a rendered dashboard.
type Page struct {
	Kind     model.Kind
	Rows     []Row
	Total    int
	MaxPages int
	Page     int
	OrderBy  string
	Keywords string
	Nonce    string
	Banners  []Banner
}

var listStatuses = map[model.Kind][]model.Status{
	model.KindEvent: {model.StatusPublish, model.StatusExpired, model.StatusPending},
	model.KindDJ:    {model.StatusPublish},
	model.KindLocal: {model.StatusPublish},
}

// List returns one page of the actor's own entities of the requested kind.
func (c *Controller) List(ctx context.Context, req ListRequest) (*Page, error) {
	if err := c.Authorize(ctx, req.Actor); err != nil {
		return nil, err
	}
	if req.PerPage <= 0 {
		req.PerPage = 10
	}
	if req.Page < 1 {
		req.Page = 1
	}

	q := store.Query{
		PostTypes: []model.PostType{req.Kind.PostType()},
		Statuses:  listStatuses[req.Kind],
		Author:    req.Actor.ID,
		Offset:    (req.Page - 1) * req.PerPage,
		Limit:     req.PerPage,
		OrderBy:   []store.Order{{Field: store.OrderDate, Desc: true}},
	}
	if req.Kind == model.KindEvent {
		q.OrderBy, q.Meta = eventOrder(req.OrderBy)
		kw := strings.TrimSpace(req.Keywords)
		if kw != "" && utf8.RuneCountInString(kw) >= c.opts.Int(ctx, option.KeywordLengthThreshold) {
			q.Keywords = kw
		}
	}

	res, err := c.store.Search(ctx, &q)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}

	page := &Page{
		Kind:     req.Kind,
		Total:    res.Total,
		MaxPages: res.MaxPages,
		Page:     req.Page,
		OrderBy:  req.OrderBy,
		Keywords: q.Keywords,
		Nonce:    c.Nonce(req.Kind, req.Actor),
	}
	for i := range res.Posts {
		p := res.Posts[i]
		row := Row{Post: p, Status: p.Status.Label()}
		switch req.Kind {
		case model.KindEvent:
			row.Event = c.store.EventFromPost(ctx, &p)
		default:
			row.Events = c.Related(ctx, req.Kind, p.ID)
		}
		row.Actions = c.rowActions(req.Kind, row)
		page.Rows = append(page.Rows, row)
	}
	return page, nil
}

// eventOrder reads "field|dir"; the default is newest first.
func eventOrder(raw string) ([]store.Order, *store.MetaQuery) {
	field, dir := "date", "desc"
	if parts := strings.SplitN(raw, "|", 2); len(parts) == 2 && parts[0] != "" {
		field, dir = parts[0], strings.ToLower(parts[1])
	}
	desc := dir == "desc"

	switch field {
	case "event_location":
		orders := []store.Order{
			{Field: store.OrderMeta, MetaKey: "_event_online", Type: store.TypeChar, Desc: !desc},
			{Field: store.OrderMeta, MetaKey: "_event_location", Type: store.TypeChar, Desc: desc},
		}
		exists := &store.MetaQuery{Relation: store.RelationAnd, Clauses: []store.MetaClause{
			{Key: "_event_online", Compare: store.CompareExists},
			{Key: "_event_location", Compare: store.CompareExists},
		}}
		return orders, exists
	case "event_start_date", "event_end_date":
		return []store.Order{{Field: store.OrderMeta, MetaKey: "_" + field, Type: store.TypeDateTime, Desc: desc}}, nil
	case "title", "modified", "menu_order", "rand":
		return []store.Order{{Field: field, Desc: desc}}, nil
	case "ID", "id":
		return []store.Order{{Field: store.OrderID, Desc: desc}}, nil
	}
	return []store.Order{{Field: store.OrderDate, Desc: desc}}, nil
}

func (c *Controller) rowActions(kind model.Kind, row Row) []string {
	if kind != model.KindEvent {
		return []string{ActionEdit, ActionDuplicate, ActionDelete}
	}
	switch row.Post.Status {
	case model.StatusPublish:
		cancel := ActionCancel
		if row.Event != nil && row.Event.Cancelled {
			cancel = ActionUncancel
		}
		return []string{ActionEdit, cancel, ActionDuplicate, ActionDelete}
	case model.StatusExpired:
		return []string{ActionRelist, ActionDuplicate, ActionDelete}
	}
	return []string{ActionEdit, ActionDuplicate, ActionDelete}
}

// Related lists published events that reference a dj or local.
func (c *Controller) Related(ctx context.Context, kind model.Kind, id int64) []model.Post {
	key := store.MetaEventDJs
	compare := store.CompareLike
	if kind == model.KindLocal {
		key = store.MetaEventLocal
		compare = store.CompareEqual
	}
	res, err := c.store.Search(ctx, &store.Query{
		PostTypes: []model.PostType{model.PostTypeEvent},
		Statuses:  []model.Status{model.StatusPublish},
		Meta: &store.MetaQuery{Clauses: []store.MetaClause{
			{Key: key, Value: fmt.Sprint(id), Compare: compare},
		}},
		OrderBy: []store.Order{{Field: store.OrderDate, Desc: true}},
	})
	if err != nil {
		logger.Warnf(ctx, "related: events of %s %d: %v", kind, id, err)
		return nil
	}
	if kind == model.KindLocal {
		return res.Posts
	}
	var out []model.Post
	for _, p := range res.Posts {
		for _, dj := range store.ParseIDs(c.store.Meta(ctx, p.ID, store.MetaEventDJs)) {
			if dj == id {
				out = append(out, p)
				break
			}
		}
	}
	return out
}
