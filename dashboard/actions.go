package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"event-manager-backend/auth"
	"event-manager-backend/hook"
	"event-manager-backend/logger"
	"event-manager-backend/model"
	"event-manager-backend/option"
	"event-manager-backend/permalink"
	"event-manager-backend/store"
	"event-manager-backend/submission"
)

// Meta keys a duplicate starts without.
var duplicateSkip = []string{store.MetaUniqueKey, store.MetaViewCount, store.MetaFeatured}

// ActionRequest is one row action posted from a dashboard.
type ActionRequest struct {
	Kind     model.Kind
	Actor    *model.Actor
	Action   string
	EntityID int64
	Nonce    string
}

// Outcome is what a dashboard shows after an action.
type Outcome struct {
	Banner *Banner
	// Redirect is set when the action continues on another page.
	Redirect string
	// Form is the edit form of the edit action.
	Form *submission.Form
}

// Do runs one row action. Requests with a bad or missing token are ignored.
func (c *Controller) Do(ctx context.Context, req ActionRequest) *Outcome {
	out := &Outcome{}
	if req.Action == "" || !req.Actor.LoggedIn() {
		return out
	}
	if !c.nonces.Verify(req.Nonce, NonceAction(req.Kind), req.Actor.ID) {
		logger.Warnf(ctx, "do: rejected %s %s on %d: bad nonce", req.Kind, req.Action, req.EntityID)
		return out
	}

	p, err := c.owned(ctx, req)
	if err != nil {
		out.Banner = failure(ctx, err)
		return out
	}

	switch req.Action {
	case ActionCancel, ActionUncancel:
		if req.Kind != model.KindEvent {
			c.unknown(ctx, req)
			break
		}
		err = c.setCancelled(ctx, p, req.Action == ActionCancel)
		if err == nil {
			msg := "%s has been cancelled."
			if req.Action == ActionUncancel {
				msg = "%s has been marked as not cancelled."
			}
			out.Banner = &Banner{Message: fmt.Sprintf(msg, p.Title)}
		}
	case ActionDelete:
		err = c.store.Trash(ctx, p.ID)
		if err == nil && p.Status != model.StatusTrash {
			out.Banner = &Banner{Message: fmt.Sprintf("%s has been deleted.", p.Title)}
		}
	case ActionDuplicate:
		out.Redirect, err = c.duplicate(ctx, req.Kind, p)
	case ActionRelist:
		out.Redirect, err = c.formLink(ctx, req.Kind, map[string]string{IDParam(req.Kind): strconv.FormatInt(p.ID, 10)})
	case ActionEdit:
		out.Form = c.submit.Edit(ctx, &submission.Request{Kind: req.Kind, Actor: req.Actor, EntityID: p.ID})
	default:
		c.unknown(ctx, req)
	}
	if err != nil {
		out.Banner = failure(ctx, err)
		return out
	}

	c.hooks.Emit(ctx, fmt.Sprintf(hook.DashboardAction, req.Kind), ActionData{
		Kind: req.Kind, Action: req.Action, ID: p.ID, Actor: req.Actor,
	})
	return out
}

// owned loads the target row and checks the actor owns it.
func (c *Controller) owned(ctx context.Context, req ActionRequest) (*model.Post, error) {
	p, err := c.store.Entity(ctx, req.Kind, req.EntityID)
	if req.Kind == model.KindEvent {
		if err != nil || !auth.CanEdit(req.Actor, p.Author) {
			return nil, &ActionError{Message: MsgInvalidID}
		}
		return p, nil
	}
	if err != nil {
		return nil, &ActionError{Message: fmt.Sprintf("Invalid %s.", req.Kind)}
	}
	if !auth.CanEdit(req.Actor, p.Author) {
		return nil, &ActionError{Message: MsgNoPermission}
	}
	return p, nil
}

func (c *Controller) setCancelled(ctx context.Context, p *model.Post, cancel bool) error {
	cancelled := c.store.Meta(ctx, p.ID, store.MetaCancelled) == "1"
	switch {
	case cancel && cancelled:
		return &ActionError{Message: MsgAlreadyCancel}
	case !cancel && !cancelled:
		return &ActionError{Message: MsgNotCancelled}
	}
	value := "0"
	if cancel {
		value = "1"
	}
	if err := c.store.SetMeta(ctx, p.ID, store.MetaCancelled, value); err != nil {
		return fmt.Errorf("setCancelled: %w", err)
	}
	if cancel {
		c.hooks.Emit(ctx, hook.EventCancelled, p.ID)
	}
	return nil
}

// duplicate clones the row and answers the link of the clone's form.
// Event copies start as previews, dj and local copies are published.
func (c *Controller) duplicate(ctx context.Context, kind model.Kind, p *model.Post) (string, error) {
	if _, err := c.formLink(ctx, kind, nil); err != nil {
		return "", err
	}
	status := model.StatusPublish
	if kind == model.KindEvent {
		status = model.StatusPreview
	}
	id, err := c.store.Duplicate(ctx, p.ID, status, duplicateSkip...)
	if err != nil {
		return "", fmt.Errorf("duplicate: %w", err)
	}
	args := map[string]string{IDParam(kind): strconv.FormatInt(id, 10)}
	if kind != model.KindEvent {
		args["action"] = ActionEdit
	}
	return c.formLink(ctx, kind, args)
}

// formLink is the submit form page of kind with args, or an error when the page is missing.
func (c *Controller) formLink(ctx context.Context, kind model.Kind, args map[string]string) (string, error) {
	id := c.opts.Int(ctx, option.PageID(fmt.Sprintf("submit_%s_form", kind)))
	if id <= 0 {
		return "", &ActionError{Message: MsgMissingPage}
	}
	return permalink.With(c.links.Page(int64(id)), args), nil
}

func (c *Controller) unknown(ctx context.Context, req ActionRequest) {
	c.hooks.Emit(ctx, fmt.Sprintf(hook.UnknownDashboardAction, req.Kind, req.Action), ActionData{
		Kind: req.Kind, Action: req.Action, ID: req.EntityID, Actor: req.Actor,
	})
}

// failure turns an action error into a banner; other errors are logged and shown generically.
func failure(ctx context.Context, err error) *Banner {
	var ae *ActionError
	if errors.As(err, &ae) {
		return &Banner{Message: ae.Message, Error: true}
	}
	logger.Errorf(ctx, "do: %v", err)
	return &Banner{Message: "Something went wrong. Please try again.", Error: true}
}
