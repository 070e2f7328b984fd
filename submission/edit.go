package submission

import (
	"context"
	"errors"
	"fmt"

	"event-manager-backend/hook"
	"event-manager-backend/logger"
	"event-manager-backend/model"
	"event-manager-backend/schema"
)

const (
	MsgInvalidListing = "Invalid listing"
	MsgChangesSaved   = "Your changes have been saved."
)

// editable lists the statuses the edit form accepts per kind.
var editable = map[model.Kind][]model.Status{
	model.KindEvent: {model.StatusPublish, model.StatusPending, model.StatusExpired},
	model.KindDJ:    {model.StatusPublish},
	model.KindLocal: {model.StatusPublish},
}

func canEditStatus(kind model.Kind, status model.Status) bool {
	for _, s := range editable[kind] {
		if s == status {
			return true
		}
	}
	return false
}

// Edit runs the edit variant on req.EntityID. It never changes the entity's status
// and reports the outcome inline instead of advancing.
func (c *Controller) Edit(ctx context.Context, req *Request) *Form {
	f := &Form{
		Kind:   req.Kind,
		Name:   "edit-" + string(req.Kind),
		Actor:  req.Actor,
		Edit:   true,
		Steps:  []Step{{Key: StepSubmit, Name: "Save changes", Priority: 10}},
		Values: model.Values{},
	}

	id := req.EntityID
	if id > 0 && !c.canEdit(ctx, req.Kind, req.Actor, id) {
		id = 0
	}
	p, err := c.store.Entity(ctx, req.Kind, id)
	if err != nil || !canEditStatus(req.Kind, p.Status) {
		f.Invalid = true
		f.addError(MsgInvalidListing)
		return f
	}
	f.EntityID = id
	f.Status = p.Status

	if req.Submit {
		if err := c.saveEdit(ctx, f, req); err != nil {
			f.addError(err.Error())
		} else {
			f.Values = model.Values{}
			f.Notice = MsgChangesSaved
			if f.Status == model.StatusPublish {
				f.ViewURL = c.links.Post(f.EntityID)
			}
			c.hooks.Emit(ctx, fmt.Sprintf(hook.EntityUpdated, f.Kind), f.EntityID)
		}
	}
	c.prepare(ctx, f)
	return f
}

func (c *Controller) saveEdit(ctx context.Context, f *Form, req *Request) error {
	fields := c.registry.Effective(ctx, f.Kind, schema.Frontend)
	values := posted(fields, req.Values)
	f.Values = values
	if err := c.validator.Validate(ctx, f.Kind, fields, values, f.Actor); err != nil {
		return err
	}
	if err := c.save(ctx, f, values, ""); err != nil {
		logger.Errorf(ctx, "saveEdit: %v", err)
		return errors.New(errSaveFailed)
	}
	if err := c.persist(ctx, f, fields, values); err != nil {
		logger.Errorf(ctx, "saveEdit: %v", err)
		return errors.New(errSaveFailed)
	}
	return nil
}
