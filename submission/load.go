package submission

import (
	"context"
	"strconv"

	"event-manager-backend/model"
	"event-manager-backend/option"
	"event-manager-backend/schema"
	"event-manager-backend/store"
)

// prepare fills the fields of the submit step. Posted values win after a failed
// submit; otherwise a resumed or edited entity supplies them.
func (c *Controller) prepare(ctx context.Context, f *Form) {
	fields := c.registry.Effective(ctx, f.Kind, schema.Frontend)
	values := f.Values
	if len(values) == 0 && f.EntityID > 0 {
		values = c.load(ctx, f.Kind, f.EntityID, fields)
	}
	if len(values) == 0 {
		values = model.Values{}
	}
	f.Values = values
	f.Fields = c.withOptions(ctx, f.Actor, fields, values)
}

// load reads the stored values of an entity in presentation form.
func (c *Controller) load(ctx context.Context, kind model.Kind, id int64, fields []model.Field) model.Values {
	p, err := c.store.Entity(ctx, kind, id)
	if err != nil {
		return nil
	}
	dateFormat := c.opts.Get(ctx, option.DateFormat)
	timeFormat := c.opts.Get(ctx, option.TimeFormat)

	values := model.Values{}
	for _, f := range fields {
		meta := c.store.Meta(ctx, id, store.MetaKey(f.Key))
		switch {
		case f.Key == kind.NameKey():
			values.Set(f.Key, p.Title)
		case f.Key == kind.DescriptionKey():
			values.Set(f.Key, p.Content)
		case f.Taxonomy != "":
			ids, err := c.store.ObjectTerms(ctx, id, f.Taxonomy)
			if err != nil {
				continue
			}
			vs := make([]string, 0, len(ids))
			for _, tid := range ids {
				vs = append(vs, strconv.FormatInt(tid, 10))
			}
			values.Set(f.Key, vs...)
		case f.Type == model.FieldPassword:
		case f.Type == model.FieldDate:
			values.Set(f.Key, schema.ToPresentation(meta, dateFormat))
		case f.Type == model.FieldTime:
			values.Set(f.Key, schema.PresentTime(meta, timeFormat))
		case f.Type.IsMulti() || (f.Type == model.FieldFile && f.Multiple):
			values.Set(f.Key, store.SplitValues(meta)...)
		case f.Key == kind.LogoKey() && meta == "":
			if thumb := c.store.Meta(ctx, id, store.MetaThumbnail); thumb != "" {
				values.Set(f.Key, c.store.AttachmentURL(ctx, parseID(thumb)))
			}
		default:
			values.Set(f.Key, meta)
		}
	}
	return values
}

// withOptions copies the fields with their values and the choices that depend on
// the store: taxonomy terms and the actor's own djs and locals.
func (c *Controller) withOptions(ctx context.Context, actor *model.Actor, fields []model.Field, values model.Values) []model.Field {
	out := make([]model.Field, len(fields))
	for i, f := range fields {
		f.Value = values[f.Key]
		switch {
		case f.Taxonomy != "" && len(f.Options) == 0:
			terms, err := c.store.ListTerms(ctx, f.Taxonomy)
			if err == nil {
				for _, t := range terms {
					f.Options = append(f.Options, model.Option{Value: strconv.FormatInt(t.ID, 10), Label: t.Name})
				}
			}
		case f.Key == "event_djs":
			f.Options = c.owned(ctx, actor, model.KindDJ)
		case f.Key == "event_local":
			f.Options = c.owned(ctx, actor, model.KindLocal)
		case f.Key == "event_timezone" && len(f.Options) == 0:
			f.Options = timezones
		}
		out[i] = f
	}
	return out
}

// owned lists the published entities of kind the actor can attach to an event.
func (c *Controller) owned(ctx context.Context, actor *model.Actor, kind model.Kind) []model.Option {
	if !actor.LoggedIn() {
		return nil
	}
	q := &store.Query{
		PostTypes: []model.PostType{kind.PostType()},
		Statuses:  []model.Status{model.StatusPublish},
		OrderBy:   []store.Order{{Field: store.OrderTitle}},
	}
	if !actor.IsAdmin() {
		q.Author = actor.ID
	}
	res, err := c.store.Search(ctx, q)
	if err != nil {
		return nil
	}
	opts := make([]model.Option, 0, len(res.Posts))
	for _, p := range res.Posts {
		opts = append(opts, model.Option{Value: strconv.FormatInt(p.ID, 10), Label: p.Title})
	}
	return opts
}

var timezones = []model.Option{
	{Value: "", Label: "Site timezone"},
	{Value: "UTC", Label: "UTC"},
	{Value: "America/Sao_Paulo", Label: "America/Sao_Paulo"},
	{Value: "America/New_York", Label: "America/New_York"},
	{Value: "America/Los_Angeles", Label: "America/Los_Angeles"},
	{Value: "Europe/London", Label: "Europe/London"},
	{Value: "Europe/Berlin", Label: "Europe/Berlin"},
	{Value: "Europe/Lisbon", Label: "Europe/Lisbon"},
	{Value: "Asia/Tokyo", Label: "Asia/Tokyo"},
	{Value: "Australia/Sydney", Label: "Australia/Sydney"},
}

func parseID(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
