package shortcode

import (
	"context"
	"errors"
	"strconv"

	"event-manager-backend/dashboard"
	"event-manager-backend/model"
	"event-manager-backend/permalink"
	"event-manager-backend/submission"
)

// form runs the create variant of the submission form of kind.
func (r *Registry) form(kind model.Kind) Func {
	return func(ctx context.Context, req *Request) (*Output, error) {
		sr := &submission.Request{
			Kind:     kind,
			Actor:    req.Actor,
			Step:     req.Values.Get("step"),
			EntityID: entityID(req, kind),
			New:      req.Values.Get("new") == "1",
			Cookies:  req.Cookies,
			Values:   req.Values,
		}
		if req.Posted {
			sr.Submit = req.Values.Get("submit_"+string(kind)) != ""
			sr.Draft = req.Values.Get("save_draft") != ""
		}
		f := r.submit.Process(ctx, sr)
		out, err := r.renderer.Form(ctx, f, req.URL)
		if err != nil {
			return nil, err
		}
		return &Output{HTML: out, Cookies: f.Cookies}, nil
	}
}

func entityID(req *Request, kind model.Kind) int64 {
	raw := req.Values.Get(dashboard.IDParam(kind))
	if raw == "" {
		raw = req.Attrs.Get(dashboard.IDParam(kind))
	}
	id, _ := strconv.ParseInt(raw, 10, 64)
	return id
}

// dashboard runs a posted row action, then lists the actor's entities.
func (r *Registry) dashboard(kind model.Kind) Func {
	return func(ctx context.Context, req *Request) (*Output, error) {
		if err := r.dash.Authorize(ctx, req.Actor); err != nil {
			msg := dashboard.SignInMessage(kind)
			var ae *dashboard.ActionError
			if errors.As(err, &ae) {
				msg = ae.Message
			}
			return html(r.renderer.Alert(msg, true))
		}

		action := req.Values.Get("action")
		id := entityID(req, kind)
		var banners []dashboard.Banner

		if action == dashboard.ActionEdit && req.Posted && r.dash.ValidNonce(kind, req.Actor, req.Values.Get("_wpnonce")) {
			f := r.submit.Edit(ctx, &submission.Request{
				Kind:     kind,
				Actor:    req.Actor,
				EntityID: id,
				Values:   req.Values,
				Submit:   true,
			})
			return r.editForm(ctx, req, kind, f)
		}

		if action != "" {
			outcome := r.dash.Do(ctx, dashboard.ActionRequest{
				Kind:     kind,
				Actor:    req.Actor,
				Action:   action,
				EntityID: id,
				Nonce:    req.Values.Get("_wpnonce"),
			})
			switch {
			case outcome.Redirect != "":
				return &Output{Redirect: outcome.Redirect}, nil
			case outcome.Form != nil:
				return r.editForm(ctx, req, kind, outcome.Form)
			case outcome.Banner != nil:
				banners = append(banners, *outcome.Banner)
			}
		}

		page, err := r.dash.List(ctx, dashboard.ListRequest{
			Kind:     kind,
			Actor:    req.Actor,
			OrderBy:  req.Values.Get("search_order_by"),
			Keywords: req.Values.Get("search_keywords"),
			Page:     req.page(),
			PerPage:  req.Attrs.Int("posts_per_page", 10),
		})
		if err != nil {
			return nil, err
		}
		page.Banners = append(page.Banners, banners...)
		return html(r.renderer.Dashboard(ctx, page))
	}
}

// editForm renders an edit form posting back to the same dashboard action.
func (r *Registry) editForm(ctx context.Context, req *Request, kind model.Kind, f *submission.Form) (*Output, error) {
	action := permalink.With(r.renderer.DashboardURL(ctx, kind), map[string]string{
		"action":                dashboard.ActionEdit,
		dashboard.IDParam(kind): strconv.FormatInt(f.EntityID, 10),
		"_wpnonce":              r.dash.Nonce(kind, req.Actor),
	})
	return html(r.renderer.Form(ctx, f, action))
}
