package submission

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"event-manager-backend/auth"
	"event-manager-backend/model"
)

// QuickResult is the answer of the inline dj/local creation endpoint.
type QuickResult struct {
	Code    int
	ID      int64
	Name    string
	Message string
}

// NonceAction and NonceField name the anti-forgery token of the inline creation of kind.
func NonceAction(kind model.Kind) string {
	return "wpem_add_" + string(kind) + "_action"
}

func NonceField(kind model.Kind) string {
	return "wpem_add_" + string(kind) + "_nonce"
}

var quickNotAuthorized = map[model.Kind]string{
	model.KindDJ:    "Please login as dj to add an dj!",
	model.KindLocal: "Please login as dj to add local!",
}

// QuickCreate creates a dj or local from the url-encoded form_data of the event form.
// Resumption cookies are ignored; the entity is always new.
func (c *Controller) QuickCreate(ctx context.Context, kind model.Kind, actor *model.Actor, formData, description, nonce string, nonces *auth.Nonces) QuickResult {
	if !actor.LoggedIn() || !actor.Can(kind.Capability()) {
		return QuickResult{Code: http.StatusForbidden, Message: quickNotAuthorized[kind]}
	}
	if !nonces.Verify(nonce, NonceAction(kind), actor.ID) {
		return QuickResult{Code: http.StatusForbidden, Message: "Security check failed."}
	}

	params, err := url.ParseQuery(formData)
	if err != nil {
		params = url.Values{}
	}
	name := strings.TrimSpace(params.Get(kind.NameKey()))
	idParam, hasID := params[string(kind)+"_id"]
	if name == "" || !hasID || parseID(firstOf(idParam)) != 0 {
		return QuickResult{Code: http.StatusNotFound, Message: string(kind) + " Name is a required field."}
	}

	values := model.Values{}
	for k, vs := range params {
		values[strings.TrimSuffix(k, "[]")] = vs
	}
	values.Set(kind.DescriptionKey(), description)

	req := &Request{Kind: kind, Actor: actor, New: true, Values: values, Submit: true}
	f := &Form{Kind: kind, Actor: actor, Values: model.Values{}}
	if err := c.submitHandler(ctx, f, req); err != nil || f.EntityID == 0 {
		msg := "Your submission could not be saved."
		if err != nil {
			msg = err.Error()
		}
		return QuickResult{Code: http.StatusNotFound, Message: msg}
	}

	p, err := c.store.Entity(ctx, kind, f.EntityID)
	if err != nil {
		return QuickResult{Code: http.StatusNotFound, Message: errSaveFailed}
	}
	return QuickResult{Code: http.StatusOK, ID: p.ID, Name: p.Title, Message: "Successfully created"}
}

func firstOf(vs []string) string {
	if len(vs) == 0 {
		return ""
	}
	return vs[0]
}
