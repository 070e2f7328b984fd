package validation

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	"event-manager-backend/auth"
	"event-manager-backend/hook"
	"event-manager-backend/model"
	"event-manager-backend/option"
	"event-manager-backend/store"
	"event-manager-backend/upload"

	"github.com/go-playground/validator/v10"
)

// Reason classifies a validation failure.
type Reason int

const (
	Invalid Reason = iota
	NotAuthorized
)

// Error is a user facing validation failure.
type Error struct {
	Reason  Reason
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// IsNotAuthorized reports whether err is an actor precondition failure.
func IsNotAuthorized(err error) bool {
	e, ok := err.(*Error)
	return ok && e.Reason == NotAuthorized
}

// FieldsFilter is the filter name an extension may use to veto a submission: submit_<kind>_form_validate_fields.
const FieldsFilter = "submit_%s_form_validate_fields"

var notAuthorized = map[model.Kind]string{
	model.KindEvent: "You must be signed in to post a new listing.",
	model.KindDJ:    "Please login as dj to add or update an dj!",
	model.KindLocal: "Please login as dj to add or update local!",
}

var invalidEmail = map[model.Kind]string{
	model.KindEvent: "Please enter a valid email address",
	model.KindDJ:    "Please enter a valid dj email address",
	model.KindLocal: "Please enter a valid local email address",
}

type Validator struct {
	store *store.Store
	opts  *option.Options
	hooks *hook.Bus
	check *validator.Validate
}

func New(s *store.Store, opts *option.Options, hooks *hook.Bus) *Validator {
	return &Validator{store: s, opts: opts, hooks: hooks, check: validator.New()}
}

// Validate checks values against fields and then the actor precondition of kind.
// It stops at the first failure.
func (v *Validator) Validate(ctx context.Context, kind model.Kind, fields []model.Field, values model.Values, actor *model.Actor) error {
	for _, f := range fields {
		if err := v.field(ctx, kind, f, values); err != nil {
			return err
		}
	}
	if kind == model.KindEvent {
		if err := v.eventDates(ctx, values); err != nil {
			return err
		}
	}
	if err := v.Authorize(ctx, kind, actor); err != nil {
		return err
	}
	if !v.hooks.ApplyBool(ctx, fmt.Sprintf(FieldsFilter, kind), true, values) {
		return &Error{Reason: Invalid, Message: "Your submission could not be accepted."}
	}
	return nil
}

// Authorize is the actor precondition. Events accept guests unless the site requires
// an account; djs and locals need the kind's capability or manage_options.
func (v *Validator) Authorize(ctx context.Context, kind model.Kind, actor *model.Actor) error {
	if kind == model.KindEvent {
		if !actor.LoggedIn() && v.opts.Bool(ctx, option.UserRequiresAccount) {
			return &Error{Reason: NotAuthorized, Message: notAuthorized[kind]}
		}
		return nil
	}
	if !actor.LoggedIn() || !auth.CanManage(actor, kind) {
		return &Error{Reason: NotAuthorized, Message: notAuthorized[kind]}
	}
	return nil
}

func (v *Validator) field(ctx context.Context, kind model.Kind, f model.Field, values model.Values) error {
	if !f.Visibility {
		return nil
	}
	if f.Required && values.Empty(f.Key) {
		return &Error{Field: f.Key, Message: fmt.Sprintf("%s is a required field.", f.Label)}
	}

	if f.Taxonomy != "" && f.Type.IsTermPick() {
		for _, term := range values.NonEmpty(f.Key) {
			if !v.store.TermExists(ctx, f.Taxonomy, term) {
				return &Error{Field: f.Key, Message: fmt.Sprintf("%s is invalid", f.Label)}
			}
		}
	}

	if f.Type == model.FieldFile && len(f.AllowedMimeTypes) > 0 {
		for _, file := range values.NonEmpty(f.Key) {
			if ext, ok := allowedFile(file, f.AllowedMimeTypes); !ok {
				return &Error{Field: f.Key, Message: fmt.Sprintf("\"%s\"(filetype %s) needs to be one of the following file types: %s",
					f.Label, ext, strings.Join(sortedKeys(f.AllowedMimeTypes), ", "))}
			}
		}
	}

	if f.Type == model.FieldEmail || f.Key == string(kind)+"_email" {
		if email := strings.TrimSpace(values.Get(f.Key)); email != "" {
			if err := v.check.Var(email, "email"); err != nil {
				return &Error{Field: f.Key, Message: invalidEmail[kind]}
			}
		}
	}
	return nil
}

// allowedFile resolves the file's type from its extension. Numeric values are
// already attached media and always pass.
func allowedFile(file string, allowed map[string]string) (string, bool) {
	file = strings.TrimSpace(strings.SplitN(file, "?", 2)[0])
	if isNumeric(file) {
		return "", true
	}
	typ := upload.TypeByExtension(file)
	name := strings.TrimPrefix(strings.ToLower(path.Ext(file)), ".")
	if typ == "" {
		return name, false
	}
	for _, want := range allowed {
		if want == typ {
			return name, true
		}
	}
	return name, false
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func sortedKeys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
