package submission

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"event-manager-backend/auth"
	"event-manager-backend/codec"
	"event-manager-backend/hook"
	"event-manager-backend/logger"
	"event-manager-backend/model"
	"event-manager-backend/option"
	"event-manager-backend/permalink"
	"event-manager-backend/schema"
	"event-manager-backend/store"
	"event-manager-backend/validation"

	"github.com/google/uuid"
)

const (
	StepSubmit = "submit"
	StepDone   = "done"
)

// Step is one state of the submission machine. Steps without a handler only render.
type Step struct {
	Key      string
	Name     string
	Priority int
	Handler  func(ctx context.Context, f *Form, req *Request) error
}

// Request carries what one HTTP request contributes to a form.
type Request struct {
	Kind     model.Kind
	Actor    *model.Actor
	Step     string
	EntityID int64
	New      bool
	Cookies  []*http.Cookie
	Values   model.Values
	// Submit is set when the final submit button was pressed, Draft when the draft button was.
	Submit bool
	Draft  bool
}

// Form is the per-request state of a submission.
type Form struct {
	Kind     model.Kind
	Name     string
	Actor    *model.Actor
	EntityID int64
	Status   model.Status
	Steps    []Step
	Step     int
	Fields   []model.Field
	Values   model.Values
	Errors   []string
	Notice   string
	ViewURL  string
	Resumed  bool
	Edit     bool
	// Invalid is set by the edit variant when the entity cannot be edited.
	Invalid bool
	Cookies []*http.Cookie
}

// StepKey is the key of the current step.
func (f *Form) StepKey() string {
	if f.Step < 0 || f.Step >= len(f.Steps) {
		return ""
	}
	return f.Steps[f.Step].Key
}

func (f *Form) addError(msg string) {
	f.Errors = append(f.Errors, msg)
}

// errNotPosted tells the machine the handler had nothing to do.
var errNotPosted = errors.New("not posted")

// errSaveFailed is the generic failure shown when the store rejects a write.
const errSaveFailed = "Your submission could not be saved. Please try again."

// Controller is shared by every request; all request state lives in Form.
type Controller struct {
	store     *store.Store
	registry  *schema.Registry
	validator *validation.Validator
	opts      *option.Options
	hooks     *hook.Bus
	sealer    *codec.Sealer
	links     *permalink.Links
	now       func() time.Time
	newKey    func() string
}

func New(s *store.Store, registry *schema.Registry, v *validation.Validator, opts *option.Options,
	hooks *hook.Bus, sealer *codec.Sealer, links *permalink.Links) *Controller {
	return &Controller{
		store:     s,
		registry:  registry,
		validator: v,
		opts:      opts,
		hooks:     hooks,
		sealer:    sealer,
		links:     links,
		now:       time.Now,
		newKey:    uuid.NewString,
	}
}

// Steps returns the step list of kind after extensions, ordered by priority.
// An extension that leaves no steps gets the defaults back.
func (c *Controller) Steps(ctx context.Context, kind model.Kind) []Step {
	defaults := []Step{
		{Key: StepSubmit, Name: "Submit Details", Priority: 10, Handler: c.submitHandler},
		{Key: StepDone, Name: "Done", Priority: 30},
	}
	steps := defaults
	if v, ok := c.hooks.Apply(ctx, fmt.Sprintf(hook.SubmitSteps, kind), append([]Step{}, defaults...), kind).([]Step); ok && len(v) > 0 {
		steps = v
	}
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].Priority < steps[j].Priority })
	return steps
}

func stepIndex(steps []Step, raw string) int {
	if raw == "" {
		return 0
	}
	if n, err := strconv.Atoi(raw); err == nil {
		if n < 0 {
			return 0
		}
		if n >= len(steps) {
			return len(steps) - 1
		}
		return n
	}
	for i, s := range steps {
		if s.Key == raw {
			return i
		}
	}
	return 0
}

// Process runs the create variant: resolve the entity, run the current step's
// handler when posted and prepare the fields of the step to render.
func (c *Controller) Process(ctx context.Context, req *Request) *Form {
	f := &Form{
		Kind:   req.Kind,
		Name:   "submit-" + string(req.Kind),
		Actor:  req.Actor,
		Steps:  c.Steps(ctx, req.Kind),
		Values: model.Values{},
	}
	f.Step = stepIndex(f.Steps, req.Step)
	c.resolve(ctx, f, req)

	if step := f.Steps[f.Step]; step.Handler != nil {
		err := step.Handler(ctx, f, req)
		switch {
		case errors.Is(err, errNotPosted):
		case err != nil:
			f.addError(err.Error())
		case !req.Draft:
			f.Step++
		}
	}

	if f.StepKey() == StepDone {
		c.done(ctx, f)
		return f
	}
	if f.StepKey() == StepSubmit {
		c.prepare(ctx, f)
	}
	return f
}

// done announces a completed submission.
func (c *Controller) done(ctx context.Context, f *Form) {
	if f.EntityID == 0 {
		return
	}
	if p, err := c.store.Entity(ctx, f.Kind, f.EntityID); err == nil {
		f.Status = p.Status
		if p.Status == model.StatusPublish {
			f.ViewURL = c.links.Post(p.ID)
		}
	}
	c.hooks.Emit(ctx, fmt.Sprintf(hook.EntitySubmitted, f.Kind), f.EntityID)
	logger.Infof(ctx, "done: %s %d submitted with status %s", f.Kind, f.EntityID, f.Status)
}

// resolve picks the entity the form works on. Ids the actor may not edit and
// entities in a status that cannot be resubmitted are demoted to a fresh form.
// An explicit id of the actor's own preview, such as a dashboard duplicate, resumes.
func (c *Controller) resolve(ctx context.Context, f *Form, req *Request) {
	id := req.EntityID
	if id > 0 && !c.canEdit(ctx, req.Kind, req.Actor, id) {
		id = 0
	}
	if id == 0 && !req.New {
		if rid := c.fromCookies(ctx, req.Kind, req.Cookies); rid > 0 {
			id = rid
			f.Resumed = true
		}
	}
	if id == 0 {
		return
	}

	p, err := c.store.Entity(ctx, req.Kind, id)
	if err != nil {
		f.Step = 0
		return
	}
	resumable := p.Status == model.StatusExpired || p.Status == model.StatusPreview
	if !f.Resumed && !resumable && !c.validStatus(ctx, req.Kind, p.Status, id) {
		f.Step = 0
		return
	}
	f.EntityID = id
	f.Status = p.Status
}

func (c *Controller) validStatus(ctx context.Context, kind model.Kind, status model.Status, id int64) bool {
	valid := c.hooks.ApplyStrings(ctx, fmt.Sprintf(hook.ValidSubmitStatuses, kind), []string{string(model.StatusPublish)}, id)
	for _, s := range valid {
		if model.Status(s) == status {
			return true
		}
	}
	return false
}

func (c *Controller) canEdit(ctx context.Context, kind model.Kind, actor *model.Actor, id int64) bool {
	p, err := c.store.Entity(ctx, kind, id)
	if err != nil {
		return false
	}
	return auth.CanEdit(actor, p.Author)
}

// submitHandler validates and saves the posted values.
func (c *Controller) submitHandler(ctx context.Context, f *Form, req *Request) error {
	if !req.Submit && !req.Draft {
		return errNotPosted
	}
	fields := c.registry.Effective(ctx, f.Kind, schema.Frontend)
	values := posted(fields, req.Values)
	f.Values = values

	check := fields
	if req.Draft {
		check = make([]model.Field, len(fields))
		for i, fl := range fields {
			fl.Required = false
			check[i] = fl
		}
	}
	if err := c.validator.Validate(ctx, f.Kind, check, values, f.Actor); err != nil {
		return err
	}

	status := c.status(f.Actor, f.Kind)
	if req.Draft {
		status = model.StatusPreview
	}
	// Previews are promoted and expired entities relisted; anything else keeps its status.
	if f.EntityID > 0 && f.Status != model.StatusPreview && f.Status != model.StatusExpired {
		status = ""
	}

	if err := c.save(ctx, f, values, status); err != nil {
		logger.Errorf(ctx, "submitHandler: %v", err)
		return errors.New(errSaveFailed)
	}
	if err := c.persist(ctx, f, fields, values); err != nil {
		logger.Errorf(ctx, "submitHandler: %v", err)
		return errors.New(errSaveFailed)
	}
	if req.Draft {
		f.Notice = "Your draft has been saved."
	}
	return nil
}

// status is the status of a newly submitted entity.
func (c *Controller) status(actor *model.Actor, kind model.Kind) model.Status {
	if actor.LoggedIn() && auth.CanManage(actor, kind) {
		return model.StatusPublish
	}
	return model.StatusPending
}

// posted keeps the values of visible fields, filling hidden fields with their default.
func posted(fields []model.Field, in model.Values) model.Values {
	out := model.Values{}
	for _, f := range fields {
		vs := in[f.Key]
		if f.Type == model.FieldHidden && len(nonEmpty(vs)) == 0 && f.Default != "" {
			vs = []string{f.Default}
		}
		if len(vs) > 0 {
			out[f.Key] = append([]string(nil), vs...)
		}
	}
	return out
}

func nonEmpty(vs []string) []string {
	return model.Values{"v": vs}.NonEmpty("v")
}
