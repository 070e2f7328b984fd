package validation

import (
	"context"
	"testing"

	"event-manager-backend/hook"
	"event-manager-backend/model"
	"event-manager-backend/option"
	"event-manager-backend/schema"
	"event-manager-backend/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var dj = &model.Actor{ID: 7, Roles: []string{model.RoleDJ}, Caps: map[string]bool{model.CapManageDJs: true, model.CapManageLocals: true}}

func setup(t *testing.T) (*Validator, *store.Store, *option.Options, *hook.Bus) {
	t.Helper()
	s := store.New(store.NewMemory())
	opts := option.New(s, nil, 0)
	bus := hook.New()
	return New(s, opts, bus), s, opts, bus
}

func djValues() model.Values {
	return model.Values{
		"dj_name":        {"Nina"},
		"dj_description": {"<p>techno</p>"},
		"dj_country":     {"Brazil"},
		"dj_email":       {"nina@example.com"},
		"dj_logo":        {"https://cdn.example.com/nina.png?v=2"},
	}
}

func TestValidSubmissionPasses(t *testing.T) {
	v, _, _, _ := setup(t)
	err := v.Validate(context.Background(), model.KindDJ, schema.Defaults(model.KindDJ), djValues(), dj)
	assert.Nil(t, err)
}

func TestMissingRequiredFieldIsNamed(t *testing.T) {
	v, _, _, _ := setup(t)
	values := djValues()
	values.Set("dj_country", " ")

	err := v.Validate(context.Background(), model.KindDJ, schema.Defaults(model.KindDJ), values, dj)
	require.NotNil(t, err)
	assert.Equal(t, "dj Country is a required field.", err.Error())
	assert.Equal(t, "dj_country", err.(*Error).Field)
}

func TestInvisibleFieldsAreSkipped(t *testing.T) {
	v, _, _, _ := setup(t)
	fields := schema.Defaults(model.KindDJ)
	for i := range fields {
		if fields[i].Key == "dj_country" {
			fields[i].Visibility = false
		}
	}
	values := djValues()
	delete(values, "dj_country")

	assert.Nil(t, v.Validate(context.Background(), model.KindDJ, fields, values, dj))
}

func TestTermsMustExist(t *testing.T) {
	ctx := context.Background()
	v, s, _, _ := setup(t)
	id, err := s.InsertTerm(ctx, &model.Term{Taxonomy: model.TaxonomyCategory, Name: "House", Slug: "house"})
	require.Nil(t, err, "expected err to be nil")

	fields := []model.Field{{Key: "event_category", Label: "Sounds", Type: model.FieldTermMultiselect, Taxonomy: model.TaxonomyCategory, Visibility: true}}
	assert.Nil(t, v.Validate(ctx, model.KindEvent, fields, model.Values{"event_category": {"house", store.JoinIDs([]int64{id})}}, nil))

	err = v.Validate(ctx, model.KindEvent, fields, model.Values{"event_category": {"house", "polka"}}, nil)
	require.NotNil(t, err)
	assert.Equal(t, "Sounds is invalid", err.Error())
}

func TestFileTypes(t *testing.T) {
	v, _, _, _ := setup(t)
	values := djValues()
	values.Set("dj_logo", "https://cdn.example.com/cv.exe")

	err := v.Validate(context.Background(), model.KindDJ, schema.Defaults(model.KindDJ), values, dj)
	require.NotNil(t, err)
	assert.Equal(t, `"Logo"(filetype exe) needs to be one of the following file types: gif, jpeg, jpg, png`, err.Error())

	values.Set("dj_logo", "42")
	assert.Nil(t, v.Validate(context.Background(), model.KindDJ, schema.Defaults(model.KindDJ), values, dj))
}

func TestEmail(t *testing.T) {
	v, _, _, _ := setup(t)
	values := djValues()
	values.Set("dj_email", "not-an-email")

	err := v.Validate(context.Background(), model.KindDJ, schema.Defaults(model.KindDJ), values, dj)
	require.NotNil(t, err)
	assert.Equal(t, "Please enter a valid dj email address", err.Error())
}

func TestActorPrecondition(t *testing.T) {
	ctx := context.Background()
	v, _, opts, _ := setup(t)

	err := v.Validate(ctx, model.KindLocal, nil, model.Values{}, nil)
	require.NotNil(t, err)
	assert.True(t, IsNotAuthorized(err))
	assert.Equal(t, "Please login as dj to add or update local!", err.Error())

	reader := &model.Actor{ID: 3, Caps: map[string]bool{model.CapRead: true}}
	assert.True(t, IsNotAuthorized(v.Authorize(ctx, model.KindDJ, reader)))
	admin := &model.Actor{ID: 1, Caps: map[string]bool{model.CapManageOptions: true}}
	assert.Nil(t, v.Authorize(ctx, model.KindDJ, admin))

	assert.Nil(t, v.Authorize(ctx, model.KindEvent, nil))
	require.Nil(t, opts.Set(ctx, option.UserRequiresAccount, "1"))
	err = v.Authorize(ctx, model.KindEvent, nil)
	require.NotNil(t, err)
	assert.Equal(t, "You must be signed in to post a new listing.", err.Error())
}

func TestFieldErrorsComeBeforeActorErrors(t *testing.T) {
	v, _, _, _ := setup(t)
	err := v.Validate(context.Background(), model.KindDJ, schema.Defaults(model.KindDJ), model.Values{}, nil)
	require.NotNil(t, err)
	assert.False(t, IsNotAuthorized(err))
}

func TestExtensionFilterCanReject(t *testing.T) {
	v, _, _, bus := setup(t)
	bus.AddFilter("submit_dj_form_validate_fields", func(ctx context.Context, value interface{}, data interface{}) interface{} {
		return data.(model.Values).Get("dj_name") != "banned"
	})
	values := djValues()
	values.Set("dj_name", "banned")

	assert.NotNil(t, v.Validate(context.Background(), model.KindDJ, schema.Defaults(model.KindDJ), values, dj))
}

func TestEventEndMustNotPrecedeStart(t *testing.T) {
	ctx := context.Background()
	v, _, opts, _ := setup(t)
	fields := schema.Defaults(model.KindEvent)
	values := model.Values{
		"event_title":       {"Warehouse"},
		"event_description": {"d"},
		"event_start_date":  {"2025-06-10"},
		"event_end_date":    {"2025-06-01"},
	}

	err := v.Validate(ctx, model.KindEvent, fields, values, nil)
	require.NotNil(t, err)
	assert.Equal(t, "event_end_date", err.(*Error).Field)
	assert.Equal(t, "End Date must not be before Start Date.", err.Error())

	values.Set("event_end_date", "2025-06-10")
	values.Set("event_start_time", "22:00")
	values.Set("event_end_time", "21:30")
	require.NotNil(t, v.Validate(ctx, model.KindEvent, fields, values, nil))

	values.Set("event_end_time", "23:59:00")
	assert.Nil(t, v.Validate(ctx, model.KindEvent, fields, values, nil))

	delete(values, "event_end_time")
	assert.Nil(t, v.Validate(ctx, model.KindEvent, fields, values, nil))

	require.Nil(t, opts.Set(ctx, option.DateFormat, "d/m/Y"))
	values = model.Values{
		"event_title":       {"Warehouse"},
		"event_description": {"d"},
		"event_start_date":  {"02/07/2025"},
		"event_end_date":    {"01/08/2025"},
	}
	assert.Nil(t, v.Validate(ctx, model.KindEvent, fields, values, nil))
}
