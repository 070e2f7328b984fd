package schema

import (
	"context"
	"testing"

	"event-manager-backend/model"
	"event-manager-backend/option"
	"event-manager-backend/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistry() (*Registry, *option.Options) {
	opts := option.New(store.NewMemory(), nil, 0)
	return NewRegistry(opts), opts
}

func keys(fields []model.Field) []string {
	out := []string{}
	for _, f := range fields {
		out = append(out, f.Key)
	}
	return out
}

func TestEffectiveDefaultsAreOrdered(t *testing.T) {
	r, _ := newRegistry()
	fields := r.Effective(context.Background(), model.KindDJ, Frontend)

	assert.Equal(t, []string{"dj_name", "dj_logo", "dj_description", "dj_country", "dj_email",
		"dj_website", "dj_facebook", "dj_instagram", "dj_youtube", "dj_twitter"}, keys(fields))
	for i := 1; i < len(fields); i++ {
		assert.LessOrEqual(t, fields[i-1].Priority, fields[i].Priority)
	}
}

func TestOverridesMergePerKey(t *testing.T) {
	ctx := context.Background()
	r, opts := newRegistry()
	_ = r.Effective(ctx, model.KindLocal, Frontend)

	require.Nil(t, opts.Set(ctx, option.FormFields("local"),
		`{"local":{"local_name":{"label":"Venue","priority":"20"},"local_logo":{"visibility":"0"},"local_capacity":{"label":"Capacity","type":"number","priority":3}}}`))

	fields := r.Effective(ctx, model.KindLocal, Frontend)
	byKey := map[string]model.Field{}
	for _, f := range fields {
		byKey[f.Key] = f
	}

	assert.Equal(t, "Venue", byKey["local_name"].Label)
	assert.True(t, byKey["local_name"].Required)
	assert.False(t, byKey["local_logo"].Visibility)
	assert.Equal(t, model.FieldNumber, byKey["local_capacity"].Type)
	assert.Equal(t, "local_name", fields[len(fields)-1].Key)
	assert.Equal(t, "Brazil", byKey["local_country"].Default)
}

func TestSaveOverridesInvalidates(t *testing.T) {
	ctx := context.Background()
	r, _ := newRegistry()
	label := "Artist"
	require.Nil(t, r.SaveOverrides(ctx, model.KindDJ, map[string]model.FieldOverride{"dj_name": {Label: &label}}))

	f, ok := r.Field(ctx, model.KindDJ, "dj_name")
	require.True(t, ok)
	assert.Equal(t, "Artist", f.Label)

	require.Nil(t, r.Reset(ctx, model.KindDJ))
	f, _ = r.Field(ctx, model.KindDJ, "dj_name")
	assert.Equal(t, "dj name", f.Label)
}

func TestUnreadableOverridesFallBackToDefaults(t *testing.T) {
	ctx := context.Background()
	r, opts := newRegistry()
	require.Nil(t, opts.Set(ctx, option.FormFields("dj"), "{not json"))

	assert.Len(t, r.Effective(ctx, model.KindDJ, Frontend), 10)
}

func TestFeatureTogglesDropEventFields(t *testing.T) {
	ctx := context.Background()
	r, opts := newRegistry()

	all := keys(r.Effective(ctx, model.KindEvent, Frontend))
	assert.Contains(t, all, "event_category")
	assert.Contains(t, all, "event_djs")
	assert.NotContains(t, all, "event_timezone")
	assert.NotContains(t, all, "event_dj_name")

	require.Nil(t, opts.Set(ctx, option.EnableCategories, "0"))
	require.Nil(t, opts.Set(ctx, option.EnableDJs, "0"))
	require.Nil(t, opts.Set(ctx, option.TimezoneSetting, option.TimezonePerEvent))

	got := keys(r.Effective(ctx, model.KindEvent, Frontend))
	assert.NotContains(t, got, "event_category")
	assert.NotContains(t, got, "event_djs")
	assert.Contains(t, got, "event_timezone")
}

func TestBackendKeepsAdminOnlyFields(t *testing.T) {
	r, _ := newRegistry()
	got := keys(r.Effective(context.Background(), model.KindEvent, Backend))
	assert.Contains(t, got, "event_dj_name")
	assert.Contains(t, got, "event_local_name")
}

func TestDefaultsReturnsCopies(t *testing.T) {
	a := Defaults(model.KindDJ)
	a[0].Label = "changed"
	assert.Equal(t, "dj name", Defaults(model.KindDJ)[0].Label)
}
