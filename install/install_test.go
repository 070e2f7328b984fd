package install

import (
	"context"
	"testing"

	"event-manager-backend/auth"
	"event-manager-backend/model"
	"event-manager-backend/option"
	"event-manager-backend/schema"
	"event-manager-backend/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, version string) (*Installer, *store.Store, *option.Options) {
	t.Helper()
	s := store.New(store.NewMemory())
	opts := option.New(s, nil, 0)
	return New(s, opts, version), s, opts
}

func pageCount(t *testing.T, s *store.Store) int {
	t.Helper()
	n, err := s.Count(context.Background(), store.Query{PostTypes: []model.PostType{model.PostTypePage}})
	require.Nil(t, err, "expected err to be nil")
	return n
}

func TestInstallIsIdempotent(t *testing.T) {
	ctx := context.Background()
	i, s, opts := setup(t, "3.1.40")

	require.Nil(t, i.Install(ctx), "expected err to be nil")
	require.Nil(t, i.Install(ctx), "expected err to be nil")

	assert.Equal(t, "3.1.40", opts.Get(ctx, option.Version))
	assert.Equal(t, InitialDBVersion, opts.Get(ctx, option.DBVersion))
	assert.Equal(t, "1", opts.Get(ctx, option.InstalledTerms))
	assert.Equal(t, len(defaultPages), pageCount(t, s))

	sounds, err := s.ListTerms(ctx, model.TaxonomyCategory)
	require.Nil(t, err, "expected err to be nil")
	assert.Len(t, sounds, len(DefaultTerms[model.TaxonomyCategory]))
	types, err := s.ListTerms(ctx, model.TaxonomyEventType)
	require.Nil(t, err, "expected err to be nil")
	assert.Len(t, types, len(DefaultTerms[model.TaxonomyEventType]))

	id := opts.Int(ctx, option.PageID("submit_event_form"))
	p, err := s.GetPost(ctx, int64(id))
	require.Nil(t, err, "expected err to be nil")
	assert.Equal(t, "[submit_event_form]", p.Content)
	assert.Equal(t, model.StatusPublish, p.Status)
}

func TestInstallRoles(t *testing.T) {
	ctx := context.Background()
	i, _, opts := setup(t, "3.1.40")
	require.Nil(t, i.Install(ctx), "expected err to be nil")

	dj := auth.Build(ctx, opts, 3, "dj", []string{model.RoleDJ})
	assert.True(t, dj.Can(model.CapManageDJs))
	assert.True(t, dj.Can(model.CapManageLocals))
	assert.True(t, dj.Can(model.CapRead))
	assert.False(t, dj.Can(model.CapManageEventListings))
	assert.False(t, dj.Can("edit_posts"))

	admin := auth.Build(ctx, opts, 1, "admin", []string{model.RoleAdministrator})
	assert.True(t, admin.Can(model.CapManageEventListings))
	assert.True(t, admin.Can("publish_event_djs"))
	assert.True(t, admin.Can("assign_event_listing_terms"))
	assert.True(t, admin.Can(model.CapManageOptions))
}

func TestRunUpgradesOldVersion(t *testing.T) {
	ctx := context.Background()
	i, s, opts := setup(t, "3.1.40")
	require.Nil(t, opts.Set(ctx, option.Version, "2.4"), "expected err to be nil")

	featured, err := s.Insert(ctx, &model.Post{Type: model.PostTypeEvent, Title: "F", Status: model.StatusPublish, MenuOrder: 3})
	require.Nil(t, err, "expected err to be nil")
	require.Nil(t, s.SetMeta(ctx, featured, store.MetaFeatured, "1"), "expected err to be nil")
	plain, err := s.Insert(ctx, &model.Post{Type: model.PostTypeEvent, Title: "P", Status: model.StatusPublish, MenuOrder: 5})
	require.Nil(t, err, "expected err to be nil")

	label := func(s string) model.FieldOverride { return model.FieldOverride{Label: &s} }
	legacy := schema.Overrides{
		"event": {"event_title": label("Name"), "event_address": label("Gone"), "event_local_name": label("Gone")},
		"dj":    {"dj_name": label("Artist")},
	}
	require.Nil(t, opts.SetJSON(ctx, option.LegacyFormFields, legacy), "expected err to be nil")

	require.Nil(t, i.Run(ctx), "expected err to be nil")
	require.Nil(t, i.Run(ctx), "expected err to be nil")

	assert.Equal(t, "3.1.40", opts.Get(ctx, option.Version))
	p, err := s.GetPost(ctx, featured)
	require.Nil(t, err, "expected err to be nil")
	assert.Equal(t, -1, p.MenuOrder)
	p, err = s.GetPost(ctx, plain)
	require.Nil(t, err, "expected err to be nil")
	assert.Equal(t, 0, p.MenuOrder)

	var event schema.Overrides
	_, err = opts.JSON(ctx, option.FormFields("event"), &event)
	require.Nil(t, err, "expected err to be nil")
	require.NotNil(t, event["event"]["event_title"].Label)
	assert.Equal(t, "Name", *event["event"]["event_title"].Label)
	assert.NotContains(t, event["event"], "event_address")
	assert.NotContains(t, event["event"], "event_local_name")

	var dj schema.Overrides
	_, err = opts.JSON(ctx, option.FormFields("dj"), &dj)
	require.Nil(t, err, "expected err to be nil")
	require.NotNil(t, dj["dj"]["dj_name"].Label)
	assert.Equal(t, "Artist", *dj["dj"]["dj_name"].Label)

	assert.Equal(t, 6, pageCount(t, s))
	assert.NotEqual(t, "", opts.Get(ctx, option.PageID("local_dashboard")))
}

func TestUpgradeSkipsAppliedMigrations(t *testing.T) {
	ctx := context.Background()
	i, s, opts := setup(t, "3.1.40")
	require.Nil(t, opts.Set(ctx, option.Version, "3.1.20"), "expected err to be nil")

	id, err := s.Insert(ctx, &model.Post{Type: model.PostTypeEvent, Title: "F", Status: model.StatusPublish, MenuOrder: 4})
	require.Nil(t, err, "expected err to be nil")

	require.Nil(t, i.Run(ctx), "expected err to be nil")

	p, err := s.GetPost(ctx, id)
	require.Nil(t, err, "expected err to be nil")
	assert.Equal(t, 4, p.MenuOrder)
	assert.Equal(t, 0, pageCount(t, s))
	assert.Equal(t, "3.1.40", opts.Get(ctx, option.Version))
}

func TestCompareVersions(t *testing.T) {
	assert.Equal(t, -1, CompareVersions("2.4", "2.5"))
	assert.Equal(t, 1, CompareVersions("3.1.14", "3.1.9"))
	assert.Equal(t, 0, CompareVersions("3.1", "3.1.0"))
	assert.Equal(t, -1, CompareVersions("3.1.13", "3.1.40"))
}
