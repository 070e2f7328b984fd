package install

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"event-manager-backend/auth"
	"event-manager-backend/logger"
	"event-manager-backend/model"
	"event-manager-backend/option"
	"event-manager-backend/sanitize"
	"event-manager-backend/store"
)

// InitialDBVersion is recorded the first time the service installs.
const InitialDBVersion = "3.1.13"

// Installer sets up roles, terms and pages and runs pending migrations.
type Installer struct {
	store   *store.Store
	opts    *option.Options
	version string
}

// New builds an installer for the code version.
func New(s *store.Store, opts *option.Options, version string) *Installer {
	return &Installer{store: s, opts: opts, version: version}
}

// Run installs a fresh site, or migrates one whose stored version is older than the code.
func (i *Installer) Run(ctx context.Context) error {
	stored, _ := i.opts.Lookup(ctx, option.Version)
	switch {
	case stored == "":
		return i.Install(ctx)
	case CompareVersions(stored, i.version) < 0:
		return i.Upgrade(ctx, stored)
	}
	logger.Debugf(ctx, "run: version %s is current", stored)
	return nil
}

// Install prepares storage, roles, default terms and pages. Repeated runs change nothing.
func (i *Installer) Install(ctx context.Context) error {
	if err := i.store.CreateTables(ctx); err != nil {
		return fmt.Errorf("install: tables: %w", err)
	}
	if err := i.store.CreateGeoCacheTable(ctx); err != nil {
		return fmt.Errorf("install: geo cache: %w", err)
	}
	if err := i.initRoles(ctx); err != nil {
		return fmt.Errorf("install: %w", err)
	}
	if err := i.defaultTerms(ctx); err != nil {
		return fmt.Errorf("install: %w", err)
	}
	if err := i.createPages(ctx, defaultPages); err != nil {
		return fmt.Errorf("install: %w", err)
	}
	if _, ok := i.opts.Lookup(ctx, option.DBVersion); !ok {
		if err := i.opts.Set(ctx, option.DBVersion, InitialDBVersion); err != nil {
			return fmt.Errorf("install: db version: %w", err)
		}
	}
	if err := i.opts.Set(ctx, option.Version, i.version); err != nil {
		return fmt.Errorf("install: version: %w", err)
	}
	logger.Infof(ctx, "install: installed version %s", i.version)
	return nil
}

// Upgrade runs every migration newer than from, recording the version after each one.
func (i *Installer) Upgrade(ctx context.Context, from string) error {
	if err := i.initRoles(ctx); err != nil {
		return fmt.Errorf("upgrade: %w", err)
	}
	for _, m := range migrations {
		if CompareVersions(m.version, from) <= 0 || CompareVersions(m.version, i.version) > 0 {
			continue
		}
		logger.Infof(ctx, "upgrade: running %s (%s)", m.version, m.name)
		if err := m.apply(ctx, i); err != nil {
			return fmt.Errorf("upgrade: %s: %w", m.version, err)
		}
		if err := i.opts.Set(ctx, option.Version, m.version); err != nil {
			return fmt.Errorf("upgrade: recording %s: %w", m.version, err)
		}
	}
	if err := i.opts.Set(ctx, option.Version, i.version); err != nil {
		return fmt.Errorf("upgrade: version: %w", err)
	}
	return nil
}

// initRoles adds the dj role and grants administrators every event capability.
func (i *Installer) initRoles(ctx context.Context) error {
	roles := auth.Roles(ctx, i.opts)

	dj, ok := roles[model.RoleDJ]
	if !ok {
		dj = Role(model.RoleDJ, map[string]bool{model.CapRead: true, "edit_posts": false, "delete_posts": false})
	}
	if dj.Capabilities == nil {
		dj.Capabilities = map[string]bool{}
	}
	dj.Capabilities[model.CapManageDJs] = true
	dj.Capabilities[model.CapManageLocals] = true
	roles[model.RoleDJ] = dj

	admin, ok := roles[model.RoleAdministrator]
	if !ok {
		admin = Role(model.RoleAdministrator, map[string]bool{
			model.CapRead: true, model.CapManageOptions: true, model.CapUploadFiles: true,
		})
	}
	if admin.Capabilities == nil {
		admin.Capabilities = map[string]bool{}
	}
	for _, caps := range CoreCapabilities() {
		for _, c := range caps {
			admin.Capabilities[c] = true
		}
	}
	roles[model.RoleAdministrator] = admin

	if err := i.opts.SetJSON(ctx, option.UserRoles, roles); err != nil {
		return fmt.Errorf("initRoles: %w", err)
	}
	return nil
}

func Role(name string, caps map[string]bool) auth.Role {
	return auth.Role{Name: name, Capabilities: caps}
}

// CoreCapabilities groups the capabilities granted to administrators.
func CoreCapabilities() map[string][]string {
	out := map[string][]string{
		"core": {model.CapManageEventListings, model.CapManageDJs, model.CapManageLocals},
	}
	for _, t := range []string{"event_listing", "event_dj", "event_local"} {
		out[t] = postTypeCapabilities(t)
	}
	out["event_listing"] = append(out["event_listing"],
		"manage_event_listing_terms", "edit_event_listing_terms", "delete_event_listing_terms", "assign_event_listing_terms")
	return out
}

func postTypeCapabilities(singular string) []string {
	plural := singular + "s"
	return []string{
		"edit_" + singular, "read_" + singular, "delete_" + singular,
		"edit_" + plural, "edit_others_" + plural, "publish_" + plural,
		"read_private_" + plural, "delete_" + plural, "delete_private_" + plural,
		"delete_published_" + plural, "delete_others_" + plural,
		"edit_private_" + plural, "edit_published_" + plural,
	}
}

// defaultTerms seeds event types and sounds once.
func (i *Installer) defaultTerms(ctx context.Context) error {
	if i.opts.Get(ctx, option.InstalledTerms) == "1" {
		return nil
	}
	for _, taxonomy := range []string{model.TaxonomyEventType, model.TaxonomyCategory} {
		for _, name := range DefaultTerms[taxonomy] {
			slug := sanitize.Slug(name)
			t, err := i.store.TermBySlug(ctx, taxonomy, slug)
			if err != nil {
				return fmt.Errorf("defaultTerms: %s: %w", slug, err)
			}
			if t != nil {
				continue
			}
			if _, err := i.store.InsertTerm(ctx, &model.Term{Taxonomy: taxonomy, Name: name, Slug: slug}); err != nil {
				return fmt.Errorf("defaultTerms: %s: %w", slug, err)
			}
		}
	}
	if err := i.opts.Set(ctx, option.InstalledTerms, "1"); err != nil {
		return fmt.Errorf("defaultTerms: %w", err)
	}
	return nil
}

// Page is a generated page and the shortcode it renders.
type Page struct {
	Slug    string
	Title   string
	Content string
}

var defaultPages = []Page{
	{Slug: "submit_event_form", Title: "Submit Event Form", Content: "[submit_event_form]"},
	{Slug: "event_dashboard", Title: "Event Dashboard", Content: "[event_dashboard]"},
	{Slug: "events", Title: "Events", Content: "[events]"},
	{Slug: "submit_dj_form", Title: "Submit dj Form", Content: "[submit_dj_form]"},
	{Slug: "dj_dashboard", Title: "dj Dashboard", Content: "[dj_dashboard]"},
	{Slug: "event_djs", Title: "Event djs", Content: "[event_djs]"},
	{Slug: "submit_local_form", Title: "Submit local Form", Content: "[submit_local_form]"},
	{Slug: "local_dashboard", Title: "local Dashboard", Content: "[local_dashboard]"},
	{Slug: "event_locals", Title: "Event locals", Content: "[event_locals]"},
}

// createPages inserts pages whose id option is still empty.
func (i *Installer) createPages(ctx context.Context, pages []Page) error {
	for _, p := range pages {
		name := option.PageID(p.Slug)
		if i.opts.Get(ctx, name) != "" {
			continue
		}
		id, err := i.store.Insert(ctx, &model.Post{
			Type:    model.PostTypePage,
			Title:   p.Title,
			Content: p.Content,
			Status:  model.StatusPublish,
			Author:  1,
		})
		if err != nil {
			return fmt.Errorf("createPages: %s: %w", p.Slug, err)
		}
		if err := i.opts.Set(ctx, name, strconv.FormatInt(id, 10)); err != nil {
			return fmt.Errorf("createPages: %s: %w", p.Slug, err)
		}
	}
	return nil
}

// CompareVersions compares dotted numeric versions; missing parts count as zero.
func CompareVersions(a, b string) int {
	pa, pb := strings.Split(a, "."), strings.Split(b, ".")
	for n := 0; n < len(pa) || n < len(pb); n++ {
		x, y := part(pa, n), part(pb, n)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
	}
	return 0
}

func part(parts []string, n int) int {
	if n >= len(parts) {
		return 0
	}
	v, _ := strconv.Atoi(strings.TrimSpace(parts[n]))
	return v
}
