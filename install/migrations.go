package install

import (
	"context"
	"fmt"

	"event-manager-backend/model"
	"event-manager-backend/option"
	"event-manager-backend/schema"
	"event-manager-backend/store"
)

type migration struct {
	version string
	name    string
	apply   func(ctx context.Context, i *Installer) error
}

// migrations run in order; each must be safe to run twice.
var migrations = []migration{
	{version: "2.5", name: "featured ordering", apply: featuredOrdering},
	{version: "3.1.14", name: "split form fields", apply: splitFormFields},
	{version: "3.1.14", name: "dj and local pages", apply: djLocalPages},
	{version: "3.1.30", name: "geo cache table", apply: geoCacheTable},
}

// featuredOrdering puts featured events first in menu order.
func featuredOrdering(ctx context.Context, i *Installer) error {
	res, err := i.store.Search(ctx, &store.Query{PostTypes: []model.PostType{model.PostTypeEvent}})
	if err != nil {
		return fmt.Errorf("featuredOrdering: %w", err)
	}
	for n := range res.Posts {
		p := res.Posts[n]
		order := 0
		if i.store.Meta(ctx, p.ID, store.MetaFeatured) == "1" {
			order = -1
		}
		if p.MenuOrder == order {
			continue
		}
		p.MenuOrder = order
		if err := i.store.UpdatePost(ctx, &p); err != nil {
			return fmt.Errorf("featuredOrdering: %d: %w", p.ID, err)
		}
	}
	return nil
}

// splitFormFields moves the combined field overrides into one option per kind.
// Fields that no longer exist on the event form are dropped.
func splitFormFields(ctx context.Context, i *Installer) error {
	var all schema.Overrides
	ok, err := i.opts.JSON(ctx, option.LegacyFormFields, &all)
	if err != nil {
		return fmt.Errorf("splitFormFields: %w", err)
	}
	if !ok || len(all) == 0 {
		return nil
	}
	if event := all[string(model.KindEvent)]; event != nil {
		delete(event, "event_address")
		delete(event, "event_local_name")
		if err := i.opts.SetJSON(ctx, option.FormFields(string(model.KindEvent)), schema.Overrides{string(model.KindEvent): event}); err != nil {
			return fmt.Errorf("splitFormFields: %w", err)
		}
	}
	if dj := all[string(model.KindDJ)]; dj != nil {
		if err := i.opts.SetJSON(ctx, option.FormFields(string(model.KindDJ)), schema.Overrides{string(model.KindDJ): dj}); err != nil {
			return fmt.Errorf("splitFormFields: %w", err)
		}
	}
	return nil
}

func djLocalPages(ctx context.Context, i *Installer) error {
	var pages []Page
	for _, p := range defaultPages {
		switch p.Slug {
		case "submit_dj_form", "dj_dashboard", "event_djs", "submit_local_form", "local_dashboard", "event_locals":
			pages = append(pages, p)
		}
	}
	return i.createPages(ctx, pages)
}

func geoCacheTable(ctx context.Context, i *Installer) error {
	return i.store.CreateGeoCacheTable(ctx)
}
