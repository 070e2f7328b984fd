package maintenance

import (
	"context"
	"fmt"
	"time"

	"event-manager-backend/listing"
	"event-manager-backend/logger"
	"event-manager-backend/model"
	"event-manager-backend/option"
	"event-manager-backend/schema"
	"event-manager-backend/store"
)

const metaExpires = "_event_expires"

// Runner expires finished events and removes abandoned previews.
type Runner struct {
	store         *store.Store
	opts          *option.Options
	engine        *listing.Engine
	previewMaxAge time.Duration
	now           func() time.Time
}

// New builds a runner. A zero previewMaxAge falls back to the preview age site option.
func New(s *store.Store, opts *option.Options, engine *listing.Engine, previewMaxAge time.Duration) *Runner {
	return &Runner{store: s, opts: opts, engine: engine, previewMaxAge: previewMaxAge, now: engine.Now}
}

// ExpireEvents marks published events that ended before today, or whose
// expiry date passed, as expired. It returns how many changed.
func (r *Runner) ExpireEvents(ctx context.Context) (int, error) {
	res, err := r.engine.Query(ctx, model.ListingQuery{
		PastOnly:  true,
		Cancelled: model.Any,
		Unbounded: true,
		OrderBy:   listing.OrderID,
	})
	if err != nil {
		return 0, fmt.Errorf("expireEvents: %w", err)
	}
	ids := make([]int64, 0, len(res.Events))
	for _, e := range res.Events {
		ids = append(ids, e.ID)
	}

	expired, err := r.store.Search(ctx, &store.Query{
		PostTypes: []model.PostType{model.PostTypeEvent},
		Statuses:  []model.Status{model.StatusPublish},
		Meta: &store.MetaQuery{Relation: store.RelationAnd, Clauses: []store.MetaClause{
			{Key: metaExpires, Value: "", Compare: store.CompareNotEqual},
			{Key: metaExpires, Value: r.now().Format(schema.DateLayout), Compare: store.CompareLT, Type: store.TypeDate},
		}},
	})
	if err != nil {
		return 0, fmt.Errorf("expireEvents: by expiry date: %w", err)
	}
	for _, p := range expired.Posts {
		ids = append(ids, p.ID)
	}

	n := 0
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if err := r.store.SetStatus(ctx, id, model.StatusExpired); err != nil {
			logger.Errorf(ctx, "expireEvents: event %d: %v", id, err)
			continue
		}
		n++
	}
	if n > 0 {
		logger.Infof(ctx, "expireEvents: %d events expired", n)
	}
	return n, nil
}

func (r *Runner) maxAge(ctx context.Context) time.Duration {
	if r.previewMaxAge > 0 {
		return r.previewMaxAge
	}
	return time.Duration(r.opts.Int(ctx, option.DeletePreviewsAfterDays)) * 24 * time.Hour
}

// DeletePreviews removes previews of every kind not touched within the max age.
func (r *Runner) DeletePreviews(ctx context.Context) (int, error) {
	cutoff := r.now().Add(-r.maxAge(ctx))
	res, err := r.store.Search(ctx, &store.Query{
		PostTypes: []model.PostType{model.PostTypeEvent, model.PostTypeDJ, model.PostTypeLocal},
		Statuses:  []model.Status{model.StatusPreview},
	})
	if err != nil {
		return 0, fmt.Errorf("deletePreviews: %w", err)
	}
	n := 0
	for _, p := range res.Posts {
		if !p.Modified.Before(cutoff) {
			continue
		}
		if err := r.store.DeletePost(ctx, p.ID); err != nil {
			logger.Errorf(ctx, "deletePreviews: %s %d: %v", p.Type, p.ID, err)
			continue
		}
		n++
	}
	if n > 0 {
		logger.Infof(ctx, "deletePreviews: %d previews deleted", n)
	}
	return n, nil
}

// Run expires events every interval and deletes previews once a day until ctx ends.
func (r *Runner) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	expire := time.NewTicker(interval)
	defer expire.Stop()
	daily := time.NewTicker(24 * time.Hour)
	defer daily.Stop()

	r.tick(ctx, true)
	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "run: maintenance stopped")
			return
		case <-expire.C:
			r.tick(ctx, false)
		case <-daily.C:
			if _, err := r.DeletePreviews(ctx); err != nil {
				logger.Errorf(ctx, "run: %v", err)
			}
		}
	}
}

func (r *Runner) tick(ctx context.Context, previews bool) {
	if _, err := r.ExpireEvents(ctx); err != nil {
		logger.Errorf(ctx, "tick: %v", err)
	}
	if !previews {
		return
	}
	if _, err := r.DeletePreviews(ctx); err != nil {
		logger.Errorf(ctx, "tick: %v", err)
	}
}
