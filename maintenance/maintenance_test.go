package maintenance

import (
	"context"
	"testing"
	"time"

	"event-manager-backend/hook"
	"event-manager-backend/listing"
	"event-manager-backend/model"
	"event-manager-backend/option"
	"event-manager-backend/schema"
	"event-manager-backend/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type env struct {
	r *Runner
	s *store.Store
}

func setup(t *testing.T, maxAge time.Duration) *env {
	t.Helper()
	s := store.New(store.NewMemory())
	opts := option.New(s, nil, 0)
	engine := listing.New(s, opts, hook.New(), time.UTC)
	return &env{r: New(s, opts, engine, maxAge), s: s}
}

func day(offset int) string {
	return time.Now().UTC().AddDate(0, 0, offset).Format(schema.DateLayout)
}

func (v *env) post(t *testing.T, kind model.PostType, status model.Status, meta map[string]string) int64 {
	t.Helper()
	ctx := context.Background()
	id, err := v.s.Insert(ctx, &model.Post{Type: kind, Title: "p", Status: status})
	require.Nil(t, err, "expected err to be nil")
	for k, val := range meta {
		require.Nil(t, v.s.SetMeta(ctx, id, k, val), "expected err to be nil")
	}
	return id
}

func (v *env) status(t *testing.T, id int64) model.Status {
	t.Helper()
	p, err := v.s.GetPost(context.Background(), id)
	require.Nil(t, err, "expected err to be nil")
	return p.Status
}

func TestExpireEvents(t *testing.T) {
	v := setup(t, time.Hour)
	ended := v.post(t, model.PostTypeEvent, model.StatusPublish, map[string]string{"_event_start_date": day(-10), "_event_end_date": day(-3)})
	running := v.post(t, model.PostTypeEvent, model.StatusPublish, map[string]string{"_event_start_date": day(-2), "_event_end_date": day(4)})
	upcoming := v.post(t, model.PostTypeEvent, model.StatusPublish, map[string]string{"_event_start_date": day(5)})
	pastExpiry := v.post(t, model.PostTypeEvent, model.StatusPublish, map[string]string{"_event_start_date": day(5), "_event_expires": day(-1)})
	draft := v.post(t, model.PostTypeEvent, model.StatusDraft, map[string]string{"_event_start_date": day(-10)})

	n, err := v.r.ExpireEvents(context.Background())
	require.Nil(t, err, "expected err to be nil")

	assert.Equal(t, 2, n)
	assert.Equal(t, model.StatusExpired, v.status(t, ended))
	assert.Equal(t, model.StatusExpired, v.status(t, pastExpiry))
	assert.Equal(t, model.StatusPublish, v.status(t, running))
	assert.Equal(t, model.StatusPublish, v.status(t, upcoming))
	assert.Equal(t, model.StatusDraft, v.status(t, draft))

	n, err = v.r.ExpireEvents(context.Background())
	require.Nil(t, err, "expected err to be nil")
	assert.Equal(t, 0, n)
}

func TestDeletePreviews(t *testing.T) {
	ctx := context.Background()
	v := setup(t, 48*time.Hour)
	stale := v.post(t, model.PostTypeDJ, model.StatusPreview, nil)
	fresh := v.post(t, model.PostTypeEvent, model.StatusPreview, nil)
	published := v.post(t, model.PostTypeEvent, model.StatusPublish, nil)

	for _, id := range []int64{stale, published} {
		p, err := v.s.GetPost(ctx, id)
		require.Nil(t, err, "expected err to be nil")
		p.Modified = time.Now().UTC().Add(-72 * time.Hour)
		require.Nil(t, v.s.UpdatePost(ctx, p), "expected err to be nil")
	}

	n, err := v.r.DeletePreviews(ctx)
	require.Nil(t, err, "expected err to be nil")
	assert.Equal(t, 1, n)

	_, err = v.s.GetPost(ctx, stale)
	assert.True(t, store.IsNotFound(err))
	_, err = v.s.GetPost(ctx, fresh)
	assert.Nil(t, err)
	_, err = v.s.GetPost(ctx, published)
	assert.Nil(t, err)
}

func TestRunStopsOnCancel(t *testing.T) {
	v := setup(t, time.Hour)
	ended := v.post(t, model.PostTypeEvent, model.StatusPublish, map[string]string{"_event_start_date": day(-5)})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		v.r.Run(ctx, time.Hour)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		p, err := v.s.GetPost(context.Background(), ended)
		return err == nil && p.Status == model.StatusExpired
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("run did not stop")
	}
}
