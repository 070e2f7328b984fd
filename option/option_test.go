package option

import (
	"context"
	"testing"
	"time"

	"event-manager-backend/store"

	"github.com/go-redis/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCache struct {
	values map[string]string
	gets   int
}

func (f *fakeCache) Get(key string) *redis.StringCmd {
	f.gets++
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeCache) Set(key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.values[key] = value.(string)
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeCache) Del(keys ...string) *redis.IntCmd {
	for _, k := range keys {
		delete(f.values, k)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func TestGetFallsBackToDefault(t *testing.T) {
	o := New(store.NewMemory(), nil, time.Minute)

	assert.Equal(t, 10, o.Int(context.Background(), PerPage))
	assert.Equal(t, "Y-m-d", o.Get(context.Background(), DateFormat))
	assert.True(t, o.Bool(context.Background(), EnableCategories))
	assert.False(t, o.Bool(context.Background(), UserRequiresAccount))
}

func TestStoredValueWinsAndIsCached(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	cache := &fakeCache{values: map[string]string{}}
	o := New(mem, cache, time.Minute)
	require.Nil(t, mem.SetOption(ctx, PerPage, "4"))

	assert.Equal(t, 4, o.Int(ctx, PerPage))
	assert.Equal(t, "4", cache.values["option:"+PerPage])

	require.Nil(t, mem.SetOption(ctx, PerPage, "5"))
	assert.Equal(t, 4, o.Int(ctx, PerPage), "expected the cached value until invalidated")

	require.Nil(t, o.Set(ctx, PerPage, "6"))
	assert.Equal(t, 6, o.Int(ctx, PerPage))
}

func TestJSONAndList(t *testing.T) {
	ctx := context.Background()
	o := New(store.NewMemory(), nil, time.Minute)

	var v map[string]int
	ok, err := o.JSON(ctx, "missing", &v)
	require.Nil(t, err)
	assert.False(t, ok)

	require.Nil(t, o.SetJSON(ctx, "blob", map[string]int{"a": 1}))
	ok, err = o.JSON(ctx, "blob", &v)
	require.Nil(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, v["a"])

	require.Nil(t, o.Set(ctx, AllowedSubmissionRoles, " dj, ,administrator"))
	assert.Equal(t, []string{"dj", "administrator"}, o.List(ctx, AllowedSubmissionRoles))

	require.Nil(t, o.Delete(ctx, AllowedSubmissionRoles))
	assert.Nil(t, o.List(ctx, AllowedSubmissionRoles))
}
