package geo

import (
	"context"
	"errors"
	"testing"
	"time"

	"event-manager-backend/model"
	"event-manager-backend/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGeocoder struct {
	lat, lng float64
	err      error
	calls    int
}

func (f *fakeGeocoder) Geocode(ctx context.Context, address string) (float64, float64, error) {
	f.calls++
	return f.lat, f.lng, f.err
}

func TestValidCoordinates(t *testing.T) {
	_, _, ok := ValidCoordinates("52.52", "13.40")
	assert.True(t, ok)
	_, _, ok = ValidCoordinates("0", "0")
	assert.False(t, ok)
	_, _, ok = ValidCoordinates("91", "10")
	assert.False(t, ok)
	_, _, ok = ValidCoordinates("abc", "10")
	assert.False(t, ok)
}

func TestSafeAddress(t *testing.T) {
	assert.Equal(t, "No address", SafeAddress(" "))
	assert.Equal(t, "Main St", SafeAddress("Main St"))
}

func newLocator(t *testing.T, g Geocoder) (*Locator, *store.Store, int64) {
	t.Helper()
	ctx := context.Background()
	s := store.New(store.NewMemory())
	require.Nil(t, s.CreateGeoCacheTable(ctx))
	id, err := s.Insert(ctx, &model.Post{Type: model.PostTypeEvent, Status: model.StatusPublish})
	require.Nil(t, err)
	return NewLocator(s, g, time.Second), s, id
}

func TestLocateUsesMetaThenCache(t *testing.T) {
	ctx := context.Background()
	g := &fakeGeocoder{lat: 1, lng: 1}
	l, s, id := newLocator(t, g)
	require.Nil(t, s.SetMeta(ctx, id, "_geolocation_lat", "52.5"))
	require.Nil(t, s.SetMeta(ctx, id, "_geolocation_long", "13.4"))

	lat, lng, ok := l.Locate(ctx, id, "Berlin")
	require.True(t, ok)
	assert.Equal(t, 52.5, lat)
	assert.Equal(t, 13.4, lng)
	assert.Equal(t, 0, g.calls)

	_, _, cached, err := s.GeoLookup(ctx, id)
	require.Nil(t, err)
	assert.True(t, cached)
}

func TestLocateDegradesOnGeocoderError(t *testing.T) {
	g := &fakeGeocoder{err: errors.New("timeout")}
	l, _, id := newLocator(t, g)

	_, _, ok := l.Locate(context.Background(), id, "Somewhere")
	assert.False(t, ok)
	assert.Equal(t, "", l.MapLink(context.Background(), id, "Somewhere"))
}

func TestLocateGeocodesAndCaches(t *testing.T) {
	g := &fakeGeocoder{lat: 48.1, lng: 11.5}
	l, _, id := newLocator(t, g)

	assert.NotEqual(t, "", l.MapLink(context.Background(), id, "Munich"))
	_, _, ok := l.Locate(context.Background(), id, "Munich")
	assert.True(t, ok)
	assert.Equal(t, 1, g.calls)
}
