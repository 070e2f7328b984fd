package geo

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"event-manager-backend/logger"
	"event-manager-backend/store"
)

const NoAddress = "No address"

// ValidCoordinates accepts numeric latitude and longitude within range, except (0,0).
func ValidCoordinates(lat, lng string) (float64, float64, bool) {
	la, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return 0, 0, false
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(lng), 64)
	if err != nil {
		return 0, 0, false
	}
	if math.Abs(la) > 90 || math.Abs(lo) > 180 {
		return 0, 0, false
	}
	if la == 0 && lo == 0 {
		return 0, 0, false
	}
	return la, lo, true
}

func SafeAddress(address string) string {
	if strings.TrimSpace(address) == "" {
		return NoAddress
	}
	return address
}

// Geocoder resolves an address to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (lat, lng float64, err error)
}

// Locator answers coordinates of an object from the geo cache, the stored
// geolocation meta, and finally a geocoder bounded by a timeout.
type Locator struct {
	store    *store.Store
	geocoder Geocoder
	timeout  time.Duration
}

// NewLocator builds a locator; geocoder may be nil.
func NewLocator(s *store.Store, geocoder Geocoder, timeout time.Duration) *Locator {
	return &Locator{store: s, geocoder: geocoder, timeout: timeout}
}

// Locate never fails the caller: errors are logged and read as unknown coordinates.
func (l *Locator) Locate(ctx context.Context, id int64, address string) (float64, float64, bool) {
	lat, lng, ok, err := l.store.GeoLookup(ctx, id)
	if err != nil {
		logger.Warnf(ctx, "locate: cache lookup of %d: %v", id, err)
	}
	if ok {
		return lat, lng, true
	}

	if lat, lng, ok := ValidCoordinates(l.store.Meta(ctx, id, "_geolocation_lat"), l.store.Meta(ctx, id, "_geolocation_long")); ok {
		l.remember(ctx, id, lat, lng)
		return lat, lng, true
	}

	if l.geocoder == nil || strings.TrimSpace(address) == "" {
		return 0, 0, false
	}
	gctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	lat, lng, err = l.geocoder.Geocode(gctx, address)
	if err != nil {
		logger.Warnf(ctx, "locate: geocoding %d failed: %v", id, err)
		return 0, 0, false
	}
	if _, _, ok := ValidCoordinates(fmt.Sprint(lat), fmt.Sprint(lng)); !ok {
		return 0, 0, false
	}
	l.remember(ctx, id, lat, lng)
	return lat, lng, true
}

func (l *Locator) remember(ctx context.Context, id int64, lat, lng float64) {
	if err := l.store.GeoSave(ctx, id, lat, lng); err != nil {
		logger.Warnf(ctx, "remember: caching %d: %v", id, err)
	}
}

// MapLink is a maps search link for the address, or "" when nothing can be located.
func (l *Locator) MapLink(ctx context.Context, id int64, address string) string {
	if lat, lng, ok := l.Locate(ctx, id, address); ok {
		return fmt.Sprintf("https://www.openstreetmap.org/?mlat=%f&mlon=%f", lat, lng)
	}
	return ""
}
