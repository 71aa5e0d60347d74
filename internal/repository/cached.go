package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/fakhrymubarak/weather-app/internal/cache"
	"github.com/fakhrymubarak/weather-app/internal/config"
	"github.com/fakhrymubarak/weather-app/internal/model"
)

// cachedResolver is a cache-aside GeocodeResolver. Cache failures are logged and
// never fail the lookup; failed lookups are not cached.
type cachedResolver struct {
	next  GeocodeResolver
	store cache.Store
	ttl   time.Duration
}

// NewCachedResolver wraps next with store. A nil store returns next unchanged.
func NewCachedResolver(next GeocodeResolver, store cache.Store, ttl time.Duration) GeocodeResolver {
	if store == nil {
		return next
	}
	return &cachedResolver{next: next, store: store, ttl: ttl}
}

func (r *cachedResolver) Resolve(ctx context.Context, query string) (*model.GeoResult, error) {
	key := "geocode:" + query

	var geo model.GeoResult
	if getCached(ctx, r.store, key, &geo) {
		return &geo, nil
	}

	res, err := r.next.Resolve(ctx, query)
	if err != nil {
		return nil, err
	}
	putCached(ctx, r.store, key, res, r.ttl)
	return res, nil
}

// cachedFetcher is the ForecastFetcher counterpart of cachedResolver.
type cachedFetcher struct {
	next  ForecastFetcher
	store cache.Store
	ttl   time.Duration
}

// NewCachedFetcher wraps next with store. A nil store returns next unchanged.
func NewCachedFetcher(next ForecastFetcher, store cache.Store, ttl time.Duration) ForecastFetcher {
	if store == nil {
		return next
	}
	return &cachedFetcher{next: next, store: store, ttl: ttl}
}

func (f *cachedFetcher) Fetch(ctx context.Context, lat, lon float64) (*model.WeatherResult, error) {
	key := fmt.Sprintf("forecast:%s,%s",
		strconv.FormatFloat(lat, 'f', 4, 64),
		strconv.FormatFloat(lon, 'f', 4, 64))

	var weather model.WeatherResult
	if getCached(ctx, f.store, key, &weather) {
		return &weather, nil
	}

	res, err := f.next.Fetch(ctx, lat, lon)
	if err != nil {
		return nil, err
	}
	putCached(ctx, f.store, key, res, f.ttl)
	return res, nil
}

func getCached(ctx context.Context, store cache.Store, key string, out any) bool {
	b, err := store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			config.GetLogger().Warnw("cache read failed", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(b, out); err != nil {
		config.GetLogger().Warnw("cache entry unreadable", "key", key, "error", err)
		return false
	}
	return true
}

func putCached(ctx context.Context, store cache.Store, key string, v any, ttl time.Duration) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := store.Set(ctx, key, b, ttl); err != nil {
		config.GetLogger().Warnw("cache write failed", "key", key, "error", err)
	}
}
