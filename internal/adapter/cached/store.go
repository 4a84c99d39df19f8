// Package cached wraps a datastore.Store with a read-through record cache.
// Input records are immutable for the duration of a run, so a short TTL is
// enough to spare the database on back-to-back runs over the same records.
package cached

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/quorumfin/council/internal/domain/council"
	"github.com/quorumfin/council/internal/port/cache"
	"github.com/quorumfin/council/internal/port/datastore"
)

const (
	keyProfile   = "profile:"
	keyCandidate = "candidate:"
	keyContext   = "context"
)

// Store is a caching decorator over another datastore.Store. Cache failures
// are never fatal; the inner store is always the source of truth. Concurrent
// misses for the same key collapse into a single inner load.
type Store struct {
	inner datastore.Store
	cache cache.Cache
	ttl   time.Duration
	group singleflight.Group
}

// New creates a caching Store around inner.
func New(inner datastore.Store, c cache.Cache, ttl time.Duration) *Store {
	return &Store{inner: inner, cache: c, ttl: ttl}
}

// GetProfile returns the cached profile for userID, loading through on miss.
func (s *Store) GetProfile(ctx context.Context, userID string) (council.Profile, error) {
	key := keyProfile + userID
	var p council.Profile
	if s.lookup(ctx, key, &p) {
		return p, nil
	}
	v, err, _ := s.group.Do(key, func() (any, error) {
		p, err := s.inner.GetProfile(ctx, userID)
		if err != nil {
			return nil, err
		}
		s.fill(ctx, key, p)
		return p, nil
	})
	if err != nil {
		return council.Profile{}, err
	}
	return v.(council.Profile), nil
}

// GetCandidate returns the cached asset for assetID, loading through on miss.
func (s *Store) GetCandidate(ctx context.Context, assetID string) (council.Candidate, error) {
	key := keyCandidate + assetID
	var c council.Candidate
	if s.lookup(ctx, key, &c) {
		return c, nil
	}
	v, err, _ := s.group.Do(key, func() (any, error) {
		c, err := s.inner.GetCandidate(ctx, assetID)
		if err != nil {
			return nil, err
		}
		s.fill(ctx, key, c)
		return c, nil
	})
	if err != nil {
		return council.Candidate{}, err
	}
	return v.(council.Candidate), nil
}

// GetContext returns the cached market snapshot, loading through on miss.
func (s *Store) GetContext(ctx context.Context) (council.Context, error) {
	var m council.Context
	if s.lookup(ctx, keyContext, &m) {
		return m, nil
	}
	v, err, _ := s.group.Do(keyContext, func() (any, error) {
		m, err := s.inner.GetContext(ctx)
		if err != nil {
			return nil, err
		}
		s.fill(ctx, keyContext, m)
		return m, nil
	})
	if err != nil {
		return council.Context{}, err
	}
	return v.(council.Context), nil
}

func (s *Store) lookup(ctx context.Context, key string, out any) bool {
	data, ok, err := s.cache.Get(ctx, key)
	if err != nil || !ok {
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		// Stale or corrupt entry; drop it and fall through to the inner store.
		_ = s.cache.Delete(ctx, key)
		return false
	}
	return true
}

func (s *Store) fill(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
		slog.Debug("cache fill failed", "key", key, "error", err)
	}
}
