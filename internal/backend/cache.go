package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

const DefaultCachePrefix = "anurvcard:policies:"

// CachedClient serves policy lists from a KVStore and falls through to the
// wrapped service on a miss. Cache failures are logged and never fail a call.
type CachedClient struct {
	next   Service
	kv     KVStore
	ttl    time.Duration
	prefix string
	logger zerolog.Logger
}

var _ Service = (*CachedClient)(nil)

func NewCachedClient(next Service, kv KVStore, ttl time.Duration, logger zerolog.Logger) *CachedClient {
	return &CachedClient{
		next:   next,
		kv:     kv,
		ttl:    ttl,
		prefix: DefaultCachePrefix,
		logger: logger.With().Str("component", "policy_cache").Logger(),
	}
}

func (c *CachedClient) key(userID int64) string {
	return fmt.Sprintf("%s%d", c.prefix, userID)
}

func (c *CachedClient) FetchPolicies(ctx context.Context, userID int64) ([]Policy, error) {
	key := c.key(userID)
	raw, err := c.kv.Get(ctx, key)
	switch {
	case err == nil:
		var policies []Policy
		if err := json.Unmarshal([]byte(raw), &policies); err == nil {
			c.logger.Debug().Str("key", key).Msg("cache hit")
			return policies, nil
		}
		c.logger.Warn().Str("key", key).Msg("discarding unreadable cache entry")
	case !errors.Is(err, ErrCacheMiss):
		c.logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
	}

	policies, err := c.next.FetchPolicies(ctx, userID)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(policies); err == nil {
		if err := c.kv.Set(ctx, key, string(data), c.ttl); err != nil {
			c.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
		}
	}
	return policies, nil
}

// CreatePolicy forwards to the service and drops the user's cached list.
func (c *CachedClient) CreatePolicy(ctx context.Context, req CreatePolicyRequest) (Policy, error) {
	p, err := c.next.CreatePolicy(ctx, req)
	if err != nil {
		return Policy{}, err
	}
	c.Invalidate(ctx, req.UserID)
	return p, nil
}

func (c *CachedClient) FetchUser(ctx context.Context, userID int64) (User, error) {
	return c.next.FetchUser(ctx, userID)
}

func (c *CachedClient) Invalidate(ctx context.Context, userID int64) {
	if err := c.kv.Del(ctx, c.key(userID)); err != nil {
		c.logger.Warn().Err(err).Int64("user_id", userID).Msg("cache invalidate failed")
	}
}
