package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/autochef0332/autochef/internal/core/domain"
	"github.com/autochef0332/autochef/internal/core/ordering"
	"github.com/autochef0332/autochef/internal/pkg/metrics"
)

const (
	defaultCacheTTL = 5 * time.Minute
	generationTTL   = 24 * time.Hour
)

// setIfGeneration writes the list only while the generation key still holds ARGV[1].
// A missing generation key reads as 0.
var setIfGeneration = redis.NewScript(`
local gen = redis.call("GET", KEYS[1])
if not gen then gen = "0" end
if gen ~= ARGV[1] then return 0 end
redis.call("SET", KEYS[2], ARGV[2], "PX", ARGV[3])
return 1
`)

var _ ordering.Cache[domain.MenuSection] = (*CollectionCache[domain.MenuSection])(nil)

// CollectionCache keeps the sorted list of one scope as a JSON array.
// Key format: menu:<kind>:<owner_id>:<parent_id>, generation under the same key plus ":gen".
type CollectionCache[T ordering.Record] struct {
	client *redis.Client
	kind   string
	ttl    time.Duration
	log    zerolog.Logger
}

// NewCollectionCache creates a cache for records of kind. A non-positive ttl falls back to five minutes.
func NewCollectionCache[T ordering.Record](client *redis.Client, kind string, ttl time.Duration, log zerolog.Logger) *CollectionCache[T] {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &CollectionCache[T]{
		client: client,
		kind:   kind,
		ttl:    ttl,
		log:    log.With().Str("cache", kind).Logger(),
	}
}

func (c *CollectionCache[T]) Get(ctx context.Context, scope ordering.Scope) ([]T, bool) {
	raw, err := c.client.Get(ctx, c.key(scope)).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.CacheLookupsTotal.WithLabelValues(c.kind, "miss").Inc()
		return nil, false
	}
	if err != nil {
		metrics.CacheLookupsTotal.WithLabelValues(c.kind, "error").Inc()
		c.log.Warn().Err(err).Str("scope", scope.String()).Msg("cache read failed")
		return nil, false
	}

	var records []T
	if err := json.Unmarshal(raw, &records); err != nil {
		metrics.CacheLookupsTotal.WithLabelValues(c.kind, "error").Inc()
		c.log.Warn().Err(err).Str("scope", scope.String()).Msg("cache entry corrupt")
		return nil, false
	}
	metrics.CacheLookupsTotal.WithLabelValues(c.kind, "hit").Inc()
	return records, true
}

func (c *CollectionCache[T]) Generation(ctx context.Context, scope ordering.Scope) (uint64, bool) {
	gen, err := c.client.Get(ctx, c.genKey(scope)).Uint64()
	if errors.Is(err, redis.Nil) {
		return 0, true
	}
	if err != nil {
		c.log.Warn().Err(err).Str("scope", scope.String()).Msg("cache generation read failed")
		return 0, false
	}
	return gen, true
}

func (c *CollectionCache[T]) Set(ctx context.Context, scope ordering.Scope, gen uint64, records []T) {
	if records == nil {
		records = []T{}
	}
	raw, err := json.Marshal(records)
	if err != nil {
		c.log.Warn().Err(err).Str("scope", scope.String()).Msg("cache encode failed")
		return
	}
	keys := []string{c.genKey(scope), c.key(scope)}
	stored, err := setIfGeneration.Run(ctx, c.client, keys, strconv.FormatUint(gen, 10), raw, c.ttl.Milliseconds()).Int()
	if err != nil {
		c.log.Warn().Err(err).Str("scope", scope.String()).Msg("cache write failed")
		return
	}
	if stored == 0 {
		c.log.Debug().Str("scope", scope.String()).Uint64("generation", gen).Msg("cache write skipped, list changed")
	}
}

// Invalidate bumps the generation and drops the list in one transaction.
func (c *CollectionCache[T]) Invalidate(ctx context.Context, scope ordering.Scope) {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, c.genKey(scope))
		pipe.Expire(ctx, c.genKey(scope), max(generationTTL, 2*c.ttl))
		pipe.Del(ctx, c.key(scope))
		return nil
	})
	if err != nil {
		c.log.Warn().Err(err).Str("scope", scope.String()).Msg("cache invalidation failed")
	}
}

func (c *CollectionCache[T]) key(scope ordering.Scope) string {
	return fmt.Sprintf("menu:%s:%s:%s", c.kind, scope.OwnerID, scope.ParentID)
}

func (c *CollectionCache[T]) genKey(scope ordering.Scope) string {
	return c.key(scope) + ":gen"
}
