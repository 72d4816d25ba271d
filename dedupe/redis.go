package dedupe

import (
	"context"
	"strconv"
	"time"

	"github.com/goliatone/go-activity/pkg/types"
	"github.com/redis/go-redis/v9"
)

// DefaultRedisTTL bounds how long a fingerprint suppresses duplicates when
// the host does not scope keys per request explicitly.
const DefaultRedisTTL = 30 * time.Second

// RedisConfig wires the redis-backed request cache.
type RedisConfig struct {
	Client redis.UniversalClient

	// Prefix namespaces the fingerprint keys. Hosts that want true
	// per-request scoping include a request identifier here.
	Prefix string

	// TTL expires fingerprints so the cache does not need an explicit reset
	// between requests. Zero uses DefaultRedisTTL.
	TTL time.Duration
}

// Redis is a fingerprint set backed by redis SETNX. Unlike the in-memory
// cache it performs check-and-add atomically, so identical activities
// submitted concurrently within the same window cannot both be logged.
type Redis struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedis constructs the redis cache.
func NewRedis(cfg RedisConfig) *Redis {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultRedisTTL
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "activity:dedupe"
	}
	return &Redis{
		client: cfg.Client,
		prefix: prefix,
		ttl:    ttl,
	}
}

var (
	_ types.DedupeCache   = (*Redis)(nil)
	_ types.CheckAndAdder = (*Redis)(nil)
)

// Contains reports whether the fingerprint is present.
func (r *Redis) Contains(ctx context.Context, fingerprint uint64) bool {
	if r.client == nil {
		return false
	}
	n, err := r.client.Exists(ctx, r.key(fingerprint)).Result()
	return err == nil && n > 0
}

// Add records the fingerprint with the configured TTL.
func (r *Redis) Add(ctx context.Context, fingerprint uint64) {
	if r.client == nil {
		return
	}
	r.client.Set(ctx, r.key(fingerprint), "1", r.ttl)
}

// CheckAndAdd records the fingerprint atomically, reporting true when it was
// not already present. Errors degrade open: a failed round trip never blocks
// a legitimate activity from being logged.
func (r *Redis) CheckAndAdd(ctx context.Context, fingerprint uint64) bool {
	if r.client == nil {
		return true
	}
	added, err := r.client.SetNX(ctx, r.key(fingerprint), "1", r.ttl).Result()
	if err != nil {
		return true
	}
	return added
}

func (r *Redis) key(fingerprint uint64) string {
	return r.prefix + ":" + strconv.FormatUint(fingerprint, 16)
}
