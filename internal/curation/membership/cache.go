package membership

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	id "tapestry/pkg/domain"
)

// CachedResolver fronts a directory-backed Resolver with Redis. Lookups hit
// the directory once per TTL per (reviewer, community) pair; Redis being down
// degrades to direct lookups rather than failing review submission.
type CachedResolver struct {
	inner  Resolver
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedResolver(inner Resolver, client *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedResolver {
	return &CachedResolver{inner: inner, client: client, ttl: ttl, logger: logger}
}

func cacheKey(reviewerID id.ReviewerID, community string) string {
	return fmt.Sprintf("membership:%s:%s", community, reviewerID)
}

func (c *CachedResolver) IsCommunityMember(ctx context.Context, reviewerID id.ReviewerID, community string) (bool, error) {
	key := cacheKey(reviewerID, community)

	cached, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		return cached == "1", nil
	case !errors.Is(err, redis.Nil):
		c.logger.WarnContext(ctx, "membership cache read failed", "error", err)
	}

	member, err := c.inner.IsCommunityMember(ctx, reviewerID, community)
	if err != nil {
		return false, err
	}

	value := "0"
	if member {
		value = "1"
	}
	if err := c.client.Set(ctx, key, value, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "membership cache write failed", "error", err)
	}
	return member, nil
}
