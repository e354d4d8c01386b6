package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Zethembe177/Job-Portal/internal/domain"
	"github.com/Zethembe177/Job-Portal/internal/platform/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const listingKeyPrefix = "listing:"

// ListingCache is a Redis-backed cache for single-listing reads.
type ListingCache struct {
	client *redis.Client
	logger *logger.Logger
}

func NewListingCache(client *redis.Client, log *logger.Logger) *ListingCache {
	return &ListingCache{client: client, logger: log.Named("ListingCache")}
}

// NewRedisClient dials Redis and verifies the connection.
func NewRedisClient(ctx context.Context, address string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: address})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// Get returns the cached listing or (nil, nil) on a miss. A corrupt entry is
// treated as a miss and evicted.
func (c *ListingCache) Get(ctx context.Context, id string) (*domain.Listing, error) {
	raw, err := c.client.Get(ctx, listingKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("cache get failed: %w", err)
	}

	var listing domain.Listing
	if err := json.Unmarshal(raw, &listing); err != nil {
		c.logger.Warn("Evicting corrupt cache entry", zap.String("listing_id", id), zap.Error(err))
		_ = c.client.Del(ctx, listingKeyPrefix+id).Err()
		return nil, nil
	}
	return &listing, nil
}

func (c *ListingCache) Set(ctx context.Context, listing *domain.Listing, ttl time.Duration) error {
	raw, err := json.Marshal(listing)
	if err != nil {
		return fmt.Errorf("failed to marshal listing for cache: %w", err)
	}
	if err := c.client.Set(ctx, listingKeyPrefix+listing.ID, raw, ttl).Err(); err != nil {
		return fmt.Errorf("cache set failed: %w", err)
	}
	return nil
}

func (c *ListingCache) Delete(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, listingKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("cache delete failed: %w", err)
	}
	return nil
}

var _ domain.ListingCache = (*ListingCache)(nil)
