package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/linkboard/linkboard/internal/model"
)

const (
	// fixedLinksKey holds the JSON-encoded fixed-links listing. The
	// listing is global, so a single key is enough.
	fixedLinksKey = "fixedlinks:all"

	// FixedLinksTTL bounds staleness across instances when an
	// invalidation is lost.
	FixedLinksTTL = 5 * time.Minute
)

// GetFixedLinks retrieves the cached fixed-links listing.
// Returns (nil, nil) on a cache miss.
func (c *Cache) GetFixedLinks(ctx context.Context) ([]*model.FixedLink, error) {
	data, err := c.client.Get(ctx, fixedLinksKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var links []*model.FixedLink
	if err := json.Unmarshal(data, &links); err != nil {
		// A corrupt entry is treated as a miss so the caller reloads
		// from the database.
		return nil, nil
	}
	if links == nil {
		links = []*model.FixedLink{}
	}
	return links, nil
}

// SetFixedLinks stores the fixed-links listing.
func (c *Cache) SetFixedLinks(ctx context.Context, links []*model.FixedLink) error {
	if links == nil {
		links = []*model.FixedLink{}
	}
	data, err := json.Marshal(links)
	if err != nil {
		return fmt.Errorf("marshal fixed links: %w", err)
	}
	if err := c.client.Set(ctx, fixedLinksKey, data, FixedLinksTTL).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// InvalidateFixedLinks drops the cached listing after a mutation.
func (c *Cache) InvalidateFixedLinks(ctx context.Context) error {
	if err := c.client.Del(ctx, fixedLinksKey).Err(); err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}
	return nil
}
