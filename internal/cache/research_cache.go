package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gridloom/feedplanner/internal/models"
)

// ResearchCache stores niche research in Redis under "research:{niche}" with
// a TTL. It is best effort: every failure degrades to a cache miss.
type ResearchCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewResearchCache(rdb *redis.Client, ttl time.Duration) *ResearchCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &ResearchCache{rdb: rdb, ttl: ttl}
}

func (c *ResearchCache) key(niche string) string {
	return fmt.Sprintf("research:%s", strings.ToLower(strings.TrimSpace(niche)))
}

func (c *ResearchCache) Get(ctx context.Context, niche string) (*models.ResearchResult, bool) {
	raw, err := c.rdb.Get(ctx, c.key(niche)).Result()
	if err != nil {
		if err != redis.Nil {
			slog.Info(err.Error())
		}
		return nil, false
	}

	var result models.ResearchResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		slog.Info(err.Error())
		return nil, false
	}
	return &result, true
}

func (c *ResearchCache) Set(ctx context.Context, niche string, result *models.ResearchResult) {
	raw, err := json.Marshal(result)
	if err != nil {
		slog.Info(err.Error())
		return
	}
	if err := c.rdb.Set(ctx, c.key(niche), raw, c.ttl).Err(); err != nil {
		slog.Info(err.Error())
	}
}
