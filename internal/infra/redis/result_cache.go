package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"

	"surgical-viz-client/internal/domain/model"
	"surgical-viz-client/internal/domain/ports/repository"
)

const (
	keyCurrent = "viz:current"
	keyHistory = "viz:history"
)

// Compile-time check
var _ repository.ResultCache = (*ResultCache)(nil)

// ResultCache is the redis backed implementation of the cache port, for
// operators who want the completed-result feed shared across local sessions.
// Only finalized visualizations are stored; in-flight job state never is.
type ResultCache struct {
	client RedisClient
	ttl    time.Duration
	limit  int64
}

func NewResultCache(client RedisClient, ttl time.Duration, historyLimit int64) *ResultCache {
	if historyLimit <= 0 {
		historyLimit = 100
	}
	return &ResultCache{client: client, ttl: ttl, limit: historyLimit}
}

func (c *ResultCache) SetCurrent(ctx context.Context, v *model.Visualization) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, keyCurrent, data, c.ttl)
}

func (c *ResultCache) Append(ctx context.Context, v *model.Visualization) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := c.client.RPush(ctx, keyHistory, data); err != nil {
		return err
	}
	if err := c.client.LTrim(ctx, keyHistory, -c.limit, -1); err != nil {
		return err
	}
	return c.client.Expire(ctx, keyHistory, c.ttl)
}

func (c *ResultCache) Current(ctx context.Context) (*model.Visualization, error) {
	data, err := c.client.Get(ctx, keyCurrent)
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var v model.Visualization
	if err := json.Unmarshal([]byte(data), &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *ResultCache) History(ctx context.Context) ([]*model.Visualization, error) {
	items, err := c.client.LRange(ctx, keyHistory, 0, -1)
	if err != nil {
		return nil, err
	}
	out := make([]*model.Visualization, 0, len(items))
	for _, raw := range items {
		var v model.Visualization
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return nil, err
		}
		out = append(out, &v)
	}
	return out, nil
}

func (c *ResultCache) Clear(ctx context.Context) error {
	return c.client.Del(ctx, keyCurrent, keyHistory)
}
