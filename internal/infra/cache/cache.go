// Package cache keeps assembled variation graphs in Redis. Keys carry a
// generation number; bumping the generation after any write orphans every
// cached graph at once and TTL reclaims them.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/frostedfabrics/inventory-api/internal/domain/variations"
	"github.com/redis/go-redis/v9"
)

const genKey = "inventory:gen"

type Graphs interface {
	// Lookup returns the cached graph, if any, and the generation it was
	// looked up under. Pass that generation back to Store.
	Lookup(ctx context.Context, id int64) (g *variations.Graph, gen int64, hit bool)
	Store(ctx context.Context, gen, id int64, g *variations.Graph)
	Bump(ctx context.Context)
}

type Redis struct {
	rdb *redis.Client
	ttl time.Duration
	log *slog.Logger
}

func NewRedis(rdb *redis.Client, ttl time.Duration, log *slog.Logger) *Redis {
	return &Redis{rdb: rdb, ttl: ttl, log: log}
}

func graphKey(gen, id int64) string {
	return fmt.Sprintf("inventory:%d:variation:%d", gen, id)
}

func (c *Redis) generation(ctx context.Context) (int64, error) {
	gen, err := c.rdb.Get(ctx, genKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *Redis) Lookup(ctx context.Context, id int64) (*variations.Graph, int64, bool) {
	gen, err := c.generation(ctx)
	if err != nil {
		c.log.Debug("cache generation unavailable", "err", err)
		return nil, -1, false
	}
	raw, err := c.rdb.Get(ctx, graphKey(gen, id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Debug("cache read failed", "var_id", id, "err", err)
		}
		return nil, gen, false
	}
	var g variations.Graph
	if err := json.Unmarshal(raw, &g); err != nil {
		c.log.Warn("cache entry corrupt", "var_id", id, "err", err)
		return nil, gen, false
	}
	return &g, gen, true
}

func (c *Redis) Store(ctx context.Context, gen, id int64, g *variations.Graph) {
	if gen < 0 || g == nil {
		return
	}
	raw, err := json.Marshal(g)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, graphKey(gen, id), raw, c.ttl).Err(); err != nil {
		c.log.Debug("cache write failed", "var_id", id, "err", err)
	}
}

func (c *Redis) Bump(ctx context.Context) {
	if err := c.rdb.Incr(ctx, genKey).Err(); err != nil {
		c.log.Warn("cache generation bump failed", "err", err)
	}
}

// Nop is used when Redis is disabled.
type Nop struct{}

func (Nop) Lookup(context.Context, int64) (*variations.Graph, int64, bool) { return nil, -1, false }
func (Nop) Store(context.Context, int64, int64, *variations.Graph)         {}
func (Nop) Bump(context.Context)                                            {}
