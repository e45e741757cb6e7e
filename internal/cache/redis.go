package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"legend-tracker/internal/config"
	"legend-tracker/internal/constants"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const keyPrefix = "legend:trophies:"

// RedisCache implements TrophyCache on Redis. The store stays
// authoritative: any Redis error degrades to a miss.
type RedisCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

func NewRedisClient(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
}

func NewRedisCache(rdb *redis.Client, logger zerolog.Logger) *RedisCache {
	return &RedisCache{
		rdb:    rdb,
		ttl:    constants.TrophyCacheTTL,
		logger: logger,
	}
}

var _ TrophyCache = (*RedisCache)(nil)

func (c *RedisCache) GetTrophies(ctx context.Context, playerTag string) (int, bool) {
	val, err := c.rdb.Get(ctx, keyPrefix+playerTag).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Debug().Err(err).Str("player_tag", playerTag).Msg("cache read failed, treating as miss")
		}
		return 0, false
	}

	trophies, err := strconv.Atoi(val)
	if err != nil {
		c.logger.Debug().Err(err).Str("player_tag", playerTag).Msg("cache value not numeric, treating as miss")
		return 0, false
	}
	return trophies, true
}

func (c *RedisCache) SetTrophies(ctx context.Context, playerTag string, trophies int) {
	err := c.rdb.Set(ctx, keyPrefix+playerTag, fmt.Sprintf("%d", trophies), c.ttl).Err()
	if err != nil {
		c.logger.Debug().Err(err).Str("player_tag", playerTag).Msg("cache write failed, skipping")
	}
}
