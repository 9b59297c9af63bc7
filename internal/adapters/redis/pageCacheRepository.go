package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"chronicle/internal/config"
	"chronicle/internal/pagecache"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const DefaultPrefix = "pagecache:"

// PageCacheRepositoryRedis stores rendered pages as JSON strings. The Redis TTL
// only reclaims memory; freshness is still decided by Entry.ExpiresAt.
type PageCacheRepositoryRedis struct {
	Client *redis.Client
	Prefix string
}

func NewPageCacheRepositoryRedis(client *redis.Client, prefix string) *PageCacheRepositoryRedis {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &PageCacheRepositoryRedis{
		Client: client,
		Prefix: prefix,
	}
}

func (r *PageCacheRepositoryRedis) Get(ctx context.Context, key string) (pagecache.Entry, bool, error) {
	raw, err := r.Client.Get(ctx, r.Prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return pagecache.Entry{}, false, nil
	}
	if err != nil {
		return pagecache.Entry{}, false, err
	}

	var entry pagecache.Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return pagecache.Entry{}, false, err
	}
	return entry, true, nil
}

func (r *PageCacheRepositoryRedis) Set(ctx context.Context, key string, entry pagecache.Entry, ttl time.Duration) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return r.Client.Set(ctx, r.Prefix+key, raw, ttl).Err()
}

// Clear deletes every key under the prefix.
func (r *PageCacheRepositoryRedis) Clear(ctx context.Context) error {
	var (
		cursor  uint64
		removed int
	)
	for {
		keys, next, err := r.Client.Scan(ctx, cursor, r.Prefix+"*", 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := r.Client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
			removed += len(keys)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	config.Logger.Info("Cleared redis page cache", zap.String("prefix", r.Prefix), zap.Int("keys", removed))
	return nil
}
