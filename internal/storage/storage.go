package storage

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache 对相同的采集请求做短期缓存，避免重复抓取两个站点。
// Redis 未配置时所有操作都是空操作，因此 *Cache 为 nil 也可以安全调用。
type Cache struct {
	Redis *redis.Client
	TTL   time.Duration
}

// NewCache redisAddr 为空时返回 nil
func NewCache(redisAddr string, ttl time.Duration) *Cache {
	if redisAddr == "" {
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("warn: redis ping failed: %v", err)
	}

	return &Cache{Redis: rdb, TTL: ttl}
}

// Get 命中时解码到 v 并返回 true
func (c *Cache) Get(ctx context.Context, key string, v any) bool {
	if c == nil || c.Redis == nil {
		return false
	}
	bs, err := c.Redis.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("warn: cache get %s: %v", key, err)
		}
		return false
	}
	return json.Unmarshal(bs, v) == nil
}

func (c *Cache) Set(ctx context.Context, key string, v any) error {
	if c == nil || c.Redis == nil || c.TTL <= 0 {
		return nil
	}
	bs, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache marshal %s: %w", key, err)
	}
	return c.Redis.Set(ctx, key, bs, c.TTL).Err()
}

func (c *Cache) Close() error {
	if c == nil || c.Redis == nil {
		return nil
	}
	return c.Redis.Close()
}

// CollectKey 由时间窗口与关键词集合生成缓存 key；关键词顺序会影响命中列表顺序，因此不排序
func CollectKey(start, end time.Time, keywords []string) string {
	h := sha1.New()
	h.Write([]byte(strings.Join(keywords, "\x00")))
	return fmt.Sprintf("news:collect:%d:%d:%s", start.Unix(), end.Unix(), hex.EncodeToString(h.Sum(nil))[:16])
}

// GroupsKey 分组名集合的规范化形式，用于日志
func GroupsKey(groups []string) string {
	cp := append([]string(nil), groups...)
	sort.Strings(cp)
	return strings.Join(cp, ",")
}
