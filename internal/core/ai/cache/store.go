package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"recipe-matcher/internal/infrastructure/config"
	"recipe-matcher/internal/pkg/common"
)

// Store 鍵值快取
// 未命中時 Get 回傳 common.ErrCacheMiss
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// New 依設定建立快取，停用時回傳 nil
func New(cacheCfg config.CacheConfig, redisCfg config.RedisConfig) (Store, error) {
	if !cacheCfg.Enabled {
		common.LogInfo("Cache disabled")
		return nil, nil
	}
	switch cacheCfg.Type {
	case "redis":
		store, err := NewRedisStore(redisCfg, cacheCfg.TTL)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return NewManager(cacheCfg), nil
	}
}

// Key 以命名空間與內容雜湊產生快取鍵
func Key(namespace string, parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return fmt.Sprintf("%s:%s", namespace, hex.EncodeToString(hash[:]))
}

// GetJSON 讀取並解析 JSON 快取值，store 為 nil 時視為未命中
func GetJSON(ctx context.Context, store Store, key string, v interface{}) error {
	if store == nil {
		return common.ErrCacheDisabled
	}
	raw, err := store.Get(ctx, key)
	if err != nil {
		return err
	}
	return common.ParseJSON(raw, v)
}

// SetJSON 序列化後寫入快取，store 為 nil 時忽略
func SetJSON(ctx context.Context, store Store, key string, v interface{}) error {
	if store == nil {
		return nil
	}
	raw, err := common.ToJSON(v)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return store.Set(ctx, key, raw)
}
