package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"catalog-svc/internal/domain"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss 缓存未命中
var ErrCacheMiss = errors.New("cache miss")

// DefaultSongTTL 歌曲缓存默认过期时间
const DefaultSongTTL = 5 * time.Minute

// SongCache 歌曲读取缓存。写路径（元数据修改、播放、下架）
// 负责失效，过期时间兜底。
type SongCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSongCache 创建歌曲缓存
func NewSongCache(client *redis.Client, ttl time.Duration) *SongCache {
	if ttl <= 0 {
		ttl = DefaultSongTTL
	}
	return &SongCache{
		client: client,
		ttl:    ttl,
	}
}

// Get 获取缓存的歌曲
func (c *SongCache) Get(ctx context.Context, songID string) (*domain.Song, error) {
	data, err := c.client.Get(ctx, c.key(songID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var song domain.Song
	if err := json.Unmarshal(data, &song); err != nil {
		return nil, fmt.Errorf("unmarshal cached song: %w", err)
	}
	return &song, nil
}

// Set 写入缓存
func (c *SongCache) Set(ctx context.Context, song *domain.Song) error {
	data, err := json.Marshal(song)
	if err != nil {
		return fmt.Errorf("marshal song: %w", err)
	}
	if err := c.client.Set(ctx, c.key(song.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Invalidate 使缓存失效
func (c *SongCache) Invalidate(ctx context.Context, songID string) error {
	if err := c.client.Del(ctx, c.key(songID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

// key 键规范: catalog:song:<id>
func (c *SongCache) key(songID string) string {
	return "catalog:song:" + songID
}
