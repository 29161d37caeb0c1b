package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// PostTTL bounds staleness of cached post responses. Writes invalidate
// eagerly, so the TTL only matters if an invalidation is lost.
const PostTTL = 60 * time.Second

const postListKey = "posts:all"

func PostKey(id uint) string {
	return fmt.Sprintf("posts:%d", id)
}

func PostListKey() string {
	return postListKey
}

// GetJSON attempts to get the key from Redis and unmarshal into dest.
// Returns (true, nil) if found and unmarshaled, (false, nil) if not found.
// A nil Client (Redis unavailable) always reports a miss.
func GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if Client == nil {
		return false, nil
	}
	s, err := Client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(s), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON marshals v and sets the key with TTL.
func SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if Client == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return Client.Set(ctx, key, b, ttl).Err()
}

// InvalidatePost drops the cached entries affected by a write to the given
// post: its own entry and the collection listing. Best-effort.
func InvalidatePost(ctx context.Context, id uint) {
	if Client == nil {
		return
	}
	_ = Client.Del(ctx, PostKey(id), postListKey).Err()
}
