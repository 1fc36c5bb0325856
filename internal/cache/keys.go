package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	SubjectKeyPrefix = "subject:%s:user_id"
)

const (
	SubjectTTL = 10 * time.Minute
)

func SubjectKey(subject string) string {
	return fmt.Sprintf(SubjectKeyPrefix, subject)
}

// Invalidate deletes key, ignoring a nil client and Redis errors.
func Invalidate(ctx context.Context, client *redis.Client, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}
