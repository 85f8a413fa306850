package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const referenceKeyPrefix = "payments:reference:"

// ReferenceReserver claims payment reference numbers in Redis so two
// concurrent creations cannot hand out the same one.
type ReferenceReserver struct {
	client *redis.Client
	ttl    time.Duration
}

func NewReferenceReserver(client *redis.Client, ttl time.Duration) *ReferenceReserver {
	if ttl <= 0 {
		ttl = 48 * time.Hour
	}
	return &ReferenceReserver{client: client, ttl: ttl}
}

// Reserve returns false when the reference is already taken.
func (r *ReferenceReserver) Reserve(ctx context.Context, reference string) (bool, error) {
	return r.client.SetNX(ctx, referenceKeyPrefix+reference, time.Now().Unix(), r.ttl).Result()
}
