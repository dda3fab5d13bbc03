package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const submissionKeyPrefix = "submission:"

// releaseScript deletes the key only while it still holds the caller's lease.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisSubmissionGate holds one in-flight submission per form token across instances.
type RedisSubmissionGate struct {
	client   *redis.Client
	newLease func() string
}

// NewRedisSubmissionGate constructs a Redis-backed gate.
func NewRedisSubmissionGate(client *redis.Client) *RedisSubmissionGate {
	return &RedisSubmissionGate{client: client, newLease: uuid.NewString}
}

// Acquire claims the token and returns the lease that must be presented on release.
// ok is false when another submission holds it.
func (g *RedisSubmissionGate) Acquire(ctx context.Context, token string, ttl time.Duration) (string, bool, error) {
	lease := g.newLease()
	ok, err := g.client.SetNX(ctx, submissionKeyPrefix+token, lease, ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("redis acquire submission %s: %w", token, err)
	}
	if !ok {
		return "", false, nil
	}
	return lease, true, nil
}

// Release frees the token if lease still owns it. An expired lease taken over by
// another submission is left alone.
func (g *RedisSubmissionGate) Release(ctx context.Context, token, lease string) error {
	if err := releaseScript.Run(ctx, g.client, []string{submissionKeyPrefix + token}, lease).Err(); err != nil {
		return fmt.Errorf("redis release submission %s: %w", token, err)
	}
	return nil
}

type gateHold struct {
	lease   string
	expires time.Time
}

// MemorySubmissionGate is the single-instance gate used when Redis is disabled.
type MemorySubmissionGate struct {
	mu       sync.Mutex
	held     map[string]gateHold
	now      func() time.Time
	newLease func() string
}

// NewMemorySubmissionGate constructs an in-process gate.
func NewMemorySubmissionGate() *MemorySubmissionGate {
	return &MemorySubmissionGate{held: make(map[string]gateHold), now: time.Now, newLease: uuid.NewString}
}

// Acquire claims the token unless it is held and not yet expired.
func (g *MemorySubmissionGate) Acquire(_ context.Context, token string, ttl time.Duration) (string, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.now()
	if hold, ok := g.held[token]; ok && now.Before(hold.expires) {
		return "", false, nil
	}
	lease := g.newLease()
	g.held[token] = gateHold{lease: lease, expires: now.Add(ttl)}
	return lease, true, nil
}

// Release frees the token if lease still owns it.
func (g *MemorySubmissionGate) Release(_ context.Context, token, lease string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if hold, ok := g.held[token]; ok && hold.lease == lease {
		delete(g.held, token)
	}
	return nil
}
