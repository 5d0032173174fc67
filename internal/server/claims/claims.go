// Package claims provides short leases on historical base keys so that
// concurrent allocation batches do not hand the same record to two
// collaborators.
//
// The default Noop locker grants every claim, which keeps the allocator's
// plain read-then-append behaviour. Memory and Redis lockers close that
// window for a single process and for a fleet respectively.
package claims

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophreach/internal/common"
	"github.com/go-redis/redis/v8"
)

// Modes accepted by New.
const (
	ModeNone   = "none"
	ModeMemory = "memory"
	ModeRedis  = "redis"
)

// Locker grants a lease on key to owner. A false result means another owner
// already holds it.
type Locker interface {
	TryClaim(ctx context.Context, key, owner string) (bool, error)
}

type Noop struct{}

func (Noop) TryClaim(context.Context, string, string) (bool, error) { return true, nil }

// Memory is a process-local lease table.
type Memory struct {
	mu     sync.Mutex
	ttl    time.Duration
	leases map[string]lease
	now    func() time.Time
}

type lease struct {
	owner   string
	expires time.Time
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{ttl: ttl, leases: make(map[string]lease), now: time.Now}
}

func (m *Memory) TryClaim(_ context.Context, key, owner string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if l, ok := m.leases[key]; ok && now.Before(l.expires) {
		return l.owner == owner, nil
	}
	m.leases[key] = lease{owner: owner, expires: now.Add(m.ttl)}
	return true, nil
}

// Redis keeps leases as expiring keys, shared by every server process.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, prefix: "gophreach:claim:", ttl: ttl}
}

func (r *Redis) TryClaim(ctx context.Context, key, owner string) (bool, error) {
	ok, err := r.client.SetNX(ctx, r.prefix+key, owner, r.ttl).Result()
	if err != nil {
		return false, common.StoreError("claim "+key, err)
	}
	if ok {
		return true, nil
	}

	held, err := r.client.Get(ctx, r.prefix+key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, common.StoreError("claim "+key, err)
	}
	return held == owner, nil
}

// Options configures New.
type Options struct {
	Mode          string
	TTL           time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// New returns the locker named by opts.Mode and a release func for any
// connection it opened.
func New(ctx context.Context, opts Options) (Locker, func() error, error) {
	noClose := func() error { return nil }

	switch opts.Mode {
	case "", ModeNone:
		return Noop{}, noClose, nil
	case ModeMemory:
		return NewMemory(opts.TTL), noClose, nil
	case ModeRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, common.StoreError("redis ping", err)
		}
		return NewRedis(client, opts.TTL), client.Close, nil
	default:
		return nil, nil, common.Validationf("unknown claim lock mode %q", opts.Mode)
	}
}
