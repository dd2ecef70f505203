// Package redislock exclusión mutua entre réplicas para trabajos periódicos (SETNX + TTL).
package redislock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultTTL = 10 * time.Minute

// Store operaciones de Redis que usa el candado.
// DeleteIfOwner compara y borra en un solo paso: true si la clave valía owner y se borró.
type Store interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	DeleteIfOwner(ctx context.Context, key, owner string) (bool, error)
}

// Lock candado con dueño; solo quien lo adquirió lo libera.
type Lock struct {
	store Store
	key   string
	ttl   time.Duration
	owner string
}

// New construye el candado sobre key.
func New(store Store, key string, ttl time.Duration) (*Lock, error) {
	if store == nil {
		return nil, errors.New("redis store required for lock")
	}
	if key == "" {
		return nil, errors.New("lock key is required")
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Lock{store: store, key: key, ttl: ttl}, nil
}

// Acquire intenta tomar el candado; false si otra réplica lo tiene.
func (l *Lock) Acquire(ctx context.Context) (bool, error) {
	owner := uuid.NewString()
	ok, err := l.store.SetNX(ctx, l.key, owner, l.ttl)
	if err != nil {
		return false, fmt.Errorf("setnx: %w", err)
	}
	if ok {
		l.owner = owner
	}
	return ok, nil
}

// Release libera el candado si sigue siendo nuestro. Si el TTL venció y otra réplica
// lo tomó, su candado queda intacto.
func (l *Lock) Release(ctx context.Context) error {
	if l.owner == "" {
		return nil
	}
	if _, err := l.store.DeleteIfOwner(ctx, l.key, l.owner); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	l.owner = ""
	return nil
}

var _ Store = (*ClientStore)(nil)

// ClientStore adapta *redis.Client a Store.
type ClientStore struct {
	c *redis.Client
}

// NewClientStore abre el cliente y verifica la conexión.
func NewClientStore(ctx context.Context, addr, password string, db int) (*ClientStore, error) {
	c := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &ClientStore{c: c}, nil
}

func (s *ClientStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	return s.c.SetNX(ctx, key, value, ttl).Result()
}

// releaseScript borra la clave solo si su valor es el dueño (ARGV[1]).
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

func (s *ClientStore) DeleteIfOwner(ctx context.Context, key, owner string) (bool, error) {
	n, err := releaseScript.Run(ctx, s.c, []string{key}, owner).Int64()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// Close cierra la conexión.
func (s *ClientStore) Close() error {
	return s.c.Close()
}
