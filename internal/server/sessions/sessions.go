// Package sessions хранит отозванные access-токены (logout).
//
// Токены stateless, поэтому logout — это запись jti в список отзыва
// до момента, когда токен и так истёк бы. Ключом служит sha256(jti),
// сам jti нигде не хранится.
package sessions

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "revoked:"

// RedisRevocations — список отзыва в Redis. Переживает рестарт и общий для всех реплик.
type RedisRevocations struct {
	rdb redis.Cmdable
}

func NewRedisRevocations(rdb redis.Cmdable) *RedisRevocations {
	return &RedisRevocations{rdb: rdb}
}

// NewRedisClient подключается к Redis и проверяет соединение.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}

// Revoke помечает токен отозванным на ttl.
func (r *RedisRevocations) Revoke(ctx context.Context, tokenHash string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return r.rdb.Set(ctx, keyPrefix+tokenHash, 1, ttl).Err()
}

func (r *RedisRevocations) IsRevoked(ctx context.Context, tokenHash string) (bool, error) {
	n, err := r.rdb.Exists(ctx, keyPrefix+tokenHash).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MemoryRevocations — список отзыва в памяти процесса.
// Используется когда redis выключен: logout работает до рестарта.
type MemoryRevocations struct {
	mu      sync.Mutex
	revoked map[string]time.Time // hash -> когда запись можно забыть
	now     func() time.Time
}

func NewMemoryRevocations() *MemoryRevocations {
	return &MemoryRevocations{revoked: make(map[string]time.Time), now: time.Now}
}

func (m *MemoryRevocations) Revoke(_ context.Context, tokenHash string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	// заодно чистим протухшие записи, иначе map растёт бесконечно
	for k, exp := range m.revoked {
		if !exp.After(now) {
			delete(m.revoked, k)
		}
	}
	m.revoked[tokenHash] = now.Add(ttl)
	return nil
}

func (m *MemoryRevocations) IsRevoked(_ context.Context, tokenHash string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	exp, ok := m.revoked[tokenHash]
	if !ok {
		return false, nil
	}
	if !exp.After(m.now()) {
		delete(m.revoked, tokenHash)
		return false, nil
	}
	return true, nil
}
