// Package idempotency evita que a mesma movimentação seja aplicada duas
// vezes quando o cliente reenvia a requisição com o mesmo Idempotency-Key.
package idempotency

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix  = "idem:"
	defaultTTL = 24 * time.Hour
)

// Guard reserva chaves de idempotência por usuário
type Guard interface {
	// Claim reserva a chave. Retorna false se ela já foi usada.
	Claim(ctx context.Context, userID, key string) (bool, error)

	// Release libera a chave para que uma requisição rejeitada possa ser repetida
	Release(ctx context.Context, userID, key string) error
}

// RedisGuard implementa Guard com SETNX e TTL
type RedisGuard struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisGuard cria o guard. ttl <= 0 usa 24 horas.
func NewRedisGuard(client *redis.Client, ttl time.Duration) *RedisGuard {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RedisGuard{client: client, ttl: ttl}
}

// Claim implementa Guard.Claim
func (g *RedisGuard) Claim(ctx context.Context, userID, key string) (bool, error) {
	ok, err := g.client.SetNX(ctx, storageKey(userID, key), 1, g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("falha ao reservar chave de idempotência: %w", err)
	}
	return ok, nil
}

// Release implementa Guard.Release
func (g *RedisGuard) Release(ctx context.Context, userID, key string) error {
	if err := g.client.Del(ctx, storageKey(userID, key)).Err(); err != nil {
		return fmt.Errorf("falha ao liberar chave de idempotência: %w", err)
	}
	return nil
}

func storageKey(userID, key string) string {
	return keyPrefix + userID + ":" + key
}
