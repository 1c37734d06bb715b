// Package redis adapta Redis para los bloqueos distribuidos de lotes y la publicación de eventos del ledger.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/refineria-api/pkg/config"
	goredis "github.com/redis/go-redis/v9"
)

// NewClient conecta a Redis y verifica la conexión con PING.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: 50,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Address, err)
	}
	return rdb, nil
}
