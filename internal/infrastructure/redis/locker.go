package redis

import (
	"context"
	"errors"
	"time"

	"github.com/bsm/redislock"
	"github.com/jhoicas/refineria-api/internal/application/batch"
	"github.com/jhoicas/refineria-api/internal/domain"
	goredis "github.com/redis/go-redis/v9"
)

var _ batch.Locker = (*Locker)(nil)

const lockPrefix = "refineria:lock:"

// Locker bloqueo distribuido por lote con bsm/redislock.
type Locker struct {
	client *redislock.Client
	ttl    time.Duration
	retry  redislock.RetryStrategy
}

// NewLocker construye el locker. ttl acota cuánto puede sobrevivir un bloqueo huérfano.
func NewLocker(rdb *goredis.Client, ttl time.Duration) *Locker {
	return &Locker{
		client: redislock.New(rdb),
		ttl:    ttl,
		retry:  redislock.LimitRetry(redislock.LinearBackoff(100*time.Millisecond), 30),
	}
}

// LockKey clave Redis del bloqueo.
func LockKey(key string) string {
	return lockPrefix + key
}

// Obtain toma el bloqueo reintentando unos segundos. Si sigue tomado devuelve domain.ErrLocked.
func (l *Locker) Obtain(ctx context.Context, key string) (func(), error) {
	lock, err := l.client.Obtain(ctx, LockKey(key), l.ttl, &redislock.Options{RetryStrategy: l.retry})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, domain.ErrLocked
	}
	if err != nil {
		return nil, domain.Persistence("obtain lock", err)
	}
	return func() {
		// ctx de la solicitud puede estar cancelado; liberar igual.
		_ = lock.Release(context.Background())
	}, nil
}
