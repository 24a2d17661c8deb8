package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "htm-booking:lock:"

// unlockScript удаляет ключ, только если значение совпадает с нашим
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker распределенная блокировка на Redis (SET NX + TTL)
type Locker struct {
	client redis.UniversalClient
}

// NewLocker создает новый экземпляр блокировщика
func NewLocker(client redis.UniversalClient) *Locker {
	return &Locker{client: client}
}

// TryLock пытается захватить ключ на ttl. Возвращает значение блокировки,
// необходимое для Unlock, и false, если ключ уже занят.
func (l *Locker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	value := uuid.NewString()

	acquired, err := l.client.SetNX(ctx, keyPrefix+key, value, ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("%w: TryLock - key=%s: %v", ErrLockFailed, key, err)
	}
	if !acquired {
		return "", false, nil
	}

	return value, true, nil
}

// Unlock освобождает ключ, если он все еще принадлежит value
func (l *Locker) Unlock(ctx context.Context, key, value string) error {
	deleted, err := unlockScript.Run(ctx, l.client, []string{keyPrefix + key}, value).Int()
	if err != nil {
		return fmt.Errorf("%w: Unlock - key=%s: %v", ErrLockFailed, key, err)
	}
	if deleted == 0 {
		return ErrNotOwner
	}
	return nil
}
