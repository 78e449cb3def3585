package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLockNotHeld - аренда истекла или принадлежит другому владельцу.
var ErrLockNotHeld = errors.New("lock is not held by this owner")

// releaseScript удаляет ключ, только если в нём всё ещё наш токен.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// AcquireLock пытается взять аренду key на ttl. При успехе возвращает токен владельца.
// Если аренда занята, возвращается ok=false без ошибки.
func (c *Cache) AcquireLock(ctx context.Context, key string, ttl time.Duration) (token string, ok bool, err error) {
	const op = "cache.AcquireLock"
	token = uuid.NewString()
	ok, err = c.Db.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

// ReleaseLock снимает аренду, если она всё ещё принадлежит token.
func (c *Cache) ReleaseLock(ctx context.Context, key, token string) error {
	const op = "cache.ReleaseLock"
	n, err := releaseScript.Run(ctx, c.Db, []string{key}, token).Int64()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrLockNotHeld)
	}
	return nil
}

// FailureKey - ключ счётчика сбоев шаблона.
func FailureKey(templateID int64) string {
	return "sweep:failures:" + strconv.FormatInt(templateID, 10)
}

const failureCounterTTL = 30 * 24 * time.Hour

// IncrFailures увеличивает счётчик последовательных сбоев шаблона и возвращает новое значение.
func (c *Cache) IncrFailures(ctx context.Context, templateID int64) (int64, error) {
	const op = "cache.IncrFailures"
	key := FailureKey(templateID)

	pipe := c.Db.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, failureCounterTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return incr.Val(), nil
}

// ResetFailures обнуляет счётчик после успешной обработки шаблона.
func (c *Cache) ResetFailures(ctx context.Context, templateID int64) error {
	const op = "cache.ResetFailures"
	if err := c.Db.Del(ctx, FailureKey(templateID)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
