// Package jwt проверяет bearer-токены, выпущенные внешним сервисом авторизации.
// Генерация токена нужна тестам и служебным утилитам.
package jwt

import (
	"time"
)

// Maker описывает генерацию и разбор JWT токенов пользователя.
type Maker interface {
	GenerateToken(userUID string) (string, error)
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl подписывает и проверяет токены общим секретом (HS256).
type MakerImpl struct {
	secretKey string
	tokenTTL  time.Duration
}

// NewJWTMaker создаёт MakerImpl с секретом и временем жизни токена.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
