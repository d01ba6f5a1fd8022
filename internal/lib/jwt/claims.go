// Package jwt реализует выпуск и разбор JWT токенов сервиса.
//
// Токен привязывает только идентификатор пользователя (claim Subject),
// никаких учётных данных в полезной нагрузке не хранится.
package jwt

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// Maker описывает интерфейс для выпуска и разбора JWT токенов.
type Maker interface {
	// GenerateToken выпускает подписанный токен для идентификатора пользователя.
	GenerateToken(userUID string) (string, error)
	// ParseToken разбирает токен и возвращает идентификатор пользователя.
	ParseToken(tokenStr string) (string, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни токена.
}

// NewJWTMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}

// NewRandomSecret генерирует случайный 256-битный секрет подписи.
// Секрет живёт только в памяти процесса: после перезапуска все ранее
// выпущенные токены перестают проходить проверку.
func NewRandomSecret() (string, error) {
	const op = "jwt.NewRandomSecret"
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return hex.EncodeToString(buf), nil
}
