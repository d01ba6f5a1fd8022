// Package jwt реализует выпуск и разбор JWT токенов сервиса.
//
// GenerateToken подписывает токен алгоритмом HS256, ParseToken проверяет
// подпись и срок действия и возвращает идентификатор пользователя.
package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// GenerateToken создает JWT токен с claim Subject, равным идентификатору
// пользователя, подписывая его секретным ключом.
//
// Время жизни токена определяется полем tokenTTL; срок действия
// проверяется при разборе, а не носит рекомендательный характер.
func (j *MakerImpl) GenerateToken(userUID string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   userUID,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(j.tokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

// ParseToken разбирает JWT токен, проверяет его подпись и срок действия,
// возвращает идентификатор пользователя, если токен корректен.
//
// Любой некорректный токен (неверная подпись, мусор вместо токена,
// истёкший срок) возвращается как обычная ошибка, без паники.
func (j *MakerImpl) ParseToken(tokenStr string) (string, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &jwt.RegisteredClaims{},
		func(_ *jwt.Token) (any, error) {
			return []byte(j.secretKey), nil
		})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("%s: invalid token", op)
	}
	return claims.Subject, nil
}
