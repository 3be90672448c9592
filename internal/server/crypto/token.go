// Токены браузерных сессий
package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
)

// NewSessionToken генерирует случайный токен сессии для cookie.
func NewSessionToken() (string, error) {
	b := make([]byte, 32) // 256-bit
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// HashSessionToken возвращает SHA-256 хэш токена.
// В хранилище сессий попадает только хэш, сам токен живёт в cookie клиента.
func HashSessionToken(token string) []byte {
	sum := sha256.Sum256([]byte(token))
	return sum[:]
}
