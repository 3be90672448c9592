// Хэширование паролей
package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// PasswordParams — параметры хэширования паролей.
//
// Hasher выбирает алгоритм: bcrypt (дефолт) или argon2id.
// VerifyPassword алгоритм не спрашивает — определяет его по формату хэша,
// поэтому смена хэшера в конфиге не ломает старые записи.
type PasswordParams struct {
	Hasher string // bcrypt|argon2id
	Bcrypt BcryptParams
	Argon2 Argon2Params
}

type BcryptParams struct {
	Cost int
}

type Argon2Params struct {
	Time      uint32
	MemoryKiB uint32
	Threads   uint8
	KeyLen    uint32
	SaltLen   uint32
}

// HashPassword хэширует пароль выбранным алгоритмом.
//
// bcrypt возвращает стандартную строку $2a$...,
// argon2id — строку формата:
// argon2id$v=19$m=65536,t=3,p=2$<salt_b64>$<hash_b64>
func HashPassword(password string, p PasswordParams) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("empty password")
	}

	switch strings.ToLower(p.Hasher) {
	case "", "bcrypt":
		cost := p.Bcrypt.Cost
		if cost == 0 {
			cost = bcrypt.DefaultCost
		}
		b, err := bcrypt.GenerateFromPassword([]byte(password), cost)
		if err != nil {
			return "", fmt.Errorf("bcrypt: %w", err)
		}
		return string(b), nil
	case "argon2id":
		return hashArgon2id(password, p.Argon2)
	default:
		return "", fmt.Errorf("unknown hasher %q", p.Hasher)
	}
}

// VerifyPassword проверяет пароль против сохранённого хэша.
//
// Алгоритм определяется по префиксу хэша. Сравнение константно по времени
// (bcrypt делает это внутри, для argon2id используем subtle).
//
// Возвращает:
//   - (true, nil) если пароль совпал
//   - (false, nil) если не совпал
//   - (false, err) если хэш битый
func VerifyPassword(password, encoded string) (bool, error) {
	if strings.HasPrefix(encoded, "argon2id$") {
		return verifyArgon2id(password, encoded)
	}

	err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func hashArgon2id(password string, p Argon2Params) (string, error) {
	salt := make([]byte, p.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("read salt: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, p.Time, p.MemoryKiB, p.Threads, p.KeyLen)

	b64Salt := base64.RawStdEncoding.EncodeToString(salt)
	b64Hash := base64.RawStdEncoding.EncodeToString(hash)

	encoded := fmt.Sprintf(
		"argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		p.MemoryKiB, p.Time, p.Threads,
		b64Salt, b64Hash,
	)
	return encoded, nil
}

func verifyArgon2id(password, encoded string) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 5 {
		return false, errors.New("invalid hash format")
	}

	// parts[0] = argon2id
	// parts[1] = v=19
	// parts[2] = m=...,t=...,p=...
	// parts[3] = salt
	// parts[4] = hash

	var memory uint32
	var time uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[2], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return false, errors.New("invalid params format")
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[3])
	if err != nil {
		return false, errors.New("invalid salt")
	}

	wantHash, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, errors.New("invalid hash")
	}

	got := argon2.IDKey([]byte(password), salt, time, memory, threads, uint32(len(wantHash)))
	return subtle.ConstantTimeCompare(got, wantHash) == 1, nil
}
