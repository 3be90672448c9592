package tests

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/IvanChernomyrdin/go-auth-portal/internal/server/crypto"
)

func bcryptParams() crypto.PasswordParams {
	// минимальная стоимость, чтобы тесты не тормозили
	return crypto.PasswordParams{
		Hasher: "bcrypt",
		Bcrypt: crypto.BcryptParams{Cost: 4},
	}
}

func argon2Params() crypto.PasswordParams {
	return crypto.PasswordParams{
		Hasher: "argon2id",
		Argon2: crypto.Argon2Params{
			Time:      1,
			MemoryKiB: 16 * 1024,
			Threads:   1,
			KeyLen:    32,
			SaltLen:   16,
		},
	}
}

// bcrypt: хэш и проверка
func TestHashPassword_Bcrypt_RoundTrip(t *testing.T) {
	hash, err := crypto.HashPassword("strongpassword", bcryptParams())
	require.NoError(t, err)

	ok, err := crypto.VerifyPassword("strongpassword", hash)
	require.NoError(t, err)
	if !ok {
		t.Fatal("expected password to match")
	}

	ok, err = crypto.VerifyPassword("wrongpassword", hash)
	require.NoError(t, err)
	if ok {
		t.Fatal("expected password mismatch")
	}
}

// argon2id: хэш и проверка
func TestHashPassword_Argon2_RoundTrip(t *testing.T) {
	hash, err := crypto.HashPassword("strongpassword", argon2Params())
	require.NoError(t, err)

	if !strings.HasPrefix(hash, "argon2id$v=19$") {
		t.Fatalf("unexpected hash format: %s", hash)
	}

	ok, err := crypto.VerifyPassword("strongpassword", hash)
	require.NoError(t, err)
	if !ok {
		t.Fatal("expected password to match")
	}

	ok, err = crypto.VerifyPassword("wrongpassword", hash)
	require.NoError(t, err)
	if ok {
		t.Fatal("expected password mismatch")
	}
}

// Пустой hasher — дефолтный bcrypt
func TestHashPassword_DefaultHasher(t *testing.T) {
	hash, err := crypto.HashPassword("strongpassword", crypto.PasswordParams{})
	require.NoError(t, err)

	if !strings.HasPrefix(hash, "$2") {
		t.Fatalf("expected bcrypt hash, got %s", hash)
	}
}

// Пустой пароль не хэшируется
func TestHashPassword_Empty(t *testing.T) {
	_, err := crypto.HashPassword("   ", bcryptParams())
	if err == nil {
		t.Fatal("expected error for empty password")
	}
}

// Неизвестный алгоритм
func TestHashPassword_UnknownHasher(t *testing.T) {
	_, err := crypto.HashPassword("strongpassword", crypto.PasswordParams{Hasher: "md5"})
	if err == nil {
		t.Fatal("expected error for unknown hasher")
	}
}

// Битый argon2id-хэш — ошибка, а не "не совпало"
func TestVerifyPassword_BrokenArgon2Hash(t *testing.T) {
	_, err := crypto.VerifyPassword("x", "argon2id$garbage")
	if err == nil {
		t.Fatal("expected error for broken hash")
	}
}

// Алгоритм определяется по хэшу: проверка работает после смены хэшера
func TestVerifyPassword_AutoDetect(t *testing.T) {
	bHash, err := crypto.HashPassword("strongpassword", bcryptParams())
	require.NoError(t, err)
	aHash, err := crypto.HashPassword("strongpassword", argon2Params())
	require.NoError(t, err)

	for _, h := range []string{bHash, aHash} {
		ok, err := crypto.VerifyPassword("strongpassword", h)
		require.NoError(t, err)
		if !ok {
			t.Fatalf("expected match for %s", h[:12])
		}
	}
}
