package tests

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/IvanChernomyrdin/go-auth-portal/internal/server/config"
	"github.com/IvanChernomyrdin/go-auth-portal/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-auth-portal/internal/server/models"
	"github.com/IvanChernomyrdin/go-auth-portal/internal/server/service"
	"github.com/IvanChernomyrdin/go-auth-portal/internal/server/service/mocks"
	serr "github.com/IvanChernomyrdin/go-auth-portal/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-auth-portal/internal/shared/utils"
)

var tokenHash = []byte("0123456789abcdef0123456789abcdef")

// конфиг с дешёвым bcrypt, чтобы тесты не тормозили
func testConfig() *config.Config {
	return &config.Config{
		Password: config.PasswordConfig{
			Hasher: "bcrypt",
			Bcrypt: config.BcryptConfig{Cost: 4},
		},
		Sessions: config.SessionsConfig{
			Store:      "db",
			CookieName: "portal_session",
			TTL:        24 * time.Hour,
		},
	}
}

// создаём сервис
func newAuthService(t *testing.T) (*service.AuthService, *mocks.MockUsersRepo, *mocks.MockSessionsRepo) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	users := mocks.NewMockUsersRepo(ctrl)
	sessions := mocks.NewMockSessionsRepo(ctrl)

	svc := service.NewAuthService(users, sessions, testConfig())
	return svc, users, sessions
}

func testHash(t *testing.T, password string) string {
	t.Helper()

	hash, err := crypto.HashPassword(password, crypto.PasswordParams{
		Hasher: "bcrypt",
		Bcrypt: crypto.BcryptParams{Cost: 4},
	})
	require.NoError(t, err)
	return hash
}

// Успех
func TestAuthService_Register_OK(t *testing.T) {
	ctx := context.Background()
	svc, users, sessions := newAuthService(t)

	users.EXPECT().
		GetByEmail(ctx, "test@mail.com").
		Return(models.User{}, serr.ErrNotFound)

	users.EXPECT().
		Create(ctx, "Test User", "test@mail.com", gomock.Any(), gomock.Any()).
		Return(int64(42), nil)

	sessions.EXPECT().
		SetUser(ctx, tokenHash, int64(42)).
		Return(nil)

	user, err := svc.Register(ctx, tokenHash, " Test User ", " Test@Mail.Com ", "strongpassword")
	require.NoError(t, err)

	if user.ID != 42 {
		t.Fatalf("expected id 42, got %d", user.ID)
	}
	// имя тримится, email нормализуется к нижнему регистру
	if user.Name != "Test User" || user.Email != "test@mail.com" {
		t.Fatalf("unexpected user: %+v", user)
	}
	// в хранилище ушёл хэш, не пароль
	if user.PasswordHash == "strongpassword" || user.PasswordHash == "" {
		t.Fatal("expected hashed password")
	}
}

// Email уже занят
func TestAuthService_Register_AlreadyExists(t *testing.T) {
	ctx := context.Background()
	svc, users, _ := newAuthService(t)

	users.EXPECT().
		GetByEmail(ctx, "test@mail.com").
		Return(models.User{ID: 1, Email: "test@mail.com"}, nil)

	_, err := svc.Register(ctx, tokenHash, "Test User", "test@mail.com", "strongpassword")

	if err != serr.ErrAlreadyExists {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

// Пустые поля
func TestAuthService_Register_InvalidInput(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newAuthService(t)

	_, err := svc.Register(ctx, tokenHash, "", "test@mail.com", "strongpassword")

	if err != serr.ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

// Успех
func TestAuthService_Attempt_OK(t *testing.T) {
	ctx := context.Background()
	svc, users, _ := newAuthService(t)

	hash := testHash(t, "strongpassword")

	users.EXPECT().
		GetByEmail(ctx, "test@mail.com").
		Return(models.User{ID: 7, Email: "test@mail.com", PasswordHash: hash}, nil)

	user, err := svc.Attempt(ctx, "Test@Mail.Com", "strongpassword")
	require.NoError(t, err)

	if user.ID != 7 {
		t.Fatalf("expected id 7, got %d", user.ID)
	}
}

// Неверный пароль
func TestAuthService_Attempt_WrongPassword(t *testing.T) {
	ctx := context.Background()
	svc, users, _ := newAuthService(t)

	hash := testHash(t, "strongpassword")

	users.EXPECT().
		GetByEmail(ctx, "test@mail.com").
		Return(models.User{ID: 7, PasswordHash: hash}, nil)

	_, err := svc.Attempt(ctx, "test@mail.com", "wrongpassword")

	if err != serr.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

// Неизвестный email даёт ту же ошибку, что и неверный пароль
func TestAuthService_Attempt_UnknownEmail(t *testing.T) {
	ctx := context.Background()
	svc, users, _ := newAuthService(t)

	users.EXPECT().
		GetByEmail(ctx, "missing@mail.com").
		Return(models.User{}, serr.ErrNotFound)

	_, err := svc.Attempt(ctx, "missing@mail.com", "whatever123")

	if err != serr.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

// Успех
func TestAuthService_CurrentUser_OK(t *testing.T) {
	ctx := context.Background()
	svc, users, sessions := newAuthService(t)

	userID := int64(7)

	sessions.EXPECT().
		Get(ctx, tokenHash).
		Return(models.Session{ID: uuid.New(), UserID: utils.Ptr(userID)}, nil)

	users.EXPECT().
		GetByID(ctx, userID).
		Return(models.User{ID: userID, Name: "Test User"}, nil)

	user, err := svc.CurrentUser(ctx, tokenHash)
	require.NoError(t, err)

	if user.ID != userID {
		t.Fatalf("expected id %d, got %d", userID, user.ID)
	}
}

// Анонимная сессия
func TestAuthService_CurrentUser_Anonymous(t *testing.T) {
	ctx := context.Background()
	svc, _, sessions := newAuthService(t)

	sessions.EXPECT().
		Get(ctx, tokenHash).
		Return(models.Session{ID: uuid.New()}, nil)

	_, err := svc.CurrentUser(ctx, tokenHash)

	if err != serr.ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

// Сессии нет
func TestAuthService_CurrentUser_NoSession(t *testing.T) {
	ctx := context.Background()
	svc, _, sessions := newAuthService(t)

	sessions.EXPECT().
		Get(ctx, tokenHash).
		Return(models.Session{}, serr.ErrNotFound)

	_, err := svc.CurrentUser(ctx, tokenHash)

	if err != serr.ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

// Пользователь сессии удалён
func TestAuthService_CurrentUser_UserDeleted(t *testing.T) {
	ctx := context.Background()
	svc, users, sessions := newAuthService(t)

	userID := int64(7)

	sessions.EXPECT().
		Get(ctx, tokenHash).
		Return(models.Session{ID: uuid.New(), UserID: utils.Ptr(userID)}, nil)

	users.EXPECT().
		GetByID(ctx, userID).
		Return(models.User{}, serr.ErrNotFound)

	_, err := svc.CurrentUser(ctx, tokenHash)

	if err != serr.ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

// Logout идемпотентен: просто отвязывает пользователя
func TestAuthService_Logout_OK(t *testing.T) {
	ctx := context.Background()
	svc, _, sessions := newAuthService(t)

	sessions.EXPECT().
		ClearUser(ctx, tokenHash).
		Return(nil)

	if err := svc.Logout(ctx, tokenHash); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// Flash проксируется в хранилище сессий
func TestAuthService_Flash_RoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, _, sessions := newAuthService(t)

	sessions.EXPECT().
		SetFlash(ctx, tokenHash, "Invalid email or password.").
		Return(nil)
	sessions.EXPECT().
		TakeFlash(ctx, tokenHash).
		Return("Invalid email or password.", nil)

	require.NoError(t, svc.Flash(ctx, tokenHash, "Invalid email or password."))

	flash, err := svc.TakeFlash(ctx, tokenHash)
	require.NoError(t, err)
	if flash != "Invalid email or password." {
		t.Fatalf("unexpected flash: %q", flash)
	}
}
