// Package service содержит бизнес-логику приложения (auth-portal).
// Это прослойка между HTTP-обработчиками (api) и хранилищем данных (repository).
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/go-auth-portal/internal/server/config"
	"github.com/IvanChernomyrdin/go-auth-portal/internal/server/models"
)

// Repositories — набор интерфейсов, которые сервисный слой ожидает от слоя repository.
type Repositories struct {
	Users    UsersRepo
	Sessions SessionsRepo
}

// Services — агрегатор всех сервисов приложения.
type Services struct {
	Auth *AuthService
}

// NewServices собирает все сервисы приложения.
// cfg нужен AuthService (параметры хеширования пароля).
func NewServices(repos Repositories, cfg *config.Config) *Services {
	return &Services{
		Auth: NewAuthService(repos.Users, repos.Sessions, cfg),
	}
}

// UsersRepo — репозиторий пользователей.
type UsersRepo interface {
	Create(ctx context.Context, name, email, passwordHash string, createdAt time.Time) (int64, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id int64) (models.User, error)
}

// SessionsRepo — хранилище браузерных сессий (Postgres или Redis).
//
// Все операции ключуются SHA-256 хэшем cookie-токена.
type SessionsRepo interface {
	Create(ctx context.Context, tokenHash []byte, expiresAt time.Time) (uuid.UUID, error)
	Get(ctx context.Context, tokenHash []byte) (models.Session, error)
	SetUser(ctx context.Context, tokenHash []byte, userID int64) error
	ClearUser(ctx context.Context, tokenHash []byte) error
	SetFlash(ctx context.Context, tokenHash []byte, message string) error
	TakeFlash(ctx context.Context, tokenHash []byte) (string, error)
	DeleteExpired(ctx context.Context) (int64, error)
}
