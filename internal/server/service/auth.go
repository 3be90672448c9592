package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/IvanChernomyrdin/go-auth-portal/internal/server/config"
	"github.com/IvanChernomyrdin/go-auth-portal/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-auth-portal/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-auth-portal/internal/shared/errors"
)

// AuthService реализует бизнес-логику аутентификации и жизненного цикла сессии.
//
// Ответственность:
//   - регистрация пользователей (с проверкой занятости email)
//   - аутентификация по email/паролю
//   - привязка/отвязка пользователя к сессии (login/logout)
//   - определение текущего пользователя по сессии
//   - одноразовые flash-сообщения сессии
//
// Побочные эффекты ограничены записями в репозитории; HTTP-поведением
// (редиректы, cookie) занимается api слой.
type AuthService struct {
	users    UsersRepo
	sessions SessionsRepo

	pass crypto.PasswordParams
}

// NewAuthService создаёт AuthService с зависимостями и настройками из конфига.
func NewAuthService(users UsersRepo, sessions SessionsRepo, cfg *config.Config) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,

		pass: crypto.PasswordParams{
			Hasher: cfg.Password.Hasher,
			Bcrypt: crypto.BcryptParams{
				Cost: cfg.Password.Bcrypt.Cost,
			},
			Argon2: crypto.Argon2Params{
				Time:      cfg.Password.Argon2.Time,
				MemoryKiB: cfg.Password.Argon2.MemoryKiB,
				Threads:   cfg.Password.Argon2.Threads,
				KeyLen:    cfg.Password.Argon2.KeyLen,
				SaltLen:   cfg.Password.Argon2.SaltLen,
			},
		},
	}
}

// Register регистрирует нового пользователя и привязывает его к сессии.
//
// Порядок: проверка занятости email -> хэш пароля -> INSERT -> привязка
// к сессии. Проверка занятости до INSERT оставляет узкое окно гонки при
// конкурирующей регистрации одного email; уникальный индекс в БД закрывает
// его — повторный INSERT тоже вернёт ErrAlreadyExists.
//
// Возвращает:
//   - нового пользователя с проставленным id
//   - ErrInvalidInput при пустых полях, ErrAlreadyExists если email занят
func (s *AuthService) Register(ctx context.Context, tokenHash []byte, name, email, password string) (models.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(strings.ToLower(email))

	if name == "" || email == "" || password == "" {
		return models.User{}, serr.ErrInvalidInput
	}

	// проверяем что email свободен
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return models.User{}, serr.ErrAlreadyExists
	} else if !errors.Is(err, serr.ErrNotFound) {
		return models.User{}, err
	}

	hash, err := crypto.HashPassword(password, s.pass)
	if err != nil {
		return models.User{}, serr.ErrInternal
	}

	createdAt := time.Now()

	id, err := s.users.Create(ctx, name, email, hash, createdAt)
	if err != nil {
		return models.User{}, err
	}

	// запись неизменяемая: собираем новый экземпляр с id из БД
	user := models.User{
		ID:           id,
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    createdAt,
	}

	if err := s.sessions.SetUser(ctx, tokenHash, id); err != nil {
		return models.User{}, err
	}

	return user, nil
}

// Attempt аутентифицирует пользователя по email/паролю.
//
// Поведение:
//   - не раскрывает факт существования email (одна ошибка на оба случая)
//   - проверка пароля константна по времени
//
// Ошибки:
//   - ErrInvalidInput
//   - ErrInvalidCredentials
func (s *AuthService) Attempt(ctx context.Context, email, password string) (models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return models.User{}, serr.ErrInvalidInput
	}
	// получаем юзера по email
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		// не палим существование email
		if errors.Is(err, serr.ErrNotFound) {
			return models.User{}, serr.ErrInvalidCredentials
		}
		return models.User{}, err
	}
	// проверяем пароль
	ok, err := crypto.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return models.User{}, serr.ErrInternal
	}
	if !ok {
		return models.User{}, serr.ErrInvalidCredentials
	}

	return user, nil
}

// SignIn привязывает пользователя к сессии после успешного Attempt.
func (s *AuthService) SignIn(ctx context.Context, tokenHash []byte, userID int64) error {
	return s.sessions.SetUser(ctx, tokenHash, userID)
}

// CurrentUser возвращает пользователя текущей сессии.
//
// Ошибки:
//   - ErrUnauthorized если сессии нет, в ней нет user_id
//     или id больше не указывает на существующего пользователя
func (s *AuthService) CurrentUser(ctx context.Context, tokenHash []byte) (models.User, error) {
	sess, err := s.sessions.Get(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return models.User{}, serr.ErrUnauthorized
		}
		return models.User{}, err
	}

	if !sess.Authenticated() {
		return models.User{}, serr.ErrUnauthorized
	}

	user, err := s.users.GetByID(ctx, *sess.UserID)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return models.User{}, serr.ErrUnauthorized
		}
		return models.User{}, err
	}

	return user, nil
}

// FindUserByID возвращает пользователя по id без участия сессии.
//
// Используется страницей профиля. Проверки владения нет намеренно:
// любой аутентифицированный пользователь может открыть любой профиль.
func (s *AuthService) FindUserByID(ctx context.Context, id int64) (models.User, error) {
	return s.users.GetByID(ctx, id)
}

// Logout отвязывает пользователя от сессии. Идемпотентна.
func (s *AuthService) Logout(ctx context.Context, tokenHash []byte) error {
	return s.sessions.ClearUser(ctx, tokenHash)
}

// Flash сохраняет одноразовое flash-сообщение в сессии.
func (s *AuthService) Flash(ctx context.Context, tokenHash []byte, message string) error {
	return s.sessions.SetFlash(ctx, tokenHash, message)
}

// TakeFlash читает и одновременно стирает flash-сообщение сессии.
// Пустая строка — сообщения не было.
func (s *AuthService) TakeFlash(ctx context.Context, tokenHash []byte) (string, error) {
	return s.sessions.TakeFlash(ctx, tokenHash)
}
