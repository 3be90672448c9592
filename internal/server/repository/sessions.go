package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"

	"github.com/IvanChernomyrdin/go-auth-portal/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-auth-portal/internal/shared/errors"
)

// SessionsRepository отвечает за хранение браузерных сессий в PostgreSQL.
//
// Используется для:
//   - привязки аутентифицированного пользователя к cookie-токену
//   - хранения одноразовых flash-сообщений
//
// Все операции ключуются SHA-256 хэшем токена (сам токен в БД не попадает).
type SessionsRepository struct {
	db *sql.DB
}

// NewSessionsRepository создает новый SessionsRepository.
func NewSessionsRepository(db *sql.DB) *SessionsRepository {
	return &SessionsRepository{db: db}
}

// Create создаёт новую пустую сессию (без пользователя и flash).
//
// Возвращает:
//   - id созданной сессии
//   - ErrAlreadyExists при коллизии токена или ErrInternal при других ошибках БД
func (r *SessionsRepository) Create(ctx context.Context, tokenHash []byte, expiresAt time.Time) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO sessions (token_hash, expires_at)
		 VALUES ($1,$2)
		 RETURNING id`,
		tokenHash, expiresAt,
	).Scan(&id)

	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == "23505" {
			return uuid.Nil, serr.ErrAlreadyExists
		}
		return uuid.Nil, serr.ErrInternal
	}
	return id, nil
}

// Get возвращает сессию по хэшу токена.
//
// Протухшие сессии не возвращаются (их добивает DeleteExpired).
//
// Ошибки:
//   - ErrNotFound если сессии нет или она истекла
//   - ErrInternal при ошибке БД
func (r *SessionsRepository) Get(ctx context.Context, tokenHash []byte) (models.Session, error) {
	var (
		s      models.Session
		userID sql.NullInt64
	)

	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, created_at, expires_at
		   FROM sessions
		  WHERE token_hash=$1
		    AND expires_at > now()`,
		tokenHash,
	).Scan(&s.ID, &userID, &s.CreatedAt, &s.ExpiresAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return models.Session{}, serr.ErrNotFound
		}
		return models.Session{}, serr.ErrInternal
	}

	if userID.Valid {
		v := userID.Int64
		s.UserID = &v
	}

	return s, nil
}

// SetUser привязывает пользователя к сессии (успешный логин/регистрация).
func (r *SessionsRepository) SetUser(ctx context.Context, tokenHash []byte, userID int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE sessions
		    SET user_id = $2
		  WHERE token_hash = $1`,
		tokenHash, userID,
	)
	if err != nil {
		return serr.ErrInternal
	}
	return nil
}

// ClearUser отвязывает пользователя от сессии (logout). Идемпотентна.
func (r *SessionsRepository) ClearUser(ctx context.Context, tokenHash []byte) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE sessions
		    SET user_id = NULL
		  WHERE token_hash = $1`,
		tokenHash,
	)
	if err != nil {
		return serr.ErrInternal
	}
	return nil
}

// SetFlash сохраняет flash-сообщение для следующего отрендеренного экрана.
func (r *SessionsRepository) SetFlash(ctx context.Context, tokenHash []byte, message string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE sessions
		    SET flash_error = $2
		  WHERE token_hash = $1`,
		tokenHash, message,
	)
	if err != nil {
		return serr.ErrInternal
	}
	return nil
}

// TakeFlash атомарно читает и стирает flash-сообщение.
//
// Одним запросом: flash показывается ровно один раз, даже при
// параллельных запросах одной сессии.
//
// Возвращает пустую строку, если сообщения нет (это не ошибка).
func (r *SessionsRepository) TakeFlash(ctx context.Context, tokenHash []byte) (string, error) {
	var flash sql.NullString

	err := r.db.QueryRowContext(ctx,
		`WITH old AS (
		    SELECT flash_error FROM sessions WHERE token_hash=$1 FOR UPDATE
		 )
		 UPDATE sessions s
		    SET flash_error = NULL
		   FROM old
		  WHERE s.token_hash = $1
		 RETURNING old.flash_error`,
		tokenHash,
	).Scan(&flash)

	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", serr.ErrInternal
	}

	if !flash.Valid {
		return "", nil
	}
	return flash.String, nil
}

// DeleteExpired удаляет протухшие сессии.
//
// Вызывается фоновой горутиной сервера по таймеру.
func (r *SessionsRepository) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at <= now()`,
	)
	if err != nil {
		return 0, serr.ErrInternal
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, serr.ErrInternal
	}
	return n, nil
}
