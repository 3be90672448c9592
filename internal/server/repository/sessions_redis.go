package repository

import (
	"context"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/IvanChernomyrdin/go-auth-portal/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-auth-portal/internal/shared/errors"
)

// Префикс ключей сессий в Redis.
const redisSessionPrefix = "session:"

// RedisSessionsRepository — альтернативное хранилище сессий в Redis
// (включается через sessions.store=redis).
//
// Сессия — redis-hash с полями id/user_id/flash_error/created_at/expires_at,
// протухание отдаёт сам Redis через TTL ключа, поэтому DeleteExpired — no-op.
// Контракт полностью повторяет SessionsRepository.
type RedisSessionsRepository struct {
	rdb *redis.Client
}

// NewRedisSessionsRepository создает RedisSessionsRepository поверх готового клиента.
func NewRedisSessionsRepository(rdb *redis.Client) *RedisSessionsRepository {
	return &RedisSessionsRepository{rdb: rdb}
}

func sessionKey(tokenHash []byte) string {
	return redisSessionPrefix + hex.EncodeToString(tokenHash)
}

// Create создаёт новую пустую сессию с TTL до expiresAt.
func (r *RedisSessionsRepository) Create(ctx context.Context, tokenHash []byte, expiresAt time.Time) (uuid.UUID, error) {
	id := uuid.New()
	now := time.Now()

	key := sessionKey(tokenHash)

	pipe := r.rdb.TxPipeline()
	pipe.HSet(ctx, key,
		"id", id.String(),
		"created_at", now.Format(time.RFC3339Nano),
		"expires_at", expiresAt.Format(time.RFC3339Nano),
	)
	pipe.ExpireAt(ctx, key, expiresAt)

	if _, err := pipe.Exec(ctx); err != nil {
		return uuid.Nil, serr.ErrInternal
	}
	return id, nil
}

// Get возвращает сессию по хэшу токена.
//
// Ошибки:
//   - ErrNotFound если ключа нет (в т.ч. когда TTL истёк)
//   - ErrInternal при ошибке Redis или битых данных
func (r *RedisSessionsRepository) Get(ctx context.Context, tokenHash []byte) (models.Session, error) {
	fields, err := r.rdb.HGetAll(ctx, sessionKey(tokenHash)).Result()
	if err != nil {
		return models.Session{}, serr.ErrInternal
	}
	if len(fields) == 0 {
		return models.Session{}, serr.ErrNotFound
	}

	var s models.Session

	if s.ID, err = uuid.Parse(fields["id"]); err != nil {
		return models.Session{}, serr.ErrInternal
	}
	if s.CreatedAt, err = time.Parse(time.RFC3339Nano, fields["created_at"]); err != nil {
		return models.Session{}, serr.ErrInternal
	}
	if s.ExpiresAt, err = time.Parse(time.RFC3339Nano, fields["expires_at"]); err != nil {
		return models.Session{}, serr.ErrInternal
	}

	if raw, ok := fields["user_id"]; ok {
		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return models.Session{}, serr.ErrInternal
		}
		s.UserID = &userID
	}

	return s, nil
}

// SetUser привязывает пользователя к сессии.
//
// Если ключа нет (сессия истекла между запросами) — молча выходим,
// чтобы не создать hash без TTL.
func (r *RedisSessionsRepository) SetUser(ctx context.Context, tokenHash []byte, userID int64) error {
	key := sessionKey(tokenHash)

	exists, err := r.rdb.Exists(ctx, key).Result()
	if err != nil {
		return serr.ErrInternal
	}
	if exists == 0 {
		return nil
	}

	if err := r.rdb.HSet(ctx, key, "user_id", userID).Err(); err != nil {
		return serr.ErrInternal
	}
	return nil
}

// ClearUser отвязывает пользователя от сессии. Идемпотентна.
func (r *RedisSessionsRepository) ClearUser(ctx context.Context, tokenHash []byte) error {
	if err := r.rdb.HDel(ctx, sessionKey(tokenHash), "user_id").Err(); err != nil {
		return serr.ErrInternal
	}
	return nil
}

// SetFlash сохраняет flash-сообщение.
func (r *RedisSessionsRepository) SetFlash(ctx context.Context, tokenHash []byte, message string) error {
	key := sessionKey(tokenHash)

	exists, err := r.rdb.Exists(ctx, key).Result()
	if err != nil {
		return serr.ErrInternal
	}
	if exists == 0 {
		return nil
	}

	if err := r.rdb.HSet(ctx, key, "flash_error", message).Err(); err != nil {
		return serr.ErrInternal
	}
	return nil
}

// TakeFlash атомарно (MULTI/EXEC) читает и стирает flash-сообщение.
func (r *RedisSessionsRepository) TakeFlash(ctx context.Context, tokenHash []byte) (string, error) {
	key := sessionKey(tokenHash)

	pipe := r.rdb.TxPipeline()
	get := pipe.HGet(ctx, key, "flash_error")
	pipe.HDel(ctx, key, "flash_error")

	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return "", serr.ErrInternal
	}

	flash, err := get.Result()
	if err != nil {
		// redis.Nil — поля нет, flash не был установлен
		if err == redis.Nil {
			return "", nil
		}
		return "", serr.ErrInternal
	}
	return flash, nil
}

// DeleteExpired — для Redis ничего не делает: протуханием занимается TTL.
func (r *RedisSessionsRepository) DeleteExpired(ctx context.Context) (int64, error) {
	return 0, nil
}
