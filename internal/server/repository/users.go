// Package repository содержит реализации слоя доступа к данным (Repository layer).
//
// Репозитории инкапсулируют работу с БД и не содержат бизнес-логики.
// Все ошибки приводятся к доменным ошибкам из internal/shared/errors.
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/jackc/pgconn"

	"github.com/IvanChernomyrdin/go-auth-portal/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-auth-portal/internal/shared/errors"
)

// UsersRepository отвечает за хранение учётных записей пользователей.
type UsersRepository struct {
	db *sql.DB
}

func NewUsersRepository(db *sql.DB) *UsersRepository {
	return &UsersRepository{db: db}
}

// Create сохраняет нового пользователя и возвращает назначенный базой id.
//
// Уникальный индекс на email закрывает гонку check-then-insert в сервисе:
// при конкурирующей регистрации того же email второй INSERT получает
// unique_violation и превращается в ErrAlreadyExists.
func (r *UsersRepository) Create(ctx context.Context, name, email, passwordHash string, createdAt time.Time) (int64, error) {
	var id int64

	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (name, email, password_hash, created_at)
		 VALUES ($1,$2,$3,$4)
		 RETURNING id`,
		name, email, passwordHash, createdAt,
	).Scan(&id)

	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok {
			if pgErr.Code == "23505" { // unique_violation
				return 0, serr.ErrAlreadyExists
			}
		}
		return 0, serr.ErrInternal
	}

	return id, nil
}

// GetByEmail возвращает пользователя по email.
func (r *UsersRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return r.getBy(ctx,
		`SELECT id, name, email, password_hash, created_at FROM users WHERE email=$1`,
		email,
	)
}

// GetByID возвращает пользователя по id.
func (r *UsersRepository) GetByID(ctx context.Context, id int64) (models.User, error) {
	return r.getBy(ctx,
		`SELECT id, name, email, password_hash, created_at FROM users WHERE id=$1`,
		id,
	)
}

func (r *UsersRepository) getBy(ctx context.Context, query string, arg any) (models.User, error) {
	var u models.User

	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, serr.ErrNotFound
		}
		return models.User{}, serr.ErrInternal
	}

	return u, nil
}
