// Серверные модели пользователя и сессии
package models

import (
	"time"

	"github.com/google/uuid"
)

// User — запись пользователя.
//
// Запись неизменяемая: после сохранения в БД создаётся новый экземпляр
// с проставленным ID, существующий не мутируется.
//
// Поля:
//   - ID: назначается базой (BIGSERIAL), 0 до сохранения
//   - Email: уникален среди всех пользователей
//   - PasswordHash: только хэш, сырой пароль нигде не хранится
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Session — серверная сессия браузерного клиента.
//
// Клиент держит только случайный токен в cookie, сервер — его SHA-256 хэш.
// UserID проставлен только у аутентифицированных сессий.
// Flash-сообщение читается отдельной операцией TakeFlash (одноразовое),
// поэтому в модель не входит.
type Session struct {
	ID        uuid.UUID
	UserID    *int64
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Authenticated сообщает, привязан ли к сессии пользователь.
func (s Session) Authenticated() bool {
	return s.UserID != nil
}
